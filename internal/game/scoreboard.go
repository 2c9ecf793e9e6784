// internal/game/scoreboard.go
//
// Two-team scores, words-solved counters and turn tracking. Scores may go
// negative: the up/down keys are a manual host correction path.

package game

// Side identifies one of the two teams (and the matching bingo grid).
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Other returns the opposite side.
func (s Side) Other() Side { return 1 - s }

// Team is one team's tally. WordsSolved only matters in super diveno, where
// the count of solved words replaces the score display.
type Team struct {
	Score       int
	WordsSolved int
}

// Scoreboard holds both teams and whose turn it is.
type Scoreboard struct {
	teams   [2]Team
	current Side
}

// NewScoreboard starts with zero scores and the left team's turn.
func NewScoreboard() *Scoreboard { return &Scoreboard{} }

// Current returns the side whose turn it is.
func (s *Scoreboard) Current() Side { return s.current }

// Team returns a copy of one team's tally.
func (s *Scoreboard) Team(side Side) Team { return s.teams[side] }

// AdjustCurrent adds delta to the current team's score. Used for game
// awards: solved words and completed bingo lines.
func (s *Scoreboard) AdjustCurrent(delta int) {
	s.teams[s.current].Score += delta
}

// Adjust adds delta to the named team's score, independent of whose turn it
// is. This is the manual correction path behind the up/down keys.
func (s *Scoreboard) Adjust(side Side, delta int) {
	s.teams[side].Score += delta
}

// SwitchTeam flips the turn. Allowed at any moment, including mid-guess:
// the host may need to fix the turn order while letters are on screen.
func (s *Scoreboard) SwitchTeam() {
	s.current = s.current.Other()
}

// IncrementWordsSolved bumps a team's solved-word counter (super diveno).
func (s *Scoreboard) IncrementWordsSolved(side Side) {
	s.teams[side].WordsSolved++
}

// DecrementWordsSolved reverts a solved-word award after a host rejection.
func (s *Scoreboard) DecrementWordsSolved(side Side) {
	if s.teams[side].WordsSolved > 0 {
		s.teams[side].WordsSolved--
	}
}
