// internal/game/snapshot.go
//
// Immutable render snapshot: everything the presentation layer needs to draw
// a frame, as plain data. Building a snapshot never mutates the session.

package game

// Snapshot describes the full visible state of a session.
type Snapshot struct {
	Page        string          `json:"page"`
	Mode        string          `json:"mode"`
	Dirty       bool            `json:"dirty"`
	CurrentTeam string          `json:"currentTeam"`
	Teams       [2]TeamSnapshot `json:"teams"`
	Word        WordSnapshot    `json:"word"`
	Timer       *TimerSnapshot  `json:"timer,omitempty"` // super diveno only
	Tombola     TombolaSnapshot `json:"tombola"`
	Grids       [2]GridSnapshot `json:"grids"`
}

// TeamSnapshot is one team's tally.
type TeamSnapshot struct {
	Score       int `json:"score"`
	WordsSolved int `json:"wordsSolved"`
}

// LetterSnapshot is one scored letter of an accepted guess.
type LetterSnapshot struct {
	Ch       string `json:"ch"`
	Feedback string `json:"feedback"` // "exact" | "present" | "absent"
}

// WordSnapshot carries the word-puzzle page contents. Visible holds the
// revealed secret letters position by position, with "" for hidden ones;
// the secret itself never crosses the render boundary.
type WordSnapshot struct {
	Length       int                `json:"length"`
	Rows         int                `json:"rows"`
	Current      string             `json:"current"`
	Guesses      [][]LetterSnapshot `json:"guesses"`
	Visible      []string           `json:"visible"`
	HintsGiven   int                `json:"hintsGiven"`
	Solved       bool               `json:"solved"`
	LastRejected string             `json:"lastRejected,omitempty"`
}

// TimerSnapshot is the countdown display state.
type TimerSnapshot struct {
	RemainingMs int64  `json:"remainingMs"`
	State       string `json:"state"` // "stopped" | "running" | "paused"
}

// TombolaSnapshot is the ball pool display state.
type TombolaSnapshot struct {
	Remaining int   `json:"remaining"`
	Drawn     []int `json:"drawn"`
}

// LineSnapshot identifies one completed bingo line.
type LineSnapshot struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
}

// GridSnapshot is one team's bingo card, row-major.
type GridSnapshot struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Cells  []int          `json:"cells"`
	Marked []bool         `json:"marked"`
	Lines  []LineSnapshot `json:"lines"`
}

var feedbackNames = [...]string{
	FeedbackAbsent:  "absent",
	FeedbackPresent: "present",
	FeedbackExact:   "exact",
}

// Snapshot renders the session state to plain data.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Page:        s.page.String(),
		Mode:        s.mode.String(),
		Dirty:       s.dirty,
		CurrentTeam: s.board.Current().String(),
		Word:        s.wordSnapshot(),
		Tombola: TombolaSnapshot{
			Remaining: s.tomb.Remaining(),
			Drawn:     s.tomb.Drawn(),
		},
	}
	for side := SideLeft; side <= SideRight; side++ {
		t := s.board.Team(side)
		snap.Teams[side] = TeamSnapshot{Score: t.Score, WordsSolved: t.WordsSolved}
		snap.Grids[side] = gridSnapshot(s.grids[side])
	}
	if s.mode == ModeSuperDiveno {
		snap.Timer = &TimerSnapshot{
			RemainingMs: s.timer.Remaining().Milliseconds(),
			State:       s.timer.State().String(),
		}
	}
	return snap
}

func (s *Session) wordSnapshot() WordSnapshot {
	p := s.puzzle
	w := WordSnapshot{
		Length:       p.Len(),
		Rows:         s.cfg.GuessRows,
		Current:      string(p.Current()),
		HintsGiven:   p.HintsGiven(),
		Solved:       p.Solved(),
		LastRejected: p.LastRejected(),
	}
	secret := []rune(p.Secret())
	revealed := p.Revealed()
	w.Visible = make([]string, len(secret))
	for i, r := range secret {
		if revealed&(1<<uint(i)) != 0 {
			w.Visible[i] = string(r)
		}
	}
	for _, g := range p.Guesses() {
		row := make([]LetterSnapshot, len(g))
		for i, l := range g {
			row[i] = LetterSnapshot{Ch: string(l.Ch), Feedback: feedbackNames[l.Feedback]}
		}
		w.Guesses = append(w.Guesses, row)
	}
	return w
}

func gridSnapshot(g *Grid) GridSnapshot {
	w, h := g.Size()
	gs := GridSnapshot{
		Width:  w,
		Height: h,
		Cells:  g.Cells(),
		Marked: make([]bool, w*h),
	}
	marked := g.Marked()
	for i := range gs.Marked {
		gs.Marked[i] = marked&(1<<uint(i)) != 0
	}
	for _, l := range g.CompletedLines() {
		gs.Lines = append(gs.Lines, LineSnapshot{Kind: l.Kind.String(), Index: l.Index})
	}
	return gs
}
