// internal/game/session.go
//
// GameSession: the top-level state machine. Owns one word puzzle, the
// scoreboard, the shared tombola and both bingo grids; receives abstract
// commands, mutates sub-state and queues presentation events. Single
// threaded; the caller serializes commands and ticks.
//
// Every command is legal in every state. A command that does not apply to
// the current page or mode is a no-op (HandleCommand reports false), never
// an error: a host fumbling keys must not be able to wedge the session.

package game

import (
	"math/rand"
	"time"
	"unicode"
)

// Page is the visible page. It is independent of whose turn it is.
type Page int

const (
	PageLeftBingo Page = iota
	PageWordPuzzle
	PageRightBingo
)

func (p Page) String() string {
	switch p {
	case PageLeftBingo:
		return "left_bingo"
	case PageRightBingo:
		return "right_bingo"
	default:
		return "word_puzzle"
	}
}

// Mode selects normal play or the timed super diveno variant.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSuperDiveno
)

func (m Mode) String() string {
	if m == ModeSuperDiveno {
		return "super_diveno"
	}
	return "normal"
}

// fallbackWord is used when the word source has nothing for the requested
// length, so a session always starts with a playable puzzle.
const fallbackWord = "ERARO"

// WordSource supplies secret words and validates guesses.
type WordSource interface {
	Lookup
	NextWord(length int) (string, bool)
}

// Config carries the tunable rules of a session.
type Config struct {
	WordLength         int           // preferred secret length for NewWord
	PoolSize           int           // tombola balls per round
	GridWidth          int           // bingo grid columns
	GridHeight         int           // bingo grid rows
	Diagonals          bool          // count diagonal lines on square grids
	FreeSpaces         int           // pre-covered cells on a fresh grid
	GuessRows          int           // rows the renderer should lay out
	WordAwardPerLetter int           // solve award = this × word length
	LineAward          int           // bingo line award
	ScoreStep          int           // manual up/down increment
	SuperDivenoTime    time.Duration // countdown per super diveno round
}

// DefaultConfig returns the standard shared-screen setup: 5-letter words on
// a six-row grid, a 25-ball tombola feeding 5×5 bingo cards.
func DefaultConfig() Config {
	return Config{
		WordLength:         5,
		PoolSize:           25,
		GridWidth:          5,
		GridHeight:         5,
		Diagonals:          true,
		FreeSpaces:         0,
		GuessRows:          6,
		WordAwardPerLetter: 10,
		LineAward:          100,
		ScoreStep:          10,
		SuperDivenoTime:    5 * time.Minute,
	}
}

// solveRecord remembers the award attached to the current solved word so a
// host rejection of the solving guess can revert it exactly.
type solveRecord struct {
	side   Side
	points int
	super  bool
}

// Session is the orchestrator. Not safe for concurrent use.
type Session struct {
	ID string

	cfg    Config
	words  WordSource
	rng    *rand.Rand
	page   Page
	mode   Mode
	puzzle *Puzzle
	board  *Scoreboard
	tomb   *Tombola
	grids  [2]*Grid
	timer  *Countdown

	events    []Event
	dirty     bool
	lastSolve *solveRecord
}

// NewSession builds a session on the word-puzzle page in normal mode, with a
// first word already picked and fresh grids issued to both teams.
func NewSession(id string, cfg Config, words WordSource, rng *rand.Rand) *Session {
	s := &Session{
		ID:    id,
		cfg:   cfg,
		words: words,
		rng:   rng,
		page:  PageWordPuzzle,
		board: NewScoreboard(),
		tomb:  NewTombola(cfg.PoolSize, rng),
		timer: NewCountdown(cfg.SuperDivenoTime),
	}
	for side := SideLeft; side <= SideRight; side++ {
		g := NewGrid(cfg.GridWidth, cfg.GridHeight, cfg.Diagonals)
		g.Generate(cfg.PoolSize, cfg.FreeSpaces, rng)
		s.grids[side] = g
	}
	s.puzzle = NewPuzzle(s.pickWord())
	s.queue(Event{Kind: EventWordChanged})
	s.queue(Event{Kind: EventGridChanged})
	return s
}

// pickWord asks the word source for a secret of the configured length,
// falling back to a fixed word so the session is always playable.
func (s *Session) pickWord() []rune {
	if s.words != nil {
		if w, ok := s.words.NextWord(s.cfg.WordLength); ok {
			if secret, valid := NormalizeWord(w); valid {
				return secret
			}
		}
	}
	secret, _ := NormalizeWord(fallbackWord)
	return secret
}

// HandleCommand applies one abstract command. It reports whether the command
// changed or signalled anything; false means it was ignored in this state.
func (s *Session) HandleCommand(cmd Command, now time.Time) bool {
	switch cmd.Kind {
	case CmdNavigatePage:
		return s.navigate(cmd.Dir)
	case CmdAdjustScore:
		return s.adjustScore(cmd)
	case CmdToggleTeamOrTimer:
		return s.toggleTeamOrTimer(now)
	case CmdToggleSuperDiveno:
		return s.toggleSuperDiveno()
	case CmdPushLetter:
		return s.onWordPage(func() bool {
			if !s.puzzle.PushLetter(unicode.ToUpper(cmd.Letter)) {
				return false
			}
			s.queue(Event{Kind: EventGridChanged})
			return true
		})
	case CmdToggleHint:
		return s.onWordPage(func() bool {
			if !s.puzzle.ToggleHatOnLast() {
				return false
			}
			s.queue(Event{Kind: EventGridChanged})
			return true
		})
	case CmdPopLetter:
		return s.onWordPage(func() bool {
			if !s.puzzle.PopLetter() {
				return false
			}
			s.queue(Event{Kind: EventGridChanged})
			return true
		})
	case CmdSubmitGuess:
		return s.onWordPage(s.submitGuess)
	case CmdRejectGuess:
		return s.onWordPage(s.rejectGuess)
	case CmdAddHint:
		return s.onWordPage(func() bool {
			if !s.puzzle.AddHint() {
				return false
			}
			s.queue(Event{Kind: EventGridChanged})
			return true
		})
	case CmdNewWord:
		return s.onWordPage(s.newWord)
	case CmdDrawBall:
		return s.onBingoPage(func(Side) bool { return s.drawBall() })
	case CmdNewGrid:
		return s.onBingoPage(s.newGrid)
	}
	return false
}

// Tick advances the super diveno countdown to now. Called once per render
// tick; harmless in normal mode or with the timer stopped.
func (s *Session) Tick(now time.Time) {
	if s.mode != ModeSuperDiveno {
		return
	}
	if s.timer.Tick(now) {
		s.queue(Event{Kind: EventTimerExpired})
	}
}

// TakeEvents drains the queued presentation events.
func (s *Session) TakeEvents() []Event {
	out := s.events
	s.events = nil
	return out
}

// Dirty reports whether state changed since MarkRendered.
func (s *Session) Dirty() bool { return s.dirty }

// MarkRendered clears the dirty flag after the presentation layer has drawn
// the current snapshot.
func (s *Session) MarkRendered() { s.dirty = false }

// ---------------------------- command handlers -----------------------------

// navigate moves one page left or right, saturating at the bingo pages.
func (s *Session) navigate(dir Direction) bool {
	next := s.page
	if dir == DirLeft && s.page > PageLeftBingo {
		next--
	}
	if dir == DirRight && s.page < PageRightBingo {
		next++
	}
	if next == s.page {
		return false
	}
	s.page = next
	s.queue(Event{Kind: EventPageChanged})
	s.queue(Event{Kind: EventGridChanged})
	return true
}

// adjustScore applies the manual up/down correction. The target team is the
// one named by the command or, otherwise, the team of the visible page; on
// the word page that is the current turn team. A zero delta adjusts nothing.
func (s *Session) adjustScore(cmd Command) bool {
	if cmd.Delta == 0 {
		return false
	}
	side := cmd.Side
	if !cmd.SideSet {
		switch s.page {
		case PageLeftBingo:
			side = SideLeft
		case PageRightBingo:
			side = SideRight
		default:
			side = s.board.Current()
		}
	}
	delta := s.cfg.ScoreStep
	if cmd.Delta < 0 {
		delta = -delta
	}
	s.board.Adjust(side, delta)
	s.queue(Event{Kind: EventScoreChanged, Side: side})
	return true
}

// toggleTeamOrTimer switches the turn in normal mode; in super diveno the
// same key drives the countdown (start, pause, resume).
func (s *Session) toggleTeamOrTimer(now time.Time) bool {
	if s.mode == ModeSuperDiveno {
		before := s.timer.State()
		s.timer.Toggle(now)
		if s.timer.State() == before {
			return false
		}
		s.queue(Event{Kind: EventSuperDivenoPauseToggled})
		return true
	}
	s.board.SwitchTeam()
	s.queue(Event{Kind: EventTeamChanged})
	return true
}

// toggleSuperDiveno flips the mode. Entering resets the countdown to the
// configured duration, stopped; leaving discards it and the score display
// returns.
func (s *Session) toggleSuperDiveno() bool {
	if s.mode == ModeSuperDiveno {
		s.mode = ModeNormal
	} else {
		s.mode = ModeSuperDiveno
		s.timer.Reset(s.cfg.SuperDivenoTime)
	}
	s.queue(Event{Kind: EventSuperDivenoToggled})
	return true
}

func (s *Session) submitGuess() bool {
	switch s.puzzle.Submit(s.words) {
	case GuessIgnored:
		return false
	case GuessInvalidLength:
		s.queue(Event{Kind: EventWrongGuessEntered})
		return true
	case GuessNotAWord:
		s.queue(Event{Kind: EventWrongGuessEntered})
		s.queue(Event{Kind: EventGridChanged})
		return true
	case GuessSolved:
		s.queue(Event{Kind: EventGuessEntered})
		s.queue(Event{Kind: EventGridChanged})
		s.queue(Event{Kind: EventSolved})
		s.awardSolve()
		return true
	default: // GuessAccepted
		s.queue(Event{Kind: EventGuessEntered})
		s.queue(Event{Kind: EventGridChanged})
		return true
	}
}

// awardSolve credits the current team for the solved word and, in super
// diveno, bumps its solved-word counter. The record allows an exact revert
// if the host rejects the solving guess.
func (s *Session) awardSolve() {
	side := s.board.Current()
	points := s.cfg.WordAwardPerLetter * s.puzzle.Len()
	s.board.AdjustCurrent(points)
	super := s.mode == ModeSuperDiveno
	if super {
		s.board.IncrementWordsSolved(side)
	}
	s.lastSolve = &solveRecord{side: side, points: points, super: super}
	s.queue(Event{Kind: EventScoreChanged, Side: side})
}

func (s *Session) rejectGuess() bool {
	withdrawn, wasSolving := s.puzzle.RejectLast()
	if !withdrawn {
		return false
	}
	s.queue(Event{Kind: EventGuessRejected})
	s.queue(Event{Kind: EventGridChanged})
	if wasSolving && s.lastSolve != nil {
		s.board.Adjust(s.lastSolve.side, -s.lastSolve.points)
		if s.lastSolve.super {
			s.board.DecrementWordsSolved(s.lastSolve.side)
		}
		s.queue(Event{Kind: EventScoreChanged, Side: s.lastSolve.side})
		s.lastSolve = nil
	}
	return true
}

func (s *Session) newWord() bool {
	if s.words == nil {
		return false
	}
	w, ok := s.words.NextWord(s.cfg.WordLength)
	if !ok {
		s.queue(Event{Kind: EventNoWordAvailable})
		return true
	}
	secret, valid := NormalizeWord(w)
	if !valid {
		s.queue(Event{Kind: EventNoWordAvailable})
		return true
	}
	s.puzzle.Start(secret)
	s.lastSolve = nil
	s.queue(Event{Kind: EventWordChanged})
	s.queue(Event{Kind: EventGridChanged})
	return true
}

// drawBall pulls one ball from the shared pool and marks it on both grids:
// the pool is shared, so line completion must not depend on which page the
// host is looking at. Each completed line pays the team owning that grid.
func (s *Session) drawBall() bool {
	ball, err := s.tomb.Draw()
	if err != nil {
		s.queue(Event{Kind: EventNoBallsRemaining})
		return true
	}
	s.queue(Event{Kind: EventBallDrawn, Ball: ball})
	for side := SideLeft; side <= SideRight; side++ {
		changed, lines := s.grids[side].Mark(ball)
		if changed {
			s.queue(Event{Kind: EventBingoChanged, Side: side})
		}
		for _, line := range lines {
			s.board.Adjust(side, s.cfg.LineAward)
			s.queue(Event{Kind: EventBingo, Side: side, Line: line})
			s.queue(Event{Kind: EventScoreChanged, Side: side})
		}
	}
	s.queue(Event{Kind: EventGridChanged})
	return true
}

// newGrid issues a fresh card to the visible side's team and puts all the
// balls back in the tombola.
func (s *Session) newGrid(side Side) bool {
	s.grids[side].Generate(s.cfg.PoolSize, s.cfg.FreeSpaces, s.rng)
	s.tomb.Reset(s.cfg.PoolSize)
	s.queue(Event{Kind: EventBingoReset, Side: side})
	s.queue(Event{Kind: EventGridChanged})
	return true
}

// ------------------------------- plumbing ----------------------------------

func (s *Session) onWordPage(fn func() bool) bool {
	if s.page != PageWordPuzzle {
		return false
	}
	return fn()
}

func (s *Session) onBingoPage(fn func(Side) bool) bool {
	switch s.page {
	case PageLeftBingo:
		return fn(SideLeft)
	case PageRightBingo:
		return fn(SideRight)
	default:
		return false
	}
}

// queue appends an event unless an identical one is already pending, and
// marks the session dirty.
func (s *Session) queue(ev Event) {
	s.dirty = true
	for _, q := range s.events {
		if q == ev {
			return
		}
	}
	s.events = append(s.events, ev)
}

// ------------------------------- accessors ---------------------------------

// Page returns the visible page.
func (s *Session) Page() Page { return s.page }

// Mode returns the current mode.
func (s *Session) Mode() Mode { return s.mode }

// Puzzle exposes the word puzzle (read-mostly; mutate via commands).
func (s *Session) Puzzle() *Puzzle { return s.puzzle }

// Scoreboard exposes the team tallies.
func (s *Session) Scoreboard() *Scoreboard { return s.board }

// Tombola exposes the shared ball pool.
func (s *Session) Tombola() *Tombola { return s.tomb }

// Grid returns one team's bingo card.
func (s *Session) Grid(side Side) *Grid { return s.grids[side] }

// Timer exposes the super diveno countdown.
func (s *Session) Timer() *Countdown { return s.timer }
