// internal/game/event.go
//
// Presentation events. The session queues these while handling commands and
// ticks; the presentation layer drains them to trigger sounds and flashes.
// Each distinct event is queued at most once until drained, so a burst of
// grid edits produces a single redraw cue.

package game

// EventKind enumerates the presentation signals.
type EventKind int

const (
	EventWordChanged EventKind = iota
	EventGridChanged
	EventGuessEntered
	EventWrongGuessEntered // invalid length or failed dictionary lookup
	EventGuessRejected     // host withdrew an accepted guess
	EventSolved
	EventPageChanged
	EventTeamChanged
	EventScoreChanged
	EventBallDrawn
	EventBingoChanged // a drawn ball marked a cell on some grid
	EventBingo        // a line was completed
	EventBingoReset   // a fresh grid was issued
	EventNoBallsRemaining
	EventNoWordAvailable
	EventSuperDivenoToggled
	EventSuperDivenoPauseToggled
	EventTimerExpired
)

var eventNames = map[EventKind]string{
	EventWordChanged:             "word_changed",
	EventGridChanged:             "grid_changed",
	EventGuessEntered:            "guess_entered",
	EventWrongGuessEntered:       "wrong_guess_entered",
	EventGuessRejected:           "guess_rejected",
	EventSolved:                  "solved",
	EventPageChanged:             "page_changed",
	EventTeamChanged:             "team_changed",
	EventScoreChanged:            "score_changed",
	EventBallDrawn:               "ball_drawn",
	EventBingoChanged:            "bingo_changed",
	EventBingo:                   "bingo",
	EventBingoReset:              "bingo_reset",
	EventNoBallsRemaining:        "no_balls_remaining",
	EventNoWordAvailable:         "no_word_available",
	EventSuperDivenoToggled:      "super_diveno_toggled",
	EventSuperDivenoPauseToggled: "super_diveno_pause_toggled",
	EventTimerExpired:            "timer_expired",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "unknown"
}

// Event is one queued presentation signal. Side, Ball and Line carry the
// payload for the kinds that have one; comparable so the queue can dedup.
type Event struct {
	Kind EventKind
	Side Side
	Ball int
	Line Line
}
