// internal/game/countdown.go
//
// Super diveno countdown. The session advances it with wall-clock timestamps
// on each render tick; pausing is lossless because the remaining duration is
// the only state that persists across ticks.

package game

import "time"

// TimerState is the countdown's lifecycle state.
type TimerState int

const (
	TimerStopped TimerState = iota // not started, or expired
	TimerRunning
	TimerPaused
)

func (s TimerState) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	default:
		return "stopped"
	}
}

// Countdown counts a fixed duration down to zero.
type Countdown struct {
	remaining time.Duration
	state     TimerState
	lastTick  time.Time
}

// NewCountdown creates a stopped countdown holding the full duration.
func NewCountdown(d time.Duration) *Countdown {
	return &Countdown{remaining: d}
}

// Reset stops the countdown and restores the full duration.
func (c *Countdown) Reset(d time.Duration) {
	c.remaining = d
	c.state = TimerStopped
}

// Toggle starts a stopped countdown, pauses a running one and resumes a
// paused one. now anchors the next Tick.
func (c *Countdown) Toggle(now time.Time) {
	switch c.state {
	case TimerRunning:
		// Bank the time elapsed since the last tick before pausing.
		c.consume(now)
		c.state = TimerPaused
	case TimerPaused, TimerStopped:
		if c.remaining <= 0 {
			return
		}
		c.state = TimerRunning
		c.lastTick = now
	}
}

// Tick advances the countdown to now. It reports true exactly once, on the
// tick where the remaining time reaches zero; the countdown then stops.
func (c *Countdown) Tick(now time.Time) (expired bool) {
	if c.state != TimerRunning {
		return false
	}
	c.consume(now)
	if c.remaining <= 0 {
		c.remaining = 0
		c.state = TimerStopped
		return true
	}
	return false
}

func (c *Countdown) consume(now time.Time) {
	if elapsed := now.Sub(c.lastTick); elapsed > 0 {
		c.remaining -= elapsed
	}
	c.lastTick = now
}

// Remaining returns the time left on the clock.
func (c *Countdown) Remaining() time.Duration {
	if c.remaining < 0 {
		return 0
	}
	return c.remaining
}

// State returns the lifecycle state.
func (c *Countdown) State() TimerState { return c.state }
