// internal/game/puzzle.go
//
// Word puzzle state for a single secret word.
// Responsibilities:
//   - Edit the in-progress guess (letters, hat toggle, backspace).
//   - Validate and score submitted guesses with the two-pass algorithm.
//   - Track revealed letters (hints + confirmed positions) and solved state.
//   - Support the host override that withdraws an accepted guess.
//
// Every operation is a silent no-op when it does not apply (solved puzzle,
// full or empty guess): the host drives the game and a stray key must never
// wedge the state.

package game

// Feedback is the per-letter result of an accepted guess.
type Feedback uint8

const (
	FeedbackAbsent  Feedback = iota // letter not in the secret (or count exhausted)
	FeedbackPresent                 // letter in the secret at another position
	FeedbackExact                   // letter in the correct position
)

// ScoredLetter is one letter of an accepted guess with its feedback.
type ScoredLetter struct {
	Ch       rune
	Feedback Feedback
}

// GuessOutcome is the signal returned by Submit. Only Accepted and Solved
// mutate the guess history; the rest leave it untouched.
type GuessOutcome int

const (
	GuessIgnored       GuessOutcome = iota // puzzle already solved
	GuessInvalidLength                     // wrong letter count; guess kept for editing
	GuessNotAWord                          // failed dictionary lookup; guess cleared
	GuessAccepted
	GuessSolved
)

// Lookup is the dictionary capability the puzzle needs to validate a guess.
type Lookup interface {
	Contains(word string) bool
}

// Puzzle tracks one secret word, the accepted guesses against it, the
// in-progress guess and the directly revealed letters.
type Puzzle struct {
	secret       []rune
	guesses      [][]ScoredLetter
	current      []rune
	hintMask     uint32 // positions revealed directly (hints + first letter)
	hintsGiven   int
	solved       bool
	lastRejected string
}

// NewPuzzle creates a puzzle for the given secret. The secret must already
// be normalized (see NormalizeWord). The first letter starts revealed.
func NewPuzzle(secret []rune) *Puzzle {
	p := &Puzzle{}
	p.Start(secret)
	return p
}

// Start replaces the puzzle state atomically for a fresh secret.
func (p *Puzzle) Start(secret []rune) {
	p.secret = append([]rune(nil), secret...)
	p.guesses = nil
	p.current = p.current[:0]
	p.hintMask = 1
	p.hintsGiven = 0
	p.solved = false
	p.lastRejected = ""
}

// Len returns the secret word length.
func (p *Puzzle) Len() int { return len(p.secret) }

// Secret returns the answer. Exposed for the history layer and for the
// reveal at the end of a round; the renderer only shows revealed positions.
func (p *Puzzle) Secret() string { return string(p.secret) }

// Solved reports whether an accepted guess matched the secret exactly.
func (p *Puzzle) Solved() bool { return p.solved }

// HintsGiven returns how many letters were revealed directly via AddHint.
func (p *Puzzle) HintsGiven() int { return p.hintsGiven }

// Current returns the in-progress guess.
func (p *Puzzle) Current() []rune { return append([]rune(nil), p.current...) }

// Guesses returns the accepted guesses in submission order.
func (p *Puzzle) Guesses() [][]ScoredLetter {
	out := make([][]ScoredLetter, len(p.guesses))
	for i, g := range p.guesses {
		out[i] = append([]ScoredLetter(nil), g...)
	}
	return out
}

// LastRejected returns the most recent guess that failed dictionary lookup,
// for the renderer's feedback flash. Reset on Start.
func (p *Puzzle) LastRejected() string { return p.lastRejected }

// PushLetter appends a letter to the in-progress guess. Returns false when
// the letter is ignored (invalid rune, guess full, or puzzle solved).
func (p *Puzzle) PushLetter(r rune) bool {
	if p.solved || len(p.current) >= len(p.secret) || !IsLetter(r) {
		return false
	}
	p.current = append(p.current, r)
	return true
}

// ToggleHatOnLast flips the hat on the most recently typed letter
// (c ⇄ ĉ and friends). No-op on an empty guess or an unhattable letter.
func (p *Puzzle) ToggleHatOnLast() bool {
	if p.solved || len(p.current) == 0 {
		return false
	}
	last := p.current[len(p.current)-1]
	toggled := ToggleHat(last)
	if toggled == last {
		return false
	}
	p.current[len(p.current)-1] = toggled
	return true
}

// PopLetter removes the last letter of the in-progress guess.
func (p *Puzzle) PopLetter() bool {
	if p.solved || len(p.current) == 0 {
		return false
	}
	p.current = p.current[:len(p.current)-1]
	return true
}

// Submit validates the in-progress guess against the dictionary and, when
// accepted, appends it to the guess history with per-letter feedback.
func (p *Puzzle) Submit(dict Lookup) GuessOutcome {
	if p.solved {
		return GuessIgnored
	}
	if len(p.current) != len(p.secret) {
		return GuessInvalidLength
	}
	word := string(p.current)
	if dict == nil || !dict.Contains(word) {
		p.lastRejected = word
		p.current = p.current[:0]
		return GuessNotAWord
	}

	scored := scoreGuess(p.secret, p.current)
	p.guesses = append(p.guesses, scored)
	p.current = p.current[:0]
	p.lastRejected = ""

	if allExact(scored) {
		p.solved = true
		return GuessSolved
	}
	return GuessAccepted
}

// RejectLast is the host override for a dictionary-legal guess that breaks
// the game rules: the last accepted guess is removed from the history and
// restored to the in-progress guess for correction. Returns (true,
// wasSolving) so the caller can revert a solve award, or (false, false)
// when there is nothing to withdraw.
func (p *Puzzle) RejectLast() (withdrawn, wasSolving bool) {
	if len(p.guesses) == 0 {
		return false, false
	}
	last := p.guesses[len(p.guesses)-1]
	p.guesses = p.guesses[:len(p.guesses)-1]
	p.current = p.current[:0]
	for _, l := range last {
		p.current = append(p.current, l.Ch)
	}
	wasSolving = p.solved && allExact(last)
	if wasSolving {
		p.solved = false
	}
	return true, wasSolving
}

// AddHint reveals the leftmost letter of the secret not yet visible, either
// via a previous hint or via a confirmed guess position. No-op once every
// letter is revealed.
func (p *Puzzle) AddHint() bool {
	revealed := p.Revealed()
	for i := range p.secret {
		if revealed&(1<<uint(i)) == 0 {
			p.hintMask |= 1 << uint(i)
			p.hintsGiven++
			return true
		}
	}
	return false
}

// Revealed returns the bitmask of secret positions the players can see:
// direct hints plus every position confirmed by an accepted guess.
func (p *Puzzle) Revealed() uint32 {
	mask := p.hintMask
	for _, g := range p.guesses {
		for i, l := range g {
			if l.Feedback == FeedbackExact {
				mask |= 1 << uint(i)
			}
		}
	}
	return mask
}

// scoreGuess runs the standard two-pass scoring: exact matches first, then
// present-elsewhere resolved left to right, capped by the count of each
// letter remaining in the secret.
func scoreGuess(secret, guess []rune) []ScoredLetter {
	n := len(guess)
	out := make([]ScoredLetter, n)
	counts := make(map[rune]int, n)

	for i := 0; i < n; i++ {
		out[i].Ch = guess[i]
		if guess[i] == secret[i] {
			out[i].Feedback = FeedbackExact
		} else {
			counts[secret[i]]++
		}
	}
	for i := 0; i < n; i++ {
		if out[i].Feedback == FeedbackExact {
			continue
		}
		if counts[out[i].Ch] > 0 {
			out[i].Feedback = FeedbackPresent
			counts[out[i].Ch]--
		}
	}
	return out
}

func allExact(g []ScoredLetter) bool {
	for _, l := range g {
		if l.Feedback != FeedbackExact {
			return false
		}
	}
	return len(g) > 0
}
