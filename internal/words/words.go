// internal/words/words.go
//
// Word list management for the game session.
//
// Responsibilities:
//   - Load the Esperanto word list from an environment-provided file or fall
//     back to the embedded default.
//   - Normalize entries (uppercase, x-notation → circumflex) and index them
//     by length.
//   - Implement the session's word-source contract: membership lookup and
//     uniform random selection of a secret word of a requested length.
//
// Environment variables:
//   WORDS_FILE=/path/to/vortoj.txt   one word per line, # comments allowed
//
// Words containing non-Esperanto letters are dropped at load time, so the
// session can trust every entry it is handed.

package words

import (
	"bufio"
	"errors"
	"io"
	"math/rand"
	"os"
	"sync"

	"github.com/diveno-ludo/diveno-server/assets"
	"github.com/diveno-ludo/diveno-server/internal/game"
)

// ErrNoWord is returned when the list holds no word of a requested length.
var ErrNoWord = errors.New("words: no word of requested length")

// List is a loaded, normalized word list. It satisfies game.WordSource.
// One List is shared by every session, so random draws are serialized:
// math/rand.Rand is not safe for concurrent use.
type List struct {
	byLength map[int][]string
	set      map[string]struct{}
	mu       sync.Mutex // guards rng
	rng      *rand.Rand
	total    int
}

// New builds a list from raw lines, dropping anything that does not
// normalize to Esperanto letters.
func New(lines []string, rng *rand.Rand) *List {
	l := &List{
		byLength: make(map[int][]string),
		set:      make(map[string]struct{}),
		rng:      rng,
	}
	for _, line := range lines {
		runes, ok := game.NormalizeWord(line)
		if !ok {
			continue
		}
		w := string(runes)
		if _, dup := l.set[w]; dup {
			continue
		}
		l.set[w] = struct{}{}
		l.byLength[len(runes)] = append(l.byLength[len(runes)], w)
		l.total++
	}
	return l
}

// Load reads the list from WORDS_FILE when set, otherwise from the embedded
// default list.
func Load(rng *rand.Rand) (*List, error) {
	if path := os.Getenv("WORDS_FILE"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		lines, err := readLines(f)
		if err != nil {
			return nil, err
		}
		return New(lines, rng), nil
	}

	lines, err := assets.WordList()
	if err != nil {
		return nil, err
	}
	return New(lines, rng), nil
}

// readLines collects non-empty, non-comment lines.
func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// Contains reports exact membership after normalization, so "cxevalo",
// "ĉevalo" and "ĈEVALO" all name the same entry.
func (l *List) Contains(word string) bool {
	runes, ok := game.NormalizeWord(word)
	if !ok {
		return false
	}
	_, found := l.set[string(runes)]
	return found
}

// NextWord returns a uniformly random word of the requested length, or
// false when the length class is empty. length <= 0 picks from the whole
// list.
func (l *List) NextWord(length int) (string, bool) {
	if length <= 0 {
		return l.randomAny()
	}
	pool := l.byLength[length]
	if len(pool) == 0 {
		return "", false
	}
	l.mu.Lock()
	i := l.rng.Intn(len(pool))
	l.mu.Unlock()
	return pool[i], true
}

func (l *List) randomAny() (string, bool) {
	if l.total == 0 {
		return "", false
	}
	l.mu.Lock()
	n := l.rng.Intn(l.total)
	l.mu.Unlock()
	for _, pool := range l.byLength {
		if n < len(pool) {
			return pool[n], true
		}
		n -= len(pool)
	}
	return "", false
}

// Random returns a random word of the given length or ErrNoWord. It is the
// error-typed variant of NextWord for callers outside the session loop.
func (l *List) Random(length int) (string, error) {
	w, ok := l.NextWord(length)
	if !ok {
		return "", ErrNoWord
	}
	return w, nil
}

// Stats returns the total word count and the count for one length class.
func (l *List) Stats(length int) (total, ofLength int) {
	return l.total, len(l.byLength[length])
}
