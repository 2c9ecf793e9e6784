// internal/game/letters.go
//
// Esperanto orthography helpers shared by the puzzle and the word source.
// The circumflexed ("hatted") letters ĉ ĝ ĥ ĵ ŝ ŭ are first-class letters of
// the alphabet, not combining marks: toggling the hat changes which letter
// was typed.

package game

import "strings"

// alphabet is the 28-letter Esperanto alphabet, uppercase. q, w, x and y are
// not Esperanto letters (x survives only as the hat-notation suffix handled
// by NormalizeWord).
const alphabet = "ABCĈDEFGĜHĤIJĴKLMNOPRSŜTUŬVZ"

var hatPairs = map[rune]rune{
	'C': 'Ĉ', 'G': 'Ĝ', 'H': 'Ĥ', 'J': 'Ĵ', 'S': 'Ŝ', 'U': 'Ŭ',
	'Ĉ': 'C', 'Ĝ': 'G', 'Ĥ': 'H', 'Ĵ': 'J', 'Ŝ': 'S', 'Ŭ': 'U',
}

var validLetters = func() map[rune]bool {
	m := make(map[rune]bool, 28)
	for _, r := range alphabet {
		m[r] = true
	}
	return m
}()

// IsLetter reports whether r is an uppercase Esperanto letter.
func IsLetter(r rune) bool { return validLetters[r] }

// ToggleHat flips a letter between its plain and hatted form.
// Letters with no hatted counterpart are returned unchanged.
func ToggleHat(r rune) rune {
	if h, ok := hatPairs[r]; ok {
		return h
	}
	return r
}

// NormalizeWord uppercases a word and resolves x-notation (cx → Ĉ, gx → Ĝ,
// ...). It returns the normalized runes and whether every resulting rune is
// a valid Esperanto letter.
func NormalizeWord(word string) ([]rune, bool) {
	upper := []rune(strings.ToUpper(strings.TrimSpace(word)))
	out := make([]rune, 0, len(upper))
	for _, r := range upper {
		if r == 'X' && len(out) > 0 {
			if h, ok := hatPairs[out[len(out)-1]]; ok && IsHatted(h) {
				out[len(out)-1] = h
				continue
			}
			return nil, false
		}
		out = append(out, r)
	}
	for _, r := range out {
		if !IsLetter(r) {
			return out, false
		}
	}
	return out, len(out) > 0
}

// IsHatted reports whether r is one of the six circumflexed letters.
func IsHatted(r rune) bool {
	switch r {
	case 'Ĉ', 'Ĝ', 'Ĥ', 'Ĵ', 'Ŝ', 'Ŭ':
		return true
	}
	return false
}
