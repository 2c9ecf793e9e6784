// assets/embed.go
//
// Embedded default word list, so the server runs with no files configured.
// Production setups point WORDS_FILE at a full dictionary dump.

package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed vortoj.txt
var fs embed.FS

// WordList returns the embedded Esperanto word list, one word per line.
// Blank lines and # comments are skipped; normalization is the caller's job.
func WordList() ([]string, error) {
	f, err := fs.Open("vortoj.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}
