package words

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(7))
}

func TestNewNormalizesAndDedups(t *testing.T) {
	l := New([]string{"kato", "KATO", "cxevalo", "ĉevalo", "weird"}, testRNG())

	total, _ := l.Stats(0)
	if total != 2 {
		t.Fatalf("total = %d, want 2 (duplicates and junk dropped)", total)
	}
	if !l.Contains("ĈEVALO") {
		t.Error("x-notation entry should be stored circumflexed")
	}
	if l.Contains("weird") {
		t.Error("non-Esperanto entry must be dropped")
	}
}

func TestContainsAcceptsAnySpelling(t *testing.T) {
	l := New([]string{"ŝanĝi"}, testRNG())
	for _, w := range []string{"sxangxi", "ŝanĝi", "ŜANĜI"} {
		if !l.Contains(w) {
			t.Errorf("Contains(%q) = false", w)
		}
	}
	if l.Contains("ŝanĝo") {
		t.Error("near-miss must not match")
	}
}

func TestNextWordByLength(t *testing.T) {
	l := New([]string{"kato", "domo", "hundo", "ĉevalo"}, testRNG())

	for i := 0; i < 20; i++ {
		w, ok := l.NextWord(4)
		if !ok {
			t.Fatal("length-4 pool should not be empty")
		}
		if w != "KATO" && w != "DOMO" {
			t.Fatalf("NextWord(4) = %q", w)
		}
	}

	if w, ok := l.NextWord(6); !ok || w != "ĈEVALO" {
		t.Errorf("NextWord(6) = %q, %v", w, ok)
	}
	if _, ok := l.NextWord(9); ok {
		t.Error("empty length class should report false")
	}
}

func TestNextWordAnyLength(t *testing.T) {
	l := New([]string{"kato", "hundo"}, testRNG())
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		w, ok := l.NextWord(0)
		if !ok {
			t.Fatal("non-empty list should always yield a word")
		}
		seen[w] = true
	}
	if !seen["KATO"] || !seen["HUNDO"] {
		t.Errorf("whole-list draw should reach every word, saw %v", seen)
	}
}

func TestNextWordConcurrent(t *testing.T) {
	// One list serves every live session, so concurrent draws must be safe.
	// The race detector flags this if the RNG is unguarded.
	l := New([]string{"kato", "domo", "hundo", "ĉevalo"}, testRNG())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if _, ok := l.NextWord(4); !ok {
					t.Error("length-4 pool should not be empty")
					return
				}
				l.NextWord(0)
			}
		}()
	}
	wg.Wait()
}

func TestRandomErrNoWord(t *testing.T) {
	l := New(nil, testRNG())
	if _, err := l.Random(5); !errors.Is(err, ErrNoWord) {
		t.Fatalf("err = %v, want ErrNoWord", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vortoj.txt")
	data := "# komento\nkato\n\nsxangxi\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WORDS_FILE", path)

	l, err := Load(testRNG())
	if err != nil {
		t.Fatal(err)
	}
	total, _ := l.Stats(0)
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if !l.Contains("ŝanĝi") {
		t.Error("file entries should be normalized on load")
	}
}

func TestLoadEmbeddedDefault(t *testing.T) {
	t.Setenv("WORDS_FILE", "")

	l, err := Load(testRNG())
	if err != nil {
		t.Fatal(err)
	}
	total, fives := l.Stats(5)
	if total == 0 || fives == 0 {
		t.Fatalf("embedded list looks empty: total=%d fives=%d", total, fives)
	}
	if !l.Contains("kato") || !l.Contains("eraro") {
		t.Error("embedded list should carry the core vocabulary")
	}
}
