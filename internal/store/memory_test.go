package store

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/diveno-ludo/diveno-server/internal/game"
)

type noWords struct{}

func (noWords) Contains(string) bool        { return false }
func (noWords) NextWord(int) (string, bool) { return "", false }

func newSession(id string) *game.Session {
	return game.NewSession(id, game.DefaultConfig(), noWords{}, rand.New(rand.NewSource(1)))
}

func TestSaveAndWithSession(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if err := m.Save(ctx, newSession("abc")); err != nil {
		t.Fatal(err)
	}

	var got string
	err := m.WithSession(ctx, "abc", func(s *game.Session) error {
		got = s.ID
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "abc" {
		t.Errorf("session ID = %q", got)
	}
}

func TestWithSessionNotFound(t *testing.T) {
	m := NewMemoryStore()
	err := m.WithSession(context.Background(), "nope", func(*game.Session) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestWithSessionSerializesAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	if err := m.Save(ctx, newSession("abc")); err != nil {
		t.Fatal(err)
	}

	// Hammer the same entry; the race detector flags it if the per-entry
	// lock is broken.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = m.WithSession(ctx, "abc", func(s *game.Session) error {
					s.HandleCommand(game.Command{Kind: game.CmdAdjustScore, Delta: 1}, time.Now())
					return nil
				})
			}
		}()
	}
	wg.Wait()

	var score int
	_ = m.WithSession(ctx, "abc", func(s *game.Session) error {
		score = s.Scoreboard().Team(game.SideLeft).Score
		return nil
	})
	if score != 8*100*game.DefaultConfig().ScoreStep {
		t.Errorf("score = %d after concurrent adjustments", score)
	}
}
