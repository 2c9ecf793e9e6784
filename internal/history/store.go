// internal/history/store.go
//
// Match history persistence. The live session is in-memory only; this store
// keeps an audit trail of notable moments (solved words, completed bingo
// lines) so hosts can review past broadcasts.

package history

import (
	"context"
	"database/sql"
)

// Result kinds.
const (
	KindWord  = "word"
	KindBingo = "bingo"
)

// Result is one recorded moment of a session.
type Result struct {
	SessionID string `json:"sessionId"`
	HostID    string `json:"hostId"`
	Kind      string `json:"kind"` // "word" | "bingo"
	Team      string `json:"team"` // "left" | "right"
	Word      string `json:"word,omitempty"`
	Line      string `json:"line,omitempty"`
	Guesses   int    `json:"guesses"` // word results only
	Hints     int    `json:"hints"`   // word results only
	Points    int    `json:"points"`
	Mode      string `json:"mode"`
	CreatedAt string `json:"createdAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert records one result row. created_at is populated by the schema.
func (s *Store) Insert(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO match_results(session_id, host_id, kind, team, word, line, guesses, hints, points, mode)
		 VALUES(?,?,?,?,?,?,?,?,?,?)`,
		r.SessionID, r.HostID, r.Kind, r.Team, r.Word, r.Line, r.Guesses, r.Hints, r.Points, r.Mode,
	)
	return err
}

// DeleteLastWord removes the newest word result recorded for a session and
// secret. Used when the host rejects the solving guess: the revert must reach
// the audit trail too, or it would show a solve that never stood.
func (s *Store) DeleteLastWord(ctx context.Context, sessionID, word string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM match_results
		 WHERE id = (SELECT id FROM match_results
		             WHERE session_id=? AND kind=? AND word=?
		             ORDER BY id DESC LIMIT 1)`,
		sessionID, KindWord, word,
	)
	return err
}

// RecentByHost returns a host's latest results, newest first.
func (s *Store) RecentByHost(ctx context.Context, hostID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, host_id, kind, team, word, line, guesses, hints, points, mode, created_at
		 FROM match_results
		 WHERE host_id=?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, hostID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.SessionID, &r.HostID, &r.Kind, &r.Team, &r.Word,
			&r.Line, &r.Guesses, &r.Hints, &r.Points, &r.Mode, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
