// internal/httpserver/session.go
//
// Session routes: create a session, feed it abstract commands, read the
// render snapshot and drain presentation events. The remote and the shared
// screen are plain HTTP clients of these endpoints.

package httpserver

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/diveno-ludo/diveno-server/internal/game"
	"github.com/diveno-ludo/diveno-server/internal/history"
	"github.com/diveno-ludo/diveno-server/internal/store"
)

// ------------------------------ new session --------------------------------

// newSessionReq allows the host to tweak the round before the broadcast.
// Seed pins the RNG for rehearsals; 0 means a fresh seed.
type newSessionReq struct {
	WordLength int   `json:"wordLength"`
	Seed       int64 `json:"seed"`
}

type newSessionRes struct {
	SessionID string        `json:"sessionId"`
	Snapshot  game.Snapshot `json:"snapshot"`
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	cfg := s.cfg
	if req.WordLength > 0 {
		cfg.WordLength = req.WordLength
	}
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	id := genID()
	sess := game.NewSession(id, cfg, s.words, rand.New(rand.NewSource(seed)))
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(`INSERT INTO sessions (id, host_id, created_at) VALUES (?,?,?)`,
		id, me.ID, now); err != nil {
		log.Warn().Err(err).Str("sessionId", id).Msg("insert session row")
	}

	_ = json.NewEncoder(w).Encode(newSessionRes{SessionID: id, Snapshot: sess.Snapshot()})
}

// -------------------------------- command ----------------------------------

// commandReq is the wire form of one abstract command. Fields not used by
// the command are ignored.
type commandReq struct {
	Cmd    string `json:"cmd"`
	Dir    string `json:"dir"`    // navigate_page: "left" | "right"
	Letter string `json:"letter"` // push_letter
	Delta  int    `json:"delta"`  // adjust_score: sign only
	Side   string `json:"side"`   // adjust_score: optional explicit team
}

type commandRes struct {
	Applied bool `json:"applied"`
}

var commandKinds = map[string]game.CommandKind{
	"navigate_page":        game.CmdNavigatePage,
	"adjust_score":         game.CmdAdjustScore,
	"toggle_team_or_timer": game.CmdToggleTeamOrTimer,
	"toggle_super_diveno":  game.CmdToggleSuperDiveno,
	"push_letter":          game.CmdPushLetter,
	"toggle_hint":          game.CmdToggleHint,
	"pop_letter":           game.CmdPopLetter,
	"submit_guess":         game.CmdSubmitGuess,
	"reject_guess":         game.CmdRejectGuess,
	"add_hint":             game.CmdAddHint,
	"new_word":             game.CmdNewWord,
	"draw_ball":            game.CmdDrawBall,
	"new_grid":             game.CmdNewGrid,
}

// parseCommand maps a wire command onto the session's abstract command.
func parseCommand(req commandReq) (game.Command, error) {
	kind, ok := commandKinds[req.Cmd]
	if !ok {
		return game.Command{}, errors.New("unknown command")
	}
	cmd := game.Command{Kind: kind}

	switch kind {
	case game.CmdNavigatePage:
		switch req.Dir {
		case "left":
			cmd.Dir = game.DirLeft
		case "right":
			cmd.Dir = game.DirRight
		default:
			return game.Command{}, errors.New("dir must be left or right")
		}
	case game.CmdPushLetter:
		runes := []rune(strings.TrimSpace(req.Letter))
		if len(runes) != 1 {
			return game.Command{}, errors.New("letter must be a single character")
		}
		cmd.Letter = runes[0]
	case game.CmdAdjustScore:
		if req.Delta == 0 {
			return game.Command{}, errors.New("delta must be non-zero")
		}
		cmd.Delta = req.Delta
		switch req.Side {
		case "":
		case "left":
			cmd.Side, cmd.SideSet = game.SideLeft, true
		case "right":
			cmd.Side, cmd.SideSet = game.SideRight, true
		default:
			return game.Command{}, errors.New("side must be left or right")
		}
	}
	return cmd, nil
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	cmd, err := parseCommand(req)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	var applied bool
	var results []history.Result
	var rescindedWord string
	err = s.store.WithSession(r.Context(), id, func(sess *game.Session) error {
		solvedBefore := sess.Puzzle().Solved()
		var linesBefore [2]map[game.Line]bool
		for side := game.SideLeft; side <= game.SideRight; side++ {
			linesBefore[side] = make(map[game.Line]bool)
			for _, l := range sess.Grid(side).CompletedLines() {
				linesBefore[side][l] = true
			}
		}

		applied = sess.HandleCommand(cmd, time.Now())

		if cmd.Kind == game.CmdSubmitGuess && !solvedBefore && sess.Puzzle().Solved() {
			results = append(results, history.Result{
				SessionID: id,
				Kind:      history.KindWord,
				Team:      sess.Scoreboard().Current().String(),
				Word:      sess.Puzzle().Secret(),
				Guesses:   len(sess.Puzzle().Guesses()),
				Hints:     sess.Puzzle().HintsGiven(),
				Points:    s.cfg.WordAwardPerLetter * sess.Puzzle().Len(),
				Mode:      sess.Mode().String(),
			})
		}
		if cmd.Kind == game.CmdRejectGuess && solvedBefore && !sess.Puzzle().Solved() {
			rescindedWord = sess.Puzzle().Secret()
		}
		for side := game.SideLeft; side <= game.SideRight; side++ {
			for _, l := range sess.Grid(side).CompletedLines() {
				if linesBefore[side][l] {
					continue
				}
				results = append(results, history.Result{
					SessionID: id,
					Kind:      history.KindBingo,
					Team:      side.String(),
					Line:      lineName(l),
					Points:    s.cfg.LineAward,
					Mode:      sess.Mode().String(),
				})
			}
		}
		return nil
	})
	if err != nil {
		writeStoreErr(w, err)
		return
	}

	s.recordResults(r, id, results)
	if rescindedWord != "" {
		if err := s.history.DeleteLastWord(r.Context(), id, rescindedWord); err != nil {
			log.Warn().Err(err).Str("sessionId", id).Msg("delete rescinded word result")
		}
	}
	_ = json.NewEncoder(w).Encode(commandRes{Applied: applied})
}

// recordResults persists notable moments, best effort.
func (s *Server) recordResults(r *http.Request, sessionID string, results []history.Result) {
	if len(results) == 0 {
		return
	}
	var hostID string
	if err := s.db.QueryRow(`SELECT host_id FROM sessions WHERE id=?`, sessionID).Scan(&hostID); err != nil {
		log.Warn().Err(err).Str("sessionId", sessionID).Msg("lookup session host")
		return
	}
	for _, res := range results {
		res.HostID = hostID
		if err := s.history.Insert(r.Context(), res); err != nil {
			log.Warn().Err(err).Str("sessionId", sessionID).Msg("insert match result")
		}
	}
}

// ---------------------------- snapshot & events -----------------------------

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var snap game.Snapshot
	err := s.store.WithSession(r.Context(), id, func(sess *game.Session) error {
		snap = sess.Snapshot()
		sess.MarkRendered()
		return nil
	})
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// eventPayload is the wire form of one presentation event. Side, ball and
// line appear only for the kinds that carry them.
type eventPayload struct {
	Kind string             `json:"kind"`
	Side string             `json:"side,omitempty"`
	Ball int                `json:"ball,omitempty"`
	Line *game.LineSnapshot `json:"line,omitempty"`
}

// sidedEvents lists the kinds whose Side field is meaningful.
var sidedEvents = map[game.EventKind]bool{
	game.EventScoreChanged: true,
	game.EventBingoChanged: true,
	game.EventBingo:        true,
	game.EventBingoReset:   true,
}

func encodeEvents(evs []game.Event) []eventPayload {
	out := make([]eventPayload, 0, len(evs))
	for _, ev := range evs {
		p := eventPayload{Kind: ev.Kind.String()}
		if sidedEvents[ev.Kind] {
			p.Side = ev.Side.String()
		}
		if ev.Kind == game.EventBallDrawn {
			p.Ball = ev.Ball
		}
		if ev.Kind == game.EventBingo {
			p.Line = &game.LineSnapshot{Kind: ev.Line.Kind.String(), Index: ev.Line.Index}
		}
		out = append(out, p)
	}
	return out
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var evs []game.Event
	err := s.store.WithSession(r.Context(), id, func(sess *game.Session) error {
		evs = sess.TakeEvents()
		return nil
	})
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(encodeEvents(evs))
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.WithSession(r.Context(), id, func(sess *game.Session) error {
		sess.Tick(time.Now())
		return nil
	})
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	_, _ = w.Write([]byte(`{"ok":true}`))
}

// ------------------------------- history -----------------------------------

func (s *Server) handleMatchesMine(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	if me == nil {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}
	rows, err := s.history.RecentByHost(r.Context(), me.ID, 50)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(rows)
}

// ------------------------------- plumbing ----------------------------------

func lineName(l game.Line) string {
	return l.Kind.String() + ":" + strconv.Itoa(l.Index)
}

func writeStoreErr(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
}
