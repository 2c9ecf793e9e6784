// internal/httpserver/server.go
//
// HTTP wiring for the Diveno game server.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Session endpoints: create (host only), command, snapshot, events, tick.
//   - Auth + history endpoints: /auth/*, /matches/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The session state machine is single threaded; the store serializes
//     handler access per session.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/diveno-ludo/diveno-server/internal/game"
	"github.com/diveno-ludo/diveno-server/internal/history"
	"github.com/diveno-ludo/diveno-server/internal/store"
	"github.com/diveno-ludo/diveno-server/internal/words"
)

// Server bundles router, session store, word list, and DB handle.
type Server struct {
	r       *chi.Mux
	store   store.Store
	history *history.Store
	words   *words.List
	db      *sql.DB
	cfg     game.Config
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, wl *words.List, db *sql.DB) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		store:   st,
		history: history.NewStore(db),
		words:   wl,
		db:      db,
		cfg:     configFromEnv(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"diveno-server","endpoints":["/health","POST /session/new","POST /session/{id}/command","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Session lifecycle. Creation is host only; the rest serves the shared
	// screen and the remote.
	s.r.With(s.requireAuth()).Post("/session/new", s.handleNewSession)
	s.r.Route("/session/{id}", func(r chi.Router) {
		r.With(s.withOptionalAuth()).Post("/command", s.handleCommand)
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/events", s.handleEvents)
		r.Post("/tick", s.handleTick)
	})

	// Auth + history (gated where needed)
	s.mountAuthRoutes()
	s.r.With(s.requireAuth()).Get("/matches/mine", s.handleMatchesMine)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	// Debug: word list counts
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		total, ofLength := s.words.Stats(s.cfg.WordLength)
		_ = json.NewEncoder(w).Encode(map[string]int{"total": total, "ofLength": ofLength})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- small util --------------------------------

// configFromEnv starts from the standard rules and applies the env knobs.
func configFromEnv() game.Config {
	cfg := game.DefaultConfig()
	if n, err := strconv.Atoi(os.Getenv("WORD_LENGTH")); err == nil && n > 0 {
		cfg.WordLength = n
	}
	if n, err := strconv.Atoi(os.Getenv("SUPER_DIVENO_MINUTES")); err == nil && n > 0 {
		cfg.SuperDivenoTime = time.Duration(n) * time.Minute
	}
	return cfg
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
