// Package httpx exposes the engine as a JSON API with a websocket event feed.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"battle_chess_tft/internal/game"
	"battle_chess_tft/internal/shared"
)

// Server wires the HTTP layer to the engine and the websocket hub.
type Server struct {
	engineMu sync.Mutex
	engine   *game.Engine
	pushed   uint64

	hub     *Hub
	log     *zap.Logger
	maxBody int64
	router  *mux.Router

	srvMu sync.Mutex
	srv   *http.Server
}

const (
	defaultMaxBodyBytes int64 = 1 << 20
	apiCSP                    = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
)

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxBodyBytes caps JSON request bodies; non-positive values keep the default.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

func WithHub(h *Hub) Option { return func(s *Server) { s.hub = h } }

// NewServer builds a Server around engine. Events already in the engine log
// are treated as delivered.
func NewServer(engine *game.Engine, opts ...Option) *Server {
	s := &Server{
		engine:  engine,
		log:     zap.NewNop(),
		maxBody: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hub == nil {
		s.hub = NewHub(s.log)
	}
	s.pushed = engine.LastEventSeq()
	s.router = s.routes()
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	s.log.Info("http listening", zap.String("addr", addr))
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown and disconnects websocket clients.
func (s *Server) Close(ctx context.Context) error {
	s.hub.Close()
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.withJSON)
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/destinations", s.handleDestinations).Methods(http.MethodGet)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	api.HandleFunc("/select", s.handleSelect).Methods(http.MethodPost)
	api.HandleFunc("/mode", s.handleMode).Methods(http.MethodPost)
	api.HandleFunc("/move", s.handleMove).Methods(http.MethodPost)
	api.HandleFunc("/attack", s.handleAttack).Methods(http.MethodPost)
	api.HandleFunc("/buy", s.handleBuy).Methods(http.MethodPost)
	api.HandleFunc("/cards/use", s.handleUseCard).Methods(http.MethodPost)
	api.HandleFunc("/deploy", s.handleDeploy).Methods(http.MethodPost)
	api.HandleFunc("/setup/complete", s.simple((*game.Engine).CompleteSetup)).Methods(http.MethodPost)
	api.HandleFunc("/shop/end", s.simple((*game.Engine).EndShop)).Methods(http.MethodPost)
	api.HandleFunc("/round/next", s.simple((*game.Engine).NextRound)).Methods(http.MethodPost)
	api.HandleFunc("/reset", s.simple((*game.Engine).Reset)).Methods(http.MethodPost)

	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return r
}

// ---- JSON helpers ----

func (s *Server) withJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		applyAPISecurityHeaders(w.Header())
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, errorBody{Error: msg})
}

// writeEngineError maps a rejected command onto a status code.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, game.ErrWrongPhase), errors.Is(err, game.ErrNotYourTurn):
		status = http.StatusConflict
	case errors.Is(err, game.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	}
	w.WriteHeader(status)
	writeJSON(w, errorBody{Error: err.Error(), Kind: game.KindOf(err)})
}

func applyAPISecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", apiCSP)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("X-Content-Type-Options", "nosniff")
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return true
	case isBodyTooLarge(err):
		writeError(w, http.StatusRequestEntityTooLarge, "request too large")
	default:
		writeError(w, http.StatusBadRequest, "invalid json")
	}
	return false
}

// exec runs fn under the engine lock, pushes the events it produced and
// answers with the resulting state.
func (s *Server) exec(w http.ResponseWriter, op string, fn func(*game.Engine) (any, error)) {
	s.engineMu.Lock()
	result, err := fn(s.engine)
	state := s.engine.State()
	events := s.engine.Events(s.pushed)
	if n := len(events); n > 0 {
		s.pushed = events[n-1].Seq
		s.hub.Broadcast(Message{Type: "events", Data: events})
	}
	s.engineMu.Unlock()

	if err != nil {
		s.log.Debug("command rejected", zap.String("op", op), zap.String("kind", game.KindOf(err)), zap.Error(err))
		writeEngineError(w, err)
		return
	}
	s.log.Debug("command applied", zap.String("op", op), zap.Int("events", len(events)))

	resp := map[string]any{"state": state}
	if result != nil {
		resp["result"] = result
	}
	writeJSON(w, resp)
}

func (s *Server) simple(cmd func(*game.Engine) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op := strings.TrimPrefix(r.URL.Path, "/api/")
		s.exec(w, op, func(e *game.Engine) (any, error) { return nil, cmd(e) })
	}
}

// ---- API: queries ----

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.engineMu.Lock()
	state := s.engine.State()
	s.engineMu.Unlock()
	writeJSON(w, map[string]any{"state": state})
}

func (s *Server) handleDestinations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sq, ok := parseSquare(q.Get("square"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid square")
		return
	}

	var mode game.Mode
	raw := q.Get("mode")
	if raw != "" {
		if mode, ok = game.ParseMode(raw); !ok {
			writeError(w, http.StatusBadRequest, "invalid mode")
			return
		}
	}

	s.engineMu.Lock()
	if raw == "" {
		if mode, ok = s.engine.Phase().Mode(); !ok {
			mode = game.ModeMove
		}
	}
	squares, err := s.engine.Destinations(sq, mode)
	s.engineMu.Unlock()

	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, map[string]any{"square": sq, "mode": mode, "destinations": squares})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var since uint64
	if raw := r.URL.Query().Get("since"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since")
			return
		}
		since = n
	}
	s.engineMu.Lock()
	events := s.engine.Events(since)
	last := s.engine.LastEventSeq()
	s.engineMu.Unlock()
	if events == nil {
		events = []game.Event{}
	}
	writeJSON(w, map[string]any{"events": events, "lastSeq": last})
}

// handleWS sends the current state, then every events message broadcast
// after it. Snapshot and registration share the engine lock so no broadcast
// falls between them.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.hub.Upgrade(w, r)
	if err != nil {
		return
	}
	s.engineMu.Lock()
	s.hub.Attach(conn, &Message{Type: "state", Data: s.engine.State()})
	s.engineMu.Unlock()
}

// ---- API: battle ----

type squareBody struct {
	Square string `json:"square"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var body squareBody
	if !decode(w, r, &body) {
		return
	}
	sq, ok := parseSquare(body.Square)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid square")
		return
	}
	s.exec(w, "select", func(e *game.Engine) (any, error) {
		if _, err := e.Select(sq); err != nil {
			return nil, err
		}
		return e.SelectedDestinations()
	})
}

type modeBody struct {
	Mode string `json:"mode"`
}

// handleMode sets the requested mode, or toggles when none is given.
func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var body modeBody
	if !decode(w, r, &body) {
		return
	}
	raw := strings.TrimSpace(body.Mode)
	if raw == "" || strings.EqualFold(raw, "toggle") {
		s.exec(w, "mode", func(e *game.Engine) (any, error) { return nil, e.ToggleMode() })
		return
	}
	mode, ok := game.ParseMode(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid mode")
		return
	}
	s.exec(w, "mode", func(e *game.Engine) (any, error) { return nil, e.SetMode(mode) })
}

type moveBody struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (b moveBody) squares(w http.ResponseWriter) (from, to game.Square, ok bool) {
	if from, ok = parseSquare(b.From); !ok {
		writeError(w, http.StatusBadRequest, "invalid from square")
		return
	}
	if to, ok = parseSquare(b.To); !ok {
		writeError(w, http.StatusBadRequest, "invalid to square")
	}
	return
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var body moveBody
	if !decode(w, r, &body) {
		return
	}
	from, to, ok := body.squares(w)
	if !ok {
		return
	}
	s.exec(w, "move", func(e *game.Engine) (any, error) { return nil, e.Move(from, to) })
}

// combatView is the JSON form of a resolved attack.
type combatView struct {
	From      game.Square `json:"from"`
	To        game.Square `json:"to"`
	Damage    int         `json:"damage"`
	TargetHP  int         `json:"targetHp"`
	Died      bool        `json:"died"`
	Reward    int         `json:"reward"`
	KingSlain bool        `json:"kingSlain"`
}

func (s *Server) handleAttack(w http.ResponseWriter, r *http.Request) {
	var body moveBody
	if !decode(w, r, &body) {
		return
	}
	from, to, ok := body.squares(w)
	if !ok {
		return
	}
	s.exec(w, "attack", func(e *game.Engine) (any, error) {
		res, err := e.Attack(from, to)
		if err != nil {
			return nil, err
		}
		view := combatView{
			From:      res.From,
			To:        res.To,
			Damage:    res.Damage,
			Died:      res.Died,
			Reward:    res.Reward,
			KingSlain: res.KingSlain,
		}
		if res.Target != nil {
			view.TargetHP = res.Target.HP
		}
		return view, nil
	})
}

// ---- API: shop, cards, deployment ----

type buyBody struct {
	Player string `json:"player"`
	Slot   int    `json:"slot"`
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var body buyBody
	if !decode(w, r, &body) {
		return
	}
	player, ok := shared.ParseColor(body.Player)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid player")
		return
	}
	s.exec(w, "buy", func(e *game.Engine) (any, error) {
		slot, err := e.Buy(player, body.Slot)
		if err != nil {
			return nil, err
		}
		return slot, nil
	})
}

type useCardBody struct {
	CardID string `json:"cardId"`
	Target string `json:"target"`
}

func (s *Server) handleUseCard(w http.ResponseWriter, r *http.Request) {
	var body useCardBody
	if !decode(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.CardID) == "" {
		writeError(w, http.StatusBadRequest, "missing cardId")
		return
	}
	target, ok := parseSquare(body.Target)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid target square")
		return
	}
	s.exec(w, "cards/use", func(e *game.Engine) (any, error) { return nil, e.UseCard(body.CardID, target) })
}

type deployBody struct {
	Player string `json:"player"`
	Index  int    `json:"index"`
	Square string `json:"square"`
}

func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request) {
	var body deployBody
	if !decode(w, r, &body) {
		return
	}
	player, ok := shared.ParseColor(body.Player)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid player")
		return
	}
	sq, ok := parseSquare(body.Square)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid square")
		return
	}
	s.exec(w, "deploy", func(e *game.Engine) (any, error) { return nil, e.Deploy(player, body.Index, sq) })
}

// ---- parsing helpers ----

func parseSquare(s string) (game.Square, bool) {
	return game.CoordToSquare(strings.ToLower(strings.TrimSpace(s)))
}
