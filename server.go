package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/bodul/funzone/internal/puzzle"
)

const (
	maxBodySize = 1 << 20 // 1 MB
	maxItems    = 64
)

// rateLimiter is a simple per-IP token bucket rate limiter.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*bucket
	rate     int           // tokens per interval
	interval time.Duration // refill interval
}

type bucket struct {
	tokens   int
	lastSeen time.Time
}

func newRateLimiter(rate int, interval time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*bucket),
		rate:     rate,
		interval: interval,
	}
	// Cleanup stale entries every minute.
	go func() {
		for {
			time.Sleep(time.Minute)
			rl.mu.Lock()
			for ip, b := range rl.visitors {
				if time.Since(b.lastSeen) > 5*time.Minute {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
	return rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.visitors[ip]
	if !ok {
		rl.visitors[ip] = &bucket{tokens: rl.rate - 1, lastSeen: time.Now()}
		return true
	}

	refill := int(time.Since(b.lastSeen) / rl.interval)
	if refill > 0 {
		b.tokens = min(b.tokens+refill*rl.rate, rl.rate)
		b.lastSeen = time.Now()
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// Server is the main HTTP server.
type Server struct {
	mux    *http.ServeMux
	store  *Store
	gen    ContentGenerator
	sse    *Broadcaster
	genRL  *rateLimiter
	moveRL *rateLimiter
	sizes  PuzzleConfig
	log    *zap.Logger
}

// NewServer creates a configured HTTP server. gen may be nil, in which case
// fun-zone generation answers 503.
func NewServer(cfg *Config, store *Store, gen ContentGenerator, log *zap.Logger) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		store:  store,
		gen:    gen,
		sse:    NewBroadcaster(log.Named("sse")),
		genRL:  newRateLimiter(cfg.Server.GenerateRate, time.Minute),
		moveRL: newRateLimiter(cfg.Server.MoveRate, time.Second),
		sizes:  cfg.Puzzle,
		log:    log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Puzzle API
	s.mux.HandleFunc("POST /api/puzzles/wordsearch", s.handleCreateWordSearch)
	s.mux.HandleFunc("POST /api/puzzles/crossword", s.handleCreateCrossword)
	s.mux.HandleFunc("POST /api/puzzles/tashchetz", s.handleCreateTashchetz)
	s.mux.HandleFunc("POST /api/funzone", s.handleCreateFunZone)
	s.mux.HandleFunc("GET /api/puzzles", s.handleListPuzzles)
	s.mux.HandleFunc("GET /api/puzzles/{id}", s.handleGetPuzzle)

	// Game API
	s.mux.HandleFunc("POST /api/games", s.handleCreateGame)
	s.mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	s.mux.HandleFunc("POST /api/games/{id}/join", s.handleJoinGame)
	s.mux.HandleFunc("POST /api/games/{id}/move", s.handleMove)
	s.mux.HandleFunc("GET /api/games/{id}/check", s.handleCheck)
	s.mux.HandleFunc("GET /api/games/{id}/events", s.handleGameEvents)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
	s.mux.ServeHTTP(w, r)
}

// --- Puzzle handlers ---

type entriesRequest struct {
	Items []puzzle.Entry `json:"items"`
	Rows  int            `json:"rows"`
	Cols  int            `json:"cols"`
}

// POST /api/puzzles/wordsearch: lay out a word search.
func (s *Server) handleCreateWordSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Words []string `json:"words"`
		Seed  *uint64  `json:"seed"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Words) > maxItems {
		jsonError(w, "too many words", http.StatusBadRequest)
		return
	}

	opts := s.options()
	if req.Seed != nil {
		opts.Rand = puzzle.NewRand(*req.Seed)
	}
	p := s.store.SavePuzzle(&Puzzle{
		Kind:       KindWordSearch,
		WordSearch: puzzle.GenerateWordSearch(req.Words, opts),
	})
	writeJSON(w, http.StatusCreated, p)
}

// POST /api/puzzles/crossword: lay out a crossword.
func (s *Server) handleCreateCrossword(w http.ResponseWriter, r *http.Request) {
	var req entriesRequest
	if !s.decodeEntries(w, r, &req) {
		return
	}
	rows, cols := sizeOr(req.Rows, s.sizes.CrosswordRows), sizeOr(req.Cols, s.sizes.CrosswordCols)
	p := s.store.SavePuzzle(&Puzzle{
		Kind:      KindCrossword,
		Crossword: puzzle.GenerateCrossword(req.Items, rows, cols, s.options()),
	})
	writeJSON(w, http.StatusCreated, p)
}

// POST /api/puzzles/tashchetz: lay out an arrow-word grid.
func (s *Server) handleCreateTashchetz(w http.ResponseWriter, r *http.Request) {
	var req entriesRequest
	if !s.decodeEntries(w, r, &req) {
		return
	}
	rows, cols := sizeOr(req.Rows, s.sizes.TashchetzRows), sizeOr(req.Cols, s.sizes.TashchetzCols)
	p := s.store.SavePuzzle(&Puzzle{
		Kind:      KindTashchetz,
		Tashchetz: puzzle.GenerateTashchetz(req.Items, cols, rows, s.options()),
	})
	writeJSON(w, http.StatusCreated, p)
}

// POST /api/funzone: generate content with Gemini and lay out all three puzzles.
func (s *Server) handleCreateFunZone(w http.ResponseWriter, r *http.Request) {
	if !s.genRL.allow(clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}
	if s.gen == nil {
		jsonError(w, "content generation not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		Topics []string `json:"topics"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	content, err := s.gen.GenerateFunZone(r.Context(), req.Topics)
	if err != nil {
		s.log.Error("generate fun zone", zap.Error(err))
		jsonError(w, "content generation failed", http.StatusBadGateway)
		return
	}

	fz, err := puzzle.BuildFunZone(r.Context(), content.PuzzleInput(), puzzle.FunZoneSizes{
		WordSearch:    s.sizes.WordSearchSize,
		CrosswordRows: s.sizes.CrosswordRows,
		CrosswordCols: s.sizes.CrosswordCols,
		TashchetzRows: s.sizes.TashchetzRows,
		TashchetzCols: s.sizes.TashchetzCols,
	}, s.options())
	if err != nil {
		jsonError(w, "request canceled", http.StatusRequestTimeout)
		return
	}

	resp := struct {
		Trivia     []QA    `json:"trivia"`
		Riddle     QA      `json:"riddle"`
		WordSearch *Puzzle `json:"wordSearch"`
		Crossword  *Puzzle `json:"crossword"`
		Tashchetz  *Puzzle `json:"tashchetz"`
	}{
		Trivia:     content.Trivia,
		Riddle:     content.Riddle,
		WordSearch: s.store.SavePuzzle(&Puzzle{Kind: KindWordSearch, WordSearch: fz.WordSearch}),
		Crossword:  s.store.SavePuzzle(&Puzzle{Kind: KindCrossword, Crossword: fz.Crossword}),
		Tashchetz:  s.store.SavePuzzle(&Puzzle{Kind: KindTashchetz, Tashchetz: fz.Tashchetz}),
	}
	s.log.Info("fun zone generated",
		zap.Int("word_search", resp.WordSearch.Placed()),
		zap.Int("crossword", resp.Crossword.Placed()),
		zap.Int("tashchetz", resp.Tashchetz.Placed()))
	writeJSON(w, http.StatusCreated, resp)
}

// GET /api/puzzles: list all puzzles.
func (s *Server) handleListPuzzles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ListPuzzles())
}

// GET /api/puzzles/{id}: get a single puzzle.
func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	p := s.store.GetPuzzle(r.PathValue("id"))
	if p == nil {
		jsonError(w, "puzzle not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- Game handlers ---

// POST /api/games: start a game on a crossword or tashchetz.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PuzzleID string `json:"puzzle_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PuzzleID == "" {
		jsonError(w, "field 'puzzle_id' is required", http.StatusBadRequest)
		return
	}

	game, err := s.store.CreateGame(req.PuzzleID)
	switch {
	case errors.Is(err, ErrPuzzleNotFound):
		jsonError(w, "puzzle not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrNotPlayable):
		jsonError(w, "word searches cannot be played as a game", http.StatusBadRequest)
		return
	case err != nil:
		jsonError(w, "could not create game", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, gameView(game))
}

type gameResponse struct {
	ID        string             `json:"id"`
	PuzzleID  string             `json:"puzzle_id"`
	Players   map[string]*Player `json:"players"`
	State     [][]string         `json:"state"`
	CreatedAt time.Time          `json:"created_at"`
	Puzzle    *Puzzle            `json:"puzzle,omitempty"`
}

func gameView(g *GameSession) gameResponse {
	return gameResponse{
		ID:        g.ID,
		PuzzleID:  g.PuzzleID,
		Players:   g.GetPlayers(),
		State:     g.GetState(),
		CreatedAt: g.CreatedAt,
	}
}

// GET /api/games/{id}: get current game state with its puzzle.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "game not found", http.StatusNotFound)
		return
	}
	resp := gameView(game)
	resp.Puzzle = s.store.GetPuzzle(game.PuzzleID)
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/games/{id}/join: join a game with a pseudo.
func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "game not found", http.StatusNotFound)
		return
	}

	var req struct {
		Pseudo string `json:"pseudo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Pseudo == "" {
		jsonError(w, "field 'pseudo' is required", http.StatusBadRequest)
		return
	}

	pseudo := sanitizePseudo(req.Pseudo)
	if pseudo == "" {
		jsonError(w, "invalid pseudo", http.StatusBadRequest)
		return
	}

	player := game.AddPlayer(pseudo)
	s.sse.Broadcast(game.ID, Event{
		"type":   "player_joined",
		"pseudo": player.Pseudo,
		"color":  player.Color,
	})
	writeJSON(w, http.StatusOK, player)
}

// POST /api/games/{id}/move: place a letter.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if !s.moveRL.allow(clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "game not found", http.StatusNotFound)
		return
	}

	var req struct {
		Pseudo string `json:"pseudo"`
		Row    int    `json:"row"`
		Col    int    `json:"col"`
		Value  string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request", http.StatusBadRequest)
		return
	}

	value := puzzle.NormalizeWord(req.Value)
	if value != "" && !isSingleLetter(value) {
		jsonError(w, "value must be a single letter or empty", http.StatusBadRequest)
		return
	}

	if !game.SetCell(req.Row, req.Col, value) {
		jsonError(w, "not a letter cell", http.StatusBadRequest)
		return
	}

	s.sse.Broadcast(game.ID, Event{
		"type":   "cell_update",
		"row":    req.Row,
		"col":    req.Col,
		"value":  value,
		"pseudo": sanitizePseudo(req.Pseudo),
	})
	if res := game.Check(); res.Complete {
		s.sse.Broadcast(game.ID, Event{"type": "completed"})
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/games/{id}/check: list wrong letters.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "game not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, game.Check())
}

// GET /api/games/{id}/events: SSE stream.
func (s *Server) handleGameEvents(w http.ResponseWriter, r *http.Request) {
	game := s.store.GetGame(r.PathValue("id"))
	if game == nil {
		jsonError(w, "game not found", http.StatusNotFound)
		return
	}

	playerPseudo := sanitizePseudo(r.URL.Query().Get("pseudo"))

	s.sse.ServeSSE(w, r, game.ID, func(c *client) {
		c.send(Event{
			"type":    "game_state",
			"state":   game.GetState(),
			"players": game.GetPlayers(),
		})
	}, func() {
		if playerPseudo != "" {
			game.RemovePlayer(playerPseudo)
			s.sse.Broadcast(game.ID, Event{
				"type":   "player_left",
				"pseudo": playerPseudo,
			})
		}
	})
}

// --- Helpers ---

func (s *Server) options() puzzle.Options {
	return puzzle.Options{
		Logger:   s.log.Named("puzzle"),
		GridSize: s.sizes.WordSearchSize,
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) decodeEntries(w http.ResponseWriter, r *http.Request, req *entriesRequest) bool {
	if !s.decode(w, r, req) {
		return false
	}
	if len(req.Items) > maxItems {
		jsonError(w, "too many items", http.StatusBadRequest)
		return false
	}
	if req.Rows < 0 || req.Cols < 0 || req.Rows > 40 || req.Cols > 40 {
		jsonError(w, "grid size out of range", http.StatusBadRequest)
		return false
	}
	return true
}

func sizeOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func clientIP(r *http.Request) string {
	if i := strings.LastIndexByte(r.RemoteAddr, ':'); i > 0 {
		return r.RemoteAddr[:i]
	}
	return r.RemoteAddr
}

func isSingleLetter(s string) bool {
	if utf8.RuneCountInString(s) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

func sanitizePseudo(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > 20 {
		s = string([]rune(s)[:20])
	}
	return s
}
