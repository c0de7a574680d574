package main

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPuzzleNotFound = errors.New("puzzle not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrNotPlayable    = errors.New("puzzle has no fill-in cells")
)

// Store holds all puzzles and game sessions in memory.
type Store struct {
	mu      sync.RWMutex
	puzzles map[string]*Puzzle
	games   map[string]*GameSession
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		puzzles: make(map[string]*Puzzle),
		games:   make(map[string]*GameSession),
	}
}

// SavePuzzle keeps a puzzle and returns it with a generated ID.
func (s *Store) SavePuzzle(p *Puzzle) *Puzzle {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()

	s.mu.Lock()
	s.puzzles[p.ID] = p
	s.mu.Unlock()

	return p
}

// GetPuzzle returns a puzzle by ID, or nil if not found.
func (s *Store) GetPuzzle(id string) *Puzzle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puzzles[id]
}

// ListPuzzles returns all puzzles, most recent first.
func (s *Store) ListPuzzles() []*Puzzle {
	s.mu.RLock()
	list := make([]*Puzzle, 0, len(s.puzzles))
	for _, p := range s.puzzles {
		list = append(list, p)
	}
	s.mu.RUnlock()

	slices.SortFunc(list, func(a, b *Puzzle) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return list
}

// CreateGame opens a game session on a crossword or tashchetz puzzle.
func (s *Store) CreateGame(puzzleID string) (*GameSession, error) {
	p := s.GetPuzzle(puzzleID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPuzzleNotFound, puzzleID)
	}

	solution := p.Solution()
	if solution == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotPlayable, p.Kind)
	}

	state := make([][]string, len(solution))
	for i := range state {
		state[i] = make([]string, len(solution[i]))
	}

	game := &GameSession{
		ID:        uuid.NewString(),
		PuzzleID:  puzzleID,
		Players:   make(map[string]*Player),
		State:     state,
		CreatedAt: time.Now(),
		solution:  solution,
	}

	s.mu.Lock()
	s.games[game.ID] = game
	s.mu.Unlock()

	return game, nil
}

// GetGame returns a game session by ID, or nil if not found.
func (s *Store) GetGame(id string) *GameSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games[id]
}

// ListGames returns all game sessions.
func (s *Store) ListGames() []*GameSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*GameSession, 0, len(s.games))
	for _, g := range s.games {
		list = append(list, g)
	}
	return list
}
