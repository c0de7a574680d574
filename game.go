package main

import (
	"sync"
	"time"
)

// Player represents a connected player.
type Player struct {
	Pseudo   string    `json:"pseudo"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"joined_at"`
}

// GameSession is a collaborative solve of one puzzle.
type GameSession struct {
	ID        string             `json:"id"`
	PuzzleID  string             `json:"puzzle_id"`
	Players   map[string]*Player `json:"players"`
	State     [][]string         `json:"state"` // letters typed so far [row][col]
	CreatedAt time.Time          `json:"created_at"`

	mu       sync.Mutex
	solution [][]string
}

// CheckResult lists the filled cells that disagree with the solution.
type CheckResult struct {
	Wrong    [][2]int `json:"wrong"`
	Filled   int      `json:"filled"`
	Total    int      `json:"total"`
	Complete bool     `json:"complete"`
}

var playerColors = []string{
	"#2563eb", "#dc2626", "#16a34a", "#9333ea",
	"#ea580c", "#0891b2", "#c026d3", "#ca8a04",
}

// AddPlayer adds a player to the session and returns the player.
// Joining twice with the same pseudo returns the existing player.
func (g *GameSession) AddPlayer(pseudo string) *Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	if p, ok := g.Players[pseudo]; ok {
		return p
	}

	p := &Player{
		Pseudo:   pseudo,
		Color:    playerColors[len(g.Players)%len(playerColors)],
		JoinedAt: time.Now(),
	}
	g.Players[pseudo] = p
	return p
}

// RemovePlayer removes a player from the session.
func (g *GameSession) RemovePlayer(pseudo string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.Players, pseudo)
}

// Playable reports whether (row, col) is a fill-in cell.
func (g *GameSession) Playable(row, col int) bool {
	if row < 0 || row >= len(g.solution) || col < 0 || col >= len(g.solution[row]) {
		return false
	}
	return g.solution[row][col] != ""
}

// SetCell writes a letter, or clears the cell when value is empty.
// Returns false for positions outside the grid or off the fill-in cells.
func (g *GameSession) SetCell(row, col int, value string) bool {
	if !g.Playable(row, col) {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.State[row][col] = value
	return true
}

// GetState returns a copy of the current game state.
func (g *GameSession) GetState() [][]string {
	g.mu.Lock()
	defer g.mu.Unlock()

	cp := make([][]string, len(g.State))
	for i, row := range g.State {
		cp[i] = make([]string, len(row))
		copy(cp[i], row)
	}
	return cp
}

// GetPlayers returns a copy of the players map.
func (g *GameSession) GetPlayers() map[string]*Player {
	g.mu.Lock()
	defer g.mu.Unlock()

	cp := make(map[string]*Player, len(g.Players))
	for k, p := range g.Players {
		cp[k] = p
	}
	return cp
}

// Check compares the typed letters with the solution. Empty cells are not
// counted as wrong.
func (g *GameSession) Check() CheckResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	res := CheckResult{Wrong: [][2]int{}}
	for r, row := range g.solution {
		for c, want := range row {
			if want == "" {
				continue
			}
			res.Total++
			got := g.State[r][c]
			if got == "" {
				continue
			}
			res.Filled++
			if got != want {
				res.Wrong = append(res.Wrong, [2]int{r, c})
			}
		}
	}
	res.Complete = res.Filled == res.Total && len(res.Wrong) == 0
	return res
}
