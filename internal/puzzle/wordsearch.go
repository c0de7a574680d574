package puzzle

import (
	"slices"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// WordSearchSize is the side of the square word-search grid.
	WordSearchSize = 12
	// MaxPlacementAttempts caps the random tries per word-search word.
	MaxPlacementAttempts = 200
)

// SearchDirection is the direction a word-search word is read in.
type SearchDirection string

const (
	Horizontal   SearchDirection = "horizontal"
	Vertical     SearchDirection = "vertical"
	DiagonalDown SearchDirection = "diagonal-down"
	DiagonalUp   SearchDirection = "diagonal-up"
)

var searchDirections = []SearchDirection{Horizontal, Vertical, DiagonalDown, DiagonalUp}

// Delta returns the row and column step of d.
func (d SearchDirection) Delta() (dr, dc int) {
	switch d {
	case Horizontal:
		return 0, 1
	case Vertical:
		return 1, 0
	case DiagonalDown:
		return 1, 1
	case DiagonalUp:
		return -1, 1
	}
	return 0, 0
}

// Placement records where a word-search word was written.
type Placement struct {
	Word      string          `json:"word" yaml:"word"`
	StartRow  int             `json:"startRow" yaml:"start_row"`
	StartCol  int             `json:"startCol" yaml:"start_col"`
	Direction SearchDirection `json:"direction" yaml:"direction"`
}

// WordSearch is a fully populated letter grid.
type WordSearch struct {
	Grid       [][]string  `json:"grid" yaml:"grid"`
	Words      []string    `json:"words" yaml:"words"`
	Placements []Placement `json:"placements" yaml:"placements"`
	Unplaced   []string    `json:"unplaced,omitempty" yaml:"unplaced,omitempty"`
}

// GenerateWordSearch places words in a square grid, longest first, and fills
// the remaining cells with random letters. Words that do not fit within
// MaxPlacementAttempts tries are left out of Words and Placements.
func GenerateWordSearch(words []string, opts Options) *WordSearch {
	size := opts.gridSize()
	rng := opts.rand()
	log := opts.logger()

	grid := make([][]rune, size)
	for r := range grid {
		grid[r] = make([]rune, size)
	}

	sorted := make([]string, 0, len(words))
	for _, w := range words {
		w = NormalizeWord(w)
		if n := utf8.RuneCountInString(w); n == 0 || n > size {
			continue
		}
		sorted = append(sorted, w)
	}
	slices.SortStableFunc(sorted, func(a, b string) int {
		return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
	})

	ws := &WordSearch{
		Words:      []string{},
		Placements: []Placement{},
	}

	for _, word := range sorted {
		letters := []rune(word)
		placed := false

		for attempt := 0; attempt < MaxPlacementAttempts && !placed; attempt++ {
			dir := searchDirections[rng.IntN(len(searchDirections))]
			dr, dc := dir.Delta()

			minRow, maxRow := 0, size-1
			switch {
			case dr > 0:
				maxRow = size - len(letters)
			case dr < 0:
				minRow = len(letters) - 1
			}
			maxCol := size - 1
			if dc > 0 {
				maxCol = size - len(letters)
			}
			if maxRow < minRow || maxCol < 0 {
				continue
			}

			row := minRow + rng.IntN(maxRow-minRow+1)
			col := rng.IntN(maxCol + 1)

			if !fitsSearch(grid, letters, row, col, dr, dc) {
				continue
			}
			for i, ch := range letters {
				grid[row+dr*i][col+dc*i] = ch
			}
			ws.Placements = append(ws.Placements, Placement{
				Word:      word,
				StartRow:  row,
				StartCol:  col,
				Direction: dir,
			})
			ws.Words = append(ws.Words, word)
			placed = true
		}

		if !placed {
			log.Debug("word search: word not placed", zap.String("word", word))
			ws.Unplaced = append(ws.Unplaced, word)
		}
	}

	alphabet := opts.alphabet()
	ws.Grid = make([][]string, size)
	for r := range grid {
		ws.Grid[r] = make([]string, size)
		for c, ch := range grid[r] {
			if ch == 0 {
				ch = alphabet[rng.IntN(len(alphabet))]
			}
			ws.Grid[r][c] = string(ch)
		}
	}
	return ws
}

func fitsSearch(grid [][]rune, letters []rune, row, col, dr, dc int) bool {
	size := len(grid)
	for i, ch := range letters {
		r, c := row+dr*i, col+dc*i
		if r < 0 || r >= size || c < 0 || c >= size {
			return false
		}
		if grid[r][c] != 0 && grid[r][c] != ch {
			return false
		}
	}
	return true
}

// Trace reads len([]rune(p.Word)) letters from the grid along the placement.
func (ws *WordSearch) Trace(p Placement) string {
	dr, dc := p.Direction.Delta()
	n := utf8.RuneCountInString(p.Word)
	var out []rune
	for i := 0; i < n; i++ {
		r, c := p.StartRow+dr*i, p.StartCol+dc*i
		if r < 0 || r >= len(ws.Grid) || c < 0 || c >= len(ws.Grid[r]) {
			break
		}
		out = append(out, []rune(ws.Grid[r][c])...)
	}
	return string(out)
}
