package puzzle

import (
	"cmp"
	"slices"

	"go.uber.org/zap"
)

const (
	DefaultCrosswordRows = 12
	DefaultCrosswordCols = 12
)

// Orientation of a crossword entry.
type Orientation string

const (
	Across Orientation = "across"
	Down   Orientation = "down"
)

// PlacedWord is a crossword entry anchored at its first letter.
type PlacedWord struct {
	Word      string      `json:"word" yaml:"word"`
	Clue      string      `json:"clue" yaml:"clue"`
	Row       int         `json:"row" yaml:"row"`
	Col       int         `json:"col" yaml:"col"`
	Direction Orientation `json:"direction" yaml:"direction"`
	Number    int         `json:"number" yaml:"number"`
}

// Crossword is an intersecting grid. Unused cells hold "".
type Crossword struct {
	Grid        [][]string   `json:"grid" yaml:"grid"`
	PlacedWords []PlacedWord `json:"placedWords" yaml:"placed_words"`
	Rows        int          `json:"rows" yaml:"rows"`
	Cols        int          `json:"cols" yaml:"cols"`
	Unplaced    []string     `json:"unplaced,omitempty" yaml:"unplaced,omitempty"`
}

type crosswordWord struct {
	Entry
	letters []rune
}

type crosswordLayout struct {
	rows, cols int
	grid       [][]rune
}

func (l *crosswordLayout) at(r, c int) rune {
	if r < 0 || r >= l.rows || c < 0 || c >= l.cols {
		return 0
	}
	return l.grid[r][c]
}

// canPlace reports whether letters fit at (row, col) in direction dir without
// conflicting with, or running alongside, letters already in the grid.
func (l *crosswordLayout) canPlace(letters []rune, row, col int, dir Orientation) bool {
	n := len(letters)
	if row < 0 || col < 0 {
		return false
	}
	if dir == Across {
		if row >= l.rows || col+n > l.cols {
			return false
		}
		if l.at(row, col-1) != 0 || l.at(row, col+n) != 0 {
			return false
		}
		for i, ch := range letters {
			cell := l.grid[row][col+i]
			if cell != 0 && cell != ch {
				return false
			}
			if cell == 0 && (l.at(row-1, col+i) != 0 || l.at(row+1, col+i) != 0) {
				return false
			}
		}
		return true
	}

	if col >= l.cols || row+n > l.rows {
		return false
	}
	if l.at(row-1, col) != 0 || l.at(row+n, col) != 0 {
		return false
	}
	for i, ch := range letters {
		cell := l.grid[row+i][col]
		if cell != 0 && cell != ch {
			return false
		}
		if cell == 0 && (l.at(row+i, col-1) != 0 || l.at(row+i, col+1) != 0) {
			return false
		}
	}
	return true
}

func (l *crosswordLayout) write(letters []rune, row, col int, dir Orientation) {
	for i, ch := range letters {
		if dir == Across {
			l.grid[row][col+i] = ch
		} else {
			l.grid[row+i][col] = ch
		}
	}
}

// findIntersection returns the first valid placement crossing an existing
// letter, scanning the grid row-major and trying across before down.
func (l *crosswordLayout) findIntersection(letters []rune) (row, col int, dir Orientation, ok bool) {
	for r := 0; r < l.rows; r++ {
		for c := 0; c < l.cols; c++ {
			cell := l.grid[r][c]
			if cell == 0 {
				continue
			}
			for i, ch := range letters {
				if ch != cell {
					continue
				}
				if l.canPlace(letters, r, c-i, Across) {
					return r, c - i, Across, true
				}
				if l.canPlace(letters, r-i, c, Down) {
					return r - i, c, Down, true
				}
			}
		}
	}
	return 0, 0, "", false
}

// GenerateCrossword lays out items greedily, longest word first. The first
// word is centred across the middle row; every following word must cross a
// letter already on the grid or it is dropped. Entries are numbered in
// reading order of their first cells.
func GenerateCrossword(items []Entry, rows, cols int, opts Options) *Crossword {
	if rows <= 0 {
		rows = DefaultCrosswordRows
	}
	if cols <= 0 {
		cols = DefaultCrosswordCols
	}
	log := opts.logger()

	l := &crosswordLayout{rows: rows, cols: cols, grid: make([][]rune, rows)}
	for r := range l.grid {
		l.grid[r] = make([]rune, cols)
	}

	words := make([]crosswordWord, 0, len(items))
	for _, it := range items {
		w := NormalizeWord(it.Word)
		if w == "" {
			continue
		}
		words = append(words, crosswordWord{
			Entry:   Entry{Word: w, Clue: it.Clue},
			letters: []rune(w),
		})
	}
	slices.SortStableFunc(words, func(a, b crosswordWord) int {
		return len(b.letters) - len(a.letters)
	})

	cw := &Crossword{Rows: rows, Cols: cols, PlacedWords: []PlacedWord{}}
	seeded := false

	for _, w := range words {
		if !seeded {
			row, col := rows/2, (cols-len(w.letters))/2
			if len(w.letters) > cols {
				log.Warn("crossword: word too long for grid", zap.String("word", w.Word))
				cw.Unplaced = append(cw.Unplaced, w.Word)
				continue
			}
			l.write(w.letters, row, col, Across)
			cw.PlacedWords = append(cw.PlacedWords, PlacedWord{
				Word: w.Word, Clue: w.Clue, Row: row, Col: col, Direction: Across,
			})
			seeded = true
			continue
		}

		row, col, dir, ok := l.findIntersection(w.letters)
		if !ok {
			log.Warn("crossword: could not place word", zap.String("word", w.Word))
			cw.Unplaced = append(cw.Unplaced, w.Word)
			continue
		}
		l.write(w.letters, row, col, dir)
		cw.PlacedWords = append(cw.PlacedWords, PlacedWord{
			Word: w.Word, Clue: w.Clue, Row: row, Col: col, Direction: dir,
		})
	}

	renumber(cw.PlacedWords)

	cw.Grid = make([][]string, rows)
	for r := range l.grid {
		cw.Grid[r] = make([]string, cols)
		for c, ch := range l.grid[r] {
			if ch != 0 {
				cw.Grid[r][c] = string(ch)
			}
		}
	}
	return cw
}

type anchor struct{ row, col int }

// renumber assigns 1..N to the distinct anchor cells in reading order and
// sorts words by their number.
func renumber(words []PlacedWord) {
	var starts []anchor
	for _, pw := range words {
		a := anchor{pw.Row, pw.Col}
		if !slices.Contains(starts, a) {
			starts = append(starts, a)
		}
	}
	slices.SortFunc(starts, func(a, b anchor) int {
		return cmp.Or(cmp.Compare(a.row, b.row), cmp.Compare(a.col, b.col))
	})

	numbers := make(map[anchor]int, len(starts))
	for i, a := range starts {
		numbers[a] = i + 1
	}
	for i := range words {
		words[i].Number = numbers[anchor{words[i].Row, words[i].Col}]
	}
	slices.SortStableFunc(words, func(a, b PlacedWord) int {
		return a.Number - b.Number
	})
}

// Number returns the entry number shown in cell (r, c), or 0.
func (cw *Crossword) Number(r, c int) int {
	for _, pw := range cw.PlacedWords {
		if pw.Row == r && pw.Col == c {
			return pw.Number
		}
	}
	return 0
}

// Clues returns the placed words of one orientation, in number order.
func (cw *Crossword) Clues(dir Orientation) []PlacedWord {
	var out []PlacedWord
	for _, pw := range cw.PlacedWords {
		if pw.Direction == dir {
			out = append(out, pw)
		}
	}
	return out
}
