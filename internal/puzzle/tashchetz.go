package puzzle

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultTashchetzCols = 11
	DefaultTashchetzRows = 14
)

// CellKind tags a tashchetz cell.
type CellKind string

const (
	// Black cells are unused and render as filled squares.
	Black CellKind = "black"
	// Clue cells hold a definition and the arrow of their answer.
	Clue CellKind = "clue"
	// Letter cells hold the solution letter; it is hidden from the solver.
	Letter CellKind = "letter"
)

// Arrow is the direction of a tashchetz answer relative to its clue cell.
type Arrow string

const (
	// ArrowH answers run right to left, starting left of the clue.
	ArrowH Arrow = "h"
	// ArrowV answers run top to bottom, starting below the clue.
	ArrowV Arrow = "v"
)

// Cell is one tashchetz square. Text and Dir are set on clue cells only,
// Char on letter cells only.
type Cell struct {
	Kind CellKind `json:"kind" yaml:"kind"`
	Text string   `json:"text,omitempty" yaml:"text,omitempty"`
	Dir  Arrow    `json:"dir,omitempty" yaml:"dir,omitempty"`
	Char string   `json:"char,omitempty" yaml:"char,omitempty"`
}

// ArrowWord is a placed tashchetz answer, anchored at its clue cell.
type ArrowWord struct {
	Word  string `json:"word" yaml:"word"`
	Clue  string `json:"clue" yaml:"clue"`
	Dir   Arrow  `json:"dir" yaml:"dir"`
	ClueR int    `json:"clueR" yaml:"clue_r"`
	ClueC int    `json:"clueC" yaml:"clue_c"`
}

// Cells returns the coordinates of the letters of w, in answer order.
func (w ArrowWord) Cells() [][2]int {
	n := len([]rune(w.Word))
	out := make([][2]int, n)
	for i := range n {
		if w.Dir == ArrowH {
			out[i] = [2]int{w.ClueR, w.ClueC - 1 - i}
		} else {
			out[i] = [2]int{w.ClueR + 1 + i, w.ClueC}
		}
	}
	return out
}

// Tashchetz is an arrow-word grid. It is not trimmed; see Bounds.
type Tashchetz struct {
	Grid     [][]Cell    `json:"grid" yaml:"grid"`
	Placed   []ArrowWord `json:"placed" yaml:"placed"`
	Unplaced []string    `json:"unplaced,omitempty" yaml:"unplaced,omitempty"`
}

type tashchetzLayout struct {
	rows, cols int
	grid       [][]Cell
	placed     []ArrowWord
}

func (l *tashchetzLayout) isFree(r, c int) bool {
	return r >= 0 && r < l.rows && c >= 0 && c < l.cols && l.grid[r][c].Kind == Black
}

func (l *tashchetzLayout) isLetterAt(r, c int, ch rune) bool {
	return r >= 0 && r < l.rows && c >= 0 && c < l.cols &&
		l.grid[r][c].Kind == Letter && l.grid[r][c].Char == string(ch)
}

// fits checks the cells of a word anchored at (clueR, clueC); it reports
// whether the word can be placed and whether it reuses an existing letter.
func (l *tashchetzLayout) fits(letters []rune, clueR, clueC int, dir Arrow) (ok, crosses bool) {
	if !l.isFree(clueR, clueC) {
		return false, false
	}
	for i, ch := range letters {
		r, c := clueR+1+i, clueC
		if dir == ArrowH {
			r, c = clueR, clueC-1-i
		}
		if l.isLetterAt(r, c, ch) {
			crosses = true
			continue
		}
		if !l.isFree(r, c) {
			return false, false
		}
	}
	return true, crosses
}

func (l *tashchetzLayout) commit(e Entry, letters []rune, clueR, clueC int, dir Arrow) {
	l.grid[clueR][clueC] = Cell{Kind: Clue, Text: e.Clue, Dir: dir}
	w := ArrowWord{Word: e.Word, Clue: e.Clue, Dir: dir, ClueR: clueR, ClueC: clueC}
	for i, rc := range w.Cells() {
		if l.grid[rc[0]][rc[1]].Kind == Black {
			l.grid[rc[0]][rc[1]] = Cell{Kind: Letter, Char: string(letters[i])}
		}
	}
	l.placed = append(l.placed, w)
}

func (l *tashchetzLayout) placeH(e Entry, letters []rune, r, clueC int) bool {
	if clueC-len(letters) < 0 {
		return false
	}
	if ok, _ := l.fits(letters, r, clueC, ArrowH); !ok {
		return false
	}
	l.commit(e, letters, r, clueC, ArrowH)
	return true
}

func (l *tashchetzLayout) placeV(e Entry, letters []rune, clueR, c int) bool {
	if clueR+len(letters) >= l.rows {
		return false
	}
	if ok, _ := l.fits(letters, clueR, c, ArrowV); !ok {
		return false
	}
	l.commit(e, letters, clueR, c, ArrowV)
	return true
}

// GenerateTashchetz lays out an arrow-word grid. Answers are kept when they
// have between 2 and cols-1 letters and no spaces, then placed shortest first:
// even-indexed answers horizontally on every other row with their clue in
// the rightmost column, odd-indexed answers vertically, preferably crossing
// a letter already on the grid.
func GenerateTashchetz(items []Entry, cols, rows int, opts Options) *Tashchetz {
	if cols <= 0 {
		cols = DefaultTashchetzCols
	}
	if rows <= 0 {
		rows = DefaultTashchetzRows
	}
	log := opts.logger()

	l := &tashchetzLayout{rows: rows, cols: cols, grid: make([][]Cell, rows)}
	for r := range l.grid {
		l.grid[r] = make([]Cell, cols)
		for c := range l.grid[r] {
			l.grid[r][c] = Cell{Kind: Black}
		}
	}

	var valid []Entry
	for _, it := range items {
		w := stripMarks(it.Word)
		n := len([]rune(w))
		if n < 2 || n > cols-1 || strings.Contains(w, " ") {
			continue
		}
		valid = append(valid, Entry{Word: w, Clue: it.Clue})
	}
	slices.SortStableFunc(valid, func(a, b Entry) int {
		return len([]rune(a.Word)) - len([]rune(b.Word))
	})

	t := &Tashchetz{Placed: []ArrowWord{}}
	var hPool, vPool []Entry
	for i, e := range valid {
		if i%2 == 0 {
			hPool = append(hPool, e)
		} else {
			vPool = append(vPool, e)
		}
	}

	hIdx := 0
	for r := 0; r < rows && hIdx < len(hPool); r += 2 {
		if l.placeH(hPool[hIdx], []rune(hPool[hIdx].Word), r, cols-1) {
			hIdx++
		}
	}
	for _, e := range hPool[hIdx:] {
		log.Warn("tashchetz: no row left for word", zap.String("word", e.Word))
		t.Unplaced = append(t.Unplaced, e.Word)
	}

	for _, e := range vPool {
		letters := []rune(e.Word)
		if !l.placeCrossing(e, letters) && !l.placeAnywhere(e, letters) {
			log.Warn("tashchetz: could not place word", zap.String("word", e.Word))
			t.Unplaced = append(t.Unplaced, e.Word)
		}
	}

	t.Grid = l.grid
	t.Placed = append(t.Placed, l.placed...)
	return t
}

// placeCrossing scans columns left to right and rows top to bottom for a
// vertical slot that shares at least one letter with the grid.
func (l *tashchetzLayout) placeCrossing(e Entry, letters []rune) bool {
	for c := 0; c < l.cols-1; c++ {
		for clueR := 0; clueR < l.rows-len(letters)-1; clueR++ {
			if ok, crosses := l.fits(letters, clueR, c, ArrowV); ok && crosses {
				if l.placeV(e, letters, clueR, c) {
					return true
				}
			}
		}
	}
	return false
}

// placeAnywhere scans columns right to left for any vertical slot.
func (l *tashchetzLayout) placeAnywhere(e Entry, letters []rune) bool {
	for c := l.cols - 2; c >= 0; c-- {
		for clueR := 0; clueR < l.rows-len(letters)-1; clueR++ {
			if l.placeV(e, letters, clueR, c) {
				return true
			}
		}
	}
	return false
}

// Bounds returns the bounding box of the non-black cells, inclusive.
// ok is false when the grid has no such cell.
func (t *Tashchetz) Bounds() (minR, minC, maxR, maxC int, ok bool) {
	minR, minC = len(t.Grid), 0
	if len(t.Grid) > 0 {
		minC = len(t.Grid[0])
	}
	maxR, maxC = -1, -1
	for r, row := range t.Grid {
		for c, cell := range row {
			if cell.Kind == Black {
				continue
			}
			minR, maxR = min(minR, r), max(maxR, r)
			minC, maxC = min(minC, c), max(maxC, c)
		}
	}
	if maxR < 0 {
		return 0, 0, 0, 0, false
	}
	return minR, minC, maxR, maxC, true
}

// Trimmed returns a copy of the grid cropped to Bounds.
func (t *Tashchetz) Trimmed() [][]Cell {
	minR, minC, maxR, maxC, ok := t.Bounds()
	if !ok {
		return nil
	}
	out := make([][]Cell, 0, maxR-minR+1)
	for r := minR; r <= maxR; r++ {
		out = append(out, slices.Clone(t.Grid[r][minC:maxC+1]))
	}
	return out
}
