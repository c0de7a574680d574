package main

import (
	"time"

	"github.com/bodul/funzone/internal/puzzle"
)

// Kind names a puzzle type.
type Kind string

const (
	KindWordSearch Kind = "wordsearch"
	KindCrossword  Kind = "crossword"
	KindTashchetz  Kind = "tashchetz"
)

// Puzzle is a generated grid kept by the store. Exactly one of the layout
// fields is set, matching Kind.
type Puzzle struct {
	ID         string             `json:"id"`
	Kind       Kind               `json:"kind"`
	WordSearch *puzzle.WordSearch `json:"wordSearch,omitempty"`
	Crossword  *puzzle.Crossword  `json:"crossword,omitempty"`
	Tashchetz  *puzzle.Tashchetz  `json:"tashchetz,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Solution returns the answer letter of every cell, "" where nothing is to
// be written. Word searches have no fill-in cells and return nil.
func (p *Puzzle) Solution() [][]string {
	switch p.Kind {
	case KindCrossword:
		out := make([][]string, len(p.Crossword.Grid))
		for r, row := range p.Crossword.Grid {
			out[r] = append([]string(nil), row...)
		}
		return out
	case KindTashchetz:
		out := make([][]string, len(p.Tashchetz.Grid))
		for r, row := range p.Tashchetz.Grid {
			out[r] = make([]string, len(row))
			for c, cell := range row {
				if cell.Kind == puzzle.Letter {
					out[r][c] = cell.Char
				}
			}
		}
		return out
	}
	return nil
}

// Placed reports how many words made it onto the grid.
func (p *Puzzle) Placed() int {
	switch p.Kind {
	case KindWordSearch:
		return len(p.WordSearch.Placements)
	case KindCrossword:
		return len(p.Crossword.PlacedWords)
	case KindTashchetz:
		return len(p.Tashchetz.Placed)
	}
	return 0
}
