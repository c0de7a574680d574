// Package puzzle lays out the fun-zone puzzles of an edition: a word search,
// a crossword and a tashchetz (Hebrew arrow-word) grid.
//
// Every generator builds a fresh grid from its input on each call and keeps
// no state between calls, so they are safe to call concurrently as long as
// callers do not share an Options.Rand between goroutines.
package puzzle

import (
	"math/rand/v2"

	"go.uber.org/zap"
)

// HebrewLetters is the filler alphabet of the word search (no final forms).
const HebrewLetters = "אבגדהוזחטיכלמנסעפצקרשת"

// Entry is a word with its clue, as produced by the content generator.
type Entry struct {
	Word string `json:"word" yaml:"word"`
	Clue string `json:"clue" yaml:"clue"`
}

// Options carries the collaborators of the generators. The zero value is usable.
type Options struct {
	// Rand drives the word search. Nil means a freshly seeded source per call.
	Rand *rand.Rand
	// Logger receives diagnostics about words that could not be placed.
	Logger *zap.Logger
	// Alphabet used to fill empty word-search cells. Defaults to HebrewLetters.
	Alphabet string
	// GridSize of the word search. Defaults to WordSearchSize.
	GridSize int
}

func (o Options) rand() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) alphabet() []rune {
	if o.Alphabet != "" {
		return []rune(o.Alphabet)
	}
	return []rune(HebrewLetters)
}

func (o Options) gridSize() int {
	if o.GridSize > 0 {
		return o.GridSize
	}
	return WordSearchSize
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
