package puzzle

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FunZoneInput is the puzzle material of one edition.
type FunZoneInput struct {
	WordSearchWords []string
	Crossword       []Entry
	Tashchetz       []Entry
}

// FunZoneSizes overrides the default grid sizes. Zero fields keep the defaults.
type FunZoneSizes struct {
	WordSearch    int
	CrosswordRows int
	CrosswordCols int
	TashchetzRows int
	TashchetzCols int
}

// FunZone holds the three laid-out puzzles of an edition.
type FunZone struct {
	WordSearch *WordSearch `json:"wordSearch" yaml:"word_search"`
	Crossword  *Crossword  `json:"crossword" yaml:"crossword"`
	Tashchetz  *Tashchetz  `json:"tashchetz" yaml:"tashchetz"`
}

// BuildFunZone runs the three generators concurrently. Only the word search
// consumes opts.Rand, so a caller-provided source is never shared.
func BuildFunZone(ctx context.Context, in FunZoneInput, sizes FunZoneSizes, opts Options) (*FunZone, error) {
	fz := &FunZone{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		o := opts
		if sizes.WordSearch > 0 {
			o.GridSize = sizes.WordSearch
		}
		fz.WordSearch = GenerateWordSearch(in.WordSearchWords, o)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		fz.Crossword = GenerateCrossword(in.Crossword, sizes.CrosswordRows, sizes.CrosswordCols, opts)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		fz.Tashchetz = GenerateTashchetz(in.Tashchetz, sizes.TashchetzCols, sizes.TashchetzRows, opts)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return fz, nil
}
