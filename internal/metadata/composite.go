package metadata

import (
	"fmt"

	"github.com/aria-lang/pairalign/internal/alignment"
)

// MaxFiller caps the number of filler columns placed between two blocks.
const MaxFiller = 10

// Filler is the letter used on both rows of a filler column.
const Filler = 'N'

// Compose joins blocks that follow each other on both parents, such as the
// exons of a spliced read, into one multi-block alignment. Between two blocks
// it places min(max(database skip, query skip), MaxFiller) filler columns.
// The composite score is the sum of the block scores.
func Compose(blocks ...*Metadata) (*Metadata, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("nothing to compose")
	}

	b := alignment.NewBuilderFrom(blocks[0].Alignment)
	score := blocks[0].Score

	for i := 1; i < len(blocks); i++ {
		prev, next := blocks[i-1], blocks[i]

		dbSkip := next.StartDatabase - prev.EndDatabase - 1
		querySkip := next.StartQuery - prev.EndQuery - 1
		if dbSkip < 0 || querySkip < 0 {
			return nil, fmt.Errorf("block %d overlaps or precedes block %d", i, i-1)
		}

		filler := dbSkip
		if querySkip > filler {
			filler = querySkip
		}
		if filler > MaxFiller {
			filler = MaxFiller
		}
		for j := 0; j < filler; j++ {
			b.PushBack(Filler, Filler)
		}

		b.PushBackAlignment(next.Alignment)
		score += next.Score
	}

	a, err := b.Materialize()
	if err != nil {
		return nil, err
	}

	first, last := blocks[0], blocks[len(blocks)-1]
	md := &Metadata{
		Alignment:     a,
		Score:         score,
		Type:          Composite,
		DatabaseID:    first.DatabaseID,
		QueryID:       first.QueryID,
		StartDatabase: first.StartDatabase,
		EndDatabase:   last.EndDatabase,
		StartQuery:    first.StartQuery,
		EndQuery:      last.EndQuery,
	}
	md.Counts = Count(a, nil)
	return md, nil
}
