package dp

import (
	"math"

	"github.com/aria-lang/pairalign/internal/alignment"
	"github.com/aria-lang/pairalign/internal/sequence"
)

// DefaultBoundaryPenalty is large enough that a single run crossing restores
// the full gap-open penalty for the usual matrices.
const DefaultBoundaryPenalty = 10.0

// HomopolymerTables holds the per-position gap-open penalties of one sequence.
//
// Inside a homopolymer run of length L the open penalty ramps linearly from
// the matrix default at the first letter down to a floor at the last one.
// BoundaryAt[p] is true when letter p starts a new run.
type HomopolymerTables struct {
	GapOpenAt  []float64
	BoundaryAt []bool
}

// HomopolymerFloor returns the lowest open penalty a ramp may reach:
// max(extend+0.1, open-(|highest|+|lowest|-0.1)), never above open.
func HomopolymerFloor(m *alignment.SubstitutionMatrix) (float64, error) {
	open, err := m.GapExistPenalty()
	if err != nil {
		return 0, err
	}
	extend, err := m.GapExtendPenalty()
	if err != nil {
		return 0, err
	}
	highest, err := m.HighestScore()
	if err != nil {
		return 0, err
	}
	lowest, err := m.LowestScore()
	if err != nil {
		return 0, err
	}

	floor := math.Max(extend+0.1, open-(math.Abs(highest)+math.Abs(lowest)-0.1))
	return math.Min(floor, open), nil
}

// NewHomopolymerTables derives the tables of s under m.
func NewHomopolymerTables(s sequence.Sequence, m *alignment.SubstitutionMatrix) (*HomopolymerTables, error) {
	open, err := m.GapExistPenalty()
	if err != nil {
		return nil, err
	}
	floor, err := HomopolymerFloor(m)
	if err != nil {
		return nil, err
	}

	n := s.Len()
	t := &HomopolymerTables{
		GapOpenAt:  make([]float64, n),
		BoundaryAt: make([]bool, n),
	}

	for _, run := range sequence.HomopolymerRuns(s) {
		if run.Start > 0 {
			t.BoundaryAt[run.Start] = true
		}
		if run.Length < 2 {
			t.GapOpenAt[run.Start] = open
			continue
		}

		step := (open - floor) / float64(run.Length-1)
		for j := 0; j < run.Length; j++ {
			t.GapOpenAt[run.Start+j] = open - step*float64(j)
		}
	}

	return t, nil
}

// Len returns the length of the sequence the tables were built for.
func (t *HomopolymerTables) Len() int {
	return len(t.GapOpenAt)
}

// Crossed reports whether original positions a and b, which must be
// adjacent, lie in different runs.
func (t *HomopolymerTables) Crossed(a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return t.BoundaryAt[b]
}

// HomopolymerModel pairs the tables of both inputs of a run.
type HomopolymerModel struct {
	Database        *HomopolymerTables
	Query           *HomopolymerTables
	BoundaryPenalty float64

	// MaxOpen caps the working open of a gap run. It is the matrix default.
	MaxOpen float64
}

// NewHomopolymerModel builds the tables of database and query under m.
func NewHomopolymerModel(database, query sequence.Sequence, m *alignment.SubstitutionMatrix, boundaryPenalty float64) (*HomopolymerModel, error) {
	open, err := m.GapExistPenalty()
	if err != nil {
		return nil, err
	}
	db, err := NewHomopolymerTables(database, m)
	if err != nil {
		return nil, err
	}
	q, err := NewHomopolymerTables(query, m)
	if err != nil {
		return nil, err
	}
	return &HomopolymerModel{Database: db, Query: q, BoundaryPenalty: boundaryPenalty, MaxOpen: open}, nil
}

// OpenAt returns the open penalty of a gap starting at the given original
// positions: the cheaper of the two sequences' contexts.
func (h *HomopolymerModel) OpenAt(dbPos, queryPos int) float64 {
	return math.Min(h.Database.GapOpenAt[dbPos], h.Query.GapOpenAt[queryPos])
}

// Cross returns the working open of a run after one more boundary crossing.
func (h *HomopolymerModel) Cross(work float64) float64 {
	return work + math.Max(0, math.Min(h.BoundaryPenalty, h.MaxOpen-work))
}

// RunOpen returns the working open of a run that opened at open0 and has
// crossed count boundaries since. It equals count applications of Cross.
func (h *HomopolymerModel) RunOpen(open0 float64, count int) float64 {
	if count == 0 {
		return open0
	}
	return open0 + math.Max(0, math.Min(h.BoundaryPenalty*float64(count), h.MaxOpen-open0))
}
