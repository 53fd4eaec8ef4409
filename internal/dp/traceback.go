package dp

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/aria-lang/pairalign/internal/alignment"
	"github.com/aria-lang/pairalign/internal/sequence"
)

// ScoreTolerance is how far a reconstructed gap-run score may drift from the
// recorded cell score and still be accepted.
//
// The fill keeps only the best score of an open gap run, not its length, so
// traceback recovers the length by replaying the affine cost one step at a
// time. Fill and replay add the same penalties in a different order; the
// tolerance absorbs that rounding. This is fragile under pathological
// cancellation: a run whose score lands within the tolerance of a shorter
// one is traced as the shorter run.
const ScoreTolerance = 1e-4

// traceback walks from the winning cell to the start of the alignment and
// returns it with the logical cell the walk stopped at.
func (e *engine) traceback(i, k int) (*alignment.PairwiseAlignment, int, int) {
	b := alignment.NewBuilder(e.database)
	emit := b.PushFront
	if e.policy.Direction == Forward {
		emit = b.PushBack
	}

	w := e.m + 1
	global := e.policy.Boundary == GlobalCumulative

walk:
	for i > 0 || k > 0 {
		if global && i == 0 {
			for ; k > 0; k-- {
				emit(sequence.Gap, e.queryAt(k))
			}
			break
		}
		if global && k == 0 {
			for ; i > 0; i-- {
				emit(e.dbAt(i), sequence.Gap)
			}
			break
		}

		switch mv := e.moves[i*w+k]; mv {
		case None:
			break walk
		case Diagonal:
			emit(e.dbAt(i), e.queryAt(k))
			i--
			k--
		case Insertion:
			s := e.insertionRun(i, k)
			for j := 0; j < s; j++ {
				emit(sequence.Gap, e.queryAt(k-j))
			}
			k -= s
		case Deletion:
			s := e.deletionRun(i, k)
			for j := 0; j < s; j++ {
				emit(e.dbAt(i-j), sequence.Gap)
			}
			i -= s
		default:
			panic(&alignment.InvariantViolation{Msg: fmt.Sprintf("cell (%d, %d) holds %s", i, k, mv)})
		}
	}

	a, err := b.Materialize()
	if err != nil {
		// Every emit pushes one letter on each row.
		panic(&alignment.InvariantViolation{Msg: err.Error()})
	}
	return a, i, k
}

// insertionRun returns the length of the gap run in the database row that
// ends at logical cell (i, k).
func (e *engine) insertionRun(i, k int) int {
	w := e.m + 1
	target := e.score[i*w+k]
	crossings := 0

	for s := 1; s <= k; s++ {
		start := k - s + 1
		if s > 1 && e.queryCrossed(start+1) {
			crossings++
		}

		cand := e.score[i*w+start-1] - e.runOpen(i, start, crossings) - e.extend*float64(s-1)
		if scalar.EqualWithinAbs(cand, target, ScoreTolerance) {
			return s
		}
	}
	panic(&alignment.InvariantViolation{Msg: fmt.Sprintf("no insertion run explains score %g at (%d, %d)", target, i, k)})
}

// deletionRun returns the length of the gap run in the query row that ends
// at logical cell (i, k).
func (e *engine) deletionRun(i, k int) int {
	w := e.m + 1
	target := e.score[i*w+k]
	crossings := 0

	for s := 1; s <= i; s++ {
		start := i - s + 1
		if s > 1 && e.dbCrossed(start+1) {
			crossings++
		}

		cand := e.score[(start-1)*w+k] - e.runOpen(start, k, crossings) - e.extend*float64(s-1)
		if scalar.EqualWithinAbs(cand, target, ScoreTolerance) {
			return s
		}
	}
	panic(&alignment.InvariantViolation{Msg: fmt.Sprintf("no deletion run explains score %g at (%d, %d)", target, i, k)})
}

// runOpen is the working open of a run whose first column is logical cell
// (i, k) after crossing the given number of run boundaries.
func (e *engine) runOpen(i, k, crossings int) float64 {
	open := e.openAt(i, k)
	if e.hp == nil {
		return open
	}
	return e.hp.RunOpen(open, crossings)
}
