package dp

import (
	"github.com/aria-lang/pairalign/internal/alignment"
	"github.com/aria-lang/pairalign/internal/sequence"
)

// Align runs the engine under an explicit policy.
func Align(database, query sequence.Sequence, m *alignment.SubstitutionMatrix, policy Policy) (*Result, error) {
	e, err := newEngine(database, query, m, policy)
	if err != nil {
		return nil, err
	}
	return e.run(), nil
}

// SmithWatermanGotoh returns the best local alignment of database and query.
//
// The run costs O(n*m) time and memory.
func SmithWatermanGotoh(database, query sequence.Sequence, m *alignment.SubstitutionMatrix) (*Result, error) {
	return Align(database, query, m, LocalPolicy())
}

// SmithWatermanGotoh454 is SmithWatermanGotoh with homopolymer-aware gap penalties.
func SmithWatermanGotoh454(database, query sequence.Sequence, m *alignment.SubstitutionMatrix, boundaryPenalty float64) (*Result, error) {
	return Align(database, query, m, LocalPolicy().WithHomopolymerGaps(boundaryPenalty))
}

// NeedlemanWunschGotoh returns the best global alignment of database and
// query. It always produces an alignment spanning both inputs.
func NeedlemanWunschGotoh(database, query sequence.Sequence, m *alignment.SubstitutionMatrix) (*Result, error) {
	return Align(database, query, m, GlobalPolicy())
}

// ExtendLeft aligns leftwards from an anchor after the last letter of both
// inputs. The alignment always ends at the last letters and stops on the
// left wherever the running score peaks.
func ExtendLeft(database, query sequence.Sequence, m *alignment.SubstitutionMatrix, band int) (*Result, error) {
	return Align(database, query, m, ExtensionPolicy(Reverse, band))
}

// ExtendRight aligns rightwards from an anchor before the first letter of
// both inputs.
func ExtendRight(database, query sequence.Sequence, m *alignment.SubstitutionMatrix, band int) (*Result, error) {
	return Align(database, query, m, ExtensionPolicy(Forward, band))
}

// ExtendLeft454 is ExtendLeft with homopolymer-aware gap penalties, for
// pyrosequencing reads whose run lengths are unreliable.
func ExtendLeft454(database, query sequence.Sequence, m *alignment.SubstitutionMatrix, boundaryPenalty float64, band int) (*Result, error) {
	return Align(database, query, m, ExtensionPolicy(Reverse, band).WithHomopolymerGaps(boundaryPenalty))
}

// ExtendRight454 is ExtendRight with homopolymer-aware gap penalties.
func ExtendRight454(database, query sequence.Sequence, m *alignment.SubstitutionMatrix, boundaryPenalty float64, band int) (*Result, error) {
	return Align(database, query, m, ExtensionPolicy(Forward, band).WithHomopolymerGaps(boundaryPenalty))
}

// ScoreOnly returns the winning score of a run without building the alignment.
func ScoreOnly(database, query sequence.Sequence, m *alignment.SubstitutionMatrix, policy Policy) (float64, error) {
	e, err := newEngine(database, query, m, policy)
	if err != nil {
		return 0, err
	}
	i, k := e.fill()
	s := e.score[i*(e.m+1)+k]
	if policy.ClampAtZero && s < 0 {
		return 0, nil
	}
	return s, nil
}
