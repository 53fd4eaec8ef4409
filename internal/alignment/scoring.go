// Package alignment provides the scoring table and the pairwise alignment
// value the dynamic programming aligners produce.
//
// A SubstitutionMatrix is built once and shared read-only by any number of
// alignment runs. PairwiseAlignment is an immutable two-row value; Builder
// assembles one incrementally during traceback.
package alignment

import (
	"fmt"
	"math"

	"github.com/aria-lang/pairalign/internal/sequence"
)

// Pair is an ordered pair of letters: database letter first, query letter second.
type Pair struct {
	A, B byte
}

// param is a matrix parameter that may be left unset.
type param struct {
	value float64
	set   bool
}

func (p param) get(name string) (float64, error) {
	if !p.set {
		return 0, &UnsetParameterError{Name: name}
	}
	return p.value, nil
}

// SubstitutionMatrix scores aligned letter pairs and carries the affine gap
// penalties. Penalties are positive magnitudes that get subtracted.
type SubstitutionMatrix struct {
	name    string
	scores  [256][256]float64
	present [256][256]bool

	gapExist  param
	gapExtend param
	highest   param
	lowest    param

	errorWhenMissing bool
}

// MatrixOption configures a SubstitutionMatrix at construction.
type MatrixOption func(*SubstitutionMatrix)

// WithName labels the matrix.
func WithName(name string) MatrixOption {
	return func(m *SubstitutionMatrix) {
		m.name = name
	}
}

// WithGapPenalties sets the affine gap penalties: opening a gap costs open,
// each further position costs extend.
func WithGapPenalties(open, extend float64) MatrixOption {
	return func(m *SubstitutionMatrix) {
		m.gapExist = param{value: open, set: true}
		m.gapExtend = param{value: extend, set: true}
	}
}

// WithHighestScore records the best score of the table.
func WithHighestScore(v float64) MatrixOption {
	return func(m *SubstitutionMatrix) {
		m.highest = param{value: v, set: true}
	}
}

// WithLowestScore records the worst score of the table. It is also the
// fallback for unknown pairs of a lenient matrix.
func WithLowestScore(v float64) MatrixOption {
	return func(m *SubstitutionMatrix) {
		m.lowest = param{value: v, set: true}
	}
}

// WithErrorWhenMissing makes Similarity fail on unknown pairs instead of
// falling back to the lowest score.
func WithErrorWhenMissing() MatrixOption {
	return func(m *SubstitutionMatrix) {
		m.errorWhenMissing = true
	}
}

// NewSubstitutionMatrix creates a matrix from explicit pair scores.
func NewSubstitutionMatrix(scores map[Pair]float64, opts ...MatrixOption) (*SubstitutionMatrix, error) {
	m := &SubstitutionMatrix{name: "custom"}
	for pair, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("score for pair (%q, %q) must be finite", pair.A, pair.B)
		}
		m.scores[pair.A][pair.B] = s
		m.present[pair.A][pair.B] = true
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.gapExist.set && (m.gapExist.value < 0 || m.gapExtend.value < 0) {
		return nil, fmt.Errorf("gap penalties must be non-negative magnitudes")
	}

	return m, nil
}

// Name returns the matrix label.
func (m *SubstitutionMatrix) Name() string {
	return m.name
}

// ErrorWhenMissing reports whether unknown pairs are an error.
func (m *SubstitutionMatrix) ErrorWhenMissing() bool {
	return m.errorWhenMissing
}

// Has reports whether the pair has an explicit score.
func (m *SubstitutionMatrix) Has(a, b byte) bool {
	return m.present[a][b]
}

// Lookup returns the explicit score of the pair, if any.
func (m *SubstitutionMatrix) Lookup(a, b byte) (float64, bool) {
	return m.scores[a][b], m.present[a][b]
}

// Similarity returns the score for aligning database letter a with query
// letter b.
func (m *SubstitutionMatrix) Similarity(a, b byte) (float64, error) {
	if m.present[a][b] {
		return m.scores[a][b], nil
	}
	if m.errorWhenMissing {
		return 0, &MissingScoreError{A: a, B: b}
	}
	return m.lowest.get("lowestScore")
}

// GapExistPenalty returns the cost of opening a gap.
func (m *SubstitutionMatrix) GapExistPenalty() (float64, error) {
	return m.gapExist.get("gapExistPenalty")
}

// GapExtendPenalty returns the cost of each gap position after the first.
func (m *SubstitutionMatrix) GapExtendPenalty() (float64, error) {
	return m.gapExtend.get("gapExtendPenalty")
}

// HighestScore returns the best pair score.
func (m *SubstitutionMatrix) HighestScore() (float64, error) {
	return m.highest.get("highestScore")
}

// LowestScore returns the worst pair score.
func (m *SubstitutionMatrix) LowestScore() (float64, error) {
	return m.lowest.get("lowestScore")
}

// GapPenalty returns the affine cost of a gap run of the given length.
func (m *SubstitutionMatrix) GapPenalty(length int) (float64, error) {
	if length <= 0 {
		return 0, nil
	}
	open, err := m.GapExistPenalty()
	if err != nil {
		return 0, err
	}
	extend, err := m.GapExtendPenalty()
	if err != nil {
		return 0, err
	}
	return open + float64(length-1)*extend, nil
}

// ScoreAlignment rescores a finished alignment in one pass: aligned columns
// add their similarity, each maximal gap run on either row subtracts
// open + (length-1)*extend.
func (m *SubstitutionMatrix) ScoreAlignment(a *PairwiseAlignment) (float64, error) {
	var total float64
	dbRun, queryRun := 0, 0

	closeRun := func(run *int) error {
		if *run == 0 {
			return nil
		}
		p, err := m.GapPenalty(*run)
		if err != nil {
			return err
		}
		total -= p
		*run = 0
		return nil
	}

	db, query := a.Database(), a.Query()
	for i := 0; i < a.Len(); i++ {
		d, q := db.At(i), query.At(i)

		if d == sequence.Gap {
			dbRun++
		} else if err := closeRun(&dbRun); err != nil {
			return 0, err
		}

		if q == sequence.Gap {
			queryRun++
		} else if err := closeRun(&queryRun); err != nil {
			return 0, err
		}

		if d != sequence.Gap && q != sequence.Gap {
			s, err := m.Similarity(d, q)
			if err != nil {
				return 0, err
			}
			total += s
		}
	}

	if err := closeRun(&dbRun); err != nil {
		return 0, err
	}
	if err := closeRun(&queryRun); err != nil {
		return 0, err
	}
	return total, nil
}

// String returns a string representation of the matrix parameters.
func (m *SubstitutionMatrix) String() string {
	show := func(p param) string {
		if !p.set {
			return "unset"
		}
		return fmt.Sprintf("%g", p.value)
	}
	return fmt.Sprintf("SubstitutionMatrix { name: %s, gap_open: %s, gap_extend: %s, highest: %s, lowest: %s, strict: %t }",
		m.name, show(m.gapExist), show(m.gapExtend), show(m.highest), show(m.lowest), m.errorWhenMissing)
}
