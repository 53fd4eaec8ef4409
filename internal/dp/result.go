package dp

import (
	"fmt"

	"github.com/aria-lang/pairalign/internal/alignment"
)

// DynamicProgramming is the outcome of one aligner run.
//
// Coordinates are 1-based and inclusive in the original inputs. A run that
// found no positive-scoring path has a nil Alignment, score 0 and all four
// coordinates 0.
type DynamicProgramming interface {
	Alignment() *alignment.PairwiseAlignment
	Score() float64
	StartDatabase() int
	StartQuery() int
	EndDatabase() int
	EndQuery() int
	Matrix() *alignment.SubstitutionMatrix
}

// Result implements DynamicProgramming.
type Result struct {
	alignment *alignment.PairwiseAlignment
	score     float64
	matrix    *alignment.SubstitutionMatrix
	policy    Policy

	startDatabase, startQuery int
	endDatabase, endQuery     int
}

var _ DynamicProgramming = (*Result)(nil)

// Alignment returns the aligned rows, or nil when nothing aligned.
func (r *Result) Alignment() *alignment.PairwiseAlignment {
	return r.alignment
}

// Score returns the score of the winning cell.
func (r *Result) Score() float64 {
	return r.score
}

// StartDatabase returns the first aligned database position.
func (r *Result) StartDatabase() int {
	return r.startDatabase
}

// StartQuery returns the first aligned query position.
func (r *Result) StartQuery() int {
	return r.startQuery
}

// EndDatabase returns the last aligned database position.
func (r *Result) EndDatabase() int {
	return r.endDatabase
}

// EndQuery returns the last aligned query position.
func (r *Result) EndQuery() int {
	return r.endQuery
}

// Matrix returns the substitution matrix the run scored with.
func (r *Result) Matrix() *alignment.SubstitutionMatrix {
	return r.matrix
}

// Policy returns the configuration the run used.
func (r *Result) Policy() Policy {
	return r.policy
}

// Found reports whether the run produced an alignment.
func (r *Result) Found() bool {
	return r.alignment != nil
}

func (r *Result) String() string {
	if r.alignment == nil {
		return fmt.Sprintf("Result { %s, no alignment }", r.policy)
	}
	return fmt.Sprintf("Result { %s, score: %g, database: %d-%d, query: %d-%d, length: %d }",
		r.policy, r.score, r.startDatabase, r.endDatabase, r.startQuery, r.endQuery, r.alignment.Len())
}
