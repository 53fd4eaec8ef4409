// Package dp implements affine-gap pairwise alignment with Gotoh's
// recurrence.
//
// One engine serves every variant. A Policy picks the boundary rows, the
// zero clamp, the winning cell, the scan direction and the gap model, so
// Smith-Waterman, Needleman-Wunsch and the anchored homopolymer extensions
// differ only in configuration.
//
// The fill always runs prefix-style over logical indices 1..n. With the
// Reverse direction logical index i is original position i-1; with Forward
// it is n-i, which fills the inputs end-to-start.
package dp

import (
	"math"

	"github.com/aria-lang/pairalign/internal/alignment"
	"github.com/aria-lang/pairalign/internal/sequence"
)

// engine owns the matrices of a single run.
type engine struct {
	policy Policy
	matrix *alignment.SubstitutionMatrix

	database sequence.Sequence
	query    sequence.Sequence
	n, m     int

	open   float64
	extend float64
	hp     *HomopolymerModel

	// similarity of logical cell (i, k) is sim[dbCode[i]*width+queryCode[k]]
	sim       []float64
	width     int
	dbCode    []int
	queryCode []int

	score []float64
	moves []Move
}

func newEngine(database, query sequence.Sequence, m *alignment.SubstitutionMatrix, policy Policy) (*engine, error) {
	if database == nil || database.Len() == 0 {
		return nil, &alignment.InvalidSequenceError{Which: "database", Reason: "zero length"}
	}
	if query == nil || query.Len() == 0 {
		return nil, &alignment.InvalidSequenceError{Which: "query", Reason: "zero length"}
	}
	if m == nil {
		return nil, &alignment.UnsetParameterError{Name: "matrix"}
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	open, err := m.GapExistPenalty()
	if err != nil {
		return nil, err
	}
	extend, err := m.GapExtendPenalty()
	if err != nil {
		return nil, err
	}

	e := &engine{
		policy:   policy,
		matrix:   m,
		database: database,
		query:    query,
		n:        database.Len(),
		m:        query.Len(),
		open:     open,
		extend:   extend,
	}

	if policy.Gaps == HomopolymerGaps {
		e.hp, err = NewHomopolymerModel(database, query, m, policy.BoundaryPenalty)
		if err != nil {
			return nil, err
		}
	}

	if err := e.encode(); err != nil {
		return nil, err
	}
	return e, nil
}

// encode maps both inputs onto their distinct letters and scores every
// letter pair once, so a strict matrix fails before any matrix is allocated.
func (e *engine) encode() error {
	var dbIndex, queryIndex [256]int
	var dbLetters, queryLetters []byte
	for i := range dbIndex {
		dbIndex[i] = -1
		queryIndex[i] = -1
	}

	e.dbCode = make([]int, e.n+1)
	for i := 1; i <= e.n; i++ {
		c := e.dbAt(i)
		if dbIndex[c] < 0 {
			dbIndex[c] = len(dbLetters)
			dbLetters = append(dbLetters, c)
		}
		e.dbCode[i] = dbIndex[c]
	}

	e.queryCode = make([]int, e.m+1)
	for k := 1; k <= e.m; k++ {
		c := e.queryAt(k)
		if queryIndex[c] < 0 {
			queryIndex[c] = len(queryLetters)
			queryLetters = append(queryLetters, c)
		}
		e.queryCode[k] = queryIndex[c]
	}

	e.width = len(queryLetters)
	e.sim = make([]float64, len(dbLetters)*e.width)
	for a, dc := range dbLetters {
		for b, qc := range queryLetters {
			s, err := e.matrix.Similarity(dc, qc)
			if err != nil {
				return err
			}
			e.sim[a*e.width+b] = s
		}
	}
	return nil
}

func (e *engine) dbOrig(i int) int {
	if e.policy.Direction == Forward {
		return e.n - i
	}
	return i - 1
}

func (e *engine) queryOrig(k int) int {
	if e.policy.Direction == Forward {
		return e.m - k
	}
	return k - 1
}

func (e *engine) dbAt(i int) byte {
	return e.database.At(e.dbOrig(i))
}

func (e *engine) queryAt(k int) byte {
	return e.query.At(e.queryOrig(k))
}

func (e *engine) similarity(i, k int) float64 {
	return e.sim[e.dbCode[i]*e.width+e.queryCode[k]]
}

// openAt is the penalty of a gap whose first column is logical cell (i, k).
func (e *engine) openAt(i, k int) float64 {
	if e.hp == nil {
		return e.open
	}
	return e.hp.OpenAt(e.dbOrig(i), e.queryOrig(k))
}

// queryCrossed reports whether logical query letters k-1 and k sit in
// different homopolymer runs.
func (e *engine) queryCrossed(k int) bool {
	if e.hp == nil || k < 2 {
		return false
	}
	return e.hp.Query.Crossed(e.queryOrig(k-1), e.queryOrig(k))
}

func (e *engine) dbCrossed(i int) bool {
	if e.hp == nil || i < 2 {
		return false
	}
	return e.hp.Database.Crossed(e.dbOrig(i-1), e.dbOrig(i))
}

func (e *engine) banded(i, k int) bool {
	if e.policy.Band <= 0 || e.policy.Winner != AnchorCorner {
		return false
	}
	d := (e.n - i) - (e.m - k)
	if d < 0 {
		d = -d
	}
	return d > e.policy.Band
}

// fill runs the recurrence and returns the winning cell.
func (e *engine) fill() (int, int) {
	n, m := e.n, e.m
	w := m + 1
	negInf := math.Inf(-1)

	e.score = make([]float64, (n+1)*w)
	e.moves = make([]Move, (n+1)*w)

	if e.policy.Boundary == GlobalCumulative {
		for i := 1; i <= n; i++ {
			e.score[i*w] = -(e.open + e.extend*float64(i-1))
			e.moves[i*w] = Deletion
		}
		for k := 1; k <= m; k++ {
			e.score[k] = -(e.open + e.extend*float64(k-1))
			e.moves[k] = Insertion
		}
	}

	// Q[k] is the best deletion run ending in column k, D the best insertion
	// run ending in the current row. qWork and dWork hold their working opens.
	q := make([]float64, w)
	qWork := make([]float64, w)
	for k := range q {
		q[k] = negInf
	}

	best := negInf
	if e.policy.ClampAtZero {
		best = 0
	}
	bestI, bestK := 0, 0

	for i := 1; i <= n; i++ {
		row, prev := i*w, (i-1)*w
		d, dWork := negInf, 0.0
		dbCrossed := e.dbCrossed(i)

		for k := 1; k <= m; k++ {
			if e.banded(i, k) {
				e.score[row+k] = negInf
				e.moves[row+k] = None
				d = negInf
				q[k] = negInf
				continue
			}

			open := e.openAt(i, k)

			insOpen := e.score[row+k-1] - open
			insWork := dWork
			if e.queryCrossed(k) {
				insWork = e.hp.Cross(dWork)
			}
			insExtend := d - e.extend - (insWork - dWork)
			if insOpen >= insExtend {
				d, dWork = insOpen, open
			} else {
				d, dWork = insExtend, insWork
			}

			delOpen := e.score[prev+k] - open
			delWork := qWork[k]
			if dbCrossed {
				delWork = e.hp.Cross(qWork[k])
			}
			delExtend := q[k] - e.extend - (delWork - qWork[k])
			if delOpen >= delExtend {
				q[k], qWork[k] = delOpen, open
			} else {
				q[k], qWork[k] = delExtend, delWork
			}

			diag := e.score[prev+k-1] + e.similarity(i, k)

			var s float64
			var mv Move
			switch {
			case diag >= d && diag >= q[k]:
				s, mv = diag, Diagonal
			case d > q[k]:
				s, mv = d, Insertion
			default:
				s, mv = q[k], Deletion
			}
			// Zero is the last resort: a move that ties it is kept.
			if e.policy.ClampAtZero && s < 0 {
				s, mv = 0, None
			}

			e.score[row+k] = s
			e.moves[row+k] = mv

			if e.policy.Winner == BestCell && s > best {
				best, bestI, bestK = s, i, k
			}
		}
	}

	if e.policy.Winner == AnchorCorner {
		return n, m
	}
	return bestI, bestK
}

// run fills, traces back and reports coordinates in original positions.
func (e *engine) run() *Result {
	wi, wk := e.fill()

	res := &Result{matrix: e.matrix, policy: e.policy}
	top := e.score[wi*(e.m+1)+wk]
	if e.policy.ClampAtZero && top <= 0 {
		return res
	}

	a, si, sk := e.traceback(wi, wk)
	res.alignment = a
	res.score = top

	if e.policy.Direction == Forward {
		res.startDatabase, res.endDatabase = e.n-wi+1, e.n-si
		res.startQuery, res.endQuery = e.m-wk+1, e.m-sk
	} else {
		res.startDatabase, res.endDatabase = si+1, wi
		res.startQuery, res.endQuery = sk+1, wk
	}
	return res
}
