// Package metadata derives read-only statistics from finished alignments.
//
// Nothing here changes an alignment: every value is computed by a linear scan
// over the columns of a PairwiseAlignment plus the coordinates of the run
// that produced it.
package metadata

import (
	"errors"
	"fmt"

	"github.com/aria-lang/pairalign/internal/alignment"
	"github.com/aria-lang/pairalign/internal/dp"
	"github.com/aria-lang/pairalign/internal/sequence"
)

// ErrNoAlignment is returned when a run produced no alignment to describe.
var ErrNoAlignment = errors.New("run produced no alignment")

// AlignmentType represents the kind of run an alignment came from.
type AlignmentType int

const (
	// Local represents Smith-Waterman-Gotoh local alignment
	Local AlignmentType = iota
	// Global represents Needleman-Wunsch-Gotoh global alignment
	Global
	// Extension represents an alignment anchored at one end of both inputs
	Extension
	// Composite represents several alignments joined into one
	Composite
)

func (t AlignmentType) String() string {
	switch t {
	case Local:
		return "local"
	case Global:
		return "global"
	case Extension:
		return "extension"
	case Composite:
		return "composite"
	default:
		return "unknown"
	}
}

// TypeOf classifies a run policy.
func TypeOf(p dp.Policy) AlignmentType {
	switch {
	case p.Boundary == dp.GlobalCumulative:
		return Global
	case p.Winner == dp.AnchorCorner:
		return Extension
	default:
		return Local
	}
}

// Metadata describes one alignment against its parent sequences.
type Metadata struct {
	Alignment *alignment.PairwiseAlignment
	Score     float64
	Type      AlignmentType

	DatabaseID string
	QueryID    string

	// 1-based inclusive coordinates in the parent sequences.
	StartDatabase int
	EndDatabase   int
	StartQuery    int
	EndQuery      int

	Counts Counts
}

// Counts are the column tallies of an alignment.
type Counts struct {
	Matches       int
	Mismatches    int
	Ambiguous     int
	DatabaseGaps  int
	QueryGaps     int
	GapOpenings   int
	Transitions   int
	Transversions int
	Positives     int
}

// FromResult describes the alignment of a finished run.
func FromResult(r *dp.Result) (*Metadata, error) {
	if r == nil || r.Alignment() == nil {
		return nil, ErrNoAlignment
	}

	md := &Metadata{
		Alignment:     r.Alignment(),
		Score:         r.Score(),
		Type:          TypeOf(r.Policy()),
		StartDatabase: r.StartDatabase(),
		EndDatabase:   r.EndDatabase(),
		StartQuery:    r.StartQuery(),
		EndQuery:      r.EndQuery(),
	}
	md.Counts = Count(md.Alignment, r.Matrix())
	return md, nil
}

// New describes an alignment whose first column sits at the given 1-based
// parent positions. End coordinates are derived from the rows.
func New(a *alignment.PairwiseAlignment, score float64, startDatabase, startQuery int, m *alignment.SubstitutionMatrix) *Metadata {
	md := &Metadata{
		Alignment:     a,
		Score:         score,
		StartDatabase: startDatabase,
		StartQuery:    startQuery,
		EndDatabase:   startDatabase + a.DatabaseWithoutGaps().Len() - 1,
		EndQuery:      startQuery + a.QueryWithoutGaps().Len() - 1,
	}
	md.Counts = Count(a, m)
	return md
}

// WithIDs labels the parents.
func (md *Metadata) WithIDs(databaseID, queryID string) *Metadata {
	md.DatabaseID = databaseID
	md.QueryID = queryID
	return md
}

// Count tallies the columns of a. Positives are only counted when m is not nil.
func Count(a *alignment.PairwiseAlignment, m *alignment.SubstitutionMatrix) Counts {
	var c Counts
	inDatabaseGap, inQueryGap := false, false
	db, q := a.Database(), a.Query()

	for i := 0; i < a.Len(); i++ {
		d, x := db.At(i), q.At(i)

		switch {
		case d == sequence.Gap:
			c.DatabaseGaps++
			if !inDatabaseGap {
				c.GapOpenings++
			}
		case x == sequence.Gap:
			c.QueryGaps++
			if !inQueryGap {
				c.GapOpenings++
			}
		case sequence.IsAmbiguous(d) || sequence.IsAmbiguous(x):
			c.Ambiguous++
		case upper(d) == upper(x):
			c.Matches++
		default:
			c.Mismatches++
			switch {
			case IsTransition(d, x):
				c.Transitions++
			case IsTransversion(d, x):
				c.Transversions++
			}
		}
		inDatabaseGap = d == sequence.Gap
		inQueryGap = x == sequence.Gap

		if m != nil && d != sequence.Gap && x != sequence.Gap {
			if s, ok := m.Lookup(d, x); ok && s > 0 {
				c.Positives++
			}
		}
	}
	return c
}

// Length returns the number of columns.
func (md *Metadata) Length() int {
	return md.Alignment.Len()
}

// Identity returns the fraction of columns holding identical letters.
func (md *Metadata) Identity() float64 {
	if md.Length() == 0 {
		return 0
	}
	return float64(md.Counts.Matches) / float64(md.Length())
}

// Similarity returns the fraction of columns scoring positive under the matrix.
func (md *Metadata) Similarity() float64 {
	if md.Length() == 0 {
		return 0
	}
	return float64(md.Counts.Positives) / float64(md.Length())
}

// TotalGaps returns the number of gap columns.
func (md *Metadata) TotalGaps() int {
	return md.Counts.DatabaseGaps + md.Counts.QueryGaps
}

// DatabaseCoverage returns the fraction of a database of the given length the
// alignment spans.
func (md *Metadata) DatabaseCoverage(length int) float64 {
	if length == 0 {
		return 0
	}
	return float64(md.EndDatabase-md.StartDatabase+1) / float64(length)
}

// QueryCoverage returns the fraction of a query of the given length the
// alignment spans.
func (md *Metadata) QueryCoverage(length int) float64 {
	if length == 0 {
		return 0
	}
	return float64(md.EndQuery-md.StartQuery+1) / float64(length)
}

// Format returns a formatted multi-line representation of the alignment.
func (md *Metadata) Format() string {
	return fmt.Sprintf("DB:    %s\n       %s\nQuery: %s\nScore: %.2f\nIdentity: %.1f%%\nCIGAR: %s",
		md.Alignment.Database(), md.Alignment.Similarity(), md.Alignment.Query(),
		md.Score, md.Identity()*100, md.CIGAR())
}

func (md *Metadata) String() string {
	return fmt.Sprintf("Alignment { type: %s, score: %.2f, identity: %.1f%%, length: %d, database: %d-%d, query: %d-%d }",
		md.Type, md.Score, md.Identity()*100, md.Length(),
		md.StartDatabase, md.EndDatabase, md.StartQuery, md.EndQuery)
}

// IsTransition reports whether a and b are different purines or different
// pyrimidines. U is treated as T.
func IsTransition(a, b byte) bool {
	a, b = nucleotide(a), nucleotide(b)
	if a == b {
		return false
	}
	return (isPurine(a) && isPurine(b)) || (isPyrimidine(a) && isPyrimidine(b))
}

// IsTransversion reports whether one of a and b is a purine and the other a
// pyrimidine.
func IsTransversion(a, b byte) bool {
	a, b = nucleotide(a), nucleotide(b)
	return (isPurine(a) && isPyrimidine(b)) || (isPyrimidine(a) && isPurine(b))
}

func isPurine(c byte) bool {
	return c == 'A' || c == 'G'
}

func isPyrimidine(c byte) bool {
	return c == 'C' || c == 'T'
}

func nucleotide(c byte) byte {
	c = upper(c)
	if c == 'U' {
		return 'T'
	}
	return c
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
