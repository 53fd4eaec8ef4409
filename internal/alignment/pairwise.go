package alignment

import (
	"strings"
	"sync"

	"github.com/aria-lang/pairalign/internal/sequence"
)

// Column is one position of a pairwise alignment.
type Column struct {
	Database   byte
	Similarity byte
	Query      byte
}

// IsGap reports whether either side of the column is a gap.
func (c Column) IsGap() bool {
	return c.Database == sequence.Gap || c.Query == sequence.Gap
}

// PairwiseAlignment is an immutable pair of equal-length gapped rows.
//
// The similarity ladder is derived on first use and cached, so a
// PairwiseAlignment may be read from several goroutines.
type PairwiseAlignment struct {
	database  sequence.Sequence
	query     sequence.Sequence
	formatter SimilarityFormatter

	once   sync.Once
	ladder string
}

// NewPairwiseAlignment creates an alignment rendered with DotFormatter.
// The rows are owned by the alignment afterwards and must not be modified.
func NewPairwiseAlignment(database, query sequence.Sequence) (*PairwiseAlignment, error) {
	return NewPairwiseAlignmentWithFormatter(database, query, DotFormatter{})
}

// NewPairwiseAlignmentWithFormatter creates an alignment with a custom ladder formatter.
func NewPairwiseAlignmentWithFormatter(database, query sequence.Sequence, f SimilarityFormatter) (*PairwiseAlignment, error) {
	if database.Len() != query.Len() {
		return nil, &AlignmentLengthError{Database: database.Len(), Query: query.Len()}
	}
	if f == nil {
		f = DotFormatter{}
	}
	return &PairwiseAlignment{database: database, query: query, formatter: f}, nil
}

// WithFormatter returns the same alignment rendered with f.
func (a *PairwiseAlignment) WithFormatter(f SimilarityFormatter) *PairwiseAlignment {
	out, _ := NewPairwiseAlignmentWithFormatter(a.database, a.query, f)
	return out
}

// Len returns the number of columns.
func (a *PairwiseAlignment) Len() int {
	return a.database.Len()
}

// Database returns the gapped database row. It must not be modified.
func (a *PairwiseAlignment) Database() sequence.Sequence {
	return a.database
}

// Query returns the gapped query row. It must not be modified.
func (a *PairwiseAlignment) Query() sequence.Sequence {
	return a.query
}

// Formatter returns the ladder formatter.
func (a *PairwiseAlignment) Formatter() SimilarityFormatter {
	return a.formatter
}

// Similarity returns the ladder line.
func (a *PairwiseAlignment) Similarity() string {
	a.once.Do(func() {
		var sb strings.Builder
		sb.Grow(a.Len())
		for i := 0; i < a.Len(); i++ {
			sb.WriteByte(a.formatter.Symbol(a.database.At(i), a.query.At(i)))
		}
		a.ladder = sb.String()
	})
	return a.ladder
}

// At returns the column at 0-based position i.
func (a *PairwiseAlignment) At(i int) Column {
	return Column{
		Database:   a.database.At(i),
		Similarity: a.Similarity()[i],
		Query:      a.query.At(i),
	}
}

// SubAlignment returns a copy of length columns starting at start.
func (a *PairwiseAlignment) SubAlignment(start, length int) (*PairwiseAlignment, error) {
	db, err := a.database.SubSequence(start, length)
	if err != nil {
		return nil, err
	}
	q, err := a.query.SubSequence(start, length)
	if err != nil {
		return nil, err
	}
	return NewPairwiseAlignmentWithFormatter(db, q, a.formatter)
}

// DatabaseWithoutGaps returns the aligned part of the database.
func (a *PairwiseAlignment) DatabaseWithoutGaps() sequence.Sequence {
	return sequence.WithoutGaps(a.database)
}

// QueryWithoutGaps returns the aligned part of the query.
func (a *PairwiseAlignment) QueryWithoutGaps() sequence.Sequence {
	return sequence.WithoutGaps(a.query)
}

// Equal compares the two rows of both alignments.
func (a *PairwiseAlignment) Equal(other *PairwiseAlignment) bool {
	if other == nil {
		return false
	}
	return a.database.Equal(other.database) && a.query.Equal(other.query)
}

// String renders the database row, the ladder and the query row on three lines.
func (a *PairwiseAlignment) String() string {
	return a.database.String() + "\n" + a.Similarity() + "\n" + a.query.String()
}
