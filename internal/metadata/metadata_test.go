package metadata

import (
	"testing"

	"github.com/aria-lang/pairalign/internal/alignment"
	"github.com/aria-lang/pairalign/internal/dp"
	"github.com/aria-lang/pairalign/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(t *testing.T, db, q string) *alignment.PairwiseAlignment {
	t.Helper()
	d := sequence.Empty(sequence.DNA)
	d.AppendString(db)
	qs := sequence.Empty(sequence.DNA)
	qs.AppendString(q)
	a, err := alignment.NewPairwiseAlignment(d, qs)
	require.NoError(t, err)
	return a
}

func TestFromResult(t *testing.T) {
	db, err := sequence.New("TTTTTTTTTTACGTACGTACGTTTTTTTTTTT")
	require.NoError(t, err)
	q, err := sequence.New("CCCCCCCCCCACGTCCCCACGTCCCCCCCCCC")
	require.NoError(t, err)

	res, err := dp.SmithWatermanGotoh(db, q, alignment.DefaultNucleotide())
	require.NoError(t, err)

	md, err := FromResult(res)
	require.NoError(t, err)
	md.WithIDs("db", "read")

	assert.Equal(t, Local, md.Type)
	assert.Equal(t, 6.0, md.Score)
	assert.Equal(t, 11, md.StartDatabase)
	assert.Equal(t, 22, md.EndQuery)
	assert.Equal(t, 9, md.Counts.Matches)
	assert.Equal(t, 3, md.Counts.Mismatches)
	assert.Equal(t, 9, md.Counts.Positives)
	assert.Equal(t, 0.75, md.Identity())
	assert.Equal(t, 0.75, md.Similarity())
	assert.Equal(t, "4=1X1=2X4=", md.CIGAR())
	assert.Equal(t, "db", md.DatabaseID)
	assert.InDelta(t, 12.0/32.0, md.DatabaseCoverage(db.Len()), 1e-9)
	assert.Contains(t, md.String(), "type: local")
	assert.Contains(t, md.Format(), "CIGAR: 4=1X1=2X4=")
}

func TestFromResultWithoutAlignment(t *testing.T) {
	db, _ := sequence.New("TTTT")
	q, _ := sequence.New("AAAA")

	res, err := dp.SmithWatermanGotoh(db, q, alignment.DefaultNucleotide())
	require.NoError(t, err)

	_, err = FromResult(res)
	assert.ErrorIs(t, err, ErrNoAlignment)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, Local, TypeOf(dp.LocalPolicy()))
	assert.Equal(t, Global, TypeOf(dp.GlobalPolicy()))
	assert.Equal(t, Extension, TypeOf(dp.ExtensionPolicy(dp.Forward, 0)))
	assert.Equal(t, "composite", Composite.String())
}

func TestCount(t *testing.T) {
	tests := []struct {
		name  string
		db, q string
		want  Counts
	}{
		{
			name: "transitions and transversions",
			db:   "AGCTA", q: "GATAT",
			want: Counts{Mismatches: 5, Transitions: 3, Transversions: 2},
		},
		{
			name: "gap runs on both rows",
			db:   "AC--GT-A", q: "A-TTG-CA",
			want: Counts{Matches: 3, DatabaseGaps: 3, QueryGaps: 2, GapOpenings: 4},
		},
		{
			name: "unknown bases",
			db:   "ANa", q: "AAA",
			want: Counts{Matches: 2, Ambiguous: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(rows(t, tt.db, tt.q), nil))
		})
	}
}

func TestGaps(t *testing.T) {
	md := New(rows(t, "AC--GT-A", "A-TTG-CA"), 0, 5, 1, nil)

	assert.Equal(t, []Gap{
		{Row: QueryRow, Column: 1, Length: 1, After: 1},
		{Row: DatabaseRow, Column: 2, Length: 2, After: 6},
		{Row: QueryRow, Column: 5, Length: 1, After: 4},
		{Row: DatabaseRow, Column: 6, Length: 1, After: 8},
	}, md.Gaps())
	assert.Equal(t, 9, md.EndDatabase)
	assert.Equal(t, 6, md.EndQuery)
	assert.Equal(t, 5, md.TotalGaps())
	assert.Equal(t, "1=1D2I1=1D1I1=", md.CIGAR())
}

func TestPosition(t *testing.T) {
	md := New(rows(t, "AC--GT-A", "A-TTG-CA"), 0, 5, 1, nil)

	tests := []struct {
		column int
		db, q  int
	}{
		{0, 5, 1},
		{1, 6, 0},
		{2, 0, 2},
		{4, 7, 4},
		{7, 9, 6},
	}
	for _, tt := range tests {
		db, q := md.Position(tt.column)
		assert.Equal(t, tt.db, db, "column %d", tt.column)
		assert.Equal(t, tt.q, q, "column %d", tt.column)
	}
}

func TestIsTransition(t *testing.T) {
	assert.True(t, IsTransition('A', 'g'))
	assert.True(t, IsTransition('C', 'U'))
	assert.False(t, IsTransition('A', 'A'))
	assert.False(t, IsTransition('A', 'C'))
	assert.True(t, IsTransversion('A', 'T'))
	assert.False(t, IsTransversion('G', 'A'))
	assert.False(t, IsTransversion('N', 'A'))
}

func TestSignificance(t *testing.T) {
	high := New(rows(t, "ACGT", "ACGT"), 4, 1, 1, nil)
	low := New(rows(t, "ACGT", "ACCA"), 0, 1, 1, nil)

	tests := []struct {
		name      string
		predicate Significance
		want      []*Metadata
	}{
		{"score", MinScore(2), []*Metadata{high}},
		{"identity", MinIdentity(0.5), []*Metadata{high, low}},
		{"length", MinLength(5), []*Metadata{}},
		{"all", All(MinIdentity(0.5), MinScore(1)), []*Metadata{high}},
		{"empty all", All(), []*Metadata{high, low}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter([]*Metadata{high, low}, tt.predicate))
		})
	}
}

func TestCompose(t *testing.T) {
	exon1 := New(rows(t, "ACGT", "ACGT"), 4, 1, 1, nil)
	exon2 := New(rows(t, "GGA", "GGA"), 3, 8, 5, nil)
	exon3 := New(rows(t, "TT", "TT"), 2, 40, 9, nil)

	md, err := Compose(exon1, exon2, exon3)
	require.NoError(t, err)

	assert.Equal(t, Composite, md.Type)
	assert.Equal(t, 9.0, md.Score)
	assert.Equal(t, "ACGTNNNGGANNNNNNNNNNTT", md.Alignment.Database().String())
	assert.Equal(t, "ACGTNNNGGANNNNNNNNNNTT", md.Alignment.Query().String())
	assert.Equal(t, 1, md.StartDatabase)
	assert.Equal(t, 41, md.EndDatabase)
	assert.Equal(t, 10, md.EndQuery)
	assert.Equal(t, 13, md.Counts.Ambiguous)
}

func TestComposeErrors(t *testing.T) {
	_, err := Compose()
	require.Error(t, err)

	first := New(rows(t, "ACGT", "ACGT"), 4, 5, 5, nil)
	overlapping := New(rows(t, "GG", "GG"), 2, 7, 10, nil)
	_, err = Compose(first, overlapping)
	require.Error(t, err)
}
