package alignment

import (
	"strings"
	"sync"
	"testing"

	"github.com/aria-lang/pairalign/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAlignment(t *testing.T, db, q string) *PairwiseAlignment {
	t.Helper()
	d := sequence.Empty(sequence.DNA)
	d.AppendString(db)
	qs := sequence.Empty(sequence.DNA)
	qs.AppendString(q)
	a, err := NewPairwiseAlignment(d, qs)
	require.NoError(t, err)
	return a
}

func TestNucleotideMatrix(t *testing.T) {
	m := DefaultNucleotide()

	tests := []struct {
		name string
		a, b byte
		want float64
	}{
		{"match", 'A', 'A', 1},
		{"mismatch", 'A', 'C', -1},
		{"lower case match", 'a', 'A', 1},
		{"U pairs with T", 'U', 'T', 1},
		{"N scores ScoreNX", 'N', 'A', DefaultScoreNX},
		{"X scores ScoreNX", 'g', 'x', DefaultScoreNX},
		{"IUPAC mismatch", 'R', 'Y', -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Similarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	open, err := m.GapExistPenalty()
	require.NoError(t, err)
	assert.Equal(t, 5.0, open)

	extend, err := m.GapExtendPenalty()
	require.NoError(t, err)
	assert.Equal(t, 1.0, extend)

	highest, err := m.HighestScore()
	require.NoError(t, err)
	assert.Equal(t, 1.0, highest)

	lowest, err := m.LowestScore()
	require.NoError(t, err)
	assert.Equal(t, -1.0, lowest)
}

func TestNucleotideMatrixScoreNX(t *testing.T) {
	opts := DefaultNucleotideOptions()
	opts.ScoreNX = -2

	m, err := NewNucleotideMatrix(opts)
	require.NoError(t, err)

	s, err := m.Similarity('N', 'N')
	require.NoError(t, err)
	assert.Equal(t, -2.0, s)

	lowest, err := m.LowestScore()
	require.NoError(t, err)
	assert.Equal(t, -2.0, lowest)

	// Options are per matrix.
	s, err = DefaultNucleotide().Similarity('N', 'N')
	require.NoError(t, err)
	assert.Equal(t, DefaultScoreNX, s)
}

func TestInvalidNucleotideOptions(t *testing.T) {
	_, err := NewNucleotideMatrix(NucleotideOptions{Match: 0, Mismatch: 1})
	require.Error(t, err)

	_, err = NewNucleotideMatrix(NucleotideOptions{Match: 1, Mismatch: -1})
	require.Error(t, err)

	_, err = NewNucleotideMatrix(NucleotideOptions{Match: 1, Mismatch: 1, GapOpen: -5, GapExtend: 1})
	require.Error(t, err)
}

func TestMissingPair(t *testing.T) {
	scores := map[Pair]float64{{'A', 'A'}: 2}

	t.Run("lenient falls back to lowest score", func(t *testing.T) {
		m, err := NewSubstitutionMatrix(scores, WithLowestScore(-3))
		require.NoError(t, err)

		s, err := m.Similarity('A', 'C')
		require.NoError(t, err)
		assert.Equal(t, -3.0, s)
	})

	t.Run("lenient without lowest score", func(t *testing.T) {
		m, err := NewSubstitutionMatrix(scores)
		require.NoError(t, err)

		_, err = m.Similarity('A', 'C')
		var unset *UnsetParameterError
		require.ErrorAs(t, err, &unset)
		assert.Equal(t, "lowestScore", unset.Name)
	})

	t.Run("strict", func(t *testing.T) {
		m, err := NewSubstitutionMatrix(scores, WithLowestScore(-3), WithErrorWhenMissing())
		require.NoError(t, err)
		assert.True(t, m.ErrorWhenMissing())

		_, err = m.Similarity('A', 'C')
		var missing *MissingScoreError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, byte('A'), missing.A)
		assert.Equal(t, byte('C'), missing.B)
	})
}

func TestUnsetParameters(t *testing.T) {
	m, err := NewSubstitutionMatrix(map[Pair]float64{{'A', 'A'}: 1})
	require.NoError(t, err)

	accessors := map[string]func() (float64, error){
		"gapExistPenalty":  m.GapExistPenalty,
		"gapExtendPenalty": m.GapExtendPenalty,
		"highestScore":     m.HighestScore,
		"lowestScore":      m.LowestScore,
	}
	for name, get := range accessors {
		t.Run(name, func(t *testing.T) {
			_, err := get()
			require.Error(t, err)
			assert.IsType(t, &UnsetParameterError{}, err)
			assert.Contains(t, err.Error(), name)
		})
	}

	assert.Contains(t, m.String(), "gap_open: unset")
}

func TestNonFiniteScore(t *testing.T) {
	_, err := NewSubstitutionMatrix(map[Pair]float64{{'A', 'A'}: 1, {'A', 'C'}: posInf()})
	require.Error(t, err)
}

func posInf() float64 {
	var zero float64
	return 1 / zero
}

func TestBLOSUM62(t *testing.T) {
	m, err := NewBLOSUM62(11, 1)
	require.NoError(t, err)
	assert.Equal(t, "BLOSUM62", m.Name())

	tests := []struct {
		a, b byte
		want float64
	}{
		{'A', 'A', 4},
		{'W', 'W', 11},
		{'W', 'C', -2},
		{'C', 'W', -2},
		{'m', 'L', 2},
		{'*', 'A', -4},
		{'B', 'D', 4},
	}
	for _, tt := range tests {
		t.Run(string([]byte{tt.a, tt.b}), func(t *testing.T) {
			got, err := m.Similarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	highest, err := m.HighestScore()
	require.NoError(t, err)
	assert.Equal(t, 11.0, highest)

	lowest, err := m.LowestScore()
	require.NoError(t, err)
	assert.Equal(t, -4.0, lowest)
}

func TestBLOSUM62IsSymmetric(t *testing.T) {
	m, err := NewBLOSUM62(11, 1)
	require.NoError(t, err)

	letters := "ARNDCQEGHILKMFPSTWYVBZX*"
	for i := 0; i < len(letters); i++ {
		for j := 0; j < len(letters); j++ {
			ab, ok := m.Lookup(letters[i], letters[j])
			require.True(t, ok)
			ba, ok := m.Lookup(letters[j], letters[i])
			require.True(t, ok)
			assert.Equal(t, ab, ba, "%c%c", letters[i], letters[j])
		}
	}
}

func TestParseMatrix(t *testing.T) {
	text := `# tiny
   A  C
A  2 -1
C -1  3
`
	m, err := ParseMatrix(strings.NewReader(text), WithGapPenalties(4, 1), WithErrorWhenMissing())
	require.NoError(t, err)

	s, err := m.Similarity('c', 'C')
	require.NoError(t, err)
	assert.Equal(t, 3.0, s)
	assert.True(t, m.Has('a', 'c'))
	assert.False(t, m.Has('A', 'G'))

	highest, err := m.HighestScore()
	require.NoError(t, err)
	assert.Equal(t, 3.0, highest)

	_, err = m.Similarity('A', 'G')
	assert.IsType(t, &MissingScoreError{}, err)
}

func TestParseMatrixErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", "# nothing\n"},
		{"short row", "A C\nA 1\n"},
		{"bad score", "A C\nA 1 z\n"},
		{"long header", "AB C\nA 1 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMatrix(strings.NewReader(tt.text))
			require.Error(t, err)
		})
	}
}

func TestGapPenalty(t *testing.T) {
	m := DefaultNucleotide()

	tests := []struct {
		length int
		want   float64
	}{
		{0, 0},
		{1, 5},
		{2, 6},
		{4, 8},
	}
	for _, tt := range tests {
		got, err := m.GapPenalty(tt.length)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestScoreAlignment(t *testing.T) {
	opts := DefaultNucleotideOptions()
	opts.GapOpen = 1
	opts.GapExtend = 0.1
	cheapGaps, err := NewNucleotideMatrix(opts)
	require.NoError(t, err)

	tests := []struct {
		name   string
		matrix *SubstitutionMatrix
		db, q  string
		want   float64
	}{
		{"ungapped", DefaultNucleotide(), "ACGTACGTACGT", "ACGTCCCCACGT", 6},
		{"query gap run", cheapGaps, "ACGTCCCCACGT", "ACGT----ACGT", 6.7},
		{"database gap run", DefaultNucleotide(), "AAACCCC", "AAA----", -5},
		{"gaps on both rows", DefaultNucleotide(), "AC-GT", "A-CGT", 3 - 10},
		{"trailing database gap", DefaultNucleotide(), "AC--", "ACGT", 2 - 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.matrix.ScoreAlignment(mustAlignment(t, tt.db, tt.q))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScoreAlignmentStrictMissing(t *testing.T) {
	m, err := NewSubstitutionMatrix(map[Pair]float64{{'A', 'A'}: 1}, WithGapPenalties(1, 1), WithErrorWhenMissing())
	require.NoError(t, err)

	_, err = m.ScoreAlignment(mustAlignment(t, "AC", "AG"))
	assert.IsType(t, &MissingScoreError{}, err)
}

func TestMatrixConcurrentReaders(t *testing.T) {
	m, err := NewBLOSUM62(11, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s, err := m.Similarity('W', 'W')
				assert.NoError(t, err)
				assert.Equal(t, 11.0, s)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkSimilarity(b *testing.B) {
	m := DefaultNucleotide()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Similarity('A', 'C')
	}
}
