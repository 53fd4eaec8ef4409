package stats

import (
	"testing"

	"github.com/aria-lang/pairalign/internal/alignment"
	"github.com/aria-lang/pairalign/internal/metadata"
	"github.com/aria-lang/pairalign/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(t *testing.T, db, q string, score float64) *metadata.Metadata {
	t.Helper()
	d := sequence.Empty(sequence.DNA)
	d.AppendString(db)
	qs := sequence.Empty(sequence.DNA)
	qs.AppendString(q)
	a, err := alignment.NewPairwiseAlignment(d, qs)
	require.NoError(t, err)
	return metadata.New(a, score, 1, 1, nil)
}

func batch(t *testing.T) []*metadata.Metadata {
	return []*metadata.Metadata{
		block(t, "ACGT", "ACGT", 4),
		nil,
		block(t, "ACGT", "ACCA", 0),
		block(t, "AC-", "ACG", 2),
	}
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(batch(t))
	require.NoError(t, err)

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 3, s.Aligned)
	assert.Equal(t, 0.75, s.AlignedRatio())
	assert.Equal(t, 0.0, s.MinScore)
	assert.Equal(t, 4.0, s.MaxScore)
	assert.InDelta(t, 2.0, s.MeanScore, 1e-9)
	assert.InDelta(t, 2.0, s.StdDevScore, 1e-9)
	assert.Equal(t, 2.0, s.MedianScore)
	assert.InDelta(t, (1.0+0.5+2.0/3.0)/3.0, s.MeanIdentity, 1e-9)
	assert.InDelta(t, 11.0/3.0, s.MeanLength, 1e-9)
	assert.Equal(t, 1, s.TotalGaps)
	assert.Contains(t, s.String(), "aligned: 3 (75.0%)")
}

func TestSummarizeSingle(t *testing.T) {
	s, err := Summarize([]*metadata.Metadata{block(t, "ACGT", "ACGT", 4)})
	require.NoError(t, err)

	assert.Equal(t, 4.0, s.MeanScore)
	assert.Zero(t, s.StdDevScore)
	assert.Equal(t, 4.0, s.MedianScore)
}

func TestSummarizeNothingAligned(t *testing.T) {
	s, err := Summarize([]*metadata.Metadata{nil, nil})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Count)
	assert.Zero(t, s.Aligned)
	assert.Zero(t, s.MeanScore)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	require.Error(t, err)
}

func TestIdentityHistogram(t *testing.T) {
	h, err := NewIdentityHistogram(batch(t), 4)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 2, 1}, h.Bins)
	assert.Equal(t, 0.25, h.BinSize)

	start, end := h.ModeBin()
	assert.Equal(t, 0.5, start)
	assert.Equal(t, 0.75, end)
	assert.Contains(t, h.String(), " 50- 75%: ## (2)")
}

func TestIdentityHistogramErrors(t *testing.T) {
	tests := []struct {
		name    string
		batch   []*metadata.Metadata
		numBins int
	}{
		{"no bins", batch(t), 0},
		{"no alignment", []*metadata.Metadata{nil}, 4},
		{"empty", nil, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIdentityHistogram(tt.batch, tt.numBins)
			require.Error(t, err)
		})
	}
}

func BenchmarkSummarize(b *testing.B) {
	d := sequence.Empty(sequence.DNA)
	d.AppendString("ACGTACGTAC")
	a, err := alignment.NewPairwiseAlignment(d, d)
	require.NoError(b, err)

	mds := make([]*metadata.Metadata, 1000)
	for i := range mds {
		mds[i] = metadata.New(a, float64(i%17), 1, 1, nil)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Summarize(mds)
	}
}
