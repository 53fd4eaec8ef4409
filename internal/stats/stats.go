// Package stats provides statistical summaries for batches of alignments.
//
// A batch is the result of aligning one query against many database
// sequences. Entries are nil where a run produced no alignment.
package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aria-lang/pairalign/internal/metadata"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary represents aggregated statistics for a batch of alignments.
type Summary struct {
	Count   int
	Aligned int

	MinScore    float64
	MaxScore    float64
	MeanScore   float64
	StdDevScore float64
	MedianScore float64

	MeanIdentity float64
	MeanLength   float64
	TotalGaps    int
}

// Summarize calculates statistics for a batch. Scores and identities are
// taken over the entries that aligned.
func Summarize(batch []*metadata.Metadata) (*Summary, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("batch cannot be empty")
	}

	s := &Summary{Count: len(batch)}
	var scores, identities, lengths []float64
	for _, md := range batch {
		if md == nil {
			continue
		}
		scores = append(scores, md.Score)
		identities = append(identities, md.Identity())
		lengths = append(lengths, float64(md.Length()))
		s.TotalGaps += md.TotalGaps()
	}

	s.Aligned = len(scores)
	if s.Aligned == 0 {
		return s, nil
	}

	s.MinScore = floats.Min(scores)
	s.MaxScore = floats.Max(scores)
	s.MeanScore, s.StdDevScore = stat.MeanStdDev(scores, nil)
	if s.Aligned == 1 {
		s.StdDevScore = 0
	}

	sort.Float64s(scores)
	s.MedianScore = stat.Quantile(0.5, stat.Empirical, scores, nil)

	s.MeanIdentity = stat.Mean(identities, nil)
	s.MeanLength = stat.Mean(lengths, nil)
	return s, nil
}

// AlignedRatio returns the proportion of entries that produced an alignment.
func (s *Summary) AlignedRatio() float64 {
	if s.Count == 0 {
		return 0.0
	}
	return float64(s.Aligned) / float64(s.Count)
}

func (s *Summary) String() string {
	return fmt.Sprintf(`Summary {
  count: %d
  aligned: %d (%.1f%%)
  score range: %.2f - %.2f
  mean score: %.2f (sd %.2f)
  median score: %.2f
  mean identity: %.1f%%
  mean length: %.1f
  gap columns: %d
}`, s.Count, s.Aligned, s.AlignedRatio()*100, s.MinScore, s.MaxScore,
		s.MeanScore, s.StdDevScore, s.MedianScore, s.MeanIdentity*100, s.MeanLength, s.TotalGaps)
}

// IdentityHistogram represents an identity histogram with bins over [0, 1].
type IdentityHistogram struct {
	Bins    []int
	BinSize float64
	NumBins int
}

// NewIdentityHistogram bins the identities of the aligned entries of a batch.
func NewIdentityHistogram(batch []*metadata.Metadata, numBins int) (*IdentityHistogram, error) {
	if numBins <= 0 {
		return nil, fmt.Errorf("numBins must be positive")
	}

	var identities []float64
	for _, md := range batch {
		if md != nil {
			identities = append(identities, md.Identity())
		}
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("batch holds no alignment")
	}
	sort.Float64s(identities)

	dividers := make([]float64, numBins+1)
	floats.Span(dividers, 0, 1)
	// Full identity falls in the last bin.
	dividers[numBins] = math.Nextafter(1, 2)

	counts := stat.Histogram(nil, dividers, identities, nil)
	bins := make([]int, numBins)
	for i, c := range counts {
		bins[i] = int(c)
	}

	return &IdentityHistogram{
		Bins:    bins,
		BinSize: 1.0 / float64(numBins),
		NumBins: numBins,
	}, nil
}

// ModeBin returns the most common identity range.
func (h *IdentityHistogram) ModeBin() (float64, float64) {
	maxCount := h.Bins[0]
	maxBin := 0

	for i, count := range h.Bins {
		if count > maxCount {
			maxCount = count
			maxBin = i
		}
	}

	start := float64(maxBin) * h.BinSize
	end := start + h.BinSize
	return start, end
}

func (h *IdentityHistogram) String() string {
	var b strings.Builder
	b.WriteString("Identity Histogram:\n")
	for i := 0; i < h.NumBins; i++ {
		start := int(math.Round(float64(i) * h.BinSize * 100))
		end := int(math.Round(float64(i+1) * h.BinSize * 100))
		count := h.Bins[i]

		fmt.Fprintf(&b, "%3d-%3d%%: %s (%d)\n", start, end, strings.Repeat("#", count), count)
	}
	return b.String()
}
