// Package pairalign provides a high-level API for affine-gap pairwise alignment.
//
// This package exposes the aligners behind a small API for the common cases:
// one local or global alignment, homopolymer-aware alignment of 454 reads,
// anchored extension, and one query against many targets.
//
// Example usage:
//
//	db, err := pairalign.NewSequence("TTTTACGTACGTACGTTTTT")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	query, _ := pairalign.NewSequence("CCACGTCCCCACGTCC")
//
//	md, err := pairalign.Align(db, query)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(md.Format())
package pairalign

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/twotwotwo/sorts"

	"github.com/aria-lang/pairalign/internal/alignment"
	"github.com/aria-lang/pairalign/internal/dp"
	"github.com/aria-lang/pairalign/internal/metadata"
	"github.com/aria-lang/pairalign/internal/sequence"
	"github.com/aria-lang/pairalign/internal/stats"
)

// Re-export types for convenience
type (
	Sequence     = sequence.Seq
	SequenceType = sequence.SequenceType
	Matrix       = alignment.SubstitutionMatrix
	Alignment    = alignment.PairwiseAlignment
	Policy       = dp.Policy
	Direction    = dp.Direction
	Result       = dp.Result
	Metadata     = metadata.Metadata
	Summary      = stats.Summary
)

// Constants
const (
	DNA     = sequence.DNA
	RNA     = sequence.RNA
	Protein = sequence.Protein

	Forward = dp.Forward
	Reverse = dp.Reverse
)

// ErrNoAlignment is returned when a run finds nothing worth aligning.
var ErrNoAlignment = metadata.ErrNoAlignment

// NewSequence creates a new DNA sequence.
func NewSequence(bases string) (*Sequence, error) {
	return sequence.New(bases)
}

// NewSequenceWithID creates a new DNA sequence with an identifier.
func NewSequenceWithID(bases, id string) (*Sequence, error) {
	return sequence.WithID(bases, id)
}

// NewProtein creates a new amino acid sequence.
func NewProtein(bases string) (*Sequence, error) {
	return sequence.NewProtein(bases)
}

// MatrixOptions holds the parameters of a nucleotide matrix.
type MatrixOptions = alignment.NucleotideOptions

// DefaultMatrix returns the default nucleotide matrix.
func DefaultMatrix() *Matrix {
	return alignment.DefaultNucleotide()
}

// NewMatrix creates a nucleotide matrix. A strict matrix fails on letter
// pairs it does not define instead of scoring them with the lowest score.
func NewMatrix(opts MatrixOptions, strict bool) (*Matrix, error) {
	if strict {
		return alignment.NewNucleotideMatrix(opts, alignment.WithErrorWhenMissing())
	}
	return alignment.NewNucleotideMatrix(opts)
}

// LocalPolicy returns the Smith-Waterman-Gotoh policy.
func LocalPolicy() Policy {
	return dp.LocalPolicy()
}

// GlobalPolicy returns the Needleman-Wunsch-Gotoh policy.
func GlobalPolicy() Policy {
	return dp.GlobalPolicy()
}

// ExtensionPolicy returns the anchored extension policy.
func ExtensionPolicy(dir Direction, band int) Policy {
	return dp.ExtensionPolicy(dir, band)
}

// Run aligns query against database under policy and describes the result.
func Run(database, query *Sequence, m *Matrix, policy Policy) (*Metadata, error) {
	res, err := dp.Align(database, query, m, policy)
	if err != nil {
		return nil, errors.Wrapf(err, "%s alignment", policy)
	}

	md, err := metadata.FromResult(res)
	if err != nil {
		return nil, err
	}
	return md.WithIDs(database.ID, query.ID), nil
}

// Align performs local alignment with the default matrix.
func Align(database, query *Sequence) (*Metadata, error) {
	return Run(database, query, DefaultMatrix(), dp.LocalPolicy())
}

// AlignGlobal performs global alignment with the default matrix.
func AlignGlobal(database, query *Sequence) (*Metadata, error) {
	return Run(database, query, DefaultMatrix(), dp.GlobalPolicy())
}

// AlignWithMatrix performs local alignment with a custom matrix.
func AlignWithMatrix(database, query *Sequence, m *Matrix) (*Metadata, error) {
	return Run(database, query, m, dp.LocalPolicy())
}

// AlignHomopolymer performs local alignment with homopolymer-aware gaps.
func AlignHomopolymer(database, query *Sequence, m *Matrix, boundaryPenalty float64) (*Metadata, error) {
	return Run(database, query, m, dp.LocalPolicy().WithHomopolymerGaps(boundaryPenalty))
}

// Extend aligns from one end of both sequences: Reverse anchors the last
// letters, Forward the first.
func Extend(database, query *Sequence, m *Matrix, dir Direction, band int) (*Metadata, error) {
	return Run(database, query, m, dp.ExtensionPolicy(dir, band))
}

// ScoreRows scores an externally supplied gapped alignment. Rows may hold
// gap symbols and must have equal length.
func ScoreRows(database, query string, m *Matrix, seqType SequenceType) (float64, error) {
	rows := make([]*Sequence, 2)
	for i, row := range []string{database, query} {
		row = strings.ToUpper(row)
		if err := sequence.Validate(strings.ReplaceAll(row, string(sequence.Gap), ""), seqType); err != nil {
			return 0, err
		}
		rows[i] = sequence.Empty(seqType)
		rows[i].AppendString(row)
	}

	a, err := alignment.NewPairwiseAlignment(rows[0], rows[1])
	if err != nil {
		return 0, err
	}
	return m.ScoreAlignment(a)
}

// HomopolymerProfile describes how the 454 gap model sees a sequence.
type HomopolymerProfile struct {
	Runs []sequence.Run
	// GapOpenAt is the gap open penalty at each position.
	GapOpenAt []float64
	// Floor is the cheapest open deep inside a long run.
	Floor float64
}

// Profile computes the homopolymer runs of s and its gap open ramp under m.
func Profile(s *Sequence, m *Matrix) (*HomopolymerProfile, error) {
	tables, err := dp.NewHomopolymerTables(s, m)
	if err != nil {
		return nil, errors.Wrap(err, "homopolymer tables")
	}
	floor, err := dp.HomopolymerFloor(m)
	if err != nil {
		return nil, errors.Wrap(err, "homopolymer floor")
	}

	return &HomopolymerProfile{
		Runs:      sequence.HomopolymerRuns(s),
		GapOpenAt: tables.GapOpenAt,
		Floor:     floor,
	}, nil
}

// Hit is the outcome of aligning the query against one target.
type Hit struct {
	// Index of the target in the input.
	Index  int
	Target *Sequence
	// Metadata is nil when the target did not align.
	Metadata *Metadata
}

// BatchOptions configures AlignAgainstMultiple. The zero value aligns
// locally with the default matrix on one worker.
type BatchOptions struct {
	Matrix  *Matrix
	Policy  Policy
	Workers int
	// OnDone is called after each target with the time its run took.
	OnDone func(elapsed time.Duration)
}

// AlignAgainstMultiple aligns query against every target concurrently with
// at most opts.Workers runs in flight. Hits come back in target order.
func AlignAgainstMultiple(ctx context.Context, query *Sequence, targets []*Sequence, opts BatchOptions) ([]*Hit, error) {
	if opts.Matrix == nil {
		opts.Matrix = DefaultMatrix()
	}
	if opts.Policy == (Policy{}) {
		opts.Policy = dp.LocalPolicy()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}

	hits := make([]*Hit, len(targets))
	var wg sync.WaitGroup
	tokens := make(chan int, opts.Workers)

	var once sync.Once
	var firstErr error
	fail := func(err error) {
		once.Do(func() { firstErr = err })
	}

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}

		tokens <- 1
		wg.Add(1)
		go func(i int, target *Sequence) {
			defer func() {
				<-tokens
				wg.Done()
			}()

			start := time.Now()
			md, err := Run(target, query, opts.Matrix, opts.Policy)
			if err != nil && !errors.Is(err, ErrNoAlignment) {
				fail(errors.Wrapf(err, "target %d", i))
				return
			}

			hits[i] = &Hit{Index: i, Target: target, Metadata: md}
			if opts.OnDone != nil {
				opts.OnDone(time.Since(start))
			}
		}(i, target)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return hits, nil
}

// byScore orders hits best first, by input order on ties.
type byScore []*Hit

func (h byScore) Len() int      { return len(h) }
func (h byScore) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h byScore) Less(i, j int) bool {
	a, b := h[i].Metadata.Score, h[j].Metadata.Score
	if a != b {
		return a > b
	}
	return h[i].Index < h[j].Index
}

// Rank returns the hits that aligned, best first.
func Rank(hits []*Hit) []*Hit {
	ranked := make([]*Hit, 0, len(hits))
	for _, h := range hits {
		if h != nil && h.Metadata != nil {
			ranked = append(ranked, h)
		}
	}
	sorts.Quicksort(byScore(ranked))
	return ranked
}

// FindBestAlignment returns the best scoring target for query.
func FindBestAlignment(ctx context.Context, query *Sequence, targets []*Sequence, opts BatchOptions) (*Hit, error) {
	hits, err := AlignAgainstMultiple(ctx, query, targets, opts)
	if err != nil {
		return nil, err
	}

	ranked := Rank(hits)
	if len(ranked) == 0 {
		return nil, ErrNoAlignment
	}
	return ranked[0], nil
}

// Summarize calculates statistics over a batch of hits.
func Summarize(hits []*Hit) (*Summary, error) {
	mds := make([]*Metadata, len(hits))
	for i, h := range hits {
		if h != nil {
			mds[i] = h.Metadata
		}
	}
	return stats.Summarize(mds)
}

// ReadFASTA reads sequences of the given type from a (gzipped) FASTA or
// FASTQ file, "-" for stdin.
func ReadFASTA(file string, seqType SequenceType) ([]*Sequence, error) {
	reader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	defer reader.Close()

	var sequences []*Sequence
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, file)
		}

		id := string(record.ID)
		desc := strings.TrimSpace(strings.TrimPrefix(string(record.Name), id))
		s, err := sequence.WithMetadata(string(record.Seq.Seq), id, desc, seqType)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: record %s", file, id)
		}
		sequences = append(sequences, s)
	}

	if len(sequences) == 0 {
		return nil, fmt.Errorf("no sequences in %s", file)
	}
	return sequences, nil
}

// Version returns the pairalign version.
func Version() string {
	return "0.3.0"
}

// Info returns information about pairalign.
func Info() string {
	return fmt.Sprintf(`pairalign v%s - Affine-gap Pairwise Alignment

Features:
  - Smith-Waterman-Gotoh local alignment
  - Needleman-Wunsch-Gotoh global alignment
  - Anchored extension in both directions, optionally banded
  - Homopolymer-aware gap penalties for 454 reads
  - Nucleotide and BLOSUM62 substitution matrices
  - CIGAR, identity and gap reporting
  - One query against many targets with ranking
`, Version())
}
