package alignment

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// DefaultScoreNX is the score of any pair involving an unknown base (N or X)
// in a nucleotide matrix.
const DefaultScoreNX = 0.0

// nucleotides lists the IUPAC letters a nucleotide matrix scores, upper case.
const nucleotides = "ACGTURYKMSWBDHVNX"

// NucleotideOptions holds the parameters of a match/mismatch nucleotide matrix.
// Mismatch and the gap penalties are positive magnitudes.
type NucleotideOptions struct {
	Match     float64
	Mismatch  float64
	GapOpen   float64
	GapExtend float64
	ScoreNX   float64
}

// DefaultNucleotideOptions returns hit 1, mismatch 1, gap open 5, gap extend 1.
func DefaultNucleotideOptions() NucleotideOptions {
	return NucleotideOptions{
		Match:     1,
		Mismatch:  1,
		GapOpen:   5,
		GapExtend: 1,
		ScoreNX:   DefaultScoreNX,
	}
}

// NewNucleotideMatrix creates a lenient matrix over the IUPAC nucleotide
// letters in both cases. Identical letters score Match, different letters
// score -Mismatch, U is treated as T and any pair with N or X scores ScoreNX.
func NewNucleotideMatrix(opts NucleotideOptions, extra ...MatrixOption) (*SubstitutionMatrix, error) {
	if opts.Match <= 0 {
		return nil, fmt.Errorf("match score must be positive")
	}
	if opts.Mismatch < 0 {
		return nil, fmt.Errorf("mismatch penalty must be a non-negative magnitude")
	}

	canonical := func(c byte) byte {
		if c == 'U' {
			return 'T'
		}
		return c
	}

	scores := make(map[Pair]float64, 4*len(nucleotides)*len(nucleotides))
	for i := 0; i < len(nucleotides); i++ {
		for j := 0; j < len(nucleotides); j++ {
			a, b := nucleotides[i], nucleotides[j]

			var s float64
			switch {
			case a == 'N' || a == 'X' || b == 'N' || b == 'X':
				s = opts.ScoreNX
			case canonical(a) == canonical(b):
				s = opts.Match
			default:
				s = -opts.Mismatch
			}
			putCaseVariants(scores, a, b, s)
		}
	}

	options := []MatrixOption{
		WithName("nucleotide"),
		WithGapPenalties(opts.GapOpen, opts.GapExtend),
		WithHighestScore(math.Max(opts.Match, opts.ScoreNX)),
		WithLowestScore(math.Min(-opts.Mismatch, opts.ScoreNX)),
	}
	return NewSubstitutionMatrix(scores, append(options, extra...)...)
}

// DefaultNucleotide creates the nucleotide matrix with DefaultNucleotideOptions.
func DefaultNucleotide() *SubstitutionMatrix {
	m, err := NewNucleotideMatrix(DefaultNucleotideOptions())
	if err != nil {
		panic(err)
	}
	return m
}

// NewBLOSUM62 creates the BLOSUM62 protein matrix with the given gap penalties.
func NewBLOSUM62(gapOpen, gapExtend float64, extra ...MatrixOption) (*SubstitutionMatrix, error) {
	options := append([]MatrixOption{
		WithName("BLOSUM62"),
		WithGapPenalties(gapOpen, gapExtend),
	}, extra...)
	return ParseMatrix(strings.NewReader(blosum62), options...)
}

// ParseMatrix reads a substitution table in NCBI text format: '#' comment
// lines, a header row of column letters, then one row per letter starting
// with that letter. Scores are mirrored to lower case. Highest and lowest
// scores are derived from the table unless given as options.
func ParseMatrix(r io.Reader, opts ...MatrixOption) (*SubstitutionMatrix, error) {
	scanner := bufio.NewScanner(r)

	var columns []byte
	scores := make(map[Pair]float64, 4*24*24)
	highest, lowest := math.Inf(-1), math.Inf(1)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		if columns == nil {
			for _, f := range fields {
				if len(f) != 1 {
					return nil, fmt.Errorf("line %d: column header %q is not a single letter", lineNo, f)
				}
				columns = append(columns, f[0])
			}
			continue
		}

		if len(fields[0]) != 1 {
			return nil, fmt.Errorf("line %d: row label %q is not a single letter", lineNo, fields[0])
		}
		if len(fields)-1 != len(columns) {
			return nil, fmt.Errorf("line %d: expected %d scores, found %d", lineNo, len(columns), len(fields)-1)
		}

		row := fields[0][0]
		for j, f := range fields[1:] {
			s, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			putCaseVariants(scores, row, columns[j], s)
			highest = math.Max(highest, s)
			lowest = math.Min(lowest, s)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("no scores found")
	}

	options := append([]MatrixOption{
		WithHighestScore(highest),
		WithLowestScore(lowest),
	}, opts...)
	return NewSubstitutionMatrix(scores, options...)
}

func putCaseVariants(scores map[Pair]float64, a, b byte, s float64) {
	la, lb := toLower(a), toLower(b)
	scores[Pair{a, b}] = s
	scores[Pair{la, b}] = s
	scores[Pair{a, lb}] = s
	scores[Pair{la, lb}] = s
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

const blosum62 = `# BLOSUM62 clustered scoring matrix in 1/2 bit units
A R N D C Q E G H I L K M F P S T W Y V B Z X *
A 4 -1 -2 -2 0 -1 -1 0 -2 -1 -1 -1 -1 -2 -1 1 0 -3 -2 0 -2 -1 0 -4
R -1 5 0 -2 -3 1 0 -2 0 -3 -2 2 -1 -3 -2 -1 -1 -3 -2 -3 -1 0 -1 -4
N -2 0 6 1 -3 0 0 0 1 -3 -3 0 -2 -3 -2 1 0 -4 -2 -3 3 0 -1 -4
D -2 -2 1 6 -3 0 2 -1 -1 -3 -4 -1 -3 -3 -1 0 -1 -4 -3 -3 4 1 -1 -4
C 0 -3 -3 -3 9 -3 -4 -3 -3 -1 -1 -3 -1 -2 -3 -1 -1 -2 -2 -1 -3 -3 -2 -4
Q -1 1 0 0 -3 5 2 -2 0 -3 -2 1 0 -3 -1 0 -1 -2 -1 -2 0 3 -1 -4
E -1 0 0 2 -4 2 5 -2 0 -3 -3 1 -2 -3 -1 0 -1 -3 -2 -2 1 4 -1 -4
G 0 -2 0 -1 -3 -2 -2 6 -2 -4 -4 -2 -3 -3 -2 0 -2 -2 -3 -3 -1 -2 -1 -4
H -2 0 1 -1 -3 0 0 -2 8 -3 -3 -1 -2 -1 -2 -1 -2 -2 2 -3 0 0 -1 -4
I -1 -3 -3 -3 -1 -3 -3 -4 -3 4 2 -3 1 0 -3 -2 -1 -3 -1 3 -3 -3 -1 -4
L -1 -2 -3 -4 -1 -2 -3 -4 -3 2 4 -2 2 0 -3 -2 -1 -2 -1 1 -4 -3 -1 -4
K -1 2 0 -1 -3 1 1 -2 -1 -3 -2 5 -1 -3 -1 0 -1 -3 -2 -2 0 1 -1 -4
M -1 -1 -2 -3 -1 0 -2 -3 -2 1 2 -1 5 0 -2 -1 -1 -1 -1 1 -3 -1 -1 -4
F -2 -3 -3 -3 -2 -3 -3 -3 -1 0 0 -3 0 6 -4 -2 -2 1 3 -1 -3 -3 -1 -4
P -1 -2 -2 -1 -3 -1 -1 -2 -2 -3 -3 -1 -2 -4 7 -1 -1 -4 -3 -2 -2 -1 -2 -4
S 1 -1 1 0 -1 0 0 0 -1 -2 -2 0 -1 -2 -1 4 1 -3 -2 -2 0 0 0 -4
T 0 -1 0 -1 -1 -1 -1 -2 -2 -1 -1 -1 -1 -2 -1 1 5 -2 -2 0 -1 -1 0 -4
W -3 -3 -4 -4 -2 -2 -3 -2 -2 -3 -2 -3 -1 1 -4 -3 -2 11 2 -3 -4 -3 -2 -4
Y -2 -2 -2 -3 -2 -1 -2 -3 2 -1 -1 -2 -1 3 -3 -2 -2 2 7 -1 -3 -2 -1 -4
V 0 -3 -3 -3 -1 -2 -2 -3 -3 3 1 -2 1 -1 -2 -2 0 -3 -1 4 -3 -2 -1 -4
B -2 -1 3 4 -3 0 1 -1 0 -3 -4 0 -3 -3 -2 0 -1 -4 -3 -3 4 1 -1 -4
Z -1 0 0 1 -3 3 4 -2 0 -3 -3 1 -1 -3 -1 0 -1 -3 -2 -2 1 4 -1 -4
X 0 -1 -1 -1 -2 -1 -1 -1 -1 -1 -1 -1 -1 -1 -2 0 0 -2 -1 -1 -1 -1 -1 -4
* -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 1
`
