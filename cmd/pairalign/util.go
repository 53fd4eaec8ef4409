package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"

	"github.com/aria-lang/pairalign/internal/config"
	"github.com/aria-lang/pairalign/pkg/pairalign"
)

// Options contains the global flags
type Options struct {
	NumCPUs int
	Verbose bool

	Config *config.Config
	Matrix *pairalign.Matrix
	// SeqType is what input letters are validated as, following the matrix.
	SeqType pairalign.SequenceType

	Homopolymer bool
}

func getOptions(cmd *cobra.Command) *Options {
	threads := getFlagNonNegativeInt(cmd, "threads")
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	sorts.MaxProcs = threads
	runtime.GOMAXPROCS(threads)

	cfg, err := config.LoadOrDefault(getFlagString(cmd, "config"))
	checkError(err)

	if kind := getFlagString(cmd, "matrix"); kind != "" {
		cfg.Matrix.Kind = strings.ToLower(kind)
	}
	if v := getFlagFloat64(cmd, "gap-open"); v >= 0 {
		cfg.Matrix.GapOpen = v
	}
	if v := getFlagFloat64(cmd, "gap-extend"); v >= 0 {
		cfg.Matrix.GapExtend = v
	}
	if v := getFlagFloat64(cmd, "boundary-penalty"); v >= 0 {
		cfg.Homopolymer.BoundaryPenalty = v
	}
	cfg.Batch.Workers = threads
	checkError(cfg.Validate())

	m, err := cfg.Substitution()
	checkError(err)

	seqType := pairalign.DNA
	if cfg.Matrix.Kind == config.BLOSUM62 {
		seqType = pairalign.Protein
	}

	return &Options{
		NumCPUs: threads,
		Verbose: !getFlagBool(cmd, "quiet"),

		Config:  cfg,
		Matrix:  m,
		SeqType: seqType,

		Homopolymer: getFlagBool(cmd, "homopolymer"),
	}
}

// withGaps applies the gap model chosen on the command line to p.
func (opt *Options) withGaps(p pairalign.Policy) pairalign.Policy {
	if opt.Homopolymer {
		return p.WithHomopolymerGaps(opt.Config.Homopolymer.BoundaryPenalty)
	}
	return p
}

// readSequence returns the first record of the file arg, or arg itself as
// letters when no such file exists.
func readSequence(arg string, seqType pairalign.SequenceType, name string) *pairalign.Sequence {
	if arg == "-" || fileExists(arg) {
		seqs, err := pairalign.ReadFASTA(arg, seqType)
		checkError(errors.Wrapf(err, "read %s", name))
		return seqs[0]
	}

	s, err := newSequence(arg, seqType)
	checkError(errors.Wrapf(err, "%s", name))
	s.ID = name
	return s
}

func newSequence(bases string, seqType pairalign.SequenceType) (*pairalign.Sequence, error) {
	if seqType == pairalign.Protein {
		return pairalign.NewProtein(bases)
	}
	return pairalign.NewSequence(bases)
}

func fileExists(file string) bool {
	ok, err := pathutil.Exists(file)
	if err != nil || !ok {
		return false
	}
	isDir, err := pathutil.IsDir(file)
	return err == nil && !isDir
}

func outStream(file string, gzipped bool, level int) (*bufio.Writer, io.WriteCloser, *os.File, error) {
	var w *os.File
	if file == "-" {
		w = os.Stdout
	} else {
		var err error
		w, err = os.Create(file)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("fail to write %s: %s", file, err)
		}
	}

	if gzipped {
		gw, err := pgzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("fail to write %s: %s", file, err)
		}
		return bufio.NewWriterSize(gw, os.Getpagesize()), gw, w, nil
	}
	return bufio.NewWriterSize(w, os.Getpagesize()), nil, w, nil
}

func checkError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

func formatFlagUsage(s string) string {
	return "► " + s
}

func getFlagString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	checkError(err)
	return value
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return value
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return value
}

func getFlagNonNegativeInt(cmd *cobra.Command, flag string) int {
	value := getFlagInt(cmd, flag)
	if value < 0 {
		checkError(fmt.Errorf("value of flag --%s should be greater than or equal to 0", flag))
	}
	return value
}

func getFlagFloat64(cmd *cobra.Command, flag string) float64 {
	value, err := cmd.Flags().GetFloat64(flag)
	checkError(err)
	return value
}
