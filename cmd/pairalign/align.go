package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aria-lang/pairalign/pkg/pairalign"
)

var alignCmd = &cobra.Command{
	Use:   "align <database> <query>",
	Short: "Local alignment (Smith-Waterman-Gotoh)",
	Long: `Local alignment (Smith-Waterman-Gotoh)

Finds the highest scoring pair of segments of the two sequences under
affine gap penalties. Nothing is printed when no segment pair scores
above zero.

Each argument is a sequence or a FASTA/FASTQ file holding it.
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runPairwise(cmd, args, pairalign.LocalPolicy())
	},
}

var globalCmd = &cobra.Command{
	Use:   "global <database> <query>",
	Short: "Global alignment (Needleman-Wunsch-Gotoh)",
	Long: `Global alignment (Needleman-Wunsch-Gotoh)

Aligns both sequences end to end under affine gap penalties.

Each argument is a sequence or a FASTA/FASTQ file holding it.
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runPairwise(cmd, args, pairalign.GlobalPolicy())
	},
}

func runPairwise(cmd *cobra.Command, args []string, policy pairalign.Policy) {
	opt := getOptions(cmd)
	timeStart := time.Now()

	db := readSequence(args[0], opt.SeqType, "database")
	query := readSequence(args[1], opt.SeqType, "query")
	if getFlagBool(cmd, "revcom") {
		rc, err := query.ReverseComplement()
		checkError(errors.Wrap(err, "query"))
		query = rc
	}

	policy = opt.withGaps(policy)
	if opt.Verbose {
		log.Infof("aligning %d x %d letters, %s", db.Len(), query.Len(), policy)
	}

	md, err := pairalign.Run(db, query, opt.Matrix, policy)
	if errors.Is(err, pairalign.ErrNoAlignment) {
		if opt.Verbose {
			log.Info("no alignment found")
		}
		return
	}
	checkError(err)

	printMetadata(md, getFlagBool(cmd, "cigar-only"))

	if opt.Verbose {
		log.Infof("elapsed time: %s", time.Since(timeStart))
	}
}

func printMetadata(md *pairalign.Metadata, cigarOnly bool) {
	if cigarOnly {
		fmt.Println(md.CIGAR())
		return
	}

	fmt.Fprintln(os.Stdout, md.Format())
	fmt.Fprintf(os.Stdout, "Database: %d-%d\nQuery: %d-%d\n",
		md.StartDatabase, md.EndDatabase, md.StartQuery, md.EndQuery)
}

func init() {
	for _, c := range []*cobra.Command{alignCmd, globalCmd} {
		RootCmd.AddCommand(c)

		c.Flags().BoolP("revcom", "r", false,
			formatFlagUsage("Align the reverse complement of the query."))
		c.Flags().BoolP("cigar-only", "", false,
			formatFlagUsage("Only print the CIGAR string."))

		c.SetUsageTemplate(usageTemplate("<database> <query>"))
	}
}
