package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aria-lang/pairalign/pkg/pairalign"
)

var profileCmd = &cobra.Command{
	Use:   "profile <sequence>",
	Short: "Show the homopolymer gap profile of a sequence",
	Long: `Show the homopolymer gap profile of a sequence

Lists the homopolymer runs of the sequence and the gap open penalty the
homopolymer-aware gap model charges at every position. Inside a run the
penalty ramps down from the gap open penalty to the floor.

Output columns: position, letter, run start, run length, gap open penalty.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		minLen := getFlagNonNegativeInt(cmd, "min-length")

		s := readSequence(args[0], opt.SeqType, "sequence")
		profile, err := pairalign.Profile(s, opt.Matrix)
		checkError(err)

		if opt.Verbose {
			log.Infof("%d runs, gap open floor %.4g", len(profile.Runs), profile.Floor)
		}

		fmt.Println("pos\tletter\trun_start\trun_len\tgap_open")
		for _, run := range profile.Runs {
			if run.Length < minLen {
				continue
			}
			for p := run.Start; p < run.End(); p++ {
				fmt.Printf("%d\t%c\t%d\t%d\t%.4g\n", p+1, run.Base, run.Start+1, run.Length, profile.GapOpenAt[p])
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(profileCmd)

	profileCmd.Flags().IntP("min-length", "l", 1,
		formatFlagUsage("Only show runs of at least this length."))

	profileCmd.SetUsageTemplate(usageTemplate("<sequence>"))
}
