package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aria-lang/pairalign/pkg/pairalign"
)

var extendCmd = &cobra.Command{
	Use:   "extend <database> <query>",
	Short: "Anchored extension from one end",
	Long: `Anchored extension from one end

Aligns both sequences starting at one end of each and stops wherever the
running score peaks. Use it to extend a seed match outwards:

  --direction right   anchor the first letters, extend towards the ends
  --direction left    anchor the last letters, extend towards the starts

A band keeps the alignment within that many cells of the anchor diagonal.

Each argument is a sequence or a FASTA/FASTQ file holding it.
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		timeStart := time.Now()

		var dir pairalign.Direction
		switch d := strings.ToLower(getFlagString(cmd, "direction")); d {
		case "left":
			dir = pairalign.Reverse
		case "right":
			dir = pairalign.Forward
		default:
			checkError(fmt.Errorf("invalid value of flag --direction: %s, available: left, right", d))
		}

		band := opt.Config.Extension.Band
		if cmd.Flags().Changed("band") {
			band = getFlagNonNegativeInt(cmd, "band")
		}

		db := readSequence(args[0], opt.SeqType, "database")
		query := readSequence(args[1], opt.SeqType, "query")

		policy := opt.withGaps(pairalign.ExtensionPolicy(dir, band))
		md, err := pairalign.Run(db, query, opt.Matrix, policy)
		if errors.Is(err, pairalign.ErrNoAlignment) {
			if opt.Verbose {
				log.Info("no extension scores above zero")
			}
			return
		}
		checkError(err)

		printMetadata(md, getFlagBool(cmd, "cigar-only"))

		if opt.Verbose {
			log.Infof("elapsed time: %s", time.Since(timeStart))
		}
	},
}

func init() {
	RootCmd.AddCommand(extendCmd)

	extendCmd.Flags().StringP("direction", "d", "right",
		formatFlagUsage(`Extension direction: "left" or "right".`))
	extendCmd.Flags().IntP("band", "b", 0,
		formatFlagUsage("Band half-width around the anchor diagonal, 0 for none. Overrides the configuration."))
	extendCmd.Flags().BoolP("cigar-only", "", false,
		formatFlagUsage("Only print the CIGAR string."))

	extendCmd.SetUsageTemplate(usageTemplate("<database> <query>"))
}
