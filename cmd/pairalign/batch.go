package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/aria-lang/pairalign/internal/metadata"
	"github.com/aria-lang/pairalign/pkg/pairalign"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] -q <query> <target files>...",
	Short: "Align a query against many targets and rank the hits",
	Long: `Align a query against many targets and rank the hits

Every record of the target files is aligned with the query (local by
default), using all threads. Hits are written best first as tab-delimited
rows; targets that do not align are left out.

Output columns:
  1. query      query identifier
  2. target     target identifier
  3. rank       rank of the hit, starting at 1
  4. score      alignment score
  5. identity   matches per alignment column
  6. length     number of alignment columns
  7. dstart     1-based start in the target
  8. dend       1-based end in the target
  9. qstart     1-based start in the query
 10. qend       1-based end in the query
 11. cigar      CIGAR string (=, X, I, D)
`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		timeStart := time.Now()

		queryArg := getFlagString(cmd, "query")
		if queryArg == "" {
			checkError(fmt.Errorf("flag -q/--query needed"))
		}
		if len(args) == 0 {
			checkError(fmt.Errorf("target files needed"))
		}

		outFile := getFlagString(cmd, "out-file")
		top := getFlagNonNegativeInt(cmd, "top")
		minScore := getFlagFloat64(cmd, "min-score")
		minIdentity := getFlagFloat64(cmd, "min-identity")
		if minIdentity < 0 || minIdentity > 1 {
			checkError(fmt.Errorf("value of flag --min-identity should be in range of [0, 1]"))
		}
		noProgress := getFlagBool(cmd, "no-progress")

		var policy pairalign.Policy
		switch strings.ToLower(getFlagString(cmd, "mode")) {
		case "local":
			policy = pairalign.LocalPolicy()
		case "global":
			policy = pairalign.GlobalPolicy()
		default:
			checkError(fmt.Errorf("invalid value of flag --mode: %s, available: local, global",
				getFlagString(cmd, "mode")))
		}
		policy = opt.withGaps(policy)

		// ---------------------------------------------------------------

		query := readSequence(queryArg, opt.SeqType, "query")

		var targets []*pairalign.Sequence
		for _, file := range args {
			seqs, err := pairalign.ReadFASTA(file, opt.SeqType)
			checkError(err)
			targets = append(targets, seqs...)
		}
		if opt.Verbose {
			log.Infof("%d targets loaded from %d file(s)", len(targets), len(args))
			log.Infof("aligning with %d threads, %s", opt.NumCPUs, policy)
		}

		// ---------------------------------------------------------------

		showProgressBar := opt.Verbose && !noProgress

		var pbs *mpb.Progress
		var bar *mpb.Bar
		var chDuration chan time.Duration
		var doneDuration chan int
		if showProgressBar {
			pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
			bar = pbs.AddBar(int64(len(targets)),
				mpb.PrependDecorators(
					decor.Name("aligned targets: ", decor.WC{W: len("aligned targets: "), C: decor.DindentRight}),
					decor.Name("", decor.WCSyncSpaceR),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
					decor.EwmaETA(decor.ET_STYLE_GO, 3),
					decor.OnComplete(decor.Name(""), ". done"),
				),
			)

			chDuration = make(chan time.Duration, opt.NumCPUs)
			doneDuration = make(chan int)
			go func() {
				for t := range chDuration {
					bar.EwmaIncrBy(1, t)
				}
				doneDuration <- 1
			}()
		}

		batchOpts := pairalign.BatchOptions{
			Matrix:  opt.Matrix,
			Policy:  policy,
			Workers: opt.Config.Batch.Workers,
		}
		if showProgressBar {
			batchOpts.OnDone = func(elapsed time.Duration) {
				chDuration <- elapsed
			}
		}

		hits, err := pairalign.AlignAgainstMultiple(context.Background(), query, targets, batchOpts)

		if showProgressBar {
			close(chDuration)
			<-doneDuration
			if err != nil {
				bar.Abort(false)
			}
			pbs.Wait()
		}
		checkError(err)

		// ---------------------------------------------------------------

		significant := metadata.All(metadata.MinScore(minScore), metadata.MinIdentity(minIdentity))

		ranked := pairalign.Rank(hits)
		kept := ranked[:0]
		for _, hit := range ranked {
			if significant(hit.Metadata) {
				kept = append(kept, hit)
			}
		}
		if top > 0 && len(kept) > top {
			kept = kept[:top]
		}

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), 6)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		queryID := query.ID
		fmt.Fprintln(outfh, "query\ttarget\trank\tscore\tidentity\tlength\tdstart\tdend\tqstart\tqend\tcigar")
		for i, hit := range kept {
			md := hit.Metadata
			targetID := hit.Target.ID
			if targetID == "" {
				targetID = fmt.Sprintf("target_%d", hit.Index+1)
			}
			fmt.Fprintf(outfh, "%s\t%s\t%d\t%.4g\t%.4f\t%d\t%d\t%d\t%d\t%d\t%s\n",
				queryID, targetID, i+1, md.Score, md.Identity(), md.Length(),
				md.StartDatabase, md.EndDatabase, md.StartQuery, md.EndQuery, md.CIGAR())
		}

		if opt.Verbose {
			summary, err := pairalign.Summarize(hits)
			checkError(err)
			log.Infof("%d/%d targets aligned, %d reported", summary.Aligned, summary.Count, len(kept))
			if summary.Aligned > 0 {
				log.Infof("score: min %.4g, max %.4g, mean %.4g, median %.4g",
					summary.MinScore, summary.MaxScore, summary.MeanScore, summary.MedianScore)
			}
			if outFile != "-" {
				log.Infof("hits saved to %s", filepath.Clean(outFile))
			}
			log.Infof("elapsed time: %s", time.Since(timeStart))
		}
	},
}

func init() {
	RootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("query", "q", "",
		formatFlagUsage("Query sequence, or a FASTA/FASTQ file whose first record is used."))
	batchCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))
	batchCmd.Flags().StringP("mode", "", "local",
		formatFlagUsage(`Alignment mode: "local" or "global".`))
	batchCmd.Flags().IntP("top", "n", 0,
		formatFlagUsage("Only report the top N hits, 0 for all."))
	batchCmd.Flags().Float64P("min-score", "s", 0,
		formatFlagUsage("Minimum alignment score of reported hits."))
	batchCmd.Flags().Float64P("min-identity", "i", 0,
		formatFlagUsage("Minimum identity of reported hits, in range of [0, 1]."))
	batchCmd.Flags().BoolP("no-progress", "", false,
		formatFlagUsage("Do not show the progress bar."))

	batchCmd.SetUsageTemplate(usageTemplate("-q <query> <target files>..."))
}
