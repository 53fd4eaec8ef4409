package main

import (
	"fmt"
	"os"

	"github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"

	"github.com/aria-lang/pairalign/internal/applog"
	"github.com/aria-lang/pairalign/internal/config"
)

var log *logging.Logger

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pairalign",
	Short: "affine-gap pairwise sequence alignment",
	Long: fmt.Sprintf(`pairalign: affine-gap pairwise sequence alignment

Version: v%s

Sequences are given either as literal letters or as (gzipped) FASTA/FASTQ
files, in which case the first record is used.

Matrix and gap parameters are read from a TOML file (default %s)
and can be overridden by flags.
`, VERSION, config.DefaultPath),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = applog.New("pairalign", getFlagBool(cmd, "verbose"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	log = applog.New("pairalign", false)

	RootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath,
		formatFlagUsage("TOML configuration file. Defaults are used if it does not exist."))
	RootCmd.PersistentFlags().IntP("threads", "j", 0,
		formatFlagUsage("Number of CPU cores to use. By default, all cores are used."))
	RootCmd.PersistentFlags().BoolP("quiet", "", false,
		formatFlagUsage("Do not print any verbose information."))
	RootCmd.PersistentFlags().BoolP("verbose", "", false,
		formatFlagUsage("Print debug information."))

	RootCmd.PersistentFlags().StringP("matrix", "m", "",
		formatFlagUsage(`Substitution matrix: "nucleotide" or "blosum62". Overrides the configuration.`))
	RootCmd.PersistentFlags().Float64P("gap-open", "O", -1,
		formatFlagUsage("Gap open penalty, a positive magnitude. Overrides the configuration."))
	RootCmd.PersistentFlags().Float64P("gap-extend", "E", -1,
		formatFlagUsage("Gap extension penalty, a positive magnitude. Overrides the configuration."))
	RootCmd.PersistentFlags().BoolP("homopolymer", "H", false,
		formatFlagUsage("Use homopolymer-aware gap penalties for 454 reads."))
	RootCmd.PersistentFlags().Float64P("boundary-penalty", "B", -1,
		formatFlagUsage("Penalty for a gap crossing into another homopolymer run. Overrides the configuration."))

	RootCmd.CompletionOptions.DisableDefaultCmd = true
	RootCmd.SetUsageTemplate(usageTemplate(""))
}

func usageTemplate(s string) string {
	return fmt.Sprintf(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}} %s{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`, s)
}
