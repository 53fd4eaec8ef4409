package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aria-lang/pairalign/pkg/pairalign"
)

// VERSION of pairalign
var VERSION = pairalign.Version()

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print version information
`,
	Run: func(cmd *cobra.Command, args []string) {
		if getFlagBool(cmd, "info") {
			fmt.Print(pairalign.Info())
			return
		}
		fmt.Printf("pairalign v%s\n", VERSION)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolP("info", "i", false,
		formatFlagUsage("Print the feature list."))
}
