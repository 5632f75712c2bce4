package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// rootCmd is the base command of the PairLink CLI.
var rootCmd = &cobra.Command{
	Use:   "pairlink",
	Short: "Statistical diagnostics for pairs trading",
	Long: `PairLink checks whether two price series form a tradable pair:
integration order, the cointegration gate, Engle-Granger in both directions,
half-life, empirical mean reversion and the Hurst exponent.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (defaults when empty)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
