package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arbitrage",
		Short: "Find marketplace listings that trade in for more than they cost",
		Long: `arbitrage scans Vinted UK listings for each search term, looks up the
CeX UK cash trade-in price of the same product and logs every listing whose
trade-in price beats its total cost including postage and buyer protection.

Configuration is read from the environment and an optional .env file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
