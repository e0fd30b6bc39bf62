// Package main provides the towerscope CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "towerscope",
		Short: "Upgrade purchase advisor for tower players",
		Long: `Towerscope scores the marginal value of every purchasable upgrade level
and recommends what to buy next, per ranking strategy.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newValidateCmd(),
		newRankCmd(),
		newProfileCmd(),
		newStrategiesCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
