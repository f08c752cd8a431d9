// Package main provides the command-line interface for the SDRAM simulator.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sdramsim",
	Short: "Sdramsim simulates a synchronous DRAM memory system.",
	Long: `Sdramsim simulates a synchronous DRAM memory system, including a ` +
		`memory controller that drives the command, address, and data pins, ` +
		`and a memory device that responds to the pin activity.`,
}

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
