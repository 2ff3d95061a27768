package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stratactl",
	Short: "Inspect and drive a strata store from the command line",
}

func init() {
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the store file")
	rootCmd.AddCommand(headerCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(allocCmd)
}
