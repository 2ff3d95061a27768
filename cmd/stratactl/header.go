package main

import (
	"fmt"

	"github.com/jpl-au/strata"
	"github.com/spf13/cobra"
)

var headerCmd = &cobra.Command{
	Use:   "header NAME",
	Short: "Print header and current-revision summary for a store file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		db, err := strata.Open(dir, args[0], strata.ReadOnly, strata.Config{})
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		defer db.Close()

		fmt.Printf("sync_name:  %s\n", db.SyncName())
		fmt.Printf("generation: %d\n", db.CurrentGeneration())
		fmt.Printf("logical:    %d bytes\n", db.LogicalSize())
		return nil
	},
}
