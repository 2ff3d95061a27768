package main

import (
	"fmt"
	"strconv"

	"github.com/jpl-au/strata"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync NAME [generation|head]",
	Short: "Sync a store to head or a named historical generation and print the result",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		db, err := strata.Open(dir, args[0], strata.ReadOnly, strata.Config{})
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		defer db.Close()

		rev := strata.Head()
		if len(args) == 2 && args[1] != "head" {
			g, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid generation %q: %w", args[1], err)
			}
			rev = strata.AtGeneration(uint32(g))
		}

		if err := db.Sync(rev); err != nil {
			return fmt.Errorf("sync: %w", err)
		}
		fmt.Printf("generation: %d\n", db.CurrentGeneration())
		fmt.Printf("logical:    %d bytes\n", db.LogicalSize())
		return nil
	},
}
