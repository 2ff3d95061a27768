package main

import (
	"fmt"
	"strconv"

	"github.com/jpl-au/strata"
	"github.com/spf13/cobra"
)

var allocCmd = &cobra.Command{
	Use:   "alloc NAME BYTES ALIGN",
	Short: "Open a store, allocate and commit an empty record of the given size, and print its address",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		size, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid byte count %q: %w", args[1], err)
		}
		align, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid alignment %q: %w", args[2], err)
		}

		db, err := strata.Open(dir, args[0], strata.Writable, strata.Config{})
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		defer db.Close()

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}

		addr, err := tx.Allocate(size, align)
		if err != nil {
			tx.Abort()
			return fmt.Errorf("allocate: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}

		fmt.Printf("addr:       %d\n", int64(addr))
		fmt.Printf("generation: %d\n", db.CurrentGeneration())
		return nil
	},
}
