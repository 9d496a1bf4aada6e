package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for menuscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menuscan",
		Short: "Integrity validator for the historical menus dataset",
		Long: `menuscan validates the relational integrity of the historical menus
dataset (menus, pages, items, and dishes). It runs a fixed battery of
constraints covering referential integrity, price sanity, name
hygiene, and count consistency, and reports per-constraint violation
counts with sample rows.

It can also compare a pre-cleaning snapshot against a post-cleaning
one to measure which violations the cleaning pass fixed, left, or
introduced.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
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
