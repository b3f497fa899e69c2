package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cppgen/internal/options"
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the generator parameters cppgen understands",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, opt := range options.Known() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s %s\n", opt.Key, opt.Summary)
			}
		},
	}
}
