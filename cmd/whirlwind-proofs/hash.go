package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var hashCmd = &cobra.Command{
	Use:   "hash <x1> [x2 ... x16]",
	Short: "Print the Poseidon hash of 1 to 16 decimal integers",
	Args:  cobra.RangeArgs(1, 16),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, h, err := setup(cmd)
		if err != nil {
			return err
		}
		digest, err := h.Hash(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), digest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
