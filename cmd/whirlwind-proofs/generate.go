package main

import (
	"github.com/spf13/cobra"

	"github.com/whirlwind/poseidon254/internal/prover"
)

var generateOut string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a proof inputs file with one consistent record per circuit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, h, err := setup(cmd)
		if err != nil {
			return err
		}
		records, err := prover.Generate(h)
		if err != nil {
			return err
		}
		out := cfg.Input
		if cmd.Flags().Changed("out") {
			out = generateOut
		}
		if err := prover.WriteRecords(out, records); err != nil {
			return err
		}
		logger.Info().Str("path", out).Int("records", len(records)).Msg("proof inputs written")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generateOut, "out", "", "Output file (defaults to the configured input path).")
}
