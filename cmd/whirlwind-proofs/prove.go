package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/whirlwind/poseidon254/internal/config"
	"github.com/whirlwind/poseidon254/internal/log"
	"github.com/whirlwind/poseidon254/internal/prover"
)

var (
	proveInput   string
	proveOutput  string
	proveKeys    string
	proveWorkers int
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Prove every record of a proof inputs file with Groth16",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, h, err := setup(cmd)
		if err != nil {
			return err
		}
		records, err := prover.LoadRecords(cfg.Input)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p := prover.New(h,
			prover.WithKeysDir(cfg.Keys),
			prover.WithLogger(log.Module(logger, "prover")),
		)
		report, err := p.Run(ctx, records, cfg.Output, cfg.Workers)
		if err != nil {
			return err
		}
		logger.Info().
			Int("proved", len(report.Proved)).
			Int("failed", len(report.Failed)).
			Str("output", cfg.Output).
			Msg("batch finished")
		if len(report.Failed) > 0 {
			return fmt.Errorf("%d of %d records failed:\n%w", len(report.Failed), len(records), report.Err())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().StringVar(&proveInput, "input", "", "Proof inputs file.")
	proveCmd.Flags().StringVar(&proveOutput, "output", "", "Directory receiving <key>.json proofs.")
	proveCmd.Flags().StringVar(&proveKeys, "keys", "", "Directory to load and save Groth16 keys.")
	proveCmd.Flags().IntVar(&proveWorkers, "workers", 0, "Records proved concurrently.")
}

// applyFlags overrides cfg with the subcommand flags the user set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = proveInput
	}
	if flags.Changed("output") {
		cfg.Output = proveOutput
	}
	if flags.Changed("keys") {
		cfg.Keys = proveKeys
	}
	if flags.Changed("workers") {
		cfg.Workers = proveWorkers
	}
}
