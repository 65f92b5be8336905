// Command whirlwind-proofs hashes values with the circomlib Poseidon
// parameters and proves Whirlwind circuit inputs in batch.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/whirlwind/poseidon254"
	"github.com/whirlwind/poseidon254/internal/config"
	"github.com/whirlwind/poseidon254/internal/log"
)

var (
	configFile string
	constants  string
	logLevel   string
	rowWidth   int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file.")
	rootCmd.PersistentFlags().StringVar(&constants, "constants", "", "Reference Poseidon constants file (defaults to $"+poseidon254.ConstantsEnv+").")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn or error.")
	rootCmd.PersistentFlags().IntVar(&rowWidth, "row-width", 0, "Narrow round constant rows to this many entries (0 keeps full rows).")
}

var rootCmd = &cobra.Command{
	Use:           "whirlwind-proofs",
	Short:         "Poseidon hashing and Whirlwind proof generation",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpFunc()(cmd, args)
	},
}

// setup resolves the configuration from file and flags and builds the
// logger and hasher shared by the subcommands.
func setup(cmd *cobra.Command) (config.Config, zerolog.Logger, *poseidon254.Hasher, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, zerolog.Nop(), nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("constants") {
		cfg.Constants = constants
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("row-width") {
		cfg.RowWidth = rowWidth
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, zerolog.Nop(), nil, err
	}

	logger, err := log.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return cfg, zerolog.Nop(), nil, err
	}
	table, err := poseidon254.LoadTable(cfg.Constants)
	if err != nil {
		return cfg, logger, nil, err
	}
	opts := append(cfg.HasherOptions(), poseidon254.WithLogger(log.Module(logger, "poseidon")))
	return cfg, logger, poseidon254.New(table, opts...), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
