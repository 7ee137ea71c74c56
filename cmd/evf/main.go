// Package main provides the evf command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/varscope/evf/internal/filter"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "evf",
		Short:   "Machine learning based variant filtering for single-sample VCFs",
		Long: `evf flags likely false-positive calls in single-sample VCFs using
gradient-boosted tree classifiers trained separately for SNPs and indels.

Use "evf train" to build models from true-positive/false-positive call sets
produced by VCFeval-style benchmarking, and "evf apply" to rewrite the FILTER
column of a VCF using trained models.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
		},
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log progress output")

	cmd.AddCommand(newApplyCmd(&verbose))
	cmd.AddCommand(newTrainCmd(&verbose))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads ~/.evf.yaml if present and sets defaults.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".evf")
		viper.SetConfigType("yaml")
	}
	viper.SetDefault("train.njobs", filter.DefaultJobs)

	// A missing config file is fine; defaults apply.
	_ = viper.ReadInConfig()
}

// newLogger builds the progress logger. The --verbose flag or a
// "verbose: true" config entry enables it; otherwise all component
// logging stays a no-op.
func newLogger(verbose bool) *zap.Logger {
	if !verbose && !viper.GetBool("verbose") {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
