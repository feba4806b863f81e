// Command brain drives the campaign generation pipeline: it reads lead
// and company records, runs them through the pipeline, and reports
// per-lead terminal status plus aggregate counts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"leadbrain/internal/config"
	"leadbrain/internal/logging"
)

var (
	cfgPath string
	verbose bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "brain",
	Short: "Campaign generation pipeline for lead outreach",
	Long: `brain turns lead and company research records into scored outreach
campaigns: trait detection, sequence planning, message generation, a
quality gate with bounded retries, and terminal classification.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		return logging.Initialize(logging.Options{
			Dir:        cfg.Logging.Dir,
			DebugMode:  cfg.Logging.DebugMode || verbose,
			Console:    verbose,
			Categories: cfg.Logging.Categories,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "brain.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
