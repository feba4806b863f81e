package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leadbrain/internal/batch"
	"leadbrain/internal/campaign"
	"leadbrain/internal/lead"
	"leadbrain/internal/llm"
	"leadbrain/internal/logging"
	"leadbrain/internal/store"
)

var (
	inputPath   string
	concurrency int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline over a batch of lead records",
	Long: `Reads a JSON array of lead records (lead, company, scraped content)
and processes each through the campaign pipeline. Prints per-lead terminal
status and an aggregate summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		var records []lead.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("failed to parse input: %w", err)
		}
		if len(records) == 0 {
			return fmt.Errorf("input contains no lead records")
		}

		client, err := llm.New(cfg.LLM)
		if err != nil {
			return err
		}

		memStore, err := store.NewMemoryStore(cfg.Memory.DatabasePath)
		if err != nil {
			return err
		}
		defer memStore.Close()

		orch := campaign.NewOrchestrator(campaign.OrchestratorConfig{
			Config: cfg,
			LLM:    client,
			Store:  memStore,
		})
		if concurrency <= 0 {
			concurrency = cfg.Execution.Concurrency
		}

		logging.Boot("processing %d leads (concurrency %d, provider %s)",
			len(records), concurrency, cfg.LLM.Provider)

		results, summary := batch.NewRunner(orch, concurrency).Run(cmd.Context(), records)
		printResults(results, summary)

		if summary.Errored > 0 {
			return fmt.Errorf("%d lead(s) ended in error", summary.Errored)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&inputPath, "input", "i", "leads.json", "JSON file with lead records")
	runCmd.Flags().IntVarP(&concurrency, "concurrency", "n", 0, "Concurrent runs (default from config)")
}

func printResults(results []batch.Result, summary batch.Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, res := range results {
		switch {
		case res.Err != nil:
			fmt.Printf("%s  %s (%s): %v\n", red("REJECTED"), res.LeadName, res.LeadID, res.Err)
		case res.Status == campaign.StatusApproved:
			tag := green("APPROVED")
			if res.Fallback {
				tag += yellow(" (fallback)")
			}
			fmt.Printf("%s  %s (%s) score %.1f\n", tag, res.LeadName, res.LeadID, res.Score)
		case res.Status == campaign.StatusManualReview:
			fmt.Printf("%s  %s (%s): %s\n", yellow("MANUAL REVIEW"), res.LeadName, res.LeadID, res.Reason)
		case res.Status == campaign.StatusStalled:
			fmt.Printf("%s  %s (%s): %s\n", yellow("STALLED"), res.LeadName, res.LeadID, res.Reason)
		default:
			fmt.Printf("%s  %s (%s): %s\n", red("ERROR"), res.LeadName, res.LeadID, res.Reason)
		}
	}

	fmt.Printf("\n%d leads: %s approved, %s manual review, %d stalled, %s errored, %d rejected, %d used fallback\n",
		summary.Total,
		green(summary.Approved),
		yellow(summary.ManualReview),
		summary.Stalled,
		red(summary.Errored),
		summary.Rejected,
		summary.FallbackUsed)
}
