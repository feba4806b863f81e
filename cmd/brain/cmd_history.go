package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"leadbrain/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <lead-id>",
	Short: "Show prior campaign records for a lead from the memory store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		memStore, err := store.NewMemoryStore(cfg.Memory.DatabasePath)
		if err != nil {
			return err
		}
		defer memStore.Close()

		records, err := memStore.History(cmd.Context(), args[0], historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Printf("no history for lead %s\n", args[0])
			return nil
		}

		for _, rec := range records {
			fmt.Printf("%s  %-14s angle=%s score=%.1f traits=[%s]\n",
				rec.CreatedAt.Format("2006-01-02 15:04"),
				rec.FinalStatus, rec.Angle, rec.QualityScore,
				strings.Join(rec.Traits, ", "))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum records to show")
}
