// Package batch processes collections of leads as independent concurrent
// pipeline runs and aggregates their terminal outcomes. It is pure
// plumbing over the campaign orchestrator.
package batch

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"leadbrain/internal/campaign"
	"leadbrain/internal/lead"
	"leadbrain/internal/logging"
)

// Result is the per-lead outcome reported to the caller.
type Result struct {
	LeadID   string                  `json:"lead_id"`
	LeadName string                  `json:"lead_name"`
	Status   campaign.FinalStatus    `json:"status"`
	Reason   string                  `json:"reason,omitempty"`
	Score    float64                 `json:"score"`
	Fallback bool                    `json:"fallback"`
	State    *campaign.CampaignState `json:"-"`
	Err      error                   `json:"-"` // Validation rejection
}

// Summary aggregates terminal counts across a batch.
type Summary struct {
	Total        int `json:"total"`
	Approved     int `json:"approved"`
	ManualReview int `json:"manual_review"`
	Stalled      int `json:"stalled"`
	Errored      int `json:"errored"`
	Rejected     int `json:"rejected"` // Failed validation, never entered the pipeline
	FallbackUsed int `json:"fallback_used"`
}

// Runner drives concurrent pipeline runs with a bounded degree of
// parallelism. Runs share nothing but the memory store.
type Runner struct {
	orch        *campaign.Orchestrator
	concurrency int64
}

// NewRunner creates a batch runner over an orchestrator.
func NewRunner(orch *campaign.Orchestrator, concurrency int) *Runner {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Runner{orch: orch, concurrency: int64(concurrency)}
}

// Run processes every record and returns per-lead results in input order
// plus the aggregate summary.
func (r *Runner) Run(ctx context.Context, records []lead.Record) ([]Result, Summary) {
	results := make([]Result, len(records))
	sem := semaphore.NewWeighted(r.concurrency)
	var wg sync.WaitGroup

	for i, rec := range records {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled: record the remaining leads as unprocessed.
			results[i] = Result{LeadID: rec.Lead.ID, LeadName: rec.Lead.Name, Err: err}
			continue
		}
		wg.Add(1)
		go func(i int, rec lead.Record) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = r.runOne(ctx, rec)
		}(i, rec)
	}
	wg.Wait()

	summary := Summary{Total: len(records)}
	for _, res := range results {
		switch {
		case res.Err != nil:
			summary.Rejected++
		case res.Status == campaign.StatusApproved:
			summary.Approved++
		case res.Status == campaign.StatusManualReview:
			summary.ManualReview++
		case res.Status == campaign.StatusStalled:
			summary.Stalled++
		case res.Status == campaign.StatusError:
			summary.Errored++
		}
		if res.Fallback {
			summary.FallbackUsed++
		}
	}

	logging.Batch("batch done: total=%d approved=%d manual_review=%d stalled=%d errored=%d rejected=%d fallback=%d",
		summary.Total, summary.Approved, summary.ManualReview, summary.Stalled,
		summary.Errored, summary.Rejected, summary.FallbackUsed)
	return results, summary
}

func (r *Runner) runOne(ctx context.Context, rec lead.Record) Result {
	st, err := r.orch.Run(ctx, rec)
	if err != nil {
		logging.BatchWarn("lead %s rejected: %v", rec.Lead.ID, err)
		return Result{LeadID: rec.Lead.ID, LeadName: rec.Lead.Name, Err: err}
	}
	return Result{
		LeadID:   st.Lead.ID,
		LeadName: st.Lead.Name,
		Status:   st.FinalStatus,
		Reason:   st.StatusReason,
		Score:    st.OverallQualityScore,
		Fallback: st.FallbackMode,
		State:    st,
	}
}
