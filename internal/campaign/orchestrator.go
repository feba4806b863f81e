package campaign

import (
	"context"
	"fmt"
	"strings"

	"leadbrain/internal/config"
	"leadbrain/internal/lead"
	"leadbrain/internal/llm"
	"leadbrain/internal/logging"
)

// Orchestrator runs the campaign pipeline for one lead at a time:
// Trait -> Plan -> Generate -> Assess -> (bounded retry back to Generate)
// -> Memory. It enforces the retry bound and assigns the terminal status.
type Orchestrator struct {
	detector  *TraitDetector
	planner   *CampaignPlanner
	generator *MessageGenerator
	assessor  *QualityAssessor
	memory    *MemoryManager

	passThreshold float64
	maxRetries    int
}

// OrchestratorConfig wires the orchestrator's dependencies. Every client
// handle arrives here explicitly so tests can substitute fakes.
type OrchestratorConfig struct {
	Config config.Config
	LLM    llm.Client   // nil selects template-only generation
	Store  ContextStore // nil disables memory
}

// NewOrchestrator creates an orchestrator and its pipeline components.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	q := cfg.Config.Quality
	return &Orchestrator{
		detector:      NewTraitDetector(),
		planner:       NewCampaignPlanner(),
		generator:     NewMessageGenerator(cfg.LLM, cfg.Config.LLMTimeout()),
		assessor:      NewQualityAssessor(q.MinWords, q.MaxWords),
		memory:        NewMemoryManager(cfg.Store, cfg.Config.MemoryCacheTTL(), cfg.Config.MemoryTimeout()),
		passThreshold: q.PassThreshold,
		maxRetries:    q.MaxRetries,
	}
}

// Run executes one pipeline run. A validation failure rejects the lead
// before any state is created; every other fault terminates the state
// machine with one of the four terminal statuses. The returned state is
// terminal and conceptually immutable.
func (o *Orchestrator) Run(ctx context.Context, rec lead.Record) (*CampaignState, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	st := NewCampaignState(rec)
	logging.Campaign("run %s started for lead %s (%s at %s)",
		st.ExecutionID, st.Lead.ID, st.Lead.Name, st.Lead.Company)

	o.runMemoryLoad(ctx, st)

	if err := o.runNode(st, "trait_detector", func() error { return o.detector.Detect(st) }); err != nil {
		return o.finish(ctx, st), nil
	}
	if err := o.runNode(st, "campaign_planner", func() error { return o.planner.Plan(st) }); err != nil {
		return o.finish(ctx, st), nil
	}

	// Rule 1: no usable trait and no resolvable sequence.
	if len(st.Sequence) == 0 {
		st.SetFinal(StatusStalled, fmt.Sprintf("no sequence resolvable: %s", st.PlanReasoning))
		return o.finish(ctx, st), nil
	}

	var hints []string
	for {
		genErr := o.runNode(st, "message_generator", func() error {
			return o.generator.Generate(ctx, st, hints)
		})
		if genErr != nil {
			return o.finish(ctx, st), nil
		}
		if err := o.runNode(st, "quality_assessor", func() error { return o.assessor.Assess(st) }); err != nil {
			return o.finish(ctx, st), nil
		}

		// Rule 3: quality gate passed.
		if st.OverallQualityScore >= o.passThreshold {
			st.SetFinal(StatusApproved, fmt.Sprintf("quality score %.1f meets threshold %.1f",
				st.OverallQualityScore, o.passThreshold))
			prepareDelivery(st)
			return o.finish(ctx, st), nil
		}

		// Rule 4: below threshold with retries remaining.
		if st.RetryCount < o.maxRetries {
			st.RetryCount++
			hints = st.QualityIssues()
			st.LogDecision("retry", fmt.Sprintf("score %.1f below threshold %.1f (retry %d of %d): %s",
				st.OverallQualityScore, o.passThreshold, st.RetryCount, o.maxRetries,
				strings.Join(hints, "; ")))
			logging.Campaign("run %s retry %d/%d (score %.1f)",
				st.ExecutionID, st.RetryCount, o.maxRetries, st.OverallQualityScore)
			continue
		}

		// Rule 5: retries exhausted.
		st.SetFinal(StatusManualReview, fmt.Sprintf("quality score %.1f still below threshold %.1f after %d retries",
			st.OverallQualityScore, o.passThreshold, st.RetryCount))
		return o.finish(ctx, st), nil
	}
}

// runMemoryLoad reads historical context at entry. Never fatal.
func (o *Orchestrator) runMemoryLoad(ctx context.Context, st *CampaignState) {
	st.VisitNode("memory_load")
	o.memory.LoadContext(ctx, st)
}

// runNode executes one pipeline node, logging the visit regardless of
// outcome so partial diagnostics survive. Any returned error or panic is a
// SystemFault: it is appended to the error list and forces the ERROR
// terminal state (rule 2). Quality and generation faults are handled
// inside the components and never surface here.
func (o *Orchestrator) runNode(st *CampaignState, node string, fn func() error) (err error) {
	st.VisitNode(node)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			st.AddError(node, "system_fault", err.Error(),
				fmt.Sprintf("execution %s, lead %s", st.ExecutionID, st.Lead.ID))
			st.SetFinal(StatusError, fmt.Sprintf("%s failed: %v", node, err))
			logging.CampaignError("run %s node %s failed: %v", st.ExecutionID, node, err)
		}
	}()
	return fn()
}

// finish persists the memory summary and hands the terminal state back.
func (o *Orchestrator) finish(ctx context.Context, st *CampaignState) *CampaignState {
	st.VisitNode("memory_write")
	o.memory.PersistSummary(ctx, st)
	logging.Campaign("run %s finished: status=%s score=%.1f retries=%d",
		st.ExecutionID, st.FinalStatus, st.OverallQualityScore, st.RetryCount)
	return st
}
