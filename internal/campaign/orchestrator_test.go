package campaign

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"leadbrain/internal/config"
	"leadbrain/internal/lead"
	"leadbrain/internal/llm"
)

func newTestOrchestrator(llmClient llm.Client, cs ContextStore) *Orchestrator {
	return NewOrchestrator(OrchestratorConfig{
		Config: config.Default(),
		LLM:    llmClient,
		Store:  cs,
	})
}

func TestRun_RejectsInvalidLeadBeforePipeline(t *testing.T) {
	o := newTestOrchestrator(nil, newFakeStore())
	st, err := o.Run(context.Background(), lead.Record{})
	require.Error(t, err)
	require.ErrorIs(t, err, lead.ErrValidation)
	require.Nil(t, st, "no CampaignState may be created for an invalid lead")
}

// Scenario A: rich input reaches APPROVED without the retry loop.
func TestRun_RichInputApprovedFirstAttempt(t *testing.T) {
	fs := newFakeStore()
	o := newTestOrchestrator(nil, fs)
	st, err := o.Run(context.Background(), richRecord())
	require.NoError(t, err)

	require.Equal(t, StatusApproved, st.FinalStatus)
	require.False(t, st.FallbackMode)
	require.Zero(t, st.RetryCount)
	require.GreaterOrEqual(t, st.OverallQualityScore, 80.0)
	for _, slot := range st.Sequence {
		require.Equal(t, 1, st.GenerationAttempts[slot], "slot %s", slot)
	}

	// Approved runs get delivery handoff fields.
	require.NotEmpty(t, st.QueueID)
	require.Equal(t, "email", st.DeliveryMethod)
	require.Len(t, st.DeliverySchedule, 3)

	// And a distilled summary lands in the memory store.
	require.Len(t, fs.records["lead-rich"], 1)
	require.Equal(t, "approved", fs.records["lead-rich"][0].FinalStatus)
}

// Scenario B: sparse input triggers fallback mode; messages still satisfy
// the word-count bound used in scoring.
func TestRun_SparseInputFallbackMode(t *testing.T) {
	o := newTestOrchestrator(nil, newFakeStore())
	st, err := o.Run(context.Background(), sparseRecord())
	require.NoError(t, err)

	require.True(t, st.FallbackMode)
	require.NotEmpty(t, st.FallbackReason, "fallback_mode implies a non-empty reason")
	for _, msg := range st.Messages {
		require.GreaterOrEqual(t, msg.WordCount, 30, "slot %s", msg.Type)
	}
	// Fallback output is scored on equal terms; template copy passes.
	require.Equal(t, StatusApproved, st.FinalStatus)
}

// Scenario C: a generator stuck below threshold performs exactly
// max_retries retries and lands in MANUAL_REVIEW.
func TestRun_BoundedRetriesThenManualReview(t *testing.T) {
	// Missing company name, boilerplate opener and no markers keep the
	// score well under the threshold on every attempt.
	bad := &stubLLM{response: "Subject: hello\n\nHi Sarah, I wanted to reach out because " +
		strings.Repeat("the figures ", 20) + "speak for themselves."}
	o := newTestOrchestrator(bad, newFakeStore())
	st, err := o.Run(context.Background(), richRecord())
	require.NoError(t, err)

	require.Equal(t, StatusManualReview, st.FinalStatus)
	require.Equal(t, 2, st.RetryCount)
	require.LessOrEqual(t, st.RetryCount, 2, "retry bound must hold")
	for _, slot := range st.Sequence {
		require.Equal(t, 3, st.GenerationAttempts[slot], "1 initial + 2 retries for %s", slot)
	}
	require.Less(t, st.OverallQualityScore, 80.0)

	// Each retry decision names the rejection reasons.
	retries := 0
	for _, d := range st.DecisionPath {
		if strings.HasPrefix(d, "retry:") {
			retries++
		}
	}
	require.Equal(t, 2, retries)
}

// Scenario D: no traits and no resolvable sequence terminates in STALLED.
func TestRun_BlankRecordStalls(t *testing.T) {
	o := newTestOrchestrator(nil, newFakeStore())
	st, err := o.Run(context.Background(), blankRecord())
	require.NoError(t, err)

	require.Equal(t, StatusStalled, st.FinalStatus)
	require.Empty(t, st.Messages)
	found := false
	for _, d := range st.DecisionPath {
		if strings.Contains(d, "no sequence resolvable") {
			found = true
		}
	}
	require.True(t, found, "decision path must name the stall cause: %v", st.DecisionPath)
}

// Scenario E: an unexpected panic in a node terminates in ERROR with one
// error-list entry naming the node, and no later node executes.
func TestRun_NodePanicBecomesError(t *testing.T) {
	o := newTestOrchestrator(nil, newFakeStore())
	o.generator = nil // message_generator node will panic

	st, err := o.Run(context.Background(), richRecord())
	require.NoError(t, err)

	require.Equal(t, StatusError, st.FinalStatus)
	require.Len(t, st.Errors, 1)
	require.Equal(t, "message_generator", st.Errors[0].Node)
	require.Equal(t, "system_fault", st.Errors[0].Kind)

	for _, v := range st.NodeVisits {
		require.NotEqual(t, "quality_assessor", v.Node, "no node may run after a fault")
	}
}

func TestRun_TerminationIsIdempotent(t *testing.T) {
	o := newTestOrchestrator(nil, newFakeStore())
	st, err := o.Run(context.Background(), richRecord())
	require.NoError(t, err)

	require.True(t, st.FinalStatus.Terminal())
	prior := st.FinalStatus
	require.False(t, st.SetFinal(StatusError, "late transition"))
	require.Equal(t, prior, st.FinalStatus)
}

func TestRun_NodeVisitsAreOrdered(t *testing.T) {
	o := newTestOrchestrator(nil, newFakeStore())
	st, err := o.Run(context.Background(), richRecord())
	require.NoError(t, err)

	var names []string
	for _, v := range st.NodeVisits {
		names = append(names, v.Node)
	}
	require.Equal(t, []string{
		"memory_load", "trait_detector", "campaign_planner",
		"message_generator", "quality_assessor", "memory_write",
	}, names)
	for i := 1; i < len(st.NodeVisits); i++ {
		require.False(t, st.NodeVisits[i].At.Before(st.NodeVisits[i-1].At))
	}
}

// A lead without an email gets the DM fallback rendering.
func TestRun_LinkedInOnlyLeadGetsFlattenedRendering(t *testing.T) {
	rec := richRecord()
	rec.Lead.Email = ""
	rec.Lead.LinkedInURL = "https://linkedin.example/in/sarahchen"
	o := newTestOrchestrator(nil, newFakeStore())
	st, err := o.Run(context.Background(), rec)
	require.NoError(t, err)

	require.Equal(t, StatusApproved, st.FinalStatus)
	require.Equal(t, "linkedin_dm", st.DeliveryMethod)
	require.NotEmpty(t, st.FallbackChannel)
	require.NotContains(t, st.FallbackChannel, "\n", "DM rendering must be a single flattened message")
}
