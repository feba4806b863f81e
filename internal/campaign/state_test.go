package campaign

import (
	"testing"
)

func TestNewCampaignState(t *testing.T) {
	st := NewCampaignState(richRecord())
	if st.ExecutionID == "" {
		t.Error("ExecutionID is empty")
	}
	if st.FinalStatus != StatusProcessing {
		t.Errorf("FinalStatus = %q, want processing", st.FinalStatus)
	}
	if st.FinalStatus.Terminal() {
		t.Error("processing must not be terminal")
	}
	if st.GenerationAttempts == nil || st.TraitConfidence == nil {
		t.Error("bookkeeping maps not initialized")
	}
}

func TestSetFinal_AssignedAtMostOnce(t *testing.T) {
	st := NewCampaignState(richRecord())
	if !st.SetFinal(StatusApproved, "first") {
		t.Fatal("first SetFinal returned false")
	}
	if st.SetFinal(StatusError, "second") {
		t.Fatal("second SetFinal should be a no-op")
	}
	if st.FinalStatus != StatusApproved {
		t.Errorf("FinalStatus = %q, want approved", st.FinalStatus)
	}
	if st.StatusReason != "first" {
		t.Errorf("StatusReason = %q, want first", st.StatusReason)
	}
}

func TestDecisionPath_AppendOnly(t *testing.T) {
	st := NewCampaignState(richRecord())
	st.LogDecision("one", "a")
	st.LogDecision("two", "b")
	st.SetFinal(StatusStalled, "done")
	if len(st.DecisionPath) != 3 {
		t.Fatalf("DecisionPath length = %d, want 3", len(st.DecisionPath))
	}
	if st.DecisionPath[0] != "one: a" || st.DecisionPath[1] != "two: b" {
		t.Errorf("DecisionPath order wrong: %v", st.DecisionPath)
	}
}

func TestReplaceMessage_OnePerSlot(t *testing.T) {
	st := NewCampaignState(richRecord())
	st.ReplaceMessage(CampaignMessage{Type: MessageHook, Body: "first", Attempt: 1})
	st.ReplaceMessage(CampaignMessage{Type: MessageProof, Body: "proof", Attempt: 1})
	st.ReplaceMessage(CampaignMessage{Type: MessageHook, Body: "second", Attempt: 2})

	if len(st.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(st.Messages))
	}
	hook := st.Message(MessageHook)
	if hook == nil || hook.Body != "second" || hook.Attempt != 2 {
		t.Errorf("hook = %+v, want latest attempt", hook)
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []FinalStatus{StatusApproved, StatusManualReview, StatusStalled, StatusError} {
		if !s.Terminal() {
			t.Errorf("%q should be terminal", s)
		}
	}
}
