package campaign

import (
	"strings"
	"testing"

	"leadbrain/internal/lead"
	"leadbrain/internal/store"
)

func plannedState(t *testing.T, rec func() lead.Record) *CampaignState {
	t.Helper()
	st := NewCampaignState(rec())
	if err := NewTraitDetector().Detect(st); err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if err := NewCampaignPlanner().Plan(st); err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	return st
}

func TestPlan_PrimaryTraitSelectsAngle(t *testing.T) {
	st := plannedState(t, richRecord)
	if st.Angle != "engineering_leverage" {
		t.Errorf("Angle = %q, want engineering_leverage", st.Angle)
	}
	if st.Tone != "technical" {
		t.Errorf("Tone = %q, want technical", st.Tone)
	}
	if len(st.Sequence) != 3 {
		t.Fatalf("Sequence length = %d, want 3", len(st.Sequence))
	}
	want := []MessageType{MessageHook, MessageProof, MessageFomo}
	for i, mt := range want {
		if st.Sequence[i] != mt {
			t.Errorf("Sequence[%d] = %q, want %q", i, st.Sequence[i], mt)
		}
	}
	if st.PlanReasoning == "" {
		t.Error("PlanReasoning is empty")
	}
}

func TestPlan_CompanyToneOverridesTable(t *testing.T) {
	rec := richRecord()
	rec.Company.Tone = "Playful"
	st := NewCampaignState(rec)
	if err := NewTraitDetector().Detect(st); err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if err := NewCampaignPlanner().Plan(st); err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if st.Tone != "playful" {
		t.Errorf("Tone = %q, want company tone to win", st.Tone)
	}
}

func TestPlan_NoTraitDegradesToDefaultAngle(t *testing.T) {
	rec := blankRecord()
	rec.Company.Description = "A neighborhood clinic." // signal, but no primary trait
	st := NewCampaignState(rec)
	if err := NewTraitDetector().Detect(st); err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if err := NewCampaignPlanner().Plan(st); err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if st.Angle != "general_value_proposition" {
		t.Errorf("Angle = %q, want default", st.Angle)
	}
	if len(st.Sequence) != 3 {
		t.Errorf("Sequence length = %d, want 3", len(st.Sequence))
	}
}

func TestPlan_BlankRecordYieldsNoSequence(t *testing.T) {
	st := plannedState(t, blankRecord)
	if len(st.Sequence) != 0 {
		t.Errorf("Sequence = %v, want none for blank record", st.Sequence)
	}
	if st.Angle != "" {
		t.Errorf("Angle = %q, want empty", st.Angle)
	}
	if st.PlanReasoning == "" {
		t.Error("expected reasoning explaining the unresolvable plan")
	}
}

func TestPlan_RotatesAwayFromPreviousAngle(t *testing.T) {
	st := NewCampaignState(richRecord())
	st.MemoryContext = &store.MemoryRecord{
		LeadID: st.Lead.ID,
		Angle:  "engineering_leverage",
	}
	if err := NewTraitDetector().Detect(st); err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if err := NewCampaignPlanner().Plan(st); err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if st.Angle == "engineering_leverage" {
		t.Errorf("Angle = %q, want a rotated angle", st.Angle)
	}
	foundDecision := false
	for _, d := range st.DecisionPath {
		if strings.Contains(d, "angle_rotation") {
			foundDecision = true
		}
	}
	if !foundDecision {
		t.Error("expected an angle_rotation decision entry")
	}
}
