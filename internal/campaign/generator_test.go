package campaign

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func generateFor(t *testing.T, st *CampaignState, gen *MessageGenerator, hints []string) {
	t.Helper()
	if err := gen.Generate(context.Background(), st, hints); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
}

func TestGenerate_TemplatePathProducesAllSlots(t *testing.T) {
	st := plannedState(t, richRecord)
	gen := NewMessageGenerator(nil, 0)
	generateFor(t, st, gen, nil)

	if st.FallbackMode {
		t.Error("FallbackMode = true for a rich record")
	}
	if len(st.Messages) != 3 {
		t.Fatalf("len(Messages) = %d, want 3", len(st.Messages))
	}
	for _, slot := range st.Sequence {
		msg := st.Message(slot)
		if msg == nil {
			t.Fatalf("missing message for slot %s", slot)
		}
		if msg.Subject == "" || msg.Body == "" {
			t.Errorf("slot %s has empty subject or body", slot)
		}
		if msg.Attempt != 1 {
			t.Errorf("slot %s attempt = %d, want 1", slot, msg.Attempt)
		}
		if !strings.Contains(msg.Body, "Sarah") {
			t.Errorf("slot %s body lacks first-name personalization", slot)
		}
		if !strings.Contains(msg.Body, "Northwind Labs") {
			t.Errorf("slot %s body lacks company personalization", slot)
		}
	}
}

func TestGenerate_SparseCompanyTriggersFallback(t *testing.T) {
	st := plannedState(t, sparseRecord)
	gen := NewMessageGenerator(nil, 0)
	generateFor(t, st, gen, nil)

	if !st.FallbackMode {
		t.Fatal("FallbackMode = false, want true for sparse company record")
	}
	if st.FallbackReason == "" {
		t.Error("FallbackReason is empty")
	}
	// Fallback copy stays generically personalized.
	for _, slot := range st.Sequence {
		msg := st.Message(slot)
		if !strings.Contains(msg.Body, "Jordan") || !strings.Contains(msg.Body, "Velez Consulting") {
			t.Errorf("slot %s fallback body lacks name/company personalization", slot)
		}
		if msg.WordCount < 30 {
			t.Errorf("slot %s fallback body too short: %d words", slot, msg.WordCount)
		}
	}
}

func TestGenerate_AttemptCountersAccumulate(t *testing.T) {
	st := plannedState(t, richRecord)
	gen := NewMessageGenerator(nil, 0)
	generateFor(t, st, gen, nil)
	generateFor(t, st, gen, []string{"hook: too short"})

	for _, slot := range st.Sequence {
		if got := st.GenerationAttempts[slot]; got != 2 {
			t.Errorf("GenerationAttempts[%s] = %d, want 2", slot, got)
		}
		if msg := st.Message(slot); msg.Attempt != 2 {
			t.Errorf("slot %s message attempt = %d, want latest", slot, msg.Attempt)
		}
	}
	if len(st.Messages) != 3 {
		t.Errorf("len(Messages) = %d, want one message per slot", len(st.Messages))
	}
}

func TestGenerate_LLMFaultFallsBackToTemplate(t *testing.T) {
	st := plannedState(t, richRecord)
	client := &stubLLM{err: fmt.Errorf("upstream timeout")}
	gen := NewMessageGenerator(client, 0)
	generateFor(t, st, gen, nil)

	if client.calls == 0 {
		t.Fatal("LLM client was never called")
	}
	for _, slot := range st.Sequence {
		if msg := st.Message(slot); msg == nil || msg.Body == "" {
			t.Errorf("slot %s has no template fallback body", slot)
		}
	}
	if len(st.Warnings) == 0 {
		t.Error("expected warnings recording the generation fault")
	}
	// A generation fault is not a data-sufficiency fallback.
	if st.FallbackMode {
		t.Error("FallbackMode should not be set by an LLM fault")
	}
}

func TestGenerate_UsesLLMResponse(t *testing.T) {
	st := plannedState(t, richRecord)
	client := &stubLLM{response: "Subject: Hello from the test\n\nHi Sarah, a note about Northwind Labs that is thought out and worth reading, with enough words to make the point clearly and completely for everyone involved in the decision."}
	gen := NewMessageGenerator(client, 0)
	generateFor(t, st, gen, nil)

	hook := st.Message(MessageHook)
	if hook.Subject != "Hello from the test" {
		t.Errorf("Subject = %q, want parsed LLM subject", hook.Subject)
	}
	if !strings.HasPrefix(hook.Body, "Hi Sarah") {
		t.Errorf("Body = %q, want parsed LLM body", hook.Body)
	}
}

func TestParseGenerated(t *testing.T) {
	subject, body := parseGenerated("Subject: A line\n\nThe body text.")
	if subject != "A line" || body != "The body text." {
		t.Errorf("parseGenerated = (%q, %q)", subject, body)
	}
	subject, body = parseGenerated("Just a body with no subject line.")
	if subject != "" || body != "Just a body with no subject line." {
		t.Errorf("parseGenerated body-only = (%q, %q)", subject, body)
	}
}
