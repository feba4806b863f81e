package campaign

import (
	"context"
	"strings"
	"time"

	"leadbrain/internal/llm"
	"leadbrain/internal/logging"
)

// MessageGenerator produces subject/body text for each sequence slot.
// With an LLM client it writes content-specific copy; without one, or when
// the LLM call fails or times out, it degrades to template copy. Sparse
// company research forces fallback mode: generically personalized copy
// that is still scored on equal terms.
type MessageGenerator struct {
	client  llm.Client // nil means template-only generation
	timeout time.Duration
}

// NewMessageGenerator creates a generator. A nil client is valid and
// selects the deterministic template path.
func NewMessageGenerator(client llm.Client, timeout time.Duration) *MessageGenerator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &MessageGenerator{client: client, timeout: timeout}
}

// Generate produces one message per sequence slot, replacing any prior
// attempt's text. hints carries the quality assessor's rejection reasons
// from the previous cycle as directional input.
func (g *MessageGenerator) Generate(ctx context.Context, st *CampaignState, hints []string) error {
	if !st.FallbackMode && !st.Company.HasResearchSignal() {
		st.FallbackMode = true
		st.FallbackReason = "company record is missing description/services signal"
		st.LogDecision("fallback_mode", st.FallbackReason)
		logging.Gen("fallback mode for lead %s: %s", st.Lead.ID, st.FallbackReason)
	}

	for _, slot := range st.Sequence {
		st.GenerationAttempts[slot]++
		attempt := st.GenerationAttempts[slot]

		subject, body := g.generateSlot(ctx, st, slot, hints)
		msg := CampaignMessage{
			Type:      slot,
			Subject:   subject,
			Body:      body,
			Attempt:   attempt,
			WordCount: len(strings.Fields(body)),
		}
		st.ReplaceMessage(msg)
		logging.GenDebug("generated %s for lead %s (attempt %d, %d words)",
			slot, st.Lead.ID, attempt, msg.WordCount)
	}
	return nil
}

// generateSlot returns the subject and body for one slot. LLM faults are
// recovered here by the template path; they never propagate as errors.
func (g *MessageGenerator) generateSlot(ctx context.Context, st *CampaignState, slot MessageType, hints []string) (string, string) {
	if g.client == nil || st.FallbackMode {
		return templateSubject(st, slot), templateBody(st, slot)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, err := g.client.CompleteWithSystem(callCtx,
		generationSystemPrompt(st.Tone), generationPrompt(st, slot, hints))
	if err != nil {
		// Generation fault: recover with template copy, record the cause.
		st.AddWarning("llm generation failed for %s, using template copy: %v", slot, err)
		logging.GenWarn("llm generation failed for %s slot %s: %v", st.Lead.ID, slot, err)
		return templateSubject(st, slot), templateBody(st, slot)
	}

	subject, body := parseGenerated(raw)
	if subject == "" {
		subject = templateSubject(st, slot)
	}
	if strings.TrimSpace(body) == "" {
		st.AddWarning("llm returned empty body for %s, using template copy", slot)
		return templateSubject(st, slot), templateBody(st, slot)
	}
	return subject, body
}

// parseGenerated splits an LLM response of the form "Subject: ..." plus
// body. A response without the subject line is treated as body-only.
func parseGenerated(raw string) (subject, body string) {
	raw = strings.TrimSpace(raw)
	lines := strings.SplitN(raw, "\n", 2)
	if strings.HasPrefix(strings.ToLower(lines[0]), "subject:") {
		subject = strings.TrimSpace(lines[0][len("subject:"):])
		if len(lines) > 1 {
			body = strings.TrimSpace(lines[1])
		}
		return subject, body
	}
	return "", raw
}
