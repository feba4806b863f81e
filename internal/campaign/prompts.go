package campaign

import (
	"fmt"
	"strings"
)

// angleTopics phrases each messaging angle for use in prompts and
// template copy.
var angleTopics = map[string]string{
	"competitive_edge":          "staying ahead of larger competitors",
	"engineering_leverage":      "getting more leverage out of your engineering hours",
	"pipeline_growth":           "keeping the pipeline full without adding headcount",
	"founder_to_founder":        "growing without losing the founder touch",
	"product_led_growth":        "turning product usage into pipeline",
	"client_results":            "turning client wins into repeatable growth",
	"conversion_lift":           "lifting conversion without more ad spend",
	"local_presence":            "standing out with nearby customers",
	"general_value_proposition": "freeing up the hours that go into manual outreach",
}

// slotIntents describes what each sequence slot is supposed to do.
var slotIntents = map[MessageType]string{
	MessageHook:  "open the conversation with a specific, relevant observation",
	MessageProof: "back the opening up with concrete evidence or a short case story",
	MessageFomo:  "close the loop with gentle urgency and a clear, low-pressure ask",
}

// generationSystemPrompt frames the copywriting task for the LLM.
func generationSystemPrompt(tone string) string {
	return fmt.Sprintf(`You write short B2B outreach emails in a %s tone.
Rules:
- Address the recipient by first name and mention their company by name in the body.
- Keep the body between 40 and 100 words.
- Be helpful and specific; never use pressure tactics or template cliches.
- Respond with exactly one line "Subject: ..." followed by a blank line and the body.`, tone)
}

// generationPrompt builds the per-slot user prompt, including any
// rejection reasons from a prior quality cycle as directional hints.
func generationPrompt(st *CampaignState, slot MessageType, hints []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write the %q message of a three-part outreach sequence.\n", slot)
	fmt.Fprintf(&b, "Goal of this message: %s.\n\n", slotIntents[slot])
	fmt.Fprintf(&b, "Recipient: %s, %s at %s.\n", st.Lead.Name, st.Lead.Title, st.Lead.Company)
	if desc := strings.TrimSpace(st.Company.Description); desc != "" {
		fmt.Fprintf(&b, "Company research: %s\n", desc)
	}
	if len(st.Company.Services) > 0 {
		fmt.Fprintf(&b, "Known services: %s\n", strings.Join(st.Company.Services, ", "))
	}
	if insights := strings.TrimSpace(st.Company.WebsiteInsights); insights != "" {
		fmt.Fprintf(&b, "Website insights: %s\n", insights)
	}
	fmt.Fprintf(&b, "\nMessaging angle: %s (%s).\n", st.Angle, angleTopics[st.Angle])
	if len(st.HistoricalInsights) > 0 {
		fmt.Fprintf(&b, "Prior interactions: %s\n", strings.Join(st.HistoricalInsights, "; "))
	}
	if len(hints) > 0 {
		fmt.Fprintf(&b, "\nA previous draft was rejected. Address these issues:\n- %s\n",
			strings.Join(hints, "\n- "))
	}
	return b.String()
}

// templateSubject renders the deterministic subject line for a slot.
func templateSubject(st *CampaignState, slot MessageType) string {
	switch slot {
	case MessageProof:
		return fmt.Sprintf("How teams like %s approach this", st.Lead.Company)
	case MessageFomo:
		return fmt.Sprintf("Closing the loop, %s", st.Lead.FirstName())
	default:
		return fmt.Sprintf("A thought for %s", st.Lead.Company)
	}
}

// templateBody renders the deterministic body for a slot. In fallback mode
// the copy stays generically personalized (name and company only); with
// research signal it anchors on the company's own description or services.
func templateBody(st *CampaignState, slot MessageType) string {
	first := st.Lead.FirstName()
	company := st.Lead.Company
	topic := angleTopics[st.Angle]
	if topic == "" {
		topic = angleTopics["general_value_proposition"]
	}

	if st.FallbackMode {
		switch slot {
		case MessageProof:
			return fmt.Sprintf("Hi %s,\n\nFollowing up on my last note. We recently worked with a team in %s's space on %s, and within a quarter they saw real movement without changing how they operate. I wrote the approach up as a short case study. Worth a look if the timing is right, happy to share it over.\n\nBest,\nAlex", first, company, topic)
		case MessageFomo:
			return fmt.Sprintf("Hi %s,\n\nI'll keep this one short. A few of %s's peers have started rethinking %s this quarter, and the earliest movers tend to set the pace. If it's not a priority right now, no pressure at all. If it is, I'm curious where you'd want to start.\n\nBest,\nAlex", first, company, topic)
		default:
			return fmt.Sprintf("Hi %s,\n\nI came across %s and thought it was worth a quick note. We help teams like yours with %s, so the hours you win back go into conversations that actually convert. If that's a problem worth solving this quarter, happy to share a couple of ideas.\n\nBest,\nAlex", first, company, topic)
		}
	}

	focus := researchFocus(st)
	switch slot {
	case MessageProof:
		return fmt.Sprintf("Hi %s,\n\nFollowing up on my last note. We recently worked with a team in %s's space facing the same questions around %s, and within a quarter they saw meaningful movement without changing their stack. I wrote the approach up as a short case study. Worth a look if the timing is right, happy to share it over.\n\nBest,\nAlex", first, company, topic)
	case MessageFomo:
		return fmt.Sprintf("Hi %s,\n\nI'll keep this one short. A few of %s's peers have started rethinking %s this quarter, and the earliest movers tend to set the pace. If it's not a priority right now, no pressure at all. If it is, I'm curious where you'd want to start.\n\nBest,\nAlex", first, company, topic)
	default:
		return fmt.Sprintf("Hi %s,\n\nI noticed %s's work around %s and thought a couple of ideas on %s might be useful. Teams in a similar position usually find one or two easy wins here. Happy to send over what we've seen work, no strings attached.\n\nBest,\nAlex", first, company, focus, topic)
	}
}

// researchFocus extracts a short content-specific anchor from the company
// record: the first sentence of the description, or the first service.
func researchFocus(st *CampaignState) string {
	desc := strings.TrimSpace(st.Company.Description)
	if desc != "" {
		if idx := strings.IndexAny(desc, ".!?\n"); idx > 0 {
			desc = desc[:idx]
		}
		return strings.ToLower(strings.TrimSpace(desc))
	}
	if len(st.Company.Services) > 0 {
		return strings.ToLower(strings.TrimSpace(st.Company.Services[0]))
	}
	return "what you're building"
}
