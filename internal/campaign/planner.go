package campaign

import (
	"fmt"
	"strings"

	"leadbrain/internal/logging"
)

// planningThreshold is the primary-trait confidence below which the
// planner falls back to the default angle.
const planningThreshold = 60

const (
	defaultAngle = "general_value_proposition"
	defaultTone  = "professional"
)

// anglePlan pairs a messaging angle with its tone.
type anglePlan struct {
	Angle string
	Tone  string
}

// angleTable maps a primary trait to its messaging angle and tone.
var angleTable = map[string]anglePlan{
	"enterprise_decision_maker": {"competitive_edge", "executive"},
	"technical_leader":          {"engineering_leverage", "technical"},
	"growth_operator":           {"pipeline_growth", "energetic"},
	"founder_led":               {"founder_to_founder", "candid"},
	"saas_product":              {"product_led_growth", "confident"},
	"agency_services":           {"client_results", "collaborative"},
	"ecommerce_retail":          {"conversion_lift", "punchy"},
	"local_service":             {"local_presence", "friendly"},
}

// CampaignPlanner turns detected traits into a messaging sequence, angle
// and tone.
type CampaignPlanner struct{}

// NewCampaignPlanner returns a planner over the fixed angle table.
func NewCampaignPlanner() *CampaignPlanner {
	return &CampaignPlanner{}
}

// Plan fills the state's plan fields. When the lead data is so sparse that
// no angle can be resolved at all, the sequence is left empty; that is the
// precondition for the STALLED terminal state.
func (p *CampaignPlanner) Plan(st *CampaignState) error {
	plan, reasoning := p.resolveAngle(st)
	if plan.Angle == "" {
		st.PlanReasoning = reasoning
		st.AddWarning("planner could not resolve any angle: %s", reasoning)
		logging.Planner("no sequence resolvable for lead %s", st.Lead.ID)
		return nil
	}

	// Avoid repeating the angle a previous campaign already used for this
	// lead, when the memory context records one.
	if st.MemoryContext != nil && st.MemoryContext.Angle == plan.Angle {
		if alt, ok := p.alternateAngle(st, plan.Angle); ok {
			st.LogDecision("angle_rotation",
				fmt.Sprintf("previous campaign used %q; switching to %q", plan.Angle, alt.Angle))
			plan = alt
			reasoning += "; rotated away from previously used angle"
		}
	}

	st.Sequence = append([]MessageType(nil), DefaultSequence...)
	st.Angle = plan.Angle
	st.Tone = plan.Tone
	if tone := strings.TrimSpace(st.Company.Tone); tone != "" {
		// A researched company tone overrides the table tone.
		st.Tone = strings.ToLower(tone)
	}
	st.PlanReasoning = reasoning

	logging.Planner("planned campaign for lead %s: angle=%s tone=%s sequence=%v",
		st.Lead.ID, st.Angle, st.Tone, st.Sequence)
	return nil
}

// resolveAngle picks the angle for the primary trait, degrading to the
// default when no trait is usable. An empty result means no sequence.
func (p *CampaignPlanner) resolveAngle(st *CampaignState) (anglePlan, string) {
	if st.PrimaryTrait != "" && st.TraitConfidence[st.PrimaryTrait] >= planningThreshold {
		if plan, ok := angleTable[st.PrimaryTrait]; ok {
			return plan, fmt.Sprintf("primary trait %s (confidence %.0f) selects angle %s",
				st.PrimaryTrait, st.TraitConfidence[st.PrimaryTrait], plan.Angle)
		}
	}

	// Degraded path: no usable primary trait. The default angle still needs
	// some signal to anchor on; a completely blank record cannot be planned.
	if len(st.Traits) == 0 && !st.Company.HasResearchSignal() &&
		strings.TrimSpace(st.Company.Tone) == "" &&
		strings.TrimSpace(st.Scraped.Homepage) == "" && strings.TrimSpace(st.Scraped.About) == "" {
		return anglePlan{}, "no traits detected and no company research to anchor a default angle"
	}

	return anglePlan{defaultAngle, defaultTone},
		"no usable primary trait; selecting default general value proposition angle"
}

// alternateAngle finds a different angle for rotation: the next detected
// trait's angle, or the default when none fits.
func (p *CampaignPlanner) alternateAngle(st *CampaignState, used string) (anglePlan, bool) {
	for _, trait := range st.Traits {
		if trait == st.PrimaryTrait || st.TraitConfidence[trait] < planningThreshold {
			continue
		}
		if plan, ok := angleTable[trait]; ok && plan.Angle != used {
			return plan, true
		}
	}
	if used != defaultAngle {
		return anglePlan{defaultAngle, defaultTone}, true
	}
	return anglePlan{}, false
}
