package campaign

import (
	"fmt"
	"sort"
	"strings"

	"leadbrain/internal/logging"
)

// Trait priority classes. Role traits outrank company traits when breaking
// confidence ties for the primary slot.
const (
	priorityRole    = 1
	priorityCompany = 2
)

// minPrimaryConfidence is the floor for a trait to compete for primary.
// Lower-confidence traits stay in the list for downstream context.
const minPrimaryConfidence = 60

// traitSignature is one entry in the fixed trait catalogue.
type traitSignature struct {
	name     string
	priority int
	base     float64  // Confidence on first keyword hit
	keywords []string // Matched against the signature's source text
}

// roleCatalogue matches against the lead's title.
var roleCatalogue = []traitSignature{
	{"founder_led", priorityRole, 80, []string{"founder", "co-founder", "owner"}},
	{"technical_leader", priorityRole, 75, []string{"cto", "engineering", "technical", "architect", "technology"}},
	{"enterprise_decision_maker", priorityRole, 70, []string{"ceo", "chief", "president", "vp", "vice president", "director", "head of"}},
	{"growth_operator", priorityRole, 65, []string{"growth", "marketing", "sales", "revenue", "demand"}},
}

// companyCatalogue matches against company description, services, website
// insights and scraped content.
var companyCatalogue = []traitSignature{
	{"saas_product", priorityCompany, 65, []string{"saas", "software", "platform", "api", "cloud"}},
	{"agency_services", priorityCompany, 60, []string{"agency", "consulting", "consultancy", "studio", "clients"}},
	{"ecommerce_retail", priorityCompany, 60, []string{"ecommerce", "e-commerce", "shop", "store", "retail"}},
	{"local_service", priorityCompany, 55, []string{"local", "clinic", "restaurant", "salon", "dental"}},
}

// TraitDetector infers categorical traits from lead and company signals.
type TraitDetector struct{}

// NewTraitDetector returns a detector over the fixed catalogue.
func NewTraitDetector() *TraitDetector {
	return &TraitDetector{}
}

// Detect fills the state's trait fields. Absence of any trait is not an
// error; it is recorded as a warning and planning degrades (see planner).
func (d *TraitDetector) Detect(st *CampaignState) error {
	titleText := strings.ToLower(st.Lead.Title)
	companyText := strings.ToLower(strings.Join([]string{
		st.Company.Description,
		strings.Join(st.Company.Services, " "),
		st.Company.WebsiteInsights,
		st.Scraped.Homepage,
		st.Scraped.About,
	}, " "))

	d.match(st, roleCatalogue, titleText, "title")
	d.match(st, companyCatalogue, companyText, "company research")

	st.PrimaryTrait = d.pickPrimary(st)

	if len(st.Traits) == 0 {
		st.AddWarning("trait detection found no matching signals for %s", st.Lead.Name)
		logging.Trait("no traits detected for lead %s", st.Lead.ID)
		return nil
	}

	logging.Trait("detected %d traits for lead %s, primary=%s (%.0f)",
		len(st.Traits), st.Lead.ID, st.PrimaryTrait, st.TraitConfidence[st.PrimaryTrait])
	return nil
}

func (d *TraitDetector) match(st *CampaignState, catalogue []traitSignature, text, source string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	for _, sig := range catalogue {
		var hits []string
		for _, kw := range sig.keywords {
			if strings.Contains(text, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) == 0 {
			continue
		}
		// Extra hits beyond the first raise confidence, capped at 95.
		conf := sig.base + float64(len(hits)-1)*5
		if conf > 95 {
			conf = 95
		}
		st.Traits = append(st.Traits, sig.name)
		st.TraitConfidence[sig.name] = conf
		st.TraitReasoning[sig.name] = fmt.Sprintf("matched %q in %s", strings.Join(hits, ", "), source)
		logging.TraitDebug("trait %s confidence %.0f (%s)", sig.name, conf, st.TraitReasoning[sig.name])
	}
}

// pickPrimary selects the highest-confidence trait at or above the floor.
// Ties break by priority class (role over company), then catalogue order.
func (d *TraitDetector) pickPrimary(st *CampaignState) string {
	type candidate struct {
		name     string
		conf     float64
		priority int
		order    int
	}
	var candidates []candidate
	order := 0
	for _, catalogue := range [][]traitSignature{roleCatalogue, companyCatalogue} {
		for _, sig := range catalogue {
			if conf, ok := st.TraitConfidence[sig.name]; ok && conf >= minPrimaryConfidence {
				candidates = append(candidates, candidate{sig.name, conf, sig.priority, order})
			}
			order++
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].conf != candidates[j].conf {
			return candidates[i].conf > candidates[j].conf
		}
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority < candidates[j].priority
		}
		return candidates[i].order < candidates[j].order
	})
	return candidates[0].name
}
