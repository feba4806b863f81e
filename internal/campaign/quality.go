package campaign

import (
	"fmt"
	"strings"

	"leadbrain/internal/logging"
)

// Scoring rubric constants. Each message starts from a 100-point baseline.
const (
	penaltyMissingName    = 25
	penaltyMissingCompany = 25
	penaltyWordCount      = 15
	penaltyBoilerplate    = 10
	penaltySalesy         = 10
	penaltyNoMarker       = 10
	bonusMarker           = 5
)

// boilerplatePhrases are known template cliches, penalized per occurrence.
var boilerplatePhrases = []string{
	"i hope this email finds you well",
	"to whom it may concern",
	"i wanted to reach out",
	"touching base",
	"quick question",
	"i know you're busy",
	"per my last email",
}

// salesyPhrases are explicit pressure language, penalized per occurrence.
var salesyPhrases = []string{
	"buy now",
	"limited time",
	"act now",
	"don't miss out",
	"once in a lifetime",
	"special offer",
	"money back",
	"100% guaranteed",
}

// strategicMarkers are helpful-tone signals; at least one is expected.
var strategicMarkers = []string{
	"noticed",
	"thought",
	"worth",
	"happy to",
	"no pressure",
	"curious",
	"if it helps",
	"makes sense",
}

// QualityAssessor scores generated messages against the rubric and
// decides pass/fail against the configured threshold.
type QualityAssessor struct {
	minWords int
	maxWords int
}

// NewQualityAssessor creates an assessor with the acceptable word band.
func NewQualityAssessor(minWords, maxWords int) *QualityAssessor {
	if minWords <= 0 {
		minWords = 30
	}
	if maxWords <= 0 {
		maxWords = 120
	}
	return &QualityAssessor{minWords: minWords, maxWords: maxWords}
}

// Assess scores every message in the sequence and sets the aggregate
// overall score on the state. A missing required slot forces the aggregate
// to 0. Assessment is a pure function of the message text and lead
// identity: re-running it on unchanged messages yields identical scores.
func (q *QualityAssessor) Assess(st *CampaignState) error {
	if len(st.Sequence) == 0 {
		st.OverallQualityScore = 0
		return nil
	}

	total := 0.0
	for _, slot := range st.Sequence {
		msg := st.Message(slot)
		if msg == nil {
			st.OverallQualityScore = 0
			st.AddWarning("required slot %s has no generated message", slot)
			logging.Quality("missing slot %s for lead %s, aggregate forced to 0", slot, st.Lead.ID)
			return nil
		}
		score, issues, personalization, markers := q.scoreMessage(st, msg)
		msg.QualityScore = score
		msg.QualityIssues = issues
		msg.Personalization = personalization
		msg.StrategicMarkers = markers
		total += score
	}

	st.OverallQualityScore = total / float64(len(st.Sequence))
	logging.Quality("lead %s scored %.1f across %d messages",
		st.Lead.ID, st.OverallQualityScore, len(st.Sequence))
	return nil
}

// scoreMessage applies the rubric to one message.
func (q *QualityAssessor) scoreMessage(st *CampaignState, msg *CampaignMessage) (float64, []string, []string, []string) {
	body := strings.ToLower(msg.Body)
	score := 100.0
	var issues, personalization, markers []string

	first := strings.ToLower(st.Lead.FirstName())
	if first != "" && strings.Contains(body, first) {
		personalization = append(personalization, "lead_name")
	} else {
		score -= penaltyMissingName
		issues = append(issues, "body does not address the lead by first name")
	}
	company := strings.ToLower(strings.TrimSpace(st.Lead.Company))
	if company != "" && strings.Contains(body, company) {
		personalization = append(personalization, "company_name")
	} else {
		score -= penaltyMissingCompany
		issues = append(issues, "body does not mention the company by name")
	}

	if msg.WordCount < q.minWords {
		score -= penaltyWordCount
		issues = append(issues, fmt.Sprintf("body is too short (%d words, minimum %d)", msg.WordCount, q.minWords))
	} else if msg.WordCount > q.maxWords {
		score -= penaltyWordCount
		issues = append(issues, fmt.Sprintf("body is too long (%d words, maximum %d)", msg.WordCount, q.maxWords))
	}

	text := strings.ToLower(msg.Subject) + " " + body
	for _, phrase := range boilerplatePhrases {
		if n := strings.Count(text, phrase); n > 0 {
			score -= float64(n * penaltyBoilerplate)
			issues = append(issues, fmt.Sprintf("contains boilerplate phrase %q", phrase))
		}
	}
	for _, phrase := range salesyPhrases {
		if n := strings.Count(text, phrase); n > 0 {
			score -= float64(n * penaltySalesy)
			issues = append(issues, fmt.Sprintf("contains pressure language %q", phrase))
		}
	}

	for _, marker := range strategicMarkers {
		if strings.Contains(body, marker) {
			markers = append(markers, marker)
		}
	}
	if len(markers) == 0 {
		score -= penaltyNoMarker
		issues = append(issues, "no helpful/strategic tone markers present")
	} else {
		score += bonusMarker
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, issues, personalization, markers
}
