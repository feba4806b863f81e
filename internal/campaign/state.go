// Package campaign implements the campaign generation pipeline: given a
// lead and researched company data it infers behavioral traits, plans a
// messaging sequence, generates message text, scores the result, and
// retries or escalates based on quality.
//
// One CampaignState is threaded through every stage of a run. The
// orchestrator owns it for the duration of the run; each component mutates
// only its own designated fields.
package campaign

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"leadbrain/internal/lead"
	"leadbrain/internal/store"
)

// FinalStatus is the externally visible outcome of a pipeline run.
type FinalStatus string

const (
	StatusProcessing   FinalStatus = "processing" // Initial, non-terminal
	StatusApproved     FinalStatus = "approved"
	StatusManualReview FinalStatus = "manual_review"
	StatusStalled      FinalStatus = "stalled"
	StatusError        FinalStatus = "error"
)

// Terminal reports whether the status is one of the four terminal values.
func (s FinalStatus) Terminal() bool {
	switch s {
	case StatusApproved, StatusManualReview, StatusStalled, StatusError:
		return true
	}
	return false
}

// MessageType labels a slot in the campaign sequence.
type MessageType string

const (
	MessageHook  MessageType = "hook"
	MessageProof MessageType = "proof"
	MessageFomo  MessageType = "fomo"
)

// DefaultSequence is the canonical three-message campaign.
var DefaultSequence = []MessageType{MessageHook, MessageProof, MessageFomo}

// CampaignMessage is one generated outreach message.
type CampaignMessage struct {
	Type             MessageType `json:"type"`
	Subject          string      `json:"subject"`
	Body             string      `json:"body"`
	Attempt          int         `json:"attempt"` // Generation attempt that produced this text
	QualityScore     float64     `json:"quality_score"`
	QualityIssues    []string    `json:"quality_issues,omitempty"`
	Personalization  []string    `json:"personalization,omitempty"`
	StrategicMarkers []string    `json:"strategic_markers,omitempty"`
	WordCount        int         `json:"word_count"`
}

// NodeVisit records one node execution for traceability.
type NodeVisit struct {
	Node string    `json:"node"`
	At   time.Time `json:"at"`
}

// NodeError records an unrecoverable fault raised by a node.
type NodeError struct {
	Node    string    `json:"node"`
	Kind    string    `json:"kind"` // generation_fault, system_fault, timeout
	Message string    `json:"message"`
	Context string    `json:"context,omitempty"`
	At      time.Time `json:"at"`
}

// CampaignState is the mutable record threaded through every stage of one
// pipeline run.
type CampaignState struct {
	// Identity / metadata
	ExecutionID string      `json:"execution_id"`
	CreatedAt   time.Time   `json:"created_at"`
	NodeVisits  []NodeVisit `json:"node_visits"`

	// Inputs (write-once by upstream collaborators)
	Lead    lead.Lead           `json:"lead"`
	Company lead.Company        `json:"company"`
	Scraped lead.ScrapedContent `json:"scraped"`

	// Derived: traits
	Traits          []string           `json:"traits,omitempty"`
	TraitConfidence map[string]float64 `json:"trait_confidence,omitempty"` // 0-100
	TraitReasoning  map[string]string  `json:"trait_reasoning,omitempty"`
	PrimaryTrait    string             `json:"primary_trait,omitempty"`

	// Derived: plan
	Sequence      []MessageType `json:"sequence,omitempty"`
	Angle         string        `json:"angle,omitempty"`
	Tone          string        `json:"tone,omitempty"`
	PlanReasoning string        `json:"plan_reasoning,omitempty"`

	// Derived: messages (latest attempt per slot)
	Messages            []CampaignMessage `json:"messages,omitempty"`
	OverallQualityScore float64           `json:"overall_quality_score"`

	// Control bookkeeping
	GenerationAttempts map[MessageType]int `json:"generation_attempts"`
	DecisionPath       []string            `json:"decision_path"`
	RetryCount         int                 `json:"retry_count"`
	FinalStatus        FinalStatus         `json:"final_status"`
	StatusReason       string              `json:"status_reason,omitempty"`

	// Fallback bookkeeping
	FallbackMode   bool   `json:"fallback_mode"`
	FallbackReason string `json:"fallback_reason,omitempty"`

	// Side context
	MemoryContext      *store.MemoryRecord `json:"memory_context,omitempty"`
	HistoricalInsights []string            `json:"historical_insights,omitempty"`
	Errors             []NodeError         `json:"errors,omitempty"`
	Warnings           []string            `json:"warnings,omitempty"`

	// Execution result
	DeliveryMethod   string                    `json:"delivery_method,omitempty"`
	QueueID          string                    `json:"queue_id,omitempty"`
	DeliverySchedule map[MessageType]time.Time `json:"delivery_schedule,omitempty"`
	FallbackChannel  string                    `json:"fallback_channel,omitempty"` // Flattened single-message rendering
}

// NewCampaignState creates the state for one validated lead record.
func NewCampaignState(rec lead.Record) *CampaignState {
	return &CampaignState{
		ExecutionID:        uuid.NewString(),
		CreatedAt:          time.Now().UTC(),
		Lead:               rec.Lead,
		Company:            rec.Company,
		Scraped:            rec.Scraped,
		TraitConfidence:    make(map[string]float64),
		TraitReasoning:     make(map[string]string),
		GenerationAttempts: make(map[MessageType]int),
		FinalStatus:        StatusProcessing,
	}
}

// VisitNode appends a node-visit entry. Visits are logged even after a
// fault so partial diagnostics survive.
func (st *CampaignState) VisitNode(node string) {
	st.NodeVisits = append(st.NodeVisits, NodeVisit{Node: node, At: time.Now().UTC()})
}

// LogDecision appends a "decision: reasoning" entry to the decision path.
// The path is append-only; entries are never rewritten.
func (st *CampaignState) LogDecision(decision, reasoning string) {
	st.DecisionPath = append(st.DecisionPath, fmt.Sprintf("%s: %s", decision, reasoning))
}

// AddWarning records a non-fatal condition.
func (st *CampaignState) AddWarning(format string, args ...interface{}) {
	st.Warnings = append(st.Warnings, fmt.Sprintf(format, args...))
}

// AddError records an unrecoverable node fault.
func (st *CampaignState) AddError(node, kind, message, context string) {
	st.Errors = append(st.Errors, NodeError{
		Node:    node,
		Kind:    kind,
		Message: message,
		Context: context,
		At:      time.Now().UTC(),
	})
}

// SetFinal assigns the terminal status exactly once. Later calls are
// no-ops, so termination is idempotent.
func (st *CampaignState) SetFinal(status FinalStatus, reason string) bool {
	if st.FinalStatus.Terminal() {
		return false
	}
	st.FinalStatus = status
	st.StatusReason = reason
	st.LogDecision(string(status), reason)
	return true
}

// Message returns the current message for a slot, or nil.
func (st *CampaignState) Message(t MessageType) *CampaignMessage {
	for i := range st.Messages {
		if st.Messages[i].Type == t {
			return &st.Messages[i]
		}
	}
	return nil
}

// ReplaceMessage installs the latest attempt's text for a slot, replacing
// any prior attempt. Exactly one message per slot persists at any time.
func (st *CampaignState) ReplaceMessage(msg CampaignMessage) {
	for i := range st.Messages {
		if st.Messages[i].Type == msg.Type {
			st.Messages[i] = msg
			return
		}
	}
	st.Messages = append(st.Messages, msg)
}

// QualityIssues flattens the current messages' issue lists, prefixed by
// slot, for use as retry hints and decision-log reasoning.
func (st *CampaignState) QualityIssues() []string {
	var issues []string
	for _, m := range st.Messages {
		for _, iss := range m.QualityIssues {
			issues = append(issues, fmt.Sprintf("%s: %s", m.Type, iss))
		}
	}
	return issues
}
