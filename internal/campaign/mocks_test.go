package campaign

import (
	"context"
	"fmt"
	"sync"

	"leadbrain/internal/lead"
	"leadbrain/internal/store"
)

// --- fakeStore ---

// fakeStore is an in-memory ContextStore with optional fault injection.
type fakeStore struct {
	mu      sync.Mutex
	records map[string][]store.MemoryRecord
	failOn  string // "read", "write", or ""
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string][]store.MemoryRecord)}
}

func (f *fakeStore) Latest(ctx context.Context, leadID string) (*store.MemoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "read" {
		return nil, fmt.Errorf("injected read failure")
	}
	recs := f.records[leadID]
	if len(recs) == 0 {
		return nil, nil
	}
	rec := recs[len(recs)-1]
	return &rec, nil
}

func (f *fakeStore) Append(ctx context.Context, rec store.MemoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "write" {
		return fmt.Errorf("injected write failure")
	}
	f.records[rec.LeadID] = append(f.records[rec.LeadID], rec)
	return nil
}

// --- stubLLM ---

// stubLLM implements llm.Client returning canned responses.
type stubLLM struct {
	response string
	err      error
	calls    int
}

func (s *stubLLM) Complete(ctx context.Context, prompt string) (string, error) {
	return s.CompleteWithSystem(ctx, "", prompt)
}

func (s *stubLLM) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// --- fixtures ---

func richRecord() lead.Record {
	return lead.Record{
		Lead: lead.Lead{
			ID:      "lead-rich",
			Name:    "Sarah Chen",
			Title:   "CTO",
			Company: "Northwind Labs",
			Email:   "sarah@northwind.example",
		},
		Company: lead.Company{
			Description: "Northwind Labs builds a cloud analytics platform for mid-market SaaS teams.",
			Services:    []string{"analytics platform", "data pipelines"},
			Tone:        "technical",
		},
		Scraped: lead.ScrapedContent{
			Homepage: "Analytics your engineers will actually use.",
		},
	}
}

func sparseRecord() lead.Record {
	return lead.Record{
		Lead: lead.Lead{
			ID:      "lead-sparse",
			Name:    "Jordan Velez",
			Title:   "Founder",
			Company: "Velez Consulting",
			Email:   "jordan@velez.example",
		},
	}
}

func blankRecord() lead.Record {
	return lead.Record{
		Lead: lead.Lead{
			ID:      "lead-blank",
			Name:    "Pat Moss",
			Title:   "Specialist",
			Company: "Moss Group",
			Email:   "pat@moss.example",
		},
	}
}
