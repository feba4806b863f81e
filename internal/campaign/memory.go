package campaign

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"leadbrain/internal/logging"
	"leadbrain/internal/store"
)

// ContextStore is the external memory/context store the pipeline shares
// across runs. *store.MemoryStore satisfies it; tests substitute fakes.
type ContextStore interface {
	Latest(ctx context.Context, leadID string) (*store.MemoryRecord, error)
	Append(ctx context.Context, rec store.MemoryRecord) error
}

// MemoryManager reads historical context at pipeline entry and persists a
// distilled summary at exit. It never blocks termination: a failed store
// read or write degrades to a warning on the state.
type MemoryManager struct {
	store   ContextStore // nil disables memory entirely
	cache   *gocache.Cache
	timeout time.Duration
}

// NewMemoryManager creates a manager over the given store. A nil store is
// valid: loads find no history and writes are skipped.
func NewMemoryManager(cs ContextStore, cacheTTL, timeout time.Duration) *MemoryManager {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MemoryManager{
		store:   cs,
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
		timeout: timeout,
	}
}

// LoadContext populates the state's memory context from the store, going
// through the read cache. Absence of history is not an error.
func (m *MemoryManager) LoadContext(ctx context.Context, st *CampaignState) {
	if m.store == nil {
		return
	}

	if cached, ok := m.cache.Get(st.Lead.ID); ok {
		st.MemoryContext = cached.(*store.MemoryRecord)
		m.deriveInsights(st)
		return
	}

	readCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	rec, err := m.store.Latest(readCtx, st.Lead.ID)
	if err != nil {
		st.AddWarning("memory context read failed: %v", err)
		logging.MemoryWarn("context read failed for lead %s: %v", st.Lead.ID, err)
		return
	}
	if rec == nil {
		logging.MemoryDebug("no prior history for lead %s", st.Lead.ID)
		return
	}

	m.cache.Set(st.Lead.ID, rec, gocache.DefaultExpiration)
	st.MemoryContext = rec
	m.deriveInsights(st)
}

func (m *MemoryManager) deriveInsights(st *CampaignState) {
	rec := st.MemoryContext
	st.HistoricalInsights = append(st.HistoricalInsights,
		fmt.Sprintf("previous campaign on %s used angle %q and ended %s (score %.0f)",
			rec.CreatedAt.Format("2006-01-02"), rec.Angle, rec.FinalStatus, rec.QualityScore))
	logging.Memory("loaded memory context for lead %s (previous angle %q)", st.Lead.ID, rec.Angle)
}

// PersistSummary writes the distilled record for a terminal run. Write
// failure is logged as a warning, never escalated.
func (m *MemoryManager) PersistSummary(ctx context.Context, st *CampaignState) {
	if m.store == nil {
		return
	}

	rec := store.MemoryRecord{
		LeadID:       st.Lead.ID,
		LeadName:     st.Lead.Name,
		Company:      st.Lead.Company,
		PrimaryTrait: st.PrimaryTrait,
		Traits:       append([]string(nil), st.Traits...),
		Angle:        st.Angle,
		QualityScore: st.OverallQualityScore,
		FinalStatus:  string(st.FinalStatus),
		CreatedAt:    time.Now().UTC(),
	}

	writeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.store.Append(writeCtx, rec); err != nil {
		st.AddWarning("memory write failed: %v", err)
		logging.MemoryWarn("summary write failed for lead %s: %v", st.Lead.ID, err)
		return
	}
	m.cache.Set(st.Lead.ID, &rec, gocache.DefaultExpiration)
	logging.MemoryDebug("persisted campaign summary for lead %s (status=%s)", st.Lead.ID, st.FinalStatus)
}
