package storage

import (
	"context"
	"strconv"
	"sync"
	"time"

	"talentscan/internal/candidate"
)

// MemoryStore keeps candidates in process memory in insertion order.
// Identifiers are "1", "2", ... Nothing survives a restart.
type MemoryStore struct {
	mu         sync.RWMutex
	candidates []candidate.Candidate
	counter    int
	now        func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) StoreCandidate(_ context.Context, fields candidate.Fields) (*candidate.Candidate, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.counter++
	createdAt := m.now().UTC()
	c := candidate.Candidate{
		ID:        strconv.Itoa(m.counter),
		Fields:    normalizeFields(fields),
		CreatedAt: &createdAt,
	}
	m.candidates = append(m.candidates, c)
	m.mu.Unlock()

	out := c.Clone()
	return &out, nil
}

func (m *MemoryStore) GetAllCandidates(_ context.Context) ([]candidate.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]candidate.Candidate, 0, len(m.candidates))
	for _, c := range m.candidates {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (m *MemoryStore) GetCandidate(_ context.Context, id string) (*candidate.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.candidates {
		if c.ID == id {
			out := c.Clone()
			return &out, nil
		}
	}
	return nil, notFound(id)
}

func (m *MemoryStore) SearchCandidates(_ context.Context, query string) ([]candidate.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []candidate.Candidate{}
	for _, c := range m.candidates {
		if c.Matches(query) {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
