package store

import (
	"sync"

	"github.com/crmdash/leadboard/internal/models"
)

// LeadStore guarda el snapshot de leads de la sesión: se carga una vez
// y de ahí en adelante solo se lee. Un refresh reemplaza el snapshot
// completo, nunca lo muta parcialmente.
type LeadStore struct {
	mu     sync.RWMutex
	leads  []models.Lead
	loaded bool
}

func NewLeadStore() *LeadStore { return &LeadStore{} }

func (s *LeadStore) Load(leads []models.Lead) {
	cp := make([]models.Lead, len(leads))
	copy(cp, leads)
	s.mu.Lock()
	s.leads = cp
	s.loaded = true
	s.mu.Unlock()
}

// Leads returns a copy so callers can never mutate the snapshot.
func (s *LeadStore) Leads() []models.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

func (s *LeadStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}

func (s *LeadStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
