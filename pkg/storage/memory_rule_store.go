// Package storage provides in-memory implementations of the engine's
// collaborator contracts: rule storage and the content corpus. They back the
// CLI and tests; a production deployment substitutes its own persistence
// behind the same interfaces.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/linkweaver/linkweaver-oss/pkg/domain"
)

// MemoryRuleStore is an in-memory implementation of domain.RuleStore.
type MemoryRuleStore struct {
	mu    sync.RWMutex
	rules []domain.LinkRule
	index map[string]int
}

// NewMemoryRuleStore creates a store seeded with the given rules. Insertion
// order is preserved, so stable-sort tie-breaking stays deterministic.
func NewMemoryRuleStore(rules []domain.LinkRule) *MemoryRuleStore {
	s := &MemoryRuleStore{index: make(map[string]int)}
	s.Replace(rules)
	return s
}

// Replace swaps the active rule set atomically.
func (s *MemoryRuleStore) Replace(rules []domain.LinkRule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules = domain.CloneRules(rules)
	s.index = make(map[string]int, len(s.rules))
	for i, rule := range s.rules {
		s.index[rule.ID] = i
	}
}

// ListActiveRules returns a snapshot copy of the active rules.
func (s *MemoryRuleStore) ListActiveRules(_ context.Context) ([]domain.LinkRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneRules(s.rules), nil
}

// GetRule retrieves a rule by id.
func (s *MemoryRuleStore) GetRule(_ context.Context, id string) (*domain.LinkRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRuleNotFound, id)
	}
	rule := s.rules[i].Clone()
	return &rule, nil
}
