package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/linkweaver/linkweaver-oss/pkg/domain"
)

// MemoryContentStore is an in-memory implementation of
// domain.ContentRepository.
type MemoryContentStore struct {
	mu    sync.RWMutex
	items map[string]domain.ContentItem
	order []string
}

// NewMemoryContentStore creates an empty content store.
func NewMemoryContentStore() *MemoryContentStore {
	return &MemoryContentStore{items: make(map[string]domain.ContentItem)}
}

// Put inserts or replaces a content item.
func (s *MemoryContentStore) Put(item domain.ContentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; !exists {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = item
}

// GetRawContent retrieves a content item by id.
func (s *MemoryContentStore) GetRawContent(_ context.Context, itemID string) (*domain.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrContentNotFound, itemID)
	}
	return &item, nil
}

// FindCandidates implements the coarse pre-filter: case-insensitive
// substring containment over raw markup, restricted to allowed types (empty
// means all) and excluding the given ids. Precise matching happens in the
// auditor afterwards.
func (s *MemoryContentStore) FindCandidates(_ context.Context, substring string, allowedTypes, excludedIDs []string) ([]domain.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(substring)
	excluded := make(map[string]bool, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = true
	}

	var out []domain.ContentItem
	for _, id := range s.order {
		item := s.items[id]
		if excluded[item.ID] {
			continue
		}
		if !typeAllowed(allowedTypes, item.Type) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(item.RawMarkup), needle) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func typeAllowed(allowed []string, itemType string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, t := range allowed {
		if t == itemType {
			return true
		}
	}
	return false
}
