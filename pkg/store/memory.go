package store

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/rnagraph/pkg/errors"
)

// MemoryStore keeps documents in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

func (s *MemoryStore) Put(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "document has no id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = *doc
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, errors.NotFound("graph %q not found", id)
	}
	return &d, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Document, error) {
	s.mu.RLock()
	docs := slices.Collect(maps.Values(s.docs))
	s.mu.RUnlock()

	slices.SortFunc(docs, func(a, b Document) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	docs = docs[:min(len(docs), listLimit(limit))]

	out := make([]*Document, len(docs))
	for i := range docs {
		out[i] = &docs[i]
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return errors.NotFound("graph %q not found", id)
	}
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
