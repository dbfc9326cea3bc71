package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// MemoryStore keeps everything in process memory. It is safe for
// concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	maps   map[string]*Map
	order  map[string]int // insertion sequence, breaks CreatedAt ties
	seq    int
	topics map[string][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		maps:   make(map[string]*Map),
		order:  make(map[string]int),
		topics: make(map[string][]string),
	}
}

func (s *MemoryStore) CreateMap(_ context.Context, m *Map) error {
	if err := prepareMap(m, uuid.NewString(), now()); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := clone(m)
	s.maps[m.ID] = &cp
	s.seq++
	s.order[m.ID] = s.seq
	return nil
}

func (s *MemoryStore) GetMap(_ context.Context, id string) (*Map, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.maps[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := clone(m)
	return &cp, nil
}

func (s *MemoryStore) ListMaps(_ context.Context, userID string) ([]Map, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []Map{}
	for _, m := range s.maps {
		if m.UserID == userID {
			result = append(result, clone(m))
		}
	}
	slices.SortFunc(result, func(a, b Map) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return s.order[b.ID] - s.order[a.ID]
	})
	return result, nil
}

func (s *MemoryStore) RenameMap(_ context.Context, id, title string) error {
	if err := errors.ValidateMapTitle(title); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maps[id]
	if !ok {
		return notFound(id)
	}
	m.Title = strings.TrimSpace(title)
	m.UpdatedAt = now()
	return nil
}

func (s *MemoryStore) UpdateMap(_ context.Context, id string, tree topic.Tree) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maps[id]
	if !ok {
		return notFound(id)
	}
	m.Tree = tree.Normalize()
	m.UpdatedAt = now()
	return nil
}

func (s *MemoryStore) DeleteMap(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.maps[id]; !ok {
		return notFound(id)
	}
	delete(s.maps, id)
	delete(s.order, id)
	return nil
}

func (s *MemoryStore) SaveTopic(_ context.Context, userID, name string) error {
	name, err := prepareTopic(userID, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.topics[userID], name) {
		s.topics[userID] = append(s.topics[userID], name)
	}
	return nil
}

func (s *MemoryStore) Topics(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.topics[userID]...), nil
}

func (s *MemoryStore) RemoveTopic(_ context.Context, userID, name string) error {
	name, err := prepareTopic(userID, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics[userID] = slices.DeleteFunc(s.topics[userID], func(t string) bool { return t == name })
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// clone copies m deeply enough that callers cannot mutate stored trees.
func clone(m *Map) Map {
	cp := *m
	cp.Tree = m.Tree.Normalize()
	return cp
}
