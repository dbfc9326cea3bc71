package store

import (
	"context"
	"time"

	"github.com/matzehuels/topicmap/pkg/observability"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// Instrument wraps s so that every operation is reported to the registered
// observability.StoreHooks under the given backend name.
func Instrument(s Store, backend string) Store {
	if _, ok := s.(*instrumented); ok {
		return s
	}
	return &instrumented{inner: s, backend: backend}
}

type instrumented struct {
	inner   Store
	backend string
}

// observe starts timing op. The returned func reports the final error:
//
//	defer s.observe(ctx, "get_map")(&err)
func (s *instrumented) observe(ctx context.Context, op string) func(*error) {
	start := time.Now()
	return func(err *error) {
		observability.Store().OnStoreOp(ctx, s.backend, op, time.Since(start), *err)
	}
}

func (s *instrumented) CreateMap(ctx context.Context, m *Map) (err error) {
	defer s.observe(ctx, "create_map")(&err)
	return s.inner.CreateMap(ctx, m)
}

func (s *instrumented) GetMap(ctx context.Context, id string) (_ *Map, err error) {
	defer s.observe(ctx, "get_map")(&err)
	return s.inner.GetMap(ctx, id)
}

func (s *instrumented) ListMaps(ctx context.Context, userID string) (_ []Map, err error) {
	defer s.observe(ctx, "list_maps")(&err)
	return s.inner.ListMaps(ctx, userID)
}

func (s *instrumented) RenameMap(ctx context.Context, id, title string) (err error) {
	defer s.observe(ctx, "rename_map")(&err)
	return s.inner.RenameMap(ctx, id, title)
}

func (s *instrumented) UpdateMap(ctx context.Context, id string, tree topic.Tree) (err error) {
	defer s.observe(ctx, "update_map")(&err)
	return s.inner.UpdateMap(ctx, id, tree)
}

func (s *instrumented) DeleteMap(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "delete_map")(&err)
	return s.inner.DeleteMap(ctx, id)
}

func (s *instrumented) SaveTopic(ctx context.Context, userID, name string) (err error) {
	defer s.observe(ctx, "save_topic")(&err)
	return s.inner.SaveTopic(ctx, userID, name)
}

func (s *instrumented) Topics(ctx context.Context, userID string) (_ []string, err error) {
	defer s.observe(ctx, "topics")(&err)
	return s.inner.Topics(ctx, userID)
}

func (s *instrumented) RemoveTopic(ctx context.Context, userID, name string) (err error) {
	defer s.observe(ctx, "remove_topic")(&err)
	return s.inner.RemoveTopic(ctx, userID, name)
}

func (s *instrumented) Close() error {
	return s.inner.Close()
}
