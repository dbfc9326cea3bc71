// Package store persists saved mind maps and saved topics per user.
//
// Three backends implement [Store]:
//
//   - [MemoryStore]: process-local, for tests and throwaway servers
//   - [SQLiteStore]: a single database file, the CLI default
//   - [MongoStore]: a shared MongoDB deployment for the API server
//
// [Open] selects a backend from configuration.
package store

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicmap/pkg/config"
	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// ErrNotFound is the cause of every MAP_NOT_FOUND error returned by a Store.
var ErrNotFound = stderrors.New("not found")

// UntitledMap is the title given to maps saved without a title or subject.
const UntitledMap = "Untitled mind map"

// Map is a saved mind map. Only the topic tree is stored; layouts are
// recomputed on demand since they are deterministic.
type Map struct {
	ID        string     `json:"id" bson:"_id"`
	UserID    string     `json:"userId" bson:"userId"`
	Title     string     `json:"title" bson:"title"`
	Source    string     `json:"source,omitempty" bson:"source,omitempty"` // document the tree was generated from
	Tree      topic.Tree `json:"tree" bson:"tree"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Store is the persistence interface shared by all backends.
type Store interface {
	// CreateMap assigns m a new ID and timestamps and saves it. An empty
	// title defaults to the tree's subject.
	CreateMap(ctx context.Context, m *Map) error
	GetMap(ctx context.Context, id string) (*Map, error)
	// ListMaps returns a user's maps, newest first.
	ListMaps(ctx context.Context, userID string) ([]Map, error)
	RenameMap(ctx context.Context, id, title string) error
	// UpdateMap replaces a map's tree, for example after regeneration.
	UpdateMap(ctx context.Context, id string, tree topic.Tree) error
	DeleteMap(ctx context.Context, id string) error

	// SaveTopic adds a topic to the user's saved list. Saving a topic twice
	// keeps one entry at its original position.
	SaveTopic(ctx context.Context, userID, name string) error
	// Topics returns saved topics in the order they were first saved.
	Topics(ctx context.Context, userID string) ([]string, error)
	RemoveTopic(ctx context.Context, userID, name string) error

	Close() error
}

// Open creates the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Store, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case config.StoreMemory:
		s = NewMemoryStore()
	case config.StoreSQLite:
		s, err = NewSQLiteStore(ctx, cfg.Path)
	case config.StoreMongo:
		s, err = NewMongoStore(ctx, cfg.URI, cfg.Database)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("opened store", "driver", cfg.Driver)
	return Instrument(s, cfg.Driver), nil
}

// =============================================================================
// Shared validation
// =============================================================================

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeMapNotFound, ErrNotFound, "mind map %q not found", id)
}

// prepareMap validates m and fills in its defaults before insertion.
func prepareMap(m *Map, id string, now time.Time) error {
	if m == nil {
		return errors.New(errors.ErrCodeInvalidInput, "mind map is nil")
	}
	if err := errors.ValidateUserID(m.UserID); err != nil {
		return err
	}
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		m.Title = strings.TrimSpace(m.Tree.Subject)
	}
	if m.Title == "" {
		m.Title = UntitledMap
	}
	if err := errors.ValidateMapTitle(m.Title); err != nil {
		return err
	}
	m.Tree = m.Tree.Normalize()
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	return nil
}

func prepareTopic(userID, name string) (string, error) {
	if err := errors.ValidateUserID(userID); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "topic cannot be empty")
	}
	return name, nil
}

// now returns the current time truncated to milliseconds, the resolution
// every backend can store.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
