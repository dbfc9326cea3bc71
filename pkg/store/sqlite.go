package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/topic"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists maps and saved topics in a single SQLite file.
// Trees are stored as JSON text. Timestamps are Unix milliseconds so that
// ordering by creation time is a plain integer sort.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path. The special path
// ":memory:" opens a private in-memory database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serializes writers and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS maps (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  tree TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS maps_user_created ON maps (user_id, created_at);
CREATE TABLE IF NOT EXISTS saved_topics (
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  PRIMARY KEY (user_id, name)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateMap(ctx context.Context, m *Map) error {
	if err := prepareMap(m, uuid.NewString(), now()); err != nil {
		return err
	}
	tree, err := json.Marshal(m.Tree)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode tree")
	}
	const stmt = `
INSERT INTO maps (id, user_id, title, source, tree, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?);`
	_, err = s.db.ExecContext(ctx, stmt, m.ID, m.UserID, m.Title, m.Source, string(tree),
		m.CreatedAt.UnixMilli(), m.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert map: %w", err)
	}
	return nil
}

const selectMap = `SELECT id, user_id, title, source, tree, created_at, updated_at FROM maps`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMap(row rowScanner) (Map, error) {
	var (
		m                Map
		tree             string
		created, updated int64
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.Title, &m.Source, &tree, &created, &updated); err != nil {
		return Map{}, err
	}
	if err := json.Unmarshal([]byte(tree), &m.Tree); err != nil {
		return Map{}, errors.Wrap(errors.ErrCodeInternal, err, "decode tree of map %q", m.ID)
	}
	m.Tree = m.Tree.Normalize()
	m.CreatedAt = time.UnixMilli(created).UTC()
	m.UpdatedAt = time.UnixMilli(updated).UTC()
	return m, nil
}

func (s *SQLiteStore) GetMap(ctx context.Context, id string) (*Map, error) {
	m, err := scanMap(s.db.QueryRowContext(ctx, selectMap+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get map: %w", err)
	}
	return &m, nil
}

func (s *SQLiteStore) ListMaps(ctx context.Context, userID string) ([]Map, error) {
	rows, err := s.db.QueryContext(ctx, selectMap+` WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	defer rows.Close()

	result := []Map{}
	for rows.Next() {
		m, err := scanMap(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// update runs stmt and reports MAP_NOT_FOUND when no row matched.
func (s *SQLiteStore) update(ctx context.Context, id, stmt string, args ...any) error {
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update map: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update map: %w", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *SQLiteStore) RenameMap(ctx context.Context, id, title string) error {
	if err := errors.ValidateMapTitle(title); err != nil {
		return err
	}
	return s.update(ctx, id, `UPDATE maps SET title = ?, updated_at = ? WHERE id = ?`,
		strings.TrimSpace(title), now().UnixMilli(), id)
}

func (s *SQLiteStore) UpdateMap(ctx context.Context, id string, tree topic.Tree) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode tree")
	}
	return s.update(ctx, id, `UPDATE maps SET tree = ?, updated_at = ? WHERE id = ?`,
		string(data), now().UnixMilli(), id)
}

func (s *SQLiteStore) DeleteMap(ctx context.Context, id string) error {
	return s.update(ctx, id, `DELETE FROM maps WHERE id = ?`, id)
}

func (s *SQLiteStore) SaveTopic(ctx context.Context, userID, name string) error {
	name, err := prepareTopic(userID, name)
	if err != nil {
		return err
	}
	const stmt = `INSERT INTO saved_topics (user_id, name) VALUES (?, ?) ON CONFLICT(user_id, name) DO NOTHING;`
	if _, err := s.db.ExecContext(ctx, stmt, userID, name); err != nil {
		return fmt.Errorf("save topic: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Topics(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM saved_topics WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	topics := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		topics = append(topics, name)
	}
	return topics, rows.Err()
}

func (s *SQLiteStore) RemoveTopic(ctx context.Context, userID, name string) error {
	name, err := prepareTopic(userID, name)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saved_topics WHERE user_id = ? AND name = ?`, userID, name); err != nil {
		return fmt.Errorf("remove topic: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
