package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcliao/sutra-power/internal/model"
)

// SchemaVersion is the schema version applied by Open.
const SchemaVersion = 1

// migrations[i] upgrades the schema from version i to i+1. Upgrades are
// additive only.
var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS characters (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url   TEXT NOT NULL DEFAULT '',
		model_url   TEXT NOT NULL DEFAULT '',
		story       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_characters_name ON characters(name);
	CREATE INDEX IF NOT EXISTS idx_characters_created ON characters(created_at);
	CREATE INDEX IF NOT EXISTS idx_characters_updated ON characters(updated_at);

	CREATE TABLE IF NOT EXISTS character_images (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		character_id INTEGER NOT NULL REFERENCES characters(id) ON DELETE CASCADE,
		url          TEXT NOT NULL,
		caption      TEXT NOT NULL DEFAULT '',
		"order"      INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_character_images_character ON character_images(character_id);
	CREATE INDEX IF NOT EXISTS idx_character_images_order ON character_images(character_id, "order");

	CREATE TABLE IF NOT EXISTS settings (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		key   TEXT NOT NULL UNIQUE,
		value TEXT NOT NULL
	);
	`,
}

const characterColumns = `id, name, description, image_url, model_url, story, created_at, updated_at`

const imageColumns = `id, character_id, url, caption, "order"`

// SQLiteStore implements Store using SQLite. One handle is shared per process
// and opened lazily.
type SQLiteStore struct {
	path string

	mu sync.Mutex
	db *sql.DB

	// afterCharacterWrite runs inside the save transaction between the
	// character row write and the image rewrite. Tests use it to inject
	// failures.
	afterCharacterWrite func() error
}

// New returns a store handle for the database at path. Nothing touches disk
// until Open.
func New(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Available probes whether a database can be created at path: the directory
// must exist or be creatable, and be writable.
func Available(path string) error {
	if path == "" {
		return fmt.Errorf("%w: no database path", ErrUnavailable)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create db dir: %v", ErrUnavailable, err)
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("%w: db dir not writable: %v", ErrUnavailable, err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return nil
}

// Open opens the database and brings the schema to SchemaVersion. Repeated
// calls after a successful open are no-ops.
func (s *SQLiteStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	if err := Available(s.path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("%w: open db: %v", ErrUnavailable, err)
	}
	// A single connection serializes writers and keeps every transaction
	// isolated from concurrent callers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("%w: ping db: %v", ErrUnavailable, err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
	}

	s.db = db
	return nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	if version > len(migrations) {
		return fmt.Errorf("schema version %d is newer than supported version %d", version, len(migrations))
	}
	for v := version; v < len(migrations); v++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("schema v%d: %w", v+1, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("schema v%d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, fmt.Errorf("%w: store not open", ErrUnavailable)
	}
	return s.db, nil
}

func (s *SQLiteStore) GetCharacterWithImages(ctx context.Context, id int64) (*model.Character, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrap("get character", err)
	}
	defer tx.Rollback()

	c, err := scanCharacter(tx.QueryRowContext(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get character", err)
	}

	c.Images, err = queryImages(ctx, tx, id)
	if err != nil {
		return nil, wrap("get character images", err)
	}
	return &c, nil
}

func (s *SQLiteStore) SaveCharacterWithImages(ctx context.Context, c *model.Character) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, wrap("save character", err)
	}
	defer tx.Rollback()

	id := c.ID
	existed := false
	if id > 0 {
		res, err := tx.ExecContext(ctx,
			`UPDATE characters SET name = ?, description = ?, image_url = ?, model_url = ?, story = ?, updated_at = ?
			 WHERE id = ?`,
			c.Name, c.Description, c.ImageURL, c.ModelURL, c.ChapterText, formatTime(now), id)
		if err != nil {
			return 0, wrap("update character", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, wrap("update character", err)
		}
		existed = n > 0
	}

	if !existed {
		created := now
		if !c.CreatedAt.IsZero() {
			created = c.CreatedAt.UTC()
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO characters (id, name, description, image_url, model_url, story, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			nullableID(id), c.Name, c.Description, c.ImageURL, c.ModelURL, c.ChapterText,
			formatTime(created), formatTime(now))
		if err != nil {
			return 0, wrap("insert character", err)
		}
		if id == 0 {
			id, err = res.LastInsertId()
			if err != nil {
				return 0, wrap("insert character", err)
			}
		}
	}

	if s.afterCharacterWrite != nil {
		if err := s.afterCharacterWrite(); err != nil {
			return 0, wrap("save character", err)
		}
	}

	if existed {
		if _, err := tx.ExecContext(ctx, `DELETE FROM character_images WHERE character_id = ?`, id); err != nil {
			return 0, wrap("delete character images", err)
		}
	}

	for i, img := range c.Images {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO character_images (id, character_id, url, caption, "order") VALUES (?, ?, ?, ?, ?)`,
			nullableID(img.ID), id, img.URL, img.Caption, i)
		if err != nil {
			return 0, wrap("insert character image", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, wrap("commit character", err)
	}
	return id, nil
}

func (s *SQLiteStore) ListCharactersWithImages(ctx context.Context) ([]model.Character, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrap("list characters", err)
	}
	defer tx.Rollback()

	chars, err := queryCharacters(ctx, tx)
	if err != nil {
		return nil, wrap("list characters", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT `+imageColumns+` FROM character_images ORDER BY character_id, "order", id`)
	if err != nil {
		return nil, wrap("list character images", err)
	}
	defer rows.Close()

	byCharacter := make(map[int64][]model.Image)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, wrap("list character images", err)
		}
		byCharacter[img.CharacterID] = append(byCharacter[img.CharacterID], img)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list character images", err)
	}

	for i := range chars {
		chars[i].Images = byCharacter[chars[i].ID]
		if chars[i].Images == nil {
			chars[i].Images = []model.Image{}
		}
	}
	return chars, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func scanCharacter(row scanner) (model.Character, error) {
	var c model.Character
	var createdAt, updatedAt string

	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.ModelURL, &c.ChapterText,
		&createdAt, &updatedAt)
	if err != nil {
		return c, err
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	c.Documents = []model.Document{}
	return c, nil
}

func scanImage(row scanner) (model.Image, error) {
	var img model.Image
	err := row.Scan(&img.ID, &img.CharacterID, &img.URL, &img.Caption, &img.Order)
	return img, err
}

func queryCharacters(ctx context.Context, q querier) ([]model.Character, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chars := []model.Character{}
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

func queryImages(ctx context.Context, q querier, characterID int64) ([]model.Image, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+imageColumns+` FROM character_images WHERE character_id = ? ORDER BY "order", id`,
		characterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []model.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// nullableID lets SQLite assign the id when none is set.
func nullableID(id int64) interface{} {
	if id <= 0 {
		return nil
	}
	return id
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
