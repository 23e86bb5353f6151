// Package store provides the catalog storage interface and SQLite implementation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rcliao/sutra-power/internal/model"
)

// ErrUnavailable is returned when no usable storage engine exists. Callers
// fall back to ephemeral seed data.
var ErrUnavailable = errors.New("storage unavailable")

// StorageError wraps a failure raised by the storage engine.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) || errors.Is(err, ErrUnavailable) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// Store defines the catalog storage interface.
type Store interface {
	// Open prepares the store for use. Safe to call repeatedly.
	Open(ctx context.Context) error

	// GetCharacterWithImages returns the character joined with its images in
	// gallery order, or nil when id is unknown.
	GetCharacterWithImages(ctx context.Context, id int64) (*model.Character, error)

	// SaveCharacterWithImages writes the character row and replaces its image
	// set in a single transaction. Returns the character id.
	SaveCharacterWithImages(ctx context.Context, c *model.Character) (int64, error)

	// ListCharactersWithImages returns every character joined with its images.
	ListCharactersWithImages(ctx context.Context) ([]model.Character, error)

	CountCharacters(ctx context.Context) (int, error)
	ListCharacters(ctx context.Context) ([]model.Character, error)
	BulkPutCharacters(ctx context.Context, chars []model.Character) error
	BulkPutImages(ctx context.Context, images []model.Image) error
	ListImages(ctx context.Context, characterID int64) ([]model.Image, error)
	Search(ctx context.Context, p SearchParams) ([]model.Character, error)

	// GetSetting returns the JSON value stored under key.
	GetSetting(ctx context.Context, key string) (json.RawMessage, bool, error)

	// SetSetting upserts value, JSON encoded, under key.
	SetSetting(ctx context.Context, key string, value any) error

	// Close closes the store.
	Close() error
}

// Setting decodes the setting under key into T, returning def when absent.
func Setting[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	raw, ok, err := s.GetSetting(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def, fmt.Errorf("decode setting %q: %w", key, err)
	}
	return v, nil
}
