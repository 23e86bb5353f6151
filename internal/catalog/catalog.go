// Package catalog is the character catalog API used by the UI layer. It owns
// the main-image policy and falls back to seed data when no store is usable.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rcliao/sutra-power/internal/model"
	"github.com/rcliao/sutra-power/internal/seed"
	"github.com/rcliao/sutra-power/internal/store"
)

// ErrNotFound matches every NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a mutation aimed at a character that does not exist.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("character with id %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Migrator imports legacy data on first use.
type Migrator interface {
	Run(ctx context.Context) error
}

// Option configures a Service.
type Option func(*Service)

// WithMigrator runs m once while the store is prepared.
func WithMigrator(m Migrator) Option {
	return func(s *Service) { s.migrator = m }
}

// Service implements the catalog operations on top of a Store. A Service
// without a store serves seed data and rejects mutations.
type Service struct {
	store    store.Store
	migrator Migrator
	log      *zap.Logger

	mu    sync.Mutex
	ready bool
}

// New returns a Service backed by st. Pass a nil st for the seed-only mode.
func New(st store.Store, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{store: st, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Persistent reports whether the service has a store to write to.
func (s *Service) Persistent() bool {
	return s.store != nil
}

// Prepare opens the store, runs the legacy migration and seeds an empty
// catalog. It is safe to call repeatedly; after one success it does nothing.
// Migration failures are logged, never returned.
func (s *Service) Prepare(ctx context.Context) error {
	if s.store == nil {
		return store.ErrUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}

	if err := s.store.Open(ctx); err != nil {
		return err
	}
	if s.migrator != nil {
		if err := s.migrator.Run(ctx); err != nil {
			s.log.Error("legacy migration failed", zap.Error(err))
		}
	}
	if err := s.seedIfEmpty(ctx); err != nil {
		return err
	}

	s.ready = true
	return nil
}

func (s *Service) seedIfEmpty(ctx context.Context) error {
	n, err := s.store.CountCharacters(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	chars := seed.Characters()
	if err := s.store.BulkPutCharacters(ctx, chars); err != nil {
		return fmt.Errorf("seed characters: %w", err)
	}

	var images []model.Image
	for _, c := range chars {
		for i, img := range c.Images {
			img.CharacterID = c.ID
			img.Order = i
			images = append(images, img)
		}
	}
	if len(images) > 0 {
		if err := s.store.BulkPutImages(ctx, images); err != nil {
			return fmt.Errorf("seed images: %w", err)
		}
	}

	s.log.Info("catalog seeded", zap.Int("characters", len(chars)))
	return nil
}

// readable prepares the store for a read. It reports false when reads should
// be served from seed data instead.
func (s *Service) readable(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, nil
	}
	err := s.Prepare(ctx)
	if errors.Is(err, store.ErrUnavailable) {
		s.log.Warn("storage unavailable, serving seed data", zap.Error(err))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Characters returns every character with its gallery.
func (s *Service) Characters(ctx context.Context) ([]model.Character, error) {
	ok, err := s.readable(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return seed.Characters(), nil
	}
	return s.store.ListCharactersWithImages(ctx)
}

// Character returns the character with the given id, or nil when there is
// none.
func (s *Service) Character(ctx context.Context, id int64) (*model.Character, error) {
	ok, err := s.readable(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		c, found := seed.Character(id)
		if !found {
			return nil, nil
		}
		return &c, nil
	}
	return s.store.GetCharacterWithImages(ctx, id)
}
