package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/rcliao/sutra-power/internal/model"
	"github.com/rcliao/sutra-power/internal/store"
)

const (
	// MigratedKey is the settings flag recording a finished migration.
	MigratedKey = "migratedFromLocalStorage"

	// CharactersKey is the legacy key holding the characters array.
	CharactersKey = "characters"
)

// Record is a character as the legacy format serialized it. Image ids were
// strings and are not carried over.
type Record struct {
	ID          json.RawMessage `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	ModelURL    string          `json:"modelUrl"`
	ChapterText string          `json:"chapterText"`
	Story       string          `json:"story"`
	Images      []RecordImage   `json:"images"`
}

// RecordImage is a legacy gallery entry.
type RecordImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// Character converts r to a store character. A numeric id is kept; anything
// else leaves the id for the store to assign. Placeholder images are dropped.
func (r Record) Character() *model.Character {
	c := &model.Character{
		ID:          parseID(r.ID),
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    model.NormalizeURL(r.ImageURL),
		ModelURL:    r.ModelURL,
		ChapterText: r.ChapterText,
	}
	if c.ChapterText == "" {
		c.ChapterText = r.Story
	}
	for _, img := range r.Images {
		if model.IsPlaceholder(img.URL) {
			continue
		}
		c.Images = append(c.Images, model.Image{URL: img.URL, Caption: img.Caption})
	}
	return c
}

func parseID(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		n = json.Number(s)
	}
	id, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// Runner copies legacy records into the store once.
type Runner struct {
	store  store.Store
	source Source
	log    *zap.Logger
}

// NewRunner returns a migration runner reading from src into st.
func NewRunner(st store.Store, src Source, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{store: st, source: src, log: log}
}

// Run migrates legacy characters unless the migration flag is already set.
// Failures reading or saving legacy data are logged and do not fail the run;
// the flag is set afterwards either way. Only errors reading or writing the
// flag are returned.
func (r *Runner) Run(ctx context.Context) error {
	done, err := store.Setting(ctx, r.store, MigratedKey, false)
	if err != nil {
		return fmt.Errorf("read migration flag: %w", err)
	}
	if done {
		r.log.Debug("legacy migration already done")
		return nil
	}

	migrated, failed := r.migrate(ctx)

	if err := r.store.SetSetting(ctx, MigratedKey, true); err != nil {
		return fmt.Errorf("write migration flag: %w", err)
	}
	r.log.Info("legacy migration finished",
		zap.Int("migrated", migrated),
		zap.Int("failed", failed))
	return nil
}

func (r *Runner) migrate(ctx context.Context) (migrated, failed int) {
	if r.source == nil {
		return 0, 0
	}

	raw, ok, err := r.source.Get(CharactersKey)
	if err != nil {
		r.log.Error("read legacy characters", zap.Error(err))
		return 0, 0
	}
	if !ok || raw == "" {
		return 0, 0
	}

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		r.log.Error("decode legacy characters", zap.Error(err))
		return 0, 0
	}

	for i, rec := range records {
		id, err := r.store.SaveCharacterWithImages(ctx, rec.Character())
		if err != nil {
			failed++
			r.log.Error("migrate legacy character",
				zap.Int("index", i),
				zap.String("name", rec.Name),
				zap.Error(err))
			continue
		}
		migrated++
		r.log.Debug("migrated legacy character", zap.Int64("id", id), zap.String("name", rec.Name))
	}
	return migrated, failed
}
