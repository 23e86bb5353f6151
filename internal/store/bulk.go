package store

import (
	"context"
	"time"

	"github.com/rcliao/sutra-power/internal/model"
)

// CountCharacters returns the number of character rows.
func (s *SQLiteStore) CountCharacters(ctx context.Context) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM characters`).Scan(&n); err != nil {
		return 0, wrap("count characters", err)
	}
	return n, nil
}

// ListCharacters returns every character row without images.
func (s *SQLiteStore) ListCharacters(ctx context.Context) ([]model.Character, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	chars, err := queryCharacters(ctx, db)
	if err != nil {
		return nil, wrap("list characters", err)
	}
	return chars, nil
}

// ListImages returns the images of one character in gallery order.
func (s *SQLiteStore) ListImages(ctx context.Context, characterID int64) ([]model.Image, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	images, err := queryImages(ctx, db, characterID)
	if err != nil {
		return nil, wrap("list images", err)
	}
	return images, nil
}

// BulkPutCharacters upserts character rows by id in one transaction. Images
// are left untouched.
func (s *SQLiteStore) BulkPutCharacters(ctx context.Context, chars []model.Character) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	now := formatTime(time.Now())

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("bulk put characters", err)
	}
	defer tx.Rollback()

	for _, c := range chars {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO characters (id, name, description, image_url, model_url, story, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   name = excluded.name,
			   description = excluded.description,
			   image_url = excluded.image_url,
			   model_url = excluded.model_url,
			   story = excluded.story,
			   updated_at = excluded.updated_at`,
			nullableID(c.ID), c.Name, c.Description, c.ImageURL, c.ModelURL, c.ChapterText, now, now)
		if err != nil {
			return wrap("bulk put characters", err)
		}
	}

	return wrap("bulk put characters", tx.Commit())
}

// BulkPutImages upserts image rows by id in one transaction. Images without
// an id are inserted.
func (s *SQLiteStore) BulkPutImages(ctx context.Context, images []model.Image) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("bulk put images", err)
	}
	defer tx.Rollback()

	for _, img := range images {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO character_images (id, character_id, url, caption, "order")
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   character_id = excluded.character_id,
			   url = excluded.url,
			   caption = excluded.caption,
			   "order" = excluded."order"`,
			nullableID(img.ID), img.CharacterID, img.URL, img.Caption, img.Order)
		if err != nil {
			return wrap("bulk put images", err)
		}
	}

	return wrap("bulk put images", tx.Commit())
}
