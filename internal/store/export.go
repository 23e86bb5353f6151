package store

import (
	"context"

	"github.com/rcliao/sutra-power/internal/model"
)

// ExportAll returns every character with its images, in id order.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]model.Character, error) {
	return s.ListCharactersWithImages(ctx)
}

// Import saves characters from an export, keeping their ids. Each character is
// written with its gallery in its own transaction; the first failure stops the
// import.
func (s *SQLiteStore) Import(ctx context.Context, chars []model.Character) (int, error) {
	imported := 0
	for _, c := range chars {
		c.Images = append([]model.Image(nil), c.Images...)
		for i := range c.Images {
			c.Images[i].ID = 0
		}
		if _, err := s.SaveCharacterWithImages(ctx, &c); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
