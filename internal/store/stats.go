package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath          string         `json:"db_path"`
	DBSizeBytes     int64          `json:"db_size_bytes"`
	SchemaVersion   int            `json:"schema_version"`
	TotalCharacters int            `json:"total_characters"`
	TotalImages     int            `json:"total_images"`
	TotalSettings   int            `json:"total_settings"`
	Galleries       []GalleryStats `json:"galleries,omitempty"`
}

// GalleryStats holds per-character image counts.
type GalleryStats struct {
	CharacterID int64  `json:"character_id"`
	Name        string `json:"name"`
	Images      int    `json:"images"`
}

// Stats returns database statistics. Galleries lists only characters that have
// images, largest first.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	st := &Stats{DBPath: s.path}

	if info, err := os.Stat(s.path); err == nil {
		st.DBSizeBytes = info.Size()
	}

	db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&st.SchemaVersion)
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM characters`).Scan(&st.TotalCharacters)
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM character_images`).Scan(&st.TotalImages)
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM settings`).Scan(&st.TotalSettings)

	rows, err := db.QueryContext(ctx, `
		SELECT c.id, c.name, COUNT(i.id) AS cnt
		FROM characters c JOIN character_images i ON i.character_id = c.id
		GROUP BY c.id ORDER BY cnt DESC, c.id`)
	if err != nil {
		return st, wrap("stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g GalleryStats
		rows.Scan(&g.CharacterID, &g.Name, &g.Images)
		st.Galleries = append(st.Galleries, g)
	}

	return st, nil
}
