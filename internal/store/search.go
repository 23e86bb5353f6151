package store

import (
	"context"
	"strings"

	"github.com/rcliao/sutra-power/internal/model"
)

// likeEscaper makes % and _ match literally in a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchParams holds parameters for searching characters.
type SearchParams struct {
	Query string
	Limit int
}

// Search finds characters whose name, description, chapter text or image
// captions contain the query substring, in id order.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Character, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	query := "%" + likeEscaper.Replace(p.Query) + "%"

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrap("search", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT `+characterColumns+` FROM characters
		WHERE name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR story LIKE ? ESCAPE '\'
		   OR id IN (SELECT character_id FROM character_images WHERE caption LIKE ? ESCAPE '\')
		ORDER BY id
		LIMIT ?`, query, query, query, query, limit)
	if err != nil {
		return nil, wrap("search", err)
	}

	results := []model.Character{}
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			rows.Close()
			return nil, wrap("search", err)
		}
		results = append(results, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap("search", err)
	}

	for i := range results {
		images, err := queryImages(ctx, tx, results[i].ID)
		if err != nil {
			return nil, wrap("search", err)
		}
		results[i].Images = images
	}
	return results, nil
}
