package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/sutra-power/internal/model"
	"github.com/rcliao/sutra-power/internal/seed"
	"github.com/rcliao/sutra-power/internal/store"
)

const modelDescription = "3D model representation of the character"

const defaultSearchLimit = 20

// ChapterOf derives the chapter view of c.
func ChapterOf(c model.Character) model.Chapter {
	return model.Chapter{
		ID:          c.ID,
		Title:       fmt.Sprintf("Chapter %d: The Teachings of %s", c.ID, c.Name),
		Content:     c.ChapterText,
		CharacterID: c.ID,
	}
}

// ModelOf derives the 3D model view of c.
func ModelOf(c model.Character) model.Model {
	return model.Model{
		ID:          c.ID,
		Name:        c.Name + " Model",
		Description: modelDescription,
		ModelURL:    c.ModelURL,
		CharacterID: c.ID,
	}
}

// Chapters returns one chapter per character.
func (s *Service) Chapters(ctx context.Context) ([]model.Chapter, error) {
	chars, err := s.Characters(ctx)
	if err != nil {
		return nil, err
	}
	chapters := make([]model.Chapter, len(chars))
	for i, c := range chars {
		chapters[i] = ChapterOf(c)
	}
	return chapters, nil
}

// Chapter returns the chapter with the given id, or nil.
func (s *Service) Chapter(ctx context.Context, id int64) (*model.Chapter, error) {
	c, err := s.Character(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	ch := ChapterOf(*c)
	return &ch, nil
}

// Models returns one model view per character.
func (s *Service) Models(ctx context.Context) ([]model.Model, error) {
	chars, err := s.Characters(ctx)
	if err != nil {
		return nil, err
	}
	models := make([]model.Model, len(chars))
	for i, c := range chars {
		models[i] = ModelOf(c)
	}
	return models, nil
}

// Model returns the model view with the given id, or nil.
func (s *Service) Model(ctx context.Context, id int64) (*model.Model, error) {
	c, err := s.Character(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	m := ModelOf(*c)
	return &m, nil
}

// Search returns characters matching query in their name, description,
// chapter text or image captions. Without storage it searches seed data.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]model.Character, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	ok, err := s.readable(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return s.store.Search(ctx, store.SearchParams{Query: query, Limit: limit})
	}

	q := strings.ToLower(query)
	results := []model.Character{}
	for _, c := range seed.Characters() {
		if len(results) == limit {
			break
		}
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Description), q) ||
			strings.Contains(strings.ToLower(c.ChapterText), q) {
			results = append(results, c)
		}
	}
	return results, nil
}
