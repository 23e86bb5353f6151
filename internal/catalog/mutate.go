package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rcliao/sutra-power/internal/model"
)

// NewCharacter holds the fields of a character to create. Documents are
// accepted but not persisted.
type NewCharacter struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	ImageURL    string           `json:"imageUrl"`
	ModelURL    string           `json:"modelUrl"`
	ChapterText string           `json:"chapterText"`
	Images      []model.Image    `json:"images"`
	Documents   []model.Document `json:"documents"`
}

// CharacterPatch is a partial update. A nil field keeps the current value; a
// set field replaces it. Images replaces the whole gallery.
type CharacterPatch struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	ImageURL    *string        `json:"imageUrl,omitempty"`
	ModelURL    *string        `json:"modelUrl,omitempty"`
	ChapterText *string        `json:"chapterText,omitempty"`
	Images      *[]model.Image `json:"images,omitempty"`
}

// NewImage is an image to append to a gallery.
type NewImage struct {
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	SetAsMain bool   `json:"setAsMain,omitempty"`
}

// writable prepares the store for a mutation.
func (s *Service) writable(ctx context.Context, op string) error {
	if err := s.Prepare(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// existing loads the character a mutation targets.
func (s *Service) existing(ctx context.Context, id int64) (*model.Character, error) {
	c, err := s.store.GetCharacterWithImages(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &NotFoundError{ID: id}
	}
	return c, nil
}

// save writes c with its gallery and returns the stored result.
func (s *Service) save(ctx context.Context, c *model.Character) (*model.Character, error) {
	id, err := s.store.SaveCharacterWithImages(ctx, c)
	if err != nil {
		return nil, err
	}
	saved, err := s.store.GetCharacterWithImages(ctx, id)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("character %d missing after save", id)
	}
	return saved, nil
}

// CreateCharacter stores a new character with its gallery and returns it with
// its assigned id.
func (s *Service) CreateCharacter(ctx context.Context, in NewCharacter) (*model.Character, error) {
	if err := s.writable(ctx, "create character"); err != nil {
		return nil, err
	}

	c := &model.Character{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    model.NormalizeURL(in.ImageURL),
		ModelURL:    in.ModelURL,
		ChapterText: in.ChapterText,
		Images:      make([]model.Image, len(in.Images)),
	}
	for i, img := range in.Images {
		c.Images[i] = model.Image{URL: img.URL, Caption: img.Caption}
	}

	saved, err := s.save(ctx, c)
	if err != nil {
		s.log.Error("create character", zap.String("name", in.Name), zap.Error(err))
		return nil, err
	}
	return saved, nil
}

// UpdateCharacter applies patch to the character with the given id. When the
// gallery is replaced without a new main image and the current main image is
// missing from the new gallery, the main image is resolved again.
func (s *Service) UpdateCharacter(ctx context.Context, id int64, patch CharacterPatch) (*model.Character, error) {
	if err := s.writable(ctx, "update character"); err != nil {
		return nil, err
	}

	c, err := s.existing(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.ModelURL != nil {
		c.ModelURL = *patch.ModelURL
	}
	if patch.ChapterText != nil {
		c.ChapterText = *patch.ChapterText
	}
	if patch.Images != nil {
		c.Images = ownImages(c.Images, *patch.Images)
	}

	switch {
	case patch.ImageURL != nil:
		c.ImageURL = model.NormalizeURL(*patch.ImageURL)
	case patch.Images != nil && (model.IsPlaceholder(c.ImageURL) || !c.HasImageURL(c.ImageURL)):
		c.ImageURL = model.ResolveMainImage("", c.Images)
	}

	saved, err := s.save(ctx, c)
	if err != nil {
		s.log.Error("update character", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return saved, nil
}

// ownImages copies a replacement gallery. An image keeps its id only when it
// belongs to the current gallery and appears once; every other image is
// inserted as new.
func ownImages(current, replacement []model.Image) []model.Image {
	owned := make(map[int64]bool, len(current))
	for _, img := range current {
		owned[img.ID] = true
	}

	images := make([]model.Image, len(replacement))
	for i, img := range replacement {
		id := img.ID
		if id > 0 && owned[id] {
			owned[id] = false
		} else {
			id = 0
		}
		images[i] = model.Image{ID: id, URL: img.URL, Caption: img.Caption}
	}
	return images
}

// AddCharacterImage appends an image to the gallery. The image becomes the main
// image when the character has none or when in.SetAsMain is set.
func (s *Service) AddCharacterImage(ctx context.Context, id int64, in NewImage) (*model.Character, error) {
	if err := s.writable(ctx, "add character image"); err != nil {
		return nil, err
	}

	c, err := s.existing(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Images = append(c.Images, model.Image{URL: in.URL, Caption: in.Caption})
	if model.IsPlaceholder(c.ImageURL) || in.SetAsMain {
		c.ImageURL = model.NormalizeURL(in.URL)
	}

	saved, err := s.save(ctx, c)
	if err != nil {
		s.log.Error("add character image", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return saved, nil
}

// RemoveCharacterImage deletes one image from the gallery. Removing the main
// image promotes the first remaining image, or clears the main image. An
// unknown image id leaves the character unchanged.
func (s *Service) RemoveCharacterImage(ctx context.Context, id, imageID int64) (*model.Character, error) {
	if err := s.writable(ctx, "remove character image"); err != nil {
		return nil, err
	}

	c, err := s.existing(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, img := range c.Images {
		if img.ID == imageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c, nil
	}

	removed := c.Images[idx]
	c.Images = append(c.Images[:idx:idx], c.Images[idx+1:]...)
	if removed.URL == c.ImageURL {
		c.ImageURL = model.ResolveMainImage("", c.Images)
	}

	saved, err := s.save(ctx, c)
	if err != nil {
		s.log.Error("remove character image",
			zap.Int64("id", id), zap.Int64("image_id", imageID), zap.Error(err))
		return nil, err
	}
	return saved, nil
}

// AddCharacterDocument returns the character unchanged. Documents are not
// stored yet.
func (s *Service) AddCharacterDocument(ctx context.Context, id int64, _ model.Document) (*model.Character, error) {
	return s.documentTarget(ctx, id)
}

// RemoveCharacterDocument returns the character unchanged. Documents are not
// stored yet.
func (s *Service) RemoveCharacterDocument(ctx context.Context, id int64, _ string) (*model.Character, error) {
	return s.documentTarget(ctx, id)
}

func (s *Service) documentTarget(ctx context.Context, id int64) (*model.Character, error) {
	c, err := s.Character(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &NotFoundError{ID: id}
	}
	return c, nil
}
