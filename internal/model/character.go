// Package model defines the catalog data types.
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Character is a catalog entry with its joined image gallery.
type Character struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	ModelURL    string     `json:"modelUrl"`
	ChapterText string     `json:"chapterText"`
	Images      []Image    `json:"images"`
	Documents   []Document `json:"documents"`
	CreatedAt   time.Time  `json:"createdAt,omitzero"`
	UpdatedAt   time.Time  `json:"updatedAt,omitzero"`
}

// Image is a gallery entry owned by a character. ID is zero until persisted.
type Image struct {
	ID          int64  `json:"id,omitempty"`
	CharacterID int64  `json:"characterId,omitempty"`
	URL         string `json:"url"`
	Caption     string `json:"caption,omitempty"`
	Order       int    `json:"order"`
}

// DocumentType is the kind of an attached document.
type DocumentType string

const (
	DocumentPDF  DocumentType = "pdf"
	DocumentText DocumentType = "text"
)

// Document is an attachment reference. Documents are not persisted.
type Document struct {
	ID   string       `json:"id"`
	URL  string       `json:"url"`
	Name string       `json:"name"`
	Type DocumentType `json:"type"`
}

// Chapter is the chapter view derived from a character.
type Chapter struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	CharacterID int64  `json:"characterId"`
}

// Model is the 3D model view derived from a character.
type Model struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ModelURL    string `json:"modelUrl"`
	CharacterID int64  `json:"characterId"`
}

// Setting is a key/value row. Value holds JSON.
type Setting struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// placeholderMarker identifies the generated placeholder images older data
// used in place of "no image".
const placeholderMarker = "placeholder.svg"

// IsPlaceholder reports whether url means "no image": empty or a legacy
// placeholder.
func IsPlaceholder(url string) bool {
	return url == "" || strings.Contains(url, placeholderMarker)
}

// NormalizeURL maps every "no image" encoding to the empty string.
func NormalizeURL(url string) string {
	if IsPlaceholder(url) {
		return ""
	}
	return url
}

// ResolveMainImage picks the main image URL: preferred if it is a real image,
// otherwise the first real image in gallery order, otherwise "".
func ResolveMainImage(preferred string, images []Image) string {
	if !IsPlaceholder(preferred) {
		return preferred
	}
	for _, img := range images {
		if !IsPlaceholder(img.URL) {
			return img.URL
		}
	}
	return ""
}

// MainImage returns the URL to display for c.
func (c *Character) MainImage() string {
	return ResolveMainImage(c.ImageURL, c.Images)
}

// HasImageURL reports whether any gallery image has the given url.
func (c *Character) HasImageURL(url string) bool {
	for _, img := range c.Images {
		if img.URL == url {
			return true
		}
	}
	return false
}
