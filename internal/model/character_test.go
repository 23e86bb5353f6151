package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(""))
	assert.True(t, IsPlaceholder("/placeholder.svg?height=400&width=400"))
	assert.False(t, IsPlaceholder("/images/buddha.jpg"))
}

func TestResolveMainImage(t *testing.T) {
	gallery := []Image{
		{URL: "/placeholder.svg"},
		{URL: "B"},
		{URL: "C"},
	}

	tests := []struct {
		name      string
		preferred string
		images    []Image
		want      string
	}{
		{"preferred wins", "A", gallery, "A"},
		{"first real image", "", gallery, "B"},
		{"placeholder preferred", "/placeholder.svg?x=1", gallery, "B"},
		{"no images", "", nil, ""},
		{"only placeholders", "", []Image{{URL: "/placeholder.svg"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMainImage(tt.preferred, tt.images))
		})
	}
}

func TestMainImageAndHasImageURL(t *testing.T) {
	c := Character{Images: []Image{{URL: "A"}, {URL: "B"}}}
	assert.Equal(t, "A", c.MainImage())
	assert.True(t, c.HasImageURL("B"))
	assert.False(t, c.HasImageURL("Z"))

	c.ImageURL = "B"
	assert.Equal(t, "B", c.MainImage())
}
