package seed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharactersDeterministic(t *testing.T) {
	a, err := json.Marshal(Characters())
	require.NoError(t, err)
	b, err := json.Marshal(Characters())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCharactersShape(t *testing.T) {
	chars := Characters()
	require.Len(t, chars, Count)

	seen := map[string]bool{}
	for i, c := range chars {
		assert.Equal(t, int64(i+1), c.ID)
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Description)
		assert.Empty(t, c.ImageURL)
		assert.Empty(t, c.ModelURL)
		assert.Empty(t, c.Images)
		assert.Contains(t, c.ChapterText, c.Name)
		assert.False(t, seen[c.Name], "duplicate name %q", c.Name)
		seen[c.Name] = true
	}

	assert.Equal(t, "Buda Śākyamuni", chars[0].Name)
	assert.Equal(t, "Character 54", chars[53].Name)
	assert.Equal(t, fallbackDescription, chars[53].Description)
}

func TestCharactersReturnsFreshSlices(t *testing.T) {
	a := Characters()
	a[0].Name = "changed"
	b := Characters()
	assert.Equal(t, "Buda Śākyamuni", b[0].Name)
}

func TestCharacter(t *testing.T) {
	c, ok := Character(3)
	require.True(t, ok)
	assert.Equal(t, "Manjushri", c.Name)

	_, ok = Character(0)
	assert.False(t, ok)
	_, ok = Character(Count + 1)
	assert.False(t, ok)
}
