package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/sutra-power/internal/model"
	"github.com/rcliao/sutra-power/internal/seed"
	"github.com/rcliao/sutra-power/internal/store"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *store.SQLiteStore) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { st.Close() })
	return New(st, nil, opts...), st
}

func ptr[T any](v T) *T {
	return &v
}

func urls(images []model.Image) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = img.URL
	}
	return out
}

type migratorFunc func(ctx context.Context) error

func (f migratorFunc) Run(ctx context.Context) error { return f(ctx) }

func TestCharactersSeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	chars, err := svc.Characters(ctx)
	require.NoError(t, err)
	require.Len(t, chars, seed.Count)

	want := seed.Characters()
	for i := range want {
		assert.Equal(t, want[i].ID, chars[i].ID)
		assert.Equal(t, want[i].Name, chars[i].Name)
		assert.Equal(t, want[i].Description, chars[i].Description)
		assert.Equal(t, want[i].ChapterText, chars[i].ChapterText)
	}

	// A second read does not seed again.
	_, err = svc.Characters(ctx)
	require.NoError(t, err)
	n, err := st.CountCharacters(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Count, n)
}

func TestPrepareRunsMigrationBeforeSeeding(t *testing.T) {
	ctx := context.Background()
	calls := 0
	var svc *Service
	var st *store.SQLiteStore
	svc, st = newTestService(t, WithMigrator(migratorFunc(func(ctx context.Context) error {
		calls++
		_, err := st.SaveCharacterWithImages(ctx, &model.Character{Name: "migrated"})
		return err
	})))

	require.NoError(t, svc.Prepare(ctx))
	require.NoError(t, svc.Prepare(ctx))
	assert.Equal(t, 1, calls)

	chars, err := svc.Characters(ctx)
	require.NoError(t, err)
	require.Len(t, chars, 1)
	assert.Equal(t, "migrated", chars[0].Name)
}

func TestPrepareSwallowsMigrationErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, WithMigrator(migratorFunc(func(context.Context) error {
		return errors.New("legacy blob corrupt")
	})))

	require.NoError(t, svc.Prepare(ctx))
	chars, err := svc.Characters(ctx)
	require.NoError(t, err)
	assert.Len(t, chars, seed.Count)
}

func TestCreateCharacterRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	in := NewCharacter{
		Name:        "Test",
		Description: "D",
		ImageURL:    "blob:2",
		ModelURL:    "/uploads/models/x.glb",
		ChapterText: "<p>chapter</p>",
		Images: []model.Image{
			{URL: "blob:1", Caption: "one", Order: 5},
			{URL: "blob:2", Caption: "two", Order: 9},
		},
	}
	created, err := svc.CreateCharacter(ctx, in)
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(seed.Count))

	got, err := svc.Character(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, in.Description, got.Description)
	assert.Equal(t, in.ImageURL, got.ImageURL)
	assert.Equal(t, in.ModelURL, got.ModelURL)
	assert.Equal(t, in.ChapterText, got.ChapterText)
	require.Len(t, got.Images, 2)
	for i, img := range got.Images {
		assert.Equal(t, in.Images[i].URL, img.URL)
		assert.Equal(t, in.Images[i].Caption, img.Caption)
		assert.Equal(t, i, img.Order)
	}
	assert.Empty(t, got.Documents)
}

func TestImageScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	created, err := svc.CreateCharacter(ctx, NewCharacter{Name: "Test", Description: "D"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Greater(t, created.ID, int64(seed.Count))

	c, err := svc.AddCharacterImage(ctx, created.ID, NewImage{URL: "blob:1", Caption: "first"})
	require.NoError(t, err)
	assert.Equal(t, "blob:1", c.ImageURL)
	assert.Len(t, c.Images, 1)

	c, err = svc.AddCharacterImage(ctx, created.ID, NewImage{URL: "blob:2", Caption: "second"})
	require.NoError(t, err)
	assert.Equal(t, "blob:1", c.ImageURL)
	require.Len(t, c.Images, 2)
	assert.Equal(t, 0, c.Images[0].Order)
	assert.Equal(t, 1, c.Images[1].Order)
	assert.Equal(t, []string{"blob:1", "blob:2"}, urls(c.Images))
}

func TestAddCharacterImageSetAsMain(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.CreateCharacter(ctx, NewCharacter{
		Name:     "Test",
		ImageURL: "a",
		Images:   []model.Image{{URL: "a"}},
	})
	require.NoError(t, err)

	c, err = svc.AddCharacterImage(ctx, c.ID, NewImage{URL: "b", SetAsMain: true})
	require.NoError(t, err)
	assert.Equal(t, "b", c.ImageURL)
}

func TestAddCharacterImageReplacesPlaceholderMain(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	require.NoError(t, svc.Prepare(ctx))

	// Rows written before placeholders were normalized.
	id, err := st.SaveCharacterWithImages(ctx, &model.Character{
		Name:     "old",
		ImageURL: "/placeholder.svg?height=400&width=400&text=old",
	})
	require.NoError(t, err)

	c, err := svc.AddCharacterImage(ctx, id, NewImage{URL: "real.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "real.jpg", c.ImageURL)
}

func TestUpdateCharacterReplacesGallery(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.CreateCharacter(ctx, NewCharacter{
		Name:     "Test",
		ImageURL: "A",
		Images:   []model.Image{{URL: "A"}, {URL: "B"}, {URL: "C"}},
	})
	require.NoError(t, err)

	c, err = svc.UpdateCharacter(ctx, c.ID, CharacterPatch{Images: &[]model.Image{{URL: "D"}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"D"}, urls(c.Images))
	assert.Equal(t, "D", c.ImageURL)
}

func TestUpdateCharacterKeepsGalleryWhenOmitted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.CreateCharacter(ctx, NewCharacter{
		Name:        "Test",
		Description: "old",
		ImageURL:    "B",
		ModelURL:    "m.glb",
		Images:      []model.Image{{URL: "A"}, {URL: "B"}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCharacter(ctx, c.ID, CharacterPatch{Description: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "Test", updated.Name)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, "B", updated.ImageURL)
	assert.Equal(t, "m.glb", updated.ModelURL)
	assert.Equal(t, []string{"A", "B"}, urls(updated.Images))
	assert.Equal(t, c.Images[0].ID, updated.Images[0].ID)
}

func TestUpdateCharacterGalleryKeepsValidMain(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.CreateCharacter(ctx, NewCharacter{
		Name:     "Test",
		ImageURL: "B",
		Images:   []model.Image{{URL: "A"}, {URL: "B"}},
	})
	require.NoError(t, err)

	c, err = svc.UpdateCharacter(ctx, c.ID, CharacterPatch{Images: &[]model.Image{{URL: "C"}, {URL: "B"}}})
	require.NoError(t, err)
	assert.Equal(t, "B", c.ImageURL)
}

func TestUpdateCharacterExplicitMain(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.CreateCharacter(ctx, NewCharacter{Name: "Test", ImageURL: "A", Images: []model.Image{{URL: "A"}}})
	require.NoError(t, err)

	c, err = svc.UpdateCharacter(ctx, c.ID, CharacterPatch{ImageURL: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, c.ImageURL)
	assert.Len(t, c.Images, 1)
}

func TestRemoveMainImagePromotesNext(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.CreateCharacter(ctx, NewCharacter{
		Name:     "Test",
		ImageURL: "A",
		Images:   []model.Image{{URL: "A"}, {URL: "B"}},
	})
	require.NoError(t, err)
	a, b := c.Images[0], c.Images[1]

	c, err = svc.RemoveCharacterImage(ctx, c.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", c.ImageURL)
	assert.Equal(t, []string{"B"}, urls(c.Images))

	c, err = svc.RemoveCharacterImage(ctx, c.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "", c.ImageURL)
	assert.Empty(t, c.Images)
}

func TestRemoveNonMainImageKeepsMain(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.CreateCharacter(ctx, NewCharacter{
		Name:     "Test",
		ImageURL: "A",
		Images:   []model.Image{{URL: "A"}, {URL: "B"}},
	})
	require.NoError(t, err)

	c, err = svc.RemoveCharacterImage(ctx, c.ID, c.Images[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "A", c.ImageURL)
	assert.Equal(t, []string{"A"}, urls(c.Images))
	assert.Equal(t, 0, c.Images[0].Order)
}

func TestRemoveUnknownImage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.CreateCharacter(ctx, NewCharacter{Name: "Test", Images: []model.Image{{URL: "A"}}})
	require.NoError(t, err)

	got, err := svc.RemoveCharacterImage(ctx, c.ID, 99999)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, urls(got.Images))
}

func TestMutationsOnUnknownCharacter(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.UpdateCharacter(ctx, 9999, CharacterPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(9999), nf.ID)
	assert.Contains(t, err.Error(), "9999")

	_, err = svc.AddCharacterImage(ctx, 9999, NewImage{URL: "a"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RemoveCharacterImage(ctx, 9999, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddCharacterDocument(ctx, 9999, model.Document{Name: "doc"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupsOnUnknownIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.Character(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, c)

	ch, err := svc.Chapter(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, ch)

	m, err := svc.Model(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestDocumentStubs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	before, err := svc.Character(ctx, 1)
	require.NoError(t, err)

	after, err := svc.AddCharacterDocument(ctx, 1, model.Document{Name: "sutra", Type: model.DocumentPDF})
	require.NoError(t, err)
	assert.Equal(t, before, after)

	after, err = svc.RemoveCharacterDocument(ctx, 1, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestChaptersAndModelsFollowCharacters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.UpdateCharacter(ctx, 2, CharacterPatch{
		ChapterText: ptr("<p>rewritten</p>"),
		ModelURL:    ptr("/uploads/models/s.glb"),
	})
	require.NoError(t, err)

	chapters, err := svc.Chapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, seed.Count)
	assert.Equal(t, "<p>rewritten</p>", chapters[1].Content)
	assert.Equal(t, "Chapter 2: The Teachings of Samantabhadra", chapters[1].Title)
	assert.Equal(t, int64(2), chapters[1].CharacterID)

	models, err := svc.Models(ctx)
	require.NoError(t, err)
	require.Len(t, models, seed.Count)
	assert.Equal(t, "/uploads/models/s.glb", models[1].ModelURL)
	assert.Equal(t, "Samantabhadra Model", models[1].Name)

	ch, err := svc.Chapter(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, chapters[1], *ch)

	m, err := svc.Model(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, models[1], *m)
}

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	require.NoError(t, svc.Prepare(ctx))
	require.NoError(t, st.Close())

	_, err := svc.Characters(ctx)
	assert.ErrorIs(t, err, store.ErrUnavailable)

	_, err = svc.CreateCharacter(ctx, NewCharacter{Name: "x"})
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestSeedOnlyMode(t *testing.T) {
	ctx := context.Background()
	svc := New(nil, nil)
	assert.False(t, svc.Persistent())

	chars, err := svc.Characters(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Characters(), chars)

	c, err := svc.Character(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Manjushri", c.Name)

	c, err = svc.Character(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = svc.CreateCharacter(ctx, NewCharacter{Name: "Test"})
	assert.ErrorIs(t, err, store.ErrUnavailable)

	// Nothing persists across a reload.
	chars, err = New(nil, nil).Characters(ctx)
	require.NoError(t, err)
	assert.Len(t, chars, seed.Count)
}

func TestUnavailableStoreFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	svc := New(store.New(filepath.Join(blocker, "db", "test.db")), nil)

	chars, err := svc.Characters(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.Characters(), chars)

	_, err = svc.UpdateCharacter(ctx, 1, CharacterPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateCharacter(ctx, NewCharacter{
		Name:   "Robe Bearer",
		Images: []model.Image{{URL: "l.jpg", Caption: "in saffron robes"}},
	})
	require.NoError(t, err)

	results, err := svc.Search(ctx, "Saffron", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Robe Bearer", results[0].Name)
	assert.Equal(t, []string{"l.jpg"}, urls(results[0].Images))
}

func TestSearchSeedOnly(t *testing.T) {
	svc := New(nil, nil)

	results, err := svc.Search(context.Background(), "manjushri", 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Manjushri", results[0].Name)

	results, err = svc.Search(context.Background(), "bodhisattva", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchStoreAndSeedAgreeOnWildcards(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	stored, err := svc.Search(ctx, "%", 0)
	require.NoError(t, err)
	seeded, err := New(nil, nil).Search(ctx, "%", 0)
	require.NoError(t, err)

	assert.Empty(t, stored)
	assert.Empty(t, seeded)
}

func TestUpdateCharacterWithForeignImageIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	one, err := svc.CreateCharacter(ctx, NewCharacter{
		Name:   "One",
		Images: []model.Image{{URL: "A"}, {URL: "B"}},
	})
	require.NoError(t, err)
	two, err := svc.CreateCharacter(ctx, NewCharacter{Name: "Two"})
	require.NoError(t, err)

	copied := append([]model.Image(nil), one.Images...)
	updated, err := svc.UpdateCharacter(ctx, two.ID, CharacterPatch{Images: &copied})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, urls(updated.Images))
	for _, img := range updated.Images {
		assert.NotEqual(t, one.Images[0].ID, img.ID)
		assert.NotEqual(t, one.Images[1].ID, img.ID)
	}

	// The source gallery is untouched.
	reloaded, err := svc.Character(ctx, one.ID)
	require.NoError(t, err)
	assert.Equal(t, one.Images, reloaded.Images)
}

func TestUpdateCharacterWithDuplicateImage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	c, err := svc.CreateCharacter(ctx, NewCharacter{
		Name:   "Dup",
		Images: []model.Image{{URL: "A"}},
	})
	require.NoError(t, err)

	doubled := []model.Image{c.Images[0], c.Images[0]}
	updated, err := svc.UpdateCharacter(ctx, c.ID, CharacterPatch{Images: &doubled})
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, []string{"A", "A"}, urls(updated.Images))
	assert.Equal(t, c.Images[0].ID, updated.Images[0].ID)
	assert.NotEqual(t, updated.Images[0].ID, updated.Images[1].ID)
}
