package places

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"places-backend/internal/repository"
	"places-backend/internal/storage"
	"places-backend/models"
)

func newTestService(t *testing.T) (*Service, *repository.Memory, *storage.MemoryStorage) {
	t.Helper()
	repos := repository.NewMemory()
	store := storage.NewMemoryStorage()
	return NewService(repos, store, 5<<20, 320), repos, store
}

func newTestUser(t *testing.T, repos *repository.Memory, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, repos.Users().Create(context.Background(), user))
	return user
}

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

func testFields() PlaceFields {
	return PlaceFields{
		Name:      strPtr("Lighthouse Point"),
		Subtitle:  strPtr("Rocky overlook"),
		Longitude: f64Ptr(-122.4194),
		Latitude:  f64Ptr(37.7749),
		Category:  strPtr("nature"),
		Rating:    f64Ptr(4.5),
	}
}

func upload(name, caption string, thumbnail bool) ImageUpload {
	return ImageUpload{
		Filename:    name,
		Data:        []byte("fake image bytes for " + name),
		Caption:     caption,
		IsThumbnail: thumbnail,
	}
}

func TestCreatePlaceWithImages(t *testing.T) {
	svc, repos, store := newTestService(t)
	user := newTestUser(t, repos, "creator")
	ctx := context.Background()

	place, err := svc.Create(ctx, user.ID, testFields(), []ImageUpload{
		upload("one.jpg", "First", true),
		upload("two.jpg", "Second", false),
	})
	require.NoError(t, err)

	assert.Equal(t, "Lighthouse Point", place.Name)
	require.NotNil(t, place.AuthorID)
	assert.Equal(t, user.ID, *place.AuthorID)
	require.Len(t, place.Images, 2)
	assert.Equal(t, "First", place.Images[0].Caption)
	assert.True(t, place.Images[0].IsThumbnail)
	assert.False(t, place.Images[1].IsThumbnail)

	// One stored object per image (renditions are best effort and the test
	// bytes are not decodable).
	assert.Equal(t, 2, store.Len())
	assert.True(t, store.Has(place.Images[0].StorageKey))
	assert.True(t, store.Has(place.Images[1].StorageKey))
}

func TestCreateThumbnailLastWriteWins(t *testing.T) {
	svc, repos, _ := newTestService(t)
	user := newTestUser(t, repos, "creator")

	place, err := svc.Create(context.Background(), user.ID, testFields(), []ImageUpload{
		upload("a.jpg", "A", true),
		upload("b.jpg", "B", true),
	})
	require.NoError(t, err)

	var thumbs []string
	for _, img := range place.Images {
		if img.IsThumbnail {
			thumbs = append(thumbs, img.Caption)
		}
	}
	assert.Equal(t, []string{"B"}, thumbs)
}

func TestCreateInvalidFieldsPersistsNothing(t *testing.T) {
	svc, repos, store := newTestService(t)
	user := newTestUser(t, repos, "creator")

	fields := testFields()
	fields.Rating = f64Ptr(6)
	_, err := svc.Create(context.Background(), user.ID, fields, nil)
	var fieldErrs models.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "rating")

	list, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, store.Len())
}

func TestCreateRejectsBadExtension(t *testing.T) {
	svc, repos, store := newTestService(t)
	user := newTestUser(t, repos, "creator")

	_, err := svc.Create(context.Background(), user.ID, testFields(), []ImageUpload{
		upload("one.gif", "Animated", false),
	})
	var fieldErrs models.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "images")
	assert.Equal(t, 0, store.Len())
}

func TestEditMixedOperations(t *testing.T) {
	svc, repos, store := newTestService(t)
	user := newTestUser(t, repos, "creator")
	ctx := context.Background()

	place, err := svc.Create(ctx, user.ID, testFields(), []ImageUpload{
		upload("a.jpg", "Keep me", true),
		upload("b.jpg", "Delete me", false),
	})
	require.NoError(t, err)
	keep, del := place.Images[0], place.Images[1]

	updated, err := svc.Edit(ctx, user.ID, place.ID, EditRequest{
		Fields: PlaceFields{
			Name:     strPtr("Complex Update"),
			Category: strPtr("city"),
			Rating:   f64Ptr(3.5),
		},
		ExistingUpdates: []ExistingImageUpdate{
			{ID: keep.ID, Caption: "Updated kept image", IsThumbnail: false},
		},
		DeleteIDs: []uint{del.ID},
		NewImages: []ImageUpload{upload("c.jpg", "New thumbnail", true)},
	})
	require.NoError(t, err)

	assert.Equal(t, "Complex Update", updated.Name)
	assert.Equal(t, "city", updated.Category)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 3.5, *updated.Rating)

	require.Len(t, updated.Images, 2)
	byCaption := map[string]models.PlaceImage{}
	for _, img := range updated.Images {
		byCaption[img.Caption] = img
	}
	assert.False(t, byCaption["Updated kept image"].IsThumbnail)
	assert.True(t, byCaption["New thumbnail"].IsThumbnail)

	// Deleted image row and file are both gone.
	assert.False(t, store.Has(del.StorageKey))
	assert.True(t, store.Has(keep.StorageKey))
}

func TestEditExactlyOneThumbnail(t *testing.T) {
	svc, repos, _ := newTestService(t)
	user := newTestUser(t, repos, "creator")
	ctx := context.Background()

	place, err := svc.Create(ctx, user.ID, testFields(), []ImageUpload{
		upload("a.jpg", "A", true),
		upload("b.jpg", "B", false),
	})
	require.NoError(t, err)

	updated, err := svc.Edit(ctx, user.ID, place.ID, EditRequest{
		ExistingUpdates: []ExistingImageUpdate{
			{ID: place.Images[0].ID, Caption: "A", IsThumbnail: false},
		},
		NewImages: []ImageUpload{upload("c.jpg", "C", true)},
	})
	require.NoError(t, err)

	count := 0
	var thumbCaption string
	for _, img := range updated.Images {
		if img.IsThumbnail {
			count++
			thumbCaption = img.Caption
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, "C", thumbCaption)
}

func TestEditSkipsUnknownExistingImageIDs(t *testing.T) {
	svc, repos, _ := newTestService(t)
	user := newTestUser(t, repos, "creator")
	ctx := context.Background()

	place, err := svc.Create(ctx, user.ID, testFields(), nil)
	require.NoError(t, err)

	updated, err := svc.Edit(ctx, user.ID, place.ID, EditRequest{
		ExistingUpdates: []ExistingImageUpdate{
			{ID: 999999, Caption: "Some caption", IsThumbnail: true},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Images)
}

func TestEditDeleteScopedToPlace(t *testing.T) {
	svc, repos, store := newTestService(t)
	user := newTestUser(t, repos, "creator")
	ctx := context.Background()

	mine, err := svc.Create(ctx, user.ID, testFields(), nil)
	require.NoError(t, err)
	other, err := svc.Create(ctx, user.ID, testFields(), []ImageUpload{
		upload("other.jpg", "Not yours", false),
	})
	require.NoError(t, err)

	// Deleting another place's image ID through this place is a no-op.
	_, err = svc.Edit(ctx, user.ID, mine.ID, EditRequest{
		DeleteIDs: []uint{other.Images[0].ID},
	})
	require.NoError(t, err)

	refreshed, err := svc.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, refreshed.Images, 1)
	assert.True(t, store.Has(other.Images[0].StorageKey))
}

func TestEditAuthorization(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := newTestUser(t, repos, "owner")
	stranger := newTestUser(t, repos, "stranger")
	ctx := context.Background()

	place, err := svc.Create(ctx, owner.ID, testFields(), nil)
	require.NoError(t, err)

	_, err = svc.Edit(ctx, stranger.ID, place.ID, EditRequest{
		Fields: PlaceFields{Name: strPtr("Hijacked")},
	})
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = svc.Delete(ctx, stranger.ID, place.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.Edit(ctx, owner.ID, 424242, EditRequest{})
	assert.ErrorIs(t, err, models.ErrNotFound)

	refreshed, err := svc.Get(ctx, place.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lighthouse Point", refreshed.Name)
}

func TestDeletePlaceRemovesFiles(t *testing.T) {
	svc, repos, store := newTestService(t)
	user := newTestUser(t, repos, "creator")
	ctx := context.Background()

	place, err := svc.Create(ctx, user.ID, testFields(), []ImageUpload{
		upload("a.jpg", "A", true),
		upload("b.jpg", "B", false),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	require.NoError(t, svc.Delete(ctx, user.ID, place.ID))

	_, err = svc.Get(ctx, place.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestGeoJSONOrderingAndFiltering(t *testing.T) {
	svc, repos, _ := newTestService(t)
	user := newTestUser(t, repos, "creator")
	ctx := context.Background()

	mk := func(name, category string, rating *float64) *models.Place {
		fields := testFields()
		fields.Name = strPtr(name)
		fields.Category = strPtr(category)
		fields.Rating = rating
		if rating == nil {
			fields.ClearRating = true
		}
		place, err := svc.Create(ctx, user.ID, fields, nil)
		require.NoError(t, err)
		return place
	}

	mk("Middling", "nature", f64Ptr(3))
	mk("Unrated", "city", nil)
	mk("Best", "nature", f64Ptr(4.5))

	fc, err := svc.GeoJSON(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "Best", fc.Features[0].Properties.Name)
	assert.Equal(t, "Middling", fc.Features[1].Properties.Name)
	assert.Equal(t, "Unrated", fc.Features[2].Properties.Name)

	for _, f := range fc.Features {
		assert.Equal(t, "Feature", f.Type)
		assert.Equal(t, "Point", f.Geometry.Type)
		assert.Equal(t, -122.4194, f.Geometry.Coordinates[0])
		assert.Equal(t, 37.7749, f.Geometry.Coordinates[1])
		assert.Nil(t, f.Properties.ThumbnailURL)
	}

	natureOnly, err := svc.GeoJSON(ctx, "nature")
	require.NoError(t, err)
	assert.Len(t, natureOnly.Features, 2)
}

func TestGeoJSONThumbnailURL(t *testing.T) {
	svc, repos, _ := newTestService(t)
	user := newTestUser(t, repos, "creator")
	ctx := context.Background()

	_, err := svc.Create(ctx, user.ID, testFields(), []ImageUpload{
		upload("cover.jpg", "Cover", true),
	})
	require.NoError(t, err)

	fc, err := svc.GeoJSON(ctx, "")
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	require.NotNil(t, fc.Features[0].Properties.ThumbnailURL)
	assert.Contains(t, *fc.Features[0].Properties.ThumbnailURL, "cover.jpg")
}
