// Package places implements the place read/query and write/edit services:
// creation with an initial image batch, the composite edit workflow, and
// the map-ready GeoJSON feed.
package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"places-backend/internal/repository"
	"places-backend/internal/storage"
	"places-backend/models"
)

type Service struct {
	repos        repository.Repositories
	store        storage.Storage
	maxImageSize int64
	thumbWidth   int
}

func NewService(repos repository.Repositories, store storage.Storage, maxImageSize int64, thumbWidth int) *Service {
	return &Service{
		repos:        repos,
		store:        store,
		maxImageSize: maxImageSize,
		thumbWidth:   thumbWidth,
	}
}

// ImageUpload is one new image in a create or edit request, already zipped
// from the request's parallel file/caption/thumbnail lists.
type ImageUpload struct {
	Filename    string
	Data        []byte
	Caption     string
	IsThumbnail bool
}

// ExistingImageUpdate retargets caption and thumbnail flag of an image
// already attached to the place.
type ExistingImageUpdate struct {
	ID          uint
	Caption     string
	IsThumbnail bool
}

// PlaceFields is a partial scalar-field update. Nil pointers leave the
// stored value unchanged; ClearRating resets the rating to null.
type PlaceFields struct {
	Name        *string
	Subtitle    *string
	Description *string
	Category    *string
	Longitude   *float64
	Latitude    *float64
	Rating      *float64
	ClearRating bool
}

func (f PlaceFields) apply(p *models.Place) {
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.Subtitle != nil {
		p.Subtitle = *f.Subtitle
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Category != nil {
		p.Category = *f.Category
	}
	if f.Longitude != nil {
		p.Longitude = *f.Longitude
	}
	if f.Latitude != nil {
		p.Latitude = *f.Latitude
	}
	if f.Rating != nil {
		p.Rating = f.Rating
	} else if f.ClearRating {
		p.Rating = nil
	}
}

// EditRequest bundles the change-sets of one composite edit. They are
// applied in order: existing-image updates, deletions, new images, scalar
// fields. The order is significant for the final thumbnail state.
type EditRequest struct {
	Fields          PlaceFields
	ExistingUpdates []ExistingImageUpdate
	DeleteIDs       []uint
	NewImages       []ImageUpload
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Place, error) {
	return s.repos.Places().GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, category string) ([]models.Place, error) {
	return s.repos.Places().List(ctx, repository.PlaceFilter{Category: category})
}

// Create persists a place owned by authorID together with its initial image
// batch. Nothing is persisted when field or image validation fails.
func (s *Service) Create(ctx context.Context, authorID uint, fields PlaceFields, images []ImageUpload) (*models.Place, error) {
	place := &models.Place{AuthorID: &authorID}
	fields.apply(place)
	if err := place.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateUploads(images); err != nil {
		return nil, err
	}

	var uploaded []string
	err := s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		if err := tx.Places().Create(ctx, place); err != nil {
			return err
		}
		for i, up := range images {
			img, keys, err := s.storeImage(ctx, place.ID, up, uint(i))
			if err != nil {
				return err
			}
			uploaded = append(uploaded, keys...)
			if err := tx.Images().Save(ctx, img); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.removeFiles(ctx, uploaded)
		return nil, err
	}

	return s.Get(ctx, place.ID)
}

// Edit applies one composite edit as a single database transaction. The
// request is validated up front, so a batch mismatch or field violation
// leaves the place and its images untouched. Unknown existing-image IDs are
// silently skipped. Stored files of deleted images are removed only after
// the transaction commits.
func (s *Service) Edit(ctx context.Context, userID, placeID uint, req EditRequest) (*models.Place, error) {
	place, err := s.authorPlace(ctx, userID, placeID)
	if err != nil {
		return nil, err
	}

	req.Fields.apply(place)
	if err := place.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateUploads(req.NewImages); err != nil {
		return nil, err
	}

	var uploaded, obsolete []string
	err = s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		for _, u := range req.ExistingUpdates {
			img, err := tx.Images().GetForPlace(ctx, placeID, u.ID)
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			img.Caption = u.Caption
			img.IsThumbnail = u.IsThumbnail
			if err := tx.Images().Save(ctx, img); err != nil {
				return err
			}
		}

		for _, id := range req.DeleteIDs {
			img, err := tx.Images().GetForPlace(ctx, placeID, id)
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := tx.Images().Delete(ctx, img); err != nil {
				return err
			}
			obsolete = append(obsolete, imageKeys(img)...)
		}

		if len(req.NewImages) > 0 {
			remaining, err := tx.Images().ListForPlace(ctx, placeID)
			if err != nil {
				return err
			}
			pos := nextPosition(remaining)
			for i, up := range req.NewImages {
				img, keys, err := s.storeImage(ctx, placeID, up, pos+uint(i))
				if err != nil {
					return err
				}
				uploaded = append(uploaded, keys...)
				if err := tx.Images().Save(ctx, img); err != nil {
					return err
				}
			}
		}

		return tx.Places().Update(ctx, place)
	})
	if err != nil {
		s.removeFiles(ctx, uploaded)
		return nil, err
	}
	s.removeFiles(ctx, obsolete)

	return s.Get(ctx, placeID)
}

// Delete removes the place, its image rows and their stored files. Files go
// only after the database delete succeeds.
func (s *Service) Delete(ctx context.Context, userID, placeID uint) error {
	place, err := s.authorPlace(ctx, userID, placeID)
	if err != nil {
		return err
	}

	var keys []string
	for i := range place.Images {
		keys = append(keys, imageKeys(&place.Images[i])...)
	}

	if err := s.repos.Places().Delete(ctx, placeID); err != nil {
		return err
	}
	s.removeFiles(ctx, keys)
	return nil
}

// ImageURL returns the absolute URL of the stored original.
func (s *Service) ImageURL(img *models.PlaceImage) string {
	return s.store.URL(img.StorageKey)
}

// ThumbnailURL returns the absolute URL of the place's preview image, or
// nil when no image carries the thumbnail flag. The downscaled rendition is
// preferred when one was generated at upload time.
func (s *Service) ThumbnailURL(place *models.Place) *string {
	thumb := place.Thumbnail()
	if thumb == nil {
		return nil
	}
	key := thumb.StorageKey
	if thumb.ThumbKey != "" {
		key = thumb.ThumbKey
	}
	url := s.store.URL(key)
	return &url
}

func (s *Service) authorPlace(ctx context.Context, userID, placeID uint) (*models.Place, error) {
	place, err := s.repos.Places().GetByID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if place.AuthorID == nil || *place.AuthorID != userID {
		return nil, models.ErrForbidden
	}
	return place, nil
}

func (s *Service) validateUploads(images []ImageUpload) error {
	for _, up := range images {
		if err := models.ValidateImageUpload(up.Filename, int64(len(up.Data)), s.maxImageSize); err != nil {
			return err
		}
	}
	return nil
}

// storeImage writes the original (and, best effort, a downscaled rendition)
// to object storage and returns the unsaved image row plus the written keys
// for compensation on rollback.
func (s *Service) storeImage(ctx context.Context, placeID uint, up ImageUpload, position uint) (*models.PlaceImage, []string, error) {
	id := uuid.New().String()
	key := fmt.Sprintf("places/%d/originals/%s_%s", placeID, id, up.Filename)
	contentType := contentTypeFor(up.Filename)

	if err := s.store.Save(ctx, key, up.Data, contentType); err != nil {
		return nil, nil, err
	}
	keys := []string{key}

	thumbKey := ""
	if resized, err := resizeImage(up.Data, s.thumbWidth); err != nil {
		slog.Warn("Skipping thumbnail rendition", "filename", up.Filename, "error", err)
	} else {
		thumbKey = fmt.Sprintf("places/%d/thumbs/%s_%s", placeID, id, up.Filename)
		if err := s.store.Save(ctx, thumbKey, resized, contentType); err != nil {
			return nil, keys, err
		}
		keys = append(keys, thumbKey)
	}

	img := &models.PlaceImage{
		PlaceID:     placeID,
		StorageKey:  key,
		ThumbKey:    thumbKey,
		Filename:    up.Filename,
		Caption:     up.Caption,
		IsThumbnail: up.IsThumbnail,
		Position:    position,
	}
	return img, keys, nil
}

func (s *Service) removeFiles(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			slog.Error("Failed to delete stored file", "key", key, "error", err)
		}
	}
}

func imageKeys(img *models.PlaceImage) []string {
	keys := []string{img.StorageKey}
	if img.ThumbKey != "" {
		keys = append(keys, img.ThumbKey)
	}
	return keys
}

func nextPosition(imgs []models.PlaceImage) uint {
	var next uint
	for _, img := range imgs {
		if img.Position >= next {
			next = img.Position + 1
		}
	}
	return next
}

func contentTypeFor(filename string) string {
	if strings.ToLower(filepath.Ext(filename)) == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}
