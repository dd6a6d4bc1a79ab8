// Package repository exposes typed CRUD interfaces over the datastore so
// that services and handlers never touch the ORM directly.
package repository

import (
	"context"

	"places-backend/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// PlaceFilter narrows and orders place listings.
type PlaceFilter struct {
	Category string
	// ByRating orders results by rating descending (the geographic feed).
	// Otherwise listings come back in creation order.
	ByRating bool
}

type PlaceRepository interface {
	Create(ctx context.Context, place *models.Place) error
	// GetByID loads a place with its author and its images in display order.
	GetByID(ctx context.Context, id uint) (*models.Place, error)
	List(ctx context.Context, filter PlaceFilter) ([]models.Place, error)
	Update(ctx context.Context, place *models.Place) error
	Delete(ctx context.Context, id uint) error
}

type ImageRepository interface {
	// Save persists the image and re-enforces the single-thumbnail
	// invariant: when the image claims the thumbnail flag, the flag is
	// cleared on all sibling images of the same place first. Save order is
	// significant; the most recently saved claimant wins.
	Save(ctx context.Context, img *models.PlaceImage) error
	// GetForPlace looks an image up by ID scoped to the given place.
	GetForPlace(ctx context.Context, placeID, imageID uint) (*models.PlaceImage, error)
	ListForPlace(ctx context.Context, placeID uint) ([]models.PlaceImage, error)
	Delete(ctx context.Context, img *models.PlaceImage) error
}

// Repositories bundles the per-entity repositories and provides a
// transaction scope spanning all of them.
type Repositories interface {
	Users() UserRepository
	Places() PlaceRepository
	Images() ImageRepository
	// Transaction runs fn against transactional repositories. The
	// transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(Repositories) error) error
}
