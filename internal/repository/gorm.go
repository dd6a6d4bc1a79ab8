package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"places-backend/models"
)

// Gorm implements Repositories on top of a *gorm.DB handle. The same type
// serves both the root handle and transactional handles.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) Users() UserRepository   { return &gormUsers{db: g.db} }
func (g *Gorm) Places() PlaceRepository { return &gormPlaces{db: g.db} }
func (g *Gorm) Images() ImageRepository { return &gormImages{db: g.db} }

func (g *Gorm) Transaction(ctx context.Context, fn func(Repositories) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGorm(tx))
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}

type gormUsers struct {
	db *gorm.DB
}

func (r *gormUsers) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *gormUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *gormUsers) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

type gormPlaces struct {
	db *gorm.DB
}

func (r *gormPlaces) Create(ctx context.Context, place *models.Place) error {
	return r.db.WithContext(ctx).Create(place).Error
}

func (r *gormPlaces) GetByID(ctx context.Context, id uint) (*models.Place, error) {
	var place models.Place
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&place, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &place, nil
}

func (r *gormPlaces) List(ctx context.Context, filter PlaceFilter) ([]models.Place, error) {
	q := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.ByRating {
		q = q.Order("rating DESC NULLS LAST").Order("id")
	} else {
		q = q.Order("id")
	}

	var places []models.Place
	if err := q.Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

func (r *gormPlaces) Update(ctx context.Context, place *models.Place) error {
	// Save without the Images association so image rows are only touched
	// through the ImageRepository.
	return r.db.WithContext(ctx).Omit("Images", "Author").Save(place).Error
}

func (r *gormPlaces) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("place_id = ?", id).Delete(&models.PlaceImage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Place{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

type gormImages struct {
	db *gorm.DB
}

func (r *gormImages) Save(ctx context.Context, img *models.PlaceImage) error {
	if img.PlaceID == 0 {
		return fmt.Errorf("image has no place")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if img.IsThumbnail {
			err := tx.Model(&models.PlaceImage{}).
				Where("place_id = ? AND id <> ?", img.PlaceID, img.ID).
				Update("is_thumbnail", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Save(img).Error
	})
}

func (r *gormImages) GetForPlace(ctx context.Context, placeID, imageID uint) (*models.PlaceImage, error) {
	var img models.PlaceImage
	err := r.db.WithContext(ctx).
		Where("id = ? AND place_id = ?", imageID, placeID).
		First(&img).Error
	if err != nil {
		return nil, translate(err)
	}
	return &img, nil
}

func (r *gormImages) ListForPlace(ctx context.Context, placeID uint) ([]models.PlaceImage, error) {
	var imgs []models.PlaceImage
	err := r.db.WithContext(ctx).
		Where("place_id = ?", placeID).
		Order("position ASC, id ASC").
		Find(&imgs).Error
	if err != nil {
		return nil, err
	}
	return imgs, nil
}

func (r *gormImages) Delete(ctx context.Context, img *models.PlaceImage) error {
	return r.db.WithContext(ctx).Delete(img).Error
}
