package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"places-backend/models"
)

// Memory is an in-memory Repositories implementation used by tests. It
// mirrors the gorm implementation's ordering and scoping semantics.
// Transaction runs fn directly without rollback support.
type Memory struct {
	mu     sync.Mutex
	users  map[uint]models.User
	places map[uint]models.Place
	images map[uint]models.PlaceImage
	nextID uint
}

func NewMemory() *Memory {
	return &Memory{
		users:  make(map[uint]models.User),
		places: make(map[uint]models.Place),
		images: make(map[uint]models.PlaceImage),
		nextID: 1,
	}
}

func (m *Memory) Users() UserRepository   { return &memoryUsers{m} }
func (m *Memory) Places() PlaceRepository { return &memoryPlaces{m} }
func (m *Memory) Images() ImageRepository { return &memoryImages{m} }

func (m *Memory) Transaction(ctx context.Context, fn func(Repositories) error) error {
	return fn(m)
}

func (m *Memory) allocID() uint {
	id := m.nextID
	m.nextID++
	return id
}

type memoryUsers struct {
	m *Memory
}

func (r *memoryUsers) Create(ctx context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user.ID = r.m.allocID()
	user.CreatedAt = time.Now()
	r.m.users[user.ID] = *user
	return nil
}

func (r *memoryUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &user, nil
}

func (r *memoryUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, user := range r.m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memoryUsers) List(ctx context.Context) ([]models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	users := make([]models.User, 0, len(r.m.users))
	for _, user := range r.m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

type memoryPlaces struct {
	m *Memory
}

func (r *memoryPlaces) Create(ctx context.Context, place *models.Place) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	place.ID = r.m.allocID()
	place.CreatedAt = time.Now()
	place.UpdatedAt = place.CreatedAt
	stored := *place
	stored.Images = nil
	stored.Author = nil
	r.m.places[place.ID] = stored
	return nil
}

func (r *memoryPlaces) GetByID(ctx context.Context, id uint) (*models.Place, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	place, ok := r.m.places[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	place.Images = r.m.imagesForPlace(id)
	if place.AuthorID != nil {
		if author, ok := r.m.users[*place.AuthorID]; ok {
			place.Author = &author
		}
	}
	return &place, nil
}

func (r *memoryPlaces) List(ctx context.Context, filter PlaceFilter) ([]models.Place, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var places []models.Place
	for _, place := range r.m.places {
		if filter.Category != "" && place.Category != filter.Category {
			continue
		}
		place.Images = r.m.imagesForPlace(place.ID)
		if place.AuthorID != nil {
			if author, ok := r.m.users[*place.AuthorID]; ok {
				a := author
				place.Author = &a
			}
		}
		places = append(places, place)
	}
	sort.Slice(places, func(i, j int) bool { return places[i].ID < places[j].ID })
	if filter.ByRating {
		sort.SliceStable(places, func(i, j int) bool {
			ri, rj := places[i].Rating, places[j].Rating
			switch {
			case ri == nil:
				return false
			case rj == nil:
				return true
			default:
				return *ri > *rj
			}
		})
	}
	return places, nil
}

func (r *memoryPlaces) Update(ctx context.Context, place *models.Place) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.places[place.ID]; !ok {
		return models.ErrNotFound
	}
	place.UpdatedAt = time.Now()
	stored := *place
	stored.Images = nil
	stored.Author = nil
	r.m.places[place.ID] = stored
	return nil
}

func (r *memoryPlaces) Delete(ctx context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.places[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.m.places, id)
	for imgID, img := range r.m.images {
		if img.PlaceID == id {
			delete(r.m.images, imgID)
		}
	}
	return nil
}

type memoryImages struct {
	m *Memory
}

func (r *memoryImages) Save(ctx context.Context, img *models.PlaceImage) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if img.ID == 0 {
		img.ID = r.m.allocID()
		img.CreatedAt = time.Now()
	}
	img.UpdatedAt = time.Now()
	if img.IsThumbnail {
		for id, sibling := range r.m.images {
			if sibling.PlaceID == img.PlaceID && id != img.ID {
				sibling.IsThumbnail = false
				r.m.images[id] = sibling
			}
		}
	}
	r.m.images[img.ID] = *img
	return nil
}

func (r *memoryImages) GetForPlace(ctx context.Context, placeID, imageID uint) (*models.PlaceImage, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	img, ok := r.m.images[imageID]
	if !ok || img.PlaceID != placeID {
		return nil, models.ErrNotFound
	}
	return &img, nil
}

func (r *memoryImages) ListForPlace(ctx context.Context, placeID uint) ([]models.PlaceImage, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.imagesForPlace(placeID), nil
}

func (r *memoryImages) Delete(ctx context.Context, img *models.PlaceImage) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.images, img.ID)
	return nil
}

// imagesForPlace returns the place's images in display order. Callers must
// hold the mutex.
func (m *Memory) imagesForPlace(placeID uint) []models.PlaceImage {
	var imgs []models.PlaceImage
	for _, img := range m.images {
		if img.PlaceID == placeID {
			imgs = append(imgs, img)
		}
	}
	sort.Slice(imgs, func(i, j int) bool {
		if imgs[i].Position != imgs[j].Position {
			return imgs[i].Position < imgs[j].Position
		}
		return imgs[i].ID < imgs[j].ID
	})
	return imgs
}
