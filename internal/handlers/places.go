package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"places-backend/internal/auth"
	"places-backend/internal/places"
	"places-backend/models"
)

type PlaceHandler struct {
	svc          *places.Service
	maxImageSize int64
}

func NewPlaceHandler(svc *places.Service, maxImageSize int64) *PlaceHandler {
	return &PlaceHandler{svc: svc, maxImageSize: maxImageSize}
}

type imagePayload struct {
	ID          uint   `json:"id"`
	URL         string `json:"url"`
	Caption     string `json:"caption"`
	IsThumbnail bool   `json:"is_thumbnail"`
	Position    uint   `json:"position"`
}

type placeSummary struct {
	ID           uint      `json:"id"`
	Author       *string   `json:"author"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Rating       *float64  `json:"rating"`
}

type placeDetail struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Subtitle    string         `json:"subtitle"`
	Description string         `json:"description"`
	Longitude   float64        `json:"longitude"`
	Latitude    float64        `json:"latitude"`
	Category    string         `json:"category"`
	Author      *string        `json:"author"`
	Rating      *float64       `json:"rating"`
	Images      []imagePayload `json:"images"`
	IsOwner     bool           `json:"is_owner"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (h *PlaceHandler) summary(place *models.Place) placeSummary {
	return placeSummary{
		ID:           place.ID,
		Author:       authorName(place),
		Name:         place.Name,
		Description:  place.Description,
		Category:     place.Category,
		CreatedAt:    place.CreatedAt,
		ThumbnailURL: h.svc.ThumbnailURL(place),
		Rating:       place.Rating,
	}
}

func (h *PlaceHandler) detail(place *models.Place, requesterID uint, authenticated bool) placeDetail {
	images := make([]imagePayload, 0, len(place.Images))
	for i := range place.Images {
		img := &place.Images[i]
		images = append(images, imagePayload{
			ID:          img.ID,
			URL:         h.svc.ImageURL(img),
			Caption:     img.Caption,
			IsThumbnail: img.IsThumbnail,
			Position:    img.Position,
		})
	}
	isOwner := authenticated && place.AuthorID != nil && *place.AuthorID == requesterID
	return placeDetail{
		ID:          place.ID,
		Name:        place.Name,
		Subtitle:    place.Subtitle,
		Description: place.Description,
		Longitude:   place.Longitude,
		Latitude:    place.Latitude,
		Category:    place.Category,
		Author:      authorName(place),
		Rating:      place.Rating,
		Images:      images,
		IsOwner:     isOwner,
		CreatedAt:   place.CreatedAt,
		UpdatedAt:   place.UpdatedAt,
	}
}

func authorName(place *models.Place) *string {
	if place.Author == nil {
		return nil
	}
	return &place.Author.Username
}

func (h *PlaceHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}

	summaries := make([]placeSummary, 0, len(list))
	for i := range list {
		summaries = append(summaries, h.summary(&list[i]))
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *PlaceHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := placeID(r)
	if !ok {
		writeError(w, models.ErrNotFound)
		return
	}

	place, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	requesterID, authenticated := auth.UserID(r.Context())
	writeJSON(w, http.StatusOK, h.detail(place, requesterID, authenticated))
}

func (h *PlaceHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	fc, err := h.svc.GeoJSON(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

func (h *PlaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	form, err := parseMultipart(r, h.maxImageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	fields, err := parsePlaceFields(form)
	if err != nil {
		writeError(w, err)
		return
	}
	uploads, err := parseNewImages(form, h.maxImageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	place, err := h.svc.Create(r.Context(), userID, fields, uploads)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.detail(place, userID, true))
}

func (h *PlaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, ok := placeID(r)
	if !ok {
		writeError(w, models.ErrNotFound)
		return
	}

	form, err := parseMultipart(r, h.maxImageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	fields, err := parsePlaceFields(form)
	if err != nil {
		writeError(w, err)
		return
	}
	existing, err := parseExistingUpdates(form)
	if err != nil {
		writeError(w, err)
		return
	}
	deleteIDs, err := parseDeleteIDs(form)
	if err != nil {
		writeError(w, err)
		return
	}
	uploads, err := parseNewImages(form, h.maxImageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	place, err := h.svc.Edit(r.Context(), userID, id, places.EditRequest{
		Fields:          fields,
		ExistingUpdates: existing,
		DeleteIDs:       deleteIDs,
		NewImages:       uploads,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.detail(place, userID, true))
}

func (h *PlaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	id, ok := placeID(r)
	if !ok {
		writeError(w, models.ErrNotFound)
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func placeID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
