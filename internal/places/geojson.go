package places

import (
	"context"

	"places-backend/internal/repository"
)

// Geometry is a GeoJSON Point: coordinates are [longitude, latitude].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type FeatureProperties struct {
	Name         string   `json:"name"`
	Subtitle     string   `json:"subtitle"`
	Category     string   `json:"category"`
	ThumbnailURL *string  `json:"thumbnail_url"`
	Rating       *float64 `json:"rating"`
}

type Feature struct {
	ID         uint              `json:"id"`
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// GeoJSON builds the map feed: one Feature per place, best rated first,
// optionally narrowed to a category. The shape matches what Mapbox-style
// map clients consume directly.
func (s *Service) GeoJSON(ctx context.Context, category string) (*FeatureCollection, error) {
	list, err := s.repos.Places().List(ctx, repository.PlaceFilter{
		Category: category,
		ByRating: true,
	})
	if err != nil {
		return nil, err
	}

	features := make([]Feature, 0, len(list))
	for i := range list {
		place := &list[i]
		features = append(features, Feature{
			ID:   place.ID,
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: [2]float64{place.Longitude, place.Latitude},
			},
			Properties: FeatureProperties{
				Name:         place.Name,
				Subtitle:     place.Subtitle,
				Category:     place.Category,
				ThumbnailURL: s.ThumbnailURL(place),
				Rating:       place.Rating,
			},
		})
	}

	return &FeatureCollection{Type: "FeatureCollection", Features: features}, nil
}
