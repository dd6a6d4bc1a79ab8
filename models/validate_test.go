package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ratingPtr(v float64) *float64 { return &v }

func validPlace() *Place {
	return &Place{
		Name:      "Aiguille du Midi",
		Subtitle:  "Viewpoint above Chamonix",
		Longitude: 6.8878,
		Latitude:  45.8792,
		Category:  "nature",
	}
}

func TestPlaceValidateRating(t *testing.T) {
	tests := []struct {
		name    string
		rating  *float64
		wantErr bool
	}{
		{"nil rating ok", nil, false},
		{"zero ok", ratingPtr(0), false},
		{"half step ok", ratingPtr(0.5), false},
		{"mid ok", ratingPtr(3.5), false},
		{"max ok", ratingPtr(5), false},
		{"negative", ratingPtr(-0.5), true},
		{"above max", ratingPtr(5.5), true},
		{"not a half step", ratingPtr(4.3), true},
		{"quarter step", ratingPtr(2.25), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlace()
			p.Rating = tt.rating
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				fieldErrs, ok := err.(FieldErrors)
				assert.True(t, ok)
				assert.Contains(t, fieldErrs, "rating")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPlaceValidateCoordinates(t *testing.T) {
	tests := []struct {
		name      string
		longitude float64
		latitude  float64
		wantField string
	}{
		{"both in range", -122.4194, 37.7749, ""},
		{"longitude low edge", -180, 0, ""},
		{"longitude high edge", 180, 0, ""},
		{"latitude low edge", 0, -90, ""},
		{"latitude high edge", 0, 90, ""},
		{"longitude too high", 200, 0, "longitude"},
		{"longitude too low", -180.01, 0, "longitude"},
		{"latitude too high", 0, 91, "latitude"},
		{"latitude too low", 0, -90.5, "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlace()
			p.Longitude = tt.longitude
			p.Latitude = tt.latitude
			err := p.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			fieldErrs, ok := err.(FieldErrors)
			assert.True(t, ok)
			assert.Contains(t, fieldErrs, tt.wantField)
		})
	}
}

func TestPlaceValidateLengths(t *testing.T) {
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}

	p := validPlace()
	p.Name = string(long)
	err := p.Validate()
	fieldErrs, ok := err.(FieldErrors)
	assert.True(t, ok)
	assert.Contains(t, fieldErrs, "name")

	p = validPlace()
	p.Name = "   "
	err = p.Validate()
	fieldErrs, ok = err.(FieldErrors)
	assert.True(t, ok)
	assert.Contains(t, fieldErrs, "name")
}

func TestValidateImageUpload(t *testing.T) {
	const maxSize = 5 << 20

	assert.NoError(t, ValidateImageUpload("photo.jpg", 1024, maxSize))
	assert.NoError(t, ValidateImageUpload("photo.JPEG", 1024, maxSize))
	assert.NoError(t, ValidateImageUpload("photo.png", maxSize, maxSize))

	assert.Error(t, ValidateImageUpload("photo.gif", 1024, maxSize))
	assert.Error(t, ValidateImageUpload("photo", 1024, maxSize))
	assert.Error(t, ValidateImageUpload("photo.jpg", maxSize+1, maxSize))
}
