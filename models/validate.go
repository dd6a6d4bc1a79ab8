package models

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Validate checks the scalar fields of a place. It returns a FieldErrors
// value when any field is out of range, nil otherwise.
func (p *Place) Validate() error {
	errs := FieldErrors{}

	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "This field is required"
	} else if len(p.Name) > 100 {
		errs["name"] = "Must be at most 100 characters"
	}
	if len(p.Subtitle) > 100 {
		errs["subtitle"] = "Must be at most 100 characters"
	}
	if len(p.Category) > 50 {
		errs["category"] = "Must be at most 50 characters"
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		errs["longitude"] = "Longitude must be between -180 and 180"
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		errs["latitude"] = "Latitude must be between -90 and 90"
	}
	if p.Rating != nil {
		r := *p.Rating
		if r < 0 || r > 5 {
			errs["rating"] = "Rating must be between 0.0 and 5.0"
		} else if math.Mod(r*2, 1) != 0 {
			errs["rating"] = "Rating must be in increments of .5"
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateImageUpload checks an uploaded file name and size against the
// allowed extensions and the configured size limit.
func ValidateImageUpload(filename string, size, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExtensions[ext] {
		return FieldErrors{"images": fmt.Sprintf("Unsupported file extension %q, allowed: jpg, jpeg, png", ext)}
	}
	if size > maxSize {
		return FieldErrors{"images": fmt.Sprintf("File %s exceeds the maximum size of %d bytes", filename, maxSize)}
	}
	if len(filename) > 255 {
		return FieldErrors{"images": "File name too long"}
	}
	return nil
}
