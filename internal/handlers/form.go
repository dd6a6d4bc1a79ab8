package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"places-backend/internal/places"
	"places-backend/models"
)

// Multipart field names shared by the create and edit endpoints.
const (
	fieldImagesFiles      = "images_files"
	fieldImagesCaptions   = "images_captions"
	fieldImagesThumbnails = "images_thumbnails"

	fieldExistingIDs        = "existing_images_ids"
	fieldExistingCaptions   = "existing_images_captions"
	fieldExistingThumbnails = "existing_images_thumbnails"

	fieldImagesToDelete = "images_to_delete"
)

// parsePlaceFields reads the scalar place fields present in the multipart
// form. Absent fields stay nil so edits can be partial; an empty rating
// clears the stored value.
func parsePlaceFields(form *multipart.Form) (places.PlaceFields, error) {
	fields := places.PlaceFields{}
	errs := models.FieldErrors{}

	if v, ok := formValue(form, "name"); ok {
		fields.Name = &v
	}
	if v, ok := formValue(form, "subtitle"); ok {
		fields.Subtitle = &v
	}
	if v, ok := formValue(form, "description"); ok {
		fields.Description = &v
	}
	if v, ok := formValue(form, "category"); ok {
		fields.Category = &v
	}
	if v, ok := formValue(form, "longitude"); ok {
		if f, err := strconv.ParseFloat(v, 64); err != nil {
			errs["longitude"] = "A valid number is required"
		} else {
			fields.Longitude = &f
		}
	}
	if v, ok := formValue(form, "latitude"); ok {
		if f, err := strconv.ParseFloat(v, 64); err != nil {
			errs["latitude"] = "A valid number is required"
		} else {
			fields.Latitude = &f
		}
	}
	if v, ok := formValue(form, "rating"); ok {
		if v == "" {
			fields.ClearRating = true
		} else if f, err := strconv.ParseFloat(v, 64); err != nil {
			errs["rating"] = "A valid number is required"
		} else {
			fields.Rating = &f
		}
	}

	if len(errs) > 0 {
		return fields, errs
	}
	return fields, nil
}

// parseNewImages zips the parallel images_files/images_captions/
// images_thumbnails lists into typed uploads. A length mismatch fails the
// whole request before anything is read from disk or the database.
func parseNewImages(form *multipart.Form, maxImageSize int64) ([]places.ImageUpload, error) {
	files := form.File[fieldImagesFiles]
	captions := form.Value[fieldImagesCaptions]
	thumbnails := form.Value[fieldImagesThumbnails]

	if len(files) == 0 && len(captions) == 0 && len(thumbnails) == 0 {
		return nil, nil
	}
	if len(files) != len(captions) || len(files) != len(thumbnails) {
		return nil, models.ErrMismatchedImageBatch
	}

	uploads := make([]places.ImageUpload, 0, len(files))
	for i, fh := range files {
		data, err := readFormFile(fh, maxImageSize)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, places.ImageUpload{
			Filename:    fh.Filename,
			Data:        data,
			Caption:     captions[i],
			IsThumbnail: parseFlag(thumbnails[i]),
		})
	}
	return uploads, nil
}

// parseExistingUpdates zips the existing_images_* parallel lists.
func parseExistingUpdates(form *multipart.Form) ([]places.ExistingImageUpdate, error) {
	ids := form.Value[fieldExistingIDs]
	captions := form.Value[fieldExistingCaptions]
	thumbnails := form.Value[fieldExistingThumbnails]

	if len(ids) == 0 && len(captions) == 0 && len(thumbnails) == 0 {
		return nil, nil
	}
	if len(ids) != len(captions) || len(ids) != len(thumbnails) {
		return nil, models.ErrMismatchedImageBatch
	}

	updates := make([]places.ExistingImageUpdate, 0, len(ids))
	for i, raw := range ids {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, models.FieldErrors{fieldExistingIDs: "A valid integer is required"}
		}
		updates = append(updates, places.ExistingImageUpdate{
			ID:          uint(id),
			Caption:     captions[i],
			IsThumbnail: parseFlag(thumbnails[i]),
		})
	}
	return updates, nil
}

func parseDeleteIDs(form *multipart.Form) ([]uint, error) {
	var ids []uint
	for _, raw := range form.Value[fieldImagesToDelete] {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, models.FieldErrors{fieldImagesToDelete: "A valid integer is required"}
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func formValue(form *multipart.Form, key string) (string, bool) {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func parseFlag(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func readFormFile(fh *multipart.FileHeader, maxImageSize int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// One byte of headroom so oversized uploads still trip the size check.
	data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil {
		return nil, err
	}
	return data, nil
}

func parseMultipart(r *http.Request, maxImageSize int64) (*multipart.Form, error) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		return nil, models.FieldErrors{"form": "A valid multipart form is required"}
	}
	return r.MultipartForm, nil
}
