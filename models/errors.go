package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrMismatchedImageBatch is returned when the parallel lists of image
	// files, captions and thumbnail flags in a multipart request differ in
	// length. The message is part of the API contract.
	ErrMismatchedImageBatch = errors.New("Mismatched number of image files, captions, and thumbnails")
)

// FieldErrors collects per-field validation messages. It is surfaced to the
// client as a field-keyed JSON object with status 400.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
