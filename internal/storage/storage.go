// Package storage abstracts the object store holding uploaded image files.
package storage

import (
	"context"
	"net/url"
	"strings"
)

type Storage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the absolute, publicly reachable URL for a stored object.
	URL(key string) string
}

func cleanURL(urlStr string) string {
	urlStr = strings.ReplaceAll(urlStr, " ", "%20")
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}
	return parsedURL.String()
}

func joinURL(base, key string) string {
	return cleanURL(strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/"))
}
