package places

import "github.com/h2non/bimg"

// resizeImage produces a width-constrained rendition of an uploaded image.
// Renditions are best effort; callers fall back to the original on error.
func resizeImage(data []byte, width int) ([]byte, error) {
	return bimg.NewImage(data).Process(bimg.Options{Width: width})
}
