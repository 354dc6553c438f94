package imagegen

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
)

const (
	MinImageBytes   = 1000
	JPEGContentType = "image/jpeg"
)

var (
	ErrImageTooSmall     = errors.New("image payload below minimum size")
	ErrWrongContentType  = errors.New("image content type is not image/jpeg")
	ErrBadImageSignature = errors.New("image payload lacks jpeg signature")

	jpegSignature = []byte{0xFF, 0xD8, 0xFF}
)

// ValidateJPEG checks that the payload is a plausible JPEG as declared by the
// generator: minimum size, image/jpeg content type and the SOI marker.
func ValidateJPEG(img *Image) error {
	if img == nil || len(img.Data) < MinImageBytes {
		size := 0
		if img != nil {
			size = len(img.Data)
		}
		return fmt.Errorf("%w: %d bytes", ErrImageTooSmall, size)
	}
	mediaType, _, err := mime.ParseMediaType(img.ContentType)
	if err != nil || mediaType != JPEGContentType {
		return fmt.Errorf("%w: %q", ErrWrongContentType, img.ContentType)
	}
	if !bytes.HasPrefix(img.Data, jpegSignature) {
		return ErrBadImageSignature
	}
	return nil
}
