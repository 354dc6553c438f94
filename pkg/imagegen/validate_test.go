package imagegen

import (
	"errors"
	"testing"
)

func jpegBytes(n int) []byte {
	b := make([]byte, n)
	copy(b, []byte{0xFF, 0xD8, 0xFF, 0xDB})
	return b
}

func TestValidateJPEG(t *testing.T) {
	tests := []struct {
		name    string
		img     *Image
		wantErr error
	}{
		{name: "valid 1200 bytes", img: &Image{Data: jpegBytes(1200), ContentType: "image/jpeg"}},
		{name: "exact minimum", img: &Image{Data: jpegBytes(1000), ContentType: "image/jpeg"}},
		{name: "content type with params", img: &Image{Data: jpegBytes(1200), ContentType: "image/jpeg; charset=binary"}},
		{name: "900 bytes", img: &Image{Data: jpegBytes(900), ContentType: "image/jpeg"}, wantErr: ErrImageTooSmall},
		{name: "nil image", img: nil, wantErr: ErrImageTooSmall},
		{name: "text/plain", img: &Image{Data: jpegBytes(1200), ContentType: "text/plain"}, wantErr: ErrWrongContentType},
		{name: "missing content type", img: &Image{Data: jpegBytes(1200)}, wantErr: ErrWrongContentType},
		{name: "png bytes", img: &Image{Data: append([]byte{0x89, 'P', 'N', 'G'}, make([]byte, 1200)...), ContentType: "image/jpeg"}, wantErr: ErrBadImageSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJPEG(tt.img)
			if tt.wantErr == nil && err != nil {
				t.Errorf("expected valid image, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
