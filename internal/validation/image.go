package validation

import (
	"encoding/base64"

	"github.com/gabriel-vasile/mimetype"
)

const (
	ProfileImageSize     = "profile_image_size"
	UnsupportedImageFile = "unsupported_image_file"

	MaxProfileImageSize = 2 << 20 // 2MB
)

// allowedImageTypes lists the sniffed MIME types accepted for profile images.
var allowedImageTypes = []string{"image/png", "image/jpeg"}

// ProfileImage decodes a base64 image and checks its size and sniffed type.
// The decoded bytes are returned only when valid.
func ProfileImage(encoded string) ([]byte, Errors) {
	var errs Errors

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(data) == 0 {
		return nil, errs.Set(FieldImage, UnsupportedImageFile)
	}

	if len(data) > MaxProfileImageSize {
		return nil, errs.Set(FieldImage, ProfileImageSize)
	}

	// Magic-byte detection; the client-declared type is never trusted.
	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), allowedImageTypes...) {
		return nil, errs.Set(FieldImage, UnsupportedImageFile)
	}

	return data, nil
}
