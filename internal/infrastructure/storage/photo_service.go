package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"ratpatrol/internal/domain/service"
	"ratpatrol/pkg/errors"
)

const (
	photoFolder   = "public/reports"
	maxPhotoBytes = 10 << 20
)

var allowedPhotoTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/heic"}

type photoService struct {
	files service.FileUploadService
}

func NewPhotoService(files service.FileUploadService) service.PhotoUploadService {
	return &photoService{files: files}
}

func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURI parses a data: URI and returns its payload with the content
// type sniffed from the bytes; the declared media type is not trusted.
func DecodeDataURI(dataURI string) ([]byte, string, error) {
	if !IsDataURI(dataURI) {
		return nil, "", fmt.Errorf("not a data URI")
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(dataURI, "data:"), ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}

	var data []byte
	if strings.HasSuffix(header, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, "", fmt.Errorf("invalid data URI payload: %w", err)
		}
		data = []byte(unescaped)
	}

	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty data URI payload")
	}
	if len(data) > maxPhotoBytes {
		return nil, "", fmt.Errorf("photo exceeds %d bytes", maxPhotoBytes)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedPhotoTypes...) {
		return nil, "", fmt.Errorf("unsupported photo type %s", mtype.String())
	}
	return data, mtype.String(), nil
}

func (s *photoService) UploadPhoto(ctx context.Context, dataURI string) (string, error) {
	data, contentType, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", errors.BadRequest("Invalid photo", err)
	}

	photoURL, err := s.files.UploadFile(ctx, bytes.NewReader(data), contentType, photoFolder)
	if err != nil {
		return "", errors.StorageUnavailable("upload photo", err)
	}
	return photoURL, nil
}

// DeletePhoto removes a photo this service uploaded and ignores anything else,
// such as bundled sample images.
func (s *photoService) DeletePhoto(ctx context.Context, photoURL string) error {
	if !s.files.Owns(photoURL) {
		return nil
	}
	return s.files.DeleteFile(ctx, photoURL)
}

func extensionFor(contentType string) string {
	if m := mimetype.Lookup(contentType); m != nil {
		return m.Extension()
	}
	return ".bin"
}
