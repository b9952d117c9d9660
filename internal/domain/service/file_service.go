package service

import (
	"context"
	"io"
)

// FileUploadService is a blob bucket that serves uploaded files by URL.
type FileUploadService interface {
	UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	// Owns reports whether fileURL points into this bucket.
	Owns(fileURL string) bool
	Close() error
}

// PhotoUploadService turns an inline photo (data: URI) into a hosted URL.
type PhotoUploadService interface {
	UploadPhoto(ctx context.Context, dataURI string) (string, error)
	DeletePhoto(ctx context.Context, photoURL string) error
}
