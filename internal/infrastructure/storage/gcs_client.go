package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const gcsURLPrefix = "https://storage.googleapis.com/"

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (c *CloudStorageClient) UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	filename := objectName(folder, contentType)

	obj := c.client.Bucket(c.bucketName).Object(filename)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, file); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %w", err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %w", err)
	}

	return fmt.Sprintf("%s%s/%s", gcsURLPrefix, c.bucketName, filename), nil
}

func (c *CloudStorageClient) Owns(fileURL string) bool {
	return strings.HasPrefix(fileURL, gcsURLPrefix+c.bucketName+"/")
}

func (c *CloudStorageClient) DeleteFile(ctx context.Context, fileURL string) error {
	if !c.Owns(fileURL) {
		return fmt.Errorf("invalid GCS URL format or bucket mismatch")
	}
	name := strings.TrimPrefix(fileURL, gcsURLPrefix+c.bucketName+"/")

	if err := c.client.Bucket(c.bucketName).Object(name).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}

// objectName builds "<folder>/<uuid>-<timestamp><ext>".
func objectName(folder, contentType string) string {
	return fmt.Sprintf("%s/%s-%s%s",
		strings.Trim(folder, "/"),
		uuid.New().String(),
		time.Now().UTC().Format("20060102150405"),
		extensionFor(contentType),
	)
}
