package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // custom endpoint for MinIO/LocalStack
}

type S3Client struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Client(ctx context.Context, cfg S3Config) (*S3Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: s3BaseURL(cfg),
	}, nil
}

func s3BaseURL(cfg S3Config) string {
	if cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/", strings.TrimRight(cfg.Endpoint, "/"), cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.Bucket, cfg.Region)
}

func (c *S3Client) UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	key := objectName(folder, contentType)

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(c.bucket),
		Key:          aws.String(key),
		Body:         file,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=86400"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put failed: %w", err)
	}

	return c.baseURL + key, nil
}

func (c *S3Client) Owns(fileURL string) bool {
	return strings.HasPrefix(fileURL, c.baseURL)
}

func (c *S3Client) DeleteFile(ctx context.Context, fileURL string) error {
	if !c.Owns(fileURL) {
		return fmt.Errorf("invalid S3 URL format or bucket mismatch")
	}

	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(strings.TrimPrefix(fileURL, c.baseURL)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

func (c *S3Client) Close() error {
	return nil
}
