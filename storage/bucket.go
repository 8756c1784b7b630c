// Package storage writes uploaded media to an S3-compatible bucket and builds their public URLs.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/portfolio-api/config"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Bucket is a single bucket with a known public base URL.
type Bucket struct {
	client  putObjectAPI
	name    string
	baseURL string
}

// New builds a Bucket from the storage settings. A custom endpoint (R2, MinIO, Supabase)
// switches the client to path-style addressing.
func New(ctx context.Context, cfg config.StorageConfig) (*Bucket, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.StorageRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.StorageAccessKeyID, cfg.StorageSecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.StorageEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
			o.UsePathStyle = true
		}
	})
	return newBucket(client, cfg), nil
}

func newBucket(client putObjectAPI, cfg config.StorageConfig) *Bucket {
	return &Bucket{
		client:  client,
		name:    cfg.StorageBucket,
		baseURL: publicBase(cfg),
	}
}

func publicBase(cfg config.StorageConfig) string {
	switch {
	case cfg.StoragePublicURL != "":
		return strings.TrimRight(cfg.StoragePublicURL, "/")
	case cfg.StorageEndpoint != "":
		return strings.TrimRight(cfg.StorageEndpoint, "/") + "/" + cfg.StorageBucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.StorageBucket, cfg.StorageRegion)
	}
}

// Upload stores data under key.
func (b *Bucket) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.name),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, b.name, err)
	}
	return nil
}

// PublicURL returns the URL clients use to fetch key.
func (b *Bucket) PublicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return b.baseURL + "/" + strings.Join(segments, "/")
}
