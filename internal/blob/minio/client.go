// Package minio implements the blob store contract on a MinIO/S3 endpoint.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/semaphore"

	"github.com/louisbranch/turfwars/internal/blob"
)

// Object operations share one weighted semaphore; a map rebuild fetches every
// district mask and must not flood the endpoint.
const maxConcurrentOps = 50

// Client is a MinIO-backed blob store.
type Client struct {
	api *minio.Client
	sem *semaphore.Weighted
}

// Options configures the MinIO connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
}

// New connects a blob store client to a MinIO endpoint.
func New(opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	api, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}
	return &Client{
		api: api,
		sem: semaphore.NewWeighted(maxConcurrentOps),
	}, nil
}

// Put stores bytes under bucket/key. An empty content type is sniffed from
// the payload.
func (c *Client) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.sem.Release(1)

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	_, err := c.api.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Get returns the bytes stored under bucket/key.
func (c *Client) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	object, err := c.api.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s/%s: %w", bucket, key, blob.ErrNotFound)
		}
		return nil, fmt.Errorf("read %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// EnsureBucket creates the bucket when absent and reports whether it is
// empty.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) (bool, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer c.sem.Release(1)

	exists, err := c.api.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := c.api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return false, fmt.Errorf("make bucket %s: %w", bucket, err)
		}
		return true, nil
	}

	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	for object := range c.api.ListObjects(listCtx, bucket, minio.ListObjectsOptions{}) {
		if object.Err != nil {
			return false, fmt.Errorf("list bucket %s: %w", bucket, object.Err)
		}
		return false, nil
	}
	return true, nil
}
