// Package storage provides the read-only S3 image catalog.
package storage

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
)

// ImagePrefix is the key prefix under which catalog images are stored.
const ImagePrefix = "images/"

var (
	// ErrInvalidKey is returned for keys outside the image prefix.
	ErrInvalidKey = errors.New("invalid image key")
	// ErrEmptyImage is returned when the stored object has no content.
	ErrEmptyImage = errors.New("image is empty")
)

// S3ClientInterface defines the interface for S3 operations.
type S3ClientInterface interface {
	GetObject(key string) ([]byte, error)
	ListObjects(prefix string) ([]string, error)
}

// CatalogImage is one listed image.
type CatalogImage struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// S3Client serves template base images from a bucket. It never writes.
type S3Client struct {
	client        S3ClientInterface
	bucket        string
	cloudfrontURL string
}

// NewS3Client creates a new S3Client. cloudfrontURL may be empty, in which case listed
// images carry no URL.
func NewS3Client(client S3ClientInterface, bucket string, cloudfrontURL string) *S3Client {
	return &S3Client{
		client:        client,
		bucket:        bucket,
		cloudfrontURL: strings.TrimSuffix(cloudfrontURL, "/"),
	}
}

// Bucket returns the bucket name.
func (c *S3Client) Bucket() string {
	return c.bucket
}

// ListImages returns the images available under ImagePrefix, sorted by key.
func (c *S3Client) ListImages() ([]CatalogImage, error) {
	keys, err := c.client.ListObjects(ImagePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	sort.Strings(keys)

	images := make([]CatalogImage, 0, len(keys))
	for _, key := range keys {
		// Skip folder placeholders (e.g. "images/")
		if strings.HasSuffix(key, "/") {
			continue
		}
		img := CatalogImage{
			Key:  key,
			Name: path.Base(key),
		}
		if c.cloudfrontURL != "" {
			img.URL = fmt.Sprintf("%s/%s", c.cloudfrontURL, key)
		}
		images = append(images, img)
	}

	return images, nil
}

// GetImage returns the raw bytes of a catalog image.
func (c *S3Client) GetImage(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := c.client.GetObject(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get image %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyImage, key)
	}

	return data, nil
}

func validateKey(key string) error {
	if !strings.HasPrefix(key, ImagePrefix) || len(key) == len(ImagePrefix) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if path.Clean(key) != key || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
