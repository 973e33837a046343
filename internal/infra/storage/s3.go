// Package storage stores uploaded media in an S3-compatible bucket.
// Path-style addressing is used so MinIO and CEPH endpoints work unchanged.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// CacheControl is set on every uploaded object.
const CacheControl = "public, max-age=3600"

// Client wraps an S3 client for media operations on a single public bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the console to
// fall back to in-memory media.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket not configured")
	}

	endpoint = strings.TrimRight(endpoint, "/")
	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Put uploads an object with public-read ACL and returns its public URL.
func (c *Client) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:       aws.String(c.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(CacheControl),
		ACL:          s3types.ObjectCannedACLPublicRead,
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return c.FileURL(key), nil
}

// Delete removes an object from the bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL for key.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// PathFromURL extracts the object key from a stored media URL. URLs from
// the previous Firebase bucket (".../o/{escaped key}?alt=media") are
// understood too so legacy media can still be deleted.
func (c *Client) PathFromURL(rawURL string) (string, bool) {
	if c.publicURL != "" {
		if key, ok := trimPrefix(rawURL, c.publicURL+"/"); ok {
			return key, true
		}
	}
	if key, ok := trimPrefix(rawURL, c.endpoint+"/"+c.bucket+"/"); ok {
		return key, true
	}
	return ObjectPathFromURL(rawURL)
}

func trimPrefix(rawURL, prefix string) (string, bool) {
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := rawURL[len(prefix):]
	if i := strings.IndexByte(key, '?'); i >= 0 {
		key = key[:i]
	}
	return key, key != ""
}

var objectSegment = regexp.MustCompile(`/o/(.+)$`)

// ObjectPathFromURL decodes the key from a "/o/{escaped key}" style download URL.
func ObjectPathFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	m := objectSegment.FindStringSubmatch(u.EscapedPath())
	if m == nil {
		return "", false
	}
	key, err := url.PathUnescape(m[1])
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}
