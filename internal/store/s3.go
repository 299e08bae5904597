package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Client is the part of *s3.Client the S3 backend uses.
type S3Client interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 stores each document as an object named prefix + path.
type S3 struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3 returns a backend storing documents in bucket under prefix. A
// non-empty prefix is normalized to end in a single slash without a
// leading one.
func NewS3(client S3Client, bucket, prefix string) *S3 {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

func newS3Client(cfg aws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(opts *s3.Options) {
		opts.DisableLogOutputChecksumValidationSkipped = true
	})
}

func (s *S3) key(path string) *string {
	return aws.String(s.prefix + path)
}

// Get downloads the object for path, or returns ErrNotFound.
func (s *S3) Get(ctx context.Context, path string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.key(path),
	})
	if isNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting %s from S3: %w", path, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Put uploads body as the object for path.
func (s *S3) Put(ctx context.Context, path string, body []byte) error {
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         s.key(path),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/atom+xml"),
	}); err != nil {
		return fmt.Errorf("error putting %s to S3: %w", path, err)
	}
	return nil
}

// Delete checks for the object first; S3 reports success for deleting a
// key that does not exist.
func (s *S3) Delete(ctx context.Context, path string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.key(path),
	})
	if isNotFound(err) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("error checking %s in S3: %w", path, err)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    s.key(path),
	}); err != nil {
		return fmt.Errorf("error deleting %s from S3: %w", path, err)
	}
	return nil
}

// List returns the paths of every object under the prefix, sorted.
func (s *S3) List(ctx context.Context) ([]string, error) {
	var paths []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing bucket: %w", err)
		}
		for _, obj := range page.Contents {
			paths = append(paths, strings.TrimPrefix(aws.ToString(obj.Key), s.prefix))
		}
	}
	return paths, nil
}

// Close is a no-op; the client is owned by the caller.
func (s *S3) Close() error { return nil }

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
