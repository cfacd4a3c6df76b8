// Package storage reads request files from and writes translation files to
// Amazon S3.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/pricofy/translation-relay/internal/domain"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store is an object store backed by S3.
type S3Store struct {
	client S3API
}

// New creates an S3Store.
func New(client S3API) *S3Store {
	return &S3Store{client: client}
}

// NewFromConfig creates an S3Store with a client built from cfg.
func NewFromConfig(cfg aws.Config) *S3Store {
	return New(s3.NewFromConfig(cfg))
}

// Get downloads the object at bucket/key.
func (s *S3Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classify(domain.StageFetch, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err))
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &domain.Error{
			Stage: domain.StageFetch,
			Kind:  domain.KindStorageIO,
			Err:   fmt.Errorf("failed to read s3://%s/%s: %w", bucket, key, err),
		}
	}

	return body, nil
}

// Put uploads body to bucket/key, replacing any existing object.
func (s *S3Store) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return classify(domain.StageStore, fmt.Errorf("failed to put s3://%s/%s: %w", bucket, key, err))
	}

	return nil
}

// classify maps an S3 error onto the relay's error kinds.
func classify(stage domain.Stage, err error) error {
	kind := domain.KindStorageIO

	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	var apiErr smithy.APIError
	switch {
	case errors.As(err, &noSuchKey), errors.As(err, &notFound):
		kind = domain.KindObjectNotFound
	case errors.As(err, &apiErr):
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			kind = domain.KindObjectNotFound
		case "AccessDenied", "Forbidden", "AllAccessDisabled", "InvalidAccessKeyId":
			kind = domain.KindAccessDenied
		}
	}

	return &domain.Error{Stage: stage, Kind: kind, Err: err}
}
