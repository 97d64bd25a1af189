package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ErrObjectExists is returned when a non-overwriting upload hits a key
// that's already taken
var ErrObjectExists = errors.New("object already exists under this key")

const minMultipartSize = 100 << 20

// Put uploads an object without ever replacing an existing one. Small
// bodies go through a single conditional PutObject, anything above
// minMultipartSize is checked with HeadObject first and then streamed
// through the multipart manager
func (s *S3Client) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if size > minMultipartSize {
		_, err := s.C.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: s.Bucket,
			Key:    aws.String(key),
		})
		if err == nil {
			return ErrObjectExists
		}

		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() != "NotFound" {
			return fmt.Errorf("failed to check if object exists, %w", err)
		}

		u := manager.NewUploader(s.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})

		_, err = u.Upload(ctx, &s3.PutObjectInput{
			Bucket:      s.Bucket,
			Key:         aws.String(key),
			Body:        body,
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return fmt.Errorf("failed to upload object, %w", err)
		}

		return nil
	}

	_, err := s.C.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        s.Bucket,
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return ErrObjectExists
		}

		return fmt.Errorf("failed to upload object, %w", err)
	}

	return nil
}

// Delete removes an object. Deleting a missing key is not an error on the
// S3 side and is treated the same way here
func (s *S3Client) Delete(ctx context.Context, key string) error {
	_, err := s.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object, %w", err)
	}

	return nil
}

// URL derives the public URL of an object from the bucket configuration.
// Pure string work, no round-trip involved
func (s *S3Client) URL(key string) string {
	return strings.TrimSuffix(s.PublicURL, "/") + "/" + key
}
