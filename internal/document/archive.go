package document

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Archiver stores a copy of a rendered document.
type Archiver interface {
	Archive(ctx context.Context, name string, content []byte) error
}

// s3PutAPI is the part of the S3 client the archiver needs.
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Archiver uploads documents to an S3 bucket under a key prefix.
type s3Archiver struct {
	client s3PutAPI
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Archiver creates an archiver using the default AWS credential chain.
func NewS3Archiver(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Archiver, error) {
	logger = logger.With().Str("component", "s3-archiver").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 archiver initialised")

	return newS3Archiver(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func newS3Archiver(client s3PutAPI, bucket, prefix string, logger zerolog.Logger) *s3Archiver {
	return &s3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Archive uploads content to <prefix><name>.
func (a *s3Archiver) Archive(ctx context.Context, name string, content []byte) error {
	key := a.prefix + name

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(ContentTypePDF),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("bucket", a.bucket).
			Str("key", key).
			Msg("failed to upload document to S3")
		return fmt.Errorf("failed to upload document to S3 (bucket=%s, key=%s): %w", a.bucket, key, err)
	}

	a.logger.Info().
		Str("bucket", a.bucket).
		Str("key", key).
		Int("bytes", len(content)).
		Msg("document archived to S3")

	return nil
}
