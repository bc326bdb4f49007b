package coords

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Table reads coordinate tables stored as <prefix><station>_coordinates.csv
// objects in a bucket.
type S3Table struct {
	client S3Client
	bucket string
	prefix string
}

func NewS3Table(client S3Client, bucket, prefix string) *S3Table {
	return &S3Table{client: client, bucket: bucket, prefix: prefix}
}

func (t *S3Table) key(station string) string {
	return t.prefix + FileName(station)
}

func (t *S3Table) RowsFor(ctx context.Context, station string) ([]models.AntennaRecord, error) {
	if t.bucket == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	key := t.key(station)
	result, err := t.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(t.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting s3://%s/%s: %w", t.bucket, key, err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	return ParseCSV(station, result.Body)
}

// Put publishes a station's table so that RowsFor can read it back.
func (t *S3Table) Put(ctx context.Context, station string, rows []models.AntennaRecord) error {
	if t.bucket == "" {
		return fmt.Errorf("empty bucket name")
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, station, rows); err != nil {
		return fmt.Errorf("encoding coordinate table: %w", err)
	}

	_, err := t.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(t.bucket),
		Key:         aws.String(t.key(station)),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("saving to S3: %w", err)
	}

	log.Debug().Str("station", station).Int("antennas", len(rows)).Msg("Saved coordinate table to S3")
	return nil
}

// NewS3Client creates an S3 client. A non-empty endpoint selects a local
// S3-compatible server with static credentials and path-style addressing.
func NewS3Client(ctx context.Context, endpoint string) (*s3.Client, error) {
	if endpoint != "" {
		log.Debug().Str("endpoint", endpoint).Msg("Using local S3 endpoint")
		cfg, err := config.LoadDefaultConfig(ctx,
			config.WithRegion("local"),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("local", "local", "")),
			config.WithClientLogMode(aws.LogRetries),
		)
		if err != nil {
			return nil, err
		}
		return s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}), nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}
