package coords

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// Verify mockS3Client implements S3Client interface
var _ S3Client = (*mockS3Client)(nil)

type mockS3Client struct {
	getObjectFunc func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	putObjectFunc func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getObjectFunc != nil {
		return m.getObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{}, nil
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putObjectFunc != nil {
		return m.putObjectFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{}, nil
}

// memoryBucket stores objects put through it and serves them back.
func memoryBucket() *mockS3Client {
	objects := map[string][]byte{}
	return &mockS3Client{
		getObjectFunc: func(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			body, ok := objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
			if !ok {
				return nil, errors.New("NoSuchKey")
			}
			return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
		},
		putObjectFunc: func(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			body, err := io.ReadAll(params.Body)
			if err != nil {
				return nil, err
			}
			objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = body
			return &s3.PutObjectOutput{}, nil
		},
	}
}

func TestS3TableRowsFor(t *testing.T) {
	fixture, err := os.ReadFile("testdata/S8-6_coordinates.csv")
	require.NoError(t, err)

	var gotKey string
	client := &mockS3Client{
		getObjectFunc: func(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			gotKey = aws.ToString(params.Key)
			assert.Equal(t, "test-bucket", aws.ToString(params.Bucket))
			return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(fixture))}, nil
		},
	}

	table := NewS3Table(client, "test-bucket", "lfaa_coords/")
	rows, err := table.RowsFor(context.Background(), "S8-6")
	require.NoError(t, err)
	assert.Equal(t, "lfaa_coords/S8-6_coordinates.csv", gotKey)
	require.Len(t, rows, 4)
	assert.Equal(t, "SB02-02", rows[3].Name)
}

func TestS3TableErrors(t *testing.T) {
	t.Run("empty bucket", func(t *testing.T) {
		table := NewS3Table(&mockS3Client{}, "", "")
		_, err := table.RowsFor(context.Background(), "S8-1")
		assert.EqualError(t, err, "empty bucket name")
		assert.EqualError(t, table.Put(context.Background(), "S8-1", nil), "empty bucket name")
	})

	t.Run("missing object", func(t *testing.T) {
		table := NewS3Table(memoryBucket(), "test-bucket", "")
		_, err := table.RowsFor(context.Background(), "S8-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s3://test-bucket/S8-1_coordinates.csv")
	})

	t.Run("put failure", func(t *testing.T) {
		client := &mockS3Client{
			putObjectFunc: func(_ context.Context, _ *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				return nil, errors.New("access denied")
			},
		}
		table := NewS3Table(client, "test-bucket", "")
		err := table.Put(context.Background(), "S8-1", []models.AntennaRecord{{Name: "A"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})
}

func TestS3TablePutThenRead(t *testing.T) {
	local, err := NewDirTable("testdata").RowsFor(context.Background(), "S8-1")
	require.NoError(t, err)

	table := NewS3Table(memoryBucket(), "test-bucket", "tables/")
	require.NoError(t, table.Put(context.Background(), "S8-1", local))

	remote, err := table.RowsFor(context.Background(), "S8-1")
	require.NoError(t, err)
	require.Len(t, remote, len(local))
	for i := range local {
		assert.Equal(t, local[i].Name, remote[i].Name)
		assert.InDelta(t, local[i].Geocentric.X, remote[i].Geocentric.X, 1e-4)
		assert.InDelta(t, local[i].Geocentric.Y, remote[i].Geocentric.Y, 1e-4)
		assert.InDelta(t, local[i].Geocentric.Z, remote[i].Geocentric.Z, 1e-4)
	}
}
