package arrayconfig

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

const (
	batchSize        = 25
	maxBatchAttempts = 4
	defaultBackoff   = 100 * time.Millisecond
)

// DynamoDBClient defines the DynamoDB operations the configuration needs.
type DynamoDBClient interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// stationItem is one row of the array configuration table. Order keeps the
// configuration order, which a scan does not preserve.
type stationItem struct {
	Name        string            `dynamodbav:"name"`
	Order       int               `dynamodbav:"order"`
	Reference   models.Geocentric `dynamodbav:"reference"`
	RotationDeg float64           `dynamodbav:"rotationDeg"`
}

// DynamoConfig reads the array configuration from a DynamoDB table keyed
// by station name. The table is scanned once; later calls are served from
// the snapshot. A failed scan is retried on the next call.
type DynamoConfig struct {
	client    DynamoDBClient
	tableName string
	backoff   time.Duration

	mu       sync.Mutex
	snapshot *Static
}

func NewDynamoConfig(client DynamoDBClient, tableName string) *DynamoConfig {
	return &DynamoConfig{client: client, tableName: tableName, backoff: defaultBackoff}
}

func (c *DynamoConfig) load(ctx context.Context) (*Static, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot != nil {
		return c.snapshot, nil
	}

	var items []stationItem
	paginator := dynamodb.NewScanPaginator(c.client, &dynamodb.ScanInput{
		TableName: aws.String(c.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scanning array configuration: %w", err)
		}
		var batch []stationItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshaling array configuration: %w", err)
		}
		items = append(items, batch...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].Name < items[j].Name
	})

	refs := make([]models.StationReference, len(items))
	for i, it := range items {
		refs[i] = models.StationReference{Name: it.Name, Point: it.Reference, RotationDeg: it.RotationDeg}
	}
	snapshot, err := NewStatic(refs...)
	if err != nil {
		return nil, fmt.Errorf("array configuration table %s: %w", c.tableName, err)
	}

	log.Debug().Str("table", c.tableName).Int("stations", len(refs)).Msg("Loaded array configuration")
	c.snapshot = snapshot
	return snapshot, nil
}

func (c *DynamoConfig) ValidNames(ctx context.Context) ([]string, error) {
	s, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.ValidNames(ctx)
}

func (c *DynamoConfig) ReferenceFor(ctx context.Context, name string) (models.Geocentric, error) {
	s, err := c.load(ctx)
	if err != nil {
		return models.Geocentric{}, err
	}
	return s.ReferenceFor(ctx, name)
}

func (c *DynamoConfig) RotationFor(ctx context.Context, name string) (float64, error) {
	s, err := c.load(ctx)
	if err != nil {
		return 0, err
	}
	return s.RotationFor(ctx, name)
}

// Save writes refs to the table in batches, recording their order.
func (c *DynamoConfig) Save(ctx context.Context, refs []models.StationReference) error {
	for i := 0; i < len(refs); i += batchSize {
		end := i + batchSize
		if end > len(refs) {
			end = len(refs)
		}

		var writeRequests []types.WriteRequest
		for j := i; j < end; j++ {
			item, err := attributevalue.MarshalMap(stationItem{
				Name:        refs[j].Name,
				Order:       j,
				Reference:   refs[j].Point,
				RotationDeg: refs[j].RotationDeg,
			})
			if err != nil {
				return fmt.Errorf("marshaling station %s: %w", refs[j].Name, err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := c.writeBatch(ctx, writeRequests); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
	return nil
}

// writeBatch writes one batch, resubmitting unprocessed items with a
// doubling backoff until none remain or the attempts run out.
func (c *DynamoConfig) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{c.tableName: requests}
	delay := c.backoff
	var lastErr error
	for attempt := 0; attempt < maxBatchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("batch writing stations: %w", ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		out, err := c.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Str("table", c.tableName).Int("attempt", attempt+1).Msg("Batch write failed")
			continue
		}
		if out == nil || len(out.UnprocessedItems[c.tableName]) == 0 {
			return nil
		}
		pending = map[string][]types.WriteRequest{c.tableName: out.UnprocessedItems[c.tableName]}
		lastErr = fmt.Errorf("%d unprocessed items", len(pending[c.tableName]))
		log.Debug().Str("table", c.tableName).Int("unprocessed", len(pending[c.tableName])).Msg("Resubmitting unprocessed items")
	}
	return fmt.Errorf("batch writing stations after %d attempts: %w", maxBatchAttempts, lastErr)
}

// NewDynamoClient creates a DynamoDB client. A non-empty endpoint selects a
// local DynamoDB with static credentials.
func NewDynamoClient(ctx context.Context, endpoint string) (*dynamodb.Client, error) {
	if endpoint != "" {
		// Local development configuration
		log.Debug().Str("endpoint", endpoint).Msg("Using local DynamoDB endpoint")
		customOptions := []func(*config.LoadOptions) error{
			config.WithRegion("local"),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("local", "local", "")),
			config.WithClientLogMode(aws.LogRetries),
		}

		cfg, err := config.LoadDefaultConfig(ctx, customOptions...)
		if err != nil {
			return nil, err
		}

		return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		}), nil
	}

	// Production configuration
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(cfg), nil
}
