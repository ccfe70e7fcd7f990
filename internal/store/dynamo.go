package store

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// DynamoDB key constants for the single-table design.
const (
	photoPK = "PHOTO"

	// hashIndex is the GSI keyed on contentHash, used for dedup lookups.
	hashIndex = "contentHash-index"

	// maxBatchWrite is the DynamoDB BatchWriteItem limit per call.
	maxBatchWrite = 25
)

// idPattern matches identifiers assigned under the given prefix.
func idPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `-\d+$`)
}

// DynamoStore implements MetadataStore using AWS DynamoDB.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// Compile-time interface check.
var _ MetadataStore = (*DynamoStore)(nil)

// NewDynamoStore creates a DynamoStore for the given table.
// The client should be initialized from the shared AWS config.
func NewDynamoStore(client *dynamodb.Client, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
	}
}

func (s *DynamoStore) HashExists(ctx context.Context, contentHash string) (bool, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.tableName,
		IndexName:              aws.String(hashIndex),
		KeyConditionExpression: aws.String("contentHash = :h"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":h": &types.AttributeValueMemberS{Value: contentHash},
		},
		Select: types.SelectCount,
		Limit:  aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("query %s for hash: %w", hashIndex, err)
	}
	return result.Count > 0, nil
}

func (s *DynamoStore) MaxAssignedID(ctx context.Context, prefix string) (string, error) {
	pattern := idPattern(prefix)
	input := &dynamodb.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: photoPK},
		},
		ProjectionExpression: aws.String("SK"),
		ScanIndexForward:     aws.Bool(false), // descending: max sort key first
	}

	// The descending scan pages past any row whose sort key belongs to a
	// different prefix, so a table shared across prefixes still seeds from
	// the right namespace.
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return "", fmt.Errorf("query max assigned ID: %w", err)
		}

		for _, item := range result.Items {
			skAttr, ok := item["SK"].(*types.AttributeValueMemberS)
			if !ok {
				continue
			}
			if pattern.MatchString(skAttr.Value) {
				return skAttr.Value, nil
			}
		}

		if result.LastEvaluatedKey == nil {
			return "", nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

func (s *DynamoStore) PutPhoto(ctx context.Context, rec *PhotoRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal photo %s: %w", rec.ID, err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: photoPK}
	item["SK"] = &types.AttributeValueMemberS{Value: rec.ID}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put photo %s: %w", rec.ID, err)
	}

	log.Debug().
		Str("id", rec.ID).
		Str("contentHash", rec.ContentHash).
		Int("width", rec.Width).
		Int("height", rec.Height).
		Msg("Photo record persisted")
	return nil
}

func (s *DynamoStore) SetFeatured(ctx context.Context, id string, featured bool) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: photoPK},
			"SK": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression: aws.String("SET featured = :f"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":f": &types.AttributeValueMemberBOOL{Value: featured},
		},
		ConditionExpression: aws.String("attribute_exists(SK)"),
	})
	if err != nil {
		return fmt.Errorf("set featured %s -> %t: %w", id, featured, err)
	}

	log.Debug().Str("id", id).Bool("featured", featured).Msg("Featured flag updated")
	return nil
}

func (s *DynamoStore) ClearFeatured(ctx context.Context) (int, error) {
	ids, err := s.queryIDs(ctx, aws.String("featured = :t"), map[string]types.AttributeValue{
		":t": &types.AttributeValueMemberBOOL{Value: true},
	})
	if err != nil {
		return 0, fmt.Errorf("query featured photos: %w", err)
	}

	for i, id := range ids {
		if err := s.SetFeatured(ctx, id, false); err != nil {
			return i, err
		}
	}

	log.Info().Int("cleared", len(ids)).Msg("Featured flags cleared")
	return len(ids), nil
}

func (s *DynamoStore) DeleteAll(ctx context.Context) (int, error) {
	ids, err := s.queryIDs(ctx, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("query photos for delete: %w", err)
	}

	var keys []map[string]types.AttributeValue
	for _, id := range ids {
		keys = append(keys, map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: photoPK},
			"SK": &types.AttributeValueMemberS{Value: id},
		})
	}

	if err := s.batchDeleteKeys(ctx, keys); err != nil {
		return 0, err
	}

	log.Info().Int("deleted", len(keys)).Msg("All photo records deleted")
	return len(keys), nil
}

// queryIDs returns the sort keys of all photo rows, optionally narrowed by a
// filter expression. Handles Query pagination; DynamoDB returns up to 1MB
// per call.
func (s *DynamoStore) queryIDs(ctx context.Context, filter *string, filterValues map[string]types.AttributeValue) ([]string, error) {
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: photoPK},
	}
	for k, v := range filterValues {
		values[k] = v
	}

	input := &dynamodb.QueryInput{
		TableName:                 &s.tableName,
		KeyConditionExpression:    aws.String("PK = :pk"),
		ExpressionAttributeValues: values,
		ProjectionExpression:      aws.String("SK"),
		FilterExpression:          filter,
	}

	var ids []string
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query photo IDs: %w", err)
		}

		for _, item := range result.Items {
			if skAttr, ok := item["SK"].(*types.AttributeValueMemberS); ok {
				ids = append(ids, skAttr.Value)
			}
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return ids, nil
}

// batchDeleteKeys deletes multiple items by their PK/SK keys.
// Handles DynamoDB's 25-item-per-batch limit automatically.
func (s *DynamoStore) batchDeleteKeys(ctx context.Context, keys []map[string]types.AttributeValue) error {
	for i := 0; i < len(keys); i += maxBatchWrite {
		end := i + maxBatchWrite
		if end > len(keys) {
			end = len(keys)
		}

		var requests []types.WriteRequest
		for _, key := range keys[i:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}

		_, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.tableName: requests,
			},
		})
		if err != nil {
			return fmt.Errorf("BatchWriteItem delete (%d items): %w", len(requests), err)
		}

		// Note: UnprocessedItems are not retried here. With PAY_PER_REQUEST
		// billing and single-operator throughput, unprocessed items are
		// extremely rare; a re-run of the reset action covers any stragglers.
	}
	return nil
}
