package forumdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v4"
)

// MaxBatchSize is the maximum number of items allowed in a DynamoDB batch
// write operation.
const MaxBatchSize = 25

var errUnprocessedItems = errors.New("batch write returned unprocessed items")

// PutBatch fills the forum table with the given forums using BatchWriteItem.
// Requests are chunked in sizes of [MaxBatchSize] or less, and unprocessed
// items reported by DynamoDB are retried with the configured backoff policy
// (see [WithBackoff]).
func (s *Store) PutBatch(ctx context.Context, forums []Forum) error {
	if len(forums) == 0 {
		return nil
	}

	batches, err := s.marshalBatches(forums)
	if err != nil {
		return err
	}

	for _, batch := range batches {
		if err := s.writeBatch(ctx, batch); err != nil {
			s.opts.logger.Error().Err(err).Str("table", s.tableName).
				Msg("couldn't load data into table")
			return fmt.Errorf("failed to load data into table %s: %w", s.tableName, err)
		}
	}

	return nil
}

// marshalBatches converts forums into chunked batch write inputs.
func (s *Store) marshalBatches(forums []Forum) ([]*dynamodb.BatchWriteItemInput, error) {
	var batches []*dynamodb.BatchWriteItemInput

	for i := 0; i < len(forums); i += MaxBatchSize {
		end := i + MaxBatchSize
		if end > len(forums) {
			end = len(forums)
		}

		var writeRequests []types.WriteRequest
		for _, forum := range forums[i:end] {
			item, err := MarshalForum(forum)
			if err != nil {
				return nil, err
			}

			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		batches = append(batches, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.tableName: writeRequests,
			},
		})
	}

	return batches, nil
}

// writeBatch sends a single batch write input, feeding any unprocessed items
// back into the request until DynamoDB accepts them all or the retry policy
// gives up.
func (s *Store) writeBatch(ctx context.Context, input *dynamodb.BatchWriteItemInput) error {
	policy := backoff.WithContext(s.opts.newBackoff(), ctx)

	return backoff.Retry(func() error {
		output, err := s.client.BatchWriteItem(ctx, input)
		if err != nil {
			return backoff.Permanent(err)
		}

		if len(output.UnprocessedItems) == 0 {
			return nil
		}

		s.opts.logger.Debug().
			Str("table", s.tableName).
			Int("unprocessed", len(output.UnprocessedItems[s.tableName])).
			Msg("retrying unprocessed batch items")

		input.RequestItems = output.UnprocessedItems
		return errUnprocessedItems
	}, policy)
}
