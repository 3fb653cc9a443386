package forumdb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// ScanPageInput configures a single [Store.ScanPage] call.
type ScanPageInput struct {
	Limit  int                         // Maximum number of items to evaluate (0 means no limit)
	Cursor string                      // Opaque cursor from a previous page; empty starts from the beginning
	Filter expression.ConditionBuilder // Optional filter applied after key evaluation
}

// ScanPageOutput is the result of a single [Store.ScanPage] call.
type ScanPageOutput struct {
	Forums     []Forum // Forums evaluated on this page that passed the filter
	NextCursor string  // Cursor for the next page; empty when the scan is exhausted
}

// Scan returns every forum in the table, following LastEvaluatedKey until
// the scan is exhausted.
func (s *Store) Scan(ctx context.Context) ([]Forum, error) {
	var (
		forums []Forum
		input  = &dynamodb.ScanInput{TableName: aws.String(s.tableName)}
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		output, err := s.client.Scan(ctx, input)
		if err != nil {
			s.opts.logger.Error().Err(err).Str("table", s.tableName).Msg("couldn't scan for forums")
			return nil, fmt.Errorf("failed to scan table %s: %w", s.tableName, err)
		}

		page, err := UnmarshalForums(output.Items)
		if err != nil {
			return nil, err
		}
		forums = append(forums, page...)

		if output.LastEvaluatedKey == nil {
			return forums, nil
		}

		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
}

// ScanPage returns a single page of forums along with an opaque cursor for
// the next page. Pass the cursor back in a subsequent call to continue the
// scan; an empty NextCursor means the table has been fully scanned.
func (s *Store) ScanPage(ctx context.Context, in ScanPageInput) (ScanPageOutput, error) {
	startKey, err := UnmarshalCursor(in.Cursor)
	if err != nil {
		return ScanPageOutput{}, err
	}

	input := &dynamodb.ScanInput{
		TableName:         aws.String(s.tableName),
		ExclusiveStartKey: startKey,
	}

	if in.Limit > 0 {
		input.Limit = aws.Int32(int32(in.Limit))
	}

	if in.Filter.IsSet() {
		expr, err := expression.NewBuilder().WithFilter(in.Filter).Build()
		if err != nil {
			return ScanPageOutput{}, fmt.Errorf("failed to build filter expression: %w", err)
		}

		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	output, err := s.client.Scan(ctx, input)
	if err != nil {
		s.opts.logger.Error().Err(err).Str("table", s.tableName).Msg("couldn't scan for forums")
		return ScanPageOutput{}, fmt.Errorf("failed to scan table %s: %w", s.tableName, err)
	}

	forums, err := UnmarshalForums(output.Items)
	if err != nil {
		return ScanPageOutput{}, err
	}

	cursor, err := MarshalCursor(output.LastEvaluatedKey)
	if err != nil {
		return ScanPageOutput{}, err
	}

	return ScanPageOutput{Forums: forums, NextCursor: cursor}, nil
}

// CategoryFilter returns a filter condition matching forums in the given
// category, for use with [ScanPageInput].
func CategoryFilter(category string) expression.ConditionBuilder {
	return expression.Name(AttributeNameCategory).Equal(expression.Value(category))
}

// MinViewsFilter returns a filter condition matching forums with at least
// the given number of views, for use with [ScanPageInput].
func MinViewsFilter(views int) expression.ConditionBuilder {
	return expression.Name(AttributeNameViews).GreaterThanEqual(expression.Value(views))
}
