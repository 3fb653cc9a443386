package forumdb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func forumItem(name string) Item {
	return Item{
		AttributeNameName: &types.AttributeValueMemberS{Value: name},
	}
}

func TestStoreScan(t *testing.T) {
	t.Run("follows pagination", func(t *testing.T) {
		calls := 0
		client := &stubClient{
			scan: func(params *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
				calls++
				if params.ExclusiveStartKey == nil {
					return &dynamodb.ScanOutput{
						Items:            []Item{forumItem("A"), forumItem("B")},
						LastEvaluatedKey: ForumKey("B"),
					}, nil
				}
				return &dynamodb.ScanOutput{
					Items: []Item{forumItem("C")},
				}, nil
			},
		}

		store := newTestStore(t, client)
		forums, err := store.Scan(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if calls != 2 {
			t.Errorf("Expected 2 scan calls, got %d", calls)
		}
		if len(forums) != 3 {
			t.Fatalf("Expected 3 forums, got %d", len(forums))
		}
		if forums[2].Name != "C" {
			t.Errorf("Expected last forum 'C', got %s", forums[2].Name)
		}
	})

	t.Run("empty table", func(t *testing.T) {
		store := newTestStore(t, &stubClient{})

		forums, err := store.Scan(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(forums) != 0 {
			t.Errorf("Expected no forums, got %d", len(forums))
		}
	})
}

func TestStoreScanPage(t *testing.T) {
	t.Run("limit and cursor", func(t *testing.T) {
		var captured *dynamodb.ScanInput
		client := &stubClient{
			scan: func(params *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
				captured = params
				return &dynamodb.ScanOutput{
					Items:            []Item{forumItem("A")},
					LastEvaluatedKey: ForumKey("A"),
				}, nil
			},
		}

		store := newTestStore(t, client)
		page, err := store.ScanPage(context.Background(), ScanPageInput{Limit: 1})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if *captured.Limit != 1 {
			t.Errorf("Expected limit 1, got %d", *captured.Limit)
		}
		if len(page.Forums) != 1 {
			t.Fatalf("Expected 1 forum, got %d", len(page.Forums))
		}
		if page.NextCursor == "" {
			t.Error("Expected non-empty next cursor")
		}

		// Continue the scan with the returned cursor.
		next, err := store.ScanPage(context.Background(), ScanPageInput{Cursor: page.NextCursor})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if captured.ExclusiveStartKey == nil {
			t.Error("Expected exclusive start key on second page")
		}
		if next.NextCursor == "" {
			t.Error("Expected next cursor while pages remain")
		}
	})

	t.Run("exhausted scan returns empty cursor", func(t *testing.T) {
		store := newTestStore(t, &stubClient{})

		page, err := store.ScanPage(context.Background(), ScanPageInput{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if page.NextCursor != "" {
			t.Errorf("Expected empty next cursor, got %q", page.NextCursor)
		}
	})

	t.Run("filter expression is applied", func(t *testing.T) {
		var captured *dynamodb.ScanInput
		client := &stubClient{
			scan: func(params *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
				captured = params
				return &dynamodb.ScanOutput{}, nil
			},
		}

		store := newTestStore(t, client)
		_, err := store.ScanPage(context.Background(), ScanPageInput{
			Filter: CategoryFilter("Amazon Web Services"),
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if captured.FilterExpression == nil {
			t.Error("Expected filter expression to be set")
		}
		if len(captured.ExpressionAttributeValues) == 0 {
			t.Error("Expected expression attribute values to be set")
		}
	})

	t.Run("invalid cursor", func(t *testing.T) {
		store := newTestStore(t, &stubClient{})

		if _, err := store.ScanPage(context.Background(), ScanPageInput{Cursor: "garbage!!"}); err == nil {
			t.Error("Expected error for invalid cursor")
		}
	})
}

func TestFilters(t *testing.T) {
	t.Run("category filter builds", func(t *testing.T) {
		expr, err := expression.NewBuilder().WithFilter(CategoryFilter("Monitoring")).Build()
		if err != nil {
			t.Fatalf("Failed to build expression: %v", err)
		}
		if expr.Filter() == nil {
			t.Error("Expected filter to be built")
		}
	})

	t.Run("min views filter builds", func(t *testing.T) {
		expr, err := expression.NewBuilder().WithFilter(MinViewsFilter(500)).Build()
		if err != nil {
			t.Fatalf("Failed to build expression: %v", err)
		}
		if expr.Filter() == nil {
			t.Error("Expected filter to be built")
		}
	})
}
