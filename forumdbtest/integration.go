package forumdbtest

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/devopsroles/forumdb"
)

// NewTestTableName generates a unique table name for a test.
func NewTestTableName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// WithLocalDynamoDB runs fn against a DynamoDB Local instance on the given
// port. The test is skipped in short mode or when no local instance is
// available.
func WithLocalDynamoDB(t *testing.T, port int, fn func(local *LocalDynamoDB)) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	local := NewLocalDynamoDB(port)
	ctx := context.Background()

	if !local.IsAvailable(ctx) {
		t.Skipf("DynamoDB Local not available on port %d", port)
	}

	fn(local)
}

// WithLocalForumTable runs fn with an isolated forum table on DynamoDB Local
// that is created before the test and deleted afterwards, even if the test
// panics. The test is skipped when no local instance is available.
func WithLocalForumTable(t *testing.T, port int, fn func(local *LocalDynamoDB, tableName string)) {
	WithLocalDynamoDB(t, port, func(local *LocalDynamoDB) {
		ctx := context.Background()
		tableName := NewTestTableName("forum-test")

		defer func() {
			if err := local.DeleteTable(ctx, tableName); err != nil {
				t.Errorf("Failed to cleanup table %s: %v", tableName, err)
			}
		}()

		if err := local.CreateForumTable(ctx, tableName); err != nil {
			t.Fatalf("Failed to create test table %s: %v", tableName, err)
		}

		fn(local, tableName)
	})
}

// SeedForums writes the given forums to the table one item at a time.
func SeedForums(ctx context.Context, client forumdb.DynamoDBClient, tableName string, forums ...forumdb.Forum) error {
	for _, forum := range forums {
		item, err := forumdb.MarshalForum(forum)
		if err != nil {
			return fmt.Errorf("failed to marshal forum %s: %w", forum.Name, err)
		}

		if _, err := client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: &tableName,
			Item:      item,
		}); err != nil {
			return fmt.Errorf("failed to seed forum %s: %w", forum.Name, err)
		}
	}

	return nil
}

// SeedFromJSON reads a sample forum document from r and seeds every forum to
// the table. Returns the number of forums seeded.
func SeedFromJSON(ctx context.Context, client forumdb.DynamoDBClient, tableName string, r io.Reader) (int, error) {
	forums, err := forumdb.ReadForums(r)
	if err != nil {
		return 0, err
	}

	if err := SeedForums(ctx, client, tableName, forums...); err != nil {
		return 0, err
	}

	return len(forums), nil
}
