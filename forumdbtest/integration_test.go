package forumdbtest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/devopsroles/forumdb"
)

func TestSeedHelpers(t *testing.T) {
	ctx := context.Background()

	t.Run("seed forums", func(t *testing.T) {
		fake := NewFakeClient()
		if _, err := fake.CreateTable(ctx, &dynamodb.CreateTableInput{TableName: aws.String("Forum")}); err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}

		err := SeedForums(ctx, fake, "Forum",
			forumdb.Forum{Name: "Amazon DynamoDB", Category: "Amazon Web Services", Views: 1000},
			forumdb.Forum{Name: "Amazon S3", Category: "Amazon Web Services", Views: 500},
		)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		store, err := forumdb.New(aws.Config{}, "Forum", forumdb.WithAPI(fake))
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}

		forums, err := store.Scan(ctx)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(forums) != 2 {
			t.Errorf("Expected 2 seeded forums, got %d", len(forums))
		}
	})

	t.Run("seed from json", func(t *testing.T) {
		fake := NewFakeClient()
		if _, err := fake.CreateTable(ctx, &dynamodb.CreateTableInput{TableName: aws.String("Forum")}); err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}

		data := `[
			{"Name": "Amazon EC2", "Category": "Amazon Web Services", "Views": 250},
			{"Name": "Amazon RDS", "Category": "Amazon Web Services", "Views": 120}
		]`

		count, err := SeedFromJSON(ctx, fake, "Forum", strings.NewReader(data))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if count != 2 {
			t.Errorf("Expected 2 forums seeded, got %d", count)
		}
	})

	t.Run("seed from invalid json", func(t *testing.T) {
		fake := NewFakeClient()

		if _, err := SeedFromJSON(ctx, fake, "Forum", strings.NewReader("{oops")); err == nil {
			t.Error("Expected error for malformed document")
		}
	})
}

func TestNewTestTableName(t *testing.T) {
	a := NewTestTableName("forum-test")
	b := NewTestTableName("forum-test")

	if !strings.HasPrefix(a, "forum-test-") {
		t.Errorf("Expected prefix forum-test-, got %s", a)
	}
	if a == b {
		t.Errorf("Expected unique names, got %s twice", a)
	}
}

// TestLocalForumTable exercises the store against DynamoDB Local. It is
// skipped in short mode or when no local instance is listening on the
// default port.
func TestLocalForumTable(t *testing.T) {
	WithLocalForumTable(t, DefaultLocalPort, func(local *LocalDynamoDB, tableName string) {
		ctx := context.Background()

		store, err := forumdb.New(aws.Config{}, tableName, forumdb.WithAPI(local.Client))
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}

		if err := store.ValidateTable(ctx); err != nil {
			t.Fatalf("Unexpected schema error: %v", err)
		}

		if err := SeedForums(ctx, local.Client, tableName,
			forumdb.Forum{Name: "Amazon DynamoDB", Category: "Amazon Web Services", Messages: 4, Threads: 2, Views: 1000},
			forumdb.Forum{Name: "Amazon S3", Category: "Amazon Web Services", Messages: 3, Threads: 1, Views: 500},
		); err != nil {
			t.Fatalf("Failed to seed forums: %v", err)
		}

		forum, err := store.Get(ctx, "Amazon DynamoDB")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if forum.Views != 1000 {
			t.Errorf("Expected 1000 views, got %d", forum.Views)
		}

		views, err := store.AddViews(ctx, "Amazon DynamoDB", 25)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if views != 1025 {
			t.Errorf("Expected 1025 views, got %d", views)
		}

		page, err := store.ScanPage(ctx, forumdb.ScanPageInput{
			Filter: forumdb.CategoryFilter("Amazon Web Services"),
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(page.Forums) != 2 {
			t.Errorf("Expected 2 forums, got %d", len(page.Forums))
		}

		if err := store.Delete(ctx, "Amazon S3"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if _, err := store.Get(ctx, "Amazon S3"); !errors.Is(err, forumdb.ErrForumNotFound) {
			t.Errorf("Expected ErrForumNotFound, got %v", err)
		}
	})
}
