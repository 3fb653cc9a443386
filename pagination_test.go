package forumdb

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestMarshalCursor(t *testing.T) {
	t.Run("empty key yields empty cursor", func(t *testing.T) {
		cursor, err := MarshalCursor(nil)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cursor != "" {
			t.Errorf("Expected empty cursor, got %q", cursor)
		}

		cursor, err = MarshalCursor(Item{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cursor != "" {
			t.Errorf("Expected empty cursor, got %q", cursor)
		}
	})

	t.Run("roundtrip", func(t *testing.T) {
		key := ForumKey("Amazon DynamoDB")

		cursor, err := MarshalCursor(key)
		if err != nil {
			t.Fatalf("Failed to marshal cursor: %v", err)
		}
		if cursor == "" {
			t.Fatal("Expected non-empty cursor")
		}

		decoded, err := UnmarshalCursor(cursor)
		if err != nil {
			t.Fatalf("Failed to unmarshal cursor: %v", err)
		}

		name, ok := decoded[AttributeNameName].(*types.AttributeValueMemberS)
		if !ok {
			t.Fatalf("Expected string attribute, got %v", decoded[AttributeNameName])
		}
		if name.Value != "Amazon DynamoDB" {
			t.Errorf("Expected key 'Amazon DynamoDB', got %s", name.Value)
		}
	})
}

func TestUnmarshalCursor(t *testing.T) {
	t.Run("empty cursor yields nil key", func(t *testing.T) {
		key, err := UnmarshalCursor("")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if key != nil {
			t.Errorf("Expected nil key, got %v", key)
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		if _, err := UnmarshalCursor("not base64!!"); err == nil {
			t.Error("Expected error for invalid cursor encoding")
		}
	})

	t.Run("invalid payload", func(t *testing.T) {
		if _, err := UnmarshalCursor("bm90IGEgZ29iIHN0cmVhbQ=="); err == nil {
			t.Error("Expected error for invalid cursor payload")
		}
	})
}
