package forumdbtest

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/devopsroles/forumdb"
)

func TestMockClient(t *testing.T) {
	t.Run("routes expected calls", func(t *testing.T) {
		mock := NewMockClient(t)
		mock.GetItemFunc = func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			if aws.ToString(params.TableName) != "Forum" {
				t.Errorf("Expected table Forum, got %s", aws.ToString(params.TableName))
			}
			return &dynamodb.GetItemOutput{
				Item: forumdb.Item{
					forumdb.AttributeNameName:  &types.AttributeValueMemberS{Value: "Amazon DynamoDB"},
					forumdb.AttributeNameViews: &types.AttributeValueMemberN{Value: "1000"},
				},
			}, nil
		}

		store, err := forumdb.New(aws.Config{}, "Forum", forumdb.WithAPI(mock))
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}

		forum, err := store.Get(context.Background(), "Amazon DynamoDB")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if forum.Views != 1000 {
			t.Errorf("Expected 1000 views, got %d", forum.Views)
		}
	})

	t.Run("expectations are independent", func(t *testing.T) {
		mock := NewMockClient(t)
		mock.ListTablesFunc = func(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
			return &dynamodb.ListTablesOutput{TableNames: []string{"Forum"}}, nil
		}

		output, err := mock.ListTables(context.Background(), &dynamodb.ListTablesInput{})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(output.TableNames) != 1 || output.TableNames[0] != "Forum" {
			t.Errorf("Unexpected table names: %v", output.TableNames)
		}
	})
}
