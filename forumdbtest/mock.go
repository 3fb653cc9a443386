package forumdbtest

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/devopsroles/forumdb"
)

// DynamoDBAPICall is the shape of a single DynamoDB client operation.
type DynamoDBAPICall[T, U any] func(context.Context, *T, ...func(*dynamodb.Options)) (*U, error)

// MockClient is a simple expectation-based mock for DynamoDB operations.
// Set the function field for each operation a test expects; calls to unset
// operations fail the test immediately.
type MockClient struct {
	PutItemFunc        DynamoDBAPICall[dynamodb.PutItemInput, dynamodb.PutItemOutput]
	GetItemFunc        DynamoDBAPICall[dynamodb.GetItemInput, dynamodb.GetItemOutput]
	UpdateItemFunc     DynamoDBAPICall[dynamodb.UpdateItemInput, dynamodb.UpdateItemOutput]
	DeleteItemFunc     DynamoDBAPICall[dynamodb.DeleteItemInput, dynamodb.DeleteItemOutput]
	BatchWriteItemFunc DynamoDBAPICall[dynamodb.BatchWriteItemInput, dynamodb.BatchWriteItemOutput]
	ScanFunc           DynamoDBAPICall[dynamodb.ScanInput, dynamodb.ScanOutput]
	CreateTableFunc    DynamoDBAPICall[dynamodb.CreateTableInput, dynamodb.CreateTableOutput]
	DeleteTableFunc    DynamoDBAPICall[dynamodb.DeleteTableInput, dynamodb.DeleteTableOutput]
	DescribeTableFunc  DynamoDBAPICall[dynamodb.DescribeTableInput, dynamodb.DescribeTableOutput]
	ListTablesFunc     DynamoDBAPICall[dynamodb.ListTablesInput, dynamodb.ListTablesOutput]
}

// Ensure MockClient implements the forumdb client interface.
var _ forumdb.DynamoDBClient = (*MockClient)(nil)

// NewMockClient creates a mock whose operations all fail the test until an
// expectation is set.
func NewMockClient(t *testing.T) *MockClient {
	return &MockClient{
		PutItemFunc:        unexpectedCall[dynamodb.PutItemInput, dynamodb.PutItemOutput](t),
		GetItemFunc:        unexpectedCall[dynamodb.GetItemInput, dynamodb.GetItemOutput](t),
		UpdateItemFunc:     unexpectedCall[dynamodb.UpdateItemInput, dynamodb.UpdateItemOutput](t),
		DeleteItemFunc:     unexpectedCall[dynamodb.DeleteItemInput, dynamodb.DeleteItemOutput](t),
		BatchWriteItemFunc: unexpectedCall[dynamodb.BatchWriteItemInput, dynamodb.BatchWriteItemOutput](t),
		ScanFunc:           unexpectedCall[dynamodb.ScanInput, dynamodb.ScanOutput](t),
		CreateTableFunc:    unexpectedCall[dynamodb.CreateTableInput, dynamodb.CreateTableOutput](t),
		DeleteTableFunc:    unexpectedCall[dynamodb.DeleteTableInput, dynamodb.DeleteTableOutput](t),
		DescribeTableFunc:  unexpectedCall[dynamodb.DescribeTableInput, dynamodb.DescribeTableOutput](t),
		ListTablesFunc:     unexpectedCall[dynamodb.ListTablesInput, dynamodb.ListTablesOutput](t),
	}
}

func unexpectedCall[T, U any](t *testing.T) DynamoDBAPICall[T, U] {
	return func(ctx context.Context, params *T, optFns ...func(*dynamodb.Options)) (*U, error) {
		t.Helper()
		t.Fatalf("unexpected call with %T", params)
		return nil, nil
	}
}

func (m *MockClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return m.PutItemFunc(ctx, params, optFns...)
}

func (m *MockClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return m.GetItemFunc(ctx, params, optFns...)
}

func (m *MockClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return m.UpdateItemFunc(ctx, params, optFns...)
}

func (m *MockClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	return m.DeleteItemFunc(ctx, params, optFns...)
}

func (m *MockClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	return m.BatchWriteItemFunc(ctx, params, optFns...)
}

func (m *MockClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return m.ScanFunc(ctx, params, optFns...)
}

func (m *MockClient) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	return m.CreateTableFunc(ctx, params, optFns...)
}

func (m *MockClient) DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	return m.DeleteTableFunc(ctx, params, optFns...)
}

func (m *MockClient) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return m.DescribeTableFunc(ctx, params, optFns...)
}

func (m *MockClient) ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	return m.ListTablesFunc(ctx, params, optFns...)
}
