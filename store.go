package forumdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBClient is the subset of the DynamoDB API used by [Store]. It is
// satisfied by [dynamodb.Client] and allows connection management and mock
// injection in tests.
type DynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
}

// Store provides access to a DynamoDB table of forum data. It owns the table
// lifecycle (create, validate, delete) as well as item operations (put, get,
// update, delete, batch load, scan).
//
// Use [New] to create a Store. A Store is safe for concurrent use by multiple
// goroutines.
type Store struct {
	client    DynamoDBClient
	tableName string
	opts      *Options
}

// New creates a Store for the given table name. The DynamoDB client is built
// from the supplied AWS config unless one is injected with [WithAPI].
func New(cfg aws.Config, tableName string, opts ...Option) (*Store, error) {
	if tableName == "" {
		return nil, errors.New("table name cannot be empty")
	}

	options := newOptions()

	for _, o := range opts {
		o(options)
	}

	if err := options.validate(); err != nil {
		return nil, fmt.Errorf("invalid forumdb options: %w", err)
	}

	client := options.api
	if client == nil {
		client = dynamodb.NewFromConfig(cfg)
	}

	return &Store{
		client:    client,
		tableName: tableName,
		opts:      options,
	}, nil
}

// TableName returns the name of the underlying DynamoDB table.
func (s *Store) TableName() string {
	return s.tableName
}

// Put writes a forum to the table, replacing any existing item with the
// same name.
func (s *Store) Put(ctx context.Context, forum Forum) error {
	item, err := MarshalForum(forum)
	if err != nil {
		return err
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		s.logOpError(err, "put", forum.Name)
		return fmt.Errorf("failed to add forum %s to table %s: %w", forum.Name, s.tableName, err)
	}

	return nil
}

// Get retrieves the forum with the given name. Returns [ErrForumNotFound]
// if no such forum exists.
func (s *Store) Get(ctx context.Context, name string) (Forum, error) {
	if name == "" {
		return Forum{}, errors.New("forum name cannot be empty")
	}

	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       ForumKey(name),
	}

	output, err := s.client.GetItem(ctx, input)
	if err != nil {
		s.logOpError(err, "get", name)
		return Forum{}, fmt.Errorf("failed to get forum %s from table %s: %w", name, s.tableName, err)
	}

	if len(output.Item) == 0 {
		return Forum{}, fmt.Errorf("forum %s: %w", name, ErrForumNotFound)
	}

	return UnmarshalForum(output.Item)
}

// Update replaces the category and counter attributes of the forum with a
// SET update expression and returns the new values of the updated fields.
// The partition key is never modified.
func (s *Store) Update(ctx context.Context, forum Forum) (Forum, error) {
	if err := forum.validate(); err != nil {
		return Forum{}, err
	}

	update := expression.
		Set(expression.Name(AttributeNameCategory), expression.Value(forum.Category)).
		Set(expression.Name(AttributeNameMessages), expression.Value(forum.Messages)).
		Set(expression.Name(AttributeNameThreads), expression.Value(forum.Threads)).
		Set(expression.Name(AttributeNameViews), expression.Value(forum.Views))

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return Forum{}, fmt.Errorf("failed to build update expression: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       ForumKey(forum.Name),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	}

	output, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		s.logOpError(err, "update", forum.Name)
		return Forum{}, fmt.Errorf("failed to update forum %s in table %s: %w", forum.Name, s.tableName, err)
	}

	var updated Forum
	if err := attributevalue.UnmarshalMap(output.Attributes, &updated); err != nil {
		return Forum{}, fmt.Errorf("failed to unmarshal updated attributes: %w", err)
	}

	// UPDATED_NEW omits the key attributes.
	updated.Name = forum.Name

	return updated, nil
}

// AddViews atomically increments the view counter of an existing forum by
// delta and returns the new count. Returns [ErrForumNotFound] if the forum
// does not exist.
func (s *Store) AddViews(ctx context.Context, name string, delta int) (int, error) {
	if name == "" {
		return 0, errors.New("forum name cannot be empty")
	}

	update := expression.Add(expression.Name(AttributeNameViews), expression.Value(delta))
	condition := expression.AttributeExists(expression.Name(AttributeNameName))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(condition).Build()
	if err != nil {
		return 0, fmt.Errorf("failed to build update expression: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       ForumKey(name),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	}

	output, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return 0, fmt.Errorf("forum %s: %w", name, ErrForumNotFound)
		}
		s.logOpError(err, "add views", name)
		return 0, fmt.Errorf("failed to add views to forum %s in table %s: %w", name, s.tableName, err)
	}

	var updated struct {
		Views int `dynamodbav:"Views"`
	}
	if err := attributevalue.UnmarshalMap(output.Attributes, &updated); err != nil {
		return 0, fmt.Errorf("failed to unmarshal updated attributes: %w", err)
	}

	return updated.Views, nil
}

// Delete removes the forum with the given name. Deleting a forum that does
// not exist is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("forum name cannot be empty")
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       ForumKey(name),
	}

	if _, err := s.client.DeleteItem(ctx, input); err != nil {
		s.logOpError(err, "delete", name)
		return fmt.Errorf("failed to delete forum %s from table %s: %w", name, s.tableName, err)
	}

	return nil
}

func (s *Store) logOpError(err error, op, forum string) {
	s.opts.logger.Error().
		Err(err).
		Str("table", s.tableName).
		Str("forum", forum).
		Msgf("couldn't %s forum", op)
}
