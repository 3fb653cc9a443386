package forumdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Exists reports whether the forum table exists. Errors other than a missing
// table are propagated.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	input := &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	}

	if _, err := s.client.DescribeTable(ctx, input); err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return false, nil
		}

		s.opts.logger.Error().Err(err).Str("table", s.tableName).
			Msg("couldn't check for existence of table")
		return false, fmt.Errorf("failed to describe table %s: %w", s.tableName, err)
	}

	return true, nil
}

// CreateTable creates the forum table with Name as its string partition key
// and waits for it to become active. Throughput defaults to 10 read and
// 5 write capacity units; see [WithThroughput].
func (s *Store) CreateTable(ctx context.Context) error {
	input := &dynamodb.CreateTableInput{
		TableName: aws.String(s.tableName),
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String(AttributeNameName),
				KeyType:       types.KeyTypeHash,
			},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String(AttributeNameName),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(s.opts.readCapacity),
			WriteCapacityUnits: aws.Int64(s.opts.writeCapacity),
		},
	}

	if _, err := s.client.CreateTable(ctx, input); err != nil {
		s.opts.logger.Error().Err(err).Str("table", s.tableName).Msg("couldn't create table")
		return fmt.Errorf("failed to create table %s: %w", s.tableName, err)
	}

	return s.WaitForTableActive(ctx)
}

// EnsureTable creates the forum table if it does not already exist. It
// returns true when the table was created by this call.
func (s *Store) EnsureTable(ctx context.Context) (created bool, err error) {
	exists, err := s.Exists(ctx)
	if err != nil {
		return false, err
	}

	if exists {
		return false, nil
	}

	return true, s.CreateTable(ctx)
}

// ValidateTable checks that the forum table has the expected schema: a
// simple primary key on the Name string attribute, and ACTIVE status.
func (s *Store) ValidateTable(ctx context.Context) error {
	input := &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	}

	response, err := s.client.DescribeTable(ctx, input)
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return fmt.Errorf("table %s does not exist", s.tableName)
		}
		return fmt.Errorf("failed to describe table %s: %w", s.tableName, err)
	}

	table := response.Table

	if len(table.KeySchema) != 1 {
		return fmt.Errorf("table %s has a composite primary key, expected a simple key on %s", s.tableName, AttributeNameName)
	}

	if aws.ToString(table.KeySchema[0].AttributeName) != AttributeNameName {
		return fmt.Errorf("table %s has partition key %s, expected %s", s.tableName, aws.ToString(table.KeySchema[0].AttributeName), AttributeNameName)
	}

	for _, attr := range table.AttributeDefinitions {
		if aws.ToString(attr.AttributeName) != AttributeNameName {
			continue
		}
		if attr.AttributeType != types.ScalarAttributeTypeS {
			return fmt.Errorf("table %s has partition key type %s, expected %s", s.tableName, attr.AttributeType, types.ScalarAttributeTypeS)
		}
	}

	if table.TableStatus != types.TableStatusActive {
		return fmt.Errorf("table %s is not active (status: %s)", s.tableName, table.TableStatus)
	}

	return nil
}

// DeleteTable deletes the forum table and waits for the deletion to complete.
func (s *Store) DeleteTable(ctx context.Context) error {
	input := &dynamodb.DeleteTableInput{
		TableName: aws.String(s.tableName),
	}

	if _, err := s.client.DeleteTable(ctx, input); err != nil {
		s.opts.logger.Error().Err(err).Str("table", s.tableName).Msg("couldn't delete table")
		return fmt.Errorf("failed to delete table %s: %w", s.tableName, err)
	}

	return s.WaitForTableDeleted(ctx)
}

// ListTables returns the names of all tables visible to the client, following
// LastEvaluatedTableName until the listing is exhausted.
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	var (
		names []string
		input = &dynamodb.ListTablesInput{}
	)

	for {
		output, err := s.client.ListTables(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list tables: %w", err)
		}

		names = append(names, output.TableNames...)

		if output.LastEvaluatedTableName == nil {
			return names, nil
		}

		input.ExclusiveStartTableName = output.LastEvaluatedTableName
	}
}

// WaitForTableActive polls the table description until the table becomes
// active or the configured wait timeout elapses.
func (s *Store) WaitForTableActive(ctx context.Context) error {
	deadline := s.opts.clock().Add(s.opts.waitTimeout)

	for s.opts.clock().Before(deadline) {
		output, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(s.tableName),
		})
		if err != nil {
			var notFound *types.ResourceNotFoundException
			if !errors.As(err, &notFound) {
				return fmt.Errorf("failed to describe table %s: %w", s.tableName, err)
			}
		} else if output.Table.TableStatus == types.TableStatusActive {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}

	return fmt.Errorf("table %s did not become active within %v", s.tableName, s.opts.waitTimeout)
}

// WaitForTableDeleted polls the table description until the table no longer
// exists or the configured wait timeout elapses.
func (s *Store) WaitForTableDeleted(ctx context.Context) error {
	deadline := s.opts.clock().Add(s.opts.waitTimeout)

	for s.opts.clock().Before(deadline) {
		_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(s.tableName),
		})
		if err != nil {
			var notFound *types.ResourceNotFoundException
			if errors.As(err, &notFound) {
				return nil
			}
			return fmt.Errorf("error checking table deletion status: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}

	return fmt.Errorf("table %s was not deleted within %v", s.tableName, s.opts.waitTimeout)
}
