package forumdbtest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/devopsroles/forumdb"
)

// FakeClient is an in-memory stand-in for DynamoDB that understands the
// forum table schema. It simulates table lifecycle, item CRUD, batch writes,
// scan pagination in key order, and the SET/ADD update expressions the
// forumdb store generates.
//
// FakeClient is safe for concurrent use.
type FakeClient struct {
	mu     sync.Mutex
	tables map[string]map[string]forumdb.Item

	// FailBatchWrites causes the first N BatchWriteItem calls to report all
	// request items as unprocessed without applying them. Useful for
	// exercising retry behavior.
	FailBatchWrites int

	batchCalls int
}

var _ forumdb.DynamoDBClient = (*FakeClient)(nil)

// NewFakeClient creates an empty fake with no tables.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		tables: make(map[string]map[string]forumdb.Item),
	}
}

// BatchWriteCalls returns how many BatchWriteItem calls the fake has served.
func (f *FakeClient) BatchWriteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.batchCalls
}

func (f *FakeClient) table(name string) (map[string]forumdb.Item, error) {
	items, ok := f.tables[name]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("table not found: " + name)}
	}
	return items, nil
}

func itemName(item forumdb.Item) string {
	if attr, ok := item[forumdb.AttributeNameName].(*types.AttributeValueMemberS); ok {
		return attr.Value
	}
	return ""
}

func (f *FakeClient) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(params.TableName)
	if _, ok := f.tables[name]; ok {
		return nil, &types.ResourceInUseException{Message: aws.String("table exists: " + name)}
	}

	f.tables[name] = make(map[string]forumdb.Item)
	return &dynamodb.CreateTableOutput{}, nil
}

func (f *FakeClient) DeleteTable(ctx context.Context, params *dynamodb.DeleteTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(params.TableName)
	if _, err := f.table(name); err != nil {
		return nil, err
	}

	delete(f.tables, name)
	return &dynamodb.DeleteTableOutput{}, nil
}

func (f *FakeClient) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(params.TableName)
	if _, err := f.table(name); err != nil {
		return nil, err
	}

	return &dynamodb.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName:   aws.String(name),
			TableStatus: types.TableStatusActive,
			KeySchema: []types.KeySchemaElement{
				{
					AttributeName: aws.String(forumdb.AttributeNameName),
					KeyType:       types.KeyTypeHash,
				},
			},
			AttributeDefinitions: []types.AttributeDefinition{
				{
					AttributeName: aws.String(forumdb.AttributeNameName),
					AttributeType: types.ScalarAttributeTypeS,
				},
			},
		},
	}, nil
}

func (f *FakeClient) ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.tables))
	for name := range f.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	return &dynamodb.ListTablesOutput{TableNames: names}, nil
}

func (f *FakeClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.table(aws.ToString(params.TableName))
	if err != nil {
		return nil, err
	}

	items[itemName(params.Item)] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *FakeClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.table(aws.ToString(params.TableName))
	if err != nil {
		return nil, err
	}

	item, ok := items[itemName(params.Key)]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}

	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *FakeClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.table(aws.ToString(params.TableName))
	if err != nil {
		return nil, err
	}

	delete(items, itemName(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *FakeClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.table(aws.ToString(params.TableName))
	if err != nil {
		return nil, err
	}

	name := itemName(params.Key)
	item, exists := items[name]

	if !exists {
		if params.ConditionExpression != nil && strings.Contains(aws.ToString(params.ConditionExpression), "attribute_exists") {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("item does not exist: " + name)}
		}
		item = forumdb.Item{forumdb.AttributeNameName: &types.AttributeValueMemberS{Value: name}}
	}

	updated, err := applyUpdateExpression(item, aws.ToString(params.UpdateExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}

	items[name] = item

	return &dynamodb.UpdateItemOutput{Attributes: updated}, nil
}

func (f *FakeClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.batchCalls++
	if f.batchCalls <= f.FailBatchWrites {
		return &dynamodb.BatchWriteItemOutput{UnprocessedItems: params.RequestItems}, nil
	}

	for tableName, requests := range params.RequestItems {
		items, err := f.table(tableName)
		if err != nil {
			return nil, err
		}

		for _, request := range requests {
			if request.PutRequest != nil {
				items[itemName(request.PutRequest.Item)] = request.PutRequest.Item
			}
			if request.DeleteRequest != nil {
				delete(items, itemName(request.DeleteRequest.Key))
			}
		}
	}

	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *FakeClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.table(aws.ToString(params.TableName))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	// Resume after the exclusive start key, if any.
	start := 0
	if params.ExclusiveStartKey != nil {
		after := itemName(params.ExclusiveStartKey)
		for i, name := range names {
			if name > after {
				start = i
				break
			}
			start = i + 1
		}
	}

	limit := len(names)
	if params.Limit != nil && int(*params.Limit) < limit {
		limit = int(*params.Limit)
	}

	output := &dynamodb.ScanOutput{}
	evaluated := 0

	for _, name := range names[start:] {
		if evaluated == limit {
			break
		}
		evaluated++

		item := items[name]
		match, err := matchesFilter(item, params.FilterExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
		if match {
			output.Items = append(output.Items, item)
		}

		if evaluated == limit && start+evaluated < len(names) {
			output.LastEvaluatedKey = forumdb.ForumKey(name)
		}
	}

	return output, nil
}

// applyUpdateExpression applies the SET and ADD expression shapes generated
// by the aws expression builder and returns the updated attribute values.
func applyUpdateExpression(item forumdb.Item, expr string, names map[string]string, values forumdb.Item) (forumdb.Item, error) {
	updated := forumdb.Item{}

	fields := strings.Fields(expr)
	if len(fields) < 2 {
		return nil, fmt.Errorf("unsupported update expression: %q", expr)
	}

	clauses := strings.Split(strings.TrimSpace(strings.TrimPrefix(expr, fields[0])), ",")

	switch strings.ToUpper(fields[0]) {
	case "SET":
		for _, clause := range clauses {
			parts := strings.Split(clause, "=")
			if len(parts) != 2 {
				return nil, fmt.Errorf("unsupported SET clause: %q", clause)
			}

			name := resolveName(strings.TrimSpace(parts[0]), names)
			value, ok := values[strings.TrimSpace(parts[1])]
			if !ok {
				return nil, fmt.Errorf("missing expression value in clause: %q", clause)
			}

			item[name] = value
			updated[name] = value
		}

	case "ADD":
		for _, clause := range clauses {
			parts := strings.Fields(clause)
			if len(parts) != 2 {
				return nil, fmt.Errorf("unsupported ADD clause: %q", clause)
			}

			name := resolveName(parts[0], names)
			value, ok := values[parts[1]]
			if !ok {
				return nil, fmt.Errorf("missing expression value in clause: %q", clause)
			}

			delta, err := numericValue(value)
			if err != nil {
				return nil, err
			}

			current := 0
			if existing, ok := item[name]; ok {
				if current, err = numericValue(existing); err != nil {
					return nil, err
				}
			}

			sum := &types.AttributeValueMemberN{Value: strconv.Itoa(current + delta)}
			item[name] = sum
			updated[name] = sum
		}

	default:
		return nil, fmt.Errorf("unsupported update expression: %q", expr)
	}

	return updated, nil
}

// matchesFilter evaluates the "=" and ">=" comparison shapes generated by
// the aws expression builder. A nil filter matches everything.
func matchesFilter(item forumdb.Item, filter *string, names map[string]string, values forumdb.Item) (bool, error) {
	if filter == nil {
		return true, nil
	}

	parts := strings.Fields(*filter)
	if len(parts) != 3 {
		return false, fmt.Errorf("unsupported filter expression: %q", *filter)
	}

	attr, ok := item[resolveName(parts[0], names)]
	if !ok {
		return false, nil
	}

	want, ok := values[parts[2]]
	if !ok {
		return false, fmt.Errorf("missing expression value in filter: %q", *filter)
	}

	switch parts[1] {
	case "=":
		return attributeEqual(attr, want), nil
	case ">=":
		lhs, err := numericValue(attr)
		if err != nil {
			return false, err
		}
		rhs, err := numericValue(want)
		if err != nil {
			return false, err
		}
		return lhs >= rhs, nil
	default:
		return false, fmt.Errorf("unsupported filter operator: %q", parts[1])
	}
}

func resolveName(token string, names map[string]string) string {
	if strings.HasPrefix(token, "#") {
		if name, ok := names[token]; ok {
			return name
		}
	}
	return token
}

func numericValue(attr types.AttributeValue) (int, error) {
	n, ok := attr.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("attribute is not numeric: %T", attr)
	}
	return strconv.Atoi(n.Value)
}

func attributeEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	default:
		return false
	}
}
