package forumdb

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrForumNotFound is returned when a forum does not exist in the table.
var ErrForumNotFound = errors.New("forum not found")

// Attribute names used by the forum table schema. Name is the partition key;
// the table has no sort key.
const (
	AttributeNameName     = "Name"
	AttributeNameCategory = "Category"
	AttributeNameMessages = "Messages"
	AttributeNameThreads  = "Threads"
	AttributeNameViews    = "Views"
)

// Item is an alias for the dynamodb attribute value map.
type Item = map[string]types.AttributeValue

// Forum is a single item in the forum table. The attribute shape follows the
// Amazon DynamoDB getting-started sample data: a forum is keyed by its name
// and carries a category plus message, thread and view counters.
//
// Views is a DynamoDB reserved word; update expressions built by this package
// alias it automatically.
type Forum struct {
	Name     string `dynamodbav:"Name" json:"Name"`
	Category string `dynamodbav:"Category" json:"Category"`
	Messages int    `dynamodbav:"Messages" json:"Messages"`
	Threads  int    `dynamodbav:"Threads" json:"Threads"`
	Views    int    `dynamodbav:"Views" json:"Views"`
}

func (f Forum) validate() error {
	if f.Name == "" {
		return errors.New("forum name cannot be empty")
	}
	return nil
}

// ForumKey returns the primary key item for the forum with the given name.
func ForumKey(name string) Item {
	return Item{
		AttributeNameName: &types.AttributeValueMemberS{Value: name},
	}
}

// MarshalForum marshals a forum into a DynamoDB item.
func MarshalForum(f Forum) (Item, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	item, err := attributevalue.MarshalMap(f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal forum %s: %w", f.Name, err)
	}

	return item, nil
}

// UnmarshalForum unmarshals a DynamoDB item into a forum.
func UnmarshalForum(item Item) (Forum, error) {
	var f Forum
	if err := attributevalue.UnmarshalMap(item, &f); err != nil {
		return Forum{}, fmt.Errorf("failed to unmarshal forum: %w", err)
	}
	return f, nil
}

// UnmarshalForums unmarshals a list of DynamoDB items into forums.
func UnmarshalForums(items []Item) ([]Forum, error) {
	var forums []Forum
	if err := attributevalue.UnmarshalListOfMaps(items, &forums); err != nil {
		return nil, fmt.Errorf("failed to unmarshal forums: %w", err)
	}
	return forums, nil
}
