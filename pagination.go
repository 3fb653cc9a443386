package forumdb

import (
	"bytes"
	"encoding/base64"
	"encoding/gob"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func init() {
	// Register DynamoDB types with gob
	gob.Register(map[string]types.AttributeValue{})
	gob.Register(&types.AttributeValueMemberS{})
	gob.Register(&types.AttributeValueMemberN{})
	gob.Register(&types.AttributeValueMemberB{})
	gob.Register(&types.AttributeValueMemberSS{})
	gob.Register(&types.AttributeValueMemberNS{})
	gob.Register(&types.AttributeValueMemberBS{})
	gob.Register(&types.AttributeValueMemberM{})
	gob.Register(&types.AttributeValueMemberL{})
	gob.Register(&types.AttributeValueMemberNULL{})
	gob.Register(&types.AttributeValueMemberBOOL{})
}

// MarshalCursor encodes a last evaluated key into an opaque string cursor
// that clients can pass back to continue paging. A nil or empty key yields
// an empty cursor, which signals that the result set is exhausted.
func MarshalCursor(lastkey Item) (string, error) {
	if len(lastkey) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(lastkey); err != nil {
		return "", fmt.Errorf("failed to encode last key: %w", err)
	}

	return base64.URLEncoding.EncodeToString(buf.Bytes()), nil
}

// UnmarshalCursor decodes a cursor back into an exclusive start key. An
// empty cursor yields a nil key, which starts the scan from the beginning
// of the table.
func UnmarshalCursor(cursor string) (Item, error) {
	if cursor == "" {
		return nil, nil
	}

	data, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}

	decoder := gob.NewDecoder(bytes.NewReader(data))

	var startKey map[string]types.AttributeValue
	if err := decoder.Decode(&startKey); err != nil {
		return nil, fmt.Errorf("failed to decode cursor: %w", err)
	}

	return startKey, nil
}
