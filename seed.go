package forumdb

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadForums decodes a sample forum JSON document from r. The document is
// expected to be an array of forum objects in the getting-started sample
// data shape:
//
//	[
//	  {"Name": "Amazon DynamoDB", "Category": "Amazon Web Services",
//	   "Messages": 4, "Threads": 2, "Views": 1000}
//	]
//
// Every forum in the document must have a non-empty name.
func ReadForums(r io.Reader) ([]Forum, error) {
	var forums []Forum

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&forums); err != nil {
		return nil, fmt.Errorf("failed to parse forum data: %w", err)
	}

	for i, forum := range forums {
		if err := forum.validate(); err != nil {
			return nil, fmt.Errorf("invalid forum at index %d: %w", i, err)
		}
	}

	return forums, nil
}

// ReadForumsFile reads a sample forum JSON document from the local file at
// path. The returned error wraps [os.ErrNotExist] when the file is missing.
func ReadForumsFile(path string) ([]Forum, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open forum data file: %w", err)
	}
	defer file.Close()

	forums, err := ReadForums(file)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", path, err)
	}

	return forums, nil
}
