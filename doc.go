// Package forumdb encapsulates an Amazon DynamoDB table of forum data on top
// of the AWS SDK for Go v2 client.
//
// The library owns nothing below the SDK: authentication, request signing,
// transport retries and response decoding all belong to aws-sdk-go-v2. What
// it provides is the composition the getting-started demo needs: table
// lifecycle, item CRUD, batch loading and paginated scans over a table with
// the following schema:
//   - Name (S): partition key, the forum name
//   - Category (S): forum category
//   - Messages, Threads, Views (N): forum counters
//
// # Basic Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	store, err := forumdb.New(cfg, "Forum")
//
//	created, err := store.EnsureTable(ctx)
//	err = store.Put(ctx, forumdb.Forum{Name: "SQL server", Category: "Amazon Web Services", Views: 1000})
//	forum, err := store.Get(ctx, "Amazon DynamoDB")
//
// # Batch Loading
//
// PutBatch chunks items into BatchWriteItem requests of at most 25 and
// retries unprocessed items with exponential backoff:
//
//	forums, err := forumdb.ReadForumsFile("./sampledata/Forum.json")
//	err = store.PutBatch(ctx, forums)
//
// # Scanning and Pagination
//
// Scan walks the whole table. ScanPage returns one page at a time with an
// opaque string cursor that can be handed to clients:
//
//	page, err := store.ScanPage(ctx, forumdb.ScanPageInput{Limit: 10})
//	next, err := store.ScanPage(ctx, forumdb.ScanPageInput{Limit: 10, Cursor: page.NextCursor})
//
// # Testing
//
// The forumdbtest subpackage provides an expectation-based mock client, an
// in-memory fake, and helpers for running integration tests against
// DynamoDB Local.
package forumdb
