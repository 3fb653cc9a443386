// Command forumdb-demo walks through the Amazon DynamoDB getting-started
// scenario against a forum table: it creates the table if needed, loads
// sample data, reads, adds, scans, updates and deletes forums, and finally
// deletes the table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/devopsroles/forumdb"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type options struct {
	tableName string
	dataFile  string
	region    string
	endpoint  string
	envFile   string
	keepTable bool
	verbose   bool
}

func parseFlags(args []string) (options, error) {
	opts := options{}

	fs := flag.NewFlagSet("forumdb-demo", flag.ContinueOnError)
	fs.StringVar(&opts.tableName, "table", "Forum", "name of the forum table")
	fs.StringVar(&opts.dataFile, "data", "./sampledata/Forum.json", "path to the sample forum data file")
	fs.StringVar(&opts.region, "region", "", "AWS region (overrides environment)")
	fs.StringVar(&opts.endpoint, "endpoint", "", "DynamoDB endpoint override, e.g. http://localhost:8000 for DynamoDB Local")
	fs.StringVar(&opts.envFile, "env-file", "", "path to a .env file to load before reading AWS configuration")
	fs.BoolVar(&opts.keepTable, "keep-table", false, "skip deleting the table at the end of the demo")
	fs.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
	if opts.verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error().Err(err).Msg("demo failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger zerolog.Logger) error {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", opts.envFile, err)
		}
	} else if err := godotenv.Load(); err == nil {
		logger.Debug().Msg("loaded configuration from .env")
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	storeOpts := []forumdb.Option{forumdb.WithLogger(logger)}

	if opts.endpoint != "" {
		client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(opts.endpoint)
		})
		storeOpts = append(storeOpts, forumdb.WithAPI(client))
	}

	store, err := forumdb.New(cfg, opts.tableName, storeOpts...)
	if err != nil {
		return err
	}

	banner()
	fmt.Println("Welcome to the Amazon DynamoDB getting started demo.")
	banner()

	// Check for table existence, create table if not found.
	created, err := store.EnsureTable(ctx)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("Created table %s.\n", store.TableName())
	} else if err := store.ValidateTable(ctx); err != nil {
		return err
	}

	// Load sample data into the table.
	forums, err := forumdb.ReadForumsFile(opts.dataFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Printf("File %s not found. You must first download the file to run this demo.\n", opts.dataFile)
		}
		return err
	}

	fmt.Printf("Reading data from '%s' into your table.\n", opts.dataFile)
	if err := store.PutBatch(ctx, forums); err != nil {
		return err
	}
	fmt.Printf("Wrote %d forums into %s.\n", len(forums), store.TableName())
	banner()

	// Get forum data for a known forum.
	forum, err := store.Get(ctx, "Amazon DynamoDB")
	if err != nil {
		return err
	}
	fmt.Println("Here's what I found:")
	printForum(forum)
	banner()

	// Add a new forum.
	added := forumdb.Forum{
		Name:     "SQL server",
		Category: "Amazon Web Services",
		Messages: 4,
		Threads:  2,
		Views:    1000,
	}
	if err := store.Put(ctx, added); err != nil {
		return err
	}
	fmt.Printf("Added item to '%s'.\n", store.TableName())
	banner()

	if err := printAllForums(ctx, store); err != nil {
		return err
	}
	banner()

	// Update the new forum: bump quality views from 1000 to 2000.
	added.Views = 2000
	updated, err := store.Update(ctx, added)
	if err != nil {
		return err
	}
	fmt.Println("Updated:")
	printForum(updated)
	banner()

	// Delete the forum we just added.
	if err := store.Delete(ctx, added.Name); err != nil {
		return err
	}
	fmt.Println("Removed item from the table.")
	banner()

	if err := printAllForums(ctx, store); err != nil {
		return err
	}
	banner()

	// List all tables.
	tables, err := store.ListTables(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Table list:")
	fmt.Println(strings.Join(tables, "\n"))
	banner()

	if opts.keepTable {
		fmt.Println("Don't forget to delete the table when you're done or you might incur charges on your account.")
		return nil
	}

	if err := store.DeleteTable(ctx); err != nil {
		return err
	}
	fmt.Printf("Deleted %s.\n", store.TableName())
	banner()

	return nil
}

func printAllForums(ctx context.Context, store *forumdb.Store) error {
	forums, err := store.Scan(ctx)
	if err != nil {
		return err
	}

	if len(forums) == 0 {
		fmt.Println("I don't know about any forums.")
		return nil
	}

	fmt.Printf("Here are your %d forums:\n\n", len(forums))
	for _, forum := range forums {
		printForum(forum)
	}

	return nil
}

func printForum(f forumdb.Forum) {
	fmt.Printf("  %s (%s): %d messages, %d threads, %d views\n",
		f.Name, f.Category, f.Messages, f.Threads, f.Views)
}

func banner() {
	fmt.Println(strings.Repeat("-", 88))
}
