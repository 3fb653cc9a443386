package main

import "testing"

func TestParseFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts, err := parseFlags(nil)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if opts.tableName != "Forum" {
			t.Errorf("Expected default table Forum, got %s", opts.tableName)
		}
		if opts.dataFile != "./sampledata/Forum.json" {
			t.Errorf("Expected default data file, got %s", opts.dataFile)
		}
		if opts.keepTable || opts.verbose {
			t.Error("Expected boolean flags to default to false")
		}
	})

	t.Run("overrides", func(t *testing.T) {
		opts, err := parseFlags([]string{
			"-table", "ForumTest",
			"-data", "/tmp/forums.json",
			"-region", "eu-central-1",
			"-endpoint", "http://localhost:8000",
			"-keep-table",
			"-verbose",
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if opts.tableName != "ForumTest" {
			t.Errorf("Expected table ForumTest, got %s", opts.tableName)
		}
		if opts.dataFile != "/tmp/forums.json" {
			t.Errorf("Expected overridden data file, got %s", opts.dataFile)
		}
		if opts.region != "eu-central-1" {
			t.Errorf("Expected region eu-central-1, got %s", opts.region)
		}
		if opts.endpoint != "http://localhost:8000" {
			t.Errorf("Expected endpoint override, got %s", opts.endpoint)
		}
		if !opts.keepTable || !opts.verbose {
			t.Error("Expected boolean flags to be set")
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		if _, err := parseFlags([]string{"-bogus"}); err == nil {
			t.Error("Expected error for unknown flag")
		}
	})
}
