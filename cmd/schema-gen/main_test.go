package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "schema")

	path, err := write(dir)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	if filepath.Base(path) != "config.schema.json" {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}

	if doc["title"] != "hookrouter configuration" {
		t.Errorf("title = %v", doc["title"])
	}
}
