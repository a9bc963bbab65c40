package main

import (
	"context"
	"strings"
	"testing"

	"ytfetch/internal/config"
	"ytfetch/internal/history"
)

func TestHistoryCommandListsRecords(t *testing.T) {
	configPath := writeTestConfig(t)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.Record(context.Background(), history.Record{
		VideoID:   "abc123",
		SourceURL: "https://www.youtube.com/watch?v=abc123",
		Status:    history.StatusCompleted,
		Strategy:  "cookie file",
		Attempts:  1,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	output, err := runCommand(t, "--config", configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(output, "abc123") || !strings.Contains(output, "completed") {
		t.Fatalf("expected record in output, got %q", output)
	}
}

func TestHistoryCommandEmptyStore(t *testing.T) {
	configPath := writeTestConfig(t)

	output, err := runCommand(t, "--config", configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(output, "No downloads recorded yet.") {
		t.Fatalf("expected empty notice, got %q", output)
	}
}
