package chat

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/diogo/groqchat/internal/api"
	"github.com/diogo/groqchat/internal/models"
)

func TestRenderMarkdown(t *testing.T) {
	meta := TranscriptMeta{
		Model:        "llama-3.3-70b-versatile",
		SystemPrompt: "line one\nline two",
		ExportedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	msgs := []models.Message{
		models.NewUserMessage("question"),
		models.NewAssistantMessage("answer"),
	}

	md := RenderMarkdown(meta, msgs)

	for _, want := range []string{
		"**Model:** llama-3.3-70b-versatile",
		"**Exported:** 2025-01-02 03:04:05",
		"**Messages:** 2",
		"> line one\n> line two",
		"## You\n\nquestion",
		"## Assistant\n\nanswer",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(TranscriptMeta{SessionID: "abc", Model: "m"}, nil)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}

	var out struct {
		SessionID string           `json:"session_id"`
		Messages  []models.Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.SessionID != "abc" {
		t.Errorf("session_id = %q", out.SessionID)
	}
	if out.Messages == nil {
		t.Error("messages should be an empty array, not null")
	}
}

func TestParseExportFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    ExportFormat
		wantErr bool
	}{
		{"", ExportFormatMarkdown, false},
		{"md", ExportFormatMarkdown, false},
		{"Markdown", ExportFormatMarkdown, false},
		{"json", ExportFormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseExportFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseExportFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC)
	if got := ExportFilename(ExportFormatJSON, ts); got != "groqchat-20250607-080910.json" {
		t.Errorf("ExportFilename() = %s", got)
	}
	if got := ExportFilename(ExportFormatMarkdown, ts); got != "groqchat-20250607-080910.md" {
		t.Errorf("ExportFilename() = %s", got)
	}
}

func TestSession_ExportToFile(t *testing.T) {
	s := NewSession(testConfig("k"), &api.MockClient{Replies: []string{"pong"}})

	path := filepath.Join(t.TempDir(), "out", "chat.md")
	if _, err := s.ExportToFile(path, ExportFormatMarkdown); err == nil {
		t.Error("expected error exporting an empty conversation")
	}

	if _, err := s.Submit(context.Background(), "ping"); err != nil {
		t.Fatal(err)
	}

	written, err := s.ExportToFile(path, ExportFormatMarkdown)
	if err != nil {
		t.Fatalf("ExportToFile() error = %v", err)
	}
	data, err := os.ReadFile(written)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "ping") || !strings.Contains(string(data), "pong") {
		t.Errorf("export missing messages:\n%s", data)
	}
}
