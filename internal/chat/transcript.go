package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/groqchat/internal/models"
)

// ExportFormat represents the format for exporting a conversation
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat accepts "markdown", "md" or "json"
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q (use markdown or json)", s)
}

// Extension returns the file extension for the format
func (f ExportFormat) Extension() string {
	if f == ExportFormatJSON {
		return ".json"
	}
	return ".md"
}

// TranscriptMeta describes the conversation being exported
type TranscriptMeta struct {
	SessionID    string
	Model        string
	SystemPrompt string
	ExportedAt   time.Time
}

// RenderMarkdown formats a conversation as Markdown
func RenderMarkdown(meta TranscriptMeta, messages []models.Message) string {
	var sb strings.Builder

	sb.WriteString("# groqchat conversation\n\n")
	sb.WriteString("**Model:** ")
	sb.WriteString(meta.Model)
	sb.WriteString("\n")
	if !meta.ExportedAt.IsZero() {
		sb.WriteString("**Exported:** ")
		sb.WriteString(meta.ExportedAt.Format("2006-01-02 15:04:05"))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n", len(messages)))

	if meta.SystemPrompt != "" {
		sb.WriteString("\n> ")
		sb.WriteString(strings.ReplaceAll(meta.SystemPrompt, "\n", "\n> "))
		sb.WriteString("\n")
	}
	sb.WriteString("\n---\n\n")

	for i, msg := range messages {
		role := "You"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportConversation struct {
	SessionID    string           `json:"session_id,omitempty"`
	Model        string           `json:"model"`
	SystemPrompt string           `json:"system_prompt,omitempty"`
	ExportedAt   time.Time        `json:"exported_at"`
	Messages     []models.Message `json:"messages"`
}

// RenderJSON formats a conversation as indented JSON
func RenderJSON(meta TranscriptMeta, messages []models.Message) ([]byte, error) {
	if messages == nil {
		messages = []models.Message{}
	}
	return json.MarshalIndent(exportConversation{
		SessionID:    meta.SessionID,
		Model:        meta.Model,
		SystemPrompt: meta.SystemPrompt,
		ExportedAt:   meta.ExportedAt,
		Messages:     messages,
	}, "", "  ")
}

// Transcript renders the session's conversation in the given format
func (s *Session) Transcript(format ExportFormat) ([]byte, error) {
	cfg := s.Config()
	meta := TranscriptMeta{
		SessionID:    s.id,
		Model:        cfg.Model,
		SystemPrompt: cfg.SystemPrompt,
		ExportedAt:   time.Now(),
	}
	messages := s.store.Messages()

	switch format {
	case ExportFormatJSON:
		return RenderJSON(meta, messages)
	case ExportFormatMarkdown, "":
		return []byte(RenderMarkdown(meta, messages)), nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// ExportFilename returns a timestamped file name for an export
func ExportFilename(format ExportFormat, t time.Time) string {
	return "groqchat-" + t.Format("20060102-150405") + format.Extension()
}

// ExportToFile writes the transcript to path, creating parent directories.
// An empty path writes a timestamped file in the current directory.
func (s *Session) ExportToFile(path string, format ExportFormat) (string, error) {
	if s.store.Len() == 0 {
		return "", fmt.Errorf("nothing to export")
	}

	data, err := s.Transcript(format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = ExportFilename(format, time.Now())
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
