package chat

import (
	"fmt"
	"testing"

	"github.com/diogo/groqchat/internal/models"
)

func makeHistory(n int) []models.Message {
	h := make([]models.Message, n)
	for i := range h {
		if i%2 == 0 {
			h[i] = models.NewUserMessage(fmt.Sprintf("m%d", i))
		} else {
			h[i] = models.NewAssistantMessage(fmt.Sprintf("m%d", i))
		}
	}
	return h
}

func TestBuildContextWindow(t *testing.T) {
	tests := []struct {
		name      string
		history   int
		wantLen   int
		wantFirst string
	}{
		{"empty", 0, 1, ""},
		{"short", 3, 4, "m0"},
		{"exactly ten", 10, 11, "m0"},
		{"fifteen", 15, 11, "m5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := makeHistory(tt.history)
			window := BuildContextWindow(history, "sys")

			if len(window) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(window), tt.wantLen)
			}
			if window[0].Role != models.RoleSystem || window[0].Content != "sys" {
				t.Errorf("window[0] = %+v, want system prompt", window[0])
			}
			if tt.history > 0 && window[1].Content != tt.wantFirst {
				t.Errorf("window[1] = %q, want %q", window[1].Content, tt.wantFirst)
			}
			if tt.history > 0 && window[len(window)-1] != history[len(history)-1] {
				t.Errorf("last message = %+v, want newest history entry", window[len(window)-1])
			}
		})
	}
}

func TestBuildContextWindow_OrderPreserved(t *testing.T) {
	history := makeHistory(15)
	window := BuildContextWindow(history, "sys")

	for i := 1; i < len(window); i++ {
		want := history[5+i-1]
		if window[i] != want {
			t.Errorf("window[%d] = %+v, want %+v", i, window[i], want)
		}
	}
}

func TestBuildContextWindow_InputUntouched(t *testing.T) {
	history := makeHistory(12)
	before := append([]models.Message(nil), history...)

	window := BuildContextWindow(history, "  verbatim prompt \n")
	window[1].Content = "mutated"

	if window[0].Content != "  verbatim prompt \n" {
		t.Errorf("system prompt not verbatim: %q", window[0].Content)
	}
	for i := range history {
		if history[i] != before[i] {
			t.Fatalf("history[%d] modified", i)
		}
	}
}
