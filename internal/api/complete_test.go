package api

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
)

const okResponse = `{
  "id": "chatcmpl-123",
  "object": "chat.completion",
  "model": "llama-3.3-70b-versatile",
  "choices": [
    {"index": 0, "message": {"role": "assistant", "content": "Hello there!"}, "finish_reason": "stop"}
  ],
  "usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
}`

func newTestRequest() *CompletionRequest {
	return &CompletionRequest{
		Messages: []models.Message{
			models.NewSystemMessage("be brief"),
			models.NewUserMessage("hi"),
		},
		Model:       models.DefaultModel.Name,
		Temperature: 0.7,
		MaxTokens:   2048,
		APIKey:      "gsk_test_key_1234",
	}
}

func newTestClient(t *testing.T, doer HTTPDoer) *Client {
	t.Helper()
	client, err := NewClient(WithHTTPClient(doer), WithBaseURL("https://api.test/v1"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestComplete_Success(t *testing.T) {
	mock := NewMockHttpClient([]byte(okResponse), 200)
	client := newTestClient(t, mock)

	completion, err := client.Complete(context.Background(), newTestRequest())
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if completion.Text != "Hello there!" {
		t.Errorf("Text = %q, want %q", completion.Text, "Hello there!")
	}
	if completion.ID != "chatcmpl-123" {
		t.Errorf("ID = %q", completion.ID)
	}
	if completion.FinishReason != "stop" {
		t.Errorf("FinishReason = %q", completion.FinishReason)
	}
	if completion.Usage.TotalTokens != 15 || completion.Usage.PromptTokens != 12 || completion.Usage.CompletionTokens != 3 {
		t.Errorf("Usage = %+v", completion.Usage)
	}
	if completion.Elapsed < 0 {
		t.Errorf("Elapsed = %v, want >= 0", completion.Elapsed)
	}
}

func TestComplete_ElapsedCoversTransport(t *testing.T) {
	const delay = 30 * time.Millisecond
	mock := NewMockHttpClient([]byte(okResponse), 200)
	mock.Delay = delay
	client := newTestClient(t, mock)

	completion, err := client.Complete(context.Background(), newTestRequest())
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if completion.Elapsed < delay {
		t.Errorf("Elapsed = %v, want >= %v", completion.Elapsed, delay)
	}
	if completion.ElapsedSeconds() < delay.Seconds() {
		t.Errorf("ElapsedSeconds() = %v, want >= %v", completion.ElapsedSeconds(), delay.Seconds())
	}
	if mock.Calls != 1 {
		t.Errorf("Calls = %d, want 1", mock.Calls)
	}
}

func TestComplete_RequestShape(t *testing.T) {
	mock := NewMockHttpClient([]byte(okResponse), 200)
	client := newTestClient(t, mock)

	req := newTestRequest()
	req.Temperature = 0
	if _, err := client.Complete(context.Background(), req); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	httpReq := mock.LastRequest
	if httpReq.Method != "POST" {
		t.Errorf("Method = %s, want POST", httpReq.Method)
	}
	if httpReq.URL.String() != "https://api.test/v1/chat/completions" {
		t.Errorf("URL = %s", httpReq.URL.String())
	}
	if got := httpReq.Header.Get("Authorization"); got != "Bearer gsk_test_key_1234" {
		t.Errorf("Authorization = %q", got)
	}
	if got := httpReq.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}

	body := gjson.ParseBytes(mock.LastBody)
	if body.Get("model").String() != models.DefaultModel.Name {
		t.Errorf("model = %s", body.Get("model").String())
	}
	if !body.Get("temperature").Exists() || body.Get("temperature").Float() != 0 {
		t.Errorf("temperature must be sent even when zero, body = %s", mock.LastBody)
	}
	if body.Get("max_tokens").Int() != 2048 {
		t.Errorf("max_tokens = %d", body.Get("max_tokens").Int())
	}

	msgs := body.Get("messages").Array()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].Get("role").String() != "system" || msgs[0].Get("content").String() != "be brief" {
		t.Errorf("messages[0] = %s", msgs[0].Raw)
	}
	if msgs[1].Get("role").String() != "user" || msgs[1].Get("content").String() != "hi" {
		t.Errorf("messages[1] = %s", msgs[1].Raw)
	}
}

func TestComplete_DoesNotModifyRequest(t *testing.T) {
	mock := NewMockHttpClient([]byte(okResponse), 200)
	client := newTestClient(t, mock)

	req := newTestRequest()
	before := append([]models.Message(nil), req.Messages...)
	if _, err := client.Complete(context.Background(), req); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if len(req.Messages) != len(before) {
		t.Fatalf("messages length changed: %d -> %d", len(before), len(req.Messages))
	}
	for i := range before {
		if req.Messages[i] != before[i] {
			t.Errorf("message %d changed: %+v -> %+v", i, before[i], req.Messages[i])
		}
	}
}

func TestComplete_ConfigurationErrors(t *testing.T) {
	mock := NewMockHttpClient([]byte(okResponse), 200)
	client := newTestClient(t, mock)

	req := newTestRequest()
	req.APIKey = "   "
	_, err := client.Complete(context.Background(), req)
	if !apierrors.IsConfigurationError(err) {
		t.Errorf("missing key: got %v, want configuration error", err)
	}
	if !errors.Is(err, apierrors.ErrNoAPIKey) {
		t.Errorf("missing key should match ErrNoAPIKey")
	}

	_, err = client.Complete(context.Background(), nil)
	if !apierrors.IsConfigurationError(err) {
		t.Errorf("nil request: got %v, want configuration error", err)
	}

	if mock.Calls != 0 {
		t.Errorf("transport called %d times, want 0", mock.Calls)
	}
}

func TestComplete_Failures(t *testing.T) {
	tests := []struct {
		name  string
		mock  *MockHttpClient
		check func(error) bool
	}{
		{
			name:  "unauthorized",
			mock:  NewMockHttpClient([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`), 401),
			check: apierrors.IsAuthError,
		},
		{
			name:  "rate limited",
			mock:  NewMockHttpClient([]byte(`{"error":{"message":"Rate limit reached"}}`), 429),
			check: apierrors.IsRateLimitError,
		},
		{
			name:  "server error",
			mock:  NewMockHttpClient([]byte(`upstream failure`), 500),
			check: func(err error) bool { return apierrors.GetHTTPStatus(err) == 500 },
		},
		{
			name:  "gateway timeout",
			mock:  NewMockHttpClient([]byte(``), 504),
			check: apierrors.IsTimeoutError,
		},
		{
			name:  "connection refused",
			mock:  NewMockHttpClientWithError(errors.New("dial tcp: connection refused")),
			check: apierrors.IsNetworkError,
		},
		{
			name:  "deadline",
			mock:  NewMockHttpClientWithError(context.DeadlineExceeded),
			check: apierrors.IsTimeoutError,
		},
		{
			name:  "net timeout",
			mock:  NewMockHttpClientWithError(&net.DNSError{Err: "i/o timeout", IsTimeout: true}),
			check: apierrors.IsTimeoutError,
		},
		{
			name:  "broken body",
			mock:  NewMockHttpClientWithBrokenBody(),
			check: apierrors.IsNetworkError,
		},
		{
			name:  "not json",
			mock:  NewMockHttpClient([]byte(`<html>oops</html>`), 200),
			check: apierrors.IsParseError,
		},
		{
			name:  "empty choices",
			mock:  NewMockHttpClient([]byte(`{"choices":[]}`), 200),
			check: apierrors.IsParseError,
		},
		{
			name:  "missing content",
			mock:  NewMockHttpClient([]byte(`{"choices":[{"message":{"role":"assistant"}}]}`), 200),
			check: apierrors.IsParseError,
		},
		{
			name: "error envelope with 200",
			mock: NewMockHttpClient([]byte(`{"error":{"message":"model overloaded"}}`), 200),
			check: func(err error) bool {
				return strings.Contains(err.Error(), "model overloaded")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.mock)

			completion, err := client.Complete(context.Background(), newTestRequest())
			if err == nil {
				t.Fatalf("Complete() = %+v, want error", completion)
			}
			if completion != nil {
				t.Error("expected nil completion on failure")
			}
			if !apierrors.IsCompletionError(err) {
				t.Errorf("error %v is not a CompletionError", err)
			}
			if !tt.check(err) {
				t.Errorf("error %v failed classification", err)
			}
			if tt.mock.Calls != 1 {
				t.Errorf("Calls = %d, want exactly one request without retry", tt.mock.Calls)
			}
		})
	}
}

func TestComplete_APIMessageSurfaces(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"error":{"message":"model not found"}}`), 404)
	client := newTestClient(t, mock)

	_, err := client.Complete(context.Background(), newTestRequest())
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("error = %v, want API message included", err)
	}
	if apierrors.GetEndpoint(err) != "https://api.test/v1/chat/completions" {
		t.Errorf("GetEndpoint() = %s", apierrors.GetEndpoint(err))
	}
}

func TestComplete_NoMessages(t *testing.T) {
	mock := NewMockHttpClient([]byte(okResponse), 200)
	client := newTestClient(t, mock)

	req := newTestRequest()
	req.Messages = nil
	_, err := client.Complete(context.Background(), req)
	if !apierrors.IsCompletionError(err) {
		t.Errorf("error = %v, want CompletionError", err)
	}
	if mock.Calls != 0 {
		t.Errorf("transport called %d times, want 0", mock.Calls)
	}
}

func TestComplete_InvalidRole(t *testing.T) {
	mock := NewMockHttpClient([]byte(okResponse), 200)
	client := newTestClient(t, mock)

	req := newTestRequest()
	req.Messages = append(req.Messages, models.Message{Role: "tool", Content: "x"})
	if _, err := client.Complete(context.Background(), req); err == nil {
		t.Error("expected error for invalid role")
	}
}

func TestComplete_CanceledWhileWaitingForSlot(t *testing.T) {
	mock := NewMockHttpClient([]byte(okResponse), 200)
	client, err := NewClient(WithHTTPClient(mock), WithRequestsPerMinute(1))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	// First call consumes the only token
	if _, err := client.Complete(context.Background(), newTestRequest()); err != nil {
		t.Fatalf("first Complete() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Complete(ctx, newTestRequest())
	if !apierrors.IsCompletionError(err) {
		t.Errorf("error = %v, want CompletionError", err)
	}
	if mock.Calls != 1 {
		t.Errorf("transport called %d times, want 1", mock.Calls)
	}
}

func TestComplete_ModelFallback(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"choices":[{"message":{"content":"ok"}}]}`), 200)
	client := newTestClient(t, mock)

	completion, err := client.Complete(context.Background(), newTestRequest())
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if completion.Model != models.DefaultModel.Name {
		t.Errorf("Model = %s, want request model", completion.Model)
	}
}

func TestTruncateBody(t *testing.T) {
	long := strings.Repeat("x", 5000)
	if got := truncateBody([]byte(long)); len(got) != 4096 {
		t.Errorf("len = %d, want 4096", len(got))
	}
	if got := truncateBody([]byte("short")); got != "short" {
		t.Errorf("got %q", got)
	}
}
