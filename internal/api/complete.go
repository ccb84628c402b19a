package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
)

// CompletionRequest carries everything one completion call needs.
// The client never modifies it.
type CompletionRequest struct {
	Messages    []models.Message
	Model       string
	Temperature float64
	MaxTokens   int
	APIKey      string
}

// wireRequest is the JSON body sent to /chat/completions
type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Complete sends one request and waits for the whole reply.
// There is no retry and no streaming. Every transport, API or parse failure
// is returned as *errors.CompletionError; a request without a credential is
// rejected with *errors.ConfigurationError before anything is sent.
func (c *Client) Complete(ctx context.Context, req *CompletionRequest) (*models.Completion, error) {
	if req == nil {
		return nil, apierrors.NewConfigurationError("request", "completion request is nil")
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, apierrors.NewMissingAPIKeyError()
	}

	completion, err := c.doComplete(ctx, req)
	if err != nil {
		c.logger.Debug("completion failed", "model", req.Model, "err", err)
		return nil, apierrors.NewCompletionError(err)
	}

	c.logger.Info("completion received",
		"model", completion.Model,
		"elapsed", completion.Elapsed.Round(time.Millisecond),
		"prompt_tokens", completion.Usage.PromptTokens,
		"completion_tokens", completion.Usage.CompletionTokens,
	)
	return completion, nil
}

// doComplete performs the actual request
func (c *Client) doComplete(ctx context.Context, req *CompletionRequest) (*models.Completion, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages to send")
	}

	payload, err := buildPayload(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for request slot: %w", err)
		}
	}

	endpoint := c.Endpoint()
	httpReq, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq = httpReq.WithContext(ctx)

	for key, value := range models.DefaultHeaders() {
		httpReq.Header.Set(key, value)
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	c.logger.Debug("sending completion",
		"endpoint", endpoint,
		"model", req.Model,
		"messages", len(req.Messages),
		"temperature", req.Temperature,
		"max_tokens", req.MaxTokens,
	)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx, endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	elapsed := time.Since(start)
	if err != nil {
		return nil, classifyTransportError(ctx, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := ""
		if gjson.ValidBytes(body) {
			message = gjson.GetBytes(body, PathErrorMessage).String()
		}
		return nil, apierrors.FromHTTPStatus(resp.StatusCode, endpoint, message, truncateBody(body))
	}

	completion, err := parseCompletion(body, endpoint)
	if err != nil {
		return nil, err
	}
	completion.Elapsed = elapsed
	if completion.Model == "" {
		completion.Model = req.Model
	}

	return completion, nil
}

// buildPayload serializes the request body. Messages are copied into the
// wire form so the caller's slice is never touched.
func buildPayload(req *CompletionRequest) ([]byte, error) {
	messages := make([]wireMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		if !m.Role.Valid() {
			return nil, fmt.Errorf("invalid message role %q", m.Role)
		}
		messages = append(messages, wireMessage{Role: m.Role.String(), Content: m.Content})
	}

	return json.Marshal(wireRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
}

// parseCompletion extracts the reply text and metadata from a 2xx body
func parseCompletion(body []byte, endpoint string) (*models.Completion, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)

	// Some gateways report errors with a 200 status
	if errObj := parsed.Get(PathError); errObj.Exists() && errObj.IsObject() {
		message := parsed.Get(PathErrorMessage).String()
		if message == "" {
			message = parsed.Get(PathErrorType).String()
		}
		return nil, apierrors.NewAPIErrorWithBody(0, endpoint, message, truncateBody(body))
	}

	choices := parsed.Get(PathChoices)
	if !choices.IsArray() || len(choices.Array()) == 0 {
		return nil, apierrors.NewParseError("no choices in response", PathChoices)
	}

	content := parsed.Get(PathContent)
	if !content.Exists() || content.Type != gjson.String {
		return nil, apierrors.NewParseError("no message content in response", PathContent)
	}

	return &models.Completion{
		ID:           parsed.Get(PathID).String(),
		Model:        parsed.Get(PathModel).String(),
		Text:         content.String(),
		FinishReason: parsed.Get(PathFinishReason).String(),
		Usage: models.Usage{
			PromptTokens:     int(parsed.Get(PathPromptTokens).Int()),
			CompletionTokens: int(parsed.Get(PathCompletionTokens).Int()),
			TotalTokens:      int(parsed.Get(PathTotalTokens).Int()),
		},
	}, nil
}

// classifyTransportError separates timeouts from other network failures
func classifyTransportError(ctx context.Context, endpoint string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierrors.NewTimeoutError(err.Error())
	}
	return apierrors.NewNetworkErrorWithEndpoint("complete", endpoint, err)
}

// truncateBody limits error bodies kept for diagnostics to 4KB
func truncateBody(body []byte) string {
	const limit = 4096
	if len(body) > limit {
		return string(body[:limit])
	}
	return string(body)
}
