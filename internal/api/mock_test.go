package api

import (
	"bytes"
	"errors"
	"io"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
)

// MockResponseBody is an io.ReadCloser over a fixed payload
type MockResponseBody struct {
	*bytes.Reader
	closed bool
}

// NewMockResponseBody creates a response body from data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{Reader: bytes.NewReader(data)}
}

// Close marks the body as closed
func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// errReader fails every read
type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }
func (e errReader) Close() error             { return nil }

// MockHttpClient is a mock HTTPDoer that records the last request
type MockHttpClient struct {
	Response *fhttp.Response
	Err      error
	// Delay is slept inside Do to simulate network latency
	Delay time.Duration

	Calls       int
	LastRequest *fhttp.Request
	LastBody    []byte
}

// Do implements HTTPDoer
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.Calls++
	m.LastRequest = req
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	if req.Body != nil {
		m.LastBody, _ = io.ReadAll(req.Body)
	}
	return m.Response, m.Err
}

// NewMockHttpClient creates a new MockHttpClient with a canned response
func NewMockHttpClient(body []byte, statusCode int) *MockHttpClient {
	return &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       NewMockResponseBody(body),
			Header:     make(fhttp.Header),
		},
	}
}

// NewMockHttpClientWithError creates a new MockHttpClient that fails the transport
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{Err: err}
}

// NewMockHttpClientWithBrokenBody returns 200 with a body that cannot be read
func NewMockHttpClientWithBrokenBody() *MockHttpClient {
	return &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: 200,
			Body:       errReader{err: errors.New("connection reset by peer")},
			Header:     make(fhttp.Header),
		},
	}
}
