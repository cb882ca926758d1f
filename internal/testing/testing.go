// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Request is a captured request as seen by a [RequestRecorder].
type Request struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// RequestRecorder collects requests received by an httptest handler.
type RequestRecorder struct {
	mu       sync.Mutex
	requests []Request
}

// Record stores r. The body is consumed.
func (rr *RequestRecorder) Record(r *http.Request) Request {
	body, _ := io.ReadAll(r.Body)
	req := Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body}

	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.requests = append(rr.requests, req)
	return req
}

// Requests returns the captured requests matching method, or all of them when method is empty.
func (rr *RequestRecorder) Requests(method string) []Request {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	var out []Request
	for _, r := range rr.requests {
		if method == "" || r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

// WriteJSON encodes v as the response body, optionally prefixed with a UTF-8 byte order mark.
func WriteJSON(t *testing.T, w http.ResponseWriter, status int, v any, bom bool) {
	t.Helper()
	var buf bytes.Buffer
	if bom {
		buf.WriteString("\ufeff")
	}
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatalf("Failed to encode response: %v", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// AssertContains fails when none of lines contains substr.
func AssertContains(t *testing.T, lines []string, substr string) {
	t.Helper()
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return
		}
	}
	t.Errorf("expected a line containing %q, got:\n%s", substr, strings.Join(lines, "\n"))
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
