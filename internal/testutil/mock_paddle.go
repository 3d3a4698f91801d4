// Package testutil provides testing utilities for the Paddle client.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// MockResponse is a canned non-paginated response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// MockPaddle is a mock Paddle API serving cursor-paginated list endpoints.
//
// Pages are addressed by an "after" query parameter carrying the page index,
// and each page reports the next one through meta.pagination.next, so clients
// exercise the same cursor handling as against the real API.
type MockPaddle struct {
	server *httptest.Server
	mu     sync.RWMutex

	pages     map[string][][]any
	overrides map[string]map[int]MockResponse

	// Tracking
	requestCount      map[string]int
	lastAuthorization string
	lastQuery         map[string]string
}

// NewMockPaddle creates a new mock Paddle server.
func NewMockPaddle() *MockPaddle {
	mock := &MockPaddle{
		pages:        make(map[string][][]any),
		overrides:    make(map[string]map[int]MockResponse),
		requestCount: make(map[string]int),
		lastQuery:    make(map[string]string),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))

	return mock
}

// URL returns the mock server URL.
func (m *MockPaddle) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockPaddle) Close() {
	m.server.Close()
}

// SetPages configures the pages served for a list path such as "/products".
// Each argument is the data array of one page.
func (m *MockPaddle) SetPages(path string, pages ...[]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[path] = pages
}

// SetPageResponse replaces page pageIndex (0-based) of path with a canned response.
func (m *MockPaddle) SetPageResponse(path string, pageIndex int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overrides[path] == nil {
		m.overrides[path] = make(map[int]MockResponse)
	}
	m.overrides[path][pageIndex] = resp
}

// RequestCount returns the number of requests made to path.
func (m *MockPaddle) RequestCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount[path]
}

// LastAuthorization returns the Authorization header of the latest request.
func (m *MockPaddle) LastAuthorization() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastAuthorization
}

// LastQuery returns the query parameters of the first-page request to path.
func (m *MockPaddle) LastQuery(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery[path]
}

func (m *MockPaddle) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	pageIndex := 0
	if after := r.URL.Query().Get("after"); after != "" {
		idx, err := strconv.Atoi(after)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": map[string]any{"type": "request_error", "code": "invalid_field", "detail": "after"},
			})
			return
		}
		pageIndex = idx
	}

	m.mu.Lock()
	m.requestCount[path]++
	m.lastAuthorization = r.Header.Get("Authorization")
	if pageIndex == 0 {
		m.lastQuery[path] = r.URL.RawQuery
	}
	pages, known := m.pages[path]
	override, overridden := m.overrides[path][pageIndex]
	m.mu.Unlock()

	if overridden {
		for key, value := range override.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(override.StatusCode)
		if override.Body != "" {
			w.Write([]byte(override.Body))
		}
		return
	}

	if !known {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]any{"type": "request_error", "code": "not_found", "detail": path},
		})
		return
	}

	data := []any{}
	if pageIndex < len(pages) && pages[pageIndex] != nil {
		data = pages[pageIndex]
	}

	hasMore := pageIndex+1 < len(pages)
	var next any
	if hasMore {
		next = m.server.URL + path + "?after=" + strconv.Itoa(pageIndex+1)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"meta": map[string]any{
			"request_id": "mock-" + strconv.Itoa(pageIndex),
			"pagination": map[string]any{
				"per_page":        len(data),
				"next":            next,
				"has_more":        hasMore,
				"estimated_total": 0,
			},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error":{"type":"api_error","code":"internal_error","detail":"Internal server error"}}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewUnauthorizedResponse creates a 403 response for a rejected API key.
func NewUnauthorizedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusForbidden,
		Body:       `{"error":{"type":"request_error","code":"forbidden","detail":"You aren't permitted to perform this request."}}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error":{"type":"request_error","code":"too_many_requests","detail":"Too many requests"}}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Retry-After":  "60",
		},
	}
}

// NewMalformedResponse creates a 200 response whose body is not valid JSON.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"data": [`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}
