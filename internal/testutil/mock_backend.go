// Package testutil provides testing utilities for the fulfillment client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// MockBackend is a configurable mock commerce backend for testing.
type MockBackend struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	RequestCount   int
	LastAuthHeader string
	LastRequestID  string
	Paths          []string
}

// NewMockBackend creates a new mock backend server.
func NewMockBackend() *MockBackend {
	mock := &MockBackend{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastAuthHeader = r.Header.Get("Authorization")
		mock.LastRequestID = r.Header.Get("X-Request-ID")
		mock.Paths = append(mock.Paths, r.URL.Path)
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "no such endpoint"}`)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockBackend) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBackend) Close() {
	m.server.Close()
}

// Reset clears all tracking state.
func (m *MockBackend) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastAuthHeader = ""
	m.LastRequestID = ""
	m.Paths = nil
}

// GetRequestCount returns the number of requests received.
func (m *MockBackend) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastAuthHeader returns the Authorization header of the most recent
// request.
func (m *MockBackend) GetLastAuthHeader() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastAuthHeader
}

// SetHandler sets a custom handler for a path.
func (m *MockBackend) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetJSONResponse configures a fixed JSON response for a path.
func (m *MockBackend) SetJSONResponse(path string, status int, body string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		if body != "" {
			fmt.Fprint(w, body)
		}
	})
}

// PagedOrder is the shape of one generated order in paged responses.
type PagedOrder struct {
	ID           string `json:"orderId"`
	OrderNo      string `json:"orderNo"`
	Status       string `json:"status"`
	CustomerName string `json:"customerName"`
}

// SetPagedOrders installs a paginated orders endpoint serving
// totalRecords generated orders, paged by the request's pageNo/pageSize
// parameters the way the real backend does.
func (m *MockBackend) SetPagedOrders(path string, totalRecords int) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		pageNo, _ := strconv.Atoi(r.URL.Query().Get("pageNo"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if pageNo < 1 {
			pageNo = 1
		}
		if pageSize < 1 {
			pageSize = 20
		}

		totalPages := (totalRecords + pageSize - 1) / pageSize
		if totalPages < 1 {
			totalPages = 1
		}

		start := (pageNo - 1) * pageSize
		end := start + pageSize
		if start > totalRecords {
			start = totalRecords
		}
		if end > totalRecords {
			end = totalRecords
		}

		data := make([]PagedOrder, 0, end-start)
		for i := start; i < end; i++ {
			data = append(data, PagedOrder{
				ID:           strconv.Itoa(1000 + i),
				OrderNo:      fmt.Sprintf("ORD-%04d", i+1),
				Status:       "OPEN",
				CustomerName: fmt.Sprintf("Customer %d", i+1),
			})
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"data":         data,
			"pageNo":       pageNo,
			"totalPages":   totalPages,
			"totalRecords": totalRecords,
		})
	})
}

// SimulatedItem is one candidate pick in a mock simulation response.
type SimulatedItem struct {
	LineID            string   `json:"lineId,omitempty"`
	ProductID         string   `json:"productId,omitempty"`
	ItemName          string   `json:"itemName,omitempty"`
	ProductName       string   `json:"productName,omitempty"`
	Quantity          *int     `json:"quantity,omitempty"`
	AvailableQuantity *int     `json:"availableQuantity,omitempty"`
	LocationLabel     string   `json:"locationLabel,omitempty"`
	LocationHints     []string `json:"locationHints,omitempty"`
}

// SetSimulation installs a simulation endpoint returning the given items.
func (m *MockBackend) SetSimulation(path string, items []SimulatedItem) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{"items": items})
	})
}

// SetFulfillmentID installs a create or update endpoint answering with the
// given fulfillment id.
func (m *MockBackend) SetFulfillmentID(path string, fulfillmentID string) {
	m.SetJSONResponse(path, http.StatusOK,
		fmt.Sprintf(`{"fulfillmentId": %q}`, fulfillmentID))
}

// IntPtr is a convenience for optional quantity fields.
func IntPtr(v int) *int {
	return &v
}
