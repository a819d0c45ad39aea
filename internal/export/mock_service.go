// Package export mock implementation for testing.
package export

import (
	"context"
	"sync"

	"github.com/Jnxx02/logbook-kkn-generator/internal/models"
)

// MockService is a mock implementation of Interface for testing.
type MockService struct {
	mu          sync.Mutex
	result      *Result
	err         error
	callCount   int
	lastEntries []models.LogEntry
}

// NewMockService creates a mock that returns an empty document.
func NewMockService() *MockService {
	return &MockService{
		result: &Result{Document: []byte("mock document"), Filename: "mock.docx"},
	}
}

// Generate records the call and returns the configured result or error.
func (m *MockService) Generate(ctx context.Context, entries []models.LogEntry) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.lastEntries = append([]models.LogEntry(nil), entries...)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// SetResult sets the result returned by Generate.
func (m *MockService) SetResult(result *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = result
	m.err = nil
}

// SetError makes Generate fail with err.
func (m *MockService) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// CallCount returns the number of Generate calls.
func (m *MockService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastEntries returns the entries passed to the last Generate call.
func (m *MockService) LastEntries() []models.LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastEntries
}

var _ Interface = (*MockService)(nil)
