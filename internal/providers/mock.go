package providers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/aisdk/internal/aierr"
	"github.com/jackzampolin/aisdk/internal/llm"
)

const (
	MockName         = "mock"
	MockDefaultModel = "mock-model"
)

// MockModel is an llm.LanguageModel for testing and offline runs.
// Configure it before first use; the fields are not synchronized.
type MockModel struct {
	// Configurable behavior
	Model         string
	Latency       time.Duration
	ShouldFail    bool
	FailAfter     int // Fail after N requests (0 = never)
	ResponseText  string
	ResponseModel string // Reported model id, empty = not reported
	Echo          bool   // Respond with the prompt instead of ResponseText

	// State
	requestCount atomic.Int64
	mu           sync.Mutex
	prompts      []string
}

var _ llm.LanguageModel = (*MockModel)(nil)

// NewMockModel creates a new mock model with sensible defaults.
func NewMockModel() *MockModel {
	return &MockModel{
		Model:        MockDefaultModel,
		Latency:      10 * time.Millisecond,
		ResponseText: "mock response",
	}
}

func (m *MockModel) ModelName() string {
	if m.Model == "" {
		return MockDefaultModel
	}
	return m.Model
}

func (m *MockModel) ProviderName() string { return MockName }

// Generate returns the configured response after the configured latency.
func (m *MockModel) Generate(ctx context.Context, opts llm.CallOptions) (*llm.Response, error) {
	count := m.requestCount.Add(1)

	m.mu.Lock()
	m.prompts = append(m.prompts, opts.Prompt())
	m.mu.Unlock()

	if m.ShouldFail {
		return nil, &aierr.APIError{Provider: MockName, StatusCode: 500, Message: "mock model configured to fail"}
	}
	if m.FailAfter > 0 && int(count) > m.FailAfter {
		return nil, &aierr.APIError{
			Provider:   MockName,
			StatusCode: 500,
			Message:    fmt.Sprintf("mock model failed after %d requests", m.FailAfter),
		}
	}

	if m.Latency > 0 {
		timer := time.NewTimer(m.Latency)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}

	text := m.ResponseText
	if m.Echo {
		text = opts.Prompt()
	}
	return &llm.Response{Text: text, Model: m.ResponseModel}, nil
}

// RequestCount returns the number of requests made.
func (m *MockModel) RequestCount() int64 {
	return m.requestCount.Load()
}

// Prompts returns the prompts received so far, in arrival order.
func (m *MockModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Reset clears the request counter and recorded prompts.
func (m *MockModel) Reset() {
	m.requestCount.Store(0)
	m.mu.Lock()
	m.prompts = nil
	m.mu.Unlock()
}
