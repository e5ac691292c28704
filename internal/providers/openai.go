package providers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jackzampolin/aisdk/internal/aierr"
	"github.com/jackzampolin/aisdk/internal/llm"
)

const (
	OpenAIName             = "openai"
	OpenAIDefaultModel     = "gpt-4o"
	OpenAIDefaultMaxTokens = 100

	// EnvOpenAIAPIKey is read when OpenAIConfig.APIKey is empty.
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// OpenAIConfig holds configuration for the OpenAI chat completions backend.
type OpenAIConfig struct {
	APIKey       string        // Defaults to $OPENAI_API_KEY
	Model        string        // "gpt-4o" (default)
	ProviderName string        // "openai" (default)
	MaxTokens    int           // Completion token cap, 100 (default)
	RateLimit    float64       // Requests per second, 0 = unlimited
	MaxRetries   int           // Retries for retryable failures, 3 (default), negative disables
	RetryDelay   time.Duration // Base backoff delay
	Timeout      time.Duration // HTTP timeout
	BaseURL      string        // Optional (tests, compatible gateways)
	HTTPClient   *http.Client  // Optional (tests)
	Logger       *slog.Logger
}

// OpenAIModel implements llm.LanguageModel with the official OpenAI SDK.
// Each prompt is sent as a single user message.
type OpenAIModel struct {
	apiKey       string
	model        string
	providerName string
	maxTokens    int
	rateLimit    float64
	maxRetries   int
	retryDelay   time.Duration
	baseURL      string
	client       openai.Client
	limiter      *RateLimiter
	logger       *slog.Logger
}

var _ llm.LanguageModel = (*OpenAIModel)(nil)

// NewOpenAIModel creates a new OpenAI backend.
func NewOpenAIModel(cfg OpenAIConfig) *OpenAIModel {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(EnvOpenAIAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = OpenAIDefaultModel
	}
	if cfg.ProviderName == "" {
		cfg.ProviderName = OpenAIName
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = OpenAIDefaultMaxTokens
	}
	cfg.MaxRetries, cfg.RetryDelay = retryPolicy(cfg.MaxRetries, cfg.RetryDelay)
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	// Retries are handled here so 429s can feed the shared limiter.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIModel{
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		providerName: cfg.ProviderName,
		maxTokens:    cfg.MaxTokens,
		rateLimit:    cfg.RateLimit,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		baseURL:      cfg.BaseURL,
		client:       openai.NewClient(opts...),
		limiter:      NewRateLimiter(cfg.RateLimit),
		logger:       cfg.Logger,
	}
}

func (m *OpenAIModel) ModelName() string { return m.model }

func (m *OpenAIModel) ProviderName() string { return m.providerName }

// MaxTokens returns the completion token cap sent with each request.
func (m *OpenAIModel) MaxTokens() int { return m.maxTokens }

// RateLimiterStatus reports the state of the request limiter.
func (m *OpenAIModel) RateLimiterStatus() RateLimiterStatus { return m.limiter.Status() }

// Generate sends the prompt as a chat completion. Non-success statuses and
// transport failures are returned as *aierr.APIError after retries are
// exhausted; 429 and 5xx responses are retried with backoff.
func (m *OpenAIModel) Generate(ctx context.Context, opts llm.CallOptions) (*llm.Response, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(m.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(opts.Prompt()),
		},
	}
	if m.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(m.maxTokens))
	}

	var completion *openai.ChatCompletion
	err := retry.Do(
		func() error {
			if err := m.limiter.Wait(ctx); err != nil {
				return err
			}
			resp, err := m.client.Chat.Completions.New(ctx, params)
			if err != nil {
				apiErr := m.mapError(err)
				if apiErr.StatusCode == http.StatusTooManyRequests {
					m.limiter.Record429(apiErr.RetryAfter)
				}
				return apiErr
			}
			completion = resp
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(m.maxRetries)+1),
		retry.Delay(m.retryDelay),
		retry.DelayType(retryAfterDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			m.logger.Warn("retrying openai request", "attempt", n+1, "model", m.model, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}

	if len(completion.Choices) == 0 {
		return nil, &aierr.APIError{Provider: m.providerName, Message: "response contained no choices"}
	}
	return &llm.Response{
		Text:  completion.Choices[0].Message.Content,
		Model: completion.Model,
	}, nil
}

func (m *OpenAIModel) mapError(err error) *aierr.APIError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		out := &aierr.APIError{
			Provider:   m.providerName,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Body:       apiErr.RawJSON(),
			Err:        err,
		}
		if apiErr.Response != nil {
			out.RetryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
		}
		return out
	}
	return &aierr.APIError{Provider: m.providerName, Err: err}
}

func isRetryable(err error) bool {
	apiErr, ok := aierr.IsAPIError(err)
	return ok && apiErr.Retryable()
}

// retryAfterDelay waits as long as the provider asked, falling back to
// exponential backoff.
func retryAfterDelay(n uint, err error, config *retry.Config) time.Duration {
	if apiErr, ok := aierr.IsAPIError(err); ok && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter
	}
	return retry.BackOffDelay(n, err, config)
}

// parseRetryAfter reads a Retry-After header in either seconds or HTTP-date form.
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// retryPolicy applies the retry defaults: 0 retries means 3, negative
// disables retries, and a zero delay means 2s.
func retryPolicy(maxRetries int, delay time.Duration) (int, time.Duration) {
	switch {
	case maxRetries == 0:
		maxRetries = 3
	case maxRetries < 0:
		maxRetries = 0
	}
	if delay == 0 {
		delay = 2 * time.Second
	}
	return maxRetries, delay
}
