// Package genai wraps the Google Gemini REST API: text generation
// against a named model, and discovery of the models available to the
// configured API key.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

var (
	// ErrEmptyResponse indicates the model returned no candidates.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrMissingAPIKey indicates the client has no API key configured.
	ErrMissingAPIKey = errors.New("gemini api key not configured")
)

// Config configures the Gemini client.
type Config struct {
	// APIKey authenticates against the Gemini API.
	APIKey string
	// Endpoint is the API base URL.
	Endpoint string
	// Timeout bounds each generation call. A hung model must not delay
	// the caller's fallback chain.
	Timeout time.Duration

	// BreakerEnabled enables per-model circuit breakers.
	BreakerEnabled bool
	// BreakerThreshold is the consecutive-failure count that trips a
	// breaker.
	BreakerThreshold uint32
	// BreakerCooldown is how long a tripped breaker stays open.
	BreakerCooldown time.Duration
}

// Client calls the Gemini generateContent and ListModels endpoints.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[string]
}

// NewClient creates a Gemini client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		breakers:   make(map[string]*gobreaker.CircuitBreaker[string]),
	}
}

// Gemini API request structure.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Gemini API response structure.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends prompt to the named model and returns its raw text
// reply. Failures count against the model's circuit breaker when
// breakers are enabled.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	if breaker := c.getBreaker(model); breaker != nil {
		return breaker.Execute(func() (string, error) {
			return c.generate(ctx, model, prompt)
		})
	}
	return c.generate(ctx, model, prompt)
}

func (c *Client) generate(ctx context.Context, model, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.cfg.Endpoint, model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate returned status %d: %s", resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if genResp.Error != nil {
		return "", fmt.Errorf("gemini error: %s", genResp.Error.Message)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

// getBreaker returns the circuit breaker for a model, creating it if
// needed. Returns nil when breakers are disabled.
func (c *Client) getBreaker(model string) *gobreaker.CircuitBreaker[string] {
	if !c.cfg.BreakerEnabled {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if breaker, exists := c.breakers[model]; exists {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:    model,
		Timeout: c.cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Info("model circuit breaker state changed",
				"model", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	breaker := gobreaker.NewCircuitBreaker[string](settings)
	c.breakers[model] = breaker
	return breaker
}
