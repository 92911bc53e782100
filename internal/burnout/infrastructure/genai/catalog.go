package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const generateContentMethod = "generateContent"

// ListModels fetches the models available to the API key, filtered to
// those supporting content generation, most capable first as reported
// by the API.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1beta/models?key=%s", c.cfg.Endpoint, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list models request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list models returned status %d: %s", resp.StatusCode, body)
	}

	var listResp struct {
		Models []struct {
			Name                       string   `json:"name"`
			SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
		} `json:"models"`
	}
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var models []string
	for _, m := range listResp.Models {
		for _, method := range m.SupportedGenerationMethods {
			if method == generateContentMethod {
				models = append(models, strings.TrimPrefix(m.Name, "models/"))
				break
			}
		}
	}

	return models, nil
}

// ModelLister discovers generation-capable model identifiers.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// ModelCatalog supplies the ordered candidate model list for score
// computation. Discovery results are cached for a TTL; any discovery
// failure falls back to the static default list, so Candidates never
// fails.
type ModelCatalog struct {
	lister   ModelLister
	defaults []string
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	cached    []string
	fetchedAt time.Time
}

// NewModelCatalog creates a catalog backed by lister. defaults is
// returned whenever discovery fails or has produced nothing.
func NewModelCatalog(lister ModelLister, defaults []string, ttl time.Duration, logger *slog.Logger) *ModelCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelCatalog{
		lister:   lister,
		defaults: defaults,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Candidates returns the ordered candidate model list.
func (mc *ModelCatalog) Candidates(ctx context.Context) []string {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()
	if len(mc.cached) > 0 && now.Sub(mc.fetchedAt) < mc.ttl {
		return mc.cached
	}

	models, err := mc.lister.ListModels(ctx)
	if err != nil || len(models) == 0 {
		mc.logger.Warn("model discovery unavailable, using default candidates",
			"error", err,
			"defaults", mc.defaults,
		)
		return mc.defaults
	}

	mc.cached = models
	mc.fetchedAt = now
	mc.logger.Debug("refreshed model catalog", "models", models)
	return mc.cached
}
