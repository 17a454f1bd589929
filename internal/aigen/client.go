package aigen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/trishajanath/altx-canvas/api/schemas"
	"github.com/trishajanath/altx-canvas/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPGenerator asks an external JSON endpoint to author a security node
// type from a free-text prompt. The endpoint is treated as untrusted and
// unreliable: any failure degrades to a locally synthesized definition, so
// the user-facing flow never dead-ends on a network error.
type HTTPGenerator struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxElapsed time.Duration
	log        *zap.Logger
}

// Compile-time interface check.
var _ schemas.NodeTypeGenerator = (*HTTPGenerator)(nil)

// NewHTTPGenerator builds a generator from configuration. An empty endpoint
// is allowed; Generate then goes straight to the fallback.
func NewHTTPGenerator(cfg config.AIConfig, logger *zap.Logger) *HTTPGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	return &HTTPGenerator{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxElapsed: cfg.MaxElapsed,
		log:        logger.Named("aigen"),
	}
}

// Generate POSTs the request to the endpoint with retries and returns the
// resulting definition. On any failure it returns Fallback(prompt) instead
// of an error.
func (g *HTTPGenerator) Generate(ctx context.Context, req schemas.GenerateRequest) schemas.NodeTypeDefinition {
	if g.endpoint == "" {
		return Fallback(req.Prompt)
	}
	if err := g.limiter.Wait(ctx); err != nil {
		g.log.Debug("Rate limiter wait aborted", zap.Error(err))
		return Fallback(req.Prompt)
	}

	resp, err := g.post(ctx, req)
	if err != nil {
		g.log.Warn("AI node generation failed; using local fallback", zap.Error(err))
		return Fallback(req.Prompt)
	}
	if resp.Label == "" {
		g.log.Warn("AI endpoint returned an empty label; using local fallback")
		return Fallback(req.Prompt)
	}

	return schemas.NodeTypeDefinition{
		Label:        resp.Label,
		Description:  resp.Description,
		CodeTemplate: resp.CodeTemplate,
		Style:        aiStyle,
		Origin:       schemas.OriginAIGenerated,
	}
}

// post sends the request with exponential backoff. Client-side errors
// (4xx) are permanent; network errors and 5xx responses are retried until
// the backoff budget is exhausted.
func (g *HTTPGenerator) post(ctx context.Context, req schemas.GenerateRequest) (*schemas.GenerateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = g.maxElapsed

	var result schemas.GenerateResponse
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create HTTP request: %w", err))
		}
		httpReq.Header.Set("Content-Type", "application/json")

		httpResp, err := g.httpClient.Do(httpReq)
		if err != nil {
			return fmt.Errorf("generation request failed: %w", err)
		}
		defer httpResp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		switch {
		case httpResp.StatusCode >= 500:
			return fmt.Errorf("endpoint returned status %d", httpResp.StatusCode)
		case httpResp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("endpoint rejected request with status %d", httpResp.StatusCode))
		}

		if err := json.Unmarshal(respBody, &result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode generation response: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return &result, nil
}
