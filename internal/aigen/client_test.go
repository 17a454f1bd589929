package aigen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trishajanath/altx-canvas/api/schemas"
	"github.com/trishajanath/altx-canvas/internal/config"
)

func testAIConfig(endpoint string) config.AIConfig {
	return config.AIConfig{
		Endpoint:       endpoint,
		Timeout:        2 * time.Second,
		MaxElapsed:     200 * time.Millisecond,
		RequestsPerSec: 1000,
	}
}

func TestGenerateSuccess(t *testing.T) {
	t.Parallel()

	var gotReq schemas.GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"label": "Bot Detector",
			"description": "Scores requests for automation patterns.",
			"code_template": "app.use(botDetector());"
		}`))
	}))
	defer srv.Close()

	g := NewHTTPGenerator(testAIConfig(srv.URL), zap.NewNop())
	def := g.Generate(context.Background(), schemas.GenerateRequest{
		Prompt:        "detect bots by behavior",
		ExistingNodes: []string{"client", "api-layer"},
		ProjectFiles:  []string{"server.js"},
	})

	assert.Equal(t, "Bot Detector", def.Label)
	assert.Equal(t, schemas.OriginAIGenerated, def.Origin)
	assert.Contains(t, def.CodeTemplate, "botDetector")

	assert.Equal(t, "detect bots by behavior", gotReq.Prompt)
	assert.Equal(t, []string{"client", "api-layer"}, gotReq.ExistingNodes)
}

func TestGenerateFallsBack(t *testing.T) {
	t.Parallel()

	t.Run("on server errors", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		g := NewHTTPGenerator(testAIConfig(srv.URL), zap.NewNop())
		def := g.Generate(context.Background(), schemas.GenerateRequest{Prompt: "block tor exit nodes"})

		assert.Equal(t, schemas.OriginAIGenerated, def.Origin)
		assert.Equal(t, "block tor exit nodes", def.Label)
		assert.Contains(t, def.Description, "locally synthesized")
	})

	t.Run("on malformed responses", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		g := NewHTTPGenerator(testAIConfig(srv.URL), zap.NewNop())
		def := g.Generate(context.Background(), schemas.GenerateRequest{Prompt: "x"})
		assert.Equal(t, schemas.OriginAIGenerated, def.Origin)
	})

	t.Run("when no endpoint is configured", func(t *testing.T) {
		t.Parallel()
		g := NewHTTPGenerator(testAIConfig(""), zap.NewNop())
		def := g.Generate(context.Background(), schemas.GenerateRequest{Prompt: "anything"})
		assert.Equal(t, "anything", def.Label)
	})
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	t.Parallel()

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"label":"Second Try","description":"","code_template":""}`))
	}))
	defer srv.Close()

	cfg := testAIConfig(srv.URL)
	cfg.MaxElapsed = 5 * time.Second
	g := NewHTTPGenerator(cfg, zap.NewNop())

	def := g.Generate(context.Background(), schemas.GenerateRequest{Prompt: "retry me"})
	assert.Equal(t, "Second Try", def.Label)
	assert.GreaterOrEqual(t, attempts, 2)
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewHTTPGenerator(testAIConfig(srv.URL), zap.NewNop())
	def := g.Generate(context.Background(), schemas.GenerateRequest{Prompt: "bad request"})

	assert.Equal(t, 1, attempts, "4xx must be permanent")
	assert.Equal(t, schemas.OriginAIGenerated, def.Origin)
}

func TestFallbackTruncatesLongPrompts(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("scan every request for injected shell commands ", 4)
	def := Fallback(long)

	assert.LessOrEqual(t, len([]rune(def.Label)), maxFallbackLabel+3)
	assert.True(t, strings.HasSuffix(def.Label, "..."))

	empty := Fallback("   ")
	assert.Equal(t, "Custom Security Node", empty.Label)
}
