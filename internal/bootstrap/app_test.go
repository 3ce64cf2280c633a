package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"resume-ats/internal/analyses"
	"resume-ats/internal/embedding"
	"resume-ats/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:                    "dev",
		ObjectStoreType:        "local",
		LocalStoreDir:          t.TempDir(),
		MaxUploadBytes:         1 << 20,
		KeywordCacheTTL:        time.Hour,
		KeywordCacheMaxEntries: 16,
		EmbeddingProvider:      "hashing",
		EmbeddingDimensions:    128,
		RateLimitAnalyzeRPS:    100,
		RateLimitAnalyzeBurst:  100,
		RateLimitReadRPS:       100,
		RateLimitReadBurst:     100,
	}
}

func TestBuildServesAnalyzeWithMemoryRepo(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if _, ok := app.AnalysesRepo.(*analyses.MemoryRepo); !ok {
		t.Fatalf("expected in-memory repo without DATABASE_URL, got %T", app.AnalysesRepo)
	}

	body := `{"resume_text":"SKILLS\nGo, Docker, Kubernetes, PostgreSQL","job_description":"Looking for a Go engineer who knows Docker and Kubernetes","analysis_type":"full"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out analyses.Response
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Metadata.SemanticError != nil {
		t.Fatalf("expected hashing embedder to load, got %+v", out.Metadata.SemanticError)
	}
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"
	if _, err := Build(context.Background(), cfg); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestBuildPipelineWithoutEmbedder(t *testing.T) {
	cfg := testConfig(t)
	cfg.EmbeddingProvider = "none"

	pipeline, tiered, embedder, err := BuildPipeline(context.Background(), cfg)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	t.Cleanup(func() { _ = tiered.Close() })
	if embedder != nil {
		t.Fatalf("expected no embedder for provider none")
	}
	status := pipeline.Status()
	if status.SemanticAnalyzer || status.EmbeddingProvider != "none" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestRouterServesHealthAndMetrics(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"status":"healthy"`) {
		t.Fatalf("unexpected health response %d %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "go_goroutines") {
		t.Fatalf("unexpected metrics response %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

type closeTracker struct {
	embedding.Embedder
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestBuildPipelineReleasesOnFailure(t *testing.T) {
	tracker := &closeTracker{Embedder: embedding.NewHashing(8)}
	prevEmbedder, prevPipeline := newEmbedder, newPipeline
	newEmbedder = func(embedding.Config) (embedding.Embedder, error) { return tracker, nil }
	newPipeline = func(analyses.Components) (*analyses.Pipeline, error) {
		return nil, errors.New("pipeline: broken")
	}
	t.Cleanup(func() {
		newEmbedder, newPipeline = prevEmbedder, prevPipeline
	})

	if _, _, _, err := BuildPipeline(context.Background(), testConfig(t)); err == nil {
		t.Fatalf("expected BuildPipeline to fail")
	}
	if !tracker.closed {
		t.Fatalf("expected embedder to be closed after a failed build")
	}
}
