package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/analyses"
	"resume-ats/internal/embedding"
	"resume-ats/internal/keywords"
	"resume-ats/internal/scoring"
	"resume-ats/internal/semantic"
	"resume-ats/internal/services/health"
	"resume-ats/internal/shared/cache"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/metrics"
	"resume-ats/internal/shared/server"
	"resume-ats/internal/shared/server/middleware"
	"resume-ats/internal/shared/storage/db"
	"resume-ats/internal/shared/storage/object"
	localstore "resume-ats/internal/shared/storage/object/local"
	s3store "resume-ats/internal/shared/storage/object/s3"
	"resume-ats/internal/shared/telemetry"
	"resume-ats/internal/structure"
	"resume-ats/internal/suggestions"
	"resume-ats/internal/textproc"
)

const semanticInitTimeout = 30 * time.Second

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Cache           *cache.Tiered
	Embedder        embedding.Embedder
	Pipeline        *analyses.Pipeline
	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
}

// Build prepares every dependency and the HTTP router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	pipeline, tiered, embedder, err := BuildPipeline(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Cache:    tiered,
		Embedder: embedder,
		Pipeline: pipeline,
	}

	if app.DB, err = buildDB(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if app.Store, err = buildStore(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}

	if app.DB != nil {
		app.AnalysesRepo = &analyses.PGRepo{DB: app.DB}
	} else {
		app.AnalysesRepo = analyses.NewMemoryRepo()
	}
	app.AnalysesService = &analyses.Service{
		Pipeline:       pipeline,
		Repo:           app.AnalysesRepo,
		Store:          app.Store,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: app.AnalysisHandler,
		Health:          health.NewService(),
		RateLimiter:     middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":                cfg.Env,
		"object_store":       cfg.ObjectStoreType,
		"database":           app.DB != nil,
		"redis":              tiered.RedisEnabled(),
		"embedding_provider": cfg.EmbeddingProvider,
		"semantic_loaded":    pipeline.Status().SemanticAnalyzer,
	})
	return app, nil
}

var (
	newEmbedder = embedding.New
	newPipeline = analyses.NewPipeline
)

// BuildPipeline assembles the analysis pipeline with its cache and embedder.
// The CLI uses it directly without the HTTP and storage layers.
func BuildPipeline(ctx context.Context, cfg config.Config) (*analyses.Pipeline, *cache.Tiered, embedding.Embedder, error) {
	tiered := cache.New(ctx, cache.Options{
		RedisURL:   cfg.RedisURL,
		TTL:        cfg.KeywordCacheTTL,
		MaxEntries: cfg.KeywordCacheMaxEntries,
	})
	if err := metrics.RegisterCacheStats("keyword", tiered.Stats); err != nil {
		telemetry.Warn("metrics.register_failed", map[string]any{"collector": "keyword_cache", "error": err.Error()})
	}

	embedder, err := newEmbedder(embeddingConfig(cfg))
	if err != nil {
		_ = tiered.Close()
		return nil, nil, nil, fmt.Errorf("embedding: %w", err)
	}
	sem := semantic.New(embedder)
	if embedder != nil {
		initCtx, cancel := context.WithTimeout(ctx, semanticInitTimeout)
		// A failed init leaves the analyzer unloaded; full-mode runs then report model_not_loaded.
		_ = sem.Initialize(initCtx)
		cancel()
	} else {
		telemetry.Warn("semantic.disabled", map[string]any{"provider": cfg.EmbeddingProvider})
	}

	release := func() {
		_ = tiered.Close()
		if embedder != nil {
			_ = embedder.Close()
		}
	}

	engine, err := scoring.NewEngine(nil)
	if err != nil {
		release()
		return nil, nil, nil, err
	}
	pipeline, err := newPipeline(analyses.Components{
		Processor:         textproc.NewProcessor(),
		Keywords:          keywords.NewAnalyzer(keywords.DefaultDictionary(), tiered),
		Semantic:          sem,
		Structure:         structure.NewAnalyzer(),
		Scoring:           engine,
		Suggestions:       suggestions.New(),
		EmbeddingProvider: providerName(cfg.EmbeddingProvider),
	})
	if err != nil {
		release()
		return nil, nil, nil, err
	}
	return pipeline, tiered, embedder, nil
}

// Close releases the database, cache and embedder.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.Embedder != nil {
		errs = append(errs, a.Embedder.Close())
	}
	return errors.Join(errs...)
}

func embeddingConfig(cfg config.Config) embedding.Config {
	breaker := embedding.DefaultBreakerConfig()
	breaker.Enabled = cfg.EmbeddingBreakerEnabled
	if cfg.EmbeddingBreakerTimeout > 0 {
		breaker.Timeout = cfg.EmbeddingBreakerTimeout
	}
	if cfg.EmbeddingBreakerMinRequests > 0 {
		breaker.MinRequests = cfg.EmbeddingBreakerMinRequests
	}
	if cfg.EmbeddingBreakerFailureRatio > 0 {
		breaker.FailureThreshold = cfg.EmbeddingBreakerFailureRatio
	}
	return embedding.Config{
		Provider:   cfg.EmbeddingProvider,
		Model:      cfg.EmbeddingModel,
		BaseURL:    cfg.EmbeddingBaseURL,
		APIKey:     cfg.EmbeddingAPIKey,
		Dimensions: cfg.EmbeddingDimensions,
		Timeout:    cfg.EmbeddingTimeout,
		Breaker:    breaker,
	}
}

func providerName(raw string) string {
	if p := strings.ToLower(strings.TrimSpace(raw)); p != "" {
		return p
	}
	return embedding.ProviderHashing
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Info("bootstrap.memory_repo", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.WithOverrides(db.DefaultServerOptions(), cfg))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repo", map[string]any{"reason": "database unavailable", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}
