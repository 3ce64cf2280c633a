package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"resume-ats/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogFormat       string
	LogLevel        string
	CORSAllowOrigin []string

	DatabaseURL string
	// Pool overrides; zero keeps the db package defaults.
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration
	DBPingTimeout     time.Duration

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	MaxUploadBytes  int64

	RedisURL               string
	KeywordCacheTTL        time.Duration
	KeywordCacheMaxEntries int

	EmbeddingProvider   string
	EmbeddingModel      string
	EmbeddingBaseURL    string
	EmbeddingAPIKey     string
	EmbeddingDimensions int
	EmbeddingTimeout    time.Duration

	EmbeddingBreakerEnabled      bool
	EmbeddingBreakerTimeout      time.Duration
	EmbeddingBreakerMinRequests  uint32
	EmbeddingBreakerFailureRatio float64

	RateLimitAnalyzeRPS   float64
	RateLimitAnalyzeBurst int
	RateLimitReadRPS      float64
	RateLimitReadBurst    int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:3000")

	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)

	v.SetDefault("KEYWORD_CACHE_TTL", 24*time.Hour)
	v.SetDefault("KEYWORD_CACHE_MAX_ENTRIES", 1000)

	v.SetDefault("EMBEDDING_PROVIDER", "hashing")
	v.SetDefault("EMBEDDING_DIMENSIONS", 384)
	v.SetDefault("EMBEDDING_TIMEOUT", 15*time.Second)
	v.SetDefault("EMBEDDING_BREAKER_ENABLED", true)
	v.SetDefault("EMBEDDING_BREAKER_TIMEOUT", 30*time.Second)
	v.SetDefault("EMBEDDING_BREAKER_MIN_REQUESTS", 3)
	v.SetDefault("EMBEDDING_BREAKER_FAILURE_RATIO", 0.6)

	v.SetDefault("RATE_LIMIT_ANALYZE_RPS", 2.0)
	v.SetDefault("RATE_LIMIT_ANALYZE_BURST", 10)
	v.SetDefault("RATE_LIMIT_READ_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_READ_BURST", 40)
}

// Load reads configuration from defaults, optional .env files and the
// environment, in increasing order of precedence.
func Load() Config {
	v := viper.New()
	setDefaults(v)
	mergeEnvFiles(v, ".env", "cmd/.env")
	v.AutomaticEnv()

	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	apiKey := v.GetString("EMBEDDING_API_KEY")
	if apiKey == "" {
		apiKey = v.GetString("OPENAI_API_KEY")
	}

	return Config{
		Port:            v.GetString("PORT"),
		Env:             env,
		LogFormat:       strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),
		LogLevel:        strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),

		DatabaseURL:       dbURL,
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime: v.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		DBPingTimeout:     v.GetDuration("DB_PING_TIMEOUT"),

		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),
		SSEKMSKeyID:     v.GetString("SSE_KMS_KEY_ID"),
		MaxUploadBytes:  v.GetInt64("MAX_UPLOAD_BYTES"),

		RedisURL:               strings.TrimSpace(v.GetString("REDIS_URL")),
		KeywordCacheTTL:        v.GetDuration("KEYWORD_CACHE_TTL"),
		KeywordCacheMaxEntries: v.GetInt("KEYWORD_CACHE_MAX_ENTRIES"),

		EmbeddingProvider:   strings.ToLower(strings.TrimSpace(v.GetString("EMBEDDING_PROVIDER"))),
		EmbeddingModel:      v.GetString("EMBEDDING_MODEL"),
		EmbeddingBaseURL:    v.GetString("EMBEDDING_BASE_URL"),
		EmbeddingAPIKey:     apiKey,
		EmbeddingDimensions: v.GetInt("EMBEDDING_DIMENSIONS"),
		EmbeddingTimeout:    v.GetDuration("EMBEDDING_TIMEOUT"),

		EmbeddingBreakerEnabled:      v.GetBool("EMBEDDING_BREAKER_ENABLED"),
		EmbeddingBreakerTimeout:      v.GetDuration("EMBEDDING_BREAKER_TIMEOUT"),
		EmbeddingBreakerMinRequests:  v.GetUint32("EMBEDDING_BREAKER_MIN_REQUESTS"),
		EmbeddingBreakerFailureRatio: v.GetFloat64("EMBEDDING_BREAKER_FAILURE_RATIO"),

		RateLimitAnalyzeRPS:   v.GetFloat64("RATE_LIMIT_ANALYZE_RPS"),
		RateLimitAnalyzeBurst: v.GetInt("RATE_LIMIT_ANALYZE_BURST"),
		RateLimitReadRPS:      v.GetFloat64("RATE_LIMIT_READ_RPS"),
		RateLimitReadBurst:    v.GetInt("RATE_LIMIT_READ_BURST"),
	}
}

// IsDevLike reports whether env allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
