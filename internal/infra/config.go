package infra

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreBackendPostgres = "postgres"
	StoreBackendSupabase = "supabase"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	StoreBackend       string
	DatabaseURL        string
	DBMaxConns         int
	SupabaseURL        string
	SupabaseServiceKey string
	JWTSecret          string
	StoragePath        string
	StorageBaseURL     string
	// ImageHostAllowlist holds the hosts image URLs may point at. The host
	// of StorageBaseURL is always included.
	ImageHostAllowlist []string
	GeoIPDBPath        string
	CORSAllowedOrigins []string

	LLMProvider    string
	GatewayAPIKey  string
	GatewayBaseURL string
	GatewayModel   string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiBaseURL  string
	LLMTimeout     time.Duration

	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool

	AnalysisCacheTTL       time.Duration
	FreeDailyGenerations   int
	VariationConcurrency   int
	VariationRatePerSecond int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	RateLimitBurst   int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               port,
		StoreBackend:       strings.ToLower(getEnv("STORE_BACKEND", StoreBackendPostgres)),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		DBMaxConns:         getEnvInt("DB_MAX_CONNS", 10),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		StoragePath:        getEnv("STORAGE_PATH", "./data/uploads"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		LLMProvider:    strings.ToLower(getEnv("LLM_PROVIDER", "gateway")),
		GatewayAPIKey:  os.Getenv("LLM_GATEWAY_API_KEY"),
		GatewayBaseURL: getEnv("LLM_GATEWAY_BASE_URL", "https://ai.gateway.lovable.dev/v1"),
		GatewayModel:   getEnv("LLM_GATEWAY_MODEL", "google/gemini-2.5-flash"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:  os.Getenv("GEMINI_BASE_URL"),
		LLMTimeout:     time.Second * time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 60)),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisTLS:      getEnvBool("REDIS_TLS", false),

		AnalysisCacheTTL:       time.Minute * time.Duration(getEnvInt("ANALYSIS_CACHE_TTL_MINUTES", 1440)),
		FreeDailyGenerations:   getEnvInt("FREE_DAILY_GENERATIONS", 10),
		VariationConcurrency:   getEnvInt("VARIATION_CONCURRENCY", 2),
		VariationRatePerSecond: getEnvInt("VARIATION_RATE_PER_SECOND", 2),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 90)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", 10),
	}
	cfg.ImageHostAllowlist = imageHosts(cfg.StorageBaseURL, getEnvList("IMAGE_SOURCE_HOST_ALLOWLIST", nil))

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.StoreBackend {
	case StoreBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	case StoreBackendSupabase:
		if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
			return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required")
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func imageHosts(storageBaseURL string, extra []string) []string {
	set := map[string]struct{}{}
	if u, err := url.Parse(storageBaseURL); err == nil && u.Hostname() != "" {
		set[strings.ToLower(u.Hostname())] = struct{}{}
	}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			set[h] = struct{}{}
		}
	}
	hosts := make([]string, 0, len(set))
	for h := range set {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
