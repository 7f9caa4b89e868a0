package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envFile = ".env"
const configFileEnv = "REPOBROWSER_CONFIG"

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	StaticDir  string `yaml:"static_dir"`
	LogLevel   string `yaml:"log_level"`

	CacheLiveNavigation string `yaml:"cache_live_navigation"`
	RedirectUnmatched   bool   `yaml:"redirect_unmatched"`

	GitHubGraphQLEndpoint string `yaml:"github_graphql_endpoint"`
	GitHubToken           string `yaml:"-"`

	PageSize        int           `yaml:"page_size"`
	MaxRepositories int           `yaml:"max_repositories"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`

	DefaultLanguage string   `yaml:"default_language"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

func Default() Config {
	return Config{
		ListenAddr:            ":8080",
		StaticDir:             "internal/web/static",
		LogLevel:              "info",
		GitHubGraphQLEndpoint: "https://api.github.com/graphql",
		PageSize:              10,
		MaxRepositories:       300,
		CacheTTL:              5 * time.Minute,
		DefaultLanguage:       "en",
	}
}

// Load reads .env, then the optional YAML file named by REPOBROWSER_CONFIG,
// then REPOBROWSER_* environment variables. Later sources win.
func Load() (Config, error) {
	_ = godotenv.Load(envFile)

	cfg := Default()
	if path := strings.TrimSpace(os.Getenv(configFileEnv)); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %q: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return sanitize(cfg), nil
}

func applyEnv(cfg *Config) {
	cfg.ListenAddr = getEnv("REPOBROWSER_LISTEN_ADDR", cfg.ListenAddr)
	cfg.StaticDir = getEnv("REPOBROWSER_STATIC_DIR", cfg.StaticDir)
	cfg.LogLevel = getEnv("REPOBROWSER_LOG_LEVEL", cfg.LogLevel)
	cfg.CacheLiveNavigation = strings.TrimSpace(getEnv("REPOBROWSER_CACHE_LIVE_NAV", cfg.CacheLiveNavigation))
	cfg.RedirectUnmatched = getEnvBool("REPOBROWSER_REDIRECT_UNMATCHED", cfg.RedirectUnmatched)
	cfg.GitHubGraphQLEndpoint = getEnv("REPOBROWSER_GITHUB_GRAPHQL_ENDPOINT", cfg.GitHubGraphQLEndpoint)
	cfg.GitHubToken = getEnv("REPOBROWSER_GITHUB_TOKEN", os.Getenv("GITHUB_TOKEN"))
	cfg.PageSize = getEnvInt("REPOBROWSER_PAGE_SIZE", cfg.PageSize)
	cfg.MaxRepositories = getEnvInt("REPOBROWSER_MAX_REPOSITORIES", cfg.MaxRepositories)
	cfg.CacheTTL = getEnvDuration("REPOBROWSER_CACHE_TTL", cfg.CacheTTL)
	cfg.DefaultLanguage = getEnv("REPOBROWSER_DEFAULT_LANGUAGE", cfg.DefaultLanguage)
	if origins := strings.TrimSpace(os.Getenv("REPOBROWSER_CORS_ORIGINS")); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}
}

func sanitize(cfg Config) Config {
	defaults := Default()
	if cfg.PageSize < 1 {
		cfg.PageSize = defaults.PageSize
	}
	if cfg.MaxRepositories < 1 {
		cfg.MaxRepositories = defaults.MaxRepositories
	}
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}
	if strings.TrimSpace(cfg.DefaultLanguage) == "" {
		cfg.DefaultLanguage = defaults.DefaultLanguage
	}
	return cfg
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}

	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}

	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		return fallback
	}

	return parsed
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
