package config

import (
	"fmt"
	"net/netip"
	"strings"
)

func normalize(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Database.Driver = normalizeDriver(cfg.Database.Driver)
	if cfg.Database.Driver == "sqlite" && cfg.Database.URL == "" {
		cfg.Database.URL = defaultSQLiteURL
	}
	cfg.Redis.URL = normalizeRedisRawURL(cfg.Redis.URL)

	cfg.Session.Store = strings.ToLower(strings.TrimSpace(cfg.Session.Store))
	if cfg.Session.Store == "" {
		cfg.Session.Store = defaultSessionStore
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = defaultSessionTTL
	}
	if cfg.Session.Secret == "" && !cfg.IsProduction() {
		cfg.Session.Secret = defaultDevSessionSecret
	}

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = defaultAIProvider
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = defaultOpenAIModel
		if cfg.AI.Provider == "anthropic" {
			cfg.AI.Model = defaultAnthropicModel
		}
	}
	if cfg.AI.MaxTokens <= 0 {
		cfg.AI.MaxTokens = defaultAIMaxTokens
	}

	if cfg.News.Concurrency <= 0 {
		cfg.News.Concurrency = defaultNewsConcurrency
	}
	if cfg.News.PerSource <= 0 {
		cfg.News.PerSource = defaultNewsPerSource
	}
	for i := range cfg.News.Sources {
		src := &cfg.News.Sources[i]
		src.Kind = strings.ToLower(strings.TrimSpace(src.Kind))
		if src.Kind == "" {
			src.Kind = SourceKindRSS
		}
		src.URL = strings.TrimSpace(src.URL)
		if src.Name == "" {
			src.Name = src.URL
		}
	}
	if cfg.Generation.Concurrency <= 0 {
		cfg.Generation.Concurrency = defaultGenConcurrency
	}

	cfg.S3.PublicURL = strings.TrimRight(cfg.S3.PublicURL, "/")
	cfg.Site.URL = strings.TrimRight(cfg.Site.URL, "/")
	cfg.AllowedOrigins = normalizeList(cfg.AllowedOrigins)
	cfg.TrustedProxies = normalizeList(cfg.TrustedProxies)
	cfg.Paths = normalizeRuntimePaths(cfg.Paths)
}

func validate(cfg *AppConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	switch cfg.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q, expected postgres, mysql or sqlite", cfg.Database.Driver)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database.url (DATABASE_URL) is required for driver %s", cfg.Database.Driver)
	}
	switch cfg.Session.Store {
	case "database", "memory":
	case "redis":
		if cfg.Redis.URL == "" {
			return fmt.Errorf("session.store redis needs redis.url (REDIS_URL)")
		}
	default:
		return fmt.Errorf("unsupported session.store %q, expected database, redis or memory", cfg.Session.Store)
	}
	if cfg.Session.Secret == "" {
		return fmt.Errorf("session.secret (SESSION_SECRET) is required in production")
	}
	switch cfg.AI.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported ai.provider %q, expected openai or anthropic", cfg.AI.Provider)
	}
	if cfg.News.Schedule == "" {
		return fmt.Errorf("news.schedule must not be empty")
	}
	for _, proxy := range cfg.TrustedProxies {
		if _, err := netip.ParsePrefix(proxy); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(proxy); err != nil {
			return fmt.Errorf("invalid trusted proxy %q, expected an IP or CIDR", proxy)
		}
	}
	for _, src := range cfg.News.Sources {
		if src.Kind != SourceKindRSS && src.Kind != SourceKindHackerNews {
			return fmt.Errorf("news source %q: unsupported kind %q", src.Name, src.Kind)
		}
		if src.URL == "" {
			return fmt.Errorf("news source %q: url is required", src.Name)
		}
	}
	return nil
}

func normalizeDriver(driver string) string {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "":
		return defaultDriver
	case "postgresql", "pg":
		return "postgres"
	case "sqlite3":
		return "sqlite"
	default:
		return d
	}
}

func normalizeRedisRawURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "redis://") || strings.HasPrefix(trimmed, "rediss://") {
		return trimmed
	}
	return "redis://" + trimmed
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}

func normalizeRuntimePaths(paths RuntimePathsConfig) RuntimePathsConfig {
	paths.Logs = strings.TrimSpace(paths.Logs)
	return paths
}
