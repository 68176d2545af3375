package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort              = 5000
	defaultEnv               = "development"
	defaultDriver            = "postgres"
	defaultSQLiteURL         = "file:yourbuzzfeed.db?_busy_timeout=5000"
	defaultSessionStore      = "database"
	defaultSessionTTL        = 24 * time.Hour
	defaultDevSessionSecret  = "yourbuzzfeed-dev-secret"
	defaultAIProvider        = "openai"
	defaultOpenAIModel       = "gpt-4o-mini"
	defaultAnthropicModel    = "claude-3-5-haiku-latest"
	defaultAIMaxTokens       = 2000
	defaultFallbackImage     = "https://images.unsplash.com/photo-1504711434969-e33886168f5c?w=1200"
	defaultNewsSchedule      = "@every 4h"
	defaultNewsConcurrency   = 3
	defaultNewsPerSource     = 3
	defaultGenConcurrency    = 3
	defaultS3Region          = "us-east-1"
	SourceKindRSS            = "rss"
	SourceKindHackerNews     = "hackernews"
	defaultHackerNewsBaseURL = "https://hacker-news.firebaseio.com"
	defaultSiteURL           = "http://localhost:5000"
	defaultSiteTitle         = "YourBuzzFeed"
	defaultSiteDescription   = "Quizzes, lists and the news you actually want to read"
)

// AppConfig holds runtime startup configuration loaded from YAML and the
// environment.
type AppConfig struct {
	Port           int
	Env            string // "development" | "production" | "test"
	Database       DatabaseConfig
	Redis          RedisConfig
	Session        SessionConfig
	AI             AIConfig
	Unsplash       UnsplashConfig
	S3             S3Config
	News           NewsConfig
	Generation     GenerationConfig
	Auth           AuthConfig
	Admin          AdminSeedConfig
	Site           SiteConfig
	AllowedOrigins []string
	TrustedProxies []string // empty trusts no proxy headers
	Paths          RuntimePathsConfig
}

type DatabaseConfig struct {
	Driver      string // "postgres" | "mysql" | "sqlite"
	URL         string
	AutoMigrate bool
}

// RedisConfig is optional; an empty URL disables Redis.
type RedisConfig struct {
	URL string
}

type SessionConfig struct {
	Secret string
	Store  string // "database" | "redis" | "memory"
	TTL    time.Duration
}

type AIConfig struct {
	Provider  string // "openai" | "anthropic"
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

type UnsplashConfig struct {
	AccessKey     string
	FallbackImage string
	BaseURL       string
}

// S3Config enables mirroring of featured images when Bucket is set.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
	UsePathStyle    bool
}

type NewsConfig struct {
	Schedule    string
	Concurrency int
	PerSource   int
	Sources     []NewsSource
}

// NewsSource is one feed the scraper pulls from.
type NewsSource struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"` // "rss" | "hackernews"
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

type GenerationConfig struct {
	Concurrency int
}

type AuthConfig struct {
	EmergencyAdmin bool
}

// AdminSeedConfig creates the first admin on startup when Username and
// Password are both set and no admin exists yet.
type AdminSeedConfig struct {
	Username string
	Password string
	Email    string
	FullName string
}

// SiteConfig describes the public front end that feeds and sitemaps link to.
type SiteConfig struct {
	URL         string
	Title       string
	Description string
}

type RuntimePathsConfig struct {
	Logs string
}

// IsProduction reports whether the app runs with production settings.
func (c *AppConfig) IsProduction() bool { return c.Env == "production" }

// IsDevelopment reports whether the app runs with development settings.
func (c *AppConfig) IsDevelopment() bool { return c.Env == "development" }

type rawAppConfig struct {
	Port           int                 `yaml:"port"`
	Env            string              `yaml:"env"`
	NodeEnv        string              `yaml:"node_env"`
	Database       rawDatabaseConfig   `yaml:"database"`
	DatabaseURL    string              `yaml:"database_url"`
	Redis          rawRedisConfig      `yaml:"redis"`
	RedisURL       string              `yaml:"redis_url"`
	Session        rawSessionConfig    `yaml:"session"`
	AI             rawAIConfig         `yaml:"ai"`
	Unsplash       rawUnsplashConfig   `yaml:"unsplash"`
	S3             rawS3Config         `yaml:"s3"`
	News           rawNewsConfig       `yaml:"news"`
	Generation     rawGenerationConfig `yaml:"generation"`
	Auth           rawAuthConfig       `yaml:"auth"`
	Admin          rawAdminConfig      `yaml:"admin"`
	Site           rawSiteConfig       `yaml:"site"`
	AllowedOrigins []string            `yaml:"allowed_origins"`
	TrustedProxies []string            `yaml:"trusted_proxies"`
	Paths          rawPathsConfig      `yaml:"paths"`
}

type rawDatabaseConfig struct {
	Driver      string `yaml:"driver"`
	URL         string `yaml:"url"`
	DSN         string `yaml:"dsn"`
	AutoMigrate *bool  `yaml:"auto_migrate"`
}

type rawRedisConfig struct {
	URL string `yaml:"url"`
}

type rawSessionConfig struct {
	Secret string `yaml:"secret"`
	Store  string `yaml:"store"`
	TTL    string `yaml:"ttl"`
}

type rawAIConfig struct {
	Provider  string `yaml:"provider"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
}

type rawUnsplashConfig struct {
	AccessKey     string `yaml:"access_key"`
	FallbackImage string `yaml:"fallback_image"`
	BaseURL       string `yaml:"base_url"`
}

type rawS3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicURL       string `yaml:"public_url"`
	UsePathStyle    *bool  `yaml:"use_path_style"`
}

type rawNewsConfig struct {
	Schedule    string       `yaml:"schedule"`
	Concurrency int          `yaml:"concurrency"`
	PerSource   int          `yaml:"per_source"`
	Sources     []NewsSource `yaml:"sources"`
}

type rawGenerationConfig struct {
	Concurrency int `yaml:"concurrency"`
}

type rawAuthConfig struct {
	EmergencyAdmin *bool `yaml:"emergency_admin"`
}

type rawAdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
	FullName string `yaml:"full_name"`
}

type rawSiteConfig struct {
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type rawPathsConfig struct {
	Logs string `yaml:"logs"`
}

// Load reads .env (if present), the YAML file at configPath, and then the
// environment, in increasing order of precedence. A missing file is only an
// error when configPath names something other than the default.
func Load(configPath string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	path := strings.TrimSpace(configPath)
	explicit := path != "" && path != DefaultConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	raw := rawAppConfig{}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := applyRawAppConfig(&cfg, raw); err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	normalize(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Driver:      defaultDriver,
			AutoMigrate: true,
		},
		Session: SessionConfig{
			Store: defaultSessionStore,
			TTL:   defaultSessionTTL,
		},
		AI: AIConfig{
			Provider:  defaultAIProvider,
			MaxTokens: defaultAIMaxTokens,
		},
		Unsplash: UnsplashConfig{
			FallbackImage: defaultFallbackImage,
		},
		S3: S3Config{
			Region: defaultS3Region,
		},
		News: NewsConfig{
			Schedule:    defaultNewsSchedule,
			Concurrency: defaultNewsConcurrency,
			PerSource:   defaultNewsPerSource,
			Sources:     defaultNewsSources(),
		},
		Generation: GenerationConfig{
			Concurrency: defaultGenConcurrency,
		},
		Site: SiteConfig{
			URL:         defaultSiteURL,
			Title:       defaultSiteTitle,
			Description: defaultSiteDescription,
		},
	}
}

func defaultNewsSources() []NewsSource {
	return []NewsSource{
		{Name: "Hacker News", Kind: SourceKindHackerNews, URL: defaultHackerNewsBaseURL, Category: "Tech"},
		{Name: "BBC Entertainment", Kind: SourceKindRSS, URL: "https://feeds.bbci.co.uk/news/entertainment_and_arts/rss.xml", Category: "Entertainment"},
		{Name: "The Verge", Kind: SourceKindRSS, URL: "https://www.theverge.com/rss/index.xml", Category: "Tech"},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) error {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}

	if v := strings.TrimSpace(raw.Database.Driver); v != "" {
		cfg.Database.Driver = v
	}
	for _, v := range []string{raw.DatabaseURL, raw.Database.DSN, raw.Database.URL} {
		if v = strings.TrimSpace(v); v != "" {
			cfg.Database.URL = v
		}
	}
	if raw.Database.AutoMigrate != nil {
		cfg.Database.AutoMigrate = *raw.Database.AutoMigrate
	}

	for _, v := range []string{raw.RedisURL, raw.Redis.URL} {
		if v = strings.TrimSpace(v); v != "" {
			cfg.Redis.URL = v
		}
	}

	if v := strings.TrimSpace(raw.Session.Secret); v != "" {
		cfg.Session.Secret = v
	}
	if v := strings.TrimSpace(raw.Session.Store); v != "" {
		cfg.Session.Store = v
	}
	if v := strings.TrimSpace(raw.Session.TTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid session.ttl %q: %w", v, err)
		}
		cfg.Session.TTL = ttl
	}

	if v := strings.TrimSpace(raw.AI.Provider); v != "" {
		cfg.AI.Provider = v
	}
	if v := strings.TrimSpace(raw.AI.APIKey); v != "" {
		cfg.AI.APIKey = v
	}
	if v := strings.TrimSpace(raw.AI.Model); v != "" {
		cfg.AI.Model = v
	}
	if v := strings.TrimSpace(raw.AI.BaseURL); v != "" {
		cfg.AI.BaseURL = v
	}
	if raw.AI.MaxTokens != 0 {
		cfg.AI.MaxTokens = raw.AI.MaxTokens
	}

	if v := strings.TrimSpace(raw.Unsplash.AccessKey); v != "" {
		cfg.Unsplash.AccessKey = v
	}
	if v := strings.TrimSpace(raw.Unsplash.FallbackImage); v != "" {
		cfg.Unsplash.FallbackImage = v
	}
	if v := strings.TrimSpace(raw.Unsplash.BaseURL); v != "" {
		cfg.Unsplash.BaseURL = v
	}

	s3 := &cfg.S3
	if v := strings.TrimSpace(raw.S3.Bucket); v != "" {
		s3.Bucket = v
	}
	if v := strings.TrimSpace(raw.S3.Region); v != "" {
		s3.Region = v
	}
	if v := strings.TrimSpace(raw.S3.Endpoint); v != "" {
		s3.Endpoint = v
	}
	if v := strings.TrimSpace(raw.S3.AccessKeyID); v != "" {
		s3.AccessKeyID = v
	}
	if v := strings.TrimSpace(raw.S3.SecretAccessKey); v != "" {
		s3.SecretAccessKey = v
	}
	if v := strings.TrimSpace(raw.S3.PublicURL); v != "" {
		s3.PublicURL = v
	}
	if raw.S3.UsePathStyle != nil {
		s3.UsePathStyle = *raw.S3.UsePathStyle
	}

	if v := strings.TrimSpace(raw.News.Schedule); v != "" {
		cfg.News.Schedule = v
	}
	if raw.News.Concurrency != 0 {
		cfg.News.Concurrency = raw.News.Concurrency
	}
	if raw.News.PerSource != 0 {
		cfg.News.PerSource = raw.News.PerSource
	}
	if raw.News.Sources != nil {
		cfg.News.Sources = raw.News.Sources
	}
	if raw.Generation.Concurrency != 0 {
		cfg.Generation.Concurrency = raw.Generation.Concurrency
	}

	if raw.Auth.EmergencyAdmin != nil {
		cfg.Auth.EmergencyAdmin = *raw.Auth.EmergencyAdmin
	}

	cfg.Admin = AdminSeedConfig{
		Username: strings.TrimSpace(raw.Admin.Username),
		Password: raw.Admin.Password,
		Email:    strings.TrimSpace(raw.Admin.Email),
		FullName: strings.TrimSpace(raw.Admin.FullName),
	}

	if v := strings.TrimSpace(raw.Site.URL); v != "" {
		cfg.Site.URL = v
	}
	if v := strings.TrimSpace(raw.Site.Title); v != "" {
		cfg.Site.Title = v
	}
	if v := strings.TrimSpace(raw.Site.Description); v != "" {
		cfg.Site.Description = v
	}

	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = raw.AllowedOrigins
	}
	if raw.TrustedProxies != nil {
		cfg.TrustedProxies = raw.TrustedProxies
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	return nil
}
