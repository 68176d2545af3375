package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func lookupEnv(keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// applyEnv overlays environment variables on top of the file config.
func applyEnv(cfg *AppConfig) error {
	if v, ok := lookupEnv("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v, ok := lookupEnv("APP_ENV", "NODE_ENV"); ok {
		cfg.Env = v
	}
	if v, ok := lookupEnv("DATABASE_DRIVER"); ok {
		cfg.Database.Driver = v
	}
	if v, ok := lookupEnv("DATABASE_URL"); ok {
		cfg.Database.URL = v
	}
	if v, ok := lookupEnv("REDIS_URL"); ok {
		cfg.Redis.URL = v
	}
	if v, ok := lookupEnv("SESSION_SECRET"); ok {
		cfg.Session.Secret = v
	}
	if v, ok := lookupEnv("SESSION_STORE"); ok {
		cfg.Session.Store = v
	}

	if v, ok := lookupEnv("AI_PROVIDER"); ok {
		cfg.AI.Provider = v
	}
	if cfg.AI.APIKey == "" {
		key := "OPENAI_API_KEY"
		if strings.EqualFold(cfg.AI.Provider, "anthropic") {
			key = "ANTHROPIC_API_KEY"
		}
		if v, ok := lookupEnv(key); ok {
			cfg.AI.APIKey = v
		}
	}
	if v, ok := lookupEnv("UNSPLASH_ACCESS_KEY"); ok {
		cfg.Unsplash.AccessKey = v
	}

	if v, ok := lookupEnv("S3_BUCKET", "AWS_S3_BUCKET"); ok {
		cfg.S3.Bucket = v
	}
	if v, ok := lookupEnv("AWS_REGION"); ok {
		cfg.S3.Region = v
	}
	if v, ok := lookupEnv("AWS_ENDPOINT_URL_S3", "AWS_ENDPOINT_URL"); ok {
		cfg.S3.Endpoint = v
	}
	if v, ok := lookupEnv("AWS_ACCESS_KEY_ID"); ok {
		cfg.S3.AccessKeyID = v
	}
	if v, ok := lookupEnv("AWS_SECRET_ACCESS_KEY"); ok {
		cfg.S3.SecretAccessKey = v
	}

	if v, ok := lookupEnv("EMERGENCY_ADMIN"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid EMERGENCY_ADMIN %q: %w", v, err)
		}
		cfg.Auth.EmergencyAdmin = enabled
	}

	if v, ok := lookupEnv("TRUSTED_PROXIES"); ok {
		cfg.TrustedProxies = strings.Split(v, ",")
	}

	if v, ok := lookupEnv("SITE_URL"); ok {
		cfg.Site.URL = v
	}

	if v, ok := lookupEnv("ADMIN_USERNAME"); ok {
		cfg.Admin.Username = v
	}
	if v, ok := lookupEnv("ADMIN_PASSWORD"); ok {
		cfg.Admin.Password = v
	}
	if v, ok := lookupEnv("ADMIN_EMAIL"); ok {
		cfg.Admin.Email = v
	}
	if v, ok := lookupEnv("ADMIN_FULL_NAME"); ok {
		cfg.Admin.FullName = v
	}
	return nil
}
