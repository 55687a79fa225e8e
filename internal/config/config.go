package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// devSessionSecret signs sessions outside production when SESSION_SECRET
// is unset. Restarting with another secret only logs every device out.
const devSessionSecret = "localinsights-dev-secret"

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	SessionSecret string
	SessionTTL    time.Duration

	StorageBackend string
	DataFile       string
	RedisURL       string

	MongoDBURI      string
	MongoDBPassword string
	MongoDBDatabase string

	SupabaseURL     string
	SupabaseAnonKey string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	AllowedOrigins    []string
	Timezone          string
	AuthRatePerMinute int
	AuthRateBurst     int
	EnableMetrics     bool
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),

		StorageBackend: strings.ToLower(getEnvWithDefault("STORAGE_BACKEND", BackendMemory)),
		DataFile:       getEnvWithDefault("DATA_FILE", "data/localinsights.json"),
		RedisURL:       os.Getenv("REDIS_URL"),

		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "localinsights"),

		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_URL_ANON_KEY"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		AllowedOrigins:    getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		Timezone:          getEnvWithDefault("TIMEZONE", "Europe/Paris"),
		AuthRatePerMinute: getEnvAsInt("AUTH_RATE_PER_MINUTE", 20),
		AuthRateBurst:     getEnvAsInt("AUTH_RATE_BURST", 5),
		EnableMetrics:     getEnvAsBool("ENABLE_METRICS", true),
	}

	if cfg.SessionSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("SESSION_SECRET is required in production")
		}
		cfg.SessionSecret = devSessionSecret
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}

	switch cfg.StorageBackend {
	case BackendMemory:
	case BackendFile:
		if cfg.DataFile == "" {
			return nil, fmt.Errorf("DATA_FILE is required for the file backend")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if (cfg.SupabaseURL == "") != (cfg.SupabaseAnonKey == "") {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_URL_ANON_KEY must be set together")
	}
	if strings.Contains(cfg.MongoDBURI, "<password>") && cfg.MongoDBPassword == "" {
		return nil, fmt.Errorf("MONGODB_PASSWORD is required")
	}
	if cfg.AuthRatePerMinute <= 0 || cfg.AuthRateBurst <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_PER_MINUTE and AUTH_RATE_BURST must be positive")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) MongoEnabled() bool {
	return c.MongoDBURI != ""
}

func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != ""
}

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// MongoURI returns the connection string with the <password> placeholder
// filled in.
func (c *Config) MongoURI() string {
	return strings.Replace(c.MongoDBURI, "<password>", c.MongoDBPassword, 1)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
