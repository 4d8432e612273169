package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultTriggerWords select the personas whose output is written back to the card.
var DefaultTriggerWords = []string{"refinador", "refiner", "arquiteto", "architect", "engenheiro", "engineer"}

type Config struct {
	Environment string
	LogLevel    string
	ServerPort  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret     string
	JWTAccessTTL  time.Duration
	JWTRefreshTTL time.Duration

	AI AIConfig

	RedisURL     string
	SentryDSN    string
	OTelEndpoint string
	ServiceName  string
	PersonasFile string
}

// AIConfig configures the text-generation backend and the refinement step.
type AIConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	Timeout      time.Duration
	TriggerWords []string
	RateLimit    int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", EnvDevelopment),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "refineboard"),
		DBPassword: getEnv("DB_PASSWORD", "refineboard"),
		DBName:     getEnv("DB_NAME", "refineboard"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:     getEnv("JWT_SECRET", "supersecretkey"),
		JWTAccessTTL:  getDuration("JWT_ACCESS_TTL", 60*time.Minute),
		JWTRefreshTTL: getDuration("JWT_REFRESH_TTL", 7*24*time.Hour),

		AI: AIConfig{
			APIKey:       getEnv("AI_API_KEY", ""),
			BaseURL:      getEnv("AI_BASE_URL", ""),
			Model:        getEnv("AI_MODEL", "gemini-2.0-flash"),
			Timeout:      getDuration("AI_TIMEOUT", 60*time.Second),
			TriggerWords: getList("AI_TRIGGER_WORDS", DefaultTriggerWords),
			RateLimit:    getInt("AI_RATE_LIMIT", 20),
		},

		RedisURL:     getEnv("REDIS_URL", ""),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
		OTelEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "refineboard"),
		PersonasFile: getEnv("PERSONAS_FILE", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.WithField("key", key).Warnf("invalid integer %q, using default %d", raw, defaultVal)
		return defaultVal
	}
	return v
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.WithField("key", key).Warnf("invalid duration %q, using default %s", raw, defaultVal)
		return defaultVal
	}
	return d
}

func getList(key string, defaultVal []string) []string {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
