package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultDatabaseURL = "postgres://localhost/acme_online_store_db?sslmode=disable"
	DefaultJWTSecret   = "shhh"
	DefaultPort        = 3000
)

type Config struct {
	DatabaseURL string
	JWTSecret   []byte
	Port        int

	TokenTTL       time.Duration
	RequestTimeout time.Duration
	LogLevel       string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	Seed bool
}

// Load reads .env (if present) and the process environment. Unset or
// unparsable values fall back to their defaults.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("Notice: cannot read .env: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() *Config {
	return &Config{
		DatabaseURL: EnvDefault("DATABASE_URL", DefaultDatabaseURL),
		JWTSecret:   []byte(EnvDefault("JWT", DefaultJWTSecret)),
		Port:        EnvIntDefault("PORT", DefaultPort),

		TokenTTL:       EnvDurationDefault("TOKEN_TTL", 24*time.Hour),
		RequestTimeout: EnvDurationDefault("REQUEST_TIMEOUT", 10*time.Second),
		LogLevel:       EnvDefault("LOG_LEVEL", "info"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		Seed: EnvBoolDefault("SEED", false),
	}
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
