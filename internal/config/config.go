package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config covers both commands. The gateway ignores the poller fields and the
// feed ignores the gateway ones; a single struct keeps the env surface in one
// place.
type Config struct {
	GatewayPort int    `env:"GATEWAY_PORT" env-default:"8000"`
	FeedPort    int    `env:"FEED_PORT" env-default:"8082"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	SupabaseURL string `env:"SUPABASE_URL"`
	SupabaseKey string `env:"SUPABASE_ANON_KEY"`

	RAGAnswerURL string        `env:"RAG_ANSWER_URL" env-default:"http://localhost:8081/v2/answer"`
	FeedURL      string        `env:"FEED_URL" env-default:"http://localhost:8082"`
	CacheDir     string        `env:"CACHE_DIR" env-default:"pathway-cache"`
	PollInterval time.Duration `env:"POLL_INTERVAL" env-default:"5s"`
	FetchLimit   int           `env:"FETCH_LIMIT" env-default:"1000"`

	// Optional: mirror change events to NATS for backend consumers.
	NatsURL   string `env:"NATS_URL"`
	NatsToken string `env:"NATS_TOKEN"`
}

// Load reads a .env file when one is present, then the environment. A missing
// .env is not an error; deployments ship one only in dev.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}
