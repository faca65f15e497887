package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hypewatch/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Telegram      TelegramConfig
	Redis         RedisConfig
	Postgres      PostgresConfig
	Reddit        RedditConfig
	Twitter       TwitterConfig
	AlphaVantage  AlphaVantageConfig
	Sentiment     SentimentConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"hypewatch"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type ServerConfig struct {
	Port    int  `envconfig:"HTTP_PORT" default:"8080"`
	Enabled bool `envconfig:"HTTP_ENABLED" default:"true"`
}

type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	Debug    bool   `envconfig:"TELEGRAM_DEBUG" default:"false"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled reports whether a redis host was configured at all.
// Without redis the source cache degrades to direct fetches.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Database string `envconfig:"POSTGRES_DB" default:"hypewatch"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Enabled reports whether feedback should be persisted to postgres.
// Without it feedback lives in an in-process store.
func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}

type RedditConfig struct {
	ClientID     string `envconfig:"REDDIT_CLIENT_ID"`
	ClientSecret string `envconfig:"REDDIT_CLIENT_SECRET"`
	UserAgent    string `envconfig:"REDDIT_USER_AGENT" default:"hypewatch"`
	Subreddit    string `envconfig:"REDDIT_SUBREDDIT" default:"wallstreetbets"`
	Limit        int    `envconfig:"REDDIT_LIMIT" default:"50"`
}

type TwitterConfig struct {
	BearerToken string `envconfig:"TWITTER_BEARER_TOKEN"`
	Limit       int    `envconfig:"TWITTER_LIMIT" default:"10"`
}

type AlphaVantageConfig struct {
	APIKey  string        `envconfig:"ALPHAVANTAGE_API_KEY"`
	Timeout time.Duration `envconfig:"ALPHAVANTAGE_TIMEOUT" default:"10s"`
}

// SentimentConfig controls the financial-tone classifier.
// The classifier is optional: when disabled or failing to load, domain
// sentiment degrades to neutral 0.0 scores.
type SentimentConfig struct {
	FinToneEnabled bool   `envconfig:"SENTIMENT_FINBERT_ENABLED" default:"false"`
	ModelPath      string `envconfig:"SENTIMENT_MODEL_PATH" default:"models/finbert_tone.onnx"`
	TokenizerPath  string `envconfig:"SENTIMENT_TOKENIZER_PATH" default:"models/tokenizer.json"`
	MaxSeqLen      int    `envconfig:"SENTIMENT_MAX_SEQ_LEN" default:"256"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables.
// It first tries to load a .env file (useful for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
