// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"faq/store"

	"github.com/joho/godotenv"
)

type Config struct {
	OpenAIKey      string
	OpenAIBaseURL  string
	EmbeddingModel string
	ChatModel      string

	SheetCreds   []byte
	QASheet      string
	QASheetRange string
	SignupSheet  string

	IndexBackend string
	IndexDir     string
	PostgresDSN  string

	TopK          int
	MinSimilarity float64
	MaxRetries    int
	ListingTTL    time.Duration
	SchoolName    string

	ServerAddr string
	// AdminToken guards maintenance routes. Empty disables them.
	AdminToken string
}

// LoadEnv loads a .env file into the process environment when present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[CONFIG] failed to load .env file: %v", err)
	}
}

// Load builds the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		EmbeddingModel: getenv("OPENAI_EMBEDDING_MODEL", "text-embedding-ada-002"),
		ChatModel:      getenv("OPENAI_CHAT_MODEL", "gpt-3.5-turbo"),
		QASheet:        os.Getenv("QA_SHEET_URL"),
		QASheetRange:   os.Getenv("QA_SHEET_RANGE"),
		IndexBackend:   getenv("INDEX_BACKEND", store.BackendFile),
		IndexDir:       getenv("INDEX_DIR", "faiss_index"),
		PostgresDSN:    os.Getenv("PG_DSN"),
		SchoolName:     getenv("SCHOOL_NAME", "the seminary"),
		ServerAddr:     getenv("SERVER_ADDR", ":3000"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
	}
	cfg.SignupSheet = getenv("SIGNUP_SHEET_URL", cfg.QASheet)

	var err error
	if cfg.TopK, err = getInt("RETRIEVE_TOP_K", 4); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = getInt("AI_MAX_RETRIES", 2); err != nil {
		return nil, err
	}
	if cfg.MinSimilarity, err = getFloat("MIN_SIMILARITY", 0); err != nil {
		return nil, err
	}
	if v := os.Getenv("LISTING_TTL"); v != "" {
		if cfg.ListingTTL, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("LISTING_TTL: %w", err)
		}
	}
	if cfg.SheetCreds, err = readCreds(os.Getenv("GOOGLE_SHEET_CREDS")); err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	var errs []error
	if c.OpenAIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}
	if len(c.SheetCreds) == 0 {
		errs = append(errs, errors.New("GOOGLE_SHEET_CREDS is required"))
	}
	if c.QASheet == "" {
		errs = append(errs, errors.New("QA_SHEET_URL is required"))
	}
	switch c.IndexBackend {
	case store.BackendFile:
	case store.BackendPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("PG_DSN is required for the postgres index backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown INDEX_BACKEND %q", c.IndexBackend))
	}
	if c.TopK <= 0 {
		errs = append(errs, errors.New("RETRIEVE_TOP_K must be positive"))
	}
	return errors.Join(errs...)
}

// readCreds accepts either inline service-account JSON or a path to it.
func readCreds(v string) ([]byte, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "{") {
		return []byte(v), nil
	}
	data, err := os.ReadFile(v)
	if err != nil {
		return nil, fmt.Errorf("GOOGLE_SHEET_CREDS: %w", err)
	}
	return data, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
