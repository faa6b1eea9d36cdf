// Package config loads settings from .env, an optional YAML file and the
// environment, in that order of increasing precedence.
// Invalid values are reported at startup rather than at first use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/justsurfingit/JobConnect/internal/ads"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"

	ProviderLangchain = "langchain"
	ProviderGenAI     = "genai"

	DefaultPath = "configs/config.yaml"
)

type Config struct {
	Port            string        `yaml:"port"`
	StoreBackend    string        `yaml:"store_backend"`
	RedisURL        string        `yaml:"redis_url"`
	RedisPrefix     string        `yaml:"redis_prefix"`
	DatabaseURL     string        `yaml:"database_url"`
	GeminiAPIKey    string        `yaml:"-"`
	GeminiModel     string        `yaml:"gemini_model"`
	LLMProvider     string        `yaml:"llm_provider"`
	GenerateTimeout time.Duration `yaml:"generate_timeout"`
	Ads             AdsConfig     `yaml:"ads"`
}

type AdsConfig struct {
	LoadDelay time.Duration `yaml:"load_delay"`
	Countdown int           `yaml:"countdown"`
	Tick      time.Duration `yaml:"tick"`
	// Units overrides placement ids by kind ("banner", "interstitial", ...).
	Units map[string]string `yaml:"units"`
}

func defaults() *Config {
	t := ads.DefaultTiming()
	return &Config{
		Port:            "8080",
		StoreBackend:    BackendMemory,
		RedisPrefix:     "jobconnect:",
		GeminiModel:     "gemini-2.5-flash",
		LLMProvider:     ProviderLangchain,
		GenerateTimeout: 30 * time.Second,
		Ads: AdsConfig{
			LoadDelay: t.LoadDelay,
			Countdown: t.Countdown,
			Tick:      t.Tick,
		},
	}
}

// Load reads .env (if present), the YAML file at path (if present), then
// environment overrides. An empty path means CONFIG_PATH or DefaultPath.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := defaults()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.Port, "PORT")
	setString(&c.StoreBackend, "STORE_BACKEND")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.RedisPrefix, "REDIS_PREFIX")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.LLMProvider, "LLM_PROVIDER")

	for key, dst := range map[string]*time.Duration{
		"GENERATE_TIMEOUT": &c.GenerateTimeout,
		"AD_LOAD_DELAY":    &c.Ads.LoadDelay,
		"AD_TICK":          &c.Ads.Tick,
	} {
		if s := os.Getenv(key); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return fmt.Errorf("%s must be a duration, got %q", key, s)
			}
			*dst = d
		}
	}

	if s := os.Getenv("AD_COUNTDOWN"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("AD_COUNTDOWN must be an integer, got %q", s)
		}
		c.Ads.Countdown = n
	}

	for kind, key := range map[ads.Kind]string{
		ads.KindBanner:       "AD_UNIT_BANNER",
		ads.KindInterstitial: "AD_UNIT_INTERSTITIAL",
		ads.KindRewarded:     "AD_UNIT_REWARDED",
		ads.KindAppOpen:      "AD_UNIT_APP_OPEN",
	} {
		if v := os.Getenv(key); v != "" {
			if c.Ads.Units == nil {
				c.Ads.Units = make(map[string]string)
			}
			c.Ads.Units[string(kind)] = v
		}
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.LLMProvider {
	case ProviderLangchain, ProviderGenAI:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	if c.Ads.Countdown < 0 {
		return fmt.Errorf("ad countdown must not be negative, got %d", c.Ads.Countdown)
	}
	if c.Ads.LoadDelay < 0 || c.Ads.Tick <= 0 {
		return fmt.Errorf("ad load delay must be >= 0 and tick > 0")
	}
	for k := range c.Ads.Units {
		if _, err := ads.ParseKind(k); err != nil {
			return fmt.Errorf("ads.units: %w", err)
		}
	}
	return nil
}

// Placements returns the default unit ids with any configured overrides.
func (c *Config) Placements() ads.Placements {
	p := ads.DefaultPlacements()
	for k, id := range c.Ads.Units {
		p[ads.Kind(k)] = id
	}
	return p
}

func (c *Config) Timing() ads.Timing {
	return ads.Timing{
		LoadDelay: c.Ads.LoadDelay,
		Countdown: c.Ads.Countdown,
		Tick:      c.Ads.Tick,
	}
}
