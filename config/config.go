package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the research agent
type Config struct {
	General  GeneralConfig  `mapstructure:"general"`
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Search   SearchConfig   `mapstructure:"search"`
	PageRank PageRankConfig `mapstructure:"page_rank"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Session  SessionConfig  `mapstructure:"session"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server and auth settings
type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	JWTSecret      string   `mapstructure:"jwt_secret"`    // empty disables auth on /api
	PasswordHash   string   `mapstructure:"password_hash"` // bcrypt hash enabling POST /api/auth/login
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig configures the chat completion provider
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.APIKey) == "" {
		return fmt.Errorf("llm.api_key required")
	}
	if l.Temperature < 0 || l.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2]")
	}
	return nil
}

// SearchConfig selects the web search provider used for products and expert lookups
type SearchConfig struct {
	Provider       string        `mapstructure:"provider"` // tavily, serper, brave
	TavilyAPIKey   string        `mapstructure:"tavily_api_key"`
	SerperAPIKey   string        `mapstructure:"serper_api_key"`
	BraveAPIKey    string        `mapstructure:"brave_api_key"`
	ProductResults int           `mapstructure:"product_results"`
	ExpertResults  int           `mapstructure:"expert_results"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// APIKey returns the key of the selected provider.
func (s SearchConfig) APIKey() string {
	switch s.Provider {
	case "serper":
		return s.SerperAPIKey
	case "brave":
		return s.BraveAPIKey
	default:
		return s.TavilyAPIKey
	}
}

func (s SearchConfig) Validate() error {
	switch s.Provider {
	case "tavily", "serper", "brave":
	default:
		return fmt.Errorf("search.provider %q not supported", s.Provider)
	}
	if strings.TrimSpace(s.APIKey()) == "" {
		return fmt.Errorf("search.%s_api_key required", s.Provider)
	}
	if s.ProductResults <= 0 || s.ExpertResults <= 0 {
		return fmt.Errorf("search.product_results and search.expert_results must be > 0")
	}
	return nil
}

// PageRankConfig configures the OpenPageRank client and its retry policy
type PageRankConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retry    RetryConfig   `mapstructure:"retry"`
}

// RetryConfig mirrors utils.RetryPolicy
type RetryConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	MaxTries int           `mapstructure:"max_tries"`
	Delay    time.Duration `mapstructure:"delay"`
	Backoff  float64       `mapstructure:"backoff"`
}

func (r RetryConfig) Validate() error {
	if !r.Enabled {
		return nil
	}
	if r.MaxTries < 1 {
		return fmt.Errorf("page_rank.retry.max_tries must be >= 1")
	}
	if r.Delay < 0 || r.Backoff < 1 {
		return fmt.Errorf("page_rank.retry.delay must be >= 0 and backoff >= 1")
	}
	return nil
}

// FetchConfig controls raw content enrichment of candidates
type FetchConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Type       string        `mapstructure:"type"` // chromedp, scraper
	ScraperURL string        `mapstructure:"scraper_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxChars   int           `mapstructure:"max_chars"`
}

func (f FetchConfig) Validate() error {
	if !f.Enabled {
		return nil
	}
	switch f.Type {
	case "chromedp":
	case "scraper":
		if strings.TrimSpace(f.ScraperURL) == "" {
			return fmt.Errorf("fetch.scraper_url required for the scraper fetcher")
		}
	default:
		return fmt.Errorf("fetch.type %q not supported", f.Type)
	}
	return nil
}

// AgentConfig bounds the orchestration loop
type AgentConfig struct {
	MaxSteps              int `mapstructure:"max_steps"`
	CandidateContextChars int `mapstructure:"candidate_context_chars"`
}

// SessionConfig selects where conversation state lives
type SessionConfig struct {
	Store         string        `mapstructure:"store"` // inmemory, redis, postgres
	TTL           time.Duration `mapstructure:"ttl"`
	PruneSchedule string        `mapstructure:"prune_schedule"` // cron spec, empty disables pruning
}

// StorageConfig contains storage backend configurations
type StorageConfig struct {
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (p PostgresConfig) Validate() error {
	if strings.TrimSpace(p.URL) != "" {
		return nil
	}
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("storage.postgres.host required when url is not provided")
	}
	if strings.TrimSpace(p.Port) == "" {
		return fmt.Errorf("storage.postgres.port required when url is not provided")
	}
	if strings.TrimSpace(p.DBName) == "" {
		return fmt.Errorf("storage.postgres.dbname required when url is not provided")
	}
	return nil
}

// DSN returns URL when set, otherwise builds one from the parts.
func (p PostgresConfig) DSN() string {
	if strings.TrimSpace(p.URL) != "" {
		return p.URL
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, p.Port, p.DBName, ssl)
}

// Validate checks the sections the selected components depend on.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.PageRank.APIKey) == "" {
		return fmt.Errorf("page_rank.api_key required")
	}
	if err := c.PageRank.Retry.Validate(); err != nil {
		return err
	}
	if err := c.Fetch.Validate(); err != nil {
		return err
	}
	if c.Agent.MaxSteps < 1 {
		return fmt.Errorf("agent.max_steps must be >= 1")
	}
	if c.Server.PasswordHash != "" && c.Server.JWTSecret == "" {
		return fmt.Errorf("server.jwt_secret required when server.password_hash is set")
	}
	switch c.Session.Store {
	case "inmemory":
	case "redis":
		return c.Storage.Redis.Validate()
	case "postgres":
		return c.Storage.Postgres.Validate()
	default:
		return fmt.Errorf("session.store %q not supported", c.Session.Store)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.password_hash", "")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.max_tokens", 0)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("search.provider", "tavily")
	v.SetDefault("search.tavily_api_key", "")
	v.SetDefault("search.serper_api_key", "")
	v.SetDefault("search.brave_api_key", "")
	v.SetDefault("search.product_results", 10)
	v.SetDefault("search.expert_results", 2)
	v.SetDefault("search.timeout", 20*time.Second)
	v.SetDefault("page_rank.api_key", "")
	v.SetDefault("page_rank.endpoint", "https://openpagerank.com/api/v1.0/getPageRank")
	v.SetDefault("page_rank.timeout", 10*time.Second)
	v.SetDefault("page_rank.retry.enabled", true)
	v.SetDefault("page_rank.retry.max_tries", 3)
	v.SetDefault("page_rank.retry.delay", time.Second)
	v.SetDefault("page_rank.retry.backoff", 2.0)
	v.SetDefault("fetch.enabled", false)
	v.SetDefault("fetch.type", "scraper")
	v.SetDefault("fetch.scraper_url", "")
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.max_chars", 4000)
	v.SetDefault("agent.max_steps", 8)
	v.SetDefault("agent.candidate_context_chars", 500)
	v.SetDefault("session.store", "inmemory")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.prune_schedule", "@hourly")
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout", 5*time.Second)
	v.SetDefault("storage.postgres.url", "")
	v.SetDefault("storage.postgres.host", "localhost")
	v.SetDefault("storage.postgres.port", "5432")
	v.SetDefault("storage.postgres.user", "")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.dbname", "")
	v.SetDefault("storage.postgres.sslmode", "disable")
}

// LoadConfig reads config.json (or the given file) and RESEARCH_AGENT_* env
// vars. A missing file is fine when path is empty; env and defaults apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config") // name of config file (without extension)
	v.SetConfigType("json")
	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if exe, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exe)
			v.AddConfigPath(exeDir)                                // bin/
			v.AddConfigPath(filepath.Join(exeDir, ".."))           // repo root
			v.AddConfigPath(filepath.Join(exeDir, "..", "config")) // repo root/config
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("RESEARCH_AGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &config, nil
}
