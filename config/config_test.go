package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigFileAndDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"llm": {"api_key": "sk-file", "model": "gpt-4o-mini"},
		"search": {"provider": "serper", "serper_api_key": "serp"},
		"page_rank": {"api_key": "opr", "retry": {"max_tries": 5}},
		"session": {"store": "redis", "ttl": "2h"}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "serp", cfg.Search.APIKey())
	assert.Equal(t, 10, cfg.Search.ProductResults)
	assert.Equal(t, 2, cfg.Search.ExpertResults)
	assert.Equal(t, 10*time.Second, cfg.PageRank.Timeout)
	assert.True(t, cfg.PageRank.Retry.Enabled)
	assert.Equal(t, 5, cfg.PageRank.Retry.MaxTries)
	assert.Equal(t, time.Second, cfg.PageRank.Retry.Delay)
	assert.Equal(t, 2.0, cfg.PageRank.Retry.Backoff)
	assert.Equal(t, 8, cfg.Agent.MaxSteps)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Equal(t, "@hourly", cfg.Session.PruneSchedule)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `{"llm": {"api_key": "sk-file"}}`)
	t.Setenv("RESEARCH_AGENT_LLM_API_KEY", "sk-env")
	t.Setenv("RESEARCH_AGENT_AGENT_MAX_STEPS", "3")
	t.Setenv("RESEARCH_AGENT_SERVER_JWT_SECRET", "s3cret")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey)
	assert.Equal(t, 3, cfg.Agent.MaxSteps)
	assert.Equal(t, "s3cret", cfg.Server.JWTSecret)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LLM:      LLMConfig{APIKey: "sk"},
			Search:   SearchConfig{Provider: "tavily", TavilyAPIKey: "tv", ProductResults: 10, ExpertResults: 2},
			PageRank: PageRankConfig{APIKey: "opr", Retry: RetryConfig{Enabled: true, MaxTries: 3, Delay: time.Second, Backoff: 2}},
			Agent:    AgentConfig{MaxSteps: 8},
			Session:  SessionConfig{Store: "inmemory"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing llm key", func(c *Config) { c.LLM.APIKey = "" }},
		{"unknown search provider", func(c *Config) { c.Search.Provider = "bing" }},
		{"missing search key", func(c *Config) { c.Search.Provider = "brave" }},
		{"missing page rank key", func(c *Config) { c.PageRank.APIKey = "" }},
		{"bad retry", func(c *Config) { c.PageRank.Retry.MaxTries = 0 }},
		{"scraper without url", func(c *Config) { c.Fetch = FetchConfig{Enabled: true, Type: "scraper"} }},
		{"zero steps", func(c *Config) { c.Agent.MaxSteps = 0 }},
		{"redis without host", func(c *Config) { c.Session.Store = "redis" }},
		{"unknown store", func(c *Config) { c.Session.Store = "etcd" }},
		{"password without jwt secret", func(c *Config) { c.Server.PasswordHash = "$2a$10$x" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "agent"}
	assert.Equal(t, "postgres://u:p@db:5432/agent?sslmode=disable", p.DSN())
	p.URL = "postgres://x"
	assert.Equal(t, "postgres://x", p.DSN())
}
