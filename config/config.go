// Package config loads the assistant configuration from defaults, an optional file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bububa/lifelog-agent/components/datastore"
	"github.com/bububa/lifelog-agent/components/embedder"
	embedderproviders "github.com/bububa/lifelog-agent/components/embedder/providers"
	"github.com/bububa/lifelog-agent/components/llm"
	llmproviders "github.com/bububa/lifelog-agent/components/llm/providers"
)

// Config holds all configuration of the assistant
type Config struct {
	User      UserConfig      `mapstructure:"user"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Embedder  EmbedderConfig  `mapstructure:"embedder"`
	OpenAI    ProviderConfig  `mapstructure:"openai"`
	Anthropic ProviderConfig  `mapstructure:"anthropic"`
	Cohere    ProviderConfig  `mapstructure:"cohere"`
	Gemini    ProviderConfig  `mapstructure:"gemini"`
	Chroma    ChromaConfig    `mapstructure:"chroma"`
	Database  DatabaseConfig  `mapstructure:"database"`
	WebSearch WebSearchConfig `mapstructure:"web_search"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	API       APIConfig       `mapstructure:"api"`
	Log       LogConfig       `mapstructure:"log"`
}

// UserConfig identifies the single user whose records are queried
type UserConfig struct {
	ID          string `mapstructure:"id"`
	ProfilePath string `mapstructure:"profile_path"`
}

// LLMConfig selects the language model
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// EmbedderConfig selects the embedding model
type EmbedderConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
}

// ProviderConfig holds the credentials of one model provider
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// ChromaConfig locates the persisted embeddings
type ChromaConfig struct {
	PersistDirectory string `mapstructure:"persist_directory"`
	Collection       string `mapstructure:"collection"`
	Compress         bool   `mapstructure:"compress"`
	TopK             int    `mapstructure:"top_k"`
}

// DatabaseConfig locates the structured records
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URL    string `mapstructure:"url"`
}

// WebSearchConfig selects the web search backend
type WebSearchConfig struct {
	Provider   string `mapstructure:"provider"`
	BaseURL    string `mapstructure:"base_url"`
	MaxResults int    `mapstructure:"max_results"`
}

// ChatConfig bounds conversations
type ChatConfig struct {
	MaxHistory      int           `mapstructure:"max_history"`
	MaxWords        int           `mapstructure:"max_words"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
}

type APIConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Web search providers
const (
	WebSearchDuckDuckGo = "duckduckgo"
	WebSearchSearxng    = "searxng"
)

// envBindings keeps the environment names of the original deployment
var envBindings = map[string]string{
	"user.id":                  "USER_UUID",
	"chroma.persist_directory": "CHROMA_PERSIST_DIRECTORY",
	"telegram.token":           "TELEGRAM_BOT_TOKEN",
	"openai.api_key":           "OPENAI_API_KEY",
	"openai.base_url":          "OPENAI_API_BASE_URL",
	"anthropic.api_key":        "ANTHROPIC_API_KEY",
	"cohere.api_key":           "COHERE_API_KEY",
	"gemini.api_key":           "GEMINI_API_KEY",
	"database.url":             "DATABASE_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("user.id", "")
	v.SetDefault("user.profile_path", "about_me.txt")
	v.SetDefault("llm.provider", llm.ProviderOpenAI)
	v.SetDefault("llm.model", "gpt-4")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("embedder.provider", embedder.ProviderOpenAI)
	v.SetDefault("embedder.model", "text-embedding-3-small")
	v.SetDefault("chroma.persist_directory", "./chroma_db")
	v.SetDefault("chroma.collection", "my_life_logs")
	v.SetDefault("chroma.compress", false)
	v.SetDefault("chroma.top_k", 3)
	v.SetDefault("database.driver", datastore.DriverPostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("web_search.provider", WebSearchDuckDuckGo)
	v.SetDefault("web_search.base_url", "")
	v.SetDefault("web_search.max_results", 5)
	v.SetDefault("chat.max_history", 10)
	v.SetDefault("chat.max_words", 300)
	v.SetDefault("chat.session_ttl", 24*time.Hour)
	v.SetDefault("chat.janitor_interval", 10*time.Minute)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("api.addr", ":5001")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	for _, section := range []string{"openai", "anthropic", "cohere", "gemini"} {
		v.SetDefault(section+".api_key", "")
		v.SetDefault(section+".base_url", "")
	}
}

// Load builds the configuration. Precedence (highest to lowest):
// 1. Environment variables (USER_UUID, OPENAI_API_KEY, ... or LIFELOG_<SECTION>_<KEY>)
// 2. The config file at path, when path is not empty
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("LIFELOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env, "LIFELOG_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late
func (c *Config) Validate() error {
	var errs []error
	switch c.LLM.Provider {
	case llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderCohere, llm.ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider))
	}
	switch c.Embedder.Provider {
	case embedder.ProviderOpenAI, embedder.ProviderCohere, embedder.ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("unsupported embedder provider: %q", c.Embedder.Provider))
	}
	switch c.Database.Driver {
	case datastore.DriverPostgres, datastore.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver: %q", c.Database.Driver))
	}
	switch c.WebSearch.Provider {
	case WebSearchDuckDuckGo, WebSearchSearxng:
	default:
		errs = append(errs, fmt.Errorf("unsupported web search provider: %q", c.WebSearch.Provider))
	}
	if c.WebSearch.Provider == WebSearchSearxng && c.WebSearch.BaseURL == "" {
		errs = append(errs, errors.New("web_search.base_url is required for searxng"))
	}
	if c.Chat.MaxHistory <= 0 {
		errs = append(errs, fmt.Errorf("chat.max_history must be positive, got %d", c.Chat.MaxHistory))
	}
	if c.Chat.MaxWords <= 0 {
		errs = append(errs, fmt.Errorf("chat.max_words must be positive, got %d", c.Chat.MaxWords))
	}
	if c.Chat.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("chat.session_ttl must be positive, got %s", c.Chat.SessionTTL))
	}
	if c.Chat.JanitorInterval <= 0 {
		errs = append(errs, fmt.Errorf("chat.janitor_interval must be positive, got %s", c.Chat.JanitorInterval))
	}
	return errors.Join(errs...)
}

func (c *Config) provider(name string) ProviderConfig {
	switch name {
	case llm.ProviderAnthropic:
		return c.Anthropic
	case llm.ProviderCohere:
		return c.Cohere
	case llm.ProviderGemini:
		return c.Gemini
	}
	return c.OpenAI
}

// LLMProvider returns the settings used to build the language model client
func (c *Config) LLMProvider() llmproviders.Config {
	p := c.provider(c.LLM.Provider)
	return llmproviders.Config{
		Provider:    c.LLM.Provider,
		APIKey:      p.APIKey,
		BaseURL:     p.BaseURL,
		Model:       c.LLM.Model,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
	}
}

// EmbedderProvider returns the settings used to build the embedder
func (c *Config) EmbedderProvider() embedderproviders.Config {
	p := c.provider(c.Embedder.Provider)
	return embedderproviders.Config{
		Provider: c.Embedder.Provider,
		APIKey:   p.APIKey,
		BaseURL:  p.BaseURL,
		Model:    c.Embedder.Model,
	}
}
