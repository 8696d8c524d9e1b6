// Package config loads and exposes application configuration (TOML).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath       = "config.toml"
	DefaultHTTPAddr         = ":8080"
	DefaultQdrantURL        = "http://127.0.0.1:6334"
	DefaultQdrantCollection = "documents"
	DefaultLLMModel         = "gpt-4o-mini"
	DefaultEmbeddingModel   = "text-embedding-3-small"
	DefaultEmbeddingDims    = 1536
	DefaultChunkSize        = 1000
	DefaultChunkOverlap     = 200
	DefaultRetrievalK       = 3
	DefaultMaxHistory       = 10
	DefaultChannelMessages  = 200
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log        LogConfig        `toml:"log"`
	Server     ServerConfig     `toml:"server"`
	Slack      SlackConfig      `toml:"slack"`
	LLM        LLMConfig        `toml:"llm"`
	Embeddings EmbeddingsConfig `toml:"embeddings"`
	Qdrant     QdrantConfig     `toml:"qdrant"`
	Index      IndexConfig      `toml:"index"`
	Chat       ChatConfig       `toml:"chat"`
	Channels   ChannelsConfig   `toml:"channels"`
	Documents  map[string]string `toml:"documents"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the status HTTP server listen address.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// SlackConfig holds the Slack bot and app-level tokens (Socket Mode).
type SlackConfig struct {
	BotToken string `toml:"bot_token"`
	AppToken string `toml:"app_token"`
}

// LLMConfig holds the OpenAI-compatible chat completion endpoint settings.
type LLMConfig struct {
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	Temperature    float32 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// EmbeddingsConfig holds the embedding endpoint settings; falls back to the
// LLM credentials when base_url or api_key is empty.
type EmbeddingsConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	Dimensions     int    `toml:"dimensions"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// QdrantConfig holds Qdrant base URL, API key, collection name, and timeout.
type QdrantConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Collection     string `toml:"collection"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// IndexConfig holds chunking and retrieval parameters for document ingestion.
type IndexConfig struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
	RetrievalK   int `toml:"retrieval_k"`
}

// ChatConfig holds conversation settings.
type ChatConfig struct {
	MaxHistory int `toml:"max_history"`
}

// ChannelsConfig holds channel analysis limits.
type ChannelsConfig struct {
	MaxMessages int `toml:"max_messages"`
}

// Load reads and parses the TOML config file at path and applies default
// values for missing fields. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		LLM: LLMConfig{
			Model:       DefaultLLMModel,
			Temperature: 0.3,
		},
		Embeddings: EmbeddingsConfig{
			Model:      DefaultEmbeddingModel,
			Dimensions: DefaultEmbeddingDims,
		},
		Qdrant: QdrantConfig{
			BaseURL:    DefaultQdrantURL,
			Collection: DefaultQdrantCollection,
		},
		Index: IndexConfig{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
			RetrievalK:   DefaultRetrievalK,
		},
		Chat: ChatConfig{
			MaxHistory: DefaultMaxHistory,
		},
		Channels: ChannelsConfig{
			MaxMessages: DefaultChannelMessages,
		},
		Documents: map[string]string{},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks that required credentials are present. Missing credentials
// are fatal at startup; missing document files are not checked here (they are
// a non-fatal warning at ingestion time).
func (c Config) Validate() error {
	if c.Slack.BotToken == "" {
		return fmt.Errorf("slack.bot_token is required")
	}
	if c.Slack.AppToken == "" {
		return fmt.Errorf("slack.app_token is required")
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	return nil
}

// EmbeddingsBaseURL returns the embeddings endpoint, falling back to the LLM endpoint.
func (c Config) EmbeddingsBaseURL() string {
	if c.Embeddings.BaseURL != "" {
		return c.Embeddings.BaseURL
	}
	return c.LLM.BaseURL
}

// EmbeddingsAPIKey returns the embeddings API key, falling back to the LLM key.
func (c Config) EmbeddingsAPIKey() string {
	if c.Embeddings.APIKey != "" {
		return c.Embeddings.APIKey
	}
	return c.LLM.APIKey
}
