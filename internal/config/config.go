package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Provider names accepted by PROVIDER.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderGemini   = "gemini"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server    ServerConfig
	Provider  ProviderConfig
	Embedding EmbeddingConfig
	Redis     RedisConfig
	RAG       RAGConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	provider, err := loadProviderConfig()
	if err != nil {
		return nil, err
	}

	rag, err := loadRAGConfig()
	if err != nil {
		return nil, err
	}

	redis, err := loadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		Provider:  provider,
		Embedding: loadEmbeddingConfig(),
		Redis:     redis,
		RAG:       rag,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// Accept ":8000" or "127.0.0.1:8000" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// ProviderConfig selects and parameterizes the language-model backend.
type ProviderConfig struct {
	Name        string
	Temperature float64

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	DeepSeekAPIKey  string
	DeepSeekModel   string
	DeepSeekBaseURL string

	GeminiAPIKey string
	GeminiModel  string
}

func loadProviderConfig() (ProviderConfig, error) {
	name := strings.ToLower(getEnvOrDefault("PROVIDER", ProviderGemini))
	switch name {
	case ProviderOpenAI, ProviderDeepSeek, ProviderGemini:
	default:
		return ProviderConfig{}, fmt.Errorf("unknown PROVIDER value: %q", name)
	}

	temperature := 0.0
	if override, err := parseOptionalFloatEnv("TEMPERATURE"); err != nil {
		return ProviderConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	return ProviderConfig{
		Name:            name,
		Temperature:     temperature,
		OpenAIAPIKey:    strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:     getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:   getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		DeepSeekAPIKey:  strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY")),
		DeepSeekModel:   getEnvOrDefault("DEEPSEEK_MODEL", "deepseek-chat"),
		DeepSeekBaseURL: getEnvOrDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
		GeminiAPIKey:    strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:     getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
	}, nil
}

// EmbeddingConfig describes the OpenAI-compatible embeddings endpoint used
// at both ingestion and query time. The key falls back to OPENAI_API_KEY so
// single-key deployments keep working.
type EmbeddingConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func loadEmbeddingConfig() EmbeddingConfig {
	key := strings.TrimSpace(os.Getenv("EMBEDDING_API_KEY"))
	if key == "" {
		key = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	return EmbeddingConfig{
		APIKey:  key,
		Model:   getEnvOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
		BaseURL: getEnvOrDefault("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
	}
}

// RedisConfig addresses the durable session backend. An empty Host turns
// the durable backend off entirely and sessions live in process memory.
type RedisConfig struct {
	Host     string
	Port     int
	DB       int
	Password string
	TLS      bool
}

// Configured reports whether a durable backend address was provided.
func (c RedisConfig) Configured() bool { return c.Host != "" }

// Addr returns the host:port dial address.
func (c RedisConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func loadRedisConfig() (RedisConfig, error) {
	port := 6379
	if override, err := parseOptionalIntEnv("REDIS_PORT"); err != nil {
		return RedisConfig{}, err
	} else if override != nil {
		port = *override
	}

	db := 0
	if override, err := parseOptionalIntEnv("REDIS_DB"); err != nil {
		return RedisConfig{}, err
	} else if override != nil {
		db = *override
	}

	tls, err := parseBoolEnv("REDIS_TLS", false)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Host:     strings.TrimSpace(os.Getenv("REDIS_HOST")),
		Port:     port,
		DB:       db,
		Password: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		TLS:      tls,
	}, nil
}

// RAGConfig tunes retrieval and the knowledge-base artifacts.
type RAGConfig struct {
	TopK         int
	IndexFile    string
	DataDir      string
	ChunkSize    int
	ChunkOverlap int
}

func loadRAGConfig() (RAGConfig, error) {
	topK := 3
	if override, err := parseOptionalIntEnv("TOP_K_RESULTS"); err != nil {
		return RAGConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return RAGConfig{}, fmt.Errorf("TOP_K_RESULTS must be positive, got %d", *override)
		}
		topK = *override
	}

	chunkSize := 1000
	if override, err := parseOptionalIntEnv("CHUNK_SIZE"); err != nil {
		return RAGConfig{}, err
	} else if override != nil {
		chunkSize = *override
	}

	chunkOverlap := 100
	if override, err := parseOptionalIntEnv("CHUNK_OVERLAP"); err != nil {
		return RAGConfig{}, err
	} else if override != nil {
		chunkOverlap = *override
	}

	return RAGConfig{
		TopK:         topK,
		IndexFile:    getEnvOrDefault("INDEX_FILE", "kb_index.gob"),
		DataDir:      getEnvOrDefault("DATA_DIR", "knowledge_data"),
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
