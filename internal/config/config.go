package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

type ProviderConfig struct {
	BaseURL     string  `yaml:"baseURL"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"maxTokens"`
	Temperature float32 `yaml:"temperature"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	CORS struct {
		Origins []string `yaml:"origins"`
	} `yaml:"cors"`

	Auth struct {
		// APIKeys maps a client name to its key. Empty map disables auth.
		APIKeys map[string]string `yaml:"apiKeys"`
	} `yaml:"auth"`

	AI struct {
		// Analysis runs on Perplexity, chat on Groq, responses on Deepseek,
		// mirroring the upstream vendor split. Any OpenAI-compatible endpoint works.
		Perplexity     ProviderConfig `yaml:"perplexity"`
		Groq           ProviderConfig `yaml:"groq"`
		Deepseek       ProviderConfig `yaml:"deepseek"`
		TimeoutSeconds int            `yaml:"timeoutSeconds"`
	} `yaml:"ai"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Qdrant struct {
		Host       string `yaml:"host"`
		Port       int    `yaml:"port"`
		Collection string `yaml:"collection"`
		VectorSize uint64 `yaml:"vectorSize"`
	} `yaml:"qdrant"`

	Ollama struct {
		Host       string `yaml:"host"`
		EmbedModel string `yaml:"embedModel"`
	} `yaml:"ollama"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`

	Secrets Secrets `yaml:"-"`
}

// Secrets are never read from the yaml file, only from the environment.
type Secrets struct {
	PerplexityAPIKey string `env:"PERPLEXITY_API_KEY"`
	GroqAPIKey       string `env:"GROQ_API_KEY"`
	DeepseekAPIKey   string `env:"DEEPSEEK_API_KEY"`
	DBPassword       string `env:"DB_PASSWORD"`
	MinioAccessKey   string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey   string `env:"MINIO_SECRET_KEY"`
}

// Load reads the yaml config file, then overlays secrets from the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := env.Parse(&cfg.Secrets); err != nil {
		return nil, fmt.Errorf("parse env secrets: %w", err)
	}
	cfg.applyDefaults()
	cfg.applySecrets()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.CORS.Origins) == 0 {
		c.CORS.Origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.AI.TimeoutSeconds == 0 {
		c.AI.TimeoutSeconds = 30
	}
	if c.AI.Perplexity.BaseURL == "" {
		c.AI.Perplexity.BaseURL = "https://api.perplexity.ai"
	}
	if c.AI.Perplexity.Model == "" {
		c.AI.Perplexity.Model = "sonar"
	}
	if c.AI.Groq.BaseURL == "" {
		c.AI.Groq.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.AI.Groq.Model == "" {
		c.AI.Groq.Model = "meta-llama/llama-4-maverick-17b-128e-instruct"
	}
	if c.AI.Deepseek.BaseURL == "" {
		c.AI.Deepseek.BaseURL = "https://api.deepseek.com/v1"
	}
	if c.AI.Deepseek.Model == "" {
		c.AI.Deepseek.Model = "deepseek-chat"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Qdrant.Host == "" {
		c.Qdrant.Host = "localhost"
	}
	if c.Qdrant.Port == 0 {
		c.Qdrant.Port = 6334
	}
	if c.Qdrant.Collection == "" {
		c.Qdrant.Collection = "docs"
	}
	if c.Qdrant.VectorSize == 0 {
		c.Qdrant.VectorSize = 4096
	}
	if c.Ollama.Host == "" {
		c.Ollama.Host = "http://localhost:11434"
	}
	if c.Ollama.EmbedModel == "" {
		c.Ollama.EmbedModel = "llama3"
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 30
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 5
	}
}

func (c *Config) applySecrets() {
	if c.Secrets.DBPassword != "" {
		c.Database.Password = c.Secrets.DBPassword
	}
	if c.Secrets.MinioAccessKey != "" {
		c.Minio.AccessKey = c.Secrets.MinioAccessKey
	}
	if c.Secrets.MinioSecretKey != "" {
		c.Minio.SecretKey = c.Secrets.MinioSecretKey
	}
}

// MySQLDSN builds the DSN for the mysql driver.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds the DSN for the pq driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}
