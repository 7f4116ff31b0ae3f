package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// Neo4j graph store
	Neo4j Neo4jConfig `yaml:"neo4j"`

	// Completion service
	LLM LLMConfig `yaml:"llm"`

	// Analysis defaults
	Analysis AnalysisConfig `yaml:"analysis"`

	// Job store
	Jobs JobsConfig `yaml:"jobs"`
}

type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// LLMConfig selects the completion-service implementation at construction
// time. Provider is "openai" (direct API), "gateway" (Azure-style
// deployment routing) or "" for no completion service.
type LLMConfig struct {
	Provider        string `yaml:"provider"`
	APIKey          string `yaml:"api_key"`
	Model           string `yaml:"model"`
	GatewayEndpoint string `yaml:"gateway_endpoint"`
	GatewayKey      string `yaml:"gateway_key"`
	Deployment      string `yaml:"deployment"`
	RequestsPerMin  int    `yaml:"requests_per_min"`
}

type AnalysisConfig struct {
	MaxCommits      int    `yaml:"max_commits"`
	CloneDir        string `yaml:"clone_dir"`
	KeepClones      bool   `yaml:"keep_clones"`
	EnrichByDefault bool   `yaml:"enrich_by_default"`
}

type JobsConfig struct {
	StorePath string `yaml:"store_path"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Neo4j: Neo4jConfig{
			URI:      "bolt://localhost:7687",
			Username: "neo4j",
			Password: "password",
			Database: "neo4j",
		},
		LLM: LLMConfig{
			Model:          "gpt-4o-mini",
			Deployment:     "gpt-4o-mini",
			RequestsPerMin: 60,
		},
		Analysis: AnalysisConfig{
			MaxCommits:      100,
			CloneDir:        filepath.Join(homeDir, ".gta", "repos"),
			EnrichByDefault: true,
		},
		Jobs: JobsConfig{
			StorePath: filepath.Join(homeDir, ".gta", "jobs.db"),
		},
	}
}

// Load loads configuration from file, environment and .env files.
// A missing config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("neo4j", cfg.Neo4j)
	v.SetDefault("llm", cfg.LLM)
	v.SetDefault("analysis", cfg.Analysis)
	v.SetDefault("jobs", cfg.Jobs)

	v.SetEnvPrefix("GTA")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".gta")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".gta"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Decode on the yaml tags so snake_case keys map onto struct fields.
	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" }); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".gta", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config.
// Secrets come from the environment, never from config files checked
// into a repository.
func applyEnvOverrides(cfg *Config) {
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		cfg.Neo4j.URI = uri
	}
	if user := os.Getenv("NEO4J_USERNAME"); user != "" {
		cfg.Neo4j.Username = user
	}
	if password := os.Getenv("NEO4J_PASSWORD"); password != "" {
		cfg.Neo4j.Password = password
	}
	if db := os.Getenv("NEO4J_DATABASE"); db != "" {
		cfg.Neo4j.Database = db
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
		if cfg.LLM.Provider == "" {
			cfg.LLM.Provider = ProviderOpenAI
		}
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		cfg.LLM.Model = model
	}
	if endpoint := os.Getenv("LLM_GATEWAY_ENDPOINT"); endpoint != "" {
		cfg.LLM.GatewayEndpoint = endpoint
		cfg.LLM.Provider = ProviderGateway
	}
	if key := os.Getenv("LLM_GATEWAY_KEY"); key != "" {
		cfg.LLM.GatewayKey = key
	}
	if deployment := os.Getenv("LLM_GATEWAY_DEPLOYMENT"); deployment != "" {
		cfg.LLM.Deployment = deployment
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		cfg.LLM.Provider = provider
	}

	if max := os.Getenv("GTA_MAX_COMMITS"); max != "" {
		if n, err := strconv.Atoi(max); err == nil && n > 0 {
			cfg.Analysis.MaxCommits = n
		}
	}
}

// Provider names understood by LLMConfig.Provider.
const (
	ProviderOpenAI  = "openai"
	ProviderGateway = "gateway"
)

// HasCompletionService reports whether a completion service can be built
// from this configuration.
func (c *Config) HasCompletionService() bool {
	switch c.LLM.Provider {
	case ProviderOpenAI:
		return c.LLM.APIKey != ""
	case ProviderGateway:
		return c.LLM.GatewayEndpoint != "" && c.LLM.GatewayKey != ""
	}
	return false
}
