package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Inference InferenceConfig `yaml:"inference"`
	Storage   StorageConfig   `yaml:"storage"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// InferenceConfig selects and configures the generative-inference provider.
// Provider is "gemini" or "openai"; BaseURL is only honored by the OpenAI
// provider (for OpenAI-compatible endpoints).
type InferenceConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
}

type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// PipelineConfig bounds the external calls made during one run. A hung
// provider call is aborted after StageTimeoutSec so the single-in-flight
// gate cannot wedge.
type PipelineConfig struct {
	StageTimeoutSec int `yaml:"stage_timeout_sec"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8787,
		},
		Inference: InferenceConfig{
			Provider: "gemini",
			Model:    "gemini-3-flash-preview",
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(DataDir(), "signalhunter.db"),
		},
		Pipeline: PipelineConfig{
			StageTimeoutSec: 120,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DataDir returns the directory used for runtime state (database).
func DataDir() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".signalhunter")
}

func ConfigPath() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".signalhunter.yaml")
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields the defaults. Environment variables
// GEMINI_API_KEY, OPENAI_API_KEY and SIGNALHUNTER_DB override empty fields.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.Inference.APIKey == "" {
		switch c.Inference.Provider {
		case "openai":
			c.Inference.APIKey = os.Getenv("OPENAI_API_KEY")
		default:
			c.Inference.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if db := os.Getenv("SIGNALHUNTER_DB"); db != "" {
		c.Storage.DBPath = db
	}
}

func (c *Config) Save() error {
	if err := os.MkdirAll(DataDir(), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}
