package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Gemini struct {
		ApiKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`

	Cognito struct {
		AppClientId     string `yaml:"appClientId"`
		AppClientSecret string `yaml:"appClientSecret"`
		UserPoolId      string `yaml:"userPoolId"`
		Region          string `yaml:"region"`
	} `yaml:"cognito"`

	JWT struct {
		Secret string `yaml:"secret"`
		Expiry int    `yaml:"expiry"` // token expiry in minutes
	} `yaml:"jwt"`
}

// LoadConfig reads the configuration file and applies environment overrides
// for the secrets that are usually injected at deploy time.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		cfg.Database.URI = uri
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.ApiKey = key
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.0-flash-001"
	}
	if cfg.Database.URI == "" {
		return nil, fmt.Errorf("database.uri is not set")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is not set")
	}

	return &cfg, nil
}

// UsesCognito reports whether the hosted auth provider is configured; when it
// is not, auth falls back to local accounts.
func (c *Config) UsesCognito() bool {
	return c.Cognito.AppClientId != ""
}
