// Package config loads the layered configuration for a coderagent run:
// a global file, a project file, then environment variables, each
// overriding the last — the same three-source priority order the
// teacher's config loader uses, adapted to this module's provider,
// iteration-limit, and default-command settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/coderforge/coderagent/internal/coder"
	"github.com/coderforge/coderagent/internal/executor"
)

// Provider names the LLM backend a ProviderConfig talks to.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// ProviderConfig holds one provider's credentials and model choice.
type ProviderConfig struct {
	APIKey    string `json:"api_key,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty"`
	Model     string `json:"model,omitempty"`
}

// Config is the fully-resolved configuration for one coderagent run.
type Config struct {
	Provider Provider                    `json:"provider"`
	Models   map[Provider]ProviderConfig `json:"models"`

	MaxIterations        int `json:"max_iterations"`
	MaxPlannerIterations int `json:"max_planner_iterations"`
	MaxWorkerIterations  int `json:"max_worker_iterations"`

	// AllowedCommands seeds the session's default allow-list; the spec
	// asks for "a minimal safe set" — ls, cat, echo, pwd.
	AllowedCommands []string `json:"allowed_commands"`
}

// providerEnvVar mirrors the teacher's providerEnvMap: the environment
// variable each provider's API key falls back to when a config file
// doesn't set one directly.
var providerEnvVar = map[Provider]string{
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models:   map[Provider]ProviderConfig{},

		MaxIterations:        executor.DefaultMaxIterations,
		MaxPlannerIterations: coder.DefaultMaxPlannerIterations,
		MaxWorkerIterations:  coder.DefaultMaxWorkerIterations,

		AllowedCommands: []string{"ls", "cat", "echo", "pwd"},
	}
}

// Load resolves configuration from, in increasing priority:
//  1. the global config file (~/.config/coderagent/coderagent.json[c])
//  2. the project config file (<directory>/.coderagent/coderagent.json[c])
//  3. environment variables
func Load(directory string) (*Config, error) {
	cfg := Default()

	paths := GetPaths()
	if err := mergeFile(cfg, filepath.Join(paths.Config, "coderagent.json")); err != nil {
		return nil, err
	}
	if err := mergeFile(cfg, filepath.Join(paths.Config, "coderagent.jsonc")); err != nil {
		return nil, err
	}

	if directory != "" {
		if err := mergeFile(cfg, filepath.Join(directory, ".coderagent", "coderagent.json")); err != nil {
			return nil, err
		}
		if err := mergeFile(cfg, filepath.Join(directory, ".coderagent", "coderagent.jsonc")); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	resolveAPIKeys(cfg)

	return cfg, nil
}

// mergeFile loads path, if present, and merges it into cfg. A missing
// file is not an error — only a malformed one is.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var file Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	mergeInto(cfg, &file)
	return nil
}

// mergeInto overlays non-zero fields of src onto dst.
func mergeInto(dst, src *Config) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.MaxIterations > 0 {
		dst.MaxIterations = src.MaxIterations
	}
	if src.MaxPlannerIterations > 0 {
		dst.MaxPlannerIterations = src.MaxPlannerIterations
	}
	if src.MaxWorkerIterations > 0 {
		dst.MaxWorkerIterations = src.MaxWorkerIterations
	}
	if src.AllowedCommands != nil {
		dst.AllowedCommands = src.AllowedCommands
	}
	if src.Models != nil {
		if dst.Models == nil {
			dst.Models = map[Provider]ProviderConfig{}
		}
		for provider, pc := range src.Models {
			dst.Models[provider] = pc
		}
	}
}

// applyEnvOverrides applies process-environment overrides: currently
// only CODERAGENT_PROVIDER, which replaces the selected provider. API
// keys are filled in from the environment by resolveAPIKeys.
func applyEnvOverrides(cfg *Config) {
	if provider := os.Getenv("CODERAGENT_PROVIDER"); provider != "" {
		cfg.Provider = Provider(provider)
	}
}

// resolveAPIKeys fills in each configured provider's APIKey from its
// APIKeyEnv field (if set) or its default environment variable,
// without overwriting a key already present from a config file.
func resolveAPIKeys(cfg *Config) {
	if cfg.Models == nil {
		cfg.Models = map[Provider]ProviderConfig{}
	}
	for _, provider := range []Provider{ProviderAnthropic, ProviderOpenAI} {
		pc := cfg.Models[provider]
		if pc.APIKey != "" {
			continue
		}
		envVar := pc.APIKeyEnv
		if envVar == "" {
			envVar = providerEnvVar[provider]
		}
		if key := os.Getenv(envVar); key != "" {
			pc.APIKey = key
		}
		cfg.Models[provider] = pc
	}
}

// ActiveProvider returns the resolved ProviderConfig for cfg.Provider.
func (c *Config) ActiveProvider() ProviderConfig {
	return c.Models[c.Provider]
}
