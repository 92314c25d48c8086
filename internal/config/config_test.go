package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider != ProviderDeepSeek {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderDeepSeek)
	}
	if cfg.Model.Name != "deepseek-chat" {
		t.Errorf("Model.Name = %q", cfg.Model.Name)
	}
	if cfg.Model.MaxTokens != 1024 {
		t.Errorf("Model.MaxTokens = %d", cfg.Model.MaxTokens)
	}
	if cfg.Store.Path == "" {
		t.Error("Store.Path is empty")
	}
	if !cfg.Notify.Enabled {
		t.Error("Notify.Enabled = false by default")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
provider: ollama
ollama:
  base_url: http://remote:11434
model:
  name: llama3
log:
  level: debug
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider != ProviderOllama {
		t.Errorf("Provider = %q, want ollama", cfg.Provider)
	}
	if cfg.Ollama.BaseURL != "http://remote:11434" {
		t.Errorf("Ollama.BaseURL = %q", cfg.Ollama.BaseURL)
	}
	if cfg.Model.Name != "llama3" {
		t.Errorf("Model.Name = %q", cfg.Model.Name)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.Model.MaxTokens != 1024 {
		t.Errorf("Model.MaxTokens = %d, want default 1024", cfg.Model.MaxTokens)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ALIGN_PROVIDER", "ollama")
	t.Setenv("ALIGN_DB_PATH", "/tmp/custom.db")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider != ProviderOllama {
		t.Errorf("Provider = %q, want ollama", cfg.Provider)
	}
	if cfg.Store.Path != "/tmp/custom.db" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.DeepSeek.APIKey != "sk-test" {
		t.Errorf("DeepSeek.APIKey = %q", cfg.DeepSeek.APIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "deepseek without api key",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
		{
			name:   "deepseek with api key",
			mutate: func(c *Config) { c.DeepSeek.APIKey = "sk-test" },
		},
		{
			name:   "ollama needs no key",
			mutate: func(c *Config) { c.Provider = ProviderOllama },
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Provider = "gpt" },
			wantErr: true,
		},
		{
			name: "missing model name",
			mutate: func(c *Config) {
				c.DeepSeek.APIKey = "sk-test"
				c.Model.Name = ""
			},
			wantErr: true,
		},
		{
			name: "bad temperature",
			mutate: func(c *Config) {
				c.DeepSeek.APIKey = "sk-test"
				c.Model.Temperature = 3.5
			},
			wantErr: true,
		},
		{
			name: "missing store path",
			mutate: func(c *Config) {
				c.DeepSeek.APIKey = "sk-test"
				c.Store.Path = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			cfg.DeepSeek.APIKey = "" // isolate from ambient DEEPSEEK_API_KEY
			tt.mutate(cfg)

			err = cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
