package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}

	if cfg.Training.LearningRate != 0.01 {
		t.Errorf("expected default learning rate 0.01, got %f", cfg.Training.LearningRate)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoad(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 9090

logging:
  level: "debug"

training:
  learning_rate: 0.05
  max_epochs: 500
  early_stopping: false
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1, got %s", cfg.Server.Host)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.Training.LearningRate != 0.05 {
		t.Errorf("expected learning rate 0.05, got %f", cfg.Training.LearningRate)
	}

	if cfg.Training.MaxEpochs != 500 {
		t.Errorf("expected max epochs 500, got %d", cfg.Training.MaxEpochs)
	}

	if cfg.Training.EarlyStopping {
		t.Error("expected early stopping disabled")
	}

	// Check that defaults are preserved for unspecified values
	if cfg.Training.TrainSplit != 0.8 {
		t.Errorf("expected default train split 0.8, got %f", cfg.Training.TrainSplit)
	}
}

func TestLoadInvalid(t *testing.T) {
	content := `
server:
  port: -1

training:
  learning_rate: -0.5
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected validation error for invalid config")
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	// Empty path returns defaults
	cfg := LoadOrDefault("")
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}

	// Non-existent file returns defaults
	cfg = LoadOrDefault("/nonexistent/path/config.yaml")
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("GRADGO_TEST_PORT", "7070")

	content := `
server:
  port: ${GRADGO_TEST_PORT}
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("expected port 7070, got %d", cfg.Server.Port)
	}
}

func TestValidateLogging(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"verbose", true},
		{"", true},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Logging.Level = tt.level
		err := cfg.Logging.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("level %q: error = %v, wantErr %v", tt.level, err, tt.wantErr)
		}
	}
}
