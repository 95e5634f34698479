package training

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LearningRate != 0.01 {
		t.Errorf("LearningRate = %v, want 0.01", cfg.LearningRate)
	}
	if cfg.MaxEpochs != 1000 {
		t.Errorf("MaxEpochs = %v, want 1000", cfg.MaxEpochs)
	}
	if cfg.Tolerance != 1e-6 {
		t.Errorf("Tolerance = %v, want 1e-6", cfg.Tolerance)
	}
	if !cfg.EarlyStopping {
		t.Error("EarlyStopping = false, want true")
	}
	if cfg.TrainSplit != 0.8 {
		t.Errorf("TrainSplit = %v, want 0.8", cfg.TrainSplit)
	}
	if cfg.Patience != DefaultPatience {
		t.Errorf("Patience = %v, want %v", cfg.Patience, DefaultPatience)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero learning rate",
			modify:  func(c *Config) { c.LearningRate = 0 },
			wantErr: true,
		},
		{
			name:    "negative learning rate",
			modify:  func(c *Config) { c.LearningRate = -0.1 },
			wantErr: true,
		},
		{
			name:    "zero max epochs",
			modify:  func(c *Config) { c.MaxEpochs = 0 },
			wantErr: true,
		},
		{
			name:    "negative tolerance",
			modify:  func(c *Config) { c.Tolerance = -1e-6 },
			wantErr: true,
		},
		{
			name:    "train split at zero",
			modify:  func(c *Config) { c.TrainSplit = 0 },
			wantErr: true,
		},
		{
			name:    "train split at one",
			modify:  func(c *Config) { c.TrainSplit = 1.0 },
			wantErr: true,
		},
		{
			name:    "negative patience",
			modify:  func(c *Config) { c.Patience = -1 },
			wantErr: true,
		},
		{
			name:    "zero patience falls back to default",
			modify:  func(c *Config) { c.Patience = 0 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigPatienceFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Patience = 0
	if got := cfg.patience(); got != DefaultPatience {
		t.Errorf("patience() = %v, want %v", got, DefaultPatience)
	}

	cfg.Patience = 3
	if got := cfg.patience(); got != 3 {
		t.Errorf("patience() = %v, want 3", got)
	}
}
