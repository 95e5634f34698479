package config

import "github.com/YuminosukeSato/gradgo/training"

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Training: training.DefaultConfig(),
		Dataset: DatasetConfig{
			DropDuplicates: false,
		},
	}
}
