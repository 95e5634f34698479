package config

import (
	"fmt"

	"github.com/YuminosukeSato/gradgo/training"
)

type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Logging  LoggingConfig   `yaml:"logging"`
	Training training.Config `yaml:"training"`
	Dataset  DatasetConfig   `yaml:"dataset"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatasetConfig holds defaults for CSV loading.
type DatasetConfig struct {
	XColumn        string `yaml:"x_column"`
	YColumn        string `yaml:"y_column"`
	DropDuplicates bool   `yaml:"drop_duplicates"`
}

// Addr returns the host:port pair the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
