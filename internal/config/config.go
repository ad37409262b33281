// Package config loads the server configuration from YAML, falling back
// to defaults when the file is absent.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Server holds all configuration for the game server.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Dispatch
	Workers       int `yaml:"workers"`
	WorkQueueSize int `yaml:"work_queue_size"`
	SendQueueSize int `yaml:"send_queue_size"`

	// Timeouts (seconds)
	WriteTimeout    int `yaml:"write_timeout"`
	KeepAlivePeriod int `yaml:"keepalive_period"`

	// Flood protection: accepted connections per second, with a burst.
	FloodProtection bool    `yaml:"flood_protection"`
	AcceptRate      float64 `yaml:"accept_rate"`
	AcceptBurst     int     `yaml:"accept_burst"`

	// Housekeeping intervals (seconds)
	SessionSweepInterval int `yaml:"session_sweep_interval"`
	MatchSweepInterval   int `yaml:"match_sweep_interval"`
	MatchRetention       int `yaml:"match_retention"`

	// Observability. Empty address disables the metrics endpoint.
	MetricsAddress string `yaml:"metrics_address"`
	LogLevel       string `yaml:"log_level"`

	Storage StorageConfig `yaml:"storage"`
	Words   WordsConfig   `yaml:"words"`

	// DeterministicWords makes word selection take the first entry of
	// each round's list. Integration-test mode only.
	DeterministicWords bool `yaml:"deterministic_words"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "file" or "postgres".
	Backend string `yaml:"backend"`

	// File backend
	DataDir string `yaml:"data_dir"`

	// Postgres backend
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// WordsConfig points at the per-round word lists.
type WordsConfig struct {
	Round1 string `yaml:"round1"`
	Round2 string `yaml:"round2"`
	Round3 string `yaml:"round3"`

	// Watch reloads a list when its file changes on disk.
	Watch bool `yaml:"watch"`
}

// Paths returns the three list paths in round order.
func (w WordsConfig) Paths() [3]string {
	return [3]string{w.Round1, w.Round2, w.Round3}
}

// Default returns Server config with sensible defaults.
func Default() Server {
	return Server{
		BindAddress:          "0.0.0.0",
		Port:                 5000,
		Workers:              8,
		WorkQueueSize:        1024,
		SendQueueSize:        256,
		WriteTimeout:         10,
		KeepAlivePeriod:      30,
		FloodProtection:      true,
		AcceptRate:           100,
		AcceptBurst:          200,
		SessionSweepInterval: 60,
		MatchSweepInterval:   300,
		MatchRetention:       3600,
		MetricsAddress:       "",
		LogLevel:             "info",
		Storage: StorageConfig{
			Backend: "file",
			DataDir: "data",
			Database: DatabaseConfig{
				Host:    "127.0.0.1",
				Port:    5432,
				User:    "wordduel",
				DBName:  "wordduel",
				SSLMode: "disable",
			},
		},
		Words: WordsConfig{
			Round1: "data/words/round1.txt",
			Round2: "data/words/round2.txt",
			Round3: "data/words/round3.txt",
			Watch:  false,
		},
	}
}

// Load loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Server, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// WriteTimeoutDuration returns the write timeout as a duration.
func (s Server) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// KeepAliveDuration returns the keepalive period as a duration.
func (s Server) KeepAliveDuration() time.Duration {
	return time.Duration(s.KeepAlivePeriod) * time.Second
}
