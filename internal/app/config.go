package app

import (
	"errors"

	"github.com/tequmsa/ankhaten/internal/journal"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string // yaml/json/hcl manifest file or directory

	Improve bool // run self-improvement cycles instead of a snapshot
	Cycles  int  // maximum cycles for an improvement run

	ServePort int // REST API port, 0 disables serve mode

	LogFormat string
	LogLevel  string
	LogPath   string // journal path for the audit trail
	Workers   int    // act-phase concurrency
}

// NewConfig validates raw configuration and fills defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	if cfg.Cycles <= 0 {
		cfg.Cycles = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 3
	}
	if cfg.LogPath == "" {
		cfg.LogPath = journal.DefaultPath
	}
	return &cfg, nil
}
