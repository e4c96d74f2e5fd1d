package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ScanConfig is an optional JSON config file for the scan CLI command.
// Flag values override anything loaded from the file.
type ScanConfig struct {
	Keywords    []string `json:"keywords"`
	Locations   []string `json:"locations"`
	Platforms   []string `json:"platforms"`
	MinFitScore int      `json:"min_fit_score"`
	Verbose     bool     `json:"verbose"`
}

// LoadScanConfig reads and validates a scan config file.
func LoadScanConfig(path string) (*ScanConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg ScanConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if cfg.MinFitScore < 0 || cfg.MinFitScore > 100 {
		return nil, fmt.Errorf("config error: 'min_fit_score' must be between 0 and 100, got %d", cfg.MinFitScore)
	}

	return &cfg, nil
}
