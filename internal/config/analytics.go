package config

import (
	"fmt"
	"os"
	"path/filepath"

	"commerce-context-go/internal/models"

	"gopkg.in/yaml.v2"
)

// LoadAnalyticsConfig reads analytics tunables from a YAML file. Values not
// present in the file fall back to the built-in defaults.
func LoadAnalyticsConfig(file string) (*models.AnalyticsConfig, error) {
	var path string
	if filepath.IsAbs(file) {
		path = file
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, file)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", file, err)
	}

	cfg := models.AnalyticsConfig{
		RecurringIssueThreshold: 0.3,
		TopCustomersLimit:       10,
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", file, err)
	}

	return &cfg, nil
}
