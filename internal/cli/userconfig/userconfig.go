package userconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "msctl"
	configFileName = "config.yaml"
)

// UserConfig represents the user's local configuration stored in ~/.config/msctl/config.yaml
type UserConfig struct {
	SelectedAPIURL string   `yaml:"selected_api_url,omitempty"`
	KnownAPIURLs   []string `yaml:"known_api_urls,omitempty"`
}

// GetConfigPath returns the path to the user config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", configDirName)
	return filepath.Join(configDir, configFileName), nil
}

// Load reads the user configuration file
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	// If config doesn't exist, return empty config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the user configuration to a file
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// SetSelectedAPIURL updates the selected API URL, remembers it, and saves the config
func SetSelectedAPIURL(apiURL string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	cfg.SelectedAPIURL = apiURL
	if apiURL != "" && !contains(cfg.KnownAPIURLs, apiURL) {
		cfg.KnownAPIURLs = append(cfg.KnownAPIURLs, apiURL)
	}
	return Save(cfg)
}

// GetSelectedAPIURL returns the selected API URL, or empty string if not set
func GetSelectedAPIURL() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}

	return cfg.SelectedAPIURL, nil
}

// GetKnownAPIURLs returns every API URL that was ever selected
func GetKnownAPIURLs() ([]string, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	return cfg.KnownAPIURLs, nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
