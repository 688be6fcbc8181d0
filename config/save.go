package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SaveConfig writes configuration values back to disk.
type SaveConfig struct {
	// GlobalConfigDir is the directory under ~/.config/ for global config.
	GlobalConfigDir string

	// GlobalConfigFile is the filename. Defaults to "config.yaml".
	GlobalConfigFile string

	// ProjectConfigName is the filename for project config.
	ProjectConfigName string

	// ValidGlobalKeys and ValidProjectKeys restrict writable keys.
	ValidGlobalKeys  []string
	ValidProjectKeys []string
}

// DefaultSaveConfig matches DefaultResolverConfig.
func DefaultSaveConfig() SaveConfig {
	rc := DefaultResolverConfig()
	return SaveConfig{
		GlobalConfigDir:   rc.GlobalConfigDir,
		ProjectConfigName: rc.ProjectConfigName,
		ValidGlobalKeys:   rc.ValidGlobalKeys,
		ValidProjectKeys:  rc.ValidProjectKeys,
	}
}

func (c SaveConfig) globalConfigFile() string {
	if c.GlobalConfigFile != "" {
		return c.GlobalConfigFile
	}
	return "config.yaml"
}

// SaveGlobal saves a key-value pair to the global config file.
func (c SaveConfig) SaveGlobal(key, value string) error {
	if c.GlobalConfigDir == "" {
		return fmt.Errorf("global config directory not configured")
	}
	if len(c.ValidGlobalKeys) > 0 && !contains(c.ValidGlobalKeys, key) {
		return fmt.Errorf("unknown global config key: %s\n\nValid keys: %s",
			key, strings.Join(c.ValidGlobalKeys, ", "))
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	configPath := filepath.Join(home, ".config", c.GlobalConfigDir, c.globalConfigFile())

	existing := readExisting(configPath)
	existing[key] = parseValue(value)

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(existing)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o600)
}

// SaveProject saves a key-value pair to the project config file.
func (c SaveConfig) SaveProject(projectRoot, key, value string) error {
	if projectRoot == "" {
		return fmt.Errorf("project root not found")
	}
	if c.ProjectConfigName == "" {
		return fmt.Errorf("project config name not configured")
	}
	if len(c.ValidProjectKeys) > 0 && !contains(c.ValidProjectKeys, key) {
		return fmt.Errorf("unknown project config key: %s\n\nValid keys: %s",
			key, strings.Join(c.ValidProjectKeys, ", "))
	}

	configPath := filepath.Join(projectRoot, c.ProjectConfigName)
	existing := readExisting(configPath)
	existing[key] = parseValue(value)

	data, err := yaml.Marshal(existing)
	if err != nil {
		return err
	}
	// Project config is shared and should be readable.
	return os.WriteFile(configPath, data, 0o644) //nolint:gosec
}

// DeleteGlobalKey removes a key from the global config.
func (c SaveConfig) DeleteGlobalKey(key string) error {
	if c.GlobalConfigDir == "" {
		return fmt.Errorf("global config directory not configured")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	configPath := filepath.Join(home, ".config", c.GlobalConfigDir, c.globalConfigFile())

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil // nothing to delete
	}
	var existing map[string]any
	if err := yaml.Unmarshal(data, &existing); err != nil {
		return nil
	}
	delete(existing, key)

	data, err = yaml.Marshal(existing)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o600)
}

func readExisting(path string) map[string]any {
	var existing map[string]any
	if data, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(data, &existing)
	}
	if existing == nil {
		existing = make(map[string]any)
	}
	return existing
}

// parseValue converts string values to appropriate types for YAML.
func parseValue(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}
