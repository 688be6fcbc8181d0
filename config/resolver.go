package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ResolverConfig configures the layered resolver. Most callers want
// DefaultResolverConfig and only override for tests.
type ResolverConfig struct {
	// EnvPrefix is prepended to upper-cased key names for environment
	// lookup: key "data_dir" maps to FOCUSFLOW_DATA_DIR.
	EnvPrefix string

	// GlobalConfigDir names the directory under ~/.config/ holding the
	// global config.
	GlobalConfigDir string

	// GlobalConfigFile is the global config filename. Defaults to
	// "config.yaml".
	GlobalConfigFile string

	// ProjectConfigName is the filename searched for in the project root.
	ProjectConfigName string

	// Defaults provides the built-in values for every known key.
	Defaults map[string]string

	// ValidGlobalKeys and ValidProjectKeys restrict which keys each file
	// may set. Nil means all keys are accepted.
	ValidGlobalKeys  []string
	ValidProjectKeys []string

	// ProjectRootFinder overrides project root detection, mainly for
	// tests.
	ProjectRootFinder func(startDir string) (string, error)

	// ErrWriter receives warnings. Defaults to os.Stderr.
	ErrWriter io.Writer
}

func (c ResolverConfig) globalConfigFile() string {
	if c.GlobalConfigFile != "" {
		return c.GlobalConfigFile
	}
	return "config.yaml"
}

// Resolver merges the configuration layers.
type Resolver struct {
	config      ResolverConfig
	globalPath  string
	projectPath string
	projectRoot string

	// Warnings collects non-fatal issues during resolution.
	Warnings []string
}

// NewResolver creates a resolver rooted at the current directory.
func NewResolver(cfg ResolverConfig) *Resolver {
	r := &Resolver{config: cfg}

	if cfg.ErrWriter == nil {
		r.config.ErrWriter = os.Stderr
	}

	if cfg.ProjectRootFinder != nil {
		if root, err := cfg.ProjectRootFinder("."); err == nil && root != "" {
			r.projectRoot = root
		}
	} else {
		r.projectRoot = findProjectRoot(".", cfg.ProjectConfigName)
	}
	if r.projectRoot != "" && cfg.ProjectConfigName != "" {
		r.projectPath = filepath.Join(r.projectRoot, cfg.ProjectConfigName)
	}

	if cfg.GlobalConfigDir != "" {
		if home, err := os.UserHomeDir(); err == nil {
			r.globalPath = filepath.Join(home, ".config", cfg.GlobalConfigDir, cfg.globalConfigFile())
		}
	}

	return r
}

// NewResolverWithPaths creates a resolver with explicit file paths,
// bypassing root detection. Useful for tests.
func NewResolverWithPaths(cfg ResolverConfig, globalPath, projectPath string) *Resolver {
	r := &Resolver{
		config:      cfg,
		globalPath:  globalPath,
		projectPath: projectPath,
	}
	if cfg.ErrWriter == nil {
		r.config.ErrWriter = os.Stderr
	}
	return r
}

func (r *Resolver) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
	if r.config.ErrWriter != nil {
		fmt.Fprintf(r.config.ErrWriter, "Warning: %s\n", msg)
	}
}

// Resolved holds the merged configuration with per-key source tracking.
type Resolved struct {
	values  map[string]string
	sources map[string]Source
}

// Get returns the value for a key, or empty string if unset.
func (c *Resolved) Get(key string) string {
	return c.values[key]
}

// Source returns the source of a key's value.
func (c *Resolved) Source(key string) Source {
	return c.sources[key]
}

// GetWithSource returns both the value and its source.
func (c *Resolved) GetWithSource(key string) (string, Source) {
	return c.values[key], c.sources[key]
}

// All returns a copy of all key-value pairs.
func (c *Resolved) All() map[string]string {
	result := make(map[string]string, len(c.values))
	for k, v := range c.values {
		result[k] = v
	}
	return result
}

// Keys returns all configuration keys.
func (c *Resolved) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}

// Resolve merges all layers.
// Priority, highest to lowest: env > project > global > defaults.
func (r *Resolver) Resolve() *Resolved {
	cfg := &Resolved{
		values:  make(map[string]string),
		sources: make(map[string]Source),
	}

	r.applyDefaults(cfg)
	r.applyFile(cfg, r.globalPath, SourceGlobal, r.config.ValidGlobalKeys)
	r.applyFile(cfg, r.projectPath, SourceProject, r.config.ValidProjectKeys)
	r.applyEnv(cfg)

	return cfg
}

// ResolveWithFlags resolves and applies flag overrides on top.
func (r *Resolver) ResolveWithFlags(flags map[string]string) *Resolved {
	cfg := r.Resolve()
	for key, value := range flags {
		if value != "" {
			cfg.values[key] = value
			cfg.sources[key] = SourceFlag
		}
	}
	return cfg
}

func (r *Resolver) applyDefaults(cfg *Resolved) {
	for key, value := range r.config.Defaults {
		cfg.values[key] = value
		cfg.sources[key] = SourceDefault
	}
}

func (r *Resolver) applyFile(cfg *Resolved, path string, source Source, validKeys []string) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return // missing file is not an error
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		r.warn(fmt.Sprintf("could not parse %s: %v", path, err))
		return
	}

	for key, value := range parsed {
		if len(validKeys) > 0 && !contains(validKeys, key) {
			continue
		}
		if strVal := toString(value); strVal != "" {
			cfg.values[key] = strVal
			cfg.sources[key] = source
		}
	}
}

func (r *Resolver) applyEnv(cfg *Resolved) {
	if r.config.EnvPrefix != "" {
		allKeys := make(map[string]bool)
		for k := range r.config.Defaults {
			allKeys[k] = true
		}
		for k := range cfg.values {
			allKeys[k] = true
		}

		for key := range allKeys {
			envKey := r.config.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
			if value := os.Getenv(envKey); value != "" {
				cfg.values[key] = value
				cfg.sources[key] = SourceEnv
			}
		}
	}

	// Standard NO_COLOR convention, honored regardless of prefix.
	if _, hasNoColor := os.LookupEnv("NO_COLOR"); hasNoColor {
		cfg.values["no_color"] = "true"
		cfg.sources["no_color"] = SourceEnv
	}
}

// ProjectRoot returns the detected project root directory.
func (r *Resolver) ProjectRoot() string {
	return r.projectRoot
}

// GlobalPath returns the path to the global config file.
func (r *Resolver) GlobalPath() string {
	return r.globalPath
}

// ProjectPath returns the path to the project config file.
func (r *Resolver) ProjectPath() string {
	return r.projectPath
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int, int64, float64:
		return fmt.Sprintf("%v", val)
	default:
		return ""
	}
}

// findProjectRoot walks upward looking for the project config file, then
// settles for a .git directory so a repo without one still anchors
// relative paths sensibly.
func findProjectRoot(startDir, configName string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	gitRoot := ""
	for {
		if configName != "" {
			if info, err := os.Stat(filepath.Join(dir, configName)); err == nil && !info.IsDir() {
				return dir
			}
		}
		if gitRoot == "" {
			if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
				gitRoot = dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return gitRoot
}
