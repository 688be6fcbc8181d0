package config

import (
	"fmt"
	"strconv"
	"time"
)

// Configuration keys.
const (
	KeyModel           = "model"
	KeyFastModel       = "fast_model"
	KeyDataDir         = "data_dir"
	KeyPromptDir       = "prompt_dir"
	KeyMinObservations = "min_observations"
	KeyFinalizeTimeout = "finalize_timeout"
	KeyDefaultBaseline = "default_baseline"
	KeyWebhookURL      = "webhook_url"
	KeyNoColor         = "no_color"
)

// Defaults returns the built-in value for every known key.
func Defaults() map[string]string {
	return map[string]string{
		KeyModel:           "claude-sonnet-4-20250514",
		KeyFastModel:       "claude-3-5-haiku-20241022",
		KeyDataDir:         ".focusflow",
		KeyPromptDir:       ".focusflow/prompts",
		KeyMinObservations: "3",
		KeyFinalizeTimeout: "15s",
		KeyDefaultBaseline: "30",
		KeyWebhookURL:      "",
		KeyNoColor:         "false",
	}
}

// DefaultResolverConfig returns the resolver configuration used by the
// engine: FOCUSFLOW_* env vars, ~/.config/focusflow/config.yaml and a
// .focusflow.yaml project file.
func DefaultResolverConfig() ResolverConfig {
	keys := make([]string, 0, len(Defaults()))
	for k := range Defaults() {
		keys = append(keys, k)
	}
	return ResolverConfig{
		EnvPrefix:         "FOCUSFLOW_",
		GlobalConfigDir:   "focusflow",
		ProjectConfigName: ".focusflow.yaml",
		Defaults:          Defaults(),
		ValidGlobalKeys:   keys,
		ValidProjectKeys:  keys,
	}
}

// Settings is the typed view of a resolved configuration.
type Settings struct {
	Model           string
	FastModel       string
	DataDir         string
	PromptDir       string
	MinObservations int
	FinalizeTimeout time.Duration
	DefaultBaseline float64
	WebhookURL      string
	NoColor         bool
}

// LoadSettings converts resolved key-value pairs into typed Settings.
// A value that fails to parse is an error rather than a silent default;
// a typo in finalize_timeout should not quietly shrink the wait.
func LoadSettings(cfg *Resolved) (Settings, error) {
	s := Settings{
		Model:      cfg.Get(KeyModel),
		FastModel:  cfg.Get(KeyFastModel),
		DataDir:    cfg.Get(KeyDataDir),
		PromptDir:  cfg.Get(KeyPromptDir),
		WebhookURL: cfg.Get(KeyWebhookURL),
		NoColor:    cfg.Get(KeyNoColor) == "true",
	}

	n, err := strconv.Atoi(cfg.Get(KeyMinObservations))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", KeyMinObservations, err)
	}
	if n < 1 {
		return Settings{}, fmt.Errorf("%s must be at least 1, got %d", KeyMinObservations, n)
	}
	s.MinObservations = n

	d, err := time.ParseDuration(cfg.Get(KeyFinalizeTimeout))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", KeyFinalizeTimeout, err)
	}
	if d <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive, got %s", KeyFinalizeTimeout, d)
	}
	s.FinalizeTimeout = d

	b, err := strconv.ParseFloat(cfg.Get(KeyDefaultBaseline), 64)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", KeyDefaultBaseline, err)
	}
	if b <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive, got %v", KeyDefaultBaseline, b)
	}
	s.DefaultBaseline = b

	return s, nil
}

// Load resolves the default layered configuration into typed Settings.
func Load() (Settings, error) {
	resolver := NewResolver(DefaultResolverConfig())
	return LoadSettings(resolver.Resolve())
}
