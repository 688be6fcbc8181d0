package config

// Source indicates where a configuration value came from.
type Source string

// Configuration source constants.
const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault Source = "default"

	// SourceGlobal indicates the value came from
	// ~/.config/focusflow/config.yaml.
	SourceGlobal Source = "global"

	// SourceProject indicates the value came from .focusflow.yaml in the
	// project root.
	SourceProject Source = "project"

	// SourceEnv indicates the value came from an environment variable.
	SourceEnv Source = "env"

	// SourceFlag indicates the value was set via command-line flag.
	SourceFlag Source = "flag"
)
