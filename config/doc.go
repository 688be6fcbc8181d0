// Package config resolves focusflow settings from layered sources.
//
// Precedence, highest to lowest:
//  1. Command-line flags (via ResolveWithFlags)
//  2. Environment variables (FOCUSFLOW_*)
//  3. Project config (.focusflow.yaml in the project root)
//  4. Global config (~/.config/focusflow/config.yaml)
//  5. Built-in defaults
//
// The project root is found by walking upward from the working directory
// until a .focusflow.yaml or a .git directory appears.
//
// Resolve produces string key-value pairs with per-key source tracking;
// LoadSettings converts them into the typed Settings the engine consumes.
package config
