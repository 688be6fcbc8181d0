package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestResolver_Defaults(t *testing.T) {
	resolver := NewResolverWithPaths(ResolverConfig{
		Defaults: Defaults(),
	}, "", "")

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyDataDir); got != ".focusflow" {
		t.Errorf("data_dir = %q, want %q", got, ".focusflow")
	}
	if got := cfg.Source(KeyDataDir); got != SourceDefault {
		t.Errorf("source = %q, want %q", got, SourceDefault)
	}
}

func TestResolver_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("FOCUSFLOW_FINALIZE_TIMEOUT", "5s")

	resolver := NewResolverWithPaths(ResolverConfig{
		EnvPrefix: "FOCUSFLOW_",
		Defaults:  Defaults(),
	}, "", "")

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyFinalizeTimeout); got != "5s" {
		t.Errorf("finalize_timeout = %q, want %q", got, "5s")
	}
	if got := cfg.Source(KeyFinalizeTimeout); got != SourceEnv {
		t.Errorf("source = %q, want %q", got, SourceEnv)
	}
}

func TestResolver_GlobalConfig(t *testing.T) {
	tmpDir := t.TempDir()
	globalPath := filepath.Join(tmpDir, "config.yaml")
	os.WriteFile(globalPath, []byte("model: claude-opus-4\n"), 0644)

	resolver := NewResolverWithPaths(ResolverConfig{
		Defaults: Defaults(),
	}, globalPath, "")

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyModel); got != "claude-opus-4" {
		t.Errorf("model = %q, want %q", got, "claude-opus-4")
	}
	if got := cfg.Source(KeyModel); got != SourceGlobal {
		t.Errorf("source = %q, want %q", got, SourceGlobal)
	}
}

func TestResolver_ProjectOverridesGlobal(t *testing.T) {
	tmpDir := t.TempDir()
	globalPath := filepath.Join(tmpDir, "config.yaml")
	os.WriteFile(globalPath, []byte("data_dir: /global\n"), 0644)
	projectPath := filepath.Join(tmpDir, ".focusflow.yaml")
	os.WriteFile(projectPath, []byte("data_dir: /project\n"), 0644)

	resolver := NewResolverWithPaths(ResolverConfig{
		Defaults: Defaults(),
	}, globalPath, projectPath)

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyDataDir); got != "/project" {
		t.Errorf("data_dir = %q, want %q", got, "/project")
	}
	if got := cfg.Source(KeyDataDir); got != SourceProject {
		t.Errorf("source = %q, want %q", got, SourceProject)
	}
}

func TestResolver_Priority(t *testing.T) {
	tmpDir := t.TempDir()
	globalPath := filepath.Join(tmpDir, "config.yaml")
	os.WriteFile(globalPath, []byte("webhook_url: http://global\n"), 0644)
	projectPath := filepath.Join(tmpDir, ".focusflow.yaml")
	os.WriteFile(projectPath, []byte("webhook_url: http://project\n"), 0644)

	t.Setenv("FOCUSFLOW_WEBHOOK_URL", "http://env")

	resolver := NewResolverWithPaths(ResolverConfig{
		EnvPrefix: "FOCUSFLOW_",
		Defaults:  Defaults(),
	}, globalPath, projectPath)

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyWebhookURL); got != "http://env" {
		t.Errorf("webhook_url = %q, want %q (env has highest priority)", got, "http://env")
	}
}

func TestResolver_ResolveWithFlags(t *testing.T) {
	resolver := NewResolverWithPaths(ResolverConfig{
		Defaults: Defaults(),
	}, "", "")

	cfg := resolver.ResolveWithFlags(map[string]string{
		KeyModel: "claude-opus-4",
	})

	if got := cfg.Get(KeyModel); got != "claude-opus-4" {
		t.Errorf("model = %q, want %q", got, "claude-opus-4")
	}
	if got := cfg.Source(KeyModel); got != SourceFlag {
		t.Errorf("source = %q, want %q", got, SourceFlag)
	}
}

func TestResolver_ValidKeys(t *testing.T) {
	tmpDir := t.TempDir()
	globalPath := filepath.Join(tmpDir, "config.yaml")
	os.WriteFile(globalPath, []byte("model: custom\nbogus_key: value\n"), 0644)

	resolver := NewResolverWithPaths(ResolverConfig{
		Defaults:        Defaults(),
		ValidGlobalKeys: []string{KeyModel},
	}, globalPath, "")

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyModel); got != "custom" {
		t.Errorf("model = %q, want %q", got, "custom")
	}
	if got := cfg.Get("bogus_key"); got != "" {
		t.Errorf("bogus_key = %q, want empty", got)
	}
}

func TestResolver_MalformedFileWarns(t *testing.T) {
	tmpDir := t.TempDir()
	globalPath := filepath.Join(tmpDir, "config.yaml")
	os.WriteFile(globalPath, []byte(":\n  - not valid yaml\n"), 0644)

	resolver := NewResolverWithPaths(ResolverConfig{
		Defaults:  Defaults(),
		ErrWriter: io.Discard,
	}, globalPath, "")

	cfg := resolver.Resolve()

	if len(resolver.Warnings) == 0 {
		t.Error("expected a warning for malformed config")
	}
	// Defaults survive a broken file.
	if got := cfg.Get(KeyDataDir); got != ".focusflow" {
		t.Errorf("data_dir = %q, want default", got)
	}
}

func TestResolver_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	resolver := NewResolverWithPaths(ResolverConfig{
		Defaults: Defaults(),
	}, "", "")

	cfg := resolver.Resolve()

	if got := cfg.Get(KeyNoColor); got != "true" {
		t.Errorf("no_color = %q, want %q", got, "true")
	}
}

func TestFindProjectRoot_ConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b", "c")
	os.MkdirAll(nested, 0755)
	os.WriteFile(filepath.Join(tmpDir, ".focusflow.yaml"), []byte("data_dir: x\n"), 0644)

	root := findProjectRoot(nested, ".focusflow.yaml")
	if root != tmpDir {
		t.Errorf("findProjectRoot() = %q, want %q", root, tmpDir)
	}
}

func TestFindProjectRoot_GitFallback(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "src", "pkg")
	os.MkdirAll(nested, 0755)
	os.MkdirAll(filepath.Join(tmpDir, ".git"), 0755)

	root := findProjectRoot(nested, ".focusflow.yaml")
	if root != tmpDir {
		t.Errorf("findProjectRoot() = %q, want %q", root, tmpDir)
	}
}

func TestFindProjectRoot_ConfigWinsOverGit(t *testing.T) {
	tmpDir := t.TempDir()
	os.MkdirAll(filepath.Join(tmpDir, ".git"), 0755)
	inner := filepath.Join(tmpDir, "inner")
	os.MkdirAll(inner, 0755)
	os.WriteFile(filepath.Join(inner, ".focusflow.yaml"), []byte("data_dir: x\n"), 0644)

	root := findProjectRoot(inner, ".focusflow.yaml")
	if root != inner {
		t.Errorf("findProjectRoot() = %q, want %q (config file wins)", root, inner)
	}
}
