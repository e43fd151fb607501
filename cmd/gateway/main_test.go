package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// Smoke test to ensure main honors SKIP_SERVER_RUN and does not block test runs.
func TestMainSkipsWhenEnvSet(t *testing.T) {
	t.Setenv("SKIP_SERVER_RUN", "1")
	main()
}

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := parseFlags(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if opts.envFile != defaultEnvFile || opts.envFileSet {
		t.Fatalf("expected default env file, got %+v", opts)
	}
}

func TestParseFlagsValues(t *testing.T) {
	opts, err := parseFlags([]string{"--env-file", "prod.env", "--config=gateway.yaml", "--overrides", "names.yaml"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if opts.envFile != "prod.env" || !opts.envFileSet || opts.configFile != "gateway.yaml" || opts.overridesFile != "names.yaml" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	if _, err := parseFlags([]string{"--bogus"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected unknown flag error")
	}
	if _, err := parseFlags([]string{"extra"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected positional argument error")
	}
	if _, err := parseFlags([]string{"--help"}, &bytes.Buffer{}); !errors.Is(err, pflag.ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
}

func TestRunReturnsNilOnHelp(t *testing.T) {
	if err := run([]string{"--help"}); err != nil {
		t.Fatalf("expected help to exit cleanly, got %v", err)
	}
}

func TestLoadConfigLayersSources(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("VMIX_INPUT=5\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	gatewayPath := filepath.Join(dir, "gateway.yaml")
	if err := os.WriteFile(gatewayPath, []byte("vmix:\n  host: mixer.local\n"), 0o600); err != nil {
		t.Fatalf("write gateway: %v", err)
	}
	os.Unsetenv("VMIX_INPUT")
	t.Cleanup(func() { os.Unsetenv("VMIX_INPUT") })

	cfg, err := loadConfig(options{envFile: envPath, envFileSet: true, configFile: gatewayPath, overridesFile: "names.yaml"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if cfg.VMix.Input != "5" {
		t.Fatalf("expected input from env file, got %q", cfg.VMix.Input)
	}
	if cfg.VMix.Host != "mixer.local" || cfg.GatewayFile != gatewayPath {
		t.Fatalf("expected gateway file applied, got host %q file %q", cfg.VMix.Host, cfg.GatewayFile)
	}
	if cfg.OverridesFile != "names.yaml" {
		t.Fatalf("expected overrides flag, got %q", cfg.OverridesFile)
	}
}

func TestLoadConfigRequiresExplicitEnvFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")
	if _, err := loadConfig(options{envFile: missing, envFileSet: true}); err == nil {
		t.Fatalf("expected error for missing explicit env file")
	}
	if _, err := loadConfig(options{envFile: missing}); err != nil {
		t.Fatalf("expected missing default env file to be ignored, got %v", err)
	}
}

func TestLoadConfigRejectsBadGatewayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, []byte("vmix:\n  fields:\n    bogus: X.Text\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadConfig(options{configFile: path}); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
