package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBoolEnvOrDefault(t *testing.T) {
	t.Setenv("BOOL_TEST", "")
	if got := boolEnvOrDefault("BOOL_TEST", true); !got {
		t.Fatalf("expected default true when unset")
	}

	cases := []struct {
		val      string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"FALSE", false},
		{"0", false},
		{"no", false},
		{"maybe", true}, // falls back to default on unknown
	}

	for _, tc := range cases {
		t.Setenv("BOOL_TEST", tc.val)
		if got := boolEnvOrDefault("BOOL_TEST", true); got != tc.expected {
			t.Fatalf("expected %v for %s, got %v", tc.expected, tc.val, got)
		}
	}
}

func TestIntEnvOrDefault(t *testing.T) {
	t.Setenv("INT_TEST", "2048")
	if got := intEnvOrDefault("INT_TEST", 1024); got != 2048 {
		t.Fatalf("expected 2048, got %d", got)
	}
	for _, raw := range []string{"", "abc", "0", "-5"} {
		t.Setenv("INT_TEST", raw)
		if got := intEnvOrDefault("INT_TEST", 1024); got != 1024 {
			t.Fatalf("expected default for %q, got %d", raw, got)
		}
	}
}

func TestParsePositiveDuration(t *testing.T) {
	if d, err := parsePositiveDuration("250ms"); err != nil || d != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v %v", d, err)
	}
	if _, err := parsePositiveDuration("0s"); err == nil {
		t.Fatalf("expected error for zero duration")
	}
	if _, err := parsePositiveDuration("soon"); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "GATEWAY_ENV_FILE_TEST"
	t.Setenv(key, "")
	_ = os.Unsetenv(key)

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := LoadEnvFile(path, false); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Fatalf("expected value from env file, got %q", got)
	}
}

func TestLoadEnvFileDoesNotOverrideExisting(t *testing.T) {
	const key = "GATEWAY_ENV_FILE_KEEP"
	t.Setenv(key, "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := LoadEnvFile(path, false); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got := os.Getenv(key); got != "from-env" {
		t.Fatalf("expected existing value kept, got %q", got)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.env")
	if err := LoadEnvFile(missing, true); err != nil {
		t.Fatalf("expected optional missing file to be ignored, got %v", err)
	}
	if err := LoadEnvFile(missing, false); err == nil {
		t.Fatalf("expected error for required missing file")
	}
	if err := LoadEnvFile("", false); err != nil {
		t.Fatalf("expected empty path to be a no-op, got %v", err)
	}
}
