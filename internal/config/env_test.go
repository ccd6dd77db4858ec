package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("EK_TEST_STR", "value")
	t.Setenv("EK_TEST_INT", "42")
	t.Setenv("EK_TEST_BADINT", "forty")
	t.Setenv("EK_TEST_DUR", "90s")
	t.Setenv("EK_TEST_BADDUR", "soon")

	if got := GetEnv("EK_TEST_STR", "x"); got != "value" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("EK_TEST_UNSET", "x"); got != "x" {
		t.Errorf("GetEnv unset = %q", got)
	}
	if got := GetEnvInt("EK_TEST_INT", 1); got != 42 {
		t.Errorf("GetEnvInt = %d", got)
	}
	if got := GetEnvInt("EK_TEST_BADINT", 1); got != 1 {
		t.Errorf("GetEnvInt malformed = %d", got)
	}
	if got := GetEnvDuration("EK_TEST_DUR", time.Second); got != 90*time.Second {
		t.Errorf("GetEnvDuration = %v", got)
	}
	if got := GetEnvDuration("EK_TEST_BADDUR", time.Second); got != time.Second {
		t.Errorf("GetEnvDuration malformed = %v", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("EK_DOTENV_NEW=from-file\nEK_DOTENV_SET=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EK_DOTENV_SET", "from-env")
	t.Cleanup(func() { os.Unsetenv("EK_DOTENV_NEW") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("EK_DOTENV_NEW"); got != "from-file" {
		t.Errorf("EK_DOTENV_NEW = %q", got)
	}
	if got := os.Getenv("EK_DOTENV_SET"); got != "from-env" {
		t.Errorf("existing variable overridden: %q", got)
	}
}

func TestLoggerLevel(t *testing.T) {
	t.Setenv("EK_LOG_LEVEL", "warn")
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "test")

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("warn line missing: %q", out)
	}
}
