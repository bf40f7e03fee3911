package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"KEYBOARD_INSTALL_TEST_PORT" envDefault:"123"`
}

type prefixedTestConfig struct {
	Host string `env:"HOST" envDefault:"localhost"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("KEYBOARD_INSTALL_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithPrefixReadsPrefixedName(t *testing.T) {
	t.Setenv(EnvPrefix+"HOST", "api.example.test")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, EnvPrefix); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Host != "api.example.test" {
		t.Fatalf("Host = %q, want %q", cfg.Host, "api.example.test")
	}
}

func TestParseEnvWithPrefixIgnoresUnprefixedName(t *testing.T) {
	t.Setenv("HOST", "wrong.example.test")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, EnvPrefix); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Host != "localhost" {
		t.Fatalf("Host = %q, want %q", cfg.Host, "localhost")
	}
}
