package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/louisbranch/keyboardinstall/internal/platform/otel"
)

type testConfig struct {
	Address string `env:"CMD_TEST_ADDRESS" envDefault:"127.0.0.1:8080"`
	Mode    string `env:"CMD_TEST_MODE" envDefault:"server"`
}

func TestParseConfigReadsPrefixedEnvAndFlags(t *testing.T) {
	t.Setenv("KEYBOARD_INSTALL_CMD_TEST_ADDRESS", "env:9000")
	t.Setenv("KEYBOARD_INSTALL_CMD_TEST_MODE", "env-mode")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.Address, "address", cfgRef.Address, "address")
	fs.StringVar(&cfgRef.Mode, "mode", cfgRef.Mode, "mode")

	if err := ParseArgs(fs, []string{"-address", "flag:9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.Address != "flag:9001" {
		t.Fatalf("expected flag value for address, got %q", cfgRef.Address)
	}
	if cfgRef.Mode != "env-mode" {
		t.Fatalf("expected env default mode, got %q", cfgRef.Mode)
	}
}

func TestParseConfigFromArgsAppliesDefaults(t *testing.T) {
	cfgRef := testConfig{}
	fs := flag.NewFlagSet("configargs", flag.ContinueOnError)
	if err := ParseConfigFromArgs(&cfgRef, fs, nil); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfgRef.Address != "127.0.0.1:8080" {
		t.Fatalf("Address = %q, want %q", cfgRef.Address, "127.0.0.1:8080")
	}
	if cfgRef.Mode != "server" {
		t.Fatalf("Mode = %q, want %q", cfgRef.Mode, "server")
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil config target to be rejected")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	ctx := context.Background()
	if err := RunWithTelemetry(ctx, "", RunOptions{}, func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(ctx, ServiceInstall, RunOptions{}, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv(otel.EnvEndpoint, "")

	want := errors.New("serve failed")
	got := RunWithTelemetry(context.Background(), ServiceInstall, RunOptions{}, func(context.Context) error {
		return want
	})
	if !errors.Is(got, want) {
		t.Fatalf("RunWithTelemetry() error = %v, want %v", got, want)
	}
}

func TestRunWithTelemetryLogsLifecycle(t *testing.T) {
	t.Setenv(otel.EnvEndpoint, "")

	core, logs := observer.New(zap.InfoLevel)
	err := RunWithTelemetry(context.Background(), ServiceInstall, RunOptions{Logger: zap.New(core).Sugar()}, func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("RunWithTelemetry() error = %v", err)
	}
	var messages []string
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	if len(messages) != 2 || messages[0] != "service starting" || messages[1] != "service stopped" {
		t.Fatalf("messages = %v, want [service starting service stopped]", messages)
	}
	if got := logs.All()[0].ContextMap()["service"]; got != ServiceInstall {
		t.Fatalf("service field = %v, want %q", got, ServiceInstall)
	}
}
