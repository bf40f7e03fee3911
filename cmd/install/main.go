// Package main starts the keyboard install page service.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	installcmd "github.com/louisbranch/keyboardinstall/internal/cmd/install"
	"github.com/louisbranch/keyboardinstall/internal/platform/config"
)

func main() {
	cfg, err := installcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError("parse flags", err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := installcmd.Run(ctx, cfg); err != nil {
		stop()
		config.Exitf("failed to serve: %v", err)
	}
}
