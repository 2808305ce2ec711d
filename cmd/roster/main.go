// Package main starts the roster service process lifecycle.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	rostercmd "github.com/louisbranch/muster/internal/cmd/roster"
	"github.com/louisbranch/muster/internal/platform/config"
)

func main() {
	cfg, err := rostercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ROSTER] ")

	if cfg.HealthProbe {
		if err := rostercmd.Probe(context.Background(), cfg); err != nil {
			config.Exitf("roster is not healthy: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rostercmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve roster: %v", err)
	}
}
