// Package cmd holds the shared startup plumbing for service commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/muster/internal/platform/config"
	"github.com/louisbranch/muster/internal/platform/otel"
	"github.com/louisbranch/muster/internal/platform/timeouts"
)

// ServiceRoster names the roster service in telemetry and logs.
const ServiceRoster = "roster"

// ParseConfig loads environment defaults into cfg, lets bind register flags
// over them and parses args. Flags win over the environment.
func ParseConfig[T any](cfg *T, fs *flag.FlagSet, args []string, bind func(*flag.FlagSet)) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if err := config.ParseEnv(cfg); err != nil {
		return err
	}
	if bind != nil {
		bind(fs)
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry configures tracing for service and runs it until run
// returns. Tracing is flushed on the way out.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}
