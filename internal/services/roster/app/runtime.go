// Package app wires the roster runtime: SQLite storage, the engine, the MCP
// surface and the gRPC health endpoint.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	platformgrpc "github.com/louisbranch/muster/internal/platform/grpc"
	"github.com/louisbranch/muster/internal/services/roster/api/mcptools"
	"github.com/louisbranch/muster/internal/services/roster/authz"
	"github.com/louisbranch/muster/internal/services/roster/engine"
	rostersqlite "github.com/louisbranch/muster/internal/services/roster/storage/sqlite"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

// HealthService is the gRPC health service name of the roster runtime.
const HealthService = "muster.roster"

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config configures the roster runtime.
type Config struct {
	DBPath              string
	MaxCrews            int
	AdminCapabilities   []string
	ExternalCallTimeout time.Duration
	Transport           string
	MCPAddr             string
	HealthAddr          string
	Grants              authz.Config
	Logf                func(string, ...any)
}

// Runtime owns every long-lived roster component.
type Runtime struct {
	cfg            Config
	store          *rostersqlite.Store
	engine         *engine.Engine
	mcp            *mcptools.Server
	health         *platformgrpc.HealthServer
	healthListener net.Listener
	logf           func(string, ...any)
}

// New opens storage, restores open rosters and prepares the servers. The
// health endpoint reports NOT_SERVING until Serve starts.
func New(ctx context.Context, cfg Config) (*Runtime, error) {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	if cfg.Transport != TransportStdio && cfg.Transport != TransportHTTP {
		return nil, fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
	logf := cfg.Logf
	if logf == nil {
		logf = log.Printf
	}

	store, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	roster, err := engine.New(engine.Config{
		MaxCrews:          cfg.MaxCrews,
		AdminCapabilities: cfg.AdminCapabilities,
		CallTimeout:       cfg.ExternalCallTimeout,
	}, engine.Deps{
		Persistence: store,
		RoleSync:    store,
		Workspace:   store,
		Profiles:    store,
		Archive:     store,
		Logf:        logf,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build roster engine: %w", err)
	}
	restored, err := roster.Restore(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("restore rosters: %w", err)
	}
	if restored > 0 {
		logf("restored %d open rosters", restored)
	}

	mcpServer, err := mcptools.NewServer(mcptools.Deps{
		Roster:   roster,
		Profiles: store,
		Grants:   cfg.Grants,
		Logf:     logf,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build MCP server: %w", err)
	}

	listener, err := net.Listen("tcp", cfg.HealthAddr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.HealthAddr, err)
	}

	return &Runtime{
		cfg:            cfg,
		store:          store,
		engine:         roster,
		mcp:            mcpServer,
		health:         platformgrpc.NewHealthServer(HealthService),
		healthListener: listener,
		logf:           logf,
	}, nil
}

// HealthAddr returns the address the health endpoint listens on.
func (r *Runtime) HealthAddr() string {
	if r == nil || r.healthListener == nil {
		return ""
	}
	return r.healthListener.Addr().String()
}

// Run builds a runtime and serves it until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	rt, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return rt.Serve(ctx)
}

// Serve runs the MCP transport and the health endpoint until ctx is canceled
// or the MCP transport ends. Resources are released on return.
func (r *Runtime) Serve(ctx context.Context) error {
	if r == nil {
		return errors.New("runtime is nil")
	}
	defer r.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		r.logf("roster health listening at %v", r.healthListener.Addr())
		if err := r.health.Server.Serve(r.healthListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve health: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		r.health.Shutdown()
		return nil
	})
	group.Go(func() error {
		defer cancel()
		r.health.SetServing(HealthService)
		switch r.cfg.Transport {
		case TransportHTTP:
			return r.mcp.ListenAndServe(groupCtx, r.cfg.MCPAddr)
		default:
			return r.mcp.ServeStdio(groupCtx)
		}
	})
	return group.Wait()
}

// Close releases the runtime resources.
func (r *Runtime) Close() {
	if r == nil {
		return
	}
	if r.health != nil {
		r.health.Server.Stop()
	}
	if r.healthListener != nil {
		_ = r.healthListener.Close()
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.logf("close roster store: %v", err)
		}
	}
}

func openStore(ctx context.Context, path string) (*rostersqlite.Store, error) {
	if strings.TrimSpace(path) == "" {
		path = filepath.Join("data", "roster.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := rostersqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open roster sqlite store: %w", err)
	}
	return store, nil
}
