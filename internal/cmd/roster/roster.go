// Package roster parses roster service flags and launches the service.
package roster

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/muster/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/muster/internal/platform/grpc"
	"github.com/louisbranch/muster/internal/platform/timeouts"
	rosterapp "github.com/louisbranch/muster/internal/services/roster/app"
	"github.com/louisbranch/muster/internal/services/roster/authz"
)

// Config holds roster command configuration.
type Config struct {
	DBPath              string        `env:"MUSTER_ROSTER_DB_PATH"               envDefault:"data/roster.db"`
	MaxCrews            int           `env:"MUSTER_ROSTER_MAX_CREWS"             envDefault:"6"`
	AdminCapabilities   []string      `env:"MUSTER_ROSTER_ADMIN_CAPABILITIES"    envDefault:"Admin,Moderator" envSeparator:","`
	ExternalCallTimeout time.Duration `env:"MUSTER_ROSTER_EXTERNAL_CALL_TIMEOUT" envDefault:"5s"`
	Transport           string        `env:"MUSTER_ROSTER_MCP_TRANSPORT"         envDefault:"stdio"`
	MCPAddr             string        `env:"MUSTER_ROSTER_MCP_ADDR"              envDefault:"localhost:8091"`
	HealthPort          int           `env:"MUSTER_ROSTER_HEALTH_PORT"           envDefault:"8092"`

	// HealthProbe checks a running instance instead of starting one.
	HealthProbe bool `env:"-"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	var admin string
	err := entrypoint.ParseConfig(&cfg, fs, args, func(fs *flag.FlagSet) {
		admin = strings.Join(cfg.AdminCapabilities, ",")
		fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
		fs.IntVar(&cfg.MaxCrews, "max-crews", cfg.MaxCrews, "Crew slots per faction")
		fs.StringVar(&admin, "admin-capabilities", admin, "Comma-separated administrative capability names")
		fs.DurationVar(&cfg.ExternalCallTimeout, "call-timeout", cfg.ExternalCallTimeout, "Timeout for each external call")
		fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "MCP transport: stdio or http")
		fs.StringVar(&cfg.MCPAddr, "mcp-addr", cfg.MCPAddr, "MCP HTTP address (for HTTP transport)")
		fs.IntVar(&cfg.HealthPort, "health-port", cfg.HealthPort, "gRPC health port")
		fs.BoolVar(&cfg.HealthProbe, "health-probe", false, "Check the health of a running instance and exit")
	})
	if err != nil {
		return Config{}, err
	}

	cfg.AdminCapabilities = splitList(admin)
	if cfg.MaxCrews <= 0 {
		return Config{}, fmt.Errorf("max crews must be positive, got %d", cfg.MaxCrews)
	}
	return cfg, nil
}

// Run starts the roster service.
func Run(ctx context.Context, cfg Config) error {
	grants, err := authz.LoadConfigFromEnv(nil)
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRoster, func(ctx context.Context) error {
		return rosterapp.Run(ctx, rosterapp.Config{
			DBPath:              cfg.DBPath,
			MaxCrews:            cfg.MaxCrews,
			AdminCapabilities:   cfg.AdminCapabilities,
			ExternalCallTimeout: cfg.ExternalCallTimeout,
			Transport:           cfg.Transport,
			MCPAddr:             cfg.MCPAddr,
			HealthAddr:          fmt.Sprintf(":%d", cfg.HealthPort),
			Grants:              grants,
		})
	})
}

// Probe checks that a local roster instance reports SERVING.
func Probe(ctx context.Context, cfg Config) error {
	addr := fmt.Sprintf("localhost:%d", cfg.HealthPort)
	return platformgrpc.Probe(ctx, addr, rosterapp.HealthService, timeouts.HealthProbe, nil)
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
