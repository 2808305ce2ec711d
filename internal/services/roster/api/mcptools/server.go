package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/louisbranch/muster/internal/platform/id"
	"github.com/louisbranch/muster/internal/platform/timeouts"
	"github.com/louisbranch/muster/internal/services/roster/authz"
	"github.com/louisbranch/muster/internal/services/roster/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "muster-roster"
	serverVersion = "0.1.0"
)

// Deps are the collaborators of the MCP server.
type Deps struct {
	Roster   Roster
	Profiles ProfileSaver
	// Grants configures caller grant verification; a zero value trusts the
	// identity fields of each request.
	Grants authz.Config
	Logf   func(string, ...any)
}

// Server serves roster tools over an MCP transport.
type Server struct {
	mcpServer *mcp.Server
	logf      func(string, ...any)
}

// NewServer registers every roster tool and resource.
func NewServer(deps Deps) (*Server, error) {
	if deps.Roster == nil {
		return nil, errors.New("roster is required")
	}
	if deps.Profiles == nil {
		return nil, errors.New("profile saver is required")
	}
	logf := deps.Logf
	if logf == nil {
		logf = log.Printf
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})
	server := &Server{mcpServer: mcpServer, logf: logf}
	h := &handlers{
		roster:   deps.Roster,
		profiles: deps.Profiles,
		grants:   deps.Grants,
		render:   server,
		logf:     logf,
		newID:    id.NewID,
	}

	mcp.AddTool(mcpServer, EventCreateTool(), h.eventCreate())
	mcp.AddTool(mcpServer, CommanderClaimTool(), h.commanderClaim())
	mcp.AddTool(mcpServer, CrewCreateTool(), h.crewCreate())
	mcp.AddTool(mcpServer, RecruitsJoinTool(), h.recruitsJoin())
	mcp.AddTool(mcpServer, CrewPositionEditTool(), h.crewPositionEdit())
	mcp.AddTool(mcpServer, CrewRecruitTool(), h.crewRecruit())
	mcp.AddTool(mcpServer, CrewRenameTool(), h.crewRename())
	mcp.AddTool(mcpServer, CrewJoinProfileTool(), h.crewJoinProfile())
	mcp.AddTool(mcpServer, LeaveTool(), h.leave())
	mcp.AddTool(mcpServer, EventEndTool(), h.eventEnd())
	mcp.AddTool(mcpServer, CrewProfileSaveTool(), h.crewProfileSave())

	mcpServer.AddResource(EventListResource(), h.eventListResource())
	mcpServer.AddResourceTemplate(RosterResourceTemplate(), h.rosterResource())
	return server, nil
}

// Render notifies subscribers that the roster of view changed.
func (s *Server) Render(view domain.View) {
	uri := rosterURI(view.EventID)
	if err := s.mcpServer.ResourceUpdated(context.Background(), &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
		s.logf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
	}
}

// Serve runs the server on transport until ctx is canceled.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// ServeStdio runs the server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Serve(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler mounted at /mcp.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil))
	return mux
}

// ListenAndServe listens on addr and serves the streamable HTTP transport until
// ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("MCP HTTP address is required")
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.serveListener(ctx, listener)
}

func (s *Server) serveListener(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	serveErr := make(chan error, 1)
	go func() {
		s.logf("MCP HTTP server listening at %v", listener.Addr())
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP HTTP server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve MCP HTTP: %w", err)
	}
}

// resourceSubscribeHandler accepts subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}
