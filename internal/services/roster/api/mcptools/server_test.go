package mcptools

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/louisbranch/muster/internal/services/roster/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func connectTestClient(t *testing.T, server *Server) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx, serverTransport)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-serveErr:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop after cancel")
		}
	})

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func decodeStructuredContent[T any](t *testing.T, value any) T {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var output T
	if err := json.Unmarshal(data, &output); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return output
}

func TestNewServerRequiresDeps(t *testing.T) {
	if _, err := NewServer(Deps{}); err == nil {
		t.Fatal("expected missing roster error")
	}
	if _, err := NewServer(Deps{Roster: newTestEngine(t)}); err == nil {
		t.Fatal("expected missing profile saver error")
	}
}

func TestServerOverInMemoryTransport(t *testing.T) {
	server, err := NewServer(Deps{Roster: newTestEngine(t), Profiles: &fakeProfiles{}, Logf: func(string, ...any) {}})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	session := connectTestClient(t, server)
	ctx := context.Background()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(tools.Tools) != 11 {
		t.Fatalf("tools = %d, want 11", len(tools.Tools))
	}

	created, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "event_create",
		Arguments: map[string]any{
			"caller": map[string]any{"id": "admin", "capabilities": []string{"Admin"}},
			"title":  "Kursk",
		},
	})
	if err != nil {
		t.Fatalf("call event_create: %v", err)
	}
	if created.IsError {
		t.Fatalf("event_create failed: %+v", created.Content)
	}
	event := decodeStructuredContent[EventCreateResult](t, created.StructuredContent)

	joined, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "recruits_join",
		Arguments: map[string]any{
			"caller":   map[string]any{"id": "r"},
			"event_id": event.Event.ID,
		},
	})
	if err != nil {
		t.Fatalf("call recruits_join: %v", err)
	}
	if joined.IsError {
		t.Fatalf("recruits_join failed: %+v", joined.Content)
	}

	again, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "recruits_join",
		Arguments: map[string]any{
			"caller":   map[string]any{"id": "r"},
			"event_id": event.Event.ID,
		},
	})
	if err != nil {
		t.Fatalf("call recruits_join: %v", err)
	}
	if !again.IsError {
		t.Fatal("expected duplicate join to be reported as a tool error")
	}

	resource, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: rosterURI(event.Event.ID)})
	if err != nil {
		t.Fatalf("read roster resource: %v", err)
	}
	var view domain.View
	if err := json.Unmarshal([]byte(resource.Contents[0].Text), &view); err != nil {
		t.Fatalf("decode roster: %v", err)
	}
	if len(view.Recruits) != 1 || view.Recruits[0] != "r" {
		t.Fatalf("recruits = %v, want [r]", view.Recruits)
	}

	list, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: EventListResource().URI})
	if err != nil {
		t.Fatalf("read event list: %v", err)
	}
	var payload EventListPayload
	if err := json.Unmarshal([]byte(list.Contents[0].Text), &payload); err != nil {
		t.Fatalf("decode event list: %v", err)
	}
	if len(payload.Events) != 1 || payload.Events[0].Title != "Kursk" {
		t.Fatalf("events = %+v", payload.Events)
	}
}

func TestServeListenerStopsOnCancel(t *testing.T) {
	server, err := NewServer(Deps{Roster: newTestEngine(t), Profiles: &fakeProfiles{}, Logf: func(string, ...any) {}})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.serveListener(ctx, listener)
	}()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestListenAndServeRequiresAddr(t *testing.T) {
	server, err := NewServer(Deps{Roster: newTestEngine(t), Profiles: &fakeProfiles{}})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if err := server.ListenAndServe(context.Background(), " "); err == nil {
		t.Fatal("expected address error")
	}
}
