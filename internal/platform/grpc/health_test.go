package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestWaitForHealthServing(t *testing.T) {
	addr, server := startHealthServer(t, "roster")
	server.SetServing("roster")

	conn := dialHealthServer(t, addr)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := WaitForHealth(ctx, conn, "roster", nil); err != nil {
		t.Fatalf("wait for health: %v", err)
	}
}

func TestWaitForHealthTransitionsToServing(t *testing.T) {
	addr, server := startHealthServer(t)

	conn := dialHealthServer(t, addr)
	defer conn.Close()

	go func() {
		time.Sleep(200 * time.Millisecond)
		server.SetServing()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := WaitForHealth(ctx, conn, "", nil); err != nil {
		t.Fatalf("wait for health after transition: %v", err)
	}
}

func TestWaitForHealthRespectsContext(t *testing.T) {
	addr, _ := startHealthServer(t)

	conn := dialHealthServer(t, addr)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := WaitForHealth(ctx, conn, "", nil); err == nil {
		t.Fatal("expected context error, got nil")
	}
}

func TestWaitForHealthRequiresConn(t *testing.T) {
	if err := WaitForHealth(context.Background(), nil, "", nil); err == nil {
		t.Fatal("expected missing connection error")
	}
}

func TestProbeReportsServing(t *testing.T) {
	addr, server := startHealthServer(t, "roster")
	server.SetServing("roster")

	var logged []string
	logf := func(format string, args ...any) { logged = append(logged, format) }
	if err := Probe(context.Background(), addr, "roster", 2*time.Second, logf); err != nil {
		t.Fatalf("probe: %v", err)
	}
	if len(logged) == 0 {
		t.Fatal("expected probe to log health progress")
	}
}

func TestProbeTimesOutWhenNotServing(t *testing.T) {
	addr, _ := startHealthServer(t, "roster")
	if err := Probe(context.Background(), addr, "roster", 300*time.Millisecond, nil); err == nil {
		t.Fatal("expected probe timeout")
	}
}

func startHealthServer(t *testing.T, names ...string) (string, *HealthServer) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	server := NewHealthServer(names...)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Server.Serve(listener)
	}()

	t.Cleanup(func() {
		server.Shutdown()
		_ = listener.Close()
		select {
		case <-serveErr:
		case <-time.After(2 * time.Second):
		}
	})

	return listener.Addr().String(), server
}

func dialHealthServer(t *testing.T, addr string) *gogrpc.ClientConn {
	t.Helper()

	conn, err := gogrpc.NewClient(
		addr,
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial health server: %v", err)
	}

	return conn
}
