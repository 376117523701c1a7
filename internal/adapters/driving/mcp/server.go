package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is the MCP server version.
const Version = "0.1.0"

// shutdownGrace bounds how long in-flight requests may drain on exit.
const shutdownGrace = 5 * time.Second

// Server exposes progress tracking to MCP clients over stdio or HTTP.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer wires the given ports into an MCP server and registers the
// progress tools and resources.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "tracklight",
		Version: Version,
	}
	opts := &mcp.ServerOptions{
		Instructions: "Tracklight tracks game progress locally and syncs it across " +
			"devices. Use the progress tools to read or record quest, crafting " +
			"station, and item quantity state, and sync_status to inspect " +
			"pending uploads.",
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, opts),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over streamable HTTP on addr until ctx is
// cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Streaming clients can pin connections open indefinitely, so the
	// drain window is bounded and stragglers are closed outright.
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		grace, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(grace); err != nil {
			httpServer.Close() //nolint:errcheck
		}
	}()

	err := httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	<-done
	return nil
}
