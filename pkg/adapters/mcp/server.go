// Package mcp exposes the order desk as Model Context Protocol tools, so an LLM agent can
// route customer utterances to it over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/orderdesk"
	"github.com/aretw0/orderdesk/internal/logging"
	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/orders"
)

// InventoryURI is the resource listing in-stock vehicles.
const InventoryURI = "orderdesk://inventory"

// Service is the order desk as seen by the MCP host. *orderdesk.OrderDesk implements it.
type Service interface {
	Converse(ctx context.Context, sessionID, userName, utterance string) (domain.Result, error)
	Ask(ctx context.Context, utterance string) domain.Result
	Search(ctx context.Context, term string, limit int) ([]domain.Vehicle, error)
	AvailableModels(ctx context.Context) ([]string, error)
}

// OrderRequest are the arguments of process_order_request.
type OrderRequest struct {
	SessionID string `mapstructure:"session_id"`
	UserInput string `mapstructure:"user_input"`
	UserName  string `mapstructure:"user_name"`
}

// InventoryRequest are the arguments of search_inventory.
type InventoryRequest struct {
	UserInput string `mapstructure:"user_input"`
}

// Server wraps the order desk and exposes it as an MCP server.
type Server struct {
	service   Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP server instance.
func NewServer(service Service, opts ...Option) *Server {
	s := &Server{
		service: service,
		logger:  logging.NewNop(),
		mcpServer: server.NewMCPServer("orderdesk-mcp", strings.TrimSpace(orderdesk.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	orderTool := mcp.NewTool("process_order_request",
		mcp.WithDescription("Handle a customer message about ordering, confirming, cancelling or checking vehicle orders. "+
			"Orders are only placed when the customer repeats the exact confirmation phrase from the proposal."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation identifier; reuse it for every turn")),
		mcp.WithString("user_input", mcp.Required(), mcp.Description("The customer's message, verbatim")),
		mcp.WithString("user_name", mcp.Description("Customer name recorded on new orders (optional)")),
		mcp.WithOutputSchema[domain.Result](),
	)
	s.mcpServer.AddTool(orderTool, mcp.NewStructuredToolHandler(s.handleOrderRequest))

	inventoryTool := mcp.NewTool("search_inventory",
		mcp.WithDescription("Answer questions about vehicle availability, price, stock and delivery time."),
		mcp.WithString("user_input", mcp.Required(), mcp.Description("The customer's question")),
		mcp.WithOutputSchema[domain.Result](),
	)
	s.mcpServer.AddTool(inventoryTool, mcp.NewStructuredToolHandler(s.handleSearchInventory))
}

func decodeArgs(args map[string]any, out any) error {
	if err := mapstructure.Decode(args, out); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) handleOrderRequest(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Result, error) {
	var req OrderRequest
	if err := decodeArgs(args, &req); err != nil {
		return domain.Result{}, err
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return domain.Result{}, errors.New("session_id is required")
	}

	input, err := orders.SanitizeInput(req.UserInput)
	if err != nil {
		s.logger.Warn("MCP order request: Input rejected", "err", err, "size", len(req.UserInput))
		return domain.Result{}, fmt.Errorf("input rejected: %w", err)
	}

	res, err := s.service.Converse(ctx, req.SessionID, strings.TrimSpace(req.UserName), input)
	if err != nil {
		s.logger.Error("MCP order request failed", "session_id", req.SessionID, "err", err)
		return domain.Result{}, fmt.Errorf("session unavailable: %w", err)
	}
	return res, nil
}

func (s *Server) handleSearchInventory(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Result, error) {
	var req InventoryRequest
	if err := decodeArgs(args, &req); err != nil {
		return domain.Result{}, err
	}
	input, err := orders.SanitizeInput(req.UserInput)
	if err != nil {
		return domain.Result{}, fmt.Errorf("input rejected: %w", err)
	}
	return s.service.Ask(ctx, input), nil
}

// inventorySnapshot lists every in-stock vehicle with its details.
func (s *Server) inventorySnapshot(ctx context.Context) ([]domain.Vehicle, error) {
	models, err := s.service.AvailableModels(ctx)
	if err != nil {
		return nil, err
	}
	vehicles := make([]domain.Vehicle, 0, len(models))
	for _, m := range models {
		hits, err := s.service.Search(ctx, m, 1)
		if err != nil {
			return nil, err
		}
		if len(hits) > 0 {
			vehicles = append(vehicles, hits[0])
		}
	}
	return vehicles, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(InventoryURI, "Vehicles in stock",
		mcp.WithResourceDescription("Every in-stock vehicle with price (cents), stock and delivery days"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		vehicles, err := s.inventorySnapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read inventory: %w", err)
		}
		jsonBytes, err := json.Marshal(vehicles)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      InventoryURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
