// Package http exposes the order desk over a JSON HTTP API, with per-session
// server-sent events and Prometheus metrics.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/orderdesk"
	"github.com/aretw0/orderdesk/internal/logging"
	"github.com/aretw0/orderdesk/pkg/domain"
	"github.com/aretw0/orderdesk/pkg/orders"
	"github.com/aretw0/orderdesk/pkg/session"
)

const defaultSearchLimit = 5

// Service is the order desk as seen by the HTTP host. *orderdesk.OrderDesk implements it.
type Service interface {
	Converse(ctx context.Context, sessionID, userName, utterance string) (domain.Result, error)
	Status(ctx context.Context, sessionID string) (domain.Result, error)
	Ask(ctx context.Context, utterance string) domain.Result
	Search(ctx context.Context, term string, limit int) ([]domain.Vehicle, error)
	AvailableModels(ctx context.Context) ([]string, error)
	Health(ctx context.Context) (int, error)
	Sessions() *session.Manager
}

// Server holds the HTTP handlers.
type Server struct {
	Service Service
	Streams *StreamManager
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for svc.
func NewHandler(svc Service, opts ...Option) http.Handler {
	s := &Server{
		Service: svc,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/messages", s.PostMessage)
			r.Get("/orders", s.GetOrders)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	r.Get("/vehicles", s.GetVehicles)
	r.Post("/inventory/queries", s.PostInventoryQuery)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MessageRequest is the body of POST /sessions/{id}/messages.
type MessageRequest struct {
	Utterance string `json:"utterance"`
	UserName  string `json:"user_name,omitempty"`
}

// InventoryQuery is the body of POST /inventory/queries.
type InventoryQuery struct {
	Utterance string `json:"utterance"`
}

// VehiclesResponse is returned by GET /vehicles.
type VehiclesResponse struct {
	Vehicles        []domain.Vehicle `json:"vehicles,omitempty"`
	AvailableModels []string         `json:"available_models,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// PostMessage runs one conversation turn.
func (s *Server) PostMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var body MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("PostMessage: Invalid request body", "err", err)
		return
	}

	utterance, err := orders.SanitizeInput(body.Utterance)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid input: %v", err))
		s.logger.Warn("PostMessage: Input rejected", "err", err, "size", len(body.Utterance))
		return
	}

	res, err := s.Service.Converse(r.Context(), sessionID, strings.TrimSpace(body.UserName), utterance)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Session unavailable")
		s.logger.Error("PostMessage failed", "session_id", sessionID, "err", err)
		return
	}

	if payload, err := json.Marshal(res); err == nil {
		s.Streams.Broadcast(sessionID, string(payload))
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GetSession returns the stored session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	sess, err := s.Service.Sessions().Load(r.Context(), sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		s.writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Session unavailable")
		s.logger.Error("GetSession failed", "session_id", sessionID, "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// DeleteSession forgets the session. Orders are kept.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := s.Service.Sessions().Delete(r.Context(), sessionID); err != nil {
		s.writeError(w, http.StatusInternalServerError, "Session unavailable")
		s.logger.Error("DeleteSession failed", "session_id", sessionID, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSessions returns the stored session IDs.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Service.Sessions().List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Sessions unavailable")
		s.logger.Error("ListSessions failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetOrders reports the session's orders.
func (s *Server) GetOrders(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	res, err := s.Service.Status(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Session unavailable")
		s.logger.Error("GetOrders failed", "session_id", sessionID, "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GetVehicles searches the catalog (?q=, ?limit=) or, without q, lists available models.
func (s *Server) GetVehicles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	if term == "" {
		models, err := s.Service.AvailableModels(ctx)
		if err != nil {
			s.writeError(w, http.StatusServiceUnavailable, "Inventory unavailable")
			s.logger.Error("GetVehicles failed", "err", err)
			return
		}
		s.writeJSON(w, http.StatusOK, VehiclesResponse{AvailableModels: models})
		return
	}

	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	vehicles, err := s.Service.Search(ctx, term, limit)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "Inventory unavailable")
		s.logger.Error("GetVehicles failed", "q", term, "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, VehiclesResponse{Vehicles: vehicles})
}

// PostInventoryQuery answers a free-form inventory question.
func (s *Server) PostInventoryQuery(w http.ResponseWriter, r *http.Request) {
	var body InventoryQuery
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	utterance, err := orders.SanitizeInput(body.Utterance)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid input: %v", err))
		return
	}
	s.writeJSON(w, http.StatusOK, s.Service.Ask(r.Context(), utterance))
}

// GetHealth reports store reachability.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	n, err := s.Service.Health(r.Context())
	if err != nil {
		s.logger.Error("Health check failed", "err", err)
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "vehicles": n})
}

// GetInfo reports the build.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "orderdesk-http",
		"version": strings.TrimSpace(orderdesk.Version),
	})
}

// SubscribeEvents streams every Result of the session as it is produced (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	s.logger.Info("SSE: Subscribing to session results", "session_id", sessionID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: result\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
