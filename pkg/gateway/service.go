// Package gateway exposes the copilot core over HTTP: the SalesIQ webhook
// endpoint plus liveness and readiness probes.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"salescopilot/pkg/config"
	"salescopilot/pkg/payload"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = 3000

	maxBodyBytes        = 1 << 20
	aiHealthInterval    = 30 * time.Second
	shutdownGracePeriod = 5 * time.Second
)

// WebhookHandler processes one decoded webhook payload and returns the JSON
// response body for it.
type WebhookHandler interface {
	HandleWebhook(ctx context.Context, p payload.Payload) any
}

// AIHealth reports whether the AI provider is configured and reachable.
type AIHealth interface {
	Enabled() bool
	Health(ctx context.Context) error
}

// Service is the webhook HTTP front end. AI reachability is tracked for
// status reporting only; the handler degrades internally, so a broken
// provider never takes the endpoint down.
type Service struct {
	cfg         *config.Config
	log         *slog.Logger
	handler     WebhookHandler
	ai          AIHealth
	shopifyLive bool

	mu         sync.RWMutex
	startedAt  time.Time
	aiLastOKAt time.Time
	aiLastErr  string
}

type statusResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	AIMode        string `json:"ai_mode"`
	AILastOKAt    string `json:"ai_last_ok_at,omitempty"`
	AILastErr     string `json:"ai_last_error,omitempty"`
	ShopifyMode   string `json:"shopify_mode"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewService(cfg *config.Config, handler WebhookHandler, ai AIHealth, shopifyLive bool, log *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if handler == nil {
		return nil, errors.New("webhook handler is required")
	}
	if ai == nil {
		return nil, errors.New("ai health checker is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		cfg:         cfg,
		log:         log.With("component", "gateway.service"),
		handler:     handler,
		ai:          ai,
		shopifyLive: shopifyLive,
	}, nil
}

// Run serves until ctx is cancelled or the listener fails.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	s.startedAt = time.Now().UTC()
	s.mu.Unlock()

	s.checkAIHealth(ctx)
	go s.aiHealthLoop(ctx)

	host := strings.TrimSpace(s.cfg.Server.Host)
	if host == "" {
		host = defaultHost
	}
	port := s.cfg.Server.Port
	if port <= 0 {
		port = defaultPort
	}
	addr := host + ":" + strconv.Itoa(port)

	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("Webhook server started", "address", addr, "shopify_live", s.shopifyLive, "ai_enabled", s.ai.Enabled())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("start webhook server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown webhook server: %w", err)
		}
		return nil
	case err := <-serverErrors:
		return err
	}
}

// Handler builds the route table. Exposed separately so tests can drive the
// mux without binding a listener.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/widget", s.handleWidget)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	return mux
}

func (s *Service) handleWidget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body unreadable"})
		return
	}

	p, err := payload.Decode(body)
	if err != nil {
		s.log.Warn("Rejected malformed webhook body", "error", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	s.writeJSON(w, http.StatusOK, s.handler.HandleWebhook(r.Context(), p))
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.currentStatus("ok"))
}

func (s *Service) handleReady(w http.ResponseWriter, _ *http.Request) {
	statusCode := http.StatusOK
	status := "ready"
	if !s.isReady() {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	s.writeJSON(w, statusCode, s.currentStatus(status))
}

func (s *Service) writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("Failed to write response", "error", err)
	}
}

func (s *Service) currentStatus(status string) statusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uptime := int64(0)
	if !s.startedAt.IsZero() {
		uptime = int64(time.Since(s.startedAt).Seconds())
	}

	aiMode := "heuristic"
	if s.ai.Enabled() {
		aiMode = "live"
	}

	shopifyMode := "sample"
	if s.shopifyLive {
		shopifyMode = "live"
	}

	aiLastOK := ""
	if !s.aiLastOKAt.IsZero() {
		aiLastOK = s.aiLastOKAt.Format(time.RFC3339)
	}

	return statusResponse{
		Status:        status,
		UptimeSeconds: uptime,
		AIMode:        aiMode,
		AILastOKAt:    aiLastOK,
		AILastErr:     s.aiLastErr,
		ShopifyMode:   shopifyMode,
	}
}

// isReady reports whether the service accepts traffic. AI reachability does
// not gate readiness because the handler serves heuristic results without it.
func (s *Service) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.startedAt.IsZero()
}

func (s *Service) aiHealthLoop(ctx context.Context) {
	ticker := time.NewTicker(aiHealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAIHealth(ctx)
		}
	}
}

func (s *Service) checkAIHealth(ctx context.Context) {
	if !s.ai.Enabled() {
		return
	}

	if err := s.ai.Health(ctx); err != nil {
		s.log.Warn("AI provider health check failed", "error", err)
		s.mu.Lock()
		s.aiLastErr = err.Error()
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.aiLastErr = ""
	s.aiLastOKAt = time.Now().UTC()
	s.mu.Unlock()
}
