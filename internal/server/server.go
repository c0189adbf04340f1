package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/eventkit/eventkit/internal/bot"
	"github.com/eventkit/eventkit/internal/catalog"
	"github.com/eventkit/eventkit/internal/config"
	"github.com/eventkit/eventkit/internal/graph"
	"github.com/eventkit/eventkit/internal/llm"
	"github.com/eventkit/eventkit/internal/profile"
	"github.com/eventkit/eventkit/internal/server/middleware"
	"github.com/eventkit/eventkit/internal/server/ratelimit"
	"github.com/eventkit/eventkit/internal/telemetry"
)

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	catalog     *catalog.Catalog
	settings    *config.Settings
	telemetry   *telemetry.Logger
	profiles    profile.Store
	graphSvc    *graph.EventService
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	botHandler  *bot.Handler
	llmClient   llm.Client
	defaultCard bool
}

// Config holds server configuration.
type Config struct {
	Port        int
	DefaultCard bool
}

// New creates a new server instance.
func New(cfg Config, settings *config.Settings) (*Server, error) {
	manifestPath := settings.ManifestPath
	if manifestPath == "" {
		manifestPath = catalog.DefaultManifestPath
	}
	cat, err := catalog.Load(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	s := &Server{
		catalog:     cat,
		settings:    settings,
		defaultCard: cfg.DefaultCard,
	}

	telemetryFile := cat.Manifest.Features.Telemetry.File
	if settings.TelemetryFile != "" {
		telemetryFile = settings.TelemetryFile
	}
	s.telemetry = telemetry.New(telemetry.Config{
		Enabled: cat.Manifest.Features.Telemetry.Enabled,
		File:    telemetryFile,
	})

	s.profiles, err = newProfileStore(settings, cat)
	if err != nil {
		return nil, err
	}

	// Calendar integration is optional; the endpoint reports 503 when off.
	if settings.GraphEnabled && settings.GraphReady() {
		authClient, err := graph.NewAuthClient(settings)
		if err != nil {
			return nil, fmt.Errorf("failed to init Graph auth: %w", err)
		}
		s.graphSvc = graph.NewEventService(authClient, graph.ServiceConfig{})
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Token issuing is optional and requires JWT_SECRET.
	if jwtConfig, err := config.NewJWTConfig(); err == nil {
		s.jwtService = NewJWTService(jwtConfig)
	} else {
		log.Printf("[server] JWT disabled: %v", err)
	}

	var parser bot.IntentParser
	if settings.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(context.Background(), settings.GeminiAPIKey, "")
		if err != nil {
			log.Printf("[server] LLM intent parsing disabled: %v", err)
		} else {
			s.llmClient = client
			parser = llm.NewIntentExtractor(client)
		}
	}
	s.botHandler = bot.NewHandler(cat, s.profiles, s.telemetry, parser)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /recommend", s.handleRecommend)
	mux.HandleFunc("GET /explain", s.handleExplain)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /recommend-graph", s.handleRecommendGraph)
	mux.HandleFunc("POST /token", s.handleToken)
	mux.HandleFunc("POST /api/messages", s.handleBotMessage)

	var jwtValidator middleware.TokenValidator
	if s.jwtService != nil {
		jwtValidator = s.jwtService.AsTokenValidator()
	}
	auth := middleware.AuthMiddleware(settings.APIToken, jwtValidator)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(auth(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newProfileStore selects Postgres when DATABASE_URL is set, otherwise the
// manifest-configured profile file.
func newProfileStore(settings *config.Settings, cat *catalog.Catalog) (profile.Store, error) {
	if settings.DatabaseURL != "" {
		store, err := profile.NewPostgresStore(context.Background(), settings.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to init profile database: %w", err)
		}
		return store, nil
	}

	file := cat.Manifest.Profile.StorageFile
	if file == "" {
		file = "profiles.json"
	}
	return profile.NewFileStore(file), nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	if s.profiles != nil {
		s.profiles.Close()
	}
	_ = s.telemetry.Close()

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Correlation-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)

		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit
// information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

var traceparentPattern = regexp.MustCompile(`^[0-9a-f]{2}-([0-9a-f]{32})-[0-9a-f]{16}-[0-9a-f]{2}$`)

// correlationID resolves the request correlation ID: the W3C traceparent
// trace-id wins, then an explicit X-Correlation-ID header, then a fresh one.
// The resolved ID is echoed back on the response.
func (s *Server) correlationID(w http.ResponseWriter, r *http.Request) string {
	id := ""
	if m := traceparentPattern.FindStringSubmatch(r.Header.Get("traceparent")); m != nil {
		id = m[1]
	}
	if id == "" {
		id = r.Header.Get("X-Correlation-ID")
	}
	if id == "" {
		id = telemetry.NewCorrelationID()
	}
	w.Header().Set("X-Correlation-ID", id)
	return id
}
