// Package server exposes the roast pipeline over HTTP.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/roastz/pkg/github"
	"github.com/codeGROOVE-dev/roastz/pkg/metrics"
	"github.com/codeGROOVE-dev/roastz/pkg/roast"
)

//go:embed templates/home.html
var homeTemplate string

// maxBodyBytes bounds the JSON body of a roast request.
const maxBodyBytes = 4 << 10

// Roaster is the pipeline the server drives. *roast.Roaster implements it.
type Roaster interface {
	Roast(ctx context.Context, handle string) (*roast.Result, error)
	TotalRoasts(ctx context.Context) (int64, error)
}

// Server handles the roastz HTTP API and home page.
type Server struct {
	roaster        Roaster
	logger         *slog.Logger
	metrics        *metrics.Metrics
	limiter        *rateLimiter
	home           *template.Template
	requestTimeout time.Duration
	trustedOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithRateLimit allows perMinute roast requests per client IP.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		if perMinute > 0 {
			s.limiter = newRateLimiter(perMinute, time.Minute)
		}
	}
}

// WithRequestTimeout bounds the pipeline run for one roast request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithTrustedOrigins allows cross-origin POSTs from the given origins.
func WithTrustedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.trustedOrigins = append(s.trustedOrigins, origins...)
	}
}

// New creates a Server for roaster.
func New(logger *slog.Logger, roaster Roaster, opts ...Option) *Server {
	s := &Server{
		roaster:        roaster,
		logger:         logger,
		requestTimeout: 30 * time.Second,
		home:           template.Must(template.New("home").Parse(homeTemplate)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.limiter == nil {
		s.limiter = newRateLimiter(15, time.Minute)
	}
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /{username}", s.handleHome)
	mux.HandleFunc("POST /api/v1/roast", s.handleRoast)
	mux.HandleFunc("GET /api/v1/stats", s.handleStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	antiCSRF := http.NewCrossOriginProtection()
	for _, origin := range s.trustedOrigins {
		if err := antiCSRF.AddTrustedOrigin(origin); err != nil {
			return nil, err
		}
	}

	return s.wrap(antiCSRF.Handler(mux)), nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	requestID := w.Header().Get("X-Request-ID")

	username := r.PathValue("username")
	if username == "" {
		username = r.URL.Query().Get("u")
	}
	if !github.IsValidUsername(username) {
		username = ""
	}

	total, err := s.roaster.TotalRoasts(r.Context())
	if err != nil {
		s.logger.Warn("Failed to read roast counter", "request_id", requestID, "error", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Username    string
		TotalRoasts int64
	}{username, total}
	if err := s.home.Execute(w, data); err != nil {
		s.logger.Error("Template execution failed",
			"request_id", requestID,
			"error", err,
			"username", username)
	}
}

type roastRequest struct {
	Username string `json:"username"`
}

type roastResponse struct {
	User             *github.User `json:"user"`
	Roast            string       `json:"roast"`
	MostUsedLanguage string       `json:"most_used_language"`
	TotalStars       int          `json:"total_stars"`
	Contributions    int          `json:"contributions"`
	TotalRoasts      int64        `json:"total_roasts"`
}

func (s *Server) handleRoast(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := w.Header().Get("X-Request-ID")
	ip := clientIP(r)

	s.logger.Info("Roast request started",
		"request_id", requestID,
		"client_ip", ip,
		"user_agent", r.Header.Get("User-Agent"))

	if !s.limiter.allow(ip) {
		s.logger.Warn("Rate limit exceeded", "request_id", requestID, "client_ip", ip)
		s.writeError(w, requestID, start, http.StatusTooManyRequests, errorResponse{
			Error:   "Too many roasts",
			Details: "You have been roasted enough for one minute. Please try again shortly.",
			Code:    "RATE_LIMITED",
		}, metrics.OutcomeRateLimited)
		return
	}

	var req roastRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.logger.Warn("Invalid request body", "request_id", requestID, "error", err, "client_ip", ip)
		s.writeError(w, requestID, start, http.StatusBadRequest, errorResponse{
			Error:   "Invalid request",
			Details: "Expected a JSON body like {\"username\": \"octocat\"}.",
			Code:    "INVALID_REQUEST",
		}, metrics.OutcomeInvalidInput)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username != "" && !github.IsValidUsername(username) {
		s.logger.Warn("Invalid username", "request_id", requestID, "username", username, "client_ip", ip)
		status, resp, outcome := classify(roast.ErrInvalidInput, username)
		s.writeError(w, requestID, start, status, resp, outcome)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	result, err := s.roaster.Roast(ctx, username)
	if err != nil {
		status, resp, outcome := classify(err, username)
		s.logger.Error("Roast failed",
			"request_id", requestID,
			"username", username,
			"code", resp.Code,
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
			"duration_ms", time.Since(start).Milliseconds())
		s.writeError(w, requestID, start, status, resp, outcome)
		return
	}

	if result.CounterErr == nil {
		s.metrics.SetTotalRoasts(result.TotalRoasts)
	}
	s.metrics.ObserveRoast(metrics.OutcomeSuccess, time.Since(start))

	resp := roastResponse{
		User:             result.User,
		Roast:            result.Roast,
		MostUsedLanguage: result.Summary.DominantLanguage,
		TotalStars:       result.Summary.TotalStars,
		Contributions:    result.Contributions,
		TotalRoasts:      result.TotalRoasts,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to write response", "request_id", requestID, "error", err, "username", username)
		return
	}

	s.logger.Info("Roast request completed",
		"request_id", requestID,
		"username", username,
		"total_roasts", result.TotalRoasts,
		"duration_ms", time.Since(start).Milliseconds())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	requestID := w.Header().Get("X-Request-ID")

	total, err := s.roaster.TotalRoasts(r.Context())
	if err != nil {
		s.logger.Error("Failed to read roast counter", "request_id", requestID, "error", err)
		s.writeError(w, requestID, time.Now(), http.StatusServiceUnavailable, errorResponse{
			Error:   "Roast counter unavailable",
			Details: err.Error(),
			Code:    "COUNTER_ERROR",
		}, "")
		return
	}
	s.metrics.SetTotalRoasts(total)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]int64{"total_roasts": total}); err != nil {
		s.logger.Error("Failed to encode response", "request_id", requestID, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("ok")); err != nil {
		s.logger.Debug("Failed to write health response", "error", err)
	}
}

// writeError sends resp as JSON. An empty outcome skips metrics.
func (s *Server) writeError(w http.ResponseWriter, requestID string, start time.Time, status int, resp errorResponse, outcome string) {
	if outcome != "" {
		s.metrics.ObserveRoast(outcome, time.Since(start))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to encode error response", "request_id", requestID, "encode_error", err)
	}
}
