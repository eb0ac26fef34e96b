// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/ffebridge/internal/adapters/http/swagger"
	service "github.com/okian/ffebridge/internal/app"
	"github.com/okian/ffebridge/internal/auth"
	"github.com/okian/ffebridge/internal/domain/batch"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Credentials(token string, explicit auth.Credentials) (auth.Credentials, error)

	Parse(ctx context.Context, data []byte) (*model.ParseResult, model.Stats, error)
	ApplyLevels(res *model.ParseResult, levels batch.LevelOverrides) (*model.ParseResult, error)
	Import(ctx context.Context, creds auth.Credentials, res *model.ParseResult, sel batch.Selection) (*service.ImportResult, error)

	ConfigureCustomFields(ctx context.Context, creds auth.Credentials) error
	VerifyCustomFields(ctx context.Context, creds auth.Credentials) (bool, error)
	TestConnection(ctx context.Context, creds auth.Credentials) error
	CheckImported(ctx context.Context, creds auth.Credentials) ([]service.CheckResult, error)

	ExportFFECompet(ctx context.Context, creds auth.Credentials, req service.ExportRequest) (service.File, error)
	ExportFFECompetGlobal(ctx context.Context, creds auth.Credentials, req service.ExportRequest) (service.File, error)
	ExportWinJump(ctx context.Context, creds auth.Credentials, req service.ExportRequest) (service.File, error)
	ExportSIF(ctx context.Context, creds auth.Credentials, req service.ExportRequest) (service.File, error)
	ExportResults(ctx context.Context, creds auth.Credentials, req service.ExportRequest) (*service.ResultsExport, error)
	ExportSIFText(ctx context.Context, creds auth.Credentials, res *model.ParseResult) (service.File, error)
	ExportFFECompetDelimited(ctx context.Context, creds auth.Credentials, res *model.ParseResult) (service.File, error)
}

// DefaultMaxUploadBytes bounds request bodies.
const DefaultMaxUploadBytes = 20 << 20

// Server wires HTTP routes for the bridge API.
type Server struct {
	deps      Dependencies
	logger    logger.Logger
	origins   []string
	maxUpload int64
	metrics   http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCORSOrigins sets the allowed origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithMaxUploadBytes bounds request bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// WithMetricsHandler serves h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:      deps,
		logger:    logger.Nop(),
		origins:   []string{"*"},
		maxUpload: DefaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", HandleHealth)
	swagger.Register(r)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/connection/test", s.handleTestConnection)
		r.Post("/parse", s.handleParse)
		r.Post("/import", s.handleImport)
		r.Post("/competitions/levels", s.handleLevels)
		r.Post("/competitions/check", s.handleCheck)

		r.Route("/settings/custom-fields", func(r chi.Router) {
			r.Get("/", s.handleVerifyCustomFields)
			r.Post("/", s.handleConfigureCustomFields)
		})

		r.Route("/export", func(r chi.Router) {
			r.Post("/ffecompet", s.handleExportFFECompet)
			r.Post("/ffecompet/global", s.handleExportGlobal)
			r.Post("/winjump", s.handleExportWinJump)
			r.Post("/sif", s.handleExportSIF)
			r.Post("/sif-text", s.handleExportSIFText)
			r.Post("/ffecompet-delimited", s.handleExportDelimited)
			r.Post("/results", s.handleExportResults)
		})
	})
	return r
}

// credentialFields are accepted on every request touching the platform.
type credentialFields struct {
	APIKey     string `json:"api_key"`
	MeetingURL string `json:"meeting_url"`
	Token      string `json:"token"`
}

// credentials resolves the meeting of a request from the bearer header, the
// query string or the body fields.
func (s *Server) credentials(r *http.Request, f credentialFields) (auth.Credentials, error) {
	token := f.Token
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	}
	q := r.URL.Query()
	if f.APIKey == "" {
		f.APIKey = q.Get("api_key")
	}
	if f.MeetingURL == "" {
		f.MeetingURL = q.Get("meeting_url")
	}
	if token == "" {
		token = q.Get("token")
	}
	return s.deps.Credentials(token, auth.Credentials{APIKey: f.APIKey, MeetingURL: f.MeetingURL})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	// An empty body is allowed; credentials may come from the header.
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, r, badRequest(err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeOK answers {"success": true, ...fields}.
func writeOK(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
