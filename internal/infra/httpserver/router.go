package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	domai "github.com/bryanwahyu/redflag-scanner/internal/domain/ai"
	"github.com/bryanwahyu/redflag-scanner/internal/domain/analysis"
	"github.com/bryanwahyu/redflag-scanner/internal/logger"
	"github.com/bryanwahyu/redflag-scanner/internal/middleware"
)

const defaultMaxBodyBytes = 20 << 20

// Analyzer is the use case behind POST /analyze.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (json.RawMessage, error)
}

// Options configure the router. Zero values are usable.
type Options struct {
	Logger         *zap.Logger
	AllowedOrigins []string
	MaxBodyBytes   int64
	HealthCheckers map[string]middleware.HealthChecker
	Service        middleware.ServiceInfo
}

type Router struct {
	analyzer     Analyzer
	maxBodyBytes int64
}

func NewRouter(analyzer Analyzer, opts Options) http.Handler {
	r := &Router{analyzer: analyzer, maxBodyBytes: opts.MaxBodyBytes}
	if r.maxBodyBytes <= 0 {
		r.maxBodyBytes = defaultMaxBodyBytes
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RealIP)
	mux.Use(middleware.Logging(log))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/healthz/live", middleware.LivenessHandler)
	mux.Get("/healthz/ready", middleware.ReadinessHandler(opts.Service))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Post("/analyze", r.wrap(r.handleAnalyze))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var ae *analysis.Error
			if !errors.As(err, &ae) {
				ae = analysis.ProviderError(err)
			}
			writeJSON(w, ae.StatusCode(), ae.Response())
		}
	}
}

// POST /analyze
// Body: {"image": "<base64>", "mediaType": "image/png", "profile": "fixed|dynamic"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	body := http.MaxBytesReader(w, req.Body, r.maxBodyBytes)
	in, err := analysis.DecodeRequest(body)
	if err != nil {
		logger.FromContext(req.Context()).Warn("rejected analyze request", zap.Error(err))
		middleware.RecordAnalysis(err, false)
		return err
	}

	out, err := r.analyzer.Analyze(req.Context(), in)
	middleware.RecordAnalysis(err, errors.Is(err, domai.ErrQuotaExceeded))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(out)
	if err != nil {
		// header sudah terkirim, cukup log
		logger.FromContext(req.Context()).Warn("write response failed", zap.Error(err))
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
