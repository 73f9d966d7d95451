package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bryanwahyu/redflag-scanner/internal/domain/ai"
	"github.com/bryanwahyu/redflag-scanner/internal/domain/analysis"
)

const healthCheckTimeout = 5 * time.Second

// HealthChecker is one dependency probe run by /health.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// ProviderHealthChecker reports whether the AI provider has a credential.
// It never calls the provider.
type ProviderHealthChecker struct {
	Configured func() bool
}

func (p ProviderHealthChecker) Check(ctx context.Context) error {
	if p.Configured == nil || !p.Configured() {
		return ai.ErrMissingAPIKey
	}
	return nil
}

// HealthReport is the /health body.
type HealthReport struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func runChecks(ctx context.Context, checkers map[string]HealthChecker) HealthReport {
	report := HealthReport{Status: "healthy", Timestamp: time.Now(), Checks: make(map[string]CheckResult, len(checkers))}
	for name, c := range checkers {
		if err := c.Check(ctx); err != nil {
			report.Status = "unhealthy"
			report.Checks[name] = CheckResult{Status: "unhealthy", Message: err.Error()}
			continue
		}
		report.Checks[name] = CheckResult{Status: "healthy"}
	}
	return report
}

// HealthHandler runs every checker and answers 503 if any of them fails.
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		report := runChecks(ctx, checkers)
		status := http.StatusOK
		if report.Status != "healthy" {
			status = http.StatusServiceUnavailable
		}
		writeStatus(w, status, report)
	}
}

// ServiceInfo describes the analysis pipeline behind /analyze.
type ServiceInfo struct {
	Model              string           `json:"model"`
	Profile            analysis.Profile `json:"profile"`
	ProviderConfigured bool             `json:"providerConfigured"`
}

type readiness struct {
	Status string `json:"status"`
	ServiceInfo
}

// ReadinessHandler reports ready only when analyses can reach the provider.
// Without a credential every request would fail, so the instance answers 503.
func ReadinessHandler(info ServiceInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !info.ProviderConfigured {
			writeStatus(w, http.StatusServiceUnavailable, readiness{Status: "not_ready", ServiceInfo: info})
			return
		}
		writeStatus(w, http.StatusOK, readiness{Status: "ready", ServiceInfo: info})
	}
}

// LivenessHandler answers as long as the process serves HTTP.
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
