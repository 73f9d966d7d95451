package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/bryanwahyu/redflag-scanner/internal/domain/analysis"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	AnalysesTotal      uint64
	AnalysesSucceeded  uint64
	InputErrors        uint64
	ProviderErrors     uint64
	ParseErrors        uint64
	QuotaErrors        uint64
	StartTime          time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// IncrementRequests increments total request counter
func IncrementRequests() {
	atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
}

// IncrementInProgress increments in-progress request counter
func IncrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
}

// DecrementInProgress decrements in-progress request counter
func DecrementInProgress() {
	atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))
}

// IncrementSuccess increments successful request counter
func IncrementSuccess() {
	atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
}

// IncrementFailed increments failed request counter
func IncrementFailed() {
	atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
}

// RecordAnalysis counts one finished analysis. err is nil on success,
// otherwise the *analysis.Error returned by the service.
func RecordAnalysis(err error, quota bool) {
	atomic.AddUint64(&globalMetrics.AnalysesTotal, 1)
	if err == nil {
		atomic.AddUint64(&globalMetrics.AnalysesSucceeded, 1)
		return
	}
	if quota {
		atomic.AddUint64(&globalMetrics.QuotaErrors, 1)
	}
	kind := analysis.KindProvider
	var ae *analysis.Error
	if errors.As(err, &ae) {
		kind = ae.Kind
	}
	switch kind {
	case analysis.KindInput:
		atomic.AddUint64(&globalMetrics.InputErrors, 1)
	case analysis.KindParse:
		atomic.AddUint64(&globalMetrics.ParseErrors, 1)
	default:
		atomic.AddUint64(&globalMetrics.ProviderErrors, 1)
	}
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"analyses_total":       atomic.LoadUint64(&globalMetrics.AnalysesTotal),
		"analyses_succeeded":   atomic.LoadUint64(&globalMetrics.AnalysesSucceeded),
		"input_errors":         atomic.LoadUint64(&globalMetrics.InputErrors),
		"provider_errors":      atomic.LoadUint64(&globalMetrics.ProviderErrors),
		"parse_errors":         atomic.LoadUint64(&globalMetrics.ParseErrors),
		"quota_errors":         atomic.LoadUint64(&globalMetrics.QuotaErrors),
		"uptime_seconds":       time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       m.Alloc,
			"total_alloc_bytes": m.TotalAlloc,
			"sys_bytes":         m.Sys,
			"num_gc":            m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		IncrementRequests()
		IncrementInProgress()
		defer DecrementInProgress()

		wrapped := wrapWriter(w)
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			IncrementSuccess()
		} else {
			IncrementFailed()
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
