package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bryanwahyu/redflag-scanner/internal/domain/ai"
	"github.com/bryanwahyu/redflag-scanner/internal/domain/analysis"
	"github.com/bryanwahyu/redflag-scanner/internal/logger"
)

func TestLoggingAssignsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var ctxLogger *zap.Logger
	h := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = logger.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	id := rec.Header().Get(RequestIDHeader)
	if id == "" {
		t.Fatal("no request id")
	}
	if ctxLogger == nil {
		t.Fatal("handler saw no logger")
	}

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("access log entries = %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != id {
		t.Errorf("request_id = %v, want %s", fields["request_id"], id)
	}
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status = %v", fields["status"])
	}
}

func TestLoggingKeepsClientRequestID(t *testing.T) {
	h := Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}

func TestProviderHealthChecker(t *testing.T) {
	if err := (ProviderHealthChecker{}).Check(context.Background()); !errors.Is(err, ai.ErrMissingAPIKey) {
		t.Errorf("nil func: err = %v", err)
	}
	off := ProviderHealthChecker{Configured: func() bool { return false }}
	if err := off.Check(context.Background()); !errors.Is(err, ai.ErrMissingAPIKey) {
		t.Errorf("unconfigured: err = %v", err)
	}
	on := ProviderHealthChecker{Configured: func() bool { return true }}
	if err := on.Check(context.Background()); err != nil {
		t.Errorf("configured: err = %v", err)
	}
}

func TestRecordAnalysis(t *testing.T) {
	load := func(k string) uint64 { return GetMetrics()[k].(uint64) }
	total, ok := load("analyses_total"), load("analyses_succeeded")
	input, provider, parse, quota := load("input_errors"), load("provider_errors"), load("parse_errors"), load("quota_errors")

	RecordAnalysis(nil, false)
	RecordAnalysis(analysis.InputError(analysis.MsgImageRequired), false)
	RecordAnalysis(analysis.ProviderError(ai.ErrQuotaExceeded), true)
	RecordAnalysis(analysis.ParseError("x", nil), false)
	RecordAnalysis(errors.New("plain"), false)

	if got := load("analyses_total") - total; got != 5 {
		t.Errorf("total delta = %d", got)
	}
	if got := load("analyses_succeeded") - ok; got != 1 {
		t.Errorf("succeeded delta = %d", got)
	}
	if got := load("input_errors") - input; got != 1 {
		t.Errorf("input delta = %d", got)
	}
	if got := load("provider_errors") - provider; got != 2 {
		t.Errorf("provider delta = %d", got)
	}
	if got := load("parse_errors") - parse; got != 1 {
		t.Errorf("parse delta = %d", got)
	}
	if got := load("quota_errors") - quota; got != 1 {
		t.Errorf("quota delta = %d", got)
	}
}
