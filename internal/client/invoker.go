package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/bryanwahyu/redflag-scanner/internal/domain/analysis"
)

// ErrAnalyzeFailed is the single user-facing message for any failure.
const ErrAnalyzeFailed = "Failed to analyze profile. Please try again."

// State is a snapshot of the invoker. Raw is the response body as the
// server sent it; Analysis is a best-effort typed view of it.
type State struct {
	Analysis  *analysis.Result
	Raw       json.RawMessage
	IsLoading bool
	Error     string
}

type Options struct {
	HTTPClient *http.Client
	MediaType  string // default image/jpeg
	Profile    analysis.Profile
	Logger     *zap.Logger
}

// Invoker mediates analysis calls for a UI. Starting a call supersedes any
// call still in flight: its context is cancelled and whatever it returns is
// dropped, so the state always reflects the most recently issued call.
type Invoker struct {
	endpoint  string
	http      *http.Client
	mediaType string
	profile   analysis.Profile
	log       *zap.Logger

	mu        sync.Mutex
	state     State
	gen       uint64
	cancel    context.CancelFunc
	listeners []func(State)
}

func New(endpoint string, opts Options) *Invoker {
	inv := &Invoker{
		endpoint:  endpoint,
		http:      opts.HTTPClient,
		mediaType: opts.MediaType,
		profile:   opts.Profile,
		log:       opts.Logger,
	}
	if inv.http == nil {
		inv.http = http.DefaultClient
	}
	if inv.mediaType == "" {
		inv.mediaType = analysis.DefaultMediaType
	}
	if inv.log == nil {
		inv.log = zap.NewNop()
	}
	return inv
}

// State returns a copy of the current state.
func (i *Invoker) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// OnChange registers fn to be called with every new state. fn runs on the
// goroutine that changed the state and must not call back into the invoker
// synchronously.
func (i *Invoker) OnChange(fn func(State)) {
	i.mu.Lock()
	i.listeners = append(i.listeners, fn)
	i.mu.Unlock()
}

// AnalyzeProfile posts the image and blocks until the call finishes or is
// superseded. On failure the previous analysis is kept.
func (i *Invoker) AnalyzeProfile(ctx context.Context, imageBase64 string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	i.mu.Lock()
	if i.cancel != nil {
		i.cancel()
	}
	i.gen++
	gen := i.gen
	i.cancel = cancel
	i.state.IsLoading = true
	i.state.Error = ""
	i.notifyLocked()
	i.mu.Unlock()

	result, raw, err := i.post(ctx, imageBase64)

	i.mu.Lock()
	defer i.mu.Unlock()
	if gen != i.gen {
		i.log.Debug("dropping superseded analysis", zap.Uint64("generation", gen))
		return
	}
	i.cancel = nil
	if err != nil {
		i.log.Warn("analysis request failed", zap.Error(err))
		i.state.Error = ErrAnalyzeFailed
	} else {
		i.state.Analysis = result
		i.state.Raw = raw
	}
	i.state.IsLoading = false
	i.notifyLocked()
}

// ClearAnalysis drops the stored analysis and error. It leaves IsLoading
// and any in-flight call alone.
func (i *Invoker) ClearAnalysis() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.state.Analysis = nil
	i.state.Raw = nil
	i.state.Error = ""
	i.notifyLocked()
}

func (i *Invoker) notifyLocked() {
	s := i.state
	for _, fn := range i.listeners {
		fn(s)
	}
}

func (i *Invoker) post(ctx context.Context, imageBase64 string) (*analysis.Result, json.RawMessage, error) {
	payload, err := json.Marshal(analysis.Request{
		Image:     imageBase64,
		MediaType: i.mediaType,
		Profile:   i.profile,
	})
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("analysis failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read analysis: %w", err)
	}
	result, err := decodeResult(body)
	if err != nil {
		return nil, nil, err
	}
	return result, json.RawMessage(body), nil
}

// decodeResult only requires body to be JSON. Fields with unexpected types
// are left at their zero value in the view.
func decodeResult(body []byte) (*analysis.Result, error) {
	if !json.Valid(body) {
		return nil, errors.New("decode analysis: response is not JSON")
	}
	var result analysis.Result
	if err := json.Unmarshal(body, &result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
	}
	return &result, nil
}
