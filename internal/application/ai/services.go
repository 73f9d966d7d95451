package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bryanwahyu/redflag-scanner/internal/application"
	domai "github.com/bryanwahyu/redflag-scanner/internal/domain/ai"
	"github.com/bryanwahyu/redflag-scanner/internal/domain/analysis"
	"github.com/bryanwahyu/redflag-scanner/internal/infra/ai/prompt"
	"github.com/bryanwahyu/redflag-scanner/internal/logger"
)

const defaultMaxOutputTokens = 2000

// Service runs one analysis per call. It keeps no state between requests
// and is safe for concurrent use.
type Service struct {
	client    domai.Client
	profile   analysis.Profile
	maxTokens int
	clock     application.Clock
}

// Options tune the service. Zero values pick defaults.
type Options struct {
	Profile         analysis.Profile
	MaxOutputTokens int
	Clock           application.Clock
}

func NewService(client domai.Client, opts Options) *Service {
	s := &Service{
		client:    client,
		profile:   opts.Profile,
		maxTokens: opts.MaxOutputTokens,
		clock:     opts.Clock,
	}
	if !s.profile.Valid() {
		s.profile = analysis.DefaultProfile
	}
	if s.maxTokens <= 0 {
		s.maxTokens = defaultMaxOutputTokens
	}
	if s.clock == nil {
		s.clock = application.SystemClock{}
	}
	return s
}

// Profile returns the profile used when a request does not pick one.
func (s *Service) Profile() analysis.Profile { return s.profile }

// Analyze validates req, calls the provider once and returns the model's
// JSON text verbatim. Failures are always *analysis.Error.
func (s *Service) Analyze(ctx context.Context, req analysis.Request) (json.RawMessage, error) {
	log := logger.FromContext(ctx)

	if req.Image == "" {
		return nil, analysis.InputError(analysis.MsgImageRequired)
	}
	profile := req.Profile
	if profile == "" {
		profile = s.profile
	}
	if !profile.Valid() {
		return nil, analysis.InputErrorWithDetails(analysis.MsgUnknownProfile, string(profile))
	}

	spec := prompt.ForProfile(profile)
	vr := domai.VisionRequest{
		Image:           req.Image,
		MediaType:       req.EffectiveMediaType(),
		Prompt:          spec.Prompt,
		SchemaName:      spec.SchemaName,
		Schema:          &spec.Schema,
		MaxOutputTokens: s.maxTokens,
	}

	start := s.clock.Now()
	resp, err := s.complete(ctx, vr)
	elapsed := application.Elapsed(s.clock, start)
	if err != nil {
		log.Error("Analysis error",
			zap.String("profile", string(profile)),
			zap.Duration("elapsed", elapsed),
			zap.Bool("quota", errors.Is(err, domai.ErrQuotaExceeded)),
			zap.Error(err),
		)
		return nil, analysis.ProviderError(err)
	}

	first, _ := resp.First()
	text := ""
	switch b := first.(type) {
	case domai.TextBlock:
		text = b.Text
	case domai.RefusalBlock, domai.ToolUseBlock, domai.ImageBlock:
		// no text to parse; falls through to the parse error with empty details
		log.Warn("first content block is not text", zap.String("kind", string(b.Kind())))
	default:
		log.Warn("unrecognised content block", zap.String("kind", string(first.Kind())))
	}

	if !json.Valid([]byte(text)) {
		log.Error("Failed to parse response", zap.String("response", text))
		return nil, analysis.ParseError(text, fmt.Errorf("model output is not valid JSON"))
	}

	fields := []zap.Field{
		zap.String("profile", string(profile)),
		zap.String("model", resp.Model),
		zap.Duration("elapsed", elapsed),
	}
	// decoded only for the log line; the body goes out untouched
	var view analysis.Result
	if json.Unmarshal([]byte(text), &view) == nil {
		fields = append(fields,
			zap.Bool("is_valid", view.IsValid),
			zap.Float64("score", view.OverallScore),
			zap.String("band", string(view.Band())),
			zap.Int("red_flags", len(view.RedFlags)),
		)
	}
	log.Info("analysis completed", fields...)

	return json.RawMessage(text), nil
}

// complete calls the provider and turns a panic into an error. A panic
// value that is not an error carries no usable message.
func (s *Service) complete(ctx context.Context, vr domai.VisionRequest) (resp *domai.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = errors.New(analysis.MsgUnknownError)
		}
	}()

	resp, err = s.client.Complete(ctx, vr)
	if err != nil {
		return nil, err
	}
	if _, ok := resp.First(); !ok {
		return nil, domai.ErrNoContent
	}
	return resp, nil
}
