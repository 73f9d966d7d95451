package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const DefaultMediaType = "image/jpeg"

// Request is the body of POST /analyze.
type Request struct {
	Image     string  `json:"image"`
	MediaType string  `json:"mediaType,omitempty"`
	Profile   Profile `json:"profile,omitempty"`
}

// EffectiveMediaType returns MediaType or the jpeg default.
func (r Request) EffectiveMediaType() string {
	if r.MediaType == "" {
		return DefaultMediaType
	}
	return r.MediaType
}

// wire keeps the fields loose so falsy-but-not-string values (null, false, 0)
// count as missing.
type wire struct {
	Image     json.RawMessage `json:"image"`
	MediaType json.RawMessage `json:"mediaType"`
	Profile   json.RawMessage `json:"profile"`
}

// DecodeRequest reads a request body.
//
// A missing or falsy image is an input error. That includes a JSON body
// that is not an object, since it has no image field. A body that is not
// exactly one JSON value, a null body, or a truthy non-string field is
// reported as a provider-kind failure: that is the "could not analyze"
// path, not a validation error.
func DecodeRequest(body io.Reader) (Request, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return Request{}, ProviderError(fmt.Errorf("read request body: %w", err))
	}
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Request{}, ProviderError(fmt.Errorf("decode request body: %w", err))
	}
	raw = bytes.TrimSpace(raw)
	switch {
	case string(raw) == "null":
		return Request{}, ProviderError(errors.New("request body is null"))
	case raw[0] != '{':
		return Request{}, InputError(MsgImageRequired)
	}

	var w wire
	if err := json.Unmarshal(raw, &w); err != nil {
		return Request{}, ProviderError(fmt.Errorf("decode request body: %w", err))
	}

	var req Request
	image, present, err := stringField("image", w.Image)
	if err != nil {
		return Request{}, ProviderError(err)
	}
	if !present {
		return Request{}, InputError(MsgImageRequired)
	}
	req.Image = image

	mediaType, _, err := stringField("mediaType", w.MediaType)
	if err != nil {
		return Request{}, ProviderError(err)
	}
	req.MediaType = mediaType

	profile, _, err := stringField("profile", w.Profile)
	if err != nil {
		return Request{}, ProviderError(err)
	}
	if profile != "" {
		p := Profile(profile)
		if !p.Valid() {
			return Request{}, InputErrorWithDetails(MsgUnknownProfile, profile)
		}
		req.Profile = p
	}
	return req, nil
}

// stringField reports whether raw holds a truthy value and returns it when
// it is a string. Falsy values are absent, null, false, 0 and "".
func stringField(name string, raw json.RawMessage) (string, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isFalsy(raw) {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", true, fmt.Errorf("%s must be a string", name)
	}
	return s, s != "", nil
}

func isFalsy(raw json.RawMessage) bool {
	switch string(raw) {
	case "null", "false", `""`:
		return true
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n == 0
	}
	return false
}
