package analysis

import "net/http"

// Messages returned to clients. They are part of the HTTP contract.
const (
	MsgImageRequired  = "Image data is required"
	MsgUnknownProfile = "Unknown analysis profile"
	MsgParseFailed    = "Failed to parse analysis results"
	MsgAnalyzeFailed  = "Failed to analyze image"
	MsgUnknownError   = "Unknown error"
)

// ErrorKind classifies a failed analysis.
type ErrorKind string

const (
	KindInput    ErrorKind = "input"
	KindProvider ErrorKind = "provider"
	KindParse    ErrorKind = "parse"
)

// Error is a terminal failure of one analysis request.
type Error struct {
	Kind    ErrorKind
	Message string
	// Details goes to the client as-is. HasDetails distinguishes "" from absent.
	Details    string
	HasDetails bool
	Err        error
}

func (e *Error) Error() string {
	if e.HasDetails && e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the kind onto an HTTP status.
func (e *Error) StatusCode() int {
	if e.Kind == KindInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Response renders the error body.
func (e *Error) Response() ErrorResponse {
	resp := ErrorResponse{Error: e.Message}
	if e.HasDetails {
		d := e.Details
		resp.Details = &d
	}
	return resp
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string  `json:"error"`
	Details *string `json:"details,omitempty"`
}

// ErrImageRequired is the missing-image input error. Compare with errors.Is.
var ErrImageRequired = &Error{Kind: KindInput, Message: MsgImageRequired}

// Is matches on kind and message so callers can compare against sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func InputError(msg string) *Error {
	return &Error{Kind: KindInput, Message: msg}
}

func InputErrorWithDetails(msg, details string) *Error {
	return &Error{Kind: KindInput, Message: msg, Details: details, HasDetails: true}
}

// ProviderError wraps anything that went wrong before the model text was
// available. Details carries err's message.
func ProviderError(err error) *Error {
	details := MsgUnknownError
	if err != nil {
		details = err.Error()
	}
	return &Error{Kind: KindProvider, Message: MsgAnalyzeFailed, Details: details, HasDetails: true, Err: err}
}

// ParseError reports model text that is not JSON; raw is echoed back.
func ParseError(raw string, err error) *Error {
	return &Error{Kind: KindParse, Message: MsgParseFailed, Details: raw, HasDetails: true, Err: err}
}
