package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrMissingAPIKey is returned by a client built without a credential.
var ErrMissingAPIKey = errors.New("ai provider api key is not configured")

// ErrNoContent means the provider replied without any content block.
var ErrNoContent = errors.New("provider returned no content")
