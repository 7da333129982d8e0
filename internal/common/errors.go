package common

import "errors"

// Error categories surfaced by services. Handlers map these to HTTP status
// codes with errors.Is; the wrapped cause is logged server-side only.
var (
	// ErrValidation marks missing or malformed client input (always 400).
	ErrValidation = errors.New("validation error")

	// ErrUpstreamFetch marks an unreachable or non-2xx upstream (502).
	ErrUpstreamFetch = errors.New("upstream fetch error")

	// ErrParse marks malformed or unsupported PDF content (500).
	ErrParse = errors.New("parse error")

	// ErrProviderStream marks an LLM failure mid-stream, reported as a
	// single in-band error frame rather than an HTTP status.
	ErrProviderStream = errors.New("provider stream error")
)
