package validator

import "github.com/erraggy/oassplit/document"

// Option configures a Validator
type Option func(*Validator)

// WithIncludeWarnings enables or disables best practice warnings
// Default: true
func WithIncludeWarnings(enabled bool) Option {
	return func(v *Validator) { v.IncludeWarnings = enabled }
}

// WithStrictMode enables or disables checks beyond the OpenAPI requirements
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(v *Validator) { v.StrictMode = enabled }
}

// WithLogger sets the logger. Default: no logging.
func WithLogger(l document.Logger) Option {
	return func(v *Validator) { v.Logger = document.LoggerOrNop(l) }
}
