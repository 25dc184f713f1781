package merger

import (
	"strings"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/naming"
	"github.com/erraggy/oassplit/oaserrors"
	"github.com/erraggy/oassplit/validator"
)

// Policy decides what happens when two units define the same component
// with different bodies.
type Policy string

const (
	// PolicyKeepFirst retains the earliest body.
	PolicyKeepFirst Policy = "keep-first"
	// PolicyKeepLast retains the latest body.
	PolicyKeepLast Policy = "keep-last"
	// PolicyRename gives the later body a new identity and rewrites the
	// references of its unit.
	PolicyRename Policy = "rename"
	// PolicyFail aborts the merge listing every conflicting identity.
	PolicyFail Policy = "fail"
)

// ValidPolicies returns the canonical policy names.
func ValidPolicies() []string {
	return []string{string(PolicyKeepFirst), string(PolicyKeepLast), string(PolicyRename), string(PolicyFail)}
}

// ParsePolicy accepts canonical names and the aliases keep_first, keep_last
// and error.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "keep-first", "keep_first":
		return PolicyKeepFirst, nil
	case "keep-last", "keep_last":
		return PolicyKeepLast, nil
	case "rename":
		return PolicyRename, nil
	case "fail", "error":
		return PolicyFail, nil
	}
	return "", &oaserrors.ConfigError{
		Option:  "conflict-strategy",
		Value:   s,
		Message: "must be one of " + strings.Join(ValidPolicies(), ", "),
	}
}

// Validator checks the assembled document. Issues are surfaced on the
// result and never fixed.
type Validator interface {
	Validate(doc *document.Document) *validator.Result
}

// Config holds merge settings.
type Config struct {
	Policy Policy
	// RenameTemplate names renamed components under PolicyRename.
	// Empty means naming.DefaultRenameTemplate.
	RenameTemplate string
	// PreserveExternal keeps references to files outside the manifest
	// instead of failing with a manifest mismatch.
	PreserveExternal bool
	Validator        Validator
	Logger           document.Logger
}

// DefaultConfig returns the defaults: keep-first, default rename template,
// external references outside the manifest rejected, no validator.
func DefaultConfig() Config {
	return Config{
		Policy: PolicyKeepFirst,
		Logger: document.NopLogger{},
	}
}

// Validate reports the first invalid setting as a *oaserrors.ConfigError.
func (c Config) Validate() error {
	switch c.Policy {
	case PolicyKeepFirst, PolicyKeepLast, PolicyRename, PolicyFail:
	default:
		return &oaserrors.ConfigError{Option: "conflict-strategy", Value: string(c.Policy), Message: "must be one of " + strings.Join(ValidPolicies(), ", ")}
	}
	if _, err := naming.ParseTemplate(c.RenameTemplate); err != nil {
		return &oaserrors.ConfigError{Option: "rename-template", Value: c.RenameTemplate, Message: "invalid template", Cause: err}
	}
	return nil
}

// Option configures a merge.
type Option func(*Config) error

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) error {
		*c = cfg
		return nil
	}
}

// WithPolicy sets the conflict policy.
func WithPolicy(p Policy) Option {
	return func(c *Config) error {
		c.Policy = p
		return nil
	}
}

// WithRenameTemplate sets the template for renamed components, for example
// "{{.Name}}_{{.Source}}". It must use .Index or .Source.
func WithRenameTemplate(tmpl string) Option {
	return func(c *Config) error {
		c.RenameTemplate = tmpl
		return nil
	}
}

// WithPreserveExternal keeps references to files outside the manifest.
func WithPreserveExternal(preserve bool) Option {
	return func(c *Config) error {
		c.PreserveExternal = preserve
		return nil
	}
}

// WithValidator runs v on the assembled document.
func WithValidator(v Validator) Option {
	return func(c *Config) error {
		c.Validator = v
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l document.Logger) Option {
	return func(c *Config) error {
		c.Logger = document.LoggerOrNop(l)
		return nil
	}
}

func applyOptions(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return cfg, err
		}
	}
	cfg.Logger = document.LoggerOrNop(cfg.Logger)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
