package splitter

import (
	"strings"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/oaserrors"
)

// Strategy selects how operations are partitioned.
type Strategy string

const (
	// StrategyByTag groups operations by their first tag.
	StrategyByTag Strategy = "by-tag"
	// StrategyByPathPrefix groups operations by the first path segment.
	StrategyByPathPrefix Strategy = "by-path-prefix"
	// StrategyBySize closes a unit every MaxOperations operations.
	StrategyBySize Strategy = "by-size"
)

// ValidStrategies returns the canonical strategy names.
func ValidStrategies() []string {
	return []string{string(StrategyByTag), string(StrategyByPathPrefix), string(StrategyBySize)}
}

// ParseStrategy accepts canonical names and the short aliases tags, path
// and size.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "by-tag", "tags", "tag":
		return StrategyByTag, nil
	case "by-path-prefix", "path", "prefix":
		return StrategyByPathPrefix, nil
	case "by-size", "size":
		return StrategyBySize, nil
	}
	return "", &oaserrors.ConfigError{
		Option:  "strategy",
		Value:   s,
		Message: "must be one of " + strings.Join(ValidStrategies(), ", "),
	}
}

// Numbering selects how sub-units of an oversized group are named.
type Numbering string

const (
	// NumberingPerGroup names sub-units users_part1, users_part2.
	NumberingPerGroup Numbering = "per-group"
	// NumberingGlobal names sub-units part001, part002 across all groups.
	NumberingGlobal Numbering = "global"
)

// ParseNumbering parses a numbering scheme name.
func ParseNumbering(s string) (Numbering, error) {
	switch Numbering(strings.ToLower(s)) {
	case NumberingPerGroup:
		return NumberingPerGroup, nil
	case NumberingGlobal:
		return NumberingGlobal, nil
	}
	return "", &oaserrors.ConfigError{Option: "numbering", Value: s, Message: "must be per-group or global"}
}

// ResidualUnitName names the zero-operation unit that carries everything
// no operation unit needs.
const ResidualUnitName = "components"

// Config holds split settings.
type Config struct {
	Strategy Strategy
	// MaxOperations caps operations per unit. Zero disables sub-splitting
	// for by-tag and by-path-prefix; by-size requires a positive value.
	MaxOperations int
	Numbering     Numbering
	// Residual emits the residual unit. Without it unreferenced components,
	// unused tags and webhooks are dropped.
	Residual bool
	// Format is the unit file format.
	Format document.Format
	// Source names the input document in the manifest.
	Source string
	Logger document.Logger
}

// DefaultConfig returns the defaults: by-path-prefix, 30 operations per
// unit, per-group numbering, residual unit on, JSON output.
func DefaultConfig() Config {
	return Config{
		Strategy:      StrategyByPathPrefix,
		MaxOperations: 30,
		Numbering:     NumberingPerGroup,
		Residual:      true,
		Format:        document.FormatJSON,
		Logger:        document.NopLogger{},
	}
}

// Validate reports the first invalid setting as a *oaserrors.ConfigError.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyByTag, StrategyByPathPrefix, StrategyBySize:
	default:
		return &oaserrors.ConfigError{Option: "strategy", Value: string(c.Strategy), Message: "must be one of " + strings.Join(ValidStrategies(), ", ")}
	}
	if c.MaxOperations < 0 {
		return &oaserrors.ConfigError{Option: "max-operations", Value: c.MaxOperations, Message: "must not be negative"}
	}
	if c.Strategy == StrategyBySize && c.MaxOperations == 0 {
		return &oaserrors.ConfigError{Option: "max-operations", Value: 0, Message: "by-size requires a positive value"}
	}
	if c.Numbering != NumberingPerGroup && c.Numbering != NumberingGlobal {
		return &oaserrors.ConfigError{Option: "numbering", Value: string(c.Numbering), Message: "must be per-group or global"}
	}
	if c.Format != document.FormatJSON && c.Format != document.FormatYAML {
		return &oaserrors.ConfigError{Option: "format", Value: string(c.Format), Message: "must be json or yaml"}
	}
	return nil
}

// Option configures a split.
type Option func(*Config) error

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) error {
		*c = cfg
		return nil
	}
}

// WithStrategy sets the partitioning strategy.
func WithStrategy(s Strategy) Option {
	return func(c *Config) error {
		c.Strategy = s
		return nil
	}
}

// WithMaxOperations sets the per-unit operation ceiling.
func WithMaxOperations(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return &oaserrors.ConfigError{Option: "max-operations", Value: n, Message: "must not be negative"}
		}
		c.MaxOperations = n
		return nil
	}
}

// WithNumbering sets the sub-unit numbering scheme.
func WithNumbering(n Numbering) Option {
	return func(c *Config) error {
		c.Numbering = n
		return nil
	}
}

// WithResidual toggles the residual unit.
func WithResidual(enabled bool) Option {
	return func(c *Config) error {
		c.Residual = enabled
		return nil
	}
}

// WithFormat sets the unit file format.
func WithFormat(f document.Format) Option {
	return func(c *Config) error {
		c.Format = f
		return nil
	}
}

// WithSource names the input document in the manifest.
func WithSource(source string) Option {
	return func(c *Config) error {
		c.Source = source
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
