package types

import "errors"

// Config holds backend selection and the authoring options shared by the
// engine.
type Config struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// BaselineVariant names the first variant column of every category
	// created in the application.
	BaselineVariant string `json:"baseline_variant" yaml:"baseline_variant" mapstructure:"baseline_variant"`

	// PreconditionSkip suppresses the numbered precondition line of the TCG
	// description when the precondition contains it (case-insensitive).
	// Empty disables suppression.
	PreconditionSkip string `json:"precondition_skip_substring" yaml:"precondition_skip_substring" mapstructure:"precondition_skip_substring"`
}

// Supported backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Defaults applied by DefaultConfig.
const (
	DefaultBaselineVariant  = "Default Value"
	DefaultPreconditionSkip = "call"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrBaselineEmpty  = errors.New("baseline variant must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendJSON:   true,
	BackendSQLite: true,
}

// DefaultConfig returns a JSON-backed config rooted at dataDir.
func DefaultConfig(dataDir string) Config {
	return Config{
		Backend:          BackendJSON,
		DataDir:          dataDir,
		BaselineVariant:  DefaultBaselineVariant,
		PreconditionSkip: DefaultPreconditionSkip,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.BaselineVariant == "" {
		return ErrBaselineEmpty
	}
	return nil
}
