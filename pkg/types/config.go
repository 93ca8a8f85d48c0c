package types

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds backend selection and engine parameters for Board.Attach and
// the command-line tool.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// LogLevel is one of debug, info, warn, error. Empty means info.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`

	// DuplicateOffset is added to x and y of every duplicated element.
	DuplicateOffset float64 `json:"duplicate_offset,omitempty" yaml:"duplicate_offset,omitempty" validate:"gte=0,lte=10000"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultDuplicateOffset is half the default grid size.
const DefaultDuplicateOffset = 10

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrConfigInvalid  = errors.New("invalid configuration")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the Config is well-formed. Backend problems return the
// backend sentinels; every other field failure wraps ErrConfigInvalid.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return nil
}

// ValidateElement checks the structural fields of an element read from an
// external source: required ID and type, a recognized type, and well-formed
// bound element entries.
func ValidateElement(e *Element) error {
	if e == nil {
		return ErrInvalidData
	}
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if !IsValidElementType(e.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidType, e.Type)
	}
	return nil
}
