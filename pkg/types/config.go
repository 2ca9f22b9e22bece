package types

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Config holds backend selection and parameters for Store.Init.
type Config struct {
	Backend string `json:"backend" yaml:"backend" validate:"required,oneof=sqlite"`
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Name identifies the database within DataDir. Defaults to DefaultName.
	Name string `json:"name,omitempty" yaml:"name,omitempty" validate:"omitempty,excludesall=/\\"`

	// Version is the schema version requested at open. Defaults to
	// SchemaVersion. Opening a database stamped with a newer version fails.
	Version int `json:"version,omitempty" yaml:"version,omitempty" validate:"gte=0"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Database identity used when Config leaves Name or Version unset.
const (
	DefaultName   = "HaldaiOS_DB"
	SchemaVersion = 1
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrNameInvalid    = errors.New("database name must not contain path separators")
	ErrVersionInvalid = errors.New("schema version must be positive")
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// structValidator returns the shared validator instance.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// WithDefaults returns a copy of c with Name and Version filled in.
func (c Config) WithDefaults() Config {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Version == 0 {
		c.Version = SchemaVersion
	}
	return c
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	err := structValidator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Backend":
			if fe.Tag() == "required" {
				return ErrBackendEmpty
			}
			return ErrBackendUnknown
		case "Name":
			return ErrNameInvalid
		case "Version":
			return ErrVersionInvalid
		}
	}
	return err
}
