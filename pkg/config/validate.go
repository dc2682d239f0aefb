package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the configuration for invalid or inconsistent values.
//
// Struct-level constraints are expressed as `validate` tags on the config
// types; cross-field rules that tags cannot express are checked explicitly.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("invalid value for %s: failed %q constraint", e.Namespace(), e.Tag())
		}
		return err
	}

	if err := cfg.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := cfg.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Port == cfg.API.Port {
		return fmt.Errorf("metrics port %d conflicts with api port", cfg.Metrics.Port)
	}

	return nil
}
