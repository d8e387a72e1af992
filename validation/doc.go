// Package validation validates configuration and other inputs.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Both report a validation
// AppError listing every failing field.
//
// # Struct Tag Validation
//
//	type Timing struct {
//	    Sleep    time.Duration `mapstructure:"sleep" validate:"gte=0"`
//	    Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
//	}
//	err := validation.Validate(timing)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    Required("name", cfg.Name).
//	    Shorter("work", cfg.Work, "timeout", cfg.Timeout).
//	    Validate()
package validation
