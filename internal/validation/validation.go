// Package validation supplies the *validator* interface §1 says the core
// consumes rather than implements: attribute-based input validation rules
// are an external collaborator, so handlers depend on this narrow
// contract instead of go-playground/validator's concrete type directly.
package validation

import "github.com/go-playground/validator/v10"

// Validator is the narrow surface every HTTP handler in this example app
// needs: struct-tag validation of a decoded request body.
type Validator interface {
	Struct(s any) error
}

// New returns the go-playground/validator adapter, the same validation
// engine the teacher's handlers constructed inline.
func New() Validator {
	return validator.New()
}
