// Package validator provides a small validation abstraction for request
// structs.
//
// Business code depends on the Validator interface so validation stays
// shared and testable. The concrete implementation is backed by
// go-playground/validator v10 with English translations.
package validator

// Validator validates a struct and returns a descriptive error on failure.
type Validator interface {
	Validate(data any) error
}
