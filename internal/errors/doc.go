// Package errors provides the classified error primitives used across
// mdbook-chapter-zero.
//
// A ClassifiedError carries a category (config, protocol, book, ...), a
// severity, structured context and an optional cause. Categories drive the
// exit code chosen by CLIErrorAdapter, so the host build tool sees a stable
// status for each class of failure.
//
// Example usage:
//
//	err := errors.ConfigError("levels is not a valid array").
//		WithContext("field", "levels").
//		WithContext("value", raw).
//		WithCause(ErrInvalidLevels).
//		Build()
package errors
