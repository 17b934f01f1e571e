// Package diagnostics carries the engine's ambient logging and panic
// conventions. The teacher repo (github.com/james-darko/sqlt) has no
// structured-logging dependency of its own — it is a library meant to be
// embedded, not a server — so Ferrum keeps this one ambient concern on the
// standard log package rather than inventing a dependency for it, and
// mirrors the teacher's Must/Mustv panic-wrapping convention from
// handle.go/sqler.go for the handful of invariant violations that should
// never occur in a correctly driven engine.
package diagnostics

import (
	"log"
	"os"
)

var logger = log.New(os.Stderr, "", log.LstdFlags)

// Warnf logs an operator-facing warning, e.g. a table created without a
// primary key (spec.md §4.3: "a warning is logged").
func Warnf(format string, args ...any) {
	logger.Printf("warn: "+format, args...)
}

// Must panics if err is non-nil. Reserved for invariants the engine itself
// is responsible for, never for user-triggered errors.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Mustv is Must for a (value, error) pair.
func Mustv[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}
