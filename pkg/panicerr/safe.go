// Package panicerr turns panics into ordinary errors so one failing unit of
// work cannot take down its caller.
package panicerr

import (
	"context"

	"github.com/sourcegraph/conc/panics"
)

func try(fn func() error) error {
	var (
		catcher panics.Catcher
		err     error
	)
	catcher.Try(func() { err = fn() })
	if r := catcher.Recovered(); r != nil {
		// The recovered error carries the value and the stack.
		return r.AsError()
	}
	return err
}

// Safe wraps fn so a panic comes back as its error.
func Safe(fn func() error) func() error {
	return func() error { return try(fn) }
}

// SafeContext is Safe for functions that take a context, such as
// conc pool tasks.
func SafeContext(fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		return try(func() error { return fn(ctx) })
	}
}
