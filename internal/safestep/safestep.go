// Package safestep provides a panic-recovering guard for sequential smoke steps.
package safestep

import (
	"fmt"
	"log/slog"
)

// Run invokes fn and returns its error. If fn panics, the panic is recovered,
// logged with the operation name, and returned as an error rather than
// crashing the process. The harness must survive anything a misbehaving
// service can put in a response body, so every step runs under this guard.
func Run(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered panic in smoke step", "operation", op, "panic", r)
			err = fmt.Errorf("panic in %s: %v", op, r)
		}
	}()
	return fn()
}
