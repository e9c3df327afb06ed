package utils

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/mo"
)

// ErrNoCandidate marks an attempt that completed but produced nothing usable.
// It is logged quieter than transport or decode failures.
var ErrNoCandidate = errors.New("no usable candidate")

// Attempt is one named step of a first-success chain.
type Attempt[T any] struct {
	Name string
	Run  func(ctx context.Context) mo.Result[T]
}

// AttemptError captures one failed attempt.
type AttemptError struct {
	Name string
	Err  error
}

func (e AttemptError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e AttemptError) Unwrap() error { return e.Err }

// FirstSuccess runs attempts in order and stops at the first Ok result.
// Failures are logged and collected; they never abort the chain. A done
// context ends the chain early and is recorded as a failure of the attempt
// that would have run next.
func FirstSuccess[T any](ctx context.Context, log *slog.Logger, kind string, attempts []Attempt[T]) (mo.Option[T], []AttemptError) {
	if log == nil {
		log = slog.Default()
	}
	var failed []AttemptError
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			failed = append(failed, AttemptError{Name: a.Name, Err: err})
			log.Debug("attempt chain stopped", "kind", kind, "next", a.Name, "err", err)
			break
		}

		v, err := a.Run(ctx).Get()
		if err == nil {
			log.Debug("attempt succeeded", "kind", kind, "name", a.Name, "failedBefore", len(failed))
			return mo.Some(v), failed
		}

		failed = append(failed, AttemptError{Name: a.Name, Err: err})
		if errors.Is(err, ErrNoCandidate) {
			log.Debug("attempt yielded nothing", "kind", kind, "name", a.Name, "err", err)
		} else {
			log.Warn("attempt failed", "kind", kind, "name", a.Name, "err", err)
		}
	}
	return mo.None[T](), failed
}
