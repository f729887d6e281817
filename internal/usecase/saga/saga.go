// Package saga keeps the compensating actions of a multi-step workflow that
// has no single enclosing transaction.
package saga

import (
	"context"
	"log/slog"

	"storefront-core/internal/pkg/errs"
)

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

// Saga accumulates one compensation per successful forward step.
type Saga struct {
	name   string
	logger *slog.Logger
	steps  []compensation
}

func New(name string, logger *slog.Logger) *Saga {
	if logger == nil {
		logger = slog.Default()
	}
	return &Saga{name: name, logger: logger}
}

// Push registers the undo of a step that has just succeeded.
func (s *Saga) Push(name string, undo func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, undo: undo})
}

func (s *Saga) Len() int {
	return len(s.steps)
}

// Forget drops every registered compensation. Used once the workflow passes a
// point after which it is no longer rolled back.
func (s *Saga) Forget() {
	s.steps = nil
}

// Compensate runs the registered undos in reverse order. It keeps going after
// a failed undo and returns every failure joined. The caller's cancellation
// does not stop compensation.
func (s *Saga) Compensate(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	var failures []error
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			s.logger.ErrorContext(ctx, "compensation failed",
				slog.String("saga", s.name),
				slog.String("step", step.name),
				slog.String("error", err.Error()))
			failures = append(failures, err)
			continue
		}
		s.logger.InfoContext(ctx, "compensation applied",
			slog.String("saga", s.name),
			slog.String("step", step.name))
	}
	s.steps = nil
	return errs.Join(failures...)
}
