package services

import "context"

// step is one stage of a submit/edit/delete flow. A step that fails stops
// the flow; the steps before it are not undone.
type step[T any] func(ctx context.Context, s *T) error

func runSteps[T any](ctx context.Context, s *T, steps ...step[T]) error {
	for _, st := range steps {
		if err := st(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
