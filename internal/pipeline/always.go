package pipeline

import "context"

// Always runs action and then next with action's result.
// next runs whether action succeeded or not; its error is returned.
func Always(
	ctx context.Context,
	action func(context.Context) error,
	next func(context.Context, error) error,
) error {
	return next(ctx, action(ctx))
}
