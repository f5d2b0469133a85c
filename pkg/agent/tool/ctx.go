package tool

import "context"

// UpdateFunc receives progress messages emitted by tools while they run,
// for surfacing intermediate state to the asking user.
type UpdateFunc func(ctx context.Context, message string)

type updateKey struct{}

// WithUpdate attaches a progress callback to the context.
func WithUpdate(ctx context.Context, fn UpdateFunc) context.Context {
	return context.WithValue(ctx, updateKey{}, fn)
}

// Update reports tool progress through the callback in ctx. Without a
// callback it does nothing, so tools can call it unconditionally.
func Update(ctx context.Context, message string) {
	if fn, ok := ctx.Value(updateKey{}).(UpdateFunc); ok {
		fn(ctx, message)
	}
}
