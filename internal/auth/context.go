package auth

import "context"

type contextKey struct{}

// WithActor returns a context carrying the resolved actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// FromContext returns the actor stored in ctx, or Anonymous when the
// identity middleware did not run.
func FromContext(ctx context.Context) Actor {
	if actor, ok := ctx.Value(contextKey{}).(Actor); ok {
		return actor
	}
	return Anonymous()
}
