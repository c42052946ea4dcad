package auth

import (
	"context"

	"bookcatalog/internal/policy"
)

type ctxKey string

const actorKey ctxKey = "actor"

func WithActor(ctx context.Context, a policy.Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// FromContext returns the authenticated actor, or the anonymous actor.
func FromContext(ctx context.Context) policy.Actor {
	if v, ok := ctx.Value(actorKey).(policy.Actor); ok {
		return v
	}
	return policy.Actor{}
}
