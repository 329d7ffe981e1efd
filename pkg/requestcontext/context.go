// Package requestcontext carries request-scoped values through context without
// depending on net/http, so the reconcile service and the scheduler can share
// the same clock and identity accessors as the HTTP layer.
package requestcontext

import (
	"context"
	"time"

	id "corpstats/pkg/domain"
)

type key int

const (
	keyUserID key = iota
	keyRequestID
	keyTime
)

func value[T any](ctx context.Context, k key) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

// UserID returns the authenticated user, or zero outside an authenticated request.
func UserID(ctx context.Context) id.UserID {
	userID, _ := value[id.UserID](ctx, keyUserID)
	return userID
}

func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, keyUserID, userID)
}

func RequestID(ctx context.Context) string {
	requestID, _ := value[string](ctx, keyRequestID)
	return requestID
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

// Now returns the time pinned on ctx, or the wall clock when none is set.
// A sync run pins one time so every snapshot it writes shares last_update.
func Now(ctx context.Context) time.Time {
	if t, ok := value[time.Time](ctx, keyTime); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the clock returned by Now.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, keyTime, t)
}
