package clock

import (
	"context"
	"time"
)

type SystemClock struct{}

func (SystemClock) Now(ctx context.Context) time.Time {
	if t, ok := asOfFromContext(ctx); ok {
		return t
	}
	return time.Now().UTC()
}

type asOfKey struct{}

// WithAsOf pins SystemClock to t for calls made with the returned context.
// The ledger CLI uses it to render balances as of a past date.
func WithAsOf(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, asOfKey{}, t.UTC())
}

func asOfFromContext(ctx context.Context) (time.Time, bool) {
	if ctx == nil {
		return time.Time{}, false
	}
	t, ok := ctx.Value(asOfKey{}).(time.Time)
	return t, ok
}

// Fixed always reports the same instant.
type Fixed time.Time

func (f Fixed) Now(context.Context) time.Time {
	return time.Time(f)
}
