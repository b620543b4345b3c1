package api

import (
	"context"
	"errors"

	"github.com/fulldump/box"
	"golang.org/x/time/rate"
)

var ErrTooManyRequests = errors.New("too many requests")

// RateLimit rejects requests once the limiter runs out of tokens. A nil
// limiter lets everything through.
func RateLimit(limiter *rate.Limiter) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			if limiter != nil && !limiter.Allow() {
				box.SetError(ctx, ErrTooManyRequests)
				return
			}
			next(ctx)
		}
	}
}
