package secret

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
)

// ErrNotConfigured is returned when no parameter name is given.
var ErrNotConfigured = errors.New("secret name not configured")

// RetryingResolver retries a flaky backend, typically SSM during a cold
// start, before giving up.
type RetryingResolver struct {
	next     Resolver
	attempts uint
	delay    time.Duration
	log      *slog.Logger
}

// Retrying wraps next so each lookup is tried up to attempts times.
func Retrying(next Resolver, attempts uint, delay time.Duration, log *slog.Logger) *RetryingResolver {
	if attempts == 0 {
		attempts = 1
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RetryingResolver{next: next, attempts: attempts, delay: delay, log: log}
}

// GetSecret resolves name, retrying transient failures until attempts run
// out or ctx ends. ErrNotFound is returned at once.
func (r *RetryingResolver) GetSecret(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", ErrNotConfigured
	}

	var value string
	err := retry.Do(
		func() error {
			v, err := r.next.GetSecret(ctx, name)
			if err != nil {
				return err
			}
			value = v
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return !errors.Is(err, ErrNotFound) }),
		retry.OnRetry(func(attempt uint, err error) {
			r.log.WarnContext(ctx, "failed to resolve secret",
				slog.String("name", name),
				slog.Any("err", err),
				slog.Uint64("attempt", uint64(attempt)),
			)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("resolve secret %q: %w", name, err)
	}
	return value, nil
}
