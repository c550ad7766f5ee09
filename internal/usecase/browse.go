package usecase

import (
	"context"
	"math/rand"
	"time"

	"github.com/user/resale-arbitrage/internal/repository"
)

const (
	consentTimeout = 5 * time.Second
	jitterFactor   = 0.2 // +/- 20%
)

// dismissConsent clicks a cookie banner button if one shows up in time and
// reports whether it was clicked. A missing banner is normal.
func dismissConsent(ctx context.Context, b repository.Browser, selector string) (bool, error) {
	found, err := b.FindElement(ctx, selector, consentTimeout)
	if err != nil || !found {
		return false, err
	}
	if err := b.Click(ctx, selector); err != nil {
		if isTransport(err) {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// readOptional waits briefly for selector and returns its text, or "" when
// the element never appears.
func readOptional(ctx context.Context, b repository.Browser, selector string, timeout time.Duration) (string, error) {
	found, err := b.FindElement(ctx, selector, timeout)
	if err != nil || !found {
		return "", err
	}
	return b.ReadText(ctx, selector)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// jittered spreads d by jitterFactor in either direction.
func jittered(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	spread := (rand.Float64()*2 - 1) * jitterFactor
	return time.Duration(float64(d) * (1 + spread))
}
