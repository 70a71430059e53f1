package checkout

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
)

const (
	orderNumberPrefix = "ORD"
	suffixLength      = 6
	suffixCharset     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// numberExistsFunc reports whether an order number is already taken.
type numberExistsFunc func(ctx context.Context, orderNumber string) (bool, error)

// generateOrderNumber produces ORD/YYYYMMDD/XXXXXX with a random suffix,
// re-checking uniqueness for each candidate. Exhausting every attempt means
// either a broken random source or an absurd coincidence, so it surfaces as
// a fatal error.
func generateOrderNumber(ctx context.Context, now time.Time, attempts int, exists numberExistsFunc) (string, error) {
	if attempts <= 0 {
		attempts = 10
	}

	for i := 0; i < attempts; i++ {
		candidate, err := orderNumberCandidate(now)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating order number")
		}

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking order number uniqueness")
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", pkgerrors.New(pkgerrors.CodeOrderNumberExhausted,
		fmt.Sprintf("order number generation exhausted after %d attempts", attempts))
}

func orderNumberCandidate(now time.Time) (string, error) {
	buf := make([]byte, suffixLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = suffixCharset[int(b)%len(suffixCharset)]
	}
	return fmt.Sprintf("%s/%s/%s", orderNumberPrefix, now.Format("20060102"), string(buf)), nil
}
