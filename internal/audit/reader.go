package audit

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/portfolio-cli/internal/model"
	"github.com/sells-group/portfolio-cli/internal/store"
)

// RateLimitedReader paces calls to an underlying store.Reader so a large
// audit does not saturate the database.
type RateLimitedReader struct {
	next    store.Reader
	limiter *rate.Limiter
}

// NewRateLimitedReader wraps next with a limiter of perSecond reads. A
// non-positive rate disables pacing.
func NewRateLimitedReader(next store.Reader, perSecond float64) *RateLimitedReader {
	limit, burst := rate.Inf, 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = max(1, int(perSecond))
	}
	return &RateLimitedReader{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (r *RateLimitedReader) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "audit: rate limiter wait")
	}
	return nil
}

// ListProperties implements store.Reader.
func (r *RateLimitedReader) ListProperties(ctx context.Context, f store.PropertyFilter) ([]model.Property, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.ListProperties(ctx, f)
}

// ListOccupants implements store.Reader.
func (r *RateLimitedReader) ListOccupants(ctx context.Context, propertyIDs []int64) ([]model.Occupant, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.ListOccupants(ctx, propertyIDs)
}

// ListCategories implements store.Reader.
func (r *RateLimitedReader) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.next.ListCategories(ctx)
}
