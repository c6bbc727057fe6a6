package weather

import (
	"context"
	"sync"
)

// LatestResolver keeps at most one resolution in flight. A new Resolve
// cancels the previous one instead of queueing behind it, and the
// superseded call reports ErrSuperseded even if its provider answered.
type LatestResolver struct {
	inner GeoResolver

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewLatestResolver wraps inner.
func NewLatestResolver(inner GeoResolver) *LatestResolver {
	return &LatestResolver{inner: inner}
}

// Resolve implements GeoResolver.
func (r *LatestResolver) Resolve(ctx context.Context, c Coordinate) (*Place, error) {
	ctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	mine := r.seq
	r.cancel = cancel
	r.mu.Unlock()

	place, err := r.inner.Resolve(ctx, c)

	r.mu.Lock()
	stale := r.seq != mine
	if !stale {
		r.cancel = nil
	}
	r.mu.Unlock()
	cancel()

	if stale {
		return nil, ErrSuperseded
	}
	return place, err
}
