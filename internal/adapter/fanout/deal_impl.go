package fanout

import (
	"context"
	"errors"

	"github.com/user/resale-arbitrage/internal/entity"
	"github.com/user/resale-arbitrage/internal/repository"
)

// DealRepo saves every deal to each of its sinks in order. A failing sink
// does not stop the others; their errors are joined.
type DealRepo struct {
	sinks []repository.DealRepository
}

// NewDealRepo creates a fan-out over the non-nil sinks.
func NewDealRepo(sinks ...repository.DealRepository) *DealRepo {
	r := &DealRepo{}
	for _, s := range sinks {
		if s != nil {
			r.sinks = append(r.sinks, s)
		}
	}
	return r
}

func (r *DealRepo) Save(ctx context.Context, deal *entity.Deal) error {
	var errs []error
	for _, s := range r.sinks {
		if err := s.Save(ctx, deal); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
