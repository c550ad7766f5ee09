package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/resale-arbitrage/internal/entity"
	"github.com/user/resale-arbitrage/internal/repository"
	"github.com/user/resale-arbitrage/pkg/metrics"
	"go.uber.org/zap"
)

// Evaluator runs one listing through extract, normalize, resolve and
// reconcile, and records it when profitable.
type Evaluator struct {
	extractor  *Extractor
	normalizer *Normalizer
	resolver   Resolver
	deals      repository.DealRepository
	visited    repository.VisitedRepository
	visitedTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewEvaluator creates an Evaluator. visited may be nil.
func NewEvaluator(
	extractor *Extractor,
	normalizer *Normalizer,
	resolver Resolver,
	deals repository.DealRepository,
	visited repository.VisitedRepository,
	visitedTTL time.Duration,
	logger *zap.Logger,
) *Evaluator {
	return &Evaluator{
		extractor:  extractor,
		normalizer: normalizer,
		resolver:   resolver,
		deals:      deals,
		visited:    visited,
		visitedTTL: visitedTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Evaluate processes l with browser b. It never panics or returns an error;
// every failure becomes an outcome, and the listing's narrative is logged
// as one entry.
func (e *Evaluator) Evaluate(ctx context.Context, b repository.Browser, l *entity.Listing, category string) (outcome entity.Outcome) {
	t := newTrail(l.Link)

	defer func() {
		if r := recover(); r != nil {
			t.add("!! An unexpected error occurred: %v", r)
			outcome = entity.OutcomeFault
		}
		e.finish(ctx, l, category, outcome, t)
	}()

	return e.evaluate(ctx, b, l, category, t)
}

func (e *Evaluator) evaluate(ctx context.Context, b repository.Browser, l *entity.Listing, category string, t *trail) entity.Outcome {
	if e.visited != nil {
		seen, err := e.visited.IsVisited(ctx, l.Link)
		if err != nil {
			t.add("-> Could not check seen listings: %v", err)
		} else if seen {
			t.add("-> Evaluated recently, skipping.")
			return entity.OutcomeSkipped
		}
	}

	start := time.Now()
	err := e.extractor.Extract(ctx, b, l, t)
	observeStep("extract", start)
	switch {
	case errors.Is(err, ErrItemSold):
		t.add("-> Item is sold, skipping.")
		return entity.OutcomeSold
	case isTransport(err):
		t.add("!! Network connection error: %v. The browser session for this worker may have crashed.", err)
		return entity.OutcomeTransportFault
	case err != nil:
		t.add("!! Failed to parse title/price. Skipping. Error: %v", err)
		return entity.OutcomeUnusable
	}

	start = time.Now()
	query, ok := e.normalizer.Normalize(ctx, l, category, t)
	observeStep("normalize", start)
	if !ok {
		t.add("-> No deal for %s (no identifiable product).", l.Title)
		return entity.OutcomeUnidentifiable
	}

	start = time.Now()
	offer, err := e.resolver.Resolve(ctx, b, query, l)
	observeStep("resolve", start)
	metrics.OfferResolutions.WithLabelValues(e.resolver.Strategy(), resolutionResult(err)).Inc()
	if err != nil {
		if isTransport(err) {
			t.add("!! Network connection error while searching CeX for %q: %v. The browser session for this worker may have crashed.", query, err)
			return entity.OutcomeTransportFault
		}
		t.add("-> CeX: no match for %q: %v", query, err)
		t.add("-> No deal for %s (no CeX price found).", l.Title)
		return entity.OutcomeNoMatch
	}
	t.add("-> CeX: Found cash price £%s at %s", offer.Price.StringFixed(2), offer.Link)

	verdict := Reconcile(l, offer)
	if !verdict.Computed {
		t.add("-> No deal for %s (no postage info found).", l.Title)
		return entity.OutcomeNoPostage
	}
	t.add("-> Reconciled: %s", describeVerdict(verdict))
	if !verdict.Recordable {
		t.add("❌ Loss: £%s for %s", verdict.Profit.Abs().StringFixed(2), l.Title)
		return entity.OutcomeLoss
	}

	t.add("✅ PROFIT FOUND: £%s for %s", verdict.Profit.StringFixed(2), l.Title)
	deal := &entity.Deal{
		ID:        uuid.NewString(),
		FoundAt:   e.now(),
		Category:  category,
		Listing:   *l,
		Offer:     *offer,
		TotalCost: verdict.TotalCost,
		Profit:    verdict.Profit,
	}
	if err := e.deals.Save(ctx, deal); err != nil {
		t.add("!! Failed to record deal: %v", err)
	}
	profit, _ := verdict.Profit.Float64()
	metrics.DealProfit.Observe(profit)
	return entity.OutcomeProfit
}

func (e *Evaluator) finish(ctx context.Context, l *entity.Listing, category string, outcome entity.Outcome, t *trail) {
	if e.visited != nil && settled(outcome) {
		if err := e.visited.MarkVisited(ctx, l.Link, e.visitedTTL); err != nil {
			t.add("-> Could not mark listing as seen: %v", err)
		}
	}
	metrics.ListingsProcessed.WithLabelValues(string(outcome)).Inc()

	fields := []zap.Field{
		zap.String("link", l.Link),
		zap.String("category", category),
		zap.String("outcome", string(outcome)),
		t.field(),
	}
	switch outcome {
	case entity.OutcomeTransportFault, entity.OutcomeFault:
		e.logger.Warn("listing failed", fields...)
	default:
		e.logger.Info("listing evaluated", fields...)
	}
}

// settled reports whether a listing reached a verdict worth remembering.
func settled(o entity.Outcome) bool {
	switch o {
	case entity.OutcomeSkipped, entity.OutcomeTransportFault, entity.OutcomeFault:
		return false
	}
	return true
}

func observeStep(step string, start time.Time) {
	metrics.StepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}

// describeVerdict summarizes a verdict in one line.
func describeVerdict(v entity.Verdict) string {
	if !v.Computed {
		return "not computed"
	}
	return fmt.Sprintf("fee £%s, total £%s, profit £%s", v.Fee.StringFixed(2), v.TotalCost.StringFixed(2), v.Profit.StringFixed(2))
}
