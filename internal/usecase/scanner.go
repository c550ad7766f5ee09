package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/user/resale-arbitrage/internal/entity"
	"github.com/user/resale-arbitrage/internal/repository"
	"github.com/user/resale-arbitrage/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ScannerConfig holds the static run parameters.
type ScannerConfig struct {
	SearchTerms  []string
	MaxWorkers   int
	ItemsPerTerm int
	MetricsFile  string
}

// Scanner processes search terms one after another. Each term gets its own
// session pool, which is torn down before the next term starts.
type Scanner struct {
	cfg       ScannerConfig
	discovery *Discovery
	evaluator *Evaluator
	newPool   repository.SessionPoolFactory
	logger    *zap.Logger
}

// NewScanner creates a new Scanner.
func NewScanner(cfg ScannerConfig, discovery *Discovery, evaluator *Evaluator, newPool repository.SessionPoolFactory, logger *zap.Logger) *Scanner {
	return &Scanner{
		cfg:       cfg,
		discovery: discovery,
		evaluator: evaluator,
		newPool:   newPool,
		logger:    logger,
	}
}

// Run scans every configured term in order. It only returns early when ctx
// is cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	for _, term := range s.cfg.SearchTerms {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.scanTerm(ctx, term)
		s.flushMetrics()
	}
	return ctx.Err()
}

func (s *Scanner) scanTerm(ctx context.Context, term string) {
	start := time.Now()
	log := s.logger.With(zap.String("term", term))
	log.Info("starting search")

	listings, err := s.discover(ctx, term)
	if err != nil {
		log.Error("discovery failed", zap.Error(err))
		return
	}
	log.Info("found listings to check", zap.Int("count", len(listings)))
	if len(listings) == 0 {
		return
	}

	pool := s.newPool(s.cfg.MaxWorkers)
	counts := newOutcomeCounter()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxWorkers)
	for _, l := range listings {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			b, err := pool.Acquire(gctx)
			if err != nil {
				log.Error("could not start browser session", zap.String("link", l.Link), zap.Error(err))
				counts.add(entity.OutcomeTransportFault)
				return nil
			}
			outcome := s.evaluator.Evaluate(gctx, b, l, term)
			pool.Release(b, outcome != entity.OutcomeTransportFault)
			counts.add(outcome)
			return nil
		})
	}
	_ = g.Wait()

	if err := pool.Close(); err != nil {
		log.Warn("browser cleanup incomplete", zap.Error(err))
	}
	log.Info("finished search",
		zap.Duration("elapsed", time.Since(start)),
		zap.Any("outcomes", counts.snapshot()),
	)
}

// discover runs discovery on a short-lived session of its own.
func (s *Scanner) discover(ctx context.Context, term string) ([]*entity.Listing, error) {
	pool := s.newPool(1)
	defer func() {
		if err := pool.Close(); err != nil {
			s.logger.Warn("browser cleanup incomplete", zap.String("term", term), zap.Error(err))
		}
	}()

	b, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	listings, err := s.discovery.Discover(ctx, b, term, s.cfg.ItemsPerTerm)
	pool.Release(b, !isTransport(err))
	return listings, err
}

func (s *Scanner) flushMetrics() {
	if s.cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(s.cfg.MetricsFile); err != nil {
		s.logger.Warn("could not write metrics file", zap.String("path", s.cfg.MetricsFile), zap.Error(err))
	}
}

type outcomeCounter struct {
	mu     sync.Mutex
	counts map[entity.Outcome]int
}

func newOutcomeCounter() *outcomeCounter {
	return &outcomeCounter{counts: make(map[entity.Outcome]int)}
}

func (c *outcomeCounter) add(o entity.Outcome) {
	c.mu.Lock()
	c.counts[o]++
	c.mu.Unlock()
}

func (c *outcomeCounter) snapshot() map[entity.Outcome]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[entity.Outcome]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
