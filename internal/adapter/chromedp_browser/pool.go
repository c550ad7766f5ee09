package chromedp_browser

import (
	"context"
	"errors"
	"sync"

	"github.com/user/resale-arbitrage/internal/repository"
	"github.com/user/resale-arbitrage/pkg/metrics"
)

var ErrPoolClosed = errors.New("session pool closed")

type session interface {
	repository.Browser
	Close() error
}

type launchFunc func(opts Options) (session, error)

func launchChrome(opts Options) (session, error) {
	return NewSession(opts)
}

// Pool lends at most size sessions at a time. Sessions start lazily on
// Acquire, are reused after Release, and are all torn down by Close.
type Pool struct {
	opts   Options
	launch launchFunc
	slots  chan struct{}

	mu     sync.Mutex
	idle   []session
	live   map[session]struct{}
	errs   []error
	closed bool
}

var _ repository.SessionPool = (*Pool)(nil)

// NewPool creates an empty pool of Chrome sessions.
func NewPool(size int, opts Options) *Pool {
	return newPool(size, opts, launchChrome)
}

func newPool(size int, opts Options, launch launchFunc) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		opts:   opts,
		launch: launch,
		slots:  make(chan struct{}, size),
		live:   make(map[session]struct{}),
	}
}

// NewPoolFactory returns a factory creating pools that share opts.
func NewPoolFactory(opts Options) repository.SessionPoolFactory {
	return func(size int) repository.SessionPool {
		return NewPool(size, opts)
	}
}

func (p *Pool) Acquire(ctx context.Context) (repository.Browser, error) {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.slots
		return nil, ErrPoolClosed
	}
	if n := len(p.idle); n > 0 {
		s := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return s, nil
	}
	p.mu.Unlock()

	s, err := p.launch(p.opts)
	if err != nil {
		<-p.slots
		return nil, err
	}
	metrics.SessionsActive.Inc()

	p.mu.Lock()
	p.live[s] = struct{}{}
	p.mu.Unlock()
	return s, nil
}

func (p *Pool) Release(b repository.Browser, healthy bool) {
	s, ok := b.(session)
	if !ok {
		return
	}
	defer func() { <-p.slots }()

	p.mu.Lock()
	if _, known := p.live[s]; !known {
		p.mu.Unlock()
		return
	}
	if healthy && !p.closed {
		p.idle = append(p.idle, s)
		p.mu.Unlock()
		return
	}
	delete(p.live, s)
	p.mu.Unlock()

	err := s.Close()
	metrics.SessionsActive.Dec()
	if err != nil {
		p.mu.Lock()
		p.errs = append(p.errs, err)
		p.mu.Unlock()
	}
}

// Close tears down every session created by the pool, including idle ones,
// and returns all teardown failures joined.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	sessions := make([]session, 0, len(p.live))
	for s := range p.live {
		sessions = append(sessions, s)
	}
	p.live = make(map[session]struct{})
	p.idle = nil
	errs := p.errs
	p.errs = nil
	p.mu.Unlock()

	for _, s := range sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
		metrics.SessionsActive.Dec()
	}
	return errors.Join(errs...)
}
