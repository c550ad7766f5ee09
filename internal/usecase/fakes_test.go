package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/user/resale-arbitrage/internal/entity"
	"github.com/user/resale-arbitrage/internal/repository"
)

// fakePage is one canned page. A selector present in text or attrs is
// considered to exist on the page.
type fakePage struct {
	text    map[string]string
	attrs   map[string]map[string]string
	sources []string // page source after 0, 1, 2... scrolls; the last repeats
	heights []int64  // scroll height after 0, 1, 2... scrolls; the last repeats
	body    string
}

func newFakePage() *fakePage {
	return &fakePage{text: map[string]string{}, attrs: map[string]map[string]string{}}
}

func (p *fakePage) has(selector string) bool {
	if _, ok := p.text[selector]; ok {
		return true
	}
	_, ok := p.attrs[selector]
	return ok
}

// fakeSite maps URLs to pages. It is read-only once a test starts, so many
// browsers may share it.
type fakeSite map[string]*fakePage

func (s fakeSite) page(url string) *fakePage {
	p, ok := s[url]
	if !ok {
		p = newFakePage()
		s[url] = p
	}
	return p
}

type fakeBrowser struct {
	site     fakeSite
	url      string
	scrolls  int
	fetched  []string
	reloads  int
	clicks   []string
	probes   map[string]int // selector -> FindElement calls
	reads    map[string]int
	flaky    map[string]int // selector -> ReadText failures left
	fetchErr map[string]error
	panicOn  string
}

var _ repository.Browser = (*fakeBrowser)(nil)

func newFakeBrowser(site fakeSite) *fakeBrowser {
	return &fakeBrowser{
		site:     site,
		probes:   map[string]int{},
		reads:    map[string]int{},
		flaky:    map[string]int{},
		fetchErr: map[string]error{},
	}
}

func (f *fakeBrowser) current() *fakePage {
	if p, ok := f.site[f.url]; ok {
		return p
	}
	return newFakePage()
}

func pick[T any](xs []T, i int) (T, bool) {
	var zero T
	if len(xs) == 0 {
		return zero, false
	}
	if i >= len(xs) {
		i = len(xs) - 1
	}
	return xs[i], true
}

func (f *fakeBrowser) Fetch(_ context.Context, url string) error {
	if url == f.panicOn {
		panic("renderer crashed")
	}
	f.fetched = append(f.fetched, url)
	if err := f.fetchErr[url]; err != nil {
		return err
	}
	f.url = url
	f.scrolls = 0
	return nil
}

func (f *fakeBrowser) Reload(context.Context) error {
	f.reloads++
	return nil
}

func (f *fakeBrowser) FindElement(_ context.Context, selector string, _ time.Duration) (bool, error) {
	f.probes[selector]++
	return f.current().has(selector), nil
}

func (f *fakeBrowser) Click(_ context.Context, selector string) error {
	f.clicks = append(f.clicks, selector)
	if !f.current().has(selector) {
		return repository.ErrElementNotFound
	}
	return nil
}

func (f *fakeBrowser) ReadText(_ context.Context, selector string) (string, error) {
	f.reads[selector]++
	if f.flaky[selector] > 0 {
		f.flaky[selector]--
		return "", fmt.Errorf("%w: stale element", repository.ErrElementNotFound)
	}
	text, ok := f.current().text[selector]
	if !ok {
		return "", repository.ErrElementNotFound
	}
	return text, nil
}

func (f *fakeBrowser) ReadAttribute(_ context.Context, selector, name string) (string, error) {
	v, ok := f.current().attrs[selector][name]
	if !ok {
		return "", repository.ErrElementNotFound
	}
	return v, nil
}

func (f *fakeBrowser) ScrollToBottom(context.Context) error {
	f.scrolls++
	return nil
}

func (f *fakeBrowser) ScrollHeight(context.Context) (int64, error) {
	h, _ := pick(f.current().heights, f.scrolls)
	return h, nil
}

func (f *fakeBrowser) CurrentURL(context.Context) (string, error) {
	return f.url, nil
}

func (f *fakeBrowser) PageSource(context.Context) (string, error) {
	src, _ := pick(f.current().sources, f.scrolls)
	return src, nil
}

func (f *fakeBrowser) PageText(context.Context) (string, error) {
	return f.current().body, nil
}

// fakeGenerator replies through fn and records every prompt.
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	fn      func(system, prompt string) (string, error)
}

func replying(reply string) *fakeGenerator {
	return &fakeGenerator{fn: func(string, string) (string, error) { return reply, nil }}
}

func (g *fakeGenerator) Complete(_ context.Context, system, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	return g.fn(system, prompt)
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type memoryDeals struct {
	mu    sync.Mutex
	deals []*entity.Deal
}

func (m *memoryDeals) Save(_ context.Context, d *entity.Deal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deals = append(m.deals, d)
	return nil
}

func (m *memoryDeals) all() []*entity.Deal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.Deal(nil), m.deals...)
}

type memoryVisited struct {
	mu   sync.Mutex
	seen map[string]time.Duration
}

func newMemoryVisited() *memoryVisited {
	return &memoryVisited{seen: map[string]time.Duration{}}
}

func (m *memoryVisited) MarkVisited(_ context.Context, link string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[link] = ttl
	return nil
}

func (m *memoryVisited) IsVisited(_ context.Context, link string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[link]
	return ok, nil
}
