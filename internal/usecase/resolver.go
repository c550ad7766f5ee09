package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/user/resale-arbitrage/internal/entity"
	"github.com/user/resale-arbitrage/internal/repository"
	"github.com/user/resale-arbitrage/internal/site"
	"github.com/user/resale-arbitrage/pkg/config"
	"github.com/user/resale-arbitrage/pkg/utils"
	"golang.org/x/time/rate"
)

const (
	noResultsProbe     = 1 * time.Second
	firstResultTimeout = 10 * time.Second
	priceTimeout       = 5 * time.Second
	rankedWaitTimeout  = 30 * time.Second
	maxCandidates      = 5
)

// Resolver finds the retailer's cash offer for a normalized query. Every
// failure is returned as an error and means "no match"; none is fatal.
type Resolver interface {
	Strategy() string
	Resolve(ctx context.Context, b repository.Browser, query string, l *entity.Listing) (*entity.ResolvedOffer, error)
}

// NewResolver returns the resolver for strategy. gen is only used by the
// ranked strategy; limiter paces retailer searches and may be nil.
func NewResolver(strategy string, gen repository.TextGenerator, limiter *rate.Limiter) (Resolver, error) {
	search := newRetailerSearch(limiter)
	switch strategy {
	case config.StrategyFirstResult:
		return &FirstResultResolver{retailerSearch: search}, nil
	case config.StrategyRanked:
		return &RankedResolver{retailerSearch: search, gen: gen}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStrategy, strategy)
	}
}

// retailerSearch opens a retailer search page. The cookie banner is only
// probed until it has been accepted once in a session; sessions keep their
// cookies for their whole life.
type retailerSearch struct {
	limiter   *rate.Limiter
	base      *url.URL
	consented *sync.Map // repository.Browser -> struct{}
}

func newRetailerSearch(limiter *rate.Limiter) retailerSearch {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	base, _ := url.Parse(site.CeXBaseURL)
	return retailerSearch{limiter: limiter, base: base, consented: &sync.Map{}}
}

func (r retailerSearch) open(ctx context.Context, b repository.Browser, query string) error {
	if strings.TrimSpace(query) == "" || strings.EqualFold(strings.TrimSpace(query), notIdentified) {
		return ErrNoQuery
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := b.Fetch(ctx, site.CeXSearchURL(query)); err != nil {
		return fmt.Errorf("open retailer search: %w", err)
	}
	if _, done := r.consented.Load(b); done {
		return nil
	}
	clicked, err := dismissConsent(ctx, b, site.CeXConsentButton)
	if clicked {
		r.consented.Store(b, struct{}{})
	}
	return err
}

func (r retailerSearch) absolute(href string) (string, error) {
	return utils.ToAbsoluteURL(r.base, href)
}

// FirstResultResolver takes the retailer's first search result.
type FirstResultResolver struct {
	retailerSearch
}

func (r *FirstResultResolver) Strategy() string { return config.StrategyFirstResult }

func (r *FirstResultResolver) Resolve(ctx context.Context, b repository.Browser, query string, _ *entity.Listing) (*entity.ResolvedOffer, error) {
	if err := r.open(ctx, b, query); err != nil {
		return nil, err
	}

	empty, err := b.FindElement(ctx, site.CeXNoResults, noResultsProbe)
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, fmt.Errorf("%w for %q", ErrNoResults, query)
	}

	found, err := b.FindElement(ctx, site.CeXResultLink, firstResultTimeout)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w for %q: no result appeared", ErrNoResults, query)
	}

	href, err := b.ReadAttribute(ctx, site.CeXResultLink, "href")
	if err != nil {
		return nil, err
	}
	link, err := r.absolute(href)
	if err != nil {
		return nil, fmt.Errorf("%w: bad result link %q", ErrNoResults, href)
	}
	if err := b.Fetch(ctx, link); err != nil {
		return nil, fmt.Errorf("open product page: %w", err)
	}

	for _, sel := range site.CeXPriceSelectors {
		text, err := readOptional(ctx, b, sel, priceTimeout)
		if err != nil {
			if isTransport(err) {
				return nil, err
			}
			continue
		}
		if price, ok := utils.ParsePrice(text); ok {
			if current, err := b.CurrentURL(ctx); err == nil && current != "" {
				link = current
			}
			return &entity.ResolvedOffer{Price: price, Link: link}, nil
		}
	}
	return nil, fmt.Errorf("%w on %s", ErrPriceNotFound, link)
}

const rankInstruction = "You match second-hand listings to the exact product on a retailer's site. Reply with ONLY the link of the single best matching candidate, copied exactly, or N/A if none of them is the same product."

const rankPrompt = `Listing title: %q
Listing description: %q
Listing attributes:
%s
Search query used: %q

Candidates:
%s
Best matching link:`

// RankedResolver asks the text generator to pick among the first few results.
type RankedResolver struct {
	retailerSearch
	gen repository.TextGenerator
}

func (r *RankedResolver) Strategy() string { return config.StrategyRanked }

func (r *RankedResolver) Resolve(ctx context.Context, b repository.Browser, query string, l *entity.Listing) (*entity.ResolvedOffer, error) {
	if err := r.open(ctx, b, query); err != nil {
		return nil, err
	}

	found, err := b.FindElement(ctx, site.CeXResultLink, rankedWaitTimeout)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w for %q", ErrNoResults, query)
	}

	src, err := b.PageSource(ctx)
	if err != nil {
		return nil, err
	}
	candidates := r.candidates(src)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoResults, query)
	}

	chosen, err := r.rank(ctx, query, l, candidates)
	if err != nil {
		return nil, err
	}

	if err := b.Fetch(ctx, chosen.Link); err != nil {
		return nil, fmt.Errorf("open product page: %w", err)
	}
	text, err := b.PageText(ctx)
	if err != nil {
		return nil, err
	}
	price, ok := cashPriceFromText(text)
	if !ok {
		return nil, fmt.Errorf("%w on %s", ErrPriceNotFound, chosen.Link)
	}
	return &entity.ResolvedOffer{Price: price, Link: chosen.Link}, nil
}

// candidates collects up to maxCandidates result titles and absolute links.
func (r *RankedResolver) candidates(src string) []entity.CandidateOffer {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil
	}
	var out []entity.CandidateOffer
	doc.Find(site.CeXResultLink).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		link, err := r.absolute(href)
		if err != nil {
			return true
		}
		out = append(out, entity.CandidateOffer{Title: strings.TrimSpace(s.Text()), Link: link})
		return len(out) < maxCandidates
	})
	return out
}

// rank picks one candidate. Without a generator the first result is used.
func (r *RankedResolver) rank(ctx context.Context, query string, l *entity.Listing, candidates []entity.CandidateOffer) (entity.CandidateOffer, error) {
	if r.gen == nil {
		return candidates[0], nil
	}

	reply, err := r.gen.Complete(ctx, rankInstruction, buildRankPrompt(query, l, candidates))
	if err != nil {
		return entity.CandidateOffer{}, fmt.Errorf("rank candidates: %w", err)
	}
	reply = cleanReply(reply)
	if strings.EqualFold(reply, notIdentified) {
		return entity.CandidateOffer{}, ErrRankingDeclined
	}
	for _, c := range candidates {
		if c.Link == reply {
			return c, nil
		}
	}
	return entity.CandidateOffer{}, fmt.Errorf("%w: reply %q is not a candidate link", ErrRankingDeclined, reply)
}

func buildRankPrompt(query string, l *entity.Listing, candidates []entity.CandidateOffer) string {
	var b strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, c.Title, c.Link)
	}
	var title, desc string
	var attrs map[string]string
	if l != nil {
		title, desc, attrs = l.Title, l.Description, l.Attributes
	}
	return fmt.Sprintf(rankPrompt, title, desc, formatAttributes(attrs), query, b.String())
}

var cashPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)cash[^£]{0,40}£\s*(\d[\d,]*(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)£\s*(\d[\d,]*(?:\.\d+)?)[^£]{0,40}trade-in[^£]{0,40}cash`),
}

// cashPriceFromText scans rendered page text for the cash trade-in price.
func cashPriceFromText(text string) (decimal.Decimal, bool) {
	for _, re := range cashPricePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if p, ok := utils.ParsePrice(m[1]); ok {
			return p, true
		}
	}
	return decimal.Decimal{}, false
}

// resolutionResult labels a resolver outcome for metrics.
func resolutionResult(err error) string {
	switch {
	case err == nil:
		return "matched"
	case errors.Is(err, ErrNoQuery):
		return "no_query"
	case errors.Is(err, ErrNoResults):
		return "no_results"
	case errors.Is(err, ErrRankingDeclined):
		return "declined"
	case errors.Is(err, ErrPriceNotFound):
		return "no_price"
	case errors.Is(err, repository.ErrTransport):
		return "transport"
	case errors.Is(err, repository.ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}
