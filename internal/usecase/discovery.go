package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/resale-arbitrage/internal/entity"
	"github.com/user/resale-arbitrage/internal/repository"
	"github.com/user/resale-arbitrage/internal/site"
	"github.com/user/resale-arbitrage/pkg/utils"
	"go.uber.org/zap"
)

const (
	gridTimeout        = 15 * time.Second
	defaultScrollPause = 2 * time.Second
)

// Discovery enumerates marketplace listing links for a search term.
type Discovery struct {
	logger      *zap.Logger
	scrollPause time.Duration
	base        *url.URL
}

// NewDiscovery creates a new Discovery.
func NewDiscovery(logger *zap.Logger) *Discovery {
	base, _ := url.Parse(site.VintedBaseURL)
	return &Discovery{logger: logger, scrollPause: defaultScrollPause, base: base}
}

// Discover loads the cheapest-first search for term and scrolls until budget
// unique listings are known or the page stops growing. Links keep the order
// they were first seen in.
func (d *Discovery) Discover(ctx context.Context, b repository.Browser, term string, budget int) ([]*entity.Listing, error) {
	if err := b.Fetch(ctx, site.VintedSearchURL(term)); err != nil {
		return nil, fmt.Errorf("open search for %q: %w", term, err)
	}
	if _, err := dismissConsent(ctx, b, site.VintedConsentButton); err != nil {
		return nil, err
	}

	found, err := b.FindElement(ctx, site.VintedGridItem, gridTimeout)
	if err != nil {
		return nil, err
	}
	if !found {
		d.logger.Info("search returned no listings", zap.String("term", term))
		return nil, nil
	}

	seen := make(map[string]struct{})
	var links []string

	lastHeight, err := b.ScrollHeight(ctx)
	if err != nil {
		return nil, err
	}
	for len(links) < budget {
		src, err := b.PageSource(ctx)
		if err != nil {
			return nil, err
		}
		for _, link := range d.gridLinks(src) {
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}
			links = append(links, link)
		}
		if len(links) >= budget {
			break
		}

		if err := b.ScrollToBottom(ctx); err != nil {
			return nil, err
		}
		if err := sleep(ctx, d.scrollPause); err != nil {
			return nil, err
		}
		height, err := b.ScrollHeight(ctx)
		if err != nil {
			return nil, err
		}
		if height == lastHeight {
			d.logger.Debug("reached the end of the search results", zap.String("term", term))
			break
		}
		lastHeight = height
	}

	if len(links) > budget {
		links = links[:budget]
	}
	listings := make([]*entity.Listing, 0, len(links))
	for _, link := range links {
		listings = append(listings, entity.NewListing(link))
	}
	return listings, nil
}

func (d *Discovery) gridLinks(src string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil
	}
	var links []string
	doc.Find(site.VintedGridLink).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		abs, err := utils.ToAbsoluteURL(d.base, href)
		if err != nil {
			return
		}
		links = append(links, abs)
	})
	return links
}
