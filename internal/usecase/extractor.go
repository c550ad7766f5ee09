package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/resale-arbitrage/internal/entity"
	"github.com/user/resale-arbitrage/internal/repository"
	"github.com/user/resale-arbitrage/internal/site"
	"github.com/user/resale-arbitrage/pkg/utils"
)

const (
	maxExtractAttempts = 3
	initialBackoff     = 2 * time.Second

	soldProbeTimeout   = 1 * time.Second
	titleTimeout       = 10 * time.Second
	descriptionTimeout = 3 * time.Second
	postageTimeout     = 3 * time.Second
)

// Extractor reads one listing's detail page into the listing.
type Extractor struct {
	backoff time.Duration
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{backoff: initialBackoff}
}

// Extract opens the listing page and fills in title, price, attributes,
// description and postage. It returns ErrItemSold for sold listings and
// ErrUnusable when title and price cannot be read after retries. Attributes,
// description and postage are best effort.
func (e *Extractor) Extract(ctx context.Context, b repository.Browser, l *entity.Listing, t *trail) error {
	if err := b.Fetch(ctx, l.Link); err != nil {
		if isTransport(err) {
			return err
		}
		return fmt.Errorf("%w: open listing: %v", ErrUnusable, err)
	}

	sold, err := b.FindElement(ctx, site.VintedSoldBanner, soldProbeTimeout)
	if err != nil {
		return err
	}
	if sold {
		return ErrItemSold
	}

	if err := e.readTitleAndPrice(ctx, b, l, t); err != nil {
		return err
	}

	attrs, err := readAttributes(ctx, b)
	if err != nil && isTransport(err) {
		return err
	}
	for k, v := range attrs {
		l.Attributes[k] = v
	}

	desc, err := readOptional(ctx, b, site.VintedDescription, descriptionTimeout)
	if err != nil && isTransport(err) {
		return err
	}
	l.Description = desc

	postage, err := readOptional(ctx, b, site.VintedPostage, postageTimeout)
	if err != nil && isTransport(err) {
		return err
	}
	if p, ok := utils.ParsePrice(postage); ok {
		l.Postage = &p
	}
	return nil
}

func (e *Extractor) readTitleAndPrice(ctx context.Context, b repository.Browser, l *entity.Listing, t *trail) error {
	backoff := e.backoff
	var lastErr error
	for attempt := 1; attempt <= maxExtractAttempts; attempt++ {
		lastErr = readHeadline(ctx, b, l)
		if lastErr == nil {
			return nil
		}
		if isTransport(lastErr) || ctx.Err() != nil {
			return lastErr
		}
		if attempt == maxExtractAttempts {
			break
		}

		t.add("!! Could not parse title/price (attempt %d/%d), reloading: %v", attempt, maxExtractAttempts, lastErr)
		if err := sleep(ctx, jittered(backoff)); err != nil {
			return err
		}
		backoff *= 2
		if err := b.Reload(ctx); err != nil {
			if isTransport(err) {
				return err
			}
			lastErr = err
		}
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrUnusable, maxExtractAttempts, lastErr)
}

// readHeadline reads the title and price in one pass.
func readHeadline(ctx context.Context, b repository.Browser, l *entity.Listing) error {
	found, err := b.FindElement(ctx, site.VintedTitle, titleTimeout)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: title", repository.ErrElementNotFound)
	}

	title, err := b.ReadText(ctx, site.VintedTitle)
	if err != nil {
		return err
	}
	if title == "" {
		return errors.New("empty title")
	}

	priceText, err := b.ReadText(ctx, site.VintedPrice)
	if err != nil {
		return err
	}
	price, ok := utils.ParsePrice(priceText)
	if !ok {
		return fmt.Errorf("price %q is not numeric", priceText)
	}

	l.Title = title
	l.Price = price
	return nil
}

// readAttributes parses the item details list from a page snapshot,
// re-reading the page once if the first read fails.
func readAttributes(ctx context.Context, b repository.Browser) (map[string]string, error) {
	src, err := b.PageSource(ctx)
	if err != nil {
		if isTransport(err) {
			return nil, err
		}
		if src, err = b.PageSource(ctx); err != nil {
			return nil, err
		}
	}
	return parseAttributes(src)
}

func parseAttributes(src string) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	attrs := make(map[string]string)
	doc.Find(site.VintedAttributeRow).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find(site.VintedAttributeName).First().Text())
		value := strings.TrimSpace(s.Find(site.VintedAttributeVal).Last().Text())
		if name != "" && value != "" {
			attrs[name] = value
		}
	})
	return attrs, nil
}
