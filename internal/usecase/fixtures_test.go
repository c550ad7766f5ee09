package usecase

import (
	"fmt"
	"strings"

	"github.com/user/resale-arbitrage/internal/site"
)

const attributesHTML = `<html><body><div class="details-list">
<div class="details-list__item"><div class="details-list__item-title">Brand</div><div class="details-list__item-value"><span>Sony</span></div></div>
<div class="details-list__item"><div class="details-list__item-title">Condition</div><div class="details-list__item-value"><span>Very good</span></div></div>
<div class="details-list__item"><div class="details-list__item-title">Uploaded</div><div class="details-list__item-value"></div></div>
</div></body></html>`

// addListing registers a marketplace item page. An empty postage leaves the
// shipping banner off the page.
func addListing(s fakeSite, link, title, price, postage string) *fakePage {
	p := s.page(link)
	p.text[site.VintedTitle] = title
	p.text[site.VintedPrice] = price
	p.text[site.VintedDescription] = "Played once, disc is scratch free."
	if postage != "" {
		p.text[site.VintedPostage] = postage
	}
	p.sources = []string{attributesHTML}
	return p
}

// addFirstResult registers a retailer search whose first result leads to a
// product page showing cash.
func addFirstResult(s fakeSite, query, productPath, cash string) string {
	search := s.page(site.CeXSearchURL(query))
	search.attrs[site.CeXResultLink] = map[string]string{"href": productPath}

	productURL := site.CeXBaseURL + productPath
	s.page(productURL).text[site.CeXCashPrice] = cash
	return productURL
}

// addRankedResults registers a retailer search listing one card per title.
func addRankedResults(s fakeSite, query string, titles ...string) []string {
	var cards strings.Builder
	links := make([]string, 0, len(titles))
	for i, title := range titles {
		path := fmt.Sprintf("/product-detail?id=%d", 1000+i)
		fmt.Fprintf(&cards, `<div class="search-product-card"><div class="card-title"><a href="%s">%s</a></div></div>`, path, title)
		links = append(links, site.CeXBaseURL+path)
	}
	search := s.page(site.CeXSearchURL(query))
	search.text[site.CeXResultLink] = titles[0]
	search.sources = []string{"<html><body>" + cards.String() + "</body></html>"}
	return links
}

func gridHTML(paths ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"feed-grid\">")
	for _, p := range paths {
		fmt.Fprintf(&b, `<div data-testid="grid-item"><div class="new-item-box"><a class="new-item-box__overlay" href="%s"></a></div></div>`, p)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}
