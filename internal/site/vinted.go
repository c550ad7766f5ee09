package site

import (
	"net/url"

	"github.com/user/resale-arbitrage/pkg/utils"
)

// Vinted UK markup and URL rules.
const (
	VintedBaseURL = "https://www.vinted.co.uk"

	VintedConsentButton = "#onetrust-accept-btn-handler"
	VintedGridItem      = "div[data-testid='grid-item']"
	VintedGridLink      = "div[data-testid='grid-item'] a.new-item-box__overlay"

	VintedSoldBanner    = "div[data-testid='item-status-banner']"
	VintedTitle         = "div.item-page-sidebar-content h1[class*='title']"
	VintedPrice         = "div.item-page-sidebar-content div[data-testid='item-price'] p"
	VintedAttributeRow  = "div.details-list__item"
	VintedAttributeName = "div.details-list__item-title"
	VintedAttributeVal  = "div.details-list__item-value"
	VintedDescription   = "div[itemprop='description']"
	VintedPostage       = "h3[data-testid='item-shipping-banner-price']"
)

// VintedSearchURL returns the catalog search for terms, cheapest first, UK sellers only.
func VintedSearchURL(terms string) string {
	return utils.SearchURL(VintedBaseURL+"/catalog", "search_text", terms, url.Values{
		"order":      {"price_asc"},
		"country_id": {"1"},
	})
}
