package site

import "github.com/user/resale-arbitrage/pkg/utils"

// CeX UK markup and URL rules.
const (
	CeXBaseURL = "https://uk.webuy.com"

	CeXConsentButton = "//button[normalize-space()='Accept All']"
	CeXNoResults     = "div.cx-no-results"
	CeXResultLink    = "div.card-title a"

	// Cash price label on a product page, then the older "Trade-in for Cash" layout.
	CeXCashPrice        = "//div[strong[normalize-space(text())='CASH']]/span[@class='offer-price']"
	CeXTradeInCashPrice = "//span[contains(text(), 'Trade-in for Cash')]/preceding-sibling::span"
)

// CeXPriceSelectors lists product-page price locations in the order they are tried.
var CeXPriceSelectors = []string{CeXCashPrice, CeXTradeInCashPrice}

// CeXSearchURL returns the retailer search for query.
func CeXSearchURL(query string) string {
	return utils.SearchURL(CeXBaseURL+"/search", "stext", query, nil)
}
