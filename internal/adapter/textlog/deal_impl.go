package textlog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/user/resale-arbitrage/internal/entity"
)

const descriptionExcerpt = 100

// DealRepoImpl appends human-readable deal blocks to a text file. One Save
// writes one whole block; concurrent callers are serialized.
type DealRepoImpl struct {
	mu   sync.Mutex
	path string
}

// NewDealRepo creates a new instance of DealRepoImpl writing to path.
func NewDealRepo(path string) *DealRepoImpl {
	return &DealRepoImpl{path: path}
}

// Save appends deal to the log file, creating it if needed.
func (r *DealRepoImpl) Save(_ context.Context, deal *entity.Deal) error {
	block := formatDeal(deal)

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open profit log: %w", err)
	}
	if _, err := f.WriteString(block); err != nil {
		_ = f.Close()
		return fmt.Errorf("write profit log: %w", err)
	}
	return f.Close()
}

func formatDeal(deal *entity.Deal) string {
	l := deal.Listing

	postage := "N/A"
	if l.Postage != nil {
		postage = "£" + l.Postage.StringFixed(2)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n--- Potential Profit Found [%s] ---\n", deal.FoundAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Search Category: %s\n", deal.Category)
	fmt.Fprintf(&b, "Vinted item: %s\n", l.Title)
	fmt.Fprintf(&b, "  -> Price: £%s, Postage: %s\n", l.Price.StringFixed(2), postage)
	fmt.Fprintf(&b, "  -> Link to buy: %s\n", l.Link)
	b.WriteString("  -> Scraped Attributes:\n")
	if len(l.Attributes) == 0 {
		b.WriteString("      (No additional attributes found)\n")
	} else {
		keys := make([]string, 0, len(l.Attributes))
		for k := range l.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "      - %s: %s\n", k, l.Attributes[k])
		}
	}
	if l.Description != "" {
		fmt.Fprintf(&b, "  -> Description: %s...\n", excerpt(l.Description, descriptionExcerpt))
	}
	fmt.Fprintf(&b, "  -> CeX webuy price: £%s\n", deal.Offer.Price.StringFixed(2))
	fmt.Fprintf(&b, "  -> CeX sell page: %s\n", deal.Offer.Link)
	fmt.Fprintf(&b, "  -> Total Vinted cost (inc. fees): ~£%s\n", deal.TotalCost.StringFixed(2))
	fmt.Fprintf(&b, "  ✅ Potential profit: £%s\n", deal.Profit.StringFixed(2))
	b.WriteString("------------------------------------\n")
	return b.String()
}

// excerpt cuts s to at most n runes.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
