package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/user/resale-arbitrage/internal/entity"
	"github.com/user/resale-arbitrage/internal/repository"
)

// notIdentified is the model's reply for listings with no single product.
const notIdentified = "N/A"

const normalizeInstruction = "You are a highly intelligent product normalisation assistant, skilled at creating concise CeX search queries from Vinted product details. Your output must ONLY be the clean search query."

const normalizePrompt = `From the following Vinted product title, description, and additional scraped attributes, generate a concise search query for the CeX website.
- The query should be the core product name, model, and any other critical, specific identifiers relevant for CeX (e.g., "Hogwarts Legacy PS5", "iPhone 13 Pro Max 256GB Unlocked", "Xbox Series X 1TB Console").
- Prioritise specific identifiers like Brand, Model, Platform, Storage, and any other attributes that define the specific variant of the product CeX would buy.
- Use information from the description to clarify or enhance the query if it provides essential product details (e.g., "Steelbook Edition", "unlocked", specific damage that affects CeX valuation).
- Ignore condition and marketing words like "sealed", "very good condition", "fast postage", "bought as a present" unless they are essential product variations or critical condition notes.
- If the details indicate multiple items, create a query for the most prominent single item CeX would likely buy. If it's too complex or clearly multiple distinct items, return N/A.
- If the item is a generic accessory (like a case, cable, stand or controller grip) and not a specific, named product, return the single word: N/A

Category: %q
Vinted Title: %q
Vinted Description: %q

Additional Scraped Attributes:
%s
Clean CeX Query:`

// Normalizer turns a listing into a short retailer search query.
type Normalizer struct {
	gen repository.TextGenerator
}

// NewNormalizer creates a Normalizer. A nil gen makes every query the
// listing title.
func NewNormalizer(gen repository.TextGenerator) *Normalizer {
	return &Normalizer{gen: gen}
}

// Normalize returns the query for l and true, or false when the listing does
// not describe one identifiable product. Generation failures fall back to
// the title.
func (n *Normalizer) Normalize(ctx context.Context, l *entity.Listing, category string, t *trail) (string, bool) {
	if n.gen == nil {
		t.add("-> No text generator configured, using item title as query")
		return l.Title, l.Title != ""
	}

	reply, err := n.gen.Complete(ctx, normalizeInstruction, buildNormalizePrompt(l, category))
	if err != nil {
		t.add("-> AI query failed for %q: %v (using title)", l.Title, err)
		return l.Title, l.Title != ""
	}

	query := cleanReply(reply)
	if query == "" || strings.EqualFold(query, notIdentified) {
		t.add("-> AI could not identify a single product for %q", l.Title)
		return "", false
	}
	t.add("-> AI generated query for %q: %q", l.Title, query)
	return query, true
}

func buildNormalizePrompt(l *entity.Listing, category string) string {
	return fmt.Sprintf(normalizePrompt, category, l.Title, l.Description, formatAttributes(l.Attributes))
}

func formatAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return "No additional attributes found.\n"
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, attrs[k])
	}
	return b.String()
}

// cleanReply strips whitespace and any quoting around a model reply.
func cleanReply(reply string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(reply), "\"'`"))
}
