package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/resale-arbitrage/internal/entity"
	"github.com/user/resale-arbitrage/internal/site"
	"go.uber.org/zap"
)

func testDiscovery() *Discovery {
	d := NewDiscovery(zap.NewNop())
	d.scrollPause = 0
	return d
}

func links(listings []*entity.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Link)
	}
	return out
}

func searchPage(s fakeSite, term string) *fakePage {
	p := s.page(site.VintedSearchURL(term))
	p.text[site.VintedGridItem] = ""
	return p
}

func TestDiscoverScrollsUntilPageStopsGrowing(t *testing.T) {
	s := fakeSite{}
	p := searchPage(s, "PS5 games")
	p.text[site.VintedConsentButton] = "Accept all"
	p.sources = []string{
		gridHTML("/items/1", "/items/2"),
		gridHTML("/items/1", "/items/2", "/items/3", "/items/2"),
		gridHTML("/items/1", "/items/2", "/items/3", "/items/4"),
	}
	p.heights = []int64{1000, 2000, 3000, 3000}

	b := newFakeBrowser(s)
	got, err := testDiscovery().Discover(context.Background(), b, "PS5 games", 200)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.vinted.co.uk/items/1",
		"https://www.vinted.co.uk/items/2",
		"https://www.vinted.co.uk/items/3",
		"https://www.vinted.co.uk/items/4",
	}, links(got))
	assert.Equal(t, []string{site.VintedConsentButton}, b.clicks)
	assert.Equal(t, 3, b.scrolls)
	for _, l := range got {
		assert.Empty(t, l.Title)
		assert.NotNil(t, l.Attributes)
	}
}

func TestDiscoverStopsAtBudget(t *testing.T) {
	s := fakeSite{}
	p := searchPage(s, "PS4 games")
	p.sources = []string{
		gridHTML("/items/1", "/items/2", "/items/3"),
		gridHTML("/items/1", "/items/2", "/items/3", "/items/4", "/items/5", "/items/6"),
	}
	p.heights = []int64{1000, 2000}

	b := newFakeBrowser(s)
	got, err := testDiscovery().Discover(context.Background(), b, "PS4 games", 4)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.vinted.co.uk/items/1",
		"https://www.vinted.co.uk/items/2",
		"https://www.vinted.co.uk/items/3",
		"https://www.vinted.co.uk/items/4",
	}, links(got))
	assert.Equal(t, 1, b.scrolls)
}

func TestDiscoverEmptySearch(t *testing.T) {
	got, err := testDiscovery().Discover(context.Background(), newFakeBrowser(fakeSite{}), "nothing", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
