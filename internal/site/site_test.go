package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVintedSearchURL(t *testing.T) {
	assert.Equal(t,
		"https://www.vinted.co.uk/catalog?country_id=1&order=price_asc&search_text=PS5+games",
		VintedSearchURL("PS5 games"))
}

func TestCeXSearchURL(t *testing.T) {
	assert.Equal(t, "https://uk.webuy.com/search?stext=Hogwarts+Legacy+PS5", CeXSearchURL("Hogwarts Legacy PS5"))
}
