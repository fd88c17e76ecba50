// Package dashboard turns the country table into what each page shows: the sidebar pages,
// the dropdown options, and the Quick Stats view with its KPIs and chart figures.
package dashboard

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPage   = errors.New("unknown page")
	ErrUnknownOption = errors.New("unknown option")
)

// Page: one sidebar entry.
type Page struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

const (
	PageQuickStats       = "quick-stats"
	PageNationOverview   = "nation-overview"
	PageComparePowers    = "compare-powers"
	PageCoalitionBuilder = "coalition-builder"
)

var pages = []Page{
	{Slug: PageQuickStats, Title: "Quick Stats"},
	{Slug: PageNationOverview, Title: "Nation Overview"},
	{Slug: PageComparePowers, Title: "Compare Powers"},
	{Slug: PageCoalitionBuilder, Title: "Coalition Builder"},
}

// Pages lists the sidebar in display order; the first is the default.
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}

// Lookup resolves a slug; "" selects the default page.
func Lookup(slug string) (Page, error) {
	if slug == "" {
		return pages[0], nil
	}
	for _, p := range pages {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Page{}, fmt.Errorf("%w: %q", ErrUnknownPage, slug)
}

// Placeholder: body of a page that has no content yet.
type Placeholder struct {
	Page
	Text string `json:"text"`
}

func PlaceholderFor(p Page) Placeholder {
	return Placeholder{Page: p, Text: fmt.Sprintf("Content for %s page.", p.Title)}
}
