// Package web renders the dashboard HTML from embedded templates and serves its stylesheet.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"

	"milpower/internal/dashboard"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is the data behind one HTML render. Exactly one of View and Placeholder is set.
// Title is the header band text; the document title is always dashboard.BrowserTitle.
type Page struct {
	BrowserTitle string
	Title        string
	Pages        []dashboard.Page
	Active       dashboard.Page
	View         *dashboard.QuickStatsView
	Placeholder  *dashboard.Placeholder

	MapTitle      string
	InsightsTitle string
	TopTitle      string
	BubbleTitle   string
	TopSrc        template.URL
	BubbleSrc     template.URL
}

// NewQuickStatsPage fills the titles and chart URLs for a Quick Stats render.
func NewQuickStatsPage(active dashboard.Page, v *dashboard.QuickStatsView) Page {
	q := url.Values{}
	q.Set("region", v.Selection.Region)
	q.Set("continent", v.Selection.Continent)
	q.Set("alliance", v.Selection.Alliance)
	return Page{
		BrowserTitle:  dashboard.BrowserTitle,
		Title:         dashboard.Title,
		Pages:         dashboard.Pages(),
		Active:        active,
		View:          v,
		MapTitle:      dashboard.MapTitle,
		InsightsTitle: dashboard.InsightsTitle,
		TopTitle:      dashboard.TopTitle,
		BubbleTitle:   dashboard.BubbleTitle,
		TopSrc:        template.URL("/charts/top5.svg"),
		BubbleSrc:     template.URL("/charts/bubble.svg?" + q.Encode()),
	}
}

// NewPlaceholderPage heads the page with its own sidebar title.
func NewPlaceholderPage(active dashboard.Page) Page {
	ph := dashboard.PlaceholderFor(active)
	return Page{
		BrowserTitle: dashboard.BrowserTitle,
		Title:        active.Title,
		Pages:        dashboard.Pages(),
		Active:       active,
		Placeholder:  &ph,
	}
}

// Renderer holds the parsed templates; safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: t}, nil
}

// Render writes the page. Output is buffered so a template error never leaves half a page.
func (r *Renderer) Render(w io.Writer, p Page) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded /static/ assets.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// ConfigJS exposes the API base to page scripts.
func ConfigJS(apiBase string) http.HandlerFunc {
	body := []byte("window.__API_BASE__='" + template.JSEscapeString(apiBase) + "';\n")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write(body)
	}
}
