// Package components renders the browser's pages as templ components backed
// by embedded html/template files.
package components

import (
	"context"
	"embed"
	"html/template"
	"io"

	"repobrowser/internal/i18n"
	"repobrowser/internal/markdown"
	"repobrowser/internal/web/appcore"

	"github.com/a-h/templ"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var templates = template.Must(template.New("components").ParseFS(templateFS, "templates/*.gohtml"))

type layoutData struct {
	View      appcore.LayoutView
	Body      template.HTML
	ChromaCSS template.CSS
}

type notFoundData struct {
	Path      string
	Unmatched bool
	Loc       *i18n.Localizer
}

func RootLayout(view appcore.LayoutView, child templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body, err := templ.ToGoHTML(ctx, child)
		if err != nil {
			return err
		}

		return templates.ExecuteTemplate(w, "layout", layoutData{
			View:      view,
			Body:      body,
			ChromaCSS: markdown.ChromaCSS(),
		})
	})
}

func HomeLayout(view appcore.HomePageView, child templ.Component) templ.Component {
	return RootLayout(view.Layout, child)
}

func RepositoryLayout(view appcore.RepositoryPageView, child templ.Component) templ.Component {
	return RootLayout(view.Layout, child)
}

func HomePage(view appcore.HomePageView) templ.Component {
	return named("home", view)
}

// HomeListing is the live fragment of the home page.
func HomeListing(view appcore.HomePageView) templ.Component {
	return named("home-listing", view)
}

func RepositoryPage(view appcore.RepositoryPageView) templ.Component {
	return named("repository", view)
}

// RepositoryListing is the live fragment of the repository page.
func RepositoryListing(view appcore.RepositoryPageView) templ.Component {
	return named("listing", view.Listing)
}

// NotFound renders the body of a 404. unmatched is false when a route
// matched but its owner or repository does not exist.
func NotFound(path string, unmatched bool, loc *i18n.Localizer) templ.Component {
	return named("not-found", notFoundData{Path: path, Unmatched: unmatched, Loc: loc})
}

func named(name string, data any) templ.Component {
	return templ.FromGoHTML(templates.Lookup(name), data)
}
