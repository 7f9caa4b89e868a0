package appcore

import (
	"repobrowser/internal/catalog"
	"repobrowser/internal/i18n"
	"repobrowser/internal/pagination"
)

const ListingSelectorID = "repos-listing"

type LayoutView struct {
	Title string
	Owner string
	Loc   *i18n.Localizer
}

func (v LayoutView) Lang() string {
	if v.Loc == nil {
		return "en"
	}
	return v.Loc.Lang()
}

func (v LayoutView) DocumentTitle() string {
	app := v.Loc.T("AppTitle")
	if v.Title == "" {
		return app
	}
	return v.Title + " :: " + app
}

type PaginationView struct {
	Page       int
	TotalPages int
	TotalCount int
	PageSize   int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
	LiveURL    string
}

type ListingView struct {
	Owner        string
	Selected     string
	Repositories []catalog.Repository
	Pagination   PaginationView
	Loc          *i18n.Localizer
}

type HomePageView struct {
	Layout  LayoutView
	Listing *ListingView
}

type RepositoryPageView struct {
	Layout     LayoutView
	Listing    ListingView
	Repository catalog.RepositoryDetail
}

func (v ListingView) SelectorID() string {
	return ListingSelectorID
}

func (v ListingView) SignalsJSON() string {
	return ListSignalsJSON(v)
}

func (v ListingView) RepositoryURL(name string) string {
	return BuildRepositoryURL(v.Owner, name, v.Pagination.Page)
}

func (v ListingView) IsSelected(name string) bool {
	return v.Selected != "" && v.Selected == name
}

func (v ListingView) Heading() string {
	return v.Loc.Tf("RepositoriesOf", map[string]any{"Owner": v.Owner})
}

func (v ListingView) CountLabel() string {
	return v.Loc.Plural("RepositoryCount", v.Pagination.TotalCount)
}

func (v ListingView) StatusLabel() string {
	if v.Pagination.TotalPages == 0 {
		return ""
	}
	return v.Loc.Tf("PageOf", map[string]any{
		"Current": v.Pagination.Page,
		"Total":   v.Pagination.TotalPages,
	})
}

type pageLinks struct {
	pageURL func(page int) string
	liveURL string
}

// newListingView windows repositories through a Pager positioned at page and
// then moved by step, so out-of-range requests stop at the list bounds.
func newListingView(
	source pagination.Source[catalog.Repository],
	owner string,
	selected string,
	page int,
	step string,
	pageSize int,
	links pageLinks,
	loc *i18n.Localizer,
) (ListingView, error) {
	pager, err := pagination.New(source, pageSize)
	if err != nil {
		return ListingView{}, err
	}

	pager.Seek(sanitizePage(page))
	switch step {
	case StepNext:
		pager.NextPage()
	case StepPrev:
		pager.PrevPage()
	}

	return ListingView{
		Owner:        owner,
		Selected:     selected,
		Repositories: pager.Items(),
		Pagination:   NewPaginationView(pager, links.pageURL, links.liveURL),
		Loc:          loc,
	}, nil
}

// NewPaginationView snapshots a pager. pageURL may be nil for views with no
// links.
func NewPaginationView[T any](pager *pagination.Pager[T], pageURL func(page int) string, liveURL string) PaginationView {
	view := PaginationView{
		Page:       pager.CurrentPage(),
		TotalPages: pager.TotalPages(),
		TotalCount: pager.Len(),
		PageSize:   pager.PageSize(),
		HasPrev:    pager.HasPrev(),
		HasNext:    pager.HasNext(),
		LiveURL:    liveURL,
	}

	if pageURL != nil {
		if view.HasPrev {
			view.PrevURL = pageURL(view.Page - 1)
		}
		if view.HasNext {
			view.NextURL = pageURL(view.Page + 1)
		}
	}

	return view
}

func (v RepositoryPageView) CloseURL() string {
	return BuildHomeURL(v.Listing.Owner, v.Listing.Pagination.Page)
}
