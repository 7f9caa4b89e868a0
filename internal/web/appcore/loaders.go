package appcore

import (
	"context"
	"net/http"

	"repobrowser/framework"
)

type RepositoryParams struct {
	Owner string
	Name  string
}

// LoadHomePage renders the owner prompt, and the owner's list when ?owner= is
// set.
func LoadHomePage(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	_ framework.EmptyParams,
) (HomePageView, error) {
	state := ListSignalState{
		Owner: r.URL.Query().Get("owner"),
		Page:  parsePage(r.URL.Query().Get("page")),
	}
	return loadHome(ctx, appCtx, r, state)
}

func LoadHomeLivePage(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	_ framework.EmptyParams,
	state ListSignalState,
) (HomePageView, error) {
	return loadHome(ctx, appCtx, r, state)
}

func LoadRepositoryPage(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	params RepositoryParams,
) (RepositoryPageView, error) {
	service, err := catalogService(appCtx)
	if err != nil {
		return RepositoryPageView{}, err
	}

	listing, err := loadRepositoryListing(ctx, appCtx, r, params, parsePage(r.URL.Query().Get("page")), "")
	if err != nil {
		return RepositoryPageView{}, err
	}

	detail, err := service.Repository(ctx, params.Owner, params.Name)
	if err != nil {
		return RepositoryPageView{}, err
	}

	loc := appCtx.Localizer(r)
	return RepositoryPageView{
		Layout: LayoutView{
			Title: detail.Owner + "/" + detail.Name,
			Owner: listing.Owner,
			Loc:   loc,
		},
		Listing:    listing,
		Repository: *detail,
	}, nil
}

// LoadRepositoryLivePage pages the list beside a repository without
// refetching the repository itself.
func LoadRepositoryLivePage(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	params RepositoryParams,
	state ListSignalState,
) (RepositoryPageView, error) {
	listing, err := loadRepositoryListing(ctx, appCtx, r, params, state.Page, state.Step)
	if err != nil {
		return RepositoryPageView{}, err
	}

	return RepositoryPageView{
		Layout:  LayoutView{Owner: listing.Owner, Loc: listing.Loc},
		Listing: listing,
	}, nil
}

func loadHome(ctx context.Context, appCtx *Context, r *http.Request, state ListSignalState) (HomePageView, error) {
	loc := appCtx.Localizer(r)
	view := HomePageView{Layout: LayoutView{Loc: loc}}

	owner, ok := NormalizeOwner(state.Owner)
	if !ok {
		return view, nil
	}

	service, err := catalogService(appCtx)
	if err != nil {
		return HomePageView{}, err
	}

	repositories, err := service.Repositories(ctx, owner)
	if err != nil {
		return HomePageView{}, err
	}

	listing, err := newListingView(
		repositories,
		owner,
		"",
		state.Page,
		state.Step,
		appCtx.PageSize(),
		pageLinks{
			pageURL: func(page int) string { return BuildHomeURL(owner, page) },
			liveURL: HomeLiveURL(),
		},
		loc,
	)
	if err != nil {
		return HomePageView{}, err
	}

	view.Layout.Title = owner
	view.Layout.Owner = owner
	view.Listing = &listing
	return view, nil
}

func loadRepositoryListing(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	params RepositoryParams,
	page int,
	step string,
) (ListingView, error) {
	service, err := catalogService(appCtx)
	if err != nil {
		return ListingView{}, err
	}

	repositories, err := service.Repositories(ctx, params.Owner)
	if err != nil {
		return ListingView{}, err
	}

	return newListingView(
		repositories,
		params.Owner,
		params.Name,
		page,
		step,
		appCtx.PageSize(),
		pageLinks{
			pageURL: func(page int) string { return BuildRepositoryURL(params.Owner, params.Name, page) },
			liveURL: RepositoryLiveURL(params.Owner, params.Name),
		},
		appCtx.Localizer(r),
	)
}
