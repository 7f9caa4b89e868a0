package web

import (
	"strings"

	"repobrowser/framework"
	"repobrowser/framework/router"
	"repobrowser/internal/web/appcore"
	"repobrowser/internal/web/components"
)

const (
	RouteHome              = "home"
	RouteRepositoryDetails = "repository-details"

	liveSuffix = "/live"
)

// NewRouteTable builds the browser's routes. The repository route mounts the
// home view again with the owner and repository taken from the path.
func NewRouteTable() (*router.Router, error) {
	return router.New(
		router.Route{Name: RouteHome, Pattern: "/"},
		router.Route{Name: RouteRepositoryDetails, Pattern: "/[owner]/repos/[name]"},
	)
}

func Handlers(routes *router.Router) []framework.RouteHandler[*appcore.Context] {
	homePattern, _ := routes.Pattern(RouteHome)
	repositoryPattern, _ := routes.Pattern(RouteRepositoryDetails)

	return []framework.RouteHandler[*appcore.Context]{
		framework.PageAndLiveRouteHandler[*appcore.Context, framework.EmptyParams, appcore.HomePageView, appcore.ListSignalState]{
			Page: framework.PageModule[*appcore.Context, framework.EmptyParams, appcore.HomePageView]{
				Pattern:     homePattern,
				ParseParams: homeParams(routes),
				Load:        appcore.LoadHomePage,
				Render:      components.HomePage,
				Layouts: []framework.LayoutRenderer[appcore.HomePageView]{
					components.HomeLayout,
				},
			},
			Live: framework.LiveModule[*appcore.Context, framework.EmptyParams, appcore.HomePageView, appcore.ListSignalState]{
				Pattern:           livePattern(homePattern),
				ParseParams:       homeLiveParams(livePattern(homePattern)),
				ParseState:        appcore.ParseListLiveState,
				Load:              appcore.LoadHomeLivePage,
				Render:            components.HomeListing,
				SelectorID:        appcore.ListingSelectorID,
				BadRequestMessage: "invalid repository list signals",
			},
		},
		framework.PageAndLiveRouteHandler[*appcore.Context, appcore.RepositoryParams, appcore.RepositoryPageView, appcore.ListSignalState]{
			Page: framework.PageModule[*appcore.Context, appcore.RepositoryParams, appcore.RepositoryPageView]{
				Pattern:     repositoryPattern,
				ParseParams: repositoryParams(routes),
				Load:        appcore.LoadRepositoryPage,
				Render:      components.RepositoryPage,
				Layouts: []framework.LayoutRenderer[appcore.RepositoryPageView]{
					components.RepositoryLayout,
				},
			},
			Live: framework.LiveModule[*appcore.Context, appcore.RepositoryParams, appcore.RepositoryPageView, appcore.ListSignalState]{
				Pattern:           livePattern(repositoryPattern),
				ParseParams:       repositoryLiveParams(livePattern(repositoryPattern)),
				ParseState:        appcore.ParseListLiveState,
				Load:              appcore.LoadRepositoryLivePage,
				Render:            components.RepositoryListing,
				SelectorID:        appcore.ListingSelectorID,
				BadRequestMessage: "invalid repository list signals",
			},
		},
	}
}

func homeParams(routes *router.Router) framework.ParamsParser[framework.EmptyParams] {
	return func(requestPath string) (framework.EmptyParams, bool) {
		match, ok := routes.Match(requestPath)
		return framework.EmptyParams{}, ok && match.Name == RouteHome
	}
}

func homeLiveParams(pattern string) framework.ParamsParser[framework.EmptyParams] {
	return func(requestPath string) (framework.EmptyParams, bool) {
		_, ok := router.MatchPathPattern(pattern, requestPath)
		return framework.EmptyParams{}, ok
	}
}

func repositoryParams(routes *router.Router) framework.ParamsParser[appcore.RepositoryParams] {
	return func(requestPath string) (appcore.RepositoryParams, bool) {
		match, ok := routes.Match(requestPath)
		if !ok || match.Name != RouteRepositoryDetails {
			return appcore.RepositoryParams{}, false
		}
		return repositoryParamsFrom(match.Params)
	}
}

func repositoryLiveParams(pattern string) framework.ParamsParser[appcore.RepositoryParams] {
	return func(requestPath string) (appcore.RepositoryParams, bool) {
		params, ok := router.MatchPathPattern(pattern, requestPath)
		if !ok {
			return appcore.RepositoryParams{}, false
		}
		return repositoryParamsFrom(params)
	}
}

func repositoryParamsFrom(params map[string]string) (appcore.RepositoryParams, bool) {
	owner, okOwner := params["owner"]
	name, okName := params["name"]
	if !okOwner || !okName {
		return appcore.RepositoryParams{}, false
	}
	return appcore.RepositoryParams{Owner: owner, Name: name}, true
}

// LivePatterns lists the live endpoints that sit beside the page routes.
func LivePatterns(routes *router.Router) []string {
	patterns := make([]string, 0, 2)
	for _, name := range []string{RouteHome, RouteRepositoryDetails} {
		if pattern, ok := routes.Pattern(name); ok {
			patterns = append(patterns, livePattern(pattern))
		}
	}
	return patterns
}

func livePattern(pattern string) string {
	return strings.TrimSuffix(pattern, "/") + liveSuffix
}
