package web

import (
	"fmt"
	"net/http"
	"strings"

	"repobrowser/framework"
	"repobrowser/framework/httpserver"
	"repobrowser/internal/catalog"
	"repobrowser/internal/config"
	"repobrowser/internal/i18n"
	"repobrowser/internal/logger"
	"repobrowser/internal/web/api"
	"repobrowser/internal/web/appcore"
	"repobrowser/internal/web/components"

	"github.com/a-h/templ"
)

// NewHandler wires the page routes, the JSON API and the static mount into one
// http.Handler.
func NewHandler(cfg config.Config, service *catalog.Service, locales *i18n.Catalog) (http.Handler, error) {
	routes, err := NewRouteTable()
	if err != nil {
		return nil, fmt.Errorf("build route table: %w", err)
	}

	appCtx := appcore.NewContext(service, locales, cfg.PageSize)

	var guard *httpserver.Guard
	if cfg.RedirectUnmatched {
		guard = &httpserver.Guard{Router: routes, Home: "/", LivePatterns: LivePatterns(routes)}
	}

	policies := httpserver.DefaultCachePolicies()
	policies.LiveNavigation = cfg.CacheLiveNavigation

	handler, err := httpserver.New(httpserver.Config[*appcore.Context]{
		AppContext: appCtx,
		Handlers:   Handlers(routes),
		Static:     httpserver.StaticMount{Dir: cfg.StaticDir},
		API: httpserver.APIMount{
			Handler:        api.NewHandler(service, cfg.PageSize),
			AllowedOrigins: cfg.CORSOrigins,
		},
		Guard:           guard,
		CachePolicies:   policies,
		IsNotFoundError: appcore.IsNotFoundError,
		NotFoundPage:    notFoundPage(appCtx),
		LogServerError:  logServerError,
		LogRequest:      logRequest,
	})
	if err != nil {
		return nil, fmt.Errorf("create http server: %w", err)
	}

	return handler, nil
}

func notFoundPage(appCtx *appcore.Context) func(r *http.Request, nfc framework.NotFoundContext) templ.Component {
	return func(r *http.Request, nfc framework.NotFoundContext) templ.Component {
		path := strings.TrimSpace(nfc.RequestPath)
		if path == "" {
			path = "/"
		}

		loc := appCtx.Localizer(r)
		layout := appcore.LayoutView{Title: loc.T("NotFoundTitle"), Loc: loc}
		body := components.NotFound(path, nfc.Source == framework.NotFoundSourceUnmatchedRoute, loc)
		if httpserver.IsPartialRequest(r) {
			return body
		}
		return components.RootLayout(layout, body)
	}
}

func logServerError(err error) {
	logger.ErrorWithFields("server error", logger.Fields{"error": err.Error()})
}

func logRequest(entry httpserver.RequestLogEntry) {
	fields := logger.Fields{
		"request_id":  entry.RequestID,
		"method":      entry.Method,
		"path":        entry.Path,
		"status":      entry.Status,
		"duration_ms": entry.Duration.Milliseconds(),
	}
	if entry.Query != "" {
		fields["query"] = entry.Query
	}

	if entry.Status >= http.StatusInternalServerError {
		logger.WarnWithFields("request", fields)
		return
	}
	logger.InfoWithFields("request", fields)
}
