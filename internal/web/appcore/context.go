package appcore

import (
	"errors"
	"net/http"

	"repobrowser/internal/catalog"
	"repobrowser/internal/i18n"
	"repobrowser/internal/pagination"
)

var errCatalogUnavailable = errors.New("catalog service unavailable")

type Context struct {
	catalog  *catalog.Service
	locales  *i18n.Catalog
	pageSize int
}

func NewContext(service *catalog.Service, locales *i18n.Catalog, pageSize int) *Context {
	if pageSize < 1 {
		pageSize = pagination.DefaultPageSize
	}

	return &Context{
		catalog:  service,
		locales:  locales,
		pageSize: pageSize,
	}
}

func (c *Context) PageSize() int {
	if c == nil {
		return pagination.DefaultPageSize
	}
	return c.pageSize
}

// Localizer returns the request's localizer, or nil when no catalog is set.
func (c *Context) Localizer(r *http.Request) *i18n.Localizer {
	if c == nil || c.locales == nil {
		return nil
	}
	return c.locales.ForRequest(r)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, catalog.ErrNotFound)
}

func catalogService(appCtx *Context) (*catalog.Service, error) {
	if appCtx == nil || appCtx.catalog == nil {
		return nil, errCatalogUnavailable
	}
	return appCtx.catalog, nil
}
