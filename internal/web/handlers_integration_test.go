package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"repobrowser/internal/catalog"
	"repobrowser/internal/config"
	"repobrowser/internal/i18n"
	"repobrowser/internal/web/api"

	"github.com/Khan/genqlient/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

const fakeRepositoryCount = 25

type fakeGraphQLClient struct{}

func (fakeGraphQLClient) MakeRequest(
	_ context.Context,
	req *graphql.Request,
	resp *graphql.Response,
) error {
	switch req.OpName {
	case "OwnerRepositories":
		login := requestVarString(req, "login")
		if login != "golang" {
			if err := decodeGraphQLData(resp, `{"repositoryOwner": null}`); err != nil {
				return err
			}
			return gqlerror.List{{Message: "Could not resolve to a RepositoryOwner with the login of '" + login + "'."}}
		}

		nodes := make([]string, 0, fakeRepositoryCount)
		for i := range fakeRepositoryCount {
			nodes = append(nodes, fmt.Sprintf(
				`{"name":"repo-%02d","description":"repository number %d","url":"https://github.com/golang/repo-%02d","stargazerCount":%d,"forkCount":1,"isFork":false,"isArchived":%t,"pushedAt":"2024-01-02T00:00:00Z","primaryLanguage":{"name":"Go"}}`,
				i, i, i, 100-i, i == 24,
			))
		}
		return decodeGraphQLData(resp, `{
			"repositoryOwner": {
				"login": "golang",
				"repositories": {
					"totalCount": 25,
					"pageInfo": {"hasNextPage": false, "endCursor": null},
					"nodes": [`+strings.Join(nodes, ",")+`]
				}
			}
		}`)
	case "RepositoryDetails":
		owner := requestVarString(req, "owner")
		name := requestVarString(req, "name")
		if owner != "golang" || name == "missing" {
			if err := decodeGraphQLData(resp, `{"repository": null}`); err != nil {
				return err
			}
			return gqlerror.List{{Message: "Could not resolve to a Repository."}}
		}
		return decodeGraphQLData(resp, `{
			"repository": {
				"name": "`+name+`",
				"description": "The Go programming language",
				"url": "https://github.com/golang/`+name+`",
				"homepageUrl": "https://go.dev",
				"stargazerCount": 120000,
				"forkCount": 17000,
				"pushedAt": "2024-05-06T07:08:09Z",
				"primaryLanguage": {"name": "Go"},
				"defaultBranchRef": {"name": "master"},
				"readme": {"text": "# The Go Programming Language\n\nRead [the docs](doc/README.md).\n\n`+"```go\\nfmt.Println(1)\\n```"+`"}
			}
		}`)
	}

	return fmt.Errorf("unexpected operation %q", req.OpName)
}

func decodeGraphQLData(resp *graphql.Response, payload string) error {
	return json.Unmarshal([]byte(payload), resp.Data)
}

func requestVarString(req *graphql.Request, key string) string {
	if req == nil || req.Variables == nil {
		return ""
	}

	raw, err := json.Marshal(req.Variables)
	if err != nil {
		return ""
	}

	values := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &values); err != nil {
		return ""
	}

	entry, ok := values[key]
	if !ok {
		return ""
	}

	var value string
	if err := json.Unmarshal(entry, &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.StaticDir = "static"
	cfg.PageSize = 10
	return cfg
}

func newTestHandler(t *testing.T, cfg config.Config) http.Handler {
	t.Helper()

	svc := catalog.NewService(fakeGraphQLClient{}, catalog.Options{})
	locales, err := i18n.New(cfg.DefaultLanguage)
	require.NoError(t, err)

	handler, err := NewHandler(cfg, svc, locales)
	require.NoError(t, err)
	return handler
}

func performRequest(handler http.Handler, method string, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func requireBody(t *testing.T, body io.Reader) string {
	t.Helper()
	payload, err := io.ReadAll(body)
	require.NoError(t, err)
	return string(payload)
}

func TestHandlerPageRoutesRenderHTML(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, testConfig())

	cases := []struct {
		path        string
		mustContain []string
		mustSkip    []string
	}{
		{
			path:        "/",
			mustContain: []string{"<title>Repository browser</title>", "Name a GitHub user or organization"},
		},
		{
			path: "/?owner=golang",
			mustContain: []string{
				"<title>golang :: Repository browser</title>",
				"repo-00", "repo-09", "Page 1 of 3", "25 repositories",
				`href="/?owner=golang&amp;page=2"`,
			},
			mustSkip: []string{"repo-10", `rel="prev"`},
		},
		{
			path:        "/?owner=golang&page=3",
			mustContain: []string{"repo-20", "repo-24", "Page 3 of 3", "Archived", `href="/?owner=golang&amp;page=2"`},
			mustSkip:    []string{"repo-19", `rel="next"`},
		},
		{
			path:        "/?owner=golang&page=99",
			mustContain: []string{"Page 3 of 3", "repo-24"},
		},
		{
			path: "/golang/repos/go",
			mustContain: []string{
				"<title>golang/go :: Repository browser</title>",
				"<h1>golang/go</h1>",
				"The Go programming language",
				`href="https://github.com/golang/go/blob/master/doc/README.md"`,
				`class="chroma"`,
				"repo-00",
				`href="/golang/repos/go?page=2"`,
			},
		},
		{
			path:        "/golang/repos/repo-12?page=2",
			mustContain: []string{`class="repository selected"`, "Page 2 of 3", `href="/golang/repos/repo-12?page=3"`},
		},
		{
			path:        "/?owner=golang&lang=es",
			mustContain: []string{`<html lang="es">`, "Página 1 de 3", "Siguiente"},
		},
	}

	for _, tc := range cases {
		rec := performRequest(handler, http.MethodGet, tc.path)

		require.Equal(t, http.StatusOK, rec.Code, tc.path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html", tc.path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-Id"), tc.path)

		body := requireBody(t, rec.Body)
		for _, want := range tc.mustContain {
			assert.Contains(t, body, want, tc.path)
		}
		for _, skip := range tc.mustSkip {
			assert.NotContains(t, body, skip, tc.path)
		}
		assert.NotContains(t, body, "event: datastar-patch-elements", tc.path)
	}
}

func TestHandlerLiveRoutesReturnPatch(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, testConfig())

	signals := url.QueryEscape(`{"owner":"golang","page":3,"step":"prev"}`)

	cases := []struct {
		path        string
		mustContain string
	}{
		{path: "/live?owner=golang&page=1&step=next", mustContain: "Page 2 of 3"},
		{path: "/live?datastar=" + signals, mustContain: "Page 2 of 3"},
		{path: "/live?owner=golang&page=3&step=next", mustContain: "Page 3 of 3"},
		{path: "/golang/repos/go/live?page=2&step=next", mustContain: "Page 3 of 3"},
		{path: "/live", mustContain: "Name a GitHub user or organization"},
	}

	for _, tc := range cases {
		rec := performRequest(handler, http.MethodGet, tc.path)
		require.Equal(t, http.StatusOK, rec.Code, tc.path)

		body := requireBody(t, rec.Body)
		assert.Contains(t, body, "event: datastar-patch-elements", tc.path)
		assert.Contains(t, body, "data: selector #repos-listing", tc.path)
		assert.Contains(t, body, tc.mustContain, tc.path)
		assert.NotContains(t, body, "<html", tc.path)
	}
}

func TestHandlerLiveRejectsBadSignals(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, testConfig())

	rec := performRequest(handler, http.MethodGet, "/live?datastar="+url.QueryEscape("{bad"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerNotFoundAndHealth(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, testConfig())

	recHealth := performRequest(handler, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, recHealth.Code)
	assert.Equal(t, "ok", strings.TrimSpace(requireBody(t, recHealth.Body)))

	cases := []struct {
		path        string
		mustContain string
	}{
		{path: "/?owner=ghost", mustContain: "No GitHub owner or repository matches this address."},
		{path: "/ghost/repos/anything", mustContain: "No GitHub owner or repository matches this address."},
		{path: "/golang/repos/missing", mustContain: "No GitHub owner or repository matches this address."},
		{path: "/nowhere/else", mustContain: "Nothing lives at this address."},
		{path: "/golang/repos/go$", mustContain: "Nothing lives at this address."},
	}

	for _, tc := range cases {
		rec := performRequest(handler, http.MethodGet, tc.path)
		require.Equal(t, http.StatusNotFound, rec.Code, tc.path)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"), tc.path)

		body := requireBody(t, rec.Body)
		assert.Contains(t, body, tc.mustContain, tc.path)
		assert.Contains(t, body, "<title>Not found :: Repository browser</title>", tc.path)
	}
}

func TestHandlerInvalidOwnerQueryShowsPrompt(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, testConfig())

	rec := performRequest(handler, http.MethodGet, "/?owner="+url.QueryEscape("not a login"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, requireBody(t, rec.Body), "Name a GitHub user or organization")
}

func TestHandlerRedirectsUnmatchedWhenEnabled(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.RedirectUnmatched = true
	handler := newTestHandler(t, cfg)

	rec := performRequest(handler, http.MethodGet, "/nowhere/else")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = performRequest(handler, http.MethodGet, "/golang/repos/go")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(handler, http.MethodGet, "/golang/repos/go/live")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(handler, http.MethodGet, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, path := range []string{"/a/b/c/live", "/golang/live", "/golang/stars/go/live"} {
		rec = performRequest(handler, http.MethodGet, path)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/", rec.Header().Get("Location"), path)
	}

	rec = performRequest(handler, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerServesStatic(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, testConfig())

	rec := performRequest(handler, http.MethodGet, "/static/app.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600, s-maxage=3600", rec.Header().Get("Cache-Control"))
}

func TestAPIListsRepositoryPages(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, testConfig())

	rec := performRequest(handler, http.MethodGet, "/api/owners/golang/repos?page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var payload api.ListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))

	require.Len(t, payload.Items, 10)
	assert.Equal(t, "repo-10", payload.Items[0].Name)
	assert.Equal(t, 2, payload.Pagination.CurrentPage)
	assert.Equal(t, 3, payload.Pagination.TotalPages)
	assert.Equal(t, 25, payload.Pagination.TotalCount)
	require.NotNil(t, payload.Pagination.PrevPage)
	require.NotNil(t, payload.Pagination.NextPage)
	assert.Equal(t, 1, *payload.Pagination.PrevPage)
	assert.Equal(t, 3, *payload.Pagination.NextPage)

	rec = performRequest(handler, http.MethodGet, "/api/owners/golang/repos?page=3&per_page=20")
	require.Equal(t, http.StatusOK, rec.Code)
	payload = api.ListResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.Equal(t, 2, payload.Pagination.CurrentPage)
	assert.Len(t, payload.Items, 5)
	assert.Nil(t, payload.Pagination.NextPage)
}

func TestAPIErrors(t *testing.T) {
	t.Parallel()
	handler := newTestHandler(t, testConfig())

	cases := []struct {
		path   string
		status int
	}{
		{path: "/api/owners/golang/repos?per_page=0", status: http.StatusBadRequest},
		{path: "/api/owners/golang/repos?page=0", status: http.StatusBadRequest},
		{path: "/api/owners/golang/repos?page=two", status: http.StatusBadRequest},
		{path: "/api/owners/ghost/repos", status: http.StatusNotFound},
		{path: "/api/unknown", status: http.StatusNotFound},
	}

	for _, tc := range cases {
		rec := performRequest(handler, http.MethodGet, tc.path)
		assert.Equal(t, tc.status, rec.Code, tc.path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json", tc.path)
	}
}

func TestAPICORS(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.CORSOrigins = []string{"https://app.example"}
	handler := newTestHandler(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/owners/golang/repos", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
