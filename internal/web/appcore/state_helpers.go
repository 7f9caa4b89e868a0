package appcore

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"repobrowser/framework/router"

	"github.com/starfederation/datastar-go/datastar"
)

const (
	StepNext = "next"
	StepPrev = "prev"

	liveNavigationQuery = "?__live=navigation"
)

// ListSignalState is the datastar signal set carried by the repository list.
// Step asks the loader to move one page from Page.
type ListSignalState struct {
	Owner string `json:"owner"`
	Page  int    `json:"page"`
	Step  string `json:"step"`
}

func ListSignalsJSON(view ListingView) string {
	return marshalSignals(ListSignalState{
		Owner: view.Owner,
		Page:  view.Pagination.Page,
	})
}

func marshalSignals[T interface{}](value T) string {
	payload, err := json.Marshal(value)
	if err != nil {
		return "{}"
	}

	return string(payload)
}

// ParseListLiveState reads signals for a live list request, falling back to
// the query string for plain GETs.
func ParseListLiveState(r *http.Request) (ListSignalState, error) {
	fallback := ListSignalState{
		Owner: strings.TrimSpace(r.URL.Query().Get("owner")),
		Page:  parsePage(r.URL.Query().Get("page")),
		Step:  strings.TrimSpace(r.URL.Query().Get("step")),
	}

	state, err := readDatastarState(r, fallback)
	if err != nil {
		return ListSignalState{}, err
	}
	state.Owner = strings.TrimSpace(state.Owner)
	state.Page = sanitizePage(state.Page)
	state.Step = normalizeStep(state.Step)

	return state, nil
}

func readDatastarState[T interface{}](r *http.Request, fallback T) (T, error) {
	if r.Method == http.MethodGet && strings.TrimSpace(r.URL.Query().Get(datastar.DatastarKey)) == "" {
		return fallback, nil
	}

	parsed := fallback
	if err := datastar.ReadSignals(r, &parsed); err != nil {
		return fallback, err
	}

	return parsed, nil
}

func normalizeStep(step string) string {
	switch strings.ToLower(strings.TrimSpace(step)) {
	case StepNext:
		return StepNext
	case StepPrev:
		return StepPrev
	default:
		return ""
	}
}

func parsePage(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 1 {
		return 1
	}
	return parsed
}

func sanitizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NormalizeOwner returns the owner when it is a valid GitHub login.
func NormalizeOwner(owner string) (string, bool) {
	owner = strings.TrimSpace(owner)
	if owner == "" || !router.IsValidSegment(owner) {
		return "", false
	}
	return owner, true
}

func BuildHomeURL(owner string, page int) string {
	q := make(url.Values)
	if owner = strings.TrimSpace(owner); owner != "" {
		q.Set("owner", owner)
		if page > 1 {
			q.Set("page", strconv.Itoa(page))
		}
	}

	encoded := q.Encode()
	if encoded == "" {
		return "/"
	}
	return "/?" + encoded
}

func BuildRepositoryURL(owner string, name string, page int) string {
	path := repositoryPath(owner, name)
	if page > 1 {
		return path + "?page=" + strconv.Itoa(page)
	}
	return path
}

// Live URLs carry the navigation marker so live page turns get the
// navigation cache policy.
func HomeLiveURL() string {
	return "/live" + liveNavigationQuery
}

func RepositoryLiveURL(owner string, name string) string {
	return repositoryPath(owner, name) + "/live" + liveNavigationQuery
}

func repositoryPath(owner string, name string) string {
	return "/" + url.PathEscape(strings.TrimSpace(owner)) + "/repos/" + url.PathEscape(strings.TrimSpace(name))
}
