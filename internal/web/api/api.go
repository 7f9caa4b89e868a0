// Package api serves paged repository lists as JSON.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"repobrowser/framework/router"
	"repobrowser/internal/catalog"
	"repobrowser/internal/logger"
	"repobrowser/internal/pagination"
)

const (
	MaxPageSize       = 100
	ownerReposPattern = "GET /api/owners/{owner}/repos"
)

type RepositoryItem struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	IsFork      bool   `json:"is_fork"`
	IsArchived  bool   `json:"is_archived"`
	PushedAt    string `json:"pushed_at,omitempty"`
}

type PaginationMeta struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
	PrevPage    *int `json:"prev_page"`
	NextPage    *int `json:"next_page"`
}

type ListResponse struct {
	Items      []RepositoryItem `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handler struct {
	catalog  *catalog.Service
	pageSize int
}

func NewHandler(service *catalog.Service, defaultPageSize int) http.Handler {
	if defaultPageSize < 1 {
		defaultPageSize = pagination.DefaultPageSize
	}

	h := &handler{catalog: service, pageSize: defaultPageSize}
	mux := http.NewServeMux()
	mux.HandleFunc(ownerReposPattern, h.ownerRepositories)
	mux.HandleFunc("/api/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	return mux
}

func (h *handler) ownerRepositories(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(r.PathValue("owner"))
	if !router.IsValidSegment(owner) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "owner not found"})
		return
	}

	page, err := intParam(r, "page", 1)
	if err != nil || page < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "page must be a positive integer"})
		return
	}
	perPage, err := intParam(r, "per_page", h.pageSize)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "per_page must be an integer"})
		return
	}
	perPage = min(perPage, MaxPageSize)

	repositories, err := h.catalog.Repositories(r.Context(), owner)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "owner not found"})
			return
		}
		logger.ErrorWithFields("list repositories failed", logger.Fields{
			"owner": owner,
			"error": err.Error(),
		})
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream request failed"})
		return
	}

	pager, err := pagination.New[catalog.Repository](repositories, perPage)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	pager.Seek(page)

	writeJSON(w, http.StatusOK, newListResponse(pager))
}

func newListResponse(pager *pagination.Pager[catalog.Repository]) ListResponse {
	window := pager.Items()
	items := make([]RepositoryItem, 0, len(window))
	for _, repo := range window {
		items = append(items, RepositoryItem{
			Owner:       repo.Owner,
			Name:        repo.Name,
			Description: repo.Description,
			URL:         repo.URL,
			Language:    repo.Language,
			Stars:       repo.Stars,
			Forks:       repo.Forks,
			IsFork:      repo.IsFork,
			IsArchived:  repo.IsArchived,
			PushedAt:    repo.PushedAt,
		})
	}

	meta := PaginationMeta{
		CurrentPage: pager.CurrentPage(),
		PageSize:    pager.PageSize(),
		TotalPages:  pager.TotalPages(),
		TotalCount:  pager.Len(),
	}
	if pager.HasPrev() {
		prev := meta.CurrentPage - 1
		meta.PrevPage = &prev
	}
	if pager.HasNext() {
		next := meta.CurrentPage + 1
		meta.NextPage = &next
	}

	return ListResponse{Items: items, Pagination: meta}
}

func intParam(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WarnWithFields("write json response failed", logger.Fields{
			"status": status,
			"error":  err.Error(),
		})
	}
}
