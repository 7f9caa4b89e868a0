package catalog

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"repobrowser/framework/reactive"
	"repobrowser/internal/gql"
	md "repobrowser/internal/markdown"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

var ErrNotFound = errors.New("not found")

const (
	defaultMaxRepositories = 300
	defaultCacheTTL        = 5 * time.Minute
	// GitHub caps connection pages at 100 nodes.
	maxBatchSize       = 100
	descriptionExcerpt = 200
)

type Repository struct {
	Owner       string
	Name        string
	Description string
	URL         string
	Language    string
	Stars       int
	Forks       int
	IsFork      bool
	IsArchived  bool
	PushedAt    string
}

type RepositoryDetail struct {
	Repository
	Homepage      string
	DefaultBranch string
	ReadmeHTML    template.HTML
	Summary       string
}

type Options struct {
	MaxRepositories int
	CacheTTL        time.Duration
	Now             func() time.Time
}

type ownerEntry struct {
	list      *reactive.Ref[[]Repository]
	fetchedAt time.Time
}

// Service reads repositories from the GitHub GraphQL API. Owner lists are
// cached and handed out as shared refs; the service is their only writer.
type Service struct {
	client          genqlientgraphql.Client
	maxRepositories int
	ttl             time.Duration
	now             func() time.Time

	mu     sync.Mutex
	owners map[string]*ownerEntry
}

func NewService(client genqlientgraphql.Client, opts Options) *Service {
	if opts.MaxRepositories < 1 {
		opts.MaxRepositories = defaultMaxRepositories
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		client:          client,
		maxRepositories: opts.MaxRepositories,
		ttl:             opts.CacheTTL,
		now:             opts.Now,
		owners:          make(map[string]*ownerEntry),
	}
}

// Repositories returns the live list of an owner's repositories, most recently
// pushed first. A stale cache entry is refetched and written into the same ref.
func (s *Service) Repositories(ctx context.Context, owner string) (*reactive.Ref[[]Repository], error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, ErrNotFound
	}
	key := strings.ToLower(owner)

	s.mu.Lock()
	entry, ok := s.owners[key]
	if ok && s.now().Sub(entry.fetchedAt) < s.ttl {
		s.mu.Unlock()
		return entry.list, nil
	}
	s.mu.Unlock()

	repositories, err := s.fetchRepositories(ctx, owner)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	entry, ok = s.owners[key]
	if !ok {
		entry = &ownerEntry{list: reactive.NewRef(repositories)}
		s.owners[key] = entry
	}
	entry.fetchedAt = s.now()
	s.mu.Unlock()

	if ok {
		entry.list.Set(repositories)
	}

	return entry.list, nil
}

// Invalidate drops the cached list for owner so the next read refetches it.
// Refs already handed out keep their value until that refetch.
func (s *Service) Invalidate(owner string) {
	key := strings.ToLower(strings.TrimSpace(owner))

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.owners[key]; ok {
		entry.fetchedAt = time.Time{}
	}
}

func (s *Service) Repository(ctx context.Context, owner string, name string) (*RepositoryDetail, error) {
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)
	if owner == "" || name == "" {
		return nil, ErrNotFound
	}

	response, err := gql.RepositoryDetails(ctx, s.client, owner, name)
	if err != nil {
		if isGraphQLError(err) && (response == nil || response.Repository == nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository %s/%s: %w", owner, name, err)
	}
	if response == nil || response.Repository == nil {
		return nil, ErrNotFound
	}

	repo := response.Repository
	detail := RepositoryDetail{
		Repository: mapRepository(owner, repo.RepositoryNode),
		Homepage:   strOr(repo.HomepageUrl, ""),
	}
	if repo.DefaultBranchRef != nil {
		detail.DefaultBranch = repo.DefaultBranchRef.Name
	}

	readme := ""
	if repo.Readme != nil {
		readme = strOr(repo.Readme.Text, "")
	}
	detail.ReadmeHTML = md.ToHTML(readme, readmeOptions(detail.URL, owner, name, detail.DefaultBranch))
	detail.Summary = detail.Description
	if detail.Summary == "" {
		detail.Summary = md.Excerpt(readme, descriptionExcerpt)
	}

	return &detail, nil
}

func (s *Service) fetchRepositories(ctx context.Context, owner string) ([]Repository, error) {
	out := make([]Repository, 0, min(s.maxRepositories, maxBatchSize))
	var after *string

	for len(out) < s.maxRepositories {
		first := min(maxBatchSize, s.maxRepositories-len(out))
		response, err := gql.OwnerRepositories(ctx, s.client, owner, first, after)
		if err != nil {
			if isGraphQLError(err) && (response == nil || response.RepositoryOwner == nil) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("repositories of %s: %w", owner, err)
		}
		if response == nil || response.RepositoryOwner == nil {
			return nil, ErrNotFound
		}

		connection := response.RepositoryOwner.Repositories
		login := strOr(&response.RepositoryOwner.Login, owner)
		for _, node := range connection.Nodes {
			out = append(out, mapRepository(login, node))
		}

		if !connection.PageInfo.HasNextPage || connection.PageInfo.EndCursor == nil || len(connection.Nodes) == 0 {
			break
		}
		after = connection.PageInfo.EndCursor
	}

	if len(out) > s.maxRepositories {
		out = out[:s.maxRepositories]
	}

	return out, nil
}

func mapRepository(owner string, node gql.RepositoryNode) Repository {
	repo := Repository{
		Owner:       owner,
		Name:        node.Name,
		Description: strOr(node.Description, ""),
		URL:         node.Url,
		Stars:       node.StargazerCount,
		Forks:       node.ForkCount,
		IsFork:      node.IsFork,
		IsArchived:  node.IsArchived,
		PushedAt:    formatDate(node.PushedAt),
	}
	if node.PrimaryLanguage != nil {
		repo.Language = node.PrimaryLanguage.Name
	}

	return repo
}

func readmeOptions(repoURL string, owner string, name string, branch string) md.Options {
	if branch == "" {
		branch = "HEAD"
	}
	if repoURL == "" {
		repoURL = "https://github.com/" + owner + "/" + name
	}

	return md.Options{
		LinkBase:  strings.TrimSuffix(repoURL, "/") + "/blob/" + branch + "/",
		ImageBase: "https://raw.githubusercontent.com/" + owner + "/" + name + "/" + branch + "/",
	}
}

// isGraphQLError reports whether the API answered with GraphQL errors, as
// opposed to a transport or HTTP failure.
func isGraphQLError(err error) bool {
	var list gqlerror.List
	if errors.As(err, &list) {
		return true
	}
	var single *gqlerror.Error
	return errors.As(err, &single)
}

func formatDate(raw *string) string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return ""
	}

	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return *raw
	}

	return parsed.Format("2006-01-02")
}

func strOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return fallback
	}

	return trimmed
}
