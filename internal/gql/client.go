package gql

import (
	"net/http"
	"time"

	"repobrowser/internal/config"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

func NewClient(cfg config.Config) genqlientgraphql.Client {
	client := &http.Client{
		Timeout: 15 * time.Second,
		Transport: &authTransport{
			base:  http.DefaultTransport,
			token: cfg.GitHubToken,
		},
	}

	return genqlientgraphql.NewClient(cfg.GitHubGraphQLEndpoint, client)
}

type authTransport struct {
	base  http.RoundTripper
	token string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", "repobrowser")
	if t.token != "" {
		clone.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.base.RoundTrip(clone)
}
