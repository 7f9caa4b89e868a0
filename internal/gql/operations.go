package gql

import (
	"context"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

const OwnerRepositoriesOperation = `
query OwnerRepositories ($login: String!, $first: Int!, $after: String) {
	repositoryOwner(login: $login) {
		login
		repositories(first: $first, after: $after, ownerAffiliations: OWNER, orderBy: {field: PUSHED_AT, direction: DESC}) {
			totalCount
			pageInfo {
				hasNextPage
				endCursor
			}
			nodes {
				name
				description
				url
				stargazerCount
				forkCount
				isFork
				isArchived
				pushedAt
				primaryLanguage {
					name
				}
			}
		}
	}
}
`

const RepositoryDetailsOperation = `
query RepositoryDetails ($owner: String!, $name: String!) {
	repository(owner: $owner, name: $name) {
		name
		description
		url
		homepageUrl
		stargazerCount
		forkCount
		isFork
		isArchived
		pushedAt
		primaryLanguage {
			name
		}
		defaultBranchRef {
			name
		}
		readme: object(expression: "HEAD:README.md") {
			... on Blob {
				text
			}
		}
	}
}
`

type Language struct {
	Name string `json:"name"`
}

type PageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

type RepositoryNode struct {
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	Url             string    `json:"url"`
	StargazerCount  int       `json:"stargazerCount"`
	ForkCount       int       `json:"forkCount"`
	IsFork          bool      `json:"isFork"`
	IsArchived      bool      `json:"isArchived"`
	PushedAt        *string   `json:"pushedAt"`
	PrimaryLanguage *Language `json:"primaryLanguage"`
}

type OwnerRepositoriesRepositoryOwnerRepositories struct {
	TotalCount int              `json:"totalCount"`
	PageInfo   PageInfo         `json:"pageInfo"`
	Nodes      []RepositoryNode `json:"nodes"`
}

type OwnerRepositoriesRepositoryOwner struct {
	Login        string                                       `json:"login"`
	Repositories OwnerRepositoriesRepositoryOwnerRepositories `json:"repositories"`
}

type OwnerRepositoriesResponse struct {
	RepositoryOwner *OwnerRepositoriesRepositoryOwner `json:"repositoryOwner"`
}

type ownerRepositoriesInput struct {
	Login string  `json:"login"`
	First int     `json:"first"`
	After *string `json:"after"`
}

func OwnerRepositories(
	ctx context.Context,
	client genqlientgraphql.Client,
	login string,
	first int,
	after *string,
) (*OwnerRepositoriesResponse, error) {
	req := &genqlientgraphql.Request{
		OpName: "OwnerRepositories",
		Query:  OwnerRepositoriesOperation,
		Variables: &ownerRepositoriesInput{
			Login: login,
			First: first,
			After: after,
		},
	}

	data := &OwnerRepositoriesResponse{}
	resp := &genqlientgraphql.Response{Data: data}
	err := client.MakeRequest(ctx, req, resp)
	return data, err
}

type RepositoryDetailsReadme struct {
	Text *string `json:"text"`
}

type RepositoryDetailsBranch struct {
	Name string `json:"name"`
}

type RepositoryDetailsRepository struct {
	RepositoryNode
	HomepageUrl      *string                  `json:"homepageUrl"`
	DefaultBranchRef *RepositoryDetailsBranch `json:"defaultBranchRef"`
	Readme           *RepositoryDetailsReadme `json:"readme"`
}

type RepositoryDetailsResponse struct {
	Repository *RepositoryDetailsRepository `json:"repository"`
}

type repositoryDetailsInput struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func RepositoryDetails(
	ctx context.Context,
	client genqlientgraphql.Client,
	owner string,
	name string,
) (*RepositoryDetailsResponse, error) {
	req := &genqlientgraphql.Request{
		OpName: "RepositoryDetails",
		Query:  RepositoryDetailsOperation,
		Variables: &repositoryDetailsInput{
			Owner: owner,
			Name:  name,
		},
	}

	data := &RepositoryDetailsResponse{}
	resp := &genqlientgraphql.Response{Data: data}
	err := client.MakeRequest(ctx, req, resp)
	return data, err
}
