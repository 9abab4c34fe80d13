package customGithub

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/go-github/v37/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const DefaultAPIURL = "https://api.github.com"

type GithubClient struct {
	client *github.Client
}

// NewGithubClient returns a REST client authenticated with the workflow token.
// apiURL is GITHUB_API_URL, it differs from the default on GitHub Enterprise Server.
func NewGithubClient(token string, apiURL string) (*GithubClient, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	client := github.NewClient(tc)

	if apiURL != "" && apiURL != DefaultAPIURL {
		baseURL, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
		if err != nil {
			return nil, errors.Wrapf(err, "invalid github api url %s", apiURL)
		}
		client.BaseURL = baseURL
	}

	return &GithubClient{
		client: client,
	}, nil
}

// CommitMessage fetches the full message of a commit
func (c *GithubClient) CommitMessage(ctx context.Context, owner, repo, sha string) (string, error) {
	commit, _, err := c.client.Git.GetCommit(ctx, owner, repo, sha)
	if err != nil {
		return "", errors.Wrapf(err, "could not get commit %s", sha)
	}
	return commit.GetMessage(), nil
}

// CreateCommitComment comments on a commit
func (c *GithubClient) CreateCommitComment(ctx context.Context, owner, repo, sha string, body string) error {
	_, _, err := c.client.Repositories.CreateComment(ctx, owner, repo, sha, &github.RepositoryComment{
		Body: &body,
	})
	return errors.Wrapf(err, "could not create commit comment on %s", sha)
}

// CreateComment comments on a pull request
func (c *GithubClient) CreateComment(ctx context.Context, owner, repo string, pullNumber int, body string) error {
	_, _, err := c.client.Issues.CreateComment(ctx, owner, repo, pullNumber, &github.IssueComment{
		Body: &body,
	})
	return errors.Wrapf(err, "could not create comment on #%d", pullNumber)
}
