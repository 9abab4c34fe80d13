package customScm

import (
	"context"

	"github.com/gimlet-io/vercel-deployment/pkg/git/customScm/customGithub"
)

// CustomGitService is the part of the source control API the deployment uses
type CustomGitService interface {
	CommitMessage(ctx context.Context, owner, repo, sha string) (string, error)
	CreateCommitComment(ctx context.Context, owner, repo, sha string, body string) error
	CreateComment(ctx context.Context, owner, repo string, pullNumber int, body string) error
}

func NewGitService(token string, apiURL string) (CustomGitService, error) {
	client, err := customGithub.NewGithubClient(token, apiURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}
