package notifications

import (
	"context"

	"github.com/gimlet-io/vercel-deployment/pkg/dx"
	"github.com/sirupsen/logrus"
)

// Target is where the status comment went
type Target int

const (
	NoTarget Target = iota
	CommitTarget
	PullRequestTarget
)

func (t Target) String() string {
	switch t {
	case CommitTarget:
		return "commit"
	case PullRequestTarget:
		return "pull request"
	default:
		return "none"
	}
}

type commentService interface {
	CreateCommitComment(ctx context.Context, owner, repo, sha string, body string) error
	CreateComment(ctx context.Context, owner, repo string, pullNumber int, body string) error
}

type GithubPoster struct {
	service  commentService
	template string
}

// NewGithubPoster takes the comment template, empty means DefaultCommentTemplate
func NewGithubPoster(service commentService, commentTemplate string) *GithubPoster {
	return &GithubPoster{
		service:  service,
		template: commentTemplate,
	}
}

// Post comments on the pull request when there is one, on the pushed commit otherwise
func (g *GithubPoster) Post(
	ctx context.Context,
	invocation dx.InvocationContext,
	deployment dx.DeploymentResult,
	domain string,
) (Target, error) {
	target := NoTarget
	if invocation.IssueNumber != nil {
		target = PullRequestTarget
	} else if invocation.Event == dx.Push {
		target = CommitTarget
	}
	if target == NoTarget {
		logrus.Info("no pull request or pushed commit to comment on")
		return NoTarget, nil
	}

	body, err := renderComment(g.template, CommentData{
		SHA:     invocation.SHA,
		URL:     deployment.URL,
		Domain:  domain,
		Subject: target.String(),
	})
	if err != nil {
		return NoTarget, err
	}

	switch target {
	case PullRequestTarget:
		logrus.Infof("commenting on pull request #%d", *invocation.IssueNumber)
		err = g.service.CreateComment(ctx, invocation.RepoOwner, invocation.RepoName, *invocation.IssueNumber, body)
	case CommitTarget:
		logrus.Infof("commenting on commit %s", invocation.SHA)
		err = g.service.CreateCommitComment(ctx, invocation.RepoOwner, invocation.RepoName, invocation.SHA, body)
	}
	if err != nil {
		return NoTarget, err
	}
	return target, nil
}
