package event

import (
	"context"
	"os"
	"strings"

	"github.com/gimlet-io/vercel-deployment/pkg/dx"
	"github.com/gimlet-io/vercel-deployment/pkg/git/nativeGit"
	"github.com/google/go-github/v37/github"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrUnsupportedEvent = errors.New("unsupported event type")

// Raw is the triggering event as the runner hands it over
type Raw struct {
	Name    string
	Payload []byte

	// Repository is GITHUB_REPOSITORY, in owner/name form
	Repository string
	Actor      string
	Workspace  string
}

// ReadRaw reads the event payload from GITHUB_EVENT_PATH
func ReadRaw(name, payloadPath, repository, actor, workspace string) (Raw, error) {
	raw := Raw{
		Name:       name,
		Repository: repository,
		Actor:      actor,
		Workspace:  workspace,
	}
	if payloadPath == "" {
		return raw, errors.New("event payload path is not set")
	}

	payload, err := os.ReadFile(payloadPath)
	if err != nil {
		return raw, errors.Wrap(err, "cannot read event payload")
	}
	raw.Payload = payload
	return raw, nil
}

type CommitFetcher interface {
	CommitMessage(ctx context.Context, owner, repo, sha string) (string, error)
}

type Resolver struct {
	commits     CommitFetcher
	headMessage func(path string) (string, error)
}

func NewResolver(commits CommitFetcher) *Resolver {
	return &Resolver{
		commits:     commits,
		headMessage: nativeGit.HeadCommitMessage,
	}
}

// Resolve derives ref, sha and commit message from a push or pull_request event
func (r *Resolver) Resolve(ctx context.Context, raw Raw) (dx.InvocationContext, error) {
	gitEvent, err := dx.GitEventFromString(raw.Name)
	if err != nil {
		return dx.InvocationContext{}, errors.Wrapf(ErrUnsupportedEvent, "%q, only push and pull_request are supported", raw.Name)
	}

	parsed, err := github.ParseWebHook(raw.Name, raw.Payload)
	if err != nil {
		return dx.InvocationContext{}, errors.Wrapf(err, "cannot parse %s event payload", raw.Name)
	}

	var invocation dx.InvocationContext
	switch *gitEvent {
	case dx.Push:
		logrus.Info("retrieving push metadata")
		invocation, err = r.push(parsed.(*github.PushEvent), raw)
	case dx.PR:
		logrus.Info("retrieving pull request metadata")
		invocation, err = r.pullRequest(ctx, parsed.(*github.PullRequestEvent), raw)
	}
	if err != nil {
		return dx.InvocationContext{}, err
	}

	invocation.Event = *gitEvent
	invocation.Actor = raw.Actor
	if invocation.AuthorName == "" {
		invocation.AuthorName = raw.Actor
	}
	return invocation, nil
}

func (r *Resolver) push(event *github.PushEvent, raw Raw) (dx.InvocationContext, error) {
	owner, name := splitRepository(raw.Repository, event.GetRepo().GetOwner().GetLogin(), event.GetRepo().GetName())

	invocation := dx.InvocationContext{
		Ref:       ShortRef(event.GetRef()),
		RepoOwner: owner,
		RepoName:  name,
	}

	headCommit := event.GetHeadCommit()
	if headCommit != nil && headCommit.GetID() != "" {
		invocation.SHA = headCommit.GetID()
		invocation.CommitMessage = headCommit.GetMessage()
		invocation.AuthorName = headCommit.GetAuthor().GetName()
		return invocation, nil
	}

	invocation.SHA = event.GetAfter()
	workspace := raw.Workspace
	if workspace == "" {
		workspace = "."
	}
	message, err := r.headMessage(workspace)
	if err != nil {
		return dx.InvocationContext{}, errors.Wrap(err, "push event has no head commit and the checkout is not readable")
	}
	invocation.CommitMessage = message
	return invocation, nil
}

func (r *Resolver) pullRequest(ctx context.Context, event *github.PullRequestEvent, raw Raw) (dx.InvocationContext, error) {
	owner, name := splitRepository(raw.Repository, event.GetRepo().GetOwner().GetLogin(), event.GetRepo().GetName())
	head := event.GetPullRequest().GetHead()

	invocation := dx.InvocationContext{
		Ref:       head.GetRef(),
		SHA:       head.GetSHA(),
		RepoOwner: owner,
		RepoName:  name,
	}

	number := event.GetNumber()
	if number == 0 {
		number = event.GetPullRequest().GetNumber()
	}
	if number != 0 {
		invocation.IssueNumber = dx.IntPtr(number)
	}

	// the pull request payload does not carry the head commit message
	message, err := r.commits.CommitMessage(ctx, owner, name, invocation.SHA)
	if err != nil {
		return dx.InvocationContext{}, err
	}
	invocation.CommitMessage = message
	return invocation, nil
}

// ShortRef strips the ref namespace, refs/heads/main becomes main
func ShortRef(ref string) string {
	for _, prefix := range []string{"refs/heads/", "refs/tags/"} {
		if strings.HasPrefix(ref, prefix) {
			return strings.TrimPrefix(ref, prefix)
		}
	}
	return ref
}

func splitRepository(repository string, fallbackOwner string, fallbackName string) (string, string) {
	parts := strings.Split(repository, "/")
	if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		return parts[0], parts[1]
	}
	return fallbackOwner, fallbackName
}
