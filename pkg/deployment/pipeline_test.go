package deployment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gimlet-io/vercel-deployment/pkg/build"
	"github.com/gimlet-io/vercel-deployment/pkg/dx"
	"github.com/gimlet-io/vercel-deployment/pkg/event"
	"github.com/gimlet-io/vercel-deployment/pkg/notifications"
	"github.com/gimlet-io/vercel-deployment/pkg/runner"
	"github.com/gimlet-io/vercel-deployment/pkg/runner/runnertest"
	"github.com/gimlet-io/vercel-deployment/pkg/vercel"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

const pushPayload = `{
  "ref": "refs/heads/main",
  "after": "abc123",
  "head_commit": {"id": "abc123", "message": "Bugfix 123", "author": {"name": "Jane Doe"}},
  "repository": {"name": "getting-started-app", "owner": {"login": "gimlet-io"}}
}`

const pullRequestPayload = `{
  "action": "opened",
  "number": 42,
  "pull_request": {
    "number": 42,
    "merge_commit_sha": "1111111111111111111111111111111111111111",
    "head": {"ref": "feature/landing-page", "sha": "25a913a"}
  },
  "repository": {"name": "getting-started-app", "owner": {"login": "gimlet-io"}}
}`

const deploymentURL = "https://example.vercel.app"

type fakeGithub struct {
	commitComments []string
	issueComments  map[int]string
	commentErr     error
}

func (f *fakeGithub) CommitMessage(ctx context.Context, owner, repo, sha string) (string, error) {
	return "Add landing page", nil
}

func (f *fakeGithub) CreateCommitComment(ctx context.Context, owner, repo, sha string, body string) error {
	f.commitComments = append(f.commitComments, body)
	return f.commentErr
}

func (f *fakeGithub) CreateComment(ctx context.Context, owner, repo string, pullNumber int, body string) error {
	if f.issueComments == nil {
		f.issueComments = map[int]string{}
	}
	f.issueComments[pullNumber] = body
	return f.commentErr
}

func (f *fakeGithub) comments() int {
	return len(f.commitComments) + len(f.issueComments)
}

type fakeExporter struct {
	exported map[string]string
}

func (f *fakeExporter) ExportVariable(name string, value string) error {
	if f.exported == nil {
		f.exported = map[string]string{}
	}
	f.exported[name] = value
	return nil
}

type recordingObserver struct {
	observed map[string]error
	skipped  []string
}

func (r *recordingObserver) Observe(step string, start time.Time, err error) {
	if r.observed == nil {
		r.observed = map[string]error{}
	}
	r.observed[step] = err
}

func (r *recordingObserver) Skipped(step string) {
	r.skipped = append(r.skipped, step)
}

type fixture struct {
	recorder *runnertest.Recorder
	github   *fakeGithub
	exporter *fakeExporter
	observer *recordingObserver
}

// succeeding makes every command pass, deploy prints the deployment url
func succeeding(command runner.Command) (*runner.Result, error) {
	if runnertest.HasArg(command, "deploy") {
		return &runner.Result{Stdout: deploymentURL + "\n"}, nil
	}
	return &runner.Result{}, nil
}

func failing(subcommand string) func(command runner.Command) (*runner.Result, error) {
	return func(command runner.Command) (*runner.Result, error) {
		if runnertest.HasArg(command, subcommand) {
			return &runner.Result{ExitCode: 1}, errors.Errorf("%s exited with code 1", command.Name)
		}
		return succeeding(command)
	}
}

func newPipeline(t *testing.T, buildConfig dx.BuildConfig, deployConfig dx.DeployConfig) (*Pipeline, *fixture) {
	f := &fixture{
		recorder: runnertest.NewRecorder(),
		github:   &fakeGithub{},
		exporter: &fakeExporter{},
		observer: &recordingObserver{},
	}
	f.recorder.Handler = succeeding

	client, err := vercel.NewClient(f.recorder, "")
	assert.Nil(t, err)

	return NewPipeline(
		event.NewResolver(f.github),
		build.NewStaticBuilder(f.recorder),
		vercel.NewEnvironment(f.exporter),
		client,
		notifications.NewGithubPoster(f.github, ""),
		f.observer,
		buildConfig,
		deployConfig,
	), f
}

func pushEvent() event.Raw {
	return event.Raw{
		Name:       "push",
		Payload:    []byte(pushPayload),
		Repository: "gimlet-io/getting-started-app",
		Actor:      "laszlocph",
	}
}

func Test_PushCommentsOnCommit(t *testing.T) {
	pipeline, f := newPipeline(t,
		dx.BuildConfig{Enabled: true, SourceDir: "site"},
		dx.DeployConfig{Token: "vercel_token", OrgID: "team_1", ProjectID: "prj_1", OutputDir: "site/public"},
	)

	result, err := pipeline.Run(context.Background(), pushEvent())
	assert.Nil(t, err)
	assert.Equal(t, "main", result.Invocation.Ref)
	assert.Equal(t, deploymentURL, result.Deployment.URL)
	assert.Equal(t, notifications.CommitTarget, result.CommentTarget)

	assert.Len(t, f.recorder.Invoked("yarn"), 2, "should install and build")
	assert.Equal(t, "team_1", f.exporter.exported[vercel.OrgIDEnv])
	assert.Equal(t, "prj_1", f.exporter.exported[vercel.ProjectIDEnv])

	assert.Len(t, f.github.issueComments, 0)
	assert.Len(t, f.github.commitComments, 1)
	assert.Contains(t, f.github.commitComments[0], "abc123")
	assert.Contains(t, f.github.commitComments[0], deploymentURL)
}

func Test_PullRequestCommentsOnIssue(t *testing.T) {
	pipeline, f := newPipeline(t, dx.BuildConfig{}, dx.DeployConfig{Token: "vercel_token"})

	result, err := pipeline.Run(context.Background(), event.Raw{
		Name:       "pull_request",
		Payload:    []byte(pullRequestPayload),
		Repository: "gimlet-io/getting-started-app",
		Actor:      "laszlocph",
	})
	assert.Nil(t, err)
	assert.Equal(t, "25a913a", result.Invocation.SHA)
	assert.Equal(t, notifications.PullRequestTarget, result.CommentTarget)
	assert.Len(t, f.github.commitComments, 0)
	assert.Contains(t, f.github.issueComments[42], deploymentURL)

	deploys := f.recorder.Invoked("deploy")
	assert.Len(t, deploys, 1)
	assert.True(t, runnertest.HasArg(deploys[0], "githubCommitMessage=Add landing page"))
}

func Test_BuildDisabled(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	pipeline, f := newPipeline(t, dx.BuildConfig{Enabled: false}, dx.DeployConfig{Token: "vercel_token"})

	_, err := pipeline.Run(context.Background(), pushEvent())
	assert.Nil(t, err)
	assert.Len(t, f.recorder.Invoked("yarn"), 0)
	assert.Contains(t, f.observer.skipped, StepBuild)

	skipped := 0
	for _, e := range hook.AllEntries() {
		if strings.HasPrefix(e.Message, "build is not enabled") {
			skipped++
		}
	}
	assert.Equal(t, 1, skipped, "should report the skipped build once")
}

func Test_BuildFailureAborts(t *testing.T) {
	pipeline, f := newPipeline(t, dx.BuildConfig{Enabled: true}, dx.DeployConfig{Token: "vercel_token"})
	f.recorder.Handler = failing("yarn")

	_, err := pipeline.Run(context.Background(), pushEvent())
	assert.NotNil(t, err)
	assert.Len(t, f.recorder.Invoked("deploy"), 0)
	assert.Equal(t, 0, f.github.comments())
}

func Test_DeployFailureAborts(t *testing.T) {
	pipeline, f := newPipeline(t, dx.BuildConfig{}, dx.DeployConfig{Token: "vercel_token", Domain: "preview.mycompany.com"})
	f.recorder.Handler = failing("deploy")

	_, err := pipeline.Run(context.Background(), pushEvent())
	assert.NotNil(t, err)
	assert.Len(t, f.recorder.Invoked("alias"), 0)
	assert.Equal(t, 0, f.github.comments())
	assert.NotNil(t, f.observer.observed[StepDeploy])
}

func Test_EmptyDeploymentURLAborts(t *testing.T) {
	pipeline, f := newPipeline(t, dx.BuildConfig{}, dx.DeployConfig{Token: "vercel_token", Domain: "preview.mycompany.com"})
	f.recorder.Handler = func(command runner.Command) (*runner.Result, error) {
		return &runner.Result{Stdout: "\n"}, nil
	}

	_, err := pipeline.Run(context.Background(), pushEvent())
	assert.True(t, errors.Is(err, vercel.ErrNoDeploymentURL))
	assert.Len(t, f.recorder.Invoked("alias"), 0)
	assert.Equal(t, 0, f.github.comments())
}

func Test_AliasFailureStillComments(t *testing.T) {
	pipeline, f := newPipeline(t, dx.BuildConfig{}, dx.DeployConfig{Token: "vercel_token", Domain: "preview.mycompany.com"})
	f.recorder.Handler = failing("alias")

	result, err := pipeline.Run(context.Background(), pushEvent())
	assert.Nil(t, err)
	assert.Len(t, f.recorder.Invoked("alias"), 1)
	assert.Equal(t, "", result.Domain)
	assert.Len(t, f.github.commitComments, 1)
	assert.NotNil(t, f.observer.observed[StepAlias])
}

func Test_AliasAssignsDomain(t *testing.T) {
	pipeline, f := newPipeline(t, dx.BuildConfig{}, dx.DeployConfig{Token: "vercel_token", Domain: "preview.mycompany.com"})

	result, err := pipeline.Run(context.Background(), pushEvent())
	assert.Nil(t, err)
	assert.Equal(t, "preview.mycompany.com", result.Domain)

	aliases := f.recorder.Invoked("alias")
	assert.Len(t, aliases, 1)
	assert.True(t, runnertest.HasArg(aliases[0], deploymentURL))
	assert.True(t, runnertest.HasArg(aliases[0], "preview.mycompany.com"))
}

func Test_ProductionSkipsAlias(t *testing.T) {
	pipeline, f := newPipeline(t, dx.BuildConfig{}, dx.DeployConfig{Token: "vercel_token", Production: true, Domain: "preview.mycompany.com"})

	_, err := pipeline.Run(context.Background(), pushEvent())
	assert.Nil(t, err)
	assert.Len(t, f.recorder.Invoked("alias"), 0)
	assert.Contains(t, f.observer.skipped, StepAlias)

	deploys := f.recorder.Invoked("deploy")
	assert.Len(t, deploys, 1)
	assert.True(t, runnertest.HasArg(deploys[0], "--prod"))
}

func Test_PreviewHasNoProductionFlag(t *testing.T) {
	pipeline, f := newPipeline(t, dx.BuildConfig{}, dx.DeployConfig{Token: "vercel_token"})

	_, err := pipeline.Run(context.Background(), pushEvent())
	assert.Nil(t, err)
	assert.False(t, runnertest.HasArg(f.recorder.Invoked("deploy")[0], "--prod"))
}

func Test_UnsupportedEvent(t *testing.T) {
	pipeline, f := newPipeline(t, dx.BuildConfig{Enabled: true}, dx.DeployConfig{Token: "vercel_token"})

	_, err := pipeline.Run(context.Background(), event.Raw{
		Name:    "issue_comment",
		Payload: []byte(`{}`),
	})
	assert.True(t, errors.Is(err, event.ErrUnsupportedEvent))
	assert.Len(t, f.recorder.Commands, 0)
	assert.Equal(t, 0, f.github.comments())
}

func Test_CommentFailureIsFatal(t *testing.T) {
	pipeline, f := newPipeline(t, dx.BuildConfig{}, dx.DeployConfig{Token: "vercel_token"})
	f.github.commentErr = errors.New("403 Resource not accessible by integration")

	result, err := pipeline.Run(context.Background(), pushEvent())
	assert.NotNil(t, err)
	assert.Equal(t, deploymentURL, result.Deployment.URL, "should keep what completed")
}
