package vercel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gimlet-io/vercel-deployment/pkg/dx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrNoDeploymentURL = errors.New("vercel did not print a deployment url")

// Deploy creates a new deployment from the output directory.
// The CLI prints the deployment url on stdout, everything else goes to stderr.
func (c *Client) Deploy(ctx context.Context, config dx.DeployConfig, invocation dx.InvocationContext) (dx.DeploymentResult, error) {
	logrus.Infof("[Deploy starts] output is at %s", outputDir(config.OutputDir))
	start := time.Now()

	command := c.command(config.OutputDir, config.Token, deployArgs(config, invocation)...)
	result, err := c.runner.Run(ctx, command)
	if err != nil {
		return dx.DeploymentResult{}, errors.Wrap(err, "deployment failed")
	}

	url := strings.TrimSpace(result.Stdout)
	if url == "" {
		return dx.DeploymentResult{}, ErrNoDeploymentURL
	}

	logrus.Infof("[Deploy ends] deployed to %s in %v", url, time.Since(start).Round(time.Millisecond))
	return dx.DeploymentResult{URL: url}, nil
}

// deployArgs builds the argument list. The metadata keys are the ones
// Vercel's own GitHub integration sets, the dashboard parses them.
func deployArgs(config dx.DeployConfig, invocation dx.InvocationContext) []string {
	args := []string{"deploy", "--token", config.Token}

	metadata := []struct {
		key   string
		value string
	}{
		{"githubDeployment", "1"},
		{"githubOrg", invocation.RepoOwner},
		{"githubRepo", invocation.RepoName},
		{"githubCommitOrg", invocation.RepoOwner},
		{"githubCommitRepo", invocation.RepoName},
		{"githubCommitRef", invocation.Ref},
		{"githubCommitSha", invocation.SHA},
		{"githubCommitMessage", invocation.CommitMessage},
		{"githubCommitAuthorLogin", invocation.Actor},
		{"githubCommitAuthorName", invocation.AuthorName},
	}
	for _, m := range metadata {
		args = append(args, "-m", fmt.Sprintf("%s=%s", m.key, m.value))
	}

	if config.Production {
		args = append(args, "--prod")
	}
	return args
}

func outputDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
