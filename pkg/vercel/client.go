package vercel

import (
	"github.com/gimlet-io/vercel-deployment/pkg/runner"
)

const DefaultCLI = "npx vercel"

// Client drives the Vercel CLI
type Client struct {
	runner runner.Runner
	cli    runner.Command
}

// NewClient takes the command line that invokes the CLI, eg.: `npx vercel` or `vercel`
func NewClient(r runner.Runner, cli string) (*Client, error) {
	if cli == "" {
		cli = DefaultCLI
	}
	command, err := runner.ParseCommand(cli)
	if err != nil {
		return nil, err
	}
	return &Client{
		runner: r,
		cli:    command,
	}, nil
}

func (c *Client) command(dir string, token string, args ...string) runner.Command {
	return runner.Command{
		Dir:     dir,
		Name:    c.cli.Name,
		Args:    append(append([]string{}, c.cli.Args...), args...),
		Secrets: []string{token},
	}
}
