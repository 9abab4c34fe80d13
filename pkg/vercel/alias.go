package vercel

import (
	"context"

	"github.com/gimlet-io/vercel-deployment/pkg/dx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AssignDomain points the configured domain to the deployment
func (c *Client) AssignDomain(ctx context.Context, config dx.DeployConfig, deploymentURL string) error {
	logrus.Infof("[Assign domain starts] %s -> %s", config.Domain, deploymentURL)

	command := c.command("", config.Token, "alias", deploymentURL, config.Domain, "--token", config.Token)
	_, err := c.runner.Run(ctx, command)
	if err != nil {
		return errors.Wrapf(err, "cannot assign %s", config.Domain)
	}

	logrus.Info("[Assign domain ends]")
	return nil
}
