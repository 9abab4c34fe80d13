package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/enescakir/emoji"
	"github.com/gimlet-io/vercel-deployment/cmd/vercel-deployment/config"
	"github.com/gimlet-io/vercel-deployment/pkg/actions"
	"github.com/gimlet-io/vercel-deployment/pkg/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx := listenOSKillSignalsContext(context.Background())

	app := &cli.App{
		Name:                 "vercel-deployment",
		Version:              version.String(),
		Usage:                "deploys to Vercel from GitHub Actions and comments the preview url",
		EnableBashCompletion: true,
		Flags:                deployFlags,
		Action:               deploy,
		Commands: []*cli.Command{
			&deployCmd,
		},
	}
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		logrus.Errorf("%s %s", emoji.CrossMark, err.Error())
		os.Exit(1)
	}
}

func initLogging(c *config.Config) {
	if c.Debug() {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if c.Logging.Trace {
		logrus.SetLevel(logrus.TraceLevel)
	}
	if c.Runner.Actions {
		// the runner only picks up workflow commands from stdout
		logrus.SetOutput(os.Stdout)
		logrus.SetFormatter(&actions.Formatter{})
		return
	}
	if c.Logging.Text {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   c.Logging.Color,
			DisableColors: !c.Logging.Color,
		})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{
			PrettyPrint: c.Logging.Pretty,
		})
	}
}

func listenOSKillSignalsContext(ctx context.Context) context.Context {
	var cancelFunc context.CancelFunc
	ctx, cancelFunc = context.WithCancel(ctx)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		select {
		case sig := <-ch:
			fmt.Fprintf(os.Stderr, "received %s, stopping\n", sig)
			cancelFunc()
		case <-ctx.Done():
			return
		}
	}()
	return ctx
}
