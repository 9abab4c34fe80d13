package main

import (
	"fmt"
	"io"
	"os"

	"github.com/enescakir/emoji"
	"github.com/fatih/color"
	"github.com/gimlet-io/vercel-deployment/cmd/vercel-deployment/config"
	"github.com/gimlet-io/vercel-deployment/pkg/actions"
	"github.com/gimlet-io/vercel-deployment/pkg/build"
	"github.com/gimlet-io/vercel-deployment/pkg/deployment"
	"github.com/gimlet-io/vercel-deployment/pkg/event"
	"github.com/gimlet-io/vercel-deployment/pkg/git/customScm"
	"github.com/gimlet-io/vercel-deployment/pkg/metrics"
	"github.com/gimlet-io/vercel-deployment/pkg/notifications"
	"github.com/gimlet-io/vercel-deployment/pkg/runner"
	"github.com/gimlet-io/vercel-deployment/pkg/vercel"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	previewURLOutput = "preview-url"
	domainOutput     = "domain"
)

var deployFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "env-file",
		Usage: "loads inputs from a dotenv file, eg.: INPUT_VERCELTOKEN=... Nothing is loaded when not set",
	},
}

var deployCmd = cli.Command{
	Name:  "deploy",
	Usage: "Builds, deploys to Vercel, aliases the domain and comments on GitHub",
	UsageText: `vercel-deployment deploy \
     --env-file .env`,
	Flags:  deployFlags,
	Action: deploy,
}

func deploy(c *cli.Context) error {
	err := loadEnvFile(c.String("env-file"))
	if err != nil {
		return err
	}

	cfg, err := config.Environ()
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	initLogging(cfg)

	runtime := actions.NewRuntime(os.Stdout, cfg.Runner.EnvFile, cfg.Runner.OutputFile)
	if cfg.Runner.Actions {
		runtime.AddMask(cfg.Vercel.Token)
		runtime.AddMask(cfg.Github.Token)
	}

	err = cfg.Validate()
	if err != nil {
		return err
	}
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		fmt.Println(cfg.String())
	}

	runID := uuid.New().String()
	logger := logrus.WithField("run", runID)
	logger.Infof("vercel-deployment %s", c.App.Version)

	pipeline, recorder, err := newPipeline(cfg, runtime, logger)
	if err != nil {
		return err
	}

	raw, err := event.ReadRaw(
		cfg.Runner.EventName,
		cfg.Runner.EventPath,
		cfg.Runner.Repository,
		cfg.Runner.Actor,
		cfg.Runner.Workspace,
	)
	if err != nil {
		return err
	}

	result, runErr := pipeline.Run(c.Context, raw)

	err = recorder.Push(cfg.Metrics.PushgatewayURL, cfg.Runner.Repository, runID)
	if err != nil {
		logger.Warn(err)
	}
	if runErr != nil {
		return runErr
	}

	err = setOutputs(runtime, result)
	if err != nil {
		return err
	}

	printSummary(os.Stdout, result)
	return nil
}

// loadEnvFile loads the dotenv file only when one is given.
// The working directory is the checked out repository, its .env is not configuration.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	return errors.Wrapf(err, "cannot load %s", path)
}

func newPipeline(cfg *config.Config, runtime *actions.Runtime, logger *logrus.Entry) (*deployment.Pipeline, *metrics.Recorder, error) {
	gitService, err := customScm.NewGitService(cfg.Github.Token, cfg.Runner.APIURL)
	if err != nil {
		return nil, nil, err
	}

	commandRunner := runner.NewExecRunner(logger)
	vercelClient, err := vercel.NewClient(commandRunner, cfg.Vercel.CLI)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid vercelCli")
	}

	recorder := metrics.NewRecorder()
	return deployment.NewPipeline(
		event.NewResolver(gitService),
		build.NewStaticBuilder(commandRunner),
		vercel.NewEnvironment(runtime),
		vercelClient,
		notifications.NewGithubPoster(gitService, cfg.Comment.Template),
		recorder,
		cfg.BuildConfig(),
		cfg.DeployConfig(),
	), recorder, nil
}

func setOutputs(runtime *actions.Runtime, result deployment.PipelineContext) error {
	err := runtime.SetOutput(previewURLOutput, result.Deployment.URL)
	if err != nil {
		return err
	}
	if result.Domain != "" {
		return runtime.SetOutput(domainOutput, result.Domain)
	}
	return nil
}

func printSummary(out io.Writer, result deployment.PipelineContext) {
	fmt.Fprintf(out, "%s %s %s\n", emoji.CheckMark, color.New(color.Bold).Sprint("Preview:"), color.CyanString(result.Deployment.URL))
	if result.Domain != "" {
		fmt.Fprintf(out, "%s %s %s\n", emoji.Link, color.New(color.Bold).Sprint("Domain:"), color.CyanString("https://"+result.Domain))
	}
	if result.CommentTarget != notifications.NoTarget {
		fmt.Fprintf(out, "%s commented on the %s\n", emoji.SpeechBalloon, result.CommentTarget)
	}
}
