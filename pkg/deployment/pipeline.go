package deployment

import (
	"context"
	"time"

	"github.com/gimlet-io/vercel-deployment/pkg/dx"
	"github.com/gimlet-io/vercel-deployment/pkg/event"
	"github.com/gimlet-io/vercel-deployment/pkg/notifications"
	"github.com/sirupsen/logrus"
)

const (
	StepResolve = "resolve"
	StepBuild   = "build"
	StepEnv     = "env"
	StepDeploy  = "deploy"
	StepAlias   = "alias"
	StepComment = "comment"
)

type Resolver interface {
	Resolve(ctx context.Context, raw event.Raw) (dx.InvocationContext, error)
}

type Builder interface {
	Build(ctx context.Context, config dx.BuildConfig) error
}

type EnvironmentConfigurer interface {
	Configure(config dx.DeployConfig) error
}

type Deployer interface {
	Deploy(ctx context.Context, config dx.DeployConfig, invocation dx.InvocationContext) (dx.DeploymentResult, error)
	AssignDomain(ctx context.Context, config dx.DeployConfig, deploymentURL string) error
}

type Notifier interface {
	Post(ctx context.Context, invocation dx.InvocationContext, deployment dx.DeploymentResult, domain string) (notifications.Target, error)
}

type StepObserver interface {
	Observe(step string, start time.Time, err error)
	Skipped(step string)
}

// PipelineContext is the state a run accumulates. Steps never modify the context they receive,
// they return an extended copy.
type PipelineContext struct {
	Invocation dx.InvocationContext
	Deployment dx.DeploymentResult

	// Domain is set only when the alias succeeded
	Domain        string
	CommentTarget notifications.Target
}

type Pipeline struct {
	resolver    Resolver
	builder     Builder
	environment EnvironmentConfigurer
	deployer    Deployer
	notifier    Notifier
	observer    StepObserver

	buildConfig  dx.BuildConfig
	deployConfig dx.DeployConfig
}

func NewPipeline(
	resolver Resolver,
	builder Builder,
	environment EnvironmentConfigurer,
	deployer Deployer,
	notifier Notifier,
	observer StepObserver,
	buildConfig dx.BuildConfig,
	deployConfig dx.DeployConfig,
) *Pipeline {
	if observer == nil {
		observer = noopObserver{}
	}
	return &Pipeline{
		resolver:     resolver,
		builder:      builder,
		environment:  environment,
		deployer:     deployer,
		notifier:     notifier,
		observer:     observer,
		buildConfig:  buildConfig,
		deployConfig: deployConfig,
	}
}

// Run executes the steps in order and stops at the first fatal error.
// The returned context holds everything that completed before the failure.
func (p *Pipeline) Run(ctx context.Context, raw event.Raw) (PipelineContext, error) {
	pipelineCtx, err := p.resolve(ctx, raw)
	if err != nil {
		return pipelineCtx, err
	}

	err = p.build(ctx)
	if err != nil {
		return pipelineCtx, err
	}

	err = p.configure()
	if err != nil {
		return pipelineCtx, err
	}

	pipelineCtx, err = p.deploy(ctx, pipelineCtx)
	if err != nil {
		return pipelineCtx, err
	}

	pipelineCtx = p.alias(ctx, pipelineCtx)

	return p.comment(ctx, pipelineCtx)
}

func (p *Pipeline) resolve(ctx context.Context, raw event.Raw) (PipelineContext, error) {
	start := time.Now()
	invocation, err := p.resolver.Resolve(ctx, raw)
	p.observer.Observe(StepResolve, start, err)
	if err != nil {
		return PipelineContext{}, err
	}

	logrus.WithFields(logrus.Fields{
		"event": invocation.Event,
		"ref":   invocation.Ref,
		"sha":   invocation.SHA,
	}).Infof("deploying %s", invocation.RepositoryName())
	logrus.Debugf("invocation context:\n%s", invocation.String())

	return PipelineContext{Invocation: invocation}, nil
}

func (p *Pipeline) build(ctx context.Context) error {
	if !p.buildConfig.Enabled {
		logrus.Info("build is not enabled, deploying the output directory as is")
		p.observer.Skipped(StepBuild)
		return nil
	}

	start := time.Now()
	err := p.builder.Build(ctx, p.buildConfig)
	p.observer.Observe(StepBuild, start, err)
	return err
}

func (p *Pipeline) configure() error {
	start := time.Now()
	err := p.environment.Configure(p.deployConfig)
	p.observer.Observe(StepEnv, start, err)
	return err
}

func (p *Pipeline) deploy(ctx context.Context, pipelineCtx PipelineContext) (PipelineContext, error) {
	start := time.Now()
	deployment, err := p.deployer.Deploy(ctx, p.deployConfig, pipelineCtx.Invocation)
	p.observer.Observe(StepDeploy, start, err)
	if err != nil {
		return pipelineCtx, err
	}

	logrus.Infof("deployed to %s", deployment.URL)
	pipelineCtx.Deployment = deployment
	return pipelineCtx, nil
}

// alias never fails the run, a deployment without its custom domain is still usable
func (p *Pipeline) alias(ctx context.Context, pipelineCtx PipelineContext) PipelineContext {
	if !p.deployConfig.AssignsDomain() {
		if p.deployConfig.Domain != "" {
			logrus.Infof("not assigning %s to a production deployment", p.deployConfig.Domain)
		}
		p.observer.Skipped(StepAlias)
		return pipelineCtx
	}

	start := time.Now()
	err := p.deployer.AssignDomain(ctx, p.deployConfig, pipelineCtx.Deployment.URL)
	p.observer.Observe(StepAlias, start, err)
	if err != nil {
		logrus.Warnf("domain assignment failed: %s", err)
		return pipelineCtx
	}

	logrus.Infof("%s points to %s", p.deployConfig.Domain, pipelineCtx.Deployment.URL)
	pipelineCtx.Domain = p.deployConfig.Domain
	return pipelineCtx
}

func (p *Pipeline) comment(ctx context.Context, pipelineCtx PipelineContext) (PipelineContext, error) {
	start := time.Now()
	target, err := p.notifier.Post(ctx, pipelineCtx.Invocation, pipelineCtx.Deployment, pipelineCtx.Domain)
	p.observer.Observe(StepComment, start, err)
	if err != nil {
		return pipelineCtx, err
	}

	pipelineCtx.CommentTarget = target
	return pipelineCtx, nil
}

type noopObserver struct{}

func (noopObserver) Observe(string, time.Time, error) {}
func (noopObserver) Skipped(string)                   {}
