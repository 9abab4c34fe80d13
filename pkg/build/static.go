package build

import (
	"context"
	"time"

	"github.com/gimlet-io/vercel-deployment/pkg/dx"
	"github.com/gimlet-io/vercel-deployment/pkg/runner"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultInstallCommand = "npx yarn"
	DefaultBuildCommand   = "npx yarn build"
)

// StaticBuilder installs dependencies and builds the site in the source directory
type StaticBuilder struct {
	runner runner.Runner
}

func NewStaticBuilder(runner runner.Runner) *StaticBuilder {
	return &StaticBuilder{
		runner: runner,
	}
}

// Build runs the install and the build command, the caller decides whether the build is enabled
func (b *StaticBuilder) Build(ctx context.Context, config dx.BuildConfig) error {
	logrus.Infof("[Build starts] source is at %s", sourceDir(config.SourceDir))
	start := time.Now()
	defer func() {
		logrus.Infof("[Build ends] done in %v", time.Since(start).Round(time.Millisecond))
	}()

	steps := []struct {
		name string
		line string
	}{
		{"install", orDefault(config.InstallCommand, DefaultInstallCommand)},
		{"build", orDefault(config.BuildCommand, DefaultBuildCommand)},
	}
	for _, step := range steps {
		command, err := runner.ParseCommand(step.line)
		if err != nil {
			return errors.Wrapf(err, "invalid %s command", step.name)
		}
		command.Dir = config.SourceDir

		_, err = b.runner.Run(ctx, command)
		if err != nil {
			return errors.Wrapf(err, "%s failed", step.name)
		}
	}

	return nil
}

func sourceDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

func orDefault(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
