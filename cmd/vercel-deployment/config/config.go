package config

import (
	"strconv"
	"strings"

	"github.com/gimlet-io/vercel-deployment/pkg/build"
	"github.com/gimlet-io/vercel-deployment/pkg/dx"
	"github.com/gimlet-io/vercel-deployment/pkg/git/customScm/customGithub"
	"github.com/gimlet-io/vercel-deployment/pkg/vercel"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const redacted = "***"

// Environ returns the settings from the environment.
// Action inputs arrive as INPUT_<NAME>, the runner sets the GITHUB_* variables.
func Environ() (*Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg)
	defaults(&cfg)

	return &cfg, err
}

func defaults(c *Config) {
	if c.Vercel.CLI == "" {
		c.Vercel.CLI = vercel.DefaultCLI
	}
	if c.Build.InstallCommand == "" {
		c.Build.InstallCommand = build.DefaultInstallCommand
	}
	if c.Build.BuildCommand == "" {
		c.Build.BuildCommand = build.DefaultBuildCommand
	}
	if c.Runner.APIURL == "" {
		c.Runner.APIURL = customGithub.DefaultAPIURL
	}
	if c.Runner.Workspace == "" {
		c.Runner.Workspace = "."
	}
}

// String returns the configuration in string format, with the tokens redacted.
func (c *Config) String() string {
	masked := *c
	if masked.Vercel.Token != "" {
		masked.Vercel.Token = redacted
	}
	if masked.Github.Token != "" {
		masked.Github.Token = redacted
	}
	out, _ := yaml.Marshal(masked)
	return string(out)
}

// Validate fails on missing required inputs
func (c *Config) Validate() error {
	var missing []string
	if c.Vercel.Token == "" {
		missing = append(missing, "vercelToken")
	}
	if c.Github.Token == "" {
		missing = append(missing, "githubToken")
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required inputs: %s", strings.Join(missing, ", "))
	}
	if c.Deploy.Output != "" && c.Deploy.Source != "" && c.Deploy.Output != c.Deploy.Source {
		return errors.Errorf("buildOutput (%s) and deploySource (%s) are both set and differ", c.Deploy.Output, c.Deploy.Source)
	}
	if c.Deploy.BuildDomain != "" && c.Deploy.AssignDomain != "" && c.Deploy.BuildDomain != c.Deploy.AssignDomain {
		return errors.Errorf("buildDomain (%s) and assignDomain (%s) are both set and differ", c.Deploy.BuildDomain, c.Deploy.AssignDomain)
	}
	return nil
}

type Config struct {
	Logging Logging
	Vercel  Vercel
	Github  Github
	Build   Build
	Deploy  Deploy
	Comment Comment
	Metrics Metrics
	Runner  Runner
}

// Logging provides the logging configuration.
type Logging struct {
	Debug       bool `envconfig:"DEBUG"`
	Trace       bool `envconfig:"TRACE"`
	RunnerDebug bool `envconfig:"RUNNER_DEBUG"`
	Color       bool `envconfig:"LOGS_COLOR"`
	Pretty      bool `envconfig:"LOGS_PRETTY"`
	Text        bool `envconfig:"LOGS_TEXT"`
}

type Vercel struct {
	Token     string `envconfig:"INPUT_VERCELTOKEN" yaml:"token"`
	OrgID     string `envconfig:"INPUT_VERCELORGID" yaml:"orgId"`
	ProjectID string `envconfig:"INPUT_VERCELPROJECTID" yaml:"projectId"`

	// CLI is the command line that starts the Vercel CLI
	CLI string `envconfig:"INPUT_VERCELCLI" yaml:"cli"`
}

type Github struct {
	Token string `envconfig:"INPUT_GITHUBTOKEN" yaml:"token"`
}

type Build struct {
	Enabled        Bool   `envconfig:"INPUT_BUILDOPTION" yaml:"enabled"`
	Source         string `envconfig:"INPUT_BUILDSOURCE" yaml:"source"`
	InstallCommand string `envconfig:"INPUT_INSTALLCOMMAND" yaml:"installCommand"`
	BuildCommand   string `envconfig:"INPUT_BUILDCOMMAND" yaml:"buildCommand"`
}

// Deploy holds both names of the output directory and the domain inputs,
// older workflows use buildOutput and buildDomain.
type Deploy struct {
	Output       string `envconfig:"INPUT_BUILDOUTPUT" yaml:"buildOutput"`
	Source       string `envconfig:"INPUT_DEPLOYSOURCE" yaml:"deploySource"`
	BuildDomain  string `envconfig:"INPUT_BUILDDOMAIN" yaml:"buildDomain"`
	AssignDomain string `envconfig:"INPUT_ASSIGNDOMAIN" yaml:"assignDomain"`
	Production   Bool   `envconfig:"INPUT_DEPLOYPRODUCTION" yaml:"production"`
}

type Comment struct {
	Template string `envconfig:"INPUT_COMMENTTEMPLATE" yaml:"template"`
}

type Metrics struct {
	PushgatewayURL string `envconfig:"INPUT_PUSHGATEWAYURL" yaml:"pushgatewayUrl"`
}

// Runner is what GitHub Actions sets for every step
type Runner struct {
	EventName  string `envconfig:"GITHUB_EVENT_NAME" yaml:"eventName"`
	EventPath  string `envconfig:"GITHUB_EVENT_PATH" yaml:"eventPath"`
	Repository string `envconfig:"GITHUB_REPOSITORY" yaml:"repository"`
	Actor      string `envconfig:"GITHUB_ACTOR" yaml:"actor"`
	Workspace  string `envconfig:"GITHUB_WORKSPACE" yaml:"workspace"`
	APIURL     string `envconfig:"GITHUB_API_URL" yaml:"apiUrl"`
	EnvFile    string `envconfig:"GITHUB_ENV" yaml:"envFile"`
	OutputFile string `envconfig:"GITHUB_OUTPUT" yaml:"outputFile"`
	Actions    Bool   `envconfig:"GITHUB_ACTIONS" yaml:"actions"`
}

func (c *Config) BuildConfig() dx.BuildConfig {
	return dx.BuildConfig{
		Enabled:        bool(c.Build.Enabled),
		SourceDir:      c.Build.Source,
		InstallCommand: c.Build.InstallCommand,
		BuildCommand:   c.Build.BuildCommand,
	}
}

func (c *Config) DeployConfig() dx.DeployConfig {
	return dx.DeployConfig{
		Token:      c.Vercel.Token,
		OrgID:      c.Vercel.OrgID,
		ProjectID:  c.Vercel.ProjectID,
		OutputDir:  firstNonEmpty(c.Deploy.Source, c.Deploy.Output),
		Production: bool(c.Deploy.Production),
		Domain:     firstNonEmpty(c.Deploy.AssignDomain, c.Deploy.BuildDomain),
	}
}

func (c *Config) Debug() bool {
	return c.Logging.Debug || c.Logging.RunnerDebug
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Bool is a boolean input. Actions passes unset inputs as empty strings, those are false.
type Bool bool

func (b *Bool) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*b = false
		return nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return errors.Errorf("%q is not a boolean, use true or false", value)
	}
	*b = Bool(parsed)
	return nil
}
