package dx

import (
	"gopkg.in/yaml.v3"
)

// InvocationContext is what the deployment knows about the triggering event.
// It is resolved once, at the start of the run.
type InvocationContext struct {
	Event         GitEvent `json:"event" yaml:"event"`
	Ref           string   `json:"ref" yaml:"ref"`
	SHA           string   `json:"sha" yaml:"sha"`
	CommitMessage string   `json:"commitMessage" yaml:"commitMessage"`
	RepoOwner     string   `json:"repoOwner" yaml:"repoOwner"`
	RepoName      string   `json:"repoName" yaml:"repoName"`

	// IssueNumber is set for pull request events only
	IssueNumber *int `json:"issueNumber,omitempty" yaml:"issueNumber,omitempty"`

	// Actor is the login of the user who triggered the workflow
	Actor      string `json:"actor" yaml:"actor"`
	AuthorName string `json:"authorName" yaml:"authorName"`
}

// RepositoryName returns the owner/name form of the repository
func (i InvocationContext) RepositoryName() string {
	return i.RepoOwner + "/" + i.RepoName
}

func (i InvocationContext) String() string {
	out, _ := yaml.Marshal(i)
	return string(out)
}

// BuildConfig controls the optional static build step
type BuildConfig struct {
	Enabled        bool
	SourceDir      string
	InstallCommand string
	BuildCommand   string
}

// DeployConfig is everything the Vercel CLI needs for a deployment
type DeployConfig struct {
	Token      string
	OrgID      string
	ProjectID  string
	OutputDir  string
	Production bool
	Domain     string
}

// AssignsDomain tells if a custom domain should be aliased to the deployment.
// Production deployments get their domain from the Vercel project settings.
func (c DeployConfig) AssignsDomain() bool {
	return c.Domain != "" && !c.Production
}

// DeploymentResult is the outcome of a successful deployment
type DeploymentResult struct {
	URL string
}

func IntPtr(i int) *int {
	return &i
}

