package version

import "fmt"

var (
	// Version is set at build time with -ldflags "-X github.com/gimlet-io/vercel-deployment/pkg/version.Version=..."
	Version = "idea"
	// Commit is the git sha the binary was built from
	Commit = ""
)

// String returns the version string
func String() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
