package nativeGit

import (
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
)

// HeadCommitMessage returns the message of the commit checked out at path.
// path may point anywhere inside the working copy.
func HeadCommitMessage(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", errors.Wrapf(err, "cannot open git repository at %s", path)
	}

	head, err := repo.Head()
	if err != nil {
		return "", errors.Wrap(err, "cannot get head")
	}

	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", errors.Wrap(err, "cannot get head commit")
	}

	return strings.TrimSpace(headCommit.Message), nil
}
