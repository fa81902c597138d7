package git

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// FindRoot returns the worktree root of the repository containing path
func FindRoot(path string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open worktree at %s: %w", path, err)
	}

	return wt.Filesystem.Root(), nil
}

// RemoteURL returns the first URL configured for the named remote
func RemoteURL(path, name string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", path, err)
	}

	remote, err := repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("failed to read remote %s: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", errors.New("remote " + name + " has no URL")
	}
	return urls[0], nil
}
