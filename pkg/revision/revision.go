// Package revision reads the git commit a workspace is checked out at, so
// the generation manifest can record which source produced each output.
package revision

import (
	"errors"
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Info describes the HEAD commit of a repository.
type Info struct {
	SHA       string    `json:"sha"`
	Branch    string    `json:"branch,omitempty"`
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Short returns the abbreviated commit hash.
func (i *Info) Short() string {
	if len(i.SHA) <= 12 {
		return i.SHA
	}
	return i.SHA[:12]
}

// Current returns the HEAD commit of the repository containing dir,
// searching parent directories for .git. It returns nil and no error when
// dir is not inside a repository or the repository has no commits.
func Current(dir string) (*Info, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	info := &Info{
		SHA:       commit.Hash.String(),
		Author:    commit.Author.Name,
		Timestamp: commit.Author.When,
		Message:   commit.Message,
	}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	return info, nil
}

// SHA returns the HEAD commit hash for dir, or "" when there is none or
// the repository cannot be read.
func SHA(dir string) string {
	info, err := Current(dir)
	if err != nil || info == nil {
		return ""
	}
	return info.SHA
}
