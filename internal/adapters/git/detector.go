// Package git provides git context detection using go-git. The session
// wizard uses the branch name as the default task label; the shame card
// names the repository.
package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/xvierd/dreadline/internal/ports"
)

// Detector implements the ports.GitDetector interface using go-git.
type Detector struct{}

// NewDetector creates a new git detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Ensure Detector implements ports.GitDetector.
var _ ports.GitDetector = (*Detector)(nil)

// Detect scans the working directory for git context.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	if workingDir == "" {
		var err error
		workingDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	repoPath, err := findGitRepo(workingDir)
	if err != nil {
		return nil, fmt.Errorf("git repository not found: %w", err)
	}

	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	branch := head.Name().Short()
	if branch == "HEAD" {
		branch = "HEAD detached"
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}
	commitMsg := strings.Split(commit.Message, "\n")[0]

	repoName := ""
	remotes, err := repo.Remotes()
	if err == nil && len(remotes) > 0 {
		urls := remotes[0].Config().URLs
		if len(urls) > 0 {
			repoName = extractRepoName(urls[0])
		}
	}

	isClean := true
	if worktree, err := repo.Worktree(); err == nil {
		if status, err := worktree.Status(); err == nil {
			isClean = status.IsClean()
		}
	}

	return &ports.GitInfo{
		Branch:     branch,
		Commit:     head.Hash().String(),
		CommitMsg:  commitMsg,
		IsClean:    isClean,
		Repository: repoName,
	}, nil
}

// IsAvailable checks whether the current directory sits inside a git
// repository.
func (d *Detector) IsAvailable() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	_, err = findGitRepo(cwd)
	return err == nil
}

// findGitRepo traverses up the directory tree to find a .git directory.
func findGitRepo(startPath string) (string, error) {
	currentPath := startPath

	for {
		gitPath := filepath.Join(currentPath, ".git")
		info, err := os.Stat(gitPath)
		if err == nil && info.IsDir() {
			return currentPath, nil
		}

		// A .git file marks a worktree checkout.
		if err == nil && !info.IsDir() {
			content, err := os.ReadFile(gitPath)
			if err == nil && strings.HasPrefix(string(content), "gitdir: ") {
				return currentPath, nil
			}
		}

		parent := filepath.Dir(currentPath)
		if parent == currentPath {
			break
		}
		currentPath = parent
	}

	return "", fmt.Errorf("no .git directory found")
}

// extractRepoName extracts the repository name from a git URL.
func extractRepoName(url string) string {
	// SSH URLs like git@github.com:user/repo.git
	if strings.HasPrefix(url, "git@") {
		parts := strings.Split(url, ":")
		if len(parts) >= 2 {
			path := parts[len(parts)-1]
			return strings.TrimSuffix(path, ".git")
		}
	}

	// HTTPS URLs like https://github.com/user/repo.git
	if strings.HasPrefix(url, "http") {
		parts := strings.Split(url, "/")
		if len(parts) >= 2 {
			repo := strings.TrimSuffix(parts[len(parts)-1], ".git")
			return parts[len(parts)-2] + "/" + repo
		}
	}

	return url
}

// TaskLabelFrom turns git context into a default task label: the branch
// name, humanized.
func TaskLabelFrom(info *ports.GitInfo) string {
	if info == nil || info.Branch == "" || info.Branch == "HEAD detached" {
		return ""
	}
	label := info.Branch
	for _, prefix := range []string{"feature/", "fix/", "bugfix/", "chore/"} {
		label = strings.TrimPrefix(label, prefix)
	}
	return strings.ReplaceAll(label, "-", " ")
}
