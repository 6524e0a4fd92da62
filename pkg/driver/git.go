package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// HomeEnvVar overrides the root of the local cache.
const HomeEnvVar = "LINGER_HOME"

// GitFetcher clones program repositories into a local cache, one directory
// per repository and pinned commit.
type GitFetcher struct {
	CacheDir string
}

// NewGitFetcher caches under $LINGER_HOME/git, defaulting to ~/.linger/git.
func NewGitFetcher() (*GitFetcher, error) {
	home := strings.TrimSpace(os.Getenv(HomeEnvVar))
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("git: resolve home directory: %w", err)
		}
		home = filepath.Join(userHome, ".linger")
	}
	return &GitFetcher{CacheDir: filepath.Join(home, "git")}, nil
}

// Checkout makes the revision named by the source available on disk and returns the
// checkout directory with the resolved commit hash. A checkout already in the
// cache for the same pinned version is reused without cloning. Rev checkouts
// are stored under the full commit, so abbreviated revs hit the cache too.
func (f *GitFetcher) Checkout(spec *SourceSpec) (string, string, error) {
	if spec == nil || strings.TrimSpace(spec.Git) == "" {
		return "", "", fmt.Errorf("git: source requires a repository url")
	}
	baseDir := filepath.Join(f.CacheDir, sanitizePathSegment(repositoryName(spec.Git)))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", fmt.Errorf("git: %w", err)
	}

	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		if dir, commit, ok := cachedRevision(baseDir, rev); ok {
			return dir, commit, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", fmt.Errorf("git: %w", err)
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", fmt.Errorf("git: %w", err)
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: spec.Git})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", spec.Git, err)
	}

	hash, descriptor, err := resolveSourceRevision(repo, spec)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}

	version := pinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return targetDir, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git: %w", err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", version, err)
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git: %w", err)
	}
	return targetDir, hash.String(), nil
}

// resolveSourceRevision maps the source's selector onto a commit. Branches are
// tried as local heads first, then as remote-tracking refs from the clone.
func resolveSourceRevision(repo *git.Repository, spec *SourceSpec) (*plumbing.Hash, string, error) {
	var candidates []plumbing.Revision
	descriptor := ""
	switch {
	case strings.TrimSpace(spec.Rev) != "":
		candidates = append(candidates, plumbing.Revision(strings.TrimSpace(spec.Rev)))
	case strings.TrimSpace(spec.Tag) != "":
		descriptor = strings.TrimSpace(spec.Tag)
		candidates = append(candidates, plumbing.Revision("refs/tags/"+descriptor))
	case strings.TrimSpace(spec.Branch) != "":
		descriptor = strings.TrimSpace(spec.Branch)
		candidates = append(candidates,
			plumbing.Revision("refs/heads/"+descriptor),
			plumbing.Revision("refs/remotes/origin/"+descriptor),
		)
	default:
		candidates = append(candidates, plumbing.Revision(plumbing.HEAD))
	}
	var lastErr error
	for _, rev := range candidates {
		hash, err := repo.ResolveRevision(rev)
		if err == nil {
			return hash, descriptor, nil
		}
		lastErr = err
	}
	return nil, "", fmt.Errorf("git: resolve revision %s: %w", candidates[0], lastErr)
}

// cachedRevision finds the checkout whose commit rev abbreviates. Ambiguous
// prefixes report no match.
func cachedRevision(baseDir, rev string) (string, string, bool) {
	prefix := strings.ToLower(rev)
	if !isHexPrefix(prefix) {
		return "", "", false
	}
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return "", "", false
	}
	match := ""
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !plumbing.IsHash(name) || !strings.HasPrefix(name, prefix) {
			continue
		}
		if match != "" {
			return "", "", false
		}
		match = name
	}
	if match == "" {
		return "", "", false
	}
	return filepath.Join(baseDir, match), match, true
}

func isHexPrefix(s string) bool {
	if s == "" || len(s) > 40 {
		return false
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}

func pinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

func repositoryName(url string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(url), "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	if idx := strings.LastIndexAny(trimmed, "/:\\"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	return trimmed
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
