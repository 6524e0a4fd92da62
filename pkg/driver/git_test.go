package driver

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func requireGitBinary(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available for file transport")
	}
}

func initGitRepo(t *testing.T, dir string) (*git.Repository, string) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return repo, commitAll(t, repo, dir, "init")
}

func commitAll(t *testing.T, repo *git.Repository, dir, message string) string {
	t.Helper()
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == filepath.Join(dir, ".git") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Linger CLI",
			Email: "linger@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func TestGitFetcherChecksOutTagsAndRevisions(t *testing.T) {
	requireGitBinary(t)
	repoDir := t.TempDir()
	writeFile(t, filepath.Join(repoDir, "main.ling"), `main() { print("v1"); }`)
	repo, first := initGitRepo(t, repoDir)
	if _, err := repo.CreateTag("v1", plumbing.NewHash(first), nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	writeFile(t, filepath.Join(repoDir, "main.ling"), `main() { print("v2"); }`)
	second := commitAll(t, repo, repoDir, "second")

	fetcher := &GitFetcher{CacheDir: t.TempDir()}

	dir, commit, err := fetcher.Checkout(&SourceSpec{Git: repoDir, Tag: "v1"})
	if err != nil {
		t.Fatalf("Checkout tag: %v", err)
	}
	if commit != first {
		t.Fatalf("tag resolved to %s, want %s", commit, first)
	}
	if got := readTrimmed(t, filepath.Join(dir, "main.ling")); !strings.Contains(got, `"v1"`) {
		t.Fatalf("tag checkout has wrong contents %q", got)
	}
	if !strings.HasSuffix(dir, "v1_"+first) {
		t.Fatalf("checkout dir %q should pin the tag and commit", dir)
	}

	headDir, headCommit, err := fetcher.Checkout(&SourceSpec{Git: repoDir})
	if err != nil {
		t.Fatalf("Checkout HEAD: %v", err)
	}
	if headCommit != second {
		t.Fatalf("HEAD resolved to %s, want %s", headCommit, second)
	}
	if got := readTrimmed(t, filepath.Join(headDir, "main.ling")); !strings.Contains(got, `"v2"`) {
		t.Fatalf("HEAD checkout has wrong contents %q", got)
	}

	revDir, revCommit, err := fetcher.Checkout(&SourceSpec{Git: repoDir, Rev: first})
	if err != nil {
		t.Fatalf("Checkout rev: %v", err)
	}
	if revCommit != first || filepath.Base(revDir) != first {
		t.Fatalf("rev checkout = %s at %s", revCommit, revDir)
	}
	again, _, err := fetcher.Checkout(&SourceSpec{Git: repoDir, Rev: first})
	if err != nil || again != revDir {
		t.Fatalf("expected cached rev checkout %s, got %s (%v)", revDir, again, err)
	}
}

func TestGitFetcherReusesAbbreviatedRevCheckout(t *testing.T) {
	requireGitBinary(t)
	repoDir := t.TempDir()
	writeFile(t, filepath.Join(repoDir, "main.ling"), `main() { print("pinned"); }`)
	_, first := initGitRepo(t, repoDir)

	fetcher := &GitFetcher{CacheDir: t.TempDir()}
	short := first[:7]
	dir, commit, err := fetcher.Checkout(&SourceSpec{Git: repoDir, Rev: short})
	if err != nil {
		t.Fatalf("Checkout short rev: %v", err)
	}
	if commit != first || filepath.Base(dir) != first {
		t.Fatalf("short rev checkout = %s at %s, want %s", commit, dir, first)
	}

	// With the remote gone, only the cache can satisfy the second checkout.
	if err := os.RemoveAll(repoDir); err != nil {
		t.Fatalf("remove repo: %v", err)
	}
	again, againCommit, err := fetcher.Checkout(&SourceSpec{Git: repoDir, Rev: short})
	if err != nil {
		t.Fatalf("expected cached checkout for %s: %v", short, err)
	}
	if again != dir || againCommit != first {
		t.Fatalf("cached checkout = %s at %s, want %s at %s", againCommit, again, first, dir)
	}
}

func TestGitFetcherReportsUnknownRevisions(t *testing.T) {
	requireGitBinary(t)
	repoDir := t.TempDir()
	writeFile(t, filepath.Join(repoDir, "main.ling"), `main() { return; }`)
	initGitRepo(t, repoDir)

	fetcher := &GitFetcher{CacheDir: t.TempDir()}
	if _, _, err := fetcher.Checkout(&SourceSpec{Git: repoDir, Branch: "nope"}); err == nil || !strings.Contains(err.Error(), "resolve revision") {
		t.Fatalf("expected resolve error, got %v", err)
	}
	if _, _, err := fetcher.Checkout(&SourceSpec{}); err == nil {
		t.Fatalf("expected missing url error")
	}
}

func TestLoaderLoadsTargetsFromGitSource(t *testing.T) {
	requireGitBinary(t)
	repoDir := t.TempDir()
	writeFile(t, filepath.Join(repoDir, "src", "app.ling"), `main() { print(1); }`)
	_, commit := initGitRepo(t, repoDir)

	manifest := &Manifest{
		Path:   filepath.Join(t.TempDir(), ManifestFileName),
		Name:   "remote",
		Main:   "src/app.ling",
		Source: &SourceSpec{Git: repoDir},
	}
	target, err := manifest.DefaultTarget()
	if err != nil {
		t.Fatalf("DefaultTarget error: %v", err)
	}
	loader := NewLoader(&GitFetcher{CacheDir: t.TempDir()})
	prog, err := loader.LoadTarget(manifest, target)
	if err != nil {
		t.Fatalf("LoadTarget error: %v", err)
	}
	if prog.Commit != commit {
		t.Fatalf("Commit = %q, want %q", prog.Commit, commit)
	}
	if _, ok := prog.AST.Procedure("main"); !ok {
		t.Fatalf("expected main procedure")
	}
}

func TestSanitizeHelpers(t *testing.T) {
	if got := sanitizePathSegment("feature/x y"); got != "feature_x_y" {
		t.Fatalf("sanitizePathSegment = %q", got)
	}
	if got := sanitizePathSegment(" "); got != "head" {
		t.Fatalf("sanitizePathSegment(blank) = %q", got)
	}
	if got := repositoryName("https://example.com/org/lists.git/"); got != "lists" {
		t.Fatalf("repositoryName = %q", got)
	}
	if got := pinnedVersion("main", "abc"); got != "main@abc" {
		t.Fatalf("pinnedVersion = %q", got)
	}
	if got := pinnedVersion("abc", "abc"); got != "abc" {
		t.Fatalf("pinnedVersion(rev) = %q", got)
	}
}

func TestNewGitFetcherHonoursHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnvVar, home)
	fetcher, err := NewGitFetcher()
	if err != nil {
		t.Fatalf("NewGitFetcher error: %v", err)
	}
	if fetcher.CacheDir != filepath.Join(home, "git") {
		t.Fatalf("CacheDir = %q", fetcher.CacheDir)
	}
}

func readTrimmed(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.TrimSpace(string(data))
}
