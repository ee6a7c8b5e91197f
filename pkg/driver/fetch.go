package driver

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// repoDirName is the clone kept next to the exported snapshots of a repo.
const repoDirName = "repo"

// FetchSuites makes the suites described by spec available on disk and
// returns the directory holding them. Local specs resolve against baseDir.
//
// Git specs share one clone per URL under cacheDir/suites/<key>/repo. The
// pinned commit's files are exported to cacheDir/suites/<key>/<commit>, so
// every spec resolving to the same commit reuses one snapshot. Rev and tag
// specs are served from the clone without network access once they resolve
// there; branch specs fetch first and fall back to the cached branch when
// the remote cannot be reached. A spec without rev, tag or branch uses the
// commit the clone was made at.
func FetchSuites(ctx context.Context, baseDir, cacheDir string, spec *SuiteSpec) (string, error) {
	if spec == nil {
		return "", fmt.Errorf("fetch: nil suite spec")
	}
	if !spec.IsGit() {
		if filepath.IsAbs(spec.Path) {
			return spec.Path, nil
		}
		return filepath.Join(baseDir, spec.Path), nil
	}
	root := filepath.Join(cacheDir, "suites", repoCacheKey(spec.Git))
	repo, err := openSuiteRepo(ctx, filepath.Join(root, repoDirName), spec.Git)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", spec.Git, err)
	}
	commit, err := resolveSuiteCommit(ctx, repo, spec)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", spec.Git, err)
	}
	snapshot := filepath.Join(root, commit.Hash.String())
	if err := exportCommit(commit, snapshot); err != nil {
		return "", fmt.Errorf("fetch %s: export %s: %w", spec.Git, commit.Hash, err)
	}
	return filepath.Join(snapshot, spec.Path), nil
}

// openSuiteRepo opens the cached clone of url, cloning it on first use.
func openSuiteRepo(ctx context.Context, dir, url string) (*git.Repository, error) {
	repo, err := git.PlainOpen(dir)
	if err == nil {
		log.LogVf("fetch: reusing clone %s", dir)
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, err
	}
	log.Infof("fetch: cloning %s", url)
	repo, err = git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{URL: url, Tags: git.AllTags})
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("git clone: %w", err)
	}
	return repo, nil
}

// suiteRevision maps a spec to a revision of the cached clone.
func suiteRevision(spec *SuiteSpec) plumbing.Revision {
	switch {
	case spec.Rev != "":
		return plumbing.Revision(spec.Rev)
	case spec.Tag != "":
		return plumbing.Revision(plumbing.NewTagReferenceName(spec.Tag))
	case spec.Branch != "":
		return plumbing.Revision(plumbing.NewRemoteReferenceName("origin", spec.Branch))
	default:
		return plumbing.Revision(plumbing.HEAD)
	}
}

func resolveSuiteCommit(ctx context.Context, repo *git.Repository, spec *SuiteSpec) (*object.Commit, error) {
	revision := suiteRevision(spec)
	hash, err := repo.ResolveRevision(revision)
	if err != nil || spec.Branch != "" {
		fetchErr := repo.FetchContext(ctx, &git.FetchOptions{Tags: git.AllTags})
		switch {
		case fetchErr == nil || errors.Is(fetchErr, git.NoErrAlreadyUpToDate):
			hash, err = repo.ResolveRevision(revision)
		case err == nil:
			log.Warnf("fetch: cannot refresh %s, using cached %s: %v", spec.Git, spec.Branch, fetchErr)
		default:
			return nil, fmt.Errorf("git fetch: %w", fetchErr)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	return repo.CommitObject(*hash)
}

// exportCommit writes the regular files of commit under dir unless dir
// already exists. Files are staged in a sibling directory and renamed into
// place so a partial export is never reused.
func exportCommit(commit *object.Commit, dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	tree, err := commit.Tree()
	if err != nil {
		return err
	}
	staging, err := os.MkdirTemp(filepath.Dir(dir), ".export-*")
	if err != nil {
		return err
	}
	err = tree.Files().ForEach(func(f *object.File) error {
		mode, err := f.Mode.ToOSFileMode()
		if err != nil {
			return err
		}
		if !mode.IsRegular() {
			return nil
		}
		contents, err := f.Contents()
		if err != nil {
			return err
		}
		target := filepath.Join(staging, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.WriteFile(target, []byte(contents), mode.Perm())
	})
	if err != nil {
		_ = os.RemoveAll(staging)
		return err
	}
	if err := os.Rename(staging, dir); err != nil {
		_ = os.RemoveAll(staging)
		if _, statErr := os.Stat(dir); statErr == nil {
			return nil
		}
		return err
	}
	log.Infof("fetch: exported %s to %s", commit.Hash, dir)
	return nil
}

// repoCacheKey names the cache directory of a repository URL: the readable
// last path element followed by a hash of the whole URL.
func repoCacheKey(url string) string {
	base := strings.TrimSuffix(path.Base(filepath.ToSlash(strings.TrimRight(url, "/"))), ".git")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%s-%x", base, sum[:6])
}
