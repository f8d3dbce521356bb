/*
SPDX-FileCopyrightText: 2026 Red Hat, Inc. and pko-tools contributors
SPDX-License-Identifier: Apache-2.0
*/

package repository

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
	"github.com/sap/go-generics/slices"
	git "gopkg.in/src-d/go-git.v4"
	"gopkg.in/src-d/go-git.v4/plumbing"
	"gopkg.in/src-d/go-git.v4/plumbing/object"
)

// Sentinel errors of the fatal precondition tier.
var (
	ErrNotARepository   = errors.New("not a git repository")
	ErrNoUpstreamRemote = errors.New("no upstream remote found")
)

const (
	originRemoteName      = "origin"
	upstreamRemoteMarker  = "openshift"
	defaultBranchFallback = "main"
	shortHashLength       = 8
)

// Context carries the facts about the surrounding git repository that the
// generators need: remote URLs, the upstream repository URL, the operator name
// and the default branch. It is detected once and threaded explicitly into
// every function needing repository state.
type Context struct {
	RemoteURLs    []string
	UpstreamURL   string
	OperatorName  string
	DefaultBranch string

	repo *git.Repository
}

// Detect opens the git repository containing path (searching parent directories
// for the .git folder) and derives the repository context from it. Returns
// ErrNotARepository if path is not inside a git working tree, and
// ErrNoUpstreamRemote if none of the remotes points to the upstream
// organization.
func Detect(path string, log logr.Logger) (*Context, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.Wrap(ErrNotARepository, path)
		}
		return nil, errors.Wrapf(err, "error opening git repository at %s", path)
	}

	ctx := &Context{repo: repo}
	if ctx.RemoteURLs, err = remoteURLs(repo); err != nil {
		return nil, err
	}
	if ctx.UpstreamURL, err = upstreamURL(ctx.RemoteURLs); err != nil {
		return nil, err
	}
	ctx.OperatorName = operatorName(ctx.RemoteURLs)
	ctx.DefaultBranch = defaultBranch(repo, log)

	return ctx, nil
}

// CommitCount returns the number of commits reachable from HEAD.
func (c *Context) CommitCount() (int, error) {
	head, err := c.repo.Head()
	if err != nil {
		return 0, errors.Wrap(err, "error resolving HEAD")
	}
	iter, err := c.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return 0, errors.Wrap(err, "error reading commit log")
	}
	count := 0
	if err := iter.ForEach(func(*object.Commit) error { count++; return nil }); err != nil {
		return 0, err
	}
	return count, nil
}

// HeadHash returns the abbreviated hash of the HEAD commit.
func (c *Context) HeadHash() (string, error) {
	head, err := c.repo.Head()
	if err != nil {
		return "", errors.Wrap(err, "error resolving HEAD")
	}
	return head.Hash().String()[:shortHashLength], nil
}

// remoteURLs lists the URLs of all configured remotes, origin first, then the
// remaining remotes in name order; fetch/push duplicates are removed.
func remoteURLs(repo *git.Repository) ([]string, error) {
	remotes, err := repo.Remotes()
	if err != nil {
		return nil, errors.Wrap(err, "error listing git remotes")
	}
	sort.Slice(remotes, func(i, j int) bool {
		ni, nj := remotes[i].Config().Name, remotes[j].Config().Name
		if ni == originRemoteName || nj == originRemoteName {
			return ni == originRemoteName
		}
		return ni < nj
	})
	var urls []string
	for _, remote := range remotes {
		urls = append(urls, remote.Config().URLs...)
	}
	return slices.Uniq(urls), nil
}

// upstreamURL picks the first remote belonging to the upstream organization and
// normalizes it to a https URL.
func upstreamURL(urls []string) (string, error) {
	for _, url := range urls {
		if !strings.Contains(url, upstreamRemoteMarker) {
			continue
		}
		return normalizeRemoteURL(url)
	}
	if len(urls) == 0 {
		return "", errors.Wrap(ErrNoUpstreamRemote, "no remotes configured")
	}
	return "", errors.Wrapf(ErrNoUpstreamRemote, "available remotes: %s", strings.Join(urls, ", "))
}

func normalizeRemoteURL(url string) (string, error) {
	switch {
	case strings.HasPrefix(url, "http"):
		return strings.TrimSuffix(url, ".git"), nil
	case strings.Contains(url, ":"):
		// git@github.com:org/repo.git
		subpath := strings.TrimSuffix(url[strings.Index(url, ":")+1:], ".git")
		return fmt.Sprintf("https://github.com/%s", subpath), nil
	default:
		return "", errors.Errorf("cannot parse git remote URL: %s", url)
	}
}

// operatorName derives the operator name from the first remote URL (its last
// path segment, normalized to kebab case).
func operatorName(urls []string) string {
	if len(urls) == 0 {
		return "unknown-operator"
	}
	url := strings.TrimSuffix(urls[0], ".git")
	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}
	if url == "" {
		return "unknown-operator"
	}
	return strcase.ToKebab(url)
}

// defaultBranch detects the repository's default branch: first from the remote
// HEAD, then from the currently checked out branch, then from the local branch
// list; an ambiguous result falls back to the hardcoded default.
func defaultBranch(repo *git.Repository, log logr.Logger) string {
	remoteHead := plumbing.ReferenceName("refs/remotes/" + originRemoteName + "/HEAD")
	if ref, err := repo.Reference(remoteHead, true); err == nil {
		branch := strings.TrimPrefix(ref.Name().Short(), originRemoteName+"/")
		if isWellKnownBranch(branch) {
			return branch
		}
	}

	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		if branch := head.Name().Short(); isWellKnownBranch(branch) {
			return branch
		}
	}

	var branches []string
	if iter, err := repo.Branches(); err == nil {
		_ = iter.ForEach(func(ref *plumbing.Reference) error {
			branches = append(branches, ref.Name().Short())
			return nil
		})
	}
	for _, branch := range []string{"main", "master"} {
		if slices.Contains(branches, branch) {
			return branch
		}
	}

	log.Info("could not determine default branch; using fallback", "branch", defaultBranchFallback)
	return defaultBranchFallback
}

func isWellKnownBranch(branch string) bool {
	return branch == "main" || branch == "master"
}
