package adrsync

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"adrsync/pkg/git"
	"adrsync/pkg/github"
)

// fakeRemote is one hosted repository: branch name -> file path -> content
type fakeRemote struct {
	defaultBranch string
	branches      map[string]map[string]string
}

func newFakeRemote(files map[string]string) *fakeRemote {
	if files == nil {
		files = map[string]string{}
	}
	return &fakeRemote{
		defaultBranch: "main",
		branches:      map[string]map[string]string{"main": files},
	}
}

// fakeVCS clones fakeRemotes keyed by URL into real directories
type fakeVCS struct {
	remotes map[string]*fakeRemote

	cloneErr  map[string]error
	branchErr map[string]error
	stageErr  map[string]error
	commitErr map[string]error
	pushErr   map[string]error

	onClone func(url string)
	onStage func(url string)

	clones  []string
	commits []string
	pushes  []string
	forced  []bool
}

func newFakeVCS() *fakeVCS {
	return &fakeVCS{
		remotes:   map[string]*fakeRemote{},
		cloneErr:  map[string]error{},
		branchErr: map[string]error{},
		stageErr:  map[string]error{},
		commitErr: map[string]error{},
		pushErr:   map[string]error{},
	}
}

func (f *fakeVCS) Clone(ctx context.Context, url, dir string) (WorkingCopy, error) {
	f.clones = append(f.clones, url)
	if f.onClone != nil {
		f.onClone(url)
	}
	if err := f.cloneErr[url]; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	remote, ok := f.remotes[url]
	if !ok {
		return nil, errors.New("repository not found")
	}

	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("destination %s already exists", dir)
	}

	wc := &fakeWorkingCopy{
		vcs:    f,
		url:    url,
		dir:    dir,
		remote: remote,
		branch: remote.defaultBranch,
		index:  map[string]string{},
	}
	if err := wc.checkout(remote.branches[remote.defaultBranch]); err != nil {
		return nil, err
	}
	return wc, nil
}

type fakeWorkingCopy struct {
	vcs    *fakeVCS
	url    string
	dir    string
	remote *fakeRemote
	branch string
	head   map[string]string
	index  map[string]string
}

func (w *fakeWorkingCopy) checkout(files map[string]string) error {
	for path := range w.head {
		if _, keep := files[path]; !keep {
			os.Remove(filepath.Join(w.dir, path))
		}
	}
	w.head = maps.Clone(files)
	if w.head == nil {
		w.head = map[string]string{}
	}
	for path, content := range files {
		full := filepath.Join(w.dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			return err
		}
	}
	return os.MkdirAll(w.dir, 0755)
}

func (w *fakeWorkingCopy) EnsureBranch(branch string) (git.BranchAction, error) {
	if err := w.vcs.branchErr[w.url]; err != nil {
		return "", err
	}
	if branch == w.branch {
		return git.BranchSwitched, nil
	}

	if files, ok := w.remote.branches[branch]; ok {
		w.branch = branch
		return git.BranchTracked, w.checkout(files)
	}

	w.branch = branch
	return git.BranchCreated, nil
}

func (w *fakeWorkingCopy) Stage(paths ...string) error {
	if w.vcs.onStage != nil {
		w.vcs.onStage(w.url)
	}
	if err := w.vcs.stageErr[w.url]; err != nil {
		return err
	}
	for _, path := range paths {
		data, err := os.ReadFile(filepath.Join(w.dir, filepath.FromSlash(path)))
		if err != nil {
			return err
		}
		w.index[path] = string(data)
	}
	return nil
}

func (w *fakeWorkingCopy) HasStagedChanges() (bool, error) {
	for path, content := range w.index {
		if current, ok := w.head[path]; !ok || current != content {
			return true, nil
		}
	}
	return false, nil
}

func (w *fakeWorkingCopy) Commit(message string, author git.Author) (string, error) {
	if err := w.vcs.commitErr[w.url]; err != nil {
		return "", err
	}
	for path, content := range w.index {
		w.head[path] = content
	}
	w.index = map[string]string{}
	w.vcs.commits = append(w.vcs.commits, w.url)
	return fmt.Sprintf("%040d", len(w.vcs.commits)), nil
}

func (w *fakeWorkingCopy) Push(ctx context.Context, remote, branch string, force bool) error {
	if err := w.vcs.pushErr[w.url]; err != nil {
		return err
	}
	w.remote.branches[branch] = maps.Clone(w.head)
	w.vcs.pushes = append(w.vcs.pushes, w.url)
	w.vcs.forced = append(w.vcs.forced, force)
	return nil
}

func (w *fakeWorkingCopy) ReadFile(rel string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(w.dir, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (w *fakeWorkingCopy) WriteFile(rel string, data []byte) error {
	path := filepath.Join(w.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// fakeHosting scripts pull request creation per base branch
type fakeHosting struct {
	createErr map[string]error
	existing  *github.PullRequest
	findErr   error
	repos     map[string]*github.Repository

	created   []github.PullRequestOptions
	findCalls int
}

func newFakeHosting() *fakeHosting {
	return &fakeHosting{
		createErr: map[string]error{},
		repos:     map[string]*github.Repository{},
	}
}

func (h *fakeHosting) CreatePullRequest(ctx context.Context, owner, name string, opts github.PullRequestOptions) (*github.PullRequest, error) {
	h.created = append(h.created, opts)
	if err := h.createErr[opts.Base]; err != nil {
		return nil, err
	}
	return &github.PullRequest{
		Number: len(h.created),
		URL:    fmt.Sprintf("https://github.com/%s/%s/pull/%d", owner, name, len(h.created)),
		State:  "open",
		Title:  opts.Title,
		Head:   opts.Head,
		Base:   opts.Base,
	}, nil
}

func (h *fakeHosting) FindPullRequest(ctx context.Context, owner, name, head string) (*github.PullRequest, error) {
	h.findCalls++
	return h.existing, h.findErr
}

func (h *fakeHosting) GetRepository(ctx context.Context, owner, name string) (*github.Repository, error) {
	repo, ok := h.repos[owner+"/"+name]
	if !ok {
		return nil, github.NewGitHubError(github.ErrorTypeNotFound, "Repository not found", nil)
	}
	return repo, nil
}
