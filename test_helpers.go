package nexttag

import (
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

var testSignature = &object.Signature{
	Name:  "test",
	Email: "test@example.com",
	When:  time.Now(),
}

// testRepoCreate creates a new in-memory git repository for testing
func testRepoCreate() (*git.Repository, error) {
	storage := memory.NewStorage()
	fs := memfs.New()
	return git.Init(storage, fs)
}

// testRepoSingleCommit adds a single commit to the repository and returns the commit hash
func testRepoSingleCommit(repo *git.Repository) (plumbing.Hash, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	err = writeFile(workTree.Filesystem, "test.txt", "Hello world")
	if err != nil {
		return plumbing.ZeroHash, err
	}

	_, err = workTree.Add("test.txt")
	if err != nil {
		return plumbing.ZeroHash, err
	}

	return workTree.Commit("Initial commit", &git.CommitOptions{Author: testSignature})
}

// testRepoWithTags creates a single commit and points every tag name at it
func testRepoWithTags(tags ...string) (*git.Repository, error) {
	repo, err := testRepoCreate()
	if err != nil {
		return nil, err
	}

	commit, err := testRepoSingleCommit(repo)
	if err != nil {
		return nil, err
	}

	for _, tag := range tags {
		if _, err := repo.CreateTag(tag, commit, nil); err != nil {
			return nil, err
		}
	}

	return repo, nil
}

// testClientWithTags builds a go-git client over a repository carrying the
// given tags
func testClientWithTags(tags ...string) (*GoGitClient, error) {
	repo, err := testRepoWithTags(tags...)
	if err != nil {
		return nil, err
	}
	return NewGoGitClient(repo), nil
}

// writeFile writes content to a file in the given filesystem
func writeFile(fs billy.Filesystem, filename, content string) error {
	file, err := fs.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write([]byte(content))
	return err
}
