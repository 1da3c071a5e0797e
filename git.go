package nexttag

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultGitTimeout bounds every external git call.
const DefaultGitTimeout = 30 * time.Second

// GitClient is the source-control collaborator: it lists existing tags and
// creates new ones. Both calls are blocking and bounded by the context.
type GitClient interface {
	ListTags(ctx context.Context) ([]string, error)
	CreateTag(ctx context.Context, name, message string) error
}

// OpenRepository opens a git repository at the specified path, searching
// parent directories for the .git directory like the git binary does.
func OpenRepository(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
}

// GoGitClient is the primary GitClient, backed by go-git. It needs no git
// binary and works against any storage backend, including the in-memory
// repositories used in tests.
type GoGitClient struct {
	repo *git.Repository
}

// NewGoGitClient wraps an already-opened repository.
func NewGoGitClient(repo *git.Repository) *GoGitClient {
	return &GoGitClient{repo: repo}
}

// ListTags returns the short names of all tag references.
func (c *GoGitClient) ListTags(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, &GitOperationError{Op: "list_tags", TimedOut: errors.Is(err, context.DeadlineExceeded), Err: err}
	}

	iter, err := c.repo.Tags()
	if err != nil {
		return nil, &GitOperationError{Op: "list_tags", Err: err}
	}

	var tags []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, &GitOperationError{Op: "list_tags", Err: err}
	}
	return tags, nil
}

// CreateTag creates a tag at HEAD. A non-empty message creates an annotated
// tag; the tagger identity comes from the repository configuration, with a
// fallback identity when none is configured.
func (c *GoGitClient) CreateTag(ctx context.Context, name, message string) error {
	if err := ctx.Err(); err != nil {
		return &GitOperationError{Op: "create_tag", TimedOut: errors.Is(err, context.DeadlineExceeded), Err: err}
	}

	head, err := c.repo.Head()
	if err != nil {
		return &GitOperationError{Op: "create_tag", Err: err}
	}

	var opts *git.CreateTagOptions
	if message != "" {
		opts = &git.CreateTagOptions{Message: message}
		if cfg, cfgErr := c.repo.Config(); cfgErr != nil || cfg.User.Name == "" {
			opts.Tagger = &object.Signature{Name: "nexttag", Email: "nexttag@localhost", When: time.Now()}
		}
	}

	if _, err := c.repo.CreateTag(name, head.Hash(), opts); err != nil {
		return &GitOperationError{Op: "create_tag", Err: err}
	}
	return nil
}

// ExecGitClient shells out to the git binary. It is the fallback for
// repository layouts go-git cannot open, and surfaces stderr and the exit
// code on failure.
type ExecGitClient struct {
	Dir     string
	Timeout time.Duration
}

// NewExecGitClient returns an exec-based client rooted at dir.
func NewExecGitClient(dir string) *ExecGitClient {
	return &ExecGitClient{Dir: dir, Timeout: DefaultGitTimeout}
}

func (c *ExecGitClient) run(ctx context.Context, op string, args ...string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultGitTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.Dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &GitOperationError{Op: op, TimedOut: true, Err: ctx.Err()}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &GitOperationError{Op: op, Stderr: stderr.String(), ExitCode: exitErr.ExitCode(), Err: err}
		}
		return "", &GitOperationError{Op: op, Err: err}
	}
	return stdout.String(), nil
}

// ListTags runs `git tag -l --sort=refname`.
func (c *ExecGitClient) ListTags(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "list_tags", "tag", "-l", "--sort=refname")
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "\n"), nil
}

// CreateTag runs `git tag`, annotated when a message is supplied.
func (c *ExecGitClient) CreateTag(ctx context.Context, name, message string) error {
	args := []string{"tag"}
	if message != "" {
		args = append(args, "-a", name, "-m", message)
	} else {
		args = append(args, name)
	}
	_, err := c.run(ctx, "create_tag", args...)
	return err
}
