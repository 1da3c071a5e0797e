package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/jaxxstorm/nexttag"
)

// Version will be set by build process
var Version = "dev"

type CLI struct {
	Prefix      string        `short:"p" help:"Prefix for the tag (e.g., dev-1.0.0)"`
	Suffix      string        `short:"s" help:"Suffix for the tag (e.g., 1.0.0-rc)"`
	Module      string        `short:"m" help:"Module name for the tag (e.g., alpine-1.0.0)"`
	Branch      string        `short:"b" help:"Branch name for snapshot versions"`
	VersionFile string        `short:"f" required:"" help:"Path to version file, relative to the repository"`
	RepoPath    string        `short:"r" default:"." help:"Path to git repository"`
	Snapshot    bool          `short:"i" help:"Create snapshot version"`
	Config      string        `help:"Path to configuration file"`
	CreateTag   bool          `help:"Create the computed tag in the repository"`
	Message     string        `help:"Tag message (creates an annotated tag)"`
	CacheTTL    time.Duration `default:"5m" help:"Tag cache time-to-live"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
	ShowVersion bool          `help:"Show version information" name:"version"`
}

func main() {
	var cli CLI

	kong.Parse(&cli,
		kong.Name("nexttag"),
		kong.Description("Compute the next release tag from a baseline version file and existing git tags"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)

	err := cli.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (c *CLI) Run() error {
	if c.ShowVersion {
		fmt.Printf("nexttag version %s\n", Version)
		return nil
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if c.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg := nexttag.DefaultConfig()
	if c.Config != "" {
		loaded, err := nexttag.LoadConfig(c.Config)
		if err != nil {
			// Degrade to defaults rather than failing the build.
			logger.Warn("failed to load config file, using defaults", "path", c.Config, "err", err)
		} else {
			cfg = loaded
			logger.Debug("loaded configuration", "path", c.Config)
		}
	}

	client := openClient(c.RepoPath, logger)

	system, err := nexttag.NewSystem(nexttag.SystemOptions{
		Client:      client,
		RepoPath:    c.RepoPath,
		VersionFile: c.VersionFile,
		Config:      &cfg,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	if c.CacheTTL > 0 {
		system.Tags().SetCacheTTL(c.CacheTTL)
	}

	ctx := context.Background()
	result, err := system.Next(ctx, nexttag.Request{
		Prefix:   c.Prefix,
		Suffix:   c.Suffix,
		Module:   c.Module,
		Branch:   c.Branch,
		Snapshot: c.Snapshot,
	})
	if err != nil {
		return err
	}

	next := result.Next.String()
	if c.CreateTag {
		if err := system.Tags().CreateTag(ctx, next, c.Message); err != nil {
			return err
		}
	}

	fmt.Println(next)
	return nil
}

// openClient prefers go-git and falls back to the git binary for repository
// layouts go-git cannot open.
func openClient(repoPath string, logger *log.Logger) nexttag.GitClient {
	repo, err := nexttag.OpenRepository(repoPath)
	if err != nil {
		logger.Debug("go-git open failed, falling back to git binary", "err", err)
		return nexttag.NewExecGitClient(repoPath)
	}
	return nexttag.NewGoGitClient(repo)
}
