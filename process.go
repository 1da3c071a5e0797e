package nexttag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Request describes one version computation. At most one of Prefix, Suffix
// and Module may be set; Branch only matters for snapshot requests.
type Request struct {
	Prefix   string
	Suffix   string
	Module   string
	Branch   string
	Snapshot bool
}

// Result carries the computed next version and, when one existed, the
// current tag it was derived from.
type Result struct {
	Next    Version
	Current *Tag
}

// SystemOptions configures a System.
type SystemOptions struct {
	// Client is the git collaborator. Required.
	Client GitClient

	// RepoPath is the repository root; file arguments are contained within
	// it. Defaults to the current directory.
	RepoPath string

	// VersionFile is the version-declaration file, relative to RepoPath or
	// absolute. Required.
	VersionFile string

	// Config supplies defaults; zero value means DefaultConfig.
	Config *Config

	// Logger receives progress and warnings. Defaults to a stderr logger.
	Logger *log.Logger

	// Output is the CI output sink. Defaults to the GITHUB_OUTPUT sink.
	Output *OutputWriter
}

// System wires the parser, tag repository and calculator together and runs
// the end-to-end version computation.
type System struct {
	repoPath    string
	versionFile string
	cfg         Config
	parser      *Parser
	tags        *TagRepository
	calc        *Calculator
	output      *OutputWriter
	logger      *log.Logger
}

// NewSystem validates the options and builds the component graph.
func NewSystem(opts SystemOptions) (*System, error) {
	if opts.Client == nil {
		return nil, &ConfigError{Key: "client", Reason: "git client is required"}
	}
	if opts.VersionFile == "" {
		return nil, &ConfigError{Key: "version_file", Reason: "version file is required"}
	}

	repoPath := opts.RepoPath
	if repoPath == "" {
		repoPath = "."
	}
	repoPath, err := ValidateDirPath(repoPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	output := opts.Output
	if output == nil {
		output = NewOutputWriterFromEnv(logger)
	}

	parser := NewParser(cfg.ValidationPolicy)
	return &System{
		repoPath:    repoPath,
		versionFile: opts.VersionFile,
		cfg:         cfg,
		parser:      parser,
		tags:        NewTagRepository(opts.Client, parser, logger),
		calc:        NewCalculator(cfg, logger),
		output:      output,
		logger:      logger,
	}, nil
}

// Tags exposes the tag repository, for tag creation and direct queries.
func (s *System) Tags() *TagRepository { return s.tags }

// Next computes the next version for the request: read the baseline, find
// the current tag in the requested namespace, reconcile, and report both
// through the CI output sink.
func (s *System) Next(ctx context.Context, req Request) (Result, error) {
	if err := s.validateRequest(req); err != nil {
		return Result{}, err
	}

	baseline, err := s.readBaseline()
	if err != nil {
		return Result{}, err
	}
	s.logger.Info("baseline version", "version", baseline)

	// A patch default makes no sense for a major.minor baseline; advance the
	// finest slot it actually has.
	kind := IncrementKind("")
	if baseline.Granularity == GranularityMajorMinor && s.cfg.IncrementType == IncrementPatch {
		kind = IncrementMinor
		s.logger.Info("auto-adjusted increment type to minor for major.minor baseline")
	}

	current, err := s.currentTag(ctx, req)
	if err != nil {
		return Result{}, err
	}

	var currentVersion *Version
	if current != nil {
		s.logger.Info("current tag", "tag", current.Name)
		currentVersion = &current.Version
	} else {
		s.logger.Info("no existing tags found")
	}

	next, err := s.calc.NextVersion(currentVersion, baseline, kind)
	if err != nil {
		return Result{}, err
	}

	switch {
	case req.Prefix != "":
		next.Prefix = strings.TrimRight(req.Prefix, "-")
	case req.Suffix != "":
		next.Suffix = strings.TrimLeft(req.Suffix, "-")
	case req.Module != "":
		next.Module = req.Module
	}

	if req.Snapshot {
		next = s.calc.SnapshotVersion(next, req.Branch)
	}

	s.logger.Info("next version", "version", next)

	s.output.Set("next_tag", next.String())
	if current != nil {
		s.output.Set("current_tag", current.Name)
	}

	return Result{Next: next, Current: current}, nil
}

func (s *System) validateRequest(req Request) error {
	set := 0
	for _, v := range []string{req.Prefix, req.Suffix, req.Module} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return &ConfigError{Key: "namespace", Reason: "only one of prefix, suffix, or module can be specified"}
	}

	if strings.EqualFold(req.Prefix, SnapshotMarker) {
		return &ValidationError{Field: "prefix", Value: req.Prefix, Reason: "reserved keyword cannot be used as prefix"}
	}
	if strings.EqualFold(req.Suffix, SnapshotMarker) {
		return &ValidationError{Field: "suffix", Value: req.Suffix, Reason: "reserved keyword cannot be used as suffix"}
	}

	if req.Module != "" {
		if err := s.parser.ValidateModuleName(req.Module); err != nil {
			return err
		}
	}
	return nil
}

// versionFilePath contains the version file inside the repository root.
func (s *System) versionFilePath() (string, error) {
	path := s.versionFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.repoPath, path)
	}
	return ValidateFilePath(path, s.repoPath)
}

// readBaseline reads and parses the version-declaration file. The content is
// a bare version string; empty content is an error.
func (s *System) readBaseline() (Version, error) {
	path, err := s.versionFilePath()
	if err != nil {
		return Version{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Version{}, &ValidationError{Field: "version_file", Value: s.versionFile, Reason: err.Error()}
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return Version{}, &ValidationError{Field: "version_file", Value: s.versionFile, Reason: "version file is empty"}
	}
	return s.parser.Parse(content)
}

// currentTag finds the greatest existing tag in the requested namespace.
// A module query with no matches is treated as no current tag; git failures
// propagate.
func (s *System) currentTag(ctx context.Context, req Request) (*Tag, error) {
	versionFile, err := s.versionFilePath()
	if err != nil {
		return nil, err
	}

	var tags []Tag
	switch {
	case req.Module != "":
		tags, err = s.tags.TagsForModule(ctx, req.Module, versionFile)
		var notFound *TagNotFoundError
		if errors.As(err, &notFound) {
			s.logger.Debug("no tags for module", "module", req.Module)
			err = nil
		}
	case req.Prefix != "":
		tags, err = s.tags.TagsWithPrefix(ctx, strings.TrimRight(req.Prefix, "-"), versionFile)
	case req.Suffix != "":
		tags, err = s.tags.TagsWithSuffix(ctx, strings.TrimLeft(req.Suffix, "-"), versionFile)
		tags = dropSnapshots(tags)
	default:
		tags, err = s.tags.PlainTags(ctx, versionFile)
	}
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, nil
	}

	latest := tags[len(tags)-1]
	return &latest, nil
}

// dropSnapshots filters out snapshot tags so suffix queries only consider
// release tags.
func dropSnapshots(tags []Tag) []Tag {
	out := tags[:0]
	for _, t := range tags {
		if strings.Contains(t.Name, SnapshotMarker) {
			continue
		}
		out = append(out, t)
	}
	return out
}
