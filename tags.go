package nexttag

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultCacheTTL is how long a fetched tag list stays valid.
const DefaultCacheTTL = 5 * time.Minute

// TagRepository owns the raw tag list obtained from the git collaborator and
// answers namespace-scoped queries over it. The tag list is cached with a
// short TTL and invalidated when a tag is created. The design assumes a
// single caller per process; the lock only keeps the cache fields coherent.
type TagRepository struct {
	client GitClient
	parser *Parser
	logger *log.Logger

	mu       sync.Mutex
	cache    []string
	cachedAt time.Time
	ttl      time.Duration
}

// NewTagRepository builds a repository over the given git client.
func NewTagRepository(client GitClient, parser *Parser, logger *log.Logger) *TagRepository {
	if parser == nil {
		parser = NewParser(ValidationStrict)
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &TagRepository{
		client: client,
		parser: parser,
		logger: logger,
		ttl:    DefaultCacheTTL,
	}
}

// SetCacheTTL overrides the tag cache time-to-live.
func (r *TagRepository) SetCacheTTL(ttl time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ttl = ttl
}

// ClearCache drops the cached tag list.
func (r *TagRepository) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = nil
	r.cachedAt = time.Time{}
}

// AllTags returns the sorted, de-duplicated, trimmed tag names from the
// repository, refreshing the cache when it is missing, expired, or
// forceRefresh is set.
func (r *TagRepository) AllTags(ctx context.Context, forceRefresh bool) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expired := r.cachedAt.IsZero() || time.Since(r.cachedAt) > r.ttl
	if r.cache != nil && !forceRefresh && !expired {
		r.logger.Debug("using cached tag list", "tags", len(r.cache))
		return append([]string(nil), r.cache...), nil
	}

	raw, err := r.client.ListTags(ctx)
	if err != nil {
		// A stale cache must not mask the failure.
		r.cache = nil
		r.cachedAt = time.Time{}
		return nil, err
	}

	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	sort.Strings(tags)

	r.cache = tags
	r.cachedAt = time.Now()
	r.logger.Debug("refreshed tag list", "tags", len(tags))

	return append([]string(nil), tags...), nil
}

// TagsMatching filters the tag list by the pattern and parses each match.
// Tags that match the pattern but fail strict parsing are treated as noise
// and skipped. The result is sorted ascending by version.
func (r *TagRepository) TagsMatching(ctx context.Context, pattern TagPattern) ([]Tag, error) {
	all, err := r.AllTags(ctx, false)
	if err != nil {
		return nil, err
	}

	var matches []Tag
	for _, name := range all {
		if !pattern.Matches(name) {
			continue
		}
		v, err := r.parser.Parse(name)
		if err != nil {
			r.logger.Debug("skipping unparsable tag", "tag", name, "err", err)
			continue
		}
		matches = append(matches, Tag{Name: name, Version: v})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Less(matches[j]) })
	return matches, nil
}

// Latest returns the greatest tag matching the pattern, or nil when none
// match.
func (r *TagRepository) Latest(ctx context.Context, pattern TagPattern) (*Tag, error) {
	matches, err := r.TagsMatching(ctx, pattern)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[len(matches)-1], nil
}

// DetectGranularity inspects the version-declaration file and counts its
// dot-separated components to decide which pattern granularity to build.
// An unreadable or missing file defaults to semver.
func (r *TagRepository) DetectGranularity(versionFile string) Granularity {
	content, err := os.ReadFile(versionFile)
	if err != nil {
		r.logger.Debug("cannot read version file, defaulting to semver", "file", versionFile, "err", err)
		return GranularitySemver
	}

	trimmed := strings.TrimSpace(string(content))
	if !strings.Contains(trimmed, ".") {
		return GranularityMajor
	}
	if len(strings.Split(trimmed, ".")) >= 3 {
		return GranularitySemver
	}
	return GranularityMajorMinor
}

// TagsForModule returns all tags for the module at the granularity detected
// from the version file. Zero matches is an error for module queries.
func (r *TagRepository) TagsForModule(ctx context.Context, module, versionFile string) ([]Tag, error) {
	if err := r.parser.ValidateModuleName(module); err != nil {
		return nil, err
	}

	pattern := NewTagPattern(r.DetectGranularity(versionFile), "", "", module)
	tags, err := r.TagsMatching(ctx, pattern)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, &TagNotFoundError{Module: module}
	}
	return tags, nil
}

// TagsWithPrefix returns all tags carrying the prefix.
func (r *TagRepository) TagsWithPrefix(ctx context.Context, prefix, versionFile string) ([]Tag, error) {
	pattern := NewTagPattern(r.DetectGranularity(versionFile), prefix, "", "")
	return r.TagsMatching(ctx, pattern)
}

// TagsWithSuffix returns all tags carrying the suffix.
func (r *TagRepository) TagsWithSuffix(ctx context.Context, suffix, versionFile string) ([]Tag, error) {
	pattern := NewTagPattern(r.DetectGranularity(versionFile), "", suffix, "")
	return r.TagsMatching(ctx, pattern)
}

// PlainTags returns all tags with no namespace qualifier.
func (r *TagRepository) PlainTags(ctx context.Context, versionFile string) ([]Tag, error) {
	pattern := NewTagPattern(r.DetectGranularity(versionFile), "", "", "")
	return r.TagsMatching(ctx, pattern)
}

// TagExists reports whether the exact tag name is present.
func (r *TagRepository) TagExists(ctx context.Context, name string) (bool, error) {
	all, err := r.AllTags(ctx, false)
	if err != nil {
		return false, err
	}
	for _, t := range all {
		if t == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateTag delegates tag creation to the git client and invalidates the
// cache on success.
func (r *TagRepository) CreateTag(ctx context.Context, name, message string) error {
	if err := r.client.CreateTag(ctx, name, message); err != nil {
		return err
	}
	r.ClearCache()
	r.logger.Info("created tag", "tag", name)
	return nil
}
