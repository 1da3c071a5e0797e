package nexttag

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// SnapshotMarker is the reserved suffix denoting a non-final build.
const SnapshotMarker = "SNAPSHOT"

// snapshotBranchLimit caps the branch portion of a snapshot suffix.
const snapshotBranchLimit = 20

// Calculator reconciles the baseline version with the current tag and
// produces the next version.
type Calculator struct {
	cfg    Config
	logger *log.Logger
}

// NewCalculator builds a calculator with the given configuration.
func NewCalculator(cfg Config, logger *log.Logger) *Calculator {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Calculator{cfg: cfg, logger: logger}
}

// NextVersion decides the next version to publish. With no current tag the
// baseline is used as-is after normalization. Otherwise the numerically
// greater of {current, baseline} is selected (ties select current) and
// incremented by kind, defaulting to the configured increment type.
//
// When the legacy_baseline toggle is set and the baseline is strictly ahead
// of the current tag, the baseline is published unchanged instead of being
// incremented.
func (c *Calculator) NextVersion(current *Version, baseline Version, kind IncrementKind) (Version, error) {
	if kind == "" {
		kind = c.cfg.IncrementType
	}
	if _, err := ParseIncrementKind(string(kind)); err != nil {
		return Version{}, err
	}

	if current == nil {
		c.logger.Debug("no current tag, using baseline", "baseline", baseline)
		return c.normalize(baseline), nil
	}

	selected := *current
	if baseline.canonical().GT(current.canonical()) {
		selected = baseline
		if c.cfg.LegacyBaseline {
			c.logger.Debug("baseline ahead of current tag, publishing baseline unchanged",
				"baseline", baseline, "current", *current)
			return c.normalize(baseline), nil
		}
	}

	next, err := selected.Increment(kind)
	if err != nil {
		return Version{}, err
	}
	return c.normalize(next), nil
}

// normalize applies the configured granularity and defaults. A configured
// default suffix marks builds as pre-release and is only honored when
// pre-release suffixes are permitted.
func (c *Calculator) normalize(v Version) Version {
	defaultSuffix := ""
	if c.cfg.AllowPrerelease {
		defaultSuffix = c.cfg.DefaultSuffix
	}
	return v.Normalize(c.cfg.VersionType, c.cfg.DefaultPrefix, defaultSuffix)
}

// SnapshotVersion copies the numeric components and namespace of base and
// sets the SNAPSHOT suffix. A branch name, with slashes replaced by hyphens
// and truncated to 20 characters, is prepended to the marker. No numeric
// increment is applied.
func (c *Calculator) SnapshotVersion(base Version, branch string) Version {
	out := base
	out.Suffix = SnapshotMarker
	if branch != "" {
		clean := strings.ReplaceAll(branch, "/", "-")
		if len(clean) > snapshotBranchLimit {
			clean = clean[:snapshotBranchLimit]
		}
		out.Suffix = clean + "-" + SnapshotMarker
	}
	return out
}

// Compare returns -1, 0 or 1 ordering a against b.
func (c *Calculator) Compare(a, b Version) int { return a.Compare(b) }

// IsCompatible reports whether v is at least as new as baseline.
func (c *Calculator) IsCompatible(v, baseline Version) bool { return v.Compatible(baseline) }

// IncrementSuggestions returns each increment of v that its granularity
// permits, keyed by kind.
func (c *Calculator) IncrementSuggestions(v Version) map[IncrementKind]Version {
	suggestions := make(map[IncrementKind]Version)
	for _, kind := range []IncrementKind{IncrementPatch, IncrementMinor, IncrementMajor} {
		if next, err := v.Increment(kind); err == nil {
			suggestions[kind] = next
		}
	}
	return suggestions
}
