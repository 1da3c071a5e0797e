// Package nexttag computes the next release tag for a git repository from a
// recorded baseline version and the set of existing tags.
package nexttag

import (
	"fmt"

	"github.com/blang/semver"
)

// Granularity describes which numeric slots a version carries.
type Granularity string

const (
	GranularityMajor      Granularity = "major"
	GranularityMajorMinor Granularity = "major_minor"
	GranularitySemver     Granularity = "semver"
)

// ParseGranularity validates a granularity name, typically from configuration.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityMajor, GranularityMajorMinor, GranularitySemver:
		return Granularity(s), nil
	}
	return "", &ConfigError{Key: "version_type", Reason: fmt.Sprintf("invalid version type: %q", s)}
}

// IncrementKind selects which numeric component to advance.
type IncrementKind string

const (
	IncrementMajor IncrementKind = "major"
	IncrementMinor IncrementKind = "minor"
	IncrementPatch IncrementKind = "patch"
)

// ParseIncrementKind validates an increment kind name.
func ParseIncrementKind(s string) (IncrementKind, error) {
	switch IncrementKind(s) {
	case IncrementMajor, IncrementMinor, IncrementPatch:
		return IncrementKind(s), nil
	}
	return "", &ConfigError{Key: "increment_type", Reason: fmt.Sprintf("invalid increment type: %q", s)}
}

// Version is an immutable release version plus its namespace qualifiers.
// Granularity determines whether Minor and Patch are meaningful; absent
// slots compare as zero. Module and Prefix are mutually exclusive namespace
// mechanisms; both may combine with Suffix.
type Version struct {
	Major       uint64
	Minor       uint64
	Patch       uint64
	Granularity Granularity
	Prefix      string
	Suffix      string
	Module      string
}

// Base renders the numeric portion only, without namespace qualifiers.
func (v Version) Base() string {
	switch v.Granularity {
	case GranularitySemver:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	case GranularityMajorMinor:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d", v.Major)
	}
}

// String renders the full tag form: module or prefix before the base,
// suffix after, each joined with a hyphen.
func (v Version) String() string {
	s := v.Base()
	if v.Module != "" {
		s = v.Module + "-" + s
	} else if v.Prefix != "" {
		s = v.Prefix + "-" + s
	}
	if v.Suffix != "" {
		s = s + "-" + v.Suffix
	}
	return s
}

// namespace is the identifier that partitions the tag space.
func (v Version) namespace() string {
	if v.Module != "" {
		return v.Module
	}
	return v.Prefix
}

// canonical returns the zero-filled numeric triple as a semver value, used
// for numeric ordering and compatibility checks.
func (v Version) canonical() semver.Version {
	return semver.Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
}

// Compare defines the total order used for latest-tag selection: namespace
// first, then the numeric triple, then suffix. A version without a suffix
// sorts after one with any suffix at the same numeric components.
func (v Version) Compare(other Version) int {
	if ns, ons := v.namespace(), other.namespace(); ns != ons {
		if ns < ons {
			return -1
		}
		return 1
	}
	if c := v.canonical().Compare(other.canonical()); c != 0 {
		return c
	}
	switch {
	case v.Suffix == other.Suffix:
		return 0
	case v.Suffix == "":
		return 1
	case other.Suffix == "":
		return -1
	case v.Suffix < other.Suffix:
		return -1
	default:
		return 1
	}
}

// Less reports whether v orders before other.
func (v Version) Less(other Version) bool { return v.Compare(other) < 0 }

// Increment returns a copy with the requested component advanced. MAJOR
// zeroes any present minor/patch slots. MINOR and PATCH fail when the
// granularity does not carry the slot. Namespace qualifiers are unchanged.
func (v Version) Increment(kind IncrementKind) (Version, error) {
	next := v
	switch kind {
	case IncrementMajor:
		next.Major++
		next.Minor = 0
		next.Patch = 0
	case IncrementMinor:
		if v.Granularity == GranularityMajor {
			return Version{}, &InvalidVersionError{
				Input: v.String(),
				Hints: []string{"cannot increment minor version for major-only version"},
			}
		}
		next.Minor++
		next.Patch = 0
	case IncrementPatch:
		if v.Granularity != GranularitySemver {
			return Version{}, &InvalidVersionError{
				Input: v.String(),
				Hints: []string{"cannot increment patch version for non-semver version"},
			}
		}
		next.Patch++
	default:
		return Version{}, &ConfigError{Key: "increment_type", Reason: fmt.Sprintf("invalid increment type: %q", kind)}
	}
	return next, nil
}

// Normalize forces the value onto the target granularity, discarding slots
// the granularity does not carry and zero-filling the rest. Prefix and
// suffix defaults apply only when unset on the value.
func (v Version) Normalize(target Granularity, defaultPrefix, defaultSuffix string) Version {
	out := v
	out.Granularity = target
	switch target {
	case GranularityMajor:
		out.Minor = 0
		out.Patch = 0
	case GranularityMajorMinor:
		out.Patch = 0
	}
	if out.Prefix == "" {
		out.Prefix = defaultPrefix
	}
	if out.Suffix == "" {
		out.Suffix = defaultSuffix
	}
	return out
}

// Compatible reports whether v is at least as new as baseline, comparing
// major, then minor, then patch with no rollback across components.
func (v Version) Compatible(baseline Version) bool {
	return v.canonical().Compare(baseline.canonical()) >= 0
}

// Tag pairs a raw tag name with its parsed version. Commit metadata is
// populated by clients that can supply it and is otherwise empty.
type Tag struct {
	Name    string
	Version Version

	CommitHash string
	Message    string
}

func (t Tag) String() string { return t.Name }

// Less orders tags by their parsed versions.
func (t Tag) Less(other Tag) bool { return t.Version.Less(other.Version) }
