package nexttag

import (
	"fmt"
	"regexp"
)

// TagPattern is a compiled matcher for one namespace × granularity
// combination. The numeric portion is always the first capture group.
type TagPattern struct {
	Name   string
	Prefix string
	Suffix string
	Module string

	re *regexp.Regexp
}

// Matches reports whether a raw tag name is accepted by this pattern.
func (p TagPattern) Matches(tag string) bool {
	return p.re.MatchString(tag)
}

// ExtractVersion returns the numeric portion of a matching tag name, or
// false when the tag does not match.
func (p TagPattern) ExtractVersion(tag string) (string, bool) {
	m := p.re.FindStringSubmatch(tag)
	if m == nil || len(m) < 2 {
		return "", false
	}
	return m[1], true
}

func granularityGroup(g Granularity) string {
	switch g {
	case GranularityMajor:
		return `(\d+)`
	case GranularityMajorMinor:
		return `(\d+\.\d+)`
	default:
		return `(\d+\.\d+\.\d+)`
	}
}

// NewTagPattern builds a pattern for the given granularity scoped to at most
// one of module, prefix or suffix. An empty namespace yields the plain
// pattern.
func NewTagPattern(g Granularity, prefix, suffix, module string) TagPattern {
	version := granularityGroup(g)

	var expr, name string
	switch {
	case module != "":
		expr = fmt.Sprintf(`^%s-%s$`, regexp.QuoteMeta(module), version)
		name = "module-" + module
	case prefix != "":
		expr = fmt.Sprintf(`^%s-%s$`, regexp.QuoteMeta(prefix), version)
		name = "prefix-" + prefix
	case suffix != "":
		expr = fmt.Sprintf(`^%s-%s$`, version, regexp.QuoteMeta(suffix))
		name = "suffix-" + suffix
	default:
		expr = fmt.Sprintf(`^%s$`, version)
		name = "plain"
	}
	if g != GranularitySemver {
		name += "-" + string(g)
	}

	return TagPattern{
		Name:   name,
		Prefix: prefix,
		Suffix: suffix,
		Module: module,
		re:     regexp.MustCompile(expr),
	}
}
