package nexttag

import (
	"regexp"
	"strconv"
	"strings"
)

// ValidationPolicy selects which module-name rule the parser enforces. The
// strict policy adds a length cap and forbids repeated special characters on
// top of the permissive character-class rule.
type ValidationPolicy string

const (
	ValidationStrict     ValidationPolicy = "strict"
	ValidationPermissive ValidationPolicy = "permissive"
)

// ParseValidationPolicy validates a policy name from configuration.
func ParseValidationPolicy(s string) (ValidationPolicy, error) {
	switch ValidationPolicy(s) {
	case ValidationStrict, ValidationPermissive:
		return ValidationPolicy(s), nil
	}
	return "", &ConfigError{Key: "validation_policy", Reason: "must be one of: strict, permissive"}
}

// patternFamily pairs a compiled structural pattern with the extractor that
// maps its capture groups onto a Version. Families are tried in declaration
// order and the first structural match wins, so the ordering below is part
// of the parsing contract.
type patternFamily struct {
	name    string
	re      *regexp.Regexp
	extract func(groups []string) Version
}

var moduleNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-._]*[a-zA-Z0-9]$`)

var parseFamilies = []patternFamily{
	{"semver", regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`),
		func(g []string) Version {
			return Version{Major: num(g[0]), Minor: num(g[1]), Patch: num(g[2]), Granularity: GranularitySemver}
		}},
	{"major_minor", regexp.MustCompile(`^(\d+)\.(\d+)$`),
		func(g []string) Version {
			return Version{Major: num(g[0]), Minor: num(g[1]), Granularity: GranularityMajorMinor}
		}},
	{"major", regexp.MustCompile(`^(\d+)$`),
		func(g []string) Version {
			return Version{Major: num(g[0]), Granularity: GranularityMajor}
		}},
	{"prefix_semver", regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9]*)-(\d+)\.(\d+)\.(\d+)$`),
		func(g []string) Version {
			return Version{Prefix: g[0], Major: num(g[1]), Minor: num(g[2]), Patch: num(g[3]), Granularity: GranularitySemver}
		}},
	{"prefix_major_minor", regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9]*)-(\d+)\.(\d+)$`),
		func(g []string) Version {
			return Version{Prefix: g[0], Major: num(g[1]), Minor: num(g[2]), Granularity: GranularityMajorMinor}
		}},
	{"prefix_major", regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9]*)-(\d+)$`),
		func(g []string) Version {
			return Version{Prefix: g[0], Major: num(g[1]), Granularity: GranularityMajor}
		}},
	{"suffix_semver", regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)-([a-zA-Z][a-zA-Z0-9]*)$`),
		func(g []string) Version {
			return Version{Major: num(g[0]), Minor: num(g[1]), Patch: num(g[2]), Suffix: g[3], Granularity: GranularitySemver}
		}},
	{"suffix_major_minor", regexp.MustCompile(`^(\d+)\.(\d+)-([a-zA-Z][a-zA-Z0-9]*)$`),
		func(g []string) Version {
			return Version{Major: num(g[0]), Minor: num(g[1]), Suffix: g[2], Granularity: GranularityMajorMinor}
		}},
	{"suffix_major", regexp.MustCompile(`^(\d+)-([a-zA-Z][a-zA-Z0-9]*)$`),
		func(g []string) Version {
			return Version{Major: num(g[0]), Suffix: g[1], Granularity: GranularityMajor}
		}},
	{"module_semver", regexp.MustCompile(`^([a-zA-Z0-9][a-zA-Z0-9\-._]*[a-zA-Z0-9])-(\d+)\.(\d+)\.(\d+)$`),
		func(g []string) Version {
			return Version{Module: g[0], Major: num(g[1]), Minor: num(g[2]), Patch: num(g[3]), Granularity: GranularitySemver}
		}},
	{"module_major_minor", regexp.MustCompile(`^([a-zA-Z0-9][a-zA-Z0-9\-._]*[a-zA-Z0-9])-(\d+)\.(\d+)$`),
		func(g []string) Version {
			return Version{Module: g[0], Major: num(g[1]), Minor: num(g[2]), Granularity: GranularityMajorMinor}
		}},
	{"module_major", regexp.MustCompile(`^([a-zA-Z0-9][a-zA-Z0-9\-._]*[a-zA-Z0-9])-(\d+)$`),
		func(g []string) Version {
			return Version{Module: g[0], Major: num(g[1]), Granularity: GranularityMajor}
		}},
	{"prefix_suffix_semver", regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9]*)-(\d+)\.(\d+)\.(\d+)-([a-zA-Z][a-zA-Z0-9]*)$`),
		func(g []string) Version {
			return Version{Prefix: g[0], Major: num(g[1]), Minor: num(g[2]), Patch: num(g[3]), Suffix: g[4], Granularity: GranularitySemver}
		}},
}

// num converts a digits-only capture group. Patterns guarantee the group is
// numeric, so conversion errors cannot occur.
func num(s string) uint64 {
	n, _ := strconv.ParseUint(s, 10, 64)
	return n
}

// Parser classifies raw strings into Versions using the ordered pattern
// family table.
type Parser struct {
	policy ValidationPolicy
}

// NewParser returns a parser using the given module-name validation policy.
func NewParser(policy ValidationPolicy) *Parser {
	if policy == "" {
		policy = ValidationStrict
	}
	return &Parser{policy: policy}
}

// Parse classifies s into a Version, trying each pattern family in order.
// Module-qualified matches re-validate the captured namespace name.
func (p *Parser) Parse(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Version{}, &InvalidVersionError{Input: s, Hints: []string{"version string cannot be empty"}}
	}

	for _, family := range parseFamilies {
		m := family.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		v := family.extract(m[1:])
		if v.Module != "" {
			if err := p.ValidateModuleName(v.Module); err != nil {
				return Version{}, err
			}
		}
		return v, nil
	}

	return Version{}, &InvalidVersionError{Input: trimmed, Hints: parseHints(trimmed)}
}

// Valid reports whether s parses without error.
func (p *Parser) Valid(s string) bool {
	_, err := p.Parse(s)
	return err == nil
}

// SupportedFamilies lists the pattern family names in match priority order.
func (p *Parser) SupportedFamilies() []string {
	names := make([]string, len(parseFamilies))
	for i, f := range parseFamilies {
		names[i] = f.name
	}
	return names
}

// ValidateModuleName checks a module namespace name against the configured
// policy. Names must start and end with an alphanumeric character and may
// contain hyphens, dots and underscores in between. The strict policy also
// caps the length at 50 and rejects consecutive special characters.
func (p *Parser) ValidateModuleName(name string) error {
	if name == "" {
		return &ValidationError{Field: "module_name", Value: name, Reason: "module name cannot be empty"}
	}

	if p.policy == ValidationPermissive {
		if !moduleNameRe.MatchString(name) {
			return &ValidationError{
				Field: "module_name", Value: name,
				Reason: "must start and end with alphanumeric characters, and can contain hyphens, dots, and underscores",
			}
		}
		return nil
	}

	if len(name) == 1 {
		if !isAlnum(rune(name[0])) {
			return &ValidationError{Field: "module_name", Value: name, Reason: "single character module name must be alphanumeric"}
		}
	} else if !moduleNameRe.MatchString(name) {
		return &ValidationError{
			Field: "module_name", Value: name,
			Reason: "must start and end with alphanumeric characters, and can contain hyphens, dots, and underscores",
		}
	}

	if len(name) > 50 {
		return &ValidationError{Field: "module_name", Value: name, Reason: "module name too long (max 50 chars)"}
	}
	if strings.Contains(name, "--") || strings.Contains(name, "__") || strings.Contains(name, "..") {
		return &ValidationError{Field: "module_name", Value: name, Reason: "consecutive special characters not allowed"}
	}
	return nil
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// parseHints builds actionable suggestions for a string no family matched.
func parseHints(s string) []string {
	var hints []string
	if !strings.ContainsAny(s, "0123456789") {
		hints = append(hints, "version must contain numeric components")
	}
	if strings.Contains(s, "..") {
		hints = append(hints, "remove consecutive dots")
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		hints = append(hints, "remove leading/trailing hyphens")
	}
	if len(hints) == 0 {
		hints = append(hints, "no valid version pattern found")
	}
	return hints
}
