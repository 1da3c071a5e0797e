package nexttag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Version {
	t.Helper()
	v, err := NewParser(ValidationStrict).Parse(s)
	require.NoError(t, err)
	return v
}

func TestNextVersion(t *testing.T) {
	calc := NewCalculator(DefaultConfig(), nil)

	t.Run("No current tag uses baseline unincremented", func(t *testing.T) {
		baseline := mustParse(t, "1.0.0")
		next, err := calc.NextVersion(nil, baseline, "")
		require.NoError(t, err)
		require.Equal(t, "1.0.0", next.String())
	})

	t.Run("Current ahead of baseline is patch incremented", func(t *testing.T) {
		baseline := mustParse(t, "1.0.0")
		current := mustParse(t, "1.0.1")
		next, err := calc.NextVersion(&current, baseline, "")
		require.NoError(t, err)
		require.Equal(t, "1.0.2", next.String())
	})

	t.Run("Equal versions select current", func(t *testing.T) {
		baseline := mustParse(t, "1.0.0")
		current := mustParse(t, "rel-1.0.0")
		next, err := calc.NextVersion(&current, baseline, "")
		require.NoError(t, err)
		// Current carried the prefix, so the result keeps it.
		require.Equal(t, "rel-1.0.1", next.String())
	})

	t.Run("Baseline ahead is selected and incremented", func(t *testing.T) {
		baseline := mustParse(t, "1.0.0")
		current := mustParse(t, "0.9.9")
		next, err := calc.NextVersion(&current, baseline, "")
		require.NoError(t, err)
		require.Equal(t, "1.0.1", next.String())
	})

	t.Run("Legacy toggle publishes baseline unchanged when ahead", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LegacyBaseline = true
		legacy := NewCalculator(cfg, nil)

		baseline := mustParse(t, "1.0.0")
		current := mustParse(t, "0.9.9")
		next, err := legacy.NextVersion(&current, baseline, "")
		require.NoError(t, err)
		require.Equal(t, "1.0.0", next.String())

		// Current ahead still increments under the toggle.
		current = mustParse(t, "1.0.1")
		next, err = legacy.NextVersion(&current, baseline, "")
		require.NoError(t, err)
		require.Equal(t, "1.0.2", next.String())
	})

	t.Run("Explicit increment kind overrides config", func(t *testing.T) {
		baseline := mustParse(t, "1.0.0")
		current := mustParse(t, "1.2.3")
		next, err := calc.NextVersion(&current, baseline, IncrementMinor)
		require.NoError(t, err)
		require.Equal(t, "1.3.0", next.String())

		next, err = calc.NextVersion(&current, baseline, IncrementMajor)
		require.NoError(t, err)
		require.Equal(t, "2.0.0", next.String())
	})

	t.Run("Invalid increment kind is a configuration error", func(t *testing.T) {
		baseline := mustParse(t, "1.0.0")
		_, err := calc.NextVersion(nil, baseline, IncrementKind("bogus"))
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("Defaults fill during normalization", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DefaultPrefix = "rel"
		withDefaults := NewCalculator(cfg, nil)

		baseline := mustParse(t, "1.0.0")
		next, err := withDefaults.NextVersion(nil, baseline, "")
		require.NoError(t, err)
		require.Equal(t, "rel-1.0.0", next.String())
	})

	t.Run("Default suffix gated by allow_prerelease", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DefaultSuffix = "beta"
		baseline := mustParse(t, "1.0.0")

		next, err := NewCalculator(cfg, nil).NextVersion(nil, baseline, "")
		require.NoError(t, err)
		require.Equal(t, "1.0.0", next.String())

		cfg.AllowPrerelease = true
		next, err = NewCalculator(cfg, nil).NextVersion(nil, baseline, "")
		require.NoError(t, err)
		require.Equal(t, "1.0.0-beta", next.String())
	})

	t.Run("Major-only granularity", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.VersionType = GranularityMajor
		cfg.IncrementType = IncrementMajor
		majorCalc := NewCalculator(cfg, nil)

		baseline := mustParse(t, "2")
		current := mustParse(t, "3")
		next, err := majorCalc.NextVersion(&current, baseline, "")
		require.NoError(t, err)
		require.Equal(t, "4", next.String())
	})
}

func TestSnapshotVersion(t *testing.T) {
	calc := NewCalculator(DefaultConfig(), nil)

	t.Run("Plain snapshot marker", func(t *testing.T) {
		base := mustParse(t, "1.0.1")
		snap := calc.SnapshotVersion(base, "")
		require.Equal(t, "1.0.1-SNAPSHOT", snap.String())
	})

	t.Run("Branch is cleaned and truncated to 20 characters", func(t *testing.T) {
		base := mustParse(t, "1.0.1")
		snap := calc.SnapshotVersion(base, "feature/PROJ-1234-test-branch")
		require.Equal(t, "feature-PROJ-1234-te-SNAPSHOT", snap.Suffix)
		require.Equal(t, "1.0.1-feature-PROJ-1234-te-SNAPSHOT", snap.String())
	})

	t.Run("Short branch is kept whole", func(t *testing.T) {
		base := mustParse(t, "1.0.1")
		snap := calc.SnapshotVersion(base, "main")
		require.Equal(t, "main-SNAPSHOT", snap.Suffix)
	})

	t.Run("Namespace and numbers are preserved, no increment", func(t *testing.T) {
		base := mustParse(t, "node-2.3.4")
		snap := calc.SnapshotVersion(base, "")
		require.Equal(t, "2.3.4", snap.Base())
		require.Equal(t, "node", snap.Prefix)
	})
}

func TestIncrementSuggestions(t *testing.T) {
	calc := NewCalculator(DefaultConfig(), nil)

	t.Run("Semver offers all three", func(t *testing.T) {
		suggestions := calc.IncrementSuggestions(mustParse(t, "1.2.3"))
		require.Len(t, suggestions, 3)
		require.Equal(t, "1.2.4", suggestions[IncrementPatch].String())
		require.Equal(t, "1.3.0", suggestions[IncrementMinor].String())
		require.Equal(t, "2.0.0", suggestions[IncrementMajor].String())
	})

	t.Run("Major-only offers major", func(t *testing.T) {
		suggestions := calc.IncrementSuggestions(mustParse(t, "7"))
		require.Len(t, suggestions, 1)
		require.Equal(t, "8", suggestions[IncrementMajor].String())
	})
}

func TestIsCompatible(t *testing.T) {
	calc := NewCalculator(DefaultConfig(), nil)
	baseline := mustParse(t, "1.2.3")
	require.True(t, calc.IsCompatible(mustParse(t, "1.2.3"), baseline))
	require.True(t, calc.IsCompatible(mustParse(t, "2.0.0"), baseline))
	require.False(t, calc.IsCompatible(mustParse(t, "1.2.2"), baseline))
}
