package nexttag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTagPattern(t *testing.T) {
	t.Run("Plain semver", func(t *testing.T) {
		p := NewTagPattern(GranularitySemver, "", "", "")
		require.Equal(t, "plain", p.Name)
		require.True(t, p.Matches("1.2.3"))
		require.False(t, p.Matches("1.2"))
		require.False(t, p.Matches("rel-1.2.3"))
	})

	t.Run("Module", func(t *testing.T) {
		p := NewTagPattern(GranularitySemver, "", "", "node")
		require.True(t, p.Matches("node-1.0.0"))
		require.False(t, p.Matches("node-1.0"))
		require.False(t, p.Matches("other-1.0.0"))

		version, ok := p.ExtractVersion("node-1.0.0")
		require.True(t, ok)
		require.Equal(t, "1.0.0", version)
	})

	t.Run("Prefix major.minor", func(t *testing.T) {
		p := NewTagPattern(GranularityMajorMinor, "rel", "", "")
		require.Equal(t, "prefix-rel-major_minor", p.Name)
		require.True(t, p.Matches("rel-1.2"))
		require.False(t, p.Matches("rel-1.2.3"))
	})

	t.Run("Suffix major", func(t *testing.T) {
		p := NewTagPattern(GranularityMajor, "", "rc", "")
		require.True(t, p.Matches("1-rc"))
		require.False(t, p.Matches("1.0-rc"))
		require.False(t, p.Matches("1-beta"))
	})

	t.Run("Namespace is escaped", func(t *testing.T) {
		p := NewTagPattern(GranularitySemver, "a.b", "", "")
		require.True(t, p.Matches("a.b-1.0.0"))
		require.False(t, p.Matches("aXb-1.0.0"))
	})

	t.Run("Extract fails on non-match", func(t *testing.T) {
		p := NewTagPattern(GranularitySemver, "", "", "node")
		_, ok := p.ExtractVersion("other-1.0.0")
		require.False(t, ok)
	})
}
