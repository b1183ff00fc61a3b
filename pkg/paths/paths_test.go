package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateDirOverride(t *testing.T) {
	t.Setenv(EnvStateDir, "/var/lib/oxidizr-test")

	p := New()

	assert.Equal(t, "/var/lib/oxidizr-test", p.StateDir())
	assert.Equal(t, "/var/lib/oxidizr-test/oxidizr.log", p.LogFilePath())
}

func TestStateDirDefault(t *testing.T) {
	t.Setenv(EnvStateDir, "")

	p := New()

	assert.True(t, filepath.IsAbs(p.StateDir()))
	assert.Equal(t, AppDirName, filepath.Base(p.StateDir()))
}

func TestConfigFileCandidates(t *testing.T) {
	t.Run("explicit config short-circuits search", func(t *testing.T) {
		t.Setenv(EnvConfigFile, "/tmp/my-config.toml")

		p := New()
		candidates := p.ConfigFileCandidates()

		require.Len(t, candidates, 1)
		assert.Equal(t, "/tmp/my-config.toml", candidates[0])
	})

	t.Run("system location before per-user location", func(t *testing.T) {
		t.Setenv(EnvConfigFile, "")

		p := New()
		candidates := p.ConfigFileCandidates()

		require.Len(t, candidates, 6)
		assert.Equal(t, "/etc/oxidizr/config.toml", candidates[0])
		assert.Equal(t, "/etc/oxidizr/config.yaml", candidates[1])
		assert.Equal(t, "/etc/oxidizr/config.yml", candidates[2])
		assert.Equal(t, filepath.Join(p.ConfigDir(), "config.toml"), candidates[3])
	})
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty path", "", ""},
		{"bare tilde", "~", home},
		{"tilde with slash", "~/state/oxidizr", filepath.Join(home, "state", "oxidizr")},
		{"tilde-prefixed user untouched", "~other/state", "~other/state"},
		{"absolute path untouched", "/etc/oxidizr", "/etc/oxidizr"},
		{"relative path untouched", "state/oxidizr", "state/oxidizr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandHome(tt.input))
		})
	}
}
