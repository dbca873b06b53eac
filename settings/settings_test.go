package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oomph-ac/grasp/haptic"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, 90, s.TickRate)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "null", s.Backend)
	assert.Equal(t, "", s.Scene)
	assert.Equal(t, "concurrent", s.Haptics.Policy)
	assert.Equal(t, 1.0, s.Haptics.Strength)
	assert.False(t, s.Kick.TimeScaled)
	assert.Equal(t, "", s.Sentry.DSN)
	assert.Equal(t, "localhost:18066", s.StatsView.Addr)
}

func TestLoad_WithValidSettingsFile(t *testing.T) {
	dir := t.TempDir()
	cfg := `
tickRate: 120
logLevel: debug
scene: ./range.yaml
haptics:
  policy: replace
  strength: 0.5
kick:
  timeScaled: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grasp.yaml"), []byte(cfg), 0644))

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 120, s.TickRate)
	assert.Equal(t, "./range.yaml", s.Scene)
	assert.Equal(t, 0.5, s.Haptics.Strength)
	assert.True(t, s.Kick.TimeScaled)
	assert.Equal(t, "null", s.Backend, "unset keys keep their default")

	level, err := s.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, level)
	policy, err := s.HapticPolicy()
	require.NoError(t, err)
	assert.Equal(t, haptic.Replace, policy)
	assert.Equal(t, time.Second/120, s.TickDuration())
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grasp.yaml"), []byte("tickRate: 120\n"), 0644))
	t.Setenv("GRASP_TICKRATE", "45")
	t.Setenv("GRASP_HAPTICS_POLICY", "queue")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 45, s.TickRate)
	assert.Equal(t, "queue", s.Haptics.Policy)
}

func TestLoad_InvalidValues(t *testing.T) {
	for name, cfg := range map[string]string{
		"tick rate": "tickRate: 0\n",
		"log level": "logLevel: loud\n",
		"policy":    "haptics:\n  policy: stack\n",
		"strength":  "haptics:\n  strength: 2\n",
		"backend":   "backend: steamvr\n",
		"malformed": "tickRate: [\n",
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "grasp.yaml"), []byte(cfg), 0644))
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestSaveDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grasp.yaml")
	require.NoError(t, SaveDefault(path))
	assert.Error(t, SaveDefault(path), "settings file already exists")

	s, err := Load(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}
