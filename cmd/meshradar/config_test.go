package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mastercactapus/meshradar/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTestConfig(t *testing.T, args ...string) Config {
	cfg, err := ParseConfig(flag.NewFlagSet("test", flag.ContinueOnError), args)
	require.NoError(t, err)
	return cfg
}

func TestParseConfigDefaults(t *testing.T) {
	cfg := parseTestConfig(t)

	assert.Equal(t, ":9091", cfg.Addr)
	assert.Equal(t, "sim", cfg.Port)
	assert.Equal(t, 8, cfg.PointsX)
	assert.Equal(t, 25.0, cfg.Inset)
	assert.Equal(t, "resume", cfg.EnterMode)
	assert.Equal(t, 100*time.Millisecond, cfg.FrameInterval)

	g, err := cfg.Grid()
	require.NoError(t, err)
	assert.Equal(t, 64, g.Points())
	p := g.Position(grid.Coordinate{X: 7, Y: 7})
	assert.Equal(t, 210.0, p.X)
	assert.Equal(t, 210.0, p.Y)
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("MESHRADAR_POINTS_X", "5")
	t.Setenv("MESHRADAR_PORT", "/dev/ttyACM0")

	cfg := parseTestConfig(t, "-points-y", "3", "-enter-mode", "reset")
	assert.Equal(t, 5, cfg.PointsX)
	assert.Equal(t, 3, cfg.PointsY)
	assert.Equal(t, "/dev/ttyACM0", cfg.Port)
	assert.Equal(t, "reset", cfg.EnterMode)

	_, err := cfg.Navigator(nil)
	assert.NoError(t, err)
}

func TestParseConfigInvalidEnv(t *testing.T) {
	t.Setenv("MESHRADAR_PAGES", "many")
	_, err := ParseConfig(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	assert.Error(t, err)
}

func TestConfig_Navigator(t *testing.T) {
	cfg := parseTestConfig(t, "-enter-mode", "sometimes")
	_, err := cfg.Navigator(nil)
	assert.Error(t, err)

	cfg = parseTestConfig(t, "-points-x", "1")
	_, err = cfg.Navigator(nil)
	assert.Error(t, err)

	cfg = parseTestConfig(t, "-kinematics", "delta")
	_, err = cfg.Navigator(nil)
	assert.Error(t, err)

	cfg = parseTestConfig(t, "-kinematics", "delta", "-print-radius", "100",
		"-bed-min-x", "-100", "-bed-max-x", "100", "-bed-min-y", "-100", "-bed-max-y", "100",
		"-travel-min-x", "-100", "-travel-max-x", "100", "-travel-min-y", "-100", "-travel-max-y", "100",
	)
	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.True(t, policy.Guarded())
	assert.True(t, policy.Reachable(0, 0))
	assert.False(t, policy.Reachable(75, 75))

	// travel stops short of the bed edge
	cfg = parseTestConfig(t, "-kinematics", "bounded", "-travel-max-x", "150")
	policy, err = cfg.Policy()
	require.NoError(t, err)
	assert.True(t, policy.Guarded())
	assert.True(t, policy.Reachable(150, 235))
	assert.False(t, policy.Reachable(151, 100))

	nav, err := cfg.Navigator(nil)
	require.NoError(t, err)
	last := nav.Grid().Position(grid.Coordinate{X: 7, Y: 7})
	assert.Equal(t, 150.0, last.X)
	assert.True(t, policy.Reachable(last.X, last.Y))
}

func TestConfig_Envelope(t *testing.T) {
	cfg := parseTestConfig(t, "-kinematics", "envelope")
	_, err := cfg.Policy()
	assert.Error(t, err)

	name := filepath.Join(t.TempDir(), "envelope.json")
	require.NoError(t, os.WriteFile(name, []byte(`[{"X":0,"Y":0},{"X":200,"Y":0},{"X":0,"Y":200}]`), 0644))

	cfg = parseTestConfig(t, "-kinematics", "envelope", "-envelope", name)
	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.True(t, policy.Reachable(50, 50))
	assert.False(t, policy.Reachable(150, 150))

	require.NoError(t, os.WriteFile(name, []byte(`{`), 0644))
	_, err = cfg.Policy()
	assert.Error(t, err)
}
