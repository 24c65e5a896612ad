package cliconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	s := NewSchema()
	s.String("name", "n", "default-name", "experiment name")
	s.Int("procs", "p", 0, "process count")
	s.Bool("dry-run", "", false, "do not execute")
	return s
}

func TestResolveDefaults(t *testing.T) {
	r, err := testSchema().Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "default-name", r.String("name"))
	assert.Equal(t, 0, r.Int("procs"))
	assert.False(t, r.Bool("dry-run"))
}

func TestResolveArgv(t *testing.T) {
	r, err := testSchema().Resolve([]string{"--name", "cli-name", "-p", "8"})
	require.NoError(t, err)
	assert.Equal(t, "cli-name", r.String("name"))
	assert.Equal(t, 8, r.Int("procs"))
}

func TestResolveUnknownFlag(t *testing.T) {
	_, err := testSchema().Resolve([]string{"--bogus", "1"})
	require.Error(t, err)
}

func TestLayeringPrecedence(t *testing.T) {
	cases := []struct {
		name  string
		layer map[string]any
		argv  []string
		want  string
	}{
		{"default only", nil, nil, "default-name"},
		{"config over default", map[string]any{"name": "from-config"}, nil, "from-config"},
		{"cli over config", map[string]any{"name": "from-config"}, []string{"-n", "from-cli"}, "from-cli"},
		{"cli over default", nil, []string{"-n", "from-cli"}, "from-cli"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := testSchema().Resolve(nil)
			require.NoError(t, err)
			require.NoError(t, r.Update(tc.layer, tc.argv))
			assert.Equal(t, tc.want, r.String("name"))
		})
	}
}

// A flag whose type has a legitimate falsy value must still layer
// correctly: an explicit "--procs 0" beats a config-file 16, and an
// absent flag never beats anything.
func TestLayeringFalsyValues(t *testing.T) {
	r, err := testSchema().Resolve(nil)
	require.NoError(t, err)
	require.NoError(t, r.Update(map[string]any{"procs": 16}, []string{"--procs", "0"}))
	assert.Equal(t, 0, r.Int("procs"))

	r, err = testSchema().Resolve(nil)
	require.NoError(t, err)
	require.NoError(t, r.Update(map[string]any{"procs": 16}, []string{"--name", "x"}))
	assert.Equal(t, 16, r.Int("procs"))
}

func TestLayeringUnknownKey(t *testing.T) {
	r, err := testSchema().Resolve(nil)
	require.NoError(t, err)
	err = r.Update(map[string]any{"nonsense": 1}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonsense")
}

func TestExplicitValues(t *testing.T) {
	s := testSchema()
	vals, err := ExplicitValues(s, []string{"--procs", "4"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"procs": 4}, vals)

	vals, err = ExplicitValues(s, nil)
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestUpdateSurfacesParseErrors(t *testing.T) {
	r, err := testSchema().Resolve(nil)
	require.NoError(t, err)
	require.Error(t, r.Update(nil, []string{"--no-such-flag"}))
}

func TestDefaultSchemaRunCmds(t *testing.T) {
	r, err := DefaultSchema().Resolve(
		[]string{"--runcmds", "0, 8, 'srun -n %n', 'nidx + 1'"})
	require.NoError(t, err)
	tup, ok := r.RunCmds("runcmds")
	require.True(t, ok)
	assert.Equal(t, Tuple{Start: 0, Stop: 8, Template: "srun -n %n", Step: "nidx + 1"}, tup)
}

func TestConfigFileLayer(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "exp.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("name: yaml-name\nprocs: 12\n"), 0o644))

	layer, err := LoadConfigFile(cfg)
	require.NoError(t, err)

	r, err := testSchema().Resolve(nil)
	require.NoError(t, err)
	require.NoError(t, r.Update(layer, []string{"-p", "2"}))
	assert.Equal(t, "yaml-name", r.String("name"))
	assert.Equal(t, 2, r.Int("procs"))
}
