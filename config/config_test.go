package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/land-surface/dirconf/debug"
	"github.com/land-surface/dirconf/tree"
)

func TestDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, "warning", c.LogLevel())
	assert.Equal(t, 4, c.NamelistIndent())
	assert.Equal(t, 5, c.AsciiPrecision())
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("DIRCONF_NAMELIST_INDENT", "2")
	t.Setenv("DIRCONF_LOG_LEVEL", "debug")
	c := New()
	assert.Equal(t, 2, c.NamelistIndent())
	assert.Equal(t, "debug", c.LogLevel())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "dirconf.yaml")
	require.NoError(t, os.WriteFile(file, []byte("ascii:\n  precision: 2\nnamelist:\n  indent: 1\n"), 0o644))

	c, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 2, c.AsciiPrecision())
	assert.Equal(t, 1, c.NamelistIndent())
	assert.Equal(t, "warning", c.LogLevel())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	c := New()
	c.Set(KeyNamelistIndent, 2)
	c.Set(KeyAsciiPrecision, 1)
	reg, err := c.Registry()
	require.NoError(t, err)

	name, nml, ok := reg.CodecFor("timesteps.nml")
	require.True(t, ok)
	assert.Equal(t, "namelist", name)
	data, err := nml.Encode(tree.Of("jules_time", tree.Of("timestep_len", 1800)))
	require.NoError(t, err)
	assert.Equal(t, "&jules_time\n  timestep_len = 1800\n/\n", string(data))

	_, asc, ok := reg.CodecFor("drive.dat")
	require.True(t, ok)
	data, err = asc.Encode([][]float64{{1.5, 2}})
	require.NoError(t, err)
	assert.Equal(t, "1.5 2.0\n", string(data))

	_, ok = reg.Handler("jules_namelists")
	assert.True(t, ok)

	c.Set(KeyAsciiPrecision, -1)
	_, err = c.Registry()
	assert.Error(t, err)
}

func TestApplyLogging(t *testing.T) {
	defer debug.Log().SetLevel(debug.Log().GetLevel())

	c := New()
	c.Set(KeyLogLevel, "info")
	require.NoError(t, c.ApplyLogging())
	assert.Equal(t, logrus.InfoLevel, debug.Log().GetLevel())

	c.Set(KeyLogLevel, "chatty")
	assert.Error(t, c.ApplyLogging())
}

func TestSchema(t *testing.T) {
	c := New()
	reg, err := c.Registry()
	require.NoError(t, err)
	n, err := c.Schema(reg)
	require.NoError(t, err)
	assert.Nil(t, n)

	file := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(file, []byte("namelists:\n  path: namelists\n  handler: jules_namelists\n"), 0o644))
	c.Set(KeySchemaFile, file)
	n, err = c.Schema(reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"namelists"}, n.Names())
}
