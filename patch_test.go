package dirconf

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/land-surface/dirconf/ascii"
	"github.com/land-surface/dirconf/schema"
	"github.com/land-surface/dirconf/tree"
)

const sitePatches = `
- if: site == "loobos"
  patch:
    namelists:
      output:
        jules_output:
          run_id: loobos_patched
- if: site == "harvard"
  patch:
    namelists:
      output:
        jules_output:
          run_id: harvard
- if: get("namelists.timesteps.jules_time.timestep_len") == 1800
  patch:
    namelists:
      timesteps:
        jules_time:
          timestep_len: 900
- patch:
    namelists:
      output:
        jules_output_profile:
          output_period: 86400
`

func TestLoadPatches(t *testing.T) {
	patches, err := LoadPatches([]byte(sitePatches))
	require.NoError(t, err)
	require.Len(t, patches, 4)
	assert.Equal(t, `site == "loobos"`, patches[0].If)
	assert.Equal(t, "", patches[3].If)
	v, err := tree.Get(patches[0].Patch, tree.Addr("namelists", "output", "jules_output", "run_id"))
	require.NoError(t, err)
	assert.Equal(t, "loobos_patched", v)

	for _, bad := range []string{
		"a: 1\n",
		"- 3\n",
		"- if: x\n",
		"- if: true\n  patch: {}\n  else: {}\n",
		"- if: 3\n  patch: {}\n",
	} {
		_, err := LoadPatches([]byte(bad))
		assert.Error(t, err, bad)
	}

	patches, err = LoadPatches(nil)
	require.NoError(t, err)
	assert.Empty(t, patches)
}

func TestApplyPatches(t *testing.T) {
	cfg, err := Read(julesDecl(&inputFiles{}), "/run", ReadFS(newFixture(t)))
	require.NoError(t, err)
	patches, err := LoadPatches([]byte(sitePatches))
	require.NoError(t, err)

	n, err := cfg.ApplyPatches(map[string]any{"site": "loobos"}, patches...)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, tt := range []struct {
		at   tree.Address
		want any
	}{
		{tree.Addr("namelists", "output", "jules_output", "run_id"), "loobos_patched"},
		{tree.Addr("namelists", "timesteps", "jules_time", "timestep_len"), int64(900)},
		{outputPeriod, int64(86400)},
		{tree.Addr("namelists", "timesteps", "jules_time", "l_360"), false},
	} {
		v, err := cfg.Get(tt.at)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v, tt.at.String())
	}
}

func TestApplyPatchesAtomic(t *testing.T) {
	cfg, err := Read(julesDecl(&inputFiles{}), "/run", ReadFS(newFixture(t)))
	require.NoError(t, err)
	before := cfg.Root().Clone()

	_, err = cfg.ApplyPatches(nil,
		Patch{Patch: tree.Nest(outputPeriod, 1)},
		Patch{Patch: tree.Of("restart", tree.NewMap())},
	)
	assert.True(t, errors.Is(err, ErrSchemaMismatch), "error = %v", err)
	assert.True(t, before.Equal(cfg.Root()))

	_, err = cfg.ApplyPatches(nil,
		Patch{Patch: tree.Nest(outputPeriod, 1)},
		Patch{If: "undefined_name > 2", Patch: tree.NewMap()},
	)
	assert.Error(t, err)
	assert.True(t, before.Equal(cfg.Root()))
}

func TestMergePatch(t *testing.T) {
	decl := schema.Group("",
		schema.Entry("timesteps", schema.Path("timesteps.nml")),
	)
	before, err := New(decl, tree.Of("timesteps", tree.Of("jules_time", tree.Of(
		"timestep_len", 1800,
		"dt_max", 2.5,
		"l_360", false,
		"spinup", "none",
	))))
	require.NoError(t, err)

	after := before.Clone()
	at := tree.Addr("timesteps", "jules_time")
	require.NoError(t, after.Set(at.Append("timestep_len"), 3600))
	require.NoError(t, after.Set(at.Append("dt_max"), 3.0))
	require.True(t, after.Root().Map("timesteps").Map("jules_time").Delete("spinup"))

	data, err := MergePatch(before, after)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	want := map[string]any{"timesteps": map[string]any{"jules_time": map[string]any{
		"timestep_len": float64(3600),
		"dt_max":       float64(3),
		"spinup":       nil,
	}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge patch mismatch (-want +got):\n%s", diff)
	}

	target := before.Clone()
	require.NoError(t, target.ApplyMergePatch(data))
	assert.True(t, after.Root().Equal(target.Root()), "got %s\nwant %s", target.Root(), after.Root())
	v, err := target.Get(at.Append("dt_max"))
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	err = target.ApplyMergePatch([]byte(`{"restart": {"x": 1}}`))
	assert.True(t, errors.Is(err, ErrSchemaMismatch), "error = %v", err)
}

func TestMergePatchLeaves(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, writeString(fsys, "/run/soil.nc", "\x89CDF\x01"))
	require.NoError(t, writeString(fsys, "/run/drive.dat", "# Loobos\n1.00000 2.00000\n"))
	decl := schema.Group("",
		schema.Entry("soil", schema.Path("soil.nc")),
		schema.Entry("drive", schema.Path("drive.dat")),
	)
	before, err := Read(decl, "/run", ReadFS(fsys))
	require.NoError(t, err)

	after := before.Clone()
	table := &ascii.Table{Comment: []string{"Loobos"}, Rows: [][]float64{{1, 2}, {3, 4.5}}}
	require.NoError(t, after.Set(tree.Addr("soil"), []byte("\x89CDF\x02")))
	require.NoError(t, after.Set(tree.Addr("drive"), table))

	data, err := MergePatch(before, after)
	require.NoError(t, err)
	target := before.Clone()
	require.NoError(t, target.ApplyMergePatch(data))

	v, err := target.Get(tree.Addr("soil"))
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89CDF\x02"), v)
	v, err = target.Get(tree.Addr("drive"))
	require.NoError(t, err)
	require.IsType(t, &ascii.Table{}, v)
	assert.True(t, table.Equal(v.(*ascii.Table)), "got %+v", v)

	require.NoError(t, target.Write("/copy"))
	assert.Equal(t, "\x89CDF\x02", readFile(t, fsys, "/copy/soil.nc"))
	assert.Equal(t, "# Loobos\n1.00000 2.00000\n3.00000 4.50000\n", readFile(t, fsys, "/copy/drive.dat"))

	// fields missing from a table patch are kept
	require.NoError(t, target.ApplyMergePatch([]byte(`{"drive": {"Rows": [[5, 6]]}}`)))
	v, err = target.Get(tree.Addr("drive"))
	require.NoError(t, err)
	want := &ascii.Table{Comment: []string{"Loobos"}, Rows: [][]float64{{5, 6}}}
	assert.True(t, want.Equal(v.(*ascii.Table)), "got %+v", v)

	for _, bad := range []string{
		`{"soil": {"x": 1}}`,
		`{"soil": "not base64!"}`,
		`{"drive": {"Rows": [[1, 2], [3]]}}`,
		`{"drive": "1 2"}`,
	} {
		err := target.ApplyMergePatch([]byte(bad))
		assert.True(t, errors.Is(err, ErrSchemaMismatch), "%s: error = %v", bad, err)
	}
	v, err = target.Get(tree.Addr("drive"))
	require.NoError(t, err)
	assert.True(t, want.Equal(v.(*ascii.Table)), "rejected patches must leave the tree alone")
}
