package dirconf

import (
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/land-surface/dirconf/schema"
)

const outputNml = `&jules_output
    run_id = 'loobos'
    output_dir = './output'
/

&jules_output_profile
    profile_name = 'daily'
    output_period = 1800
    var = 'gpp', 'npp'
/
`

const timestepsNml = `&jules_time
    timestep_len = 1800
    main_run_start = '1997-01-01 00:00:00'
    l_360 = .false.
/
`

const (
	initialConditions = "# initial conditions\n0.74900 276.78000\n"
	drivingData       = "# Loobos driving data\n1.00000 2.50000\n3.00000 4.25000\n"
	tileFractions     = "0.00000 0.90000 0.10000\n"
)

var fixture = map[string]string{
	"namelists/output.nml":                outputNml,
	"namelists/timesteps.nml":             timestepsNml,
	"inputs/initial_conditions_bb219.dat": initialConditions,
	"inputs/Loobos_1997.dat":              drivingData,
	"inputs/tile_fractions.dat":           tileFractions,
}

func writeFixture(t *testing.T, fsys billy.Filesystem, root string) {
	t.Helper()
	for name, content := range fixture {
		require.NoError(t, util.WriteFile(fsys, fsys.Join(root, name), []byte(content), 0o644))
	}
}

func newFixture(t *testing.T) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	writeFixture(t, fsys, "/run")
	return fsys
}

func writeString(fsys billy.Filesystem, name, content string) error {
	return util.WriteFile(fsys, name, []byte(content), 0o644)
}

func readFile(t *testing.T, fsys billy.Filesystem, name string) string {
	t.Helper()
	d, err := util.ReadFile(fsys, name)
	require.NoError(t, err)
	return string(d)
}

// inputFiles counts its invocations.
type inputFiles struct {
	calls int
}

func (f *inputFiles) factory() (*schema.Node, error) {
	f.calls++
	return schema.Group("",
		schema.Entry("initial_conditions", schema.Path("initial_conditions_bb219.dat")),
		schema.Entry("driving_data", schema.Path("Loobos_1997.dat")),
		schema.Entry("tile_fractions", schema.Path("tile_fractions.dat")),
	), nil
}

func julesDecl(inputs *inputFiles) *schema.Node {
	return schema.Group("",
		schema.Entry("namelists", schema.Path("namelists")),
		schema.Entry("inputs", schema.Lazy("inputs", inputs.factory)),
	)
}
