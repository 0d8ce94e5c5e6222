package jules

import (
	"github.com/land-surface/dirconf/namelist"
	"github.com/land-surface/dirconf/schema"
)

// Namelists lists the namelist files of a JULES run, without extension.
var Namelists = []string{
	"ancillaries",
	"crop_params",
	"drive",
	"fire",
	"imogen",
	"initial_conditions",
	"jules_deposition",
	"jules_hydrology",
	"jules_irrig",
	"jules_prnt_control",
	"jules_radiation",
	"jules_rivers",
	"jules_snow",
	"jules_soil_biogeochem",
	"jules_soil",
	"jules_surface",
	"jules_surface_types",
	"jules_vegetation",
	"jules_water_resources",
	"model_environment",
	"model_grid",
	"nveg_params",
	"output",
	"pft_params",
	"prescribed_data",
	"science_fixes",
	"timesteps",
	"triffid_params",
	"urban",
}

const (
	NamelistsHandler = "jules_namelists"

	namelistsKey = "namelists"
	inputsKey    = "inputs"
)

// NamelistFiles declares every namelist file of a run, each keyed by its
// name.
func NamelistFiles() (*schema.Node, error) {
	nml := namelist.NewCodec()
	g := schema.Group("")
	for _, name := range Namelists {
		leaf := schema.Leaf(name+".nml", nml)
		leaf.CodecName = "namelist"
		g.Children = append(g.Children, schema.Entry(name, leaf))
	}
	return g, nil
}

// InputFiles returns a factory declaring a run's initial conditions,
// driving data and tile fractions. Paths are relative to the run
// directory; absolute paths are files kept outside the run. Empty paths
// are left out.
func InputFiles(initialConditions, drivingData, tileFractions string) schema.Factory {
	return func() (*schema.Node, error) {
		g := schema.Group("")
		for _, e := range []struct{ name, path string }{
			{"initial_conditions", initialConditions},
			{"driving_data", drivingData},
			{"tile_fractions", tileFractions},
		} {
			if e.path == "" {
				continue
			}
			g.Children = append(g.Children, schema.Entry(e.name, schema.Path(e.path)))
		}
		return g, nil
	}
}

// Schema declares a run directory with its namelists under namelistsDir
// and, when inputs is not nil, the optional input files it declares.
func Schema(namelistsDir string, inputs schema.Factory) *schema.Node {
	root := schema.Group("", schema.Entry(namelistsKey, schema.Lazy(namelistsDir, NamelistFiles)))
	if inputs != nil {
		root.Children = append(root.Children, schema.Entry(inputsKey, schema.Deferred{
			Factory:  inputs,
			Optional: true,
		}))
	}
	return root
}

// RegisterHandlers makes the namelist factory available to YAML schemas as
// "jules_namelists".
func RegisterHandlers(reg *schema.Registry) error {
	return reg.RegisterHandler(NamelistsHandler, NamelistFiles)
}
