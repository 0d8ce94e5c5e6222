package jules

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/oops"

	"github.com/land-surface/dirconf"
	"github.com/land-surface/dirconf/schema"
	"github.com/land-surface/dirconf/tree"
)

// Parameter is one value set in a namelist file.
type Parameter struct {
	Namelist string
	Group    string
	Name     string
	// Address locates the value in the configuration. Repeated groups add
	// their index after the group name.
	Address tree.Address
	Value   any
}

// Parameters lists every namelist parameter of cfg in file, group and
// parameter order.
func Parameters(cfg *dirconf.Config) ([]Parameter, error) {
	nls, err := namelists(cfg)
	if err != nil {
		return nil, err
	}
	var res []Parameter
	for nl, v := range nls.All() {
		groups, ok := v.(*tree.Map)
		if !ok {
			return nil, oops.Errorf("%w: namelist %s holds %T", dirconf.ErrSchemaMismatch, nl, v)
		}
		for g, gv := range groups.All() {
			at := tree.Addr(namelistsKey, nl, g)
			switch x := gv.(type) {
			case *tree.Map:
				res = appendParams(res, nl, g, at, x)
			case []any:
				for i, elt := range x {
					m, ok := elt.(*tree.Map)
					if !ok {
						return nil, oops.Errorf("%w: %s holds %T", dirconf.ErrSchemaMismatch, at.Append(strconv.Itoa(i)), elt)
					}
					res = appendParams(res, nl, g, at.Append(strconv.Itoa(i)), m)
				}
			default:
				return nil, oops.Errorf("%w: %s holds %T", dirconf.ErrSchemaMismatch, at, gv)
			}
		}
	}
	return res, nil
}

func appendParams(res []Parameter, nl, group string, at tree.Address, m *tree.Map) []Parameter {
	for k, v := range m.All() {
		res = append(res, Parameter{
			Namelist: nl,
			Group:    group,
			Name:     k,
			Address:  at.Append(k),
			Value:    v,
		})
	}
	return res
}

func namelists(cfg *dirconf.Config) (*tree.Map, error) {
	v, err := cfg.Get(tree.Addr(namelistsKey))
	if err != nil {
		return nil, err
	}
	m, ok := v.(*tree.Map)
	if !ok {
		return nil, oops.Errorf("%w: namelists holds %T", dirconf.ErrSchemaMismatch, v)
	}
	return m, nil
}

// InputExtensions are the suffixes that mark a string parameter as a path
// to an input file.
var InputExtensions = slices.Concat(schema.NetcdfExtensions, schema.AsciiExtensions)

// FileParameters returns the parameters whose value is a path to an input
// file.
func FileParameters(cfg *dirconf.Config) ([]Parameter, error) {
	params, err := Parameters(cfg)
	if err != nil {
		return nil, err
	}
	var res []Parameter
	for _, p := range params {
		s, ok := p.Value.(string)
		if ok && isInput(s) {
			res = append(res, p)
		}
	}
	return res, nil
}

func isInput(s string) bool {
	for _, ext := range InputExtensions {
		if strings.HasSuffix(s, ext) {
			return true
		}
	}
	return false
}

// RequiredFiles returns the distinct input files named in the namelists,
// sorted.
func RequiredFiles(cfg *dirconf.Config) ([]string, error) {
	params, err := FileParameters(cfg)
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(params))
	for _, p := range params {
		res = append(res, p.Value.(string))
	}
	slices.Sort(res)
	return slices.Compact(res), nil
}

// CheckPaths rejects relative input paths that leave the run directory.
func CheckPaths(cfg *dirconf.Config) error {
	params, err := FileParameters(cfg)
	if err != nil {
		return err
	}
	for _, p := range params {
		s := p.Value.(string)
		if filepath.IsAbs(s) || strings.HasPrefix(s, "~") {
			continue
		}
		if c := filepath.Clean(s); c == ".." || strings.HasPrefix(c, "../") {
			return oops.With("position", p.Address.String()).Errorf("%w: %q leaves the run directory", ErrInvalidPath, s)
		}
	}
	return nil
}

// OutputDir returns output_dir from the jules_output group of the output
// namelist.
func OutputDir(cfg *dirconf.Config) (string, error) {
	at := tree.Addr(namelistsKey, "output", "jules_output", "output_dir")
	v, err := cfg.Get(at)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", oops.Errorf("%w: %s holds %T, want a string", dirconf.ErrSchemaMismatch, at, v)
	}
	return s, nil
}
