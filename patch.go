package dirconf

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/land-surface/dirconf/debug"
	"github.com/land-surface/dirconf/tree"
)

// Patch is a partial tree merged into a configuration when If holds. If
// is an expr-lang expression over the environment given to ApplyPatches;
// an empty If always holds. Expressions may call get("a.b.c") to read the
// configuration being patched.
type Patch struct {
	If    string
	Patch *tree.Map
}

func (p *Patch) String() string {
	return fmt.Sprintf("if: %q patch: %s", p.If, p.Patch)
}

// LoadPatches reads a YAML list of patches:
//
//	- if: site == "loobos"
//	  patch:
//	    namelists:
//	      output:
//	        jules_output:
//	          run_id: loobos
func LoadPatches(data []byte) ([]Patch, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, oops.Wrapf(err, "decoding patches")
	}
	if doc == nil {
		return nil, nil
	}
	v, err := tree.FromYAMLValue(doc)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, oops.Errorf("patches must be a list, got %T", v)
	}
	res := make([]Patch, 0, len(list))
	for i, elt := range list {
		m, ok := elt.(*tree.Map)
		if !ok {
			return nil, oops.Errorf("patch %d must be a mapping, got %T", i, elt)
		}
		var p Patch
		for k, v := range m.All() {
			switch k {
			case "if":
				s, ok := v.(string)
				if !ok {
					return nil, oops.Errorf("patch %d: if must be a string, got %T", i, v)
				}
				p.If = s
			case "patch":
				pm, ok := v.(*tree.Map)
				if !ok {
					return nil, oops.Errorf("patch %d: patch must be a mapping, got %T", i, v)
				}
				p.Patch = pm
			default:
				return nil, oops.Errorf("patch %d: unknown field %q", i, k)
			}
		}
		if p.Patch == nil {
			return nil, oops.Errorf("patch %d has no patch", i)
		}
		res = append(res, p)
	}
	return res, nil
}

// ApplyPatches deep merges, in order, each patch whose condition holds and
// returns how many applied. Patches are applied to a copy which replaces
// the tree only if every condition evaluates and the result still fits the
// schema.
func (c *Config) ApplyPatches(env map[string]any, patches ...Patch) (int, error) {
	work := c.root.Clone()
	getter := expr.Function("get", func(params ...any) (any, error) {
		s, ok := params[0].(string)
		if !ok {
			return nil, fmt.Errorf("get: address must be a string, got %T", params[0])
		}
		a, err := tree.ParseAddress(s)
		if err != nil {
			return nil, err
		}
		v, err := tree.Get(work, a)
		if err != nil {
			return nil, nil
		}
		return v, nil
	}, new(func(string) any))
	if env == nil {
		env = map[string]any{}
	}

	n := 0
	for i := range patches {
		p := &patches[i]
		if p.If != "" {
			prg, err := expr.Compile(p.If, expr.Env(env), expr.AsBool(), getter)
			if err != nil {
				return 0, oops.Wrapf(err, "patch %d: compiling %q", i, p.If)
			}
			out, err := expr.Run(prg, env)
			if err != nil {
				return 0, oops.Wrapf(err, "patch %d: evaluating %q", i, p.If)
			}
			ok, _ := out.(bool)
			if debug.Enabled(debug.Patch()) {
				log.WithFields(logrus.Fields{"patch": i, "if": p.If, "holds": ok}).Debug("patch condition")
			}
			if !ok {
				continue
			}
		}
		tree.Update(work, p.Patch)
		n++
	}
	if err := checkShape(c.schema, work, tree.Address{}); err != nil {
		return 0, err
	}
	if debug.Enabled(debug.Patch()) {
		debug.Logf("# patched (%d of %d applied)\n%s\n", n, len(patches), work)
	}
	c.root = work
	return n, nil
}
