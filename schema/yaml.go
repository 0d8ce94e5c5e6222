package schema

import (
	"github.com/samber/oops"

	"github.com/land-surface/dirconf/tree"
)

// ParseYAML reads the declaration of a root group from YAML. Each key
// declares a child, either by literal path
//
//	namelists: namelists
//
// or by a mapping with a path (defaulting to the key) and at most one of
// handler, codec or children:
//
//	inputs:
//	  path: inputs
//	  handler: jules_inputs
//	  optional: true
//	forcing:
//	  path: forcing.nc
//	  codec: netcdf
//	extra:
//	  children:
//	    settings: settings.nml
//
// Handler and codec names are looked up in reg.
func ParseYAML(data []byte, reg *Registry) (*Node, error) {
	m, err := tree.FromYAML(data)
	if err != nil {
		return nil, oops.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if reg == nil {
		reg = DefaultRegistry()
	}
	children, err := yamlChildren(m, reg, tree.Address{})
	if err != nil {
		return nil, err
	}
	root := Group("", children...)
	if err := root.Validate(); err != nil {
		return nil, err
	}
	return root, nil
}

func yamlChildren(m *tree.Map, reg *Registry, at tree.Address) ([]Child, error) {
	var res []Child
	for name, v := range m.All() {
		d, err := yamlDecl(name, v, reg, at.Append(name))
		if err != nil {
			return nil, err
		}
		res = append(res, Entry(name, d))
	}
	return res, nil
}

func yamlDecl(name string, v any, reg *Registry, at tree.Address) (Decl, error) {
	switch x := v.(type) {
	case string:
		return Path(x), nil
	case *tree.Map:
		return yamlMapDecl(name, x, reg, at)
	}
	return nil, oops.Errorf("%w: %s must be a path or a mapping, got %T", ErrInvalidSchema, at, v)
}

func yamlMapDecl(name string, m *tree.Map, reg *Registry, at tree.Address) (Decl, error) {
	p := name
	optional := false
	kinds := 0
	for k, v := range m.All() {
		switch k {
		case "path":
			s, ok := v.(string)
			if !ok {
				return nil, oops.Errorf("%w: %s.path must be a string", ErrInvalidSchema, at)
			}
			p = s
		case "optional":
			b, ok := v.(bool)
			if !ok {
				return nil, oops.Errorf("%w: %s.optional must be a bool", ErrInvalidSchema, at)
			}
			optional = b
		case "handler", "codec", "children":
			kinds++
		default:
			return nil, oops.Errorf("%w: %s: unknown field %q", ErrInvalidSchema, at, k)
		}
	}
	if kinds > 1 {
		return nil, oops.Errorf("%w: %s: handler, codec and children are exclusive", ErrInvalidSchema, at)
	}

	if v, ok := m.Get("handler"); ok {
		hname, _ := v.(string)
		f, ok := reg.Handler(hname)
		if !ok {
			return nil, oops.Errorf("%w: %s: unknown handler %q", ErrInvalidSchema, at, hname)
		}
		return Deferred{Path: p, Factory: f, Optional: optional}, nil
	}
	if v, ok := m.Get("codec"); ok {
		cname, _ := v.(string)
		c, ok := reg.Codec(cname)
		if !ok {
			return nil, oops.Errorf("%w: %s: unknown codec %q", ErrInvalidSchema, at, cname)
		}
		n := Leaf(p, c)
		n.CodecName = cname
		n.Optional = optional
		return n, nil
	}
	if v, ok := m.Get("children"); ok {
		sub, ok := v.(*tree.Map)
		if !ok {
			return nil, oops.Errorf("%w: %s.children must be a mapping", ErrInvalidSchema, at)
		}
		children, err := yamlChildren(sub, reg, at)
		if err != nil {
			return nil, err
		}
		g := Group(p, children...)
		g.Optional = optional
		return g, nil
	}
	if optional {
		return nil, oops.Errorf("%w: %s: a literal path cannot be optional", ErrInvalidSchema, at)
	}
	return Path(p), nil
}
