package schema

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/land-surface/dirconf/debug"
	"github.com/land-surface/dirconf/tree"
)

var log = debug.Log()

// Resolver turns declarations into concrete nodes for a single read or
// write. Results are remembered per tree position, so a factory runs at
// most once per position for the life of the resolver.
type Resolver struct {
	fs    billy.Filesystem
	reg   *Registry
	cache map[string]*Node
}

// NewResolver returns a resolver inferring literal paths from fsys. A nil
// fsys gives a static resolver, which infers literal paths from their
// extension alone.
func NewResolver(fsys billy.Filesystem, reg *Registry) *Resolver {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Resolver{fs: fsys, reg: reg, cache: map[string]*Node{}}
}

func (r *Resolver) Registry() *Registry {
	return r.reg
}

// Resolve returns the concrete node for d, declared at position at. dir is
// the directory that d's path is relative to. The returned node is a copy
// and may be modified; its children are still declarations.
func (r *Resolver) Resolve(d Decl, dir string, at tree.Address) (*Node, error) {
	key := at.String()
	if n, ok := r.cache[key]; ok {
		return n, nil
	}
	n, err := r.resolve(d, dir)
	if err != nil {
		return nil, oops.With("position", key).Wrapf(err, "resolving %s", key)
	}
	if err := n.Validate(); err != nil {
		return nil, oops.With("position", key).Wrapf(err, "resolving %s", key)
	}
	if debug.Enabled(debug.Resolve()) {
		log.WithFields(logrus.Fields{
			"position": key,
			"kind":     n.Kind.String(),
			"path":     n.Path,
			"codec":    n.CodecName,
		}).Debug("resolved declaration")
	}
	r.cache[key] = n
	return n, nil
}

func (r *Resolver) resolve(d Decl, dir string) (*Node, error) {
	switch x := d.(type) {
	case *Node:
		if x == nil {
			return nil, oops.Errorf("%w: nil node", ErrInvalidSchema)
		}
		return x.clone(), nil
	case Deferred:
		if x.Factory == nil {
			return nil, oops.Errorf("%w: deferred %q has no factory", ErrInvalidSchema, x.Path)
		}
		n, err := x.Factory()
		if err != nil {
			return nil, oops.Wrapf(err, "handler for %q", x.Path)
		}
		if n == nil {
			return nil, oops.Errorf("%w: handler for %q built no node", ErrInvalidSchema, x.Path)
		}
		n = n.clone()
		if x.Path != "" {
			n.Path = x.Path
		}
		n.Optional = n.Optional || x.Optional
		return n, nil
	case Path:
		return r.literal(string(x), dir)
	case nil:
		return nil, oops.Errorf("%w: missing declaration", ErrInvalidSchema)
	}
	return nil, oops.Errorf("%w: unknown declaration %T", ErrInvalidSchema, d)
}

func (r *Resolver) literal(p, dir string) (*Node, error) {
	if p == "" {
		return nil, oops.Errorf("%w: empty path", ErrInvalidSchema)
	}
	if r.fs == nil || filepath.IsAbs(p) {
		return r.byExtension(p)
	}
	full := filepath.Join(dir, p)
	fi, err := r.fs.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Errorf("%w: %q does not exist", ErrUnresolvableSchema, full)
	}
	if err != nil {
		return nil, oops.Wrapf(err, "stat %q", full)
	}
	if !fi.IsDir() {
		return r.byExtension(p)
	}
	return r.inferGroup(p, full)
}

func (r *Resolver) byExtension(p string) (*Node, error) {
	name, c, ok := r.reg.CodecFor(p)
	if !ok {
		return nil, oops.Errorf("%w: no codec for %q", ErrUnresolvableSchema, p)
	}
	n := Leaf(p, c)
	n.CodecName = name
	return n, nil
}

// inferGroup declares a directory's entries as literal children sorted by
// name. Files are keyed by their name without extension unless two share a
// stem; files with no registered codec are skipped.
func (r *Resolver) inferGroup(p, full string) (*Node, error) {
	infos, err := r.fs.ReadDir(full)
	if err != nil {
		return nil, oops.Wrapf(err, "listing %q", full)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })

	type entry struct {
		name string
		stem string
		dir  bool
	}
	var entries []entry
	stems := map[string]int{}
	for _, fi := range infos {
		name := fi.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if fi.IsDir() {
			entries = append(entries, entry{name: name, stem: name, dir: true})
			stems[name]++
			continue
		}
		if _, _, ok := r.reg.CodecFor(name); !ok {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		entries = append(entries, entry{name: name, stem: stem})
		stems[stem]++
	}
	g := Group(p)
	for _, e := range entries {
		key := e.stem
		if stems[e.stem] > 1 {
			key = e.name
		}
		g.Children = append(g.Children, Entry(key, Path(e.name)))
	}
	return g, nil
}
