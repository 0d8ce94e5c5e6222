package dirconf

import (
	"github.com/go-git/go-billy/v5"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/land-surface/dirconf/debug"
	"github.com/land-surface/dirconf/schema"
	"github.com/land-surface/dirconf/tree"
)

var log = debug.Log()

// Config is a configuration tree together with the schema that produced it
// and the directory it was read from.
type Config struct {
	root   *tree.Map
	schema *schema.Node
	origin string
	// fs is the filesystem the tree belongs to, nil for the operating
	// system's.
	fs  billy.Filesystem
	reg *schema.Registry
}

// New builds a detached configuration from data and a schema. Literal
// paths in decl are resolved from their extension alone, and deferred
// declarations are built immediately. Every key of data must be declared.
func New(decl schema.Decl, data *tree.Map, opts ...ReadOption) (*Config, error) {
	o := newReadOpts(opts)
	res := schema.NewResolver(nil, o.reg)
	n, err := resolveAll(res, decl, "", tree.Address{})
	if err != nil {
		return nil, err
	}
	if n.Kind != schema.GroupKind {
		return nil, oops.Errorf("%w: root must be a group, got a %s", ErrInvalidSchema, n.Kind)
	}
	if data == nil {
		data = tree.NewMap()
	}
	if err := checkShape(n, data, tree.Address{}); err != nil {
		return nil, err
	}
	return &Config{root: data, schema: n, fs: o.fs, reg: o.reg}, nil
}

// resolveAll resolves decl and all its descendants.
func resolveAll(res *schema.Resolver, decl schema.Decl, dir string, at tree.Address) (*schema.Node, error) {
	n, err := res.Resolve(decl, dir, at)
	if err != nil {
		return nil, err
	}
	if n.Kind != schema.GroupKind {
		return n, nil
	}
	full := joinPath(dir, n.Path)
	for i, c := range n.Children {
		cn, err := resolveAll(res, c.Decl, full, at.Append(c.Name))
		if err != nil {
			return nil, err
		}
		n.Children[i] = schema.Entry(c.Name, cn)
	}
	return n, nil
}

// checkShape reports keys of v with no place in n.
func checkShape(n *schema.Node, v any, at tree.Address) error {
	if n.Kind == schema.LeafKind {
		return nil
	}
	m, ok := v.(*tree.Map)
	if !ok {
		return oops.Errorf("%w: %s is a group but holds %T", ErrSchemaMismatch, at, v)
	}
	for k, cv := range m.All() {
		c, ok := n.Child(k)
		if !ok {
			return oops.Errorf("%w: %s is not declared", ErrSchemaMismatch, at.Append(k))
		}
		cn, ok := c.Decl.(*schema.Node)
		if !ok {
			continue
		}
		if err := checkShape(cn, cv, at.Append(k)); err != nil {
			return err
		}
	}
	return nil
}

// Root returns the tree. Edits to it are seen by Write.
func (c *Config) Root() *tree.Map {
	return c.root
}

// Schema returns the resolved schema: each child declaration met during
// the read has been replaced by the node used for it.
func (c *Config) Schema() *schema.Node {
	return c.schema
}

// Origin returns the directory the tree was read from, "" when detached.
func (c *Config) Origin() string {
	return c.origin
}

func (c *Config) Detached() bool {
	return c.origin == ""
}

// Detach forgets the origin, so that Write needs an explicit destination.
func (c *Config) Detach() *Config {
	if c.origin == "" {
		log.Warn("configuration is already detached")
		return c
	}
	log.WithFields(logrus.Fields{"origin": c.origin}).Debug("detaching configuration")
	c.origin = ""
	return c
}

// Clone returns a detached deep copy of c sharing its schema.
func (c *Config) Clone() *Config {
	return &Config{root: c.root.Clone(), schema: c.schema, fs: c.fs, reg: c.reg}
}

func (c *Config) Get(a tree.Address) (any, error) {
	return tree.Get(c.root, a)
}

func (c *Config) Set(a tree.Address, v any) error {
	return tree.Set(c.root, a, v)
}

// Update deep merges patch into the tree.
func (c *Config) Update(patch *tree.Map) {
	tree.Update(c.root, patch)
}

// SchemaAt returns the schema node governing a, which may be a leaf's
// ancestor when a points inside a file.
func (c *Config) SchemaAt(a tree.Address) (*schema.Node, error) {
	n := c.schema
	for i, k := range a {
		if n.Kind == schema.LeafKind {
			return n, nil
		}
		sub := n.ChildNode(k)
		if sub == nil {
			if _, ok := n.Child(k); ok {
				return nil, oops.Errorf("%w: %s was not resolved", ErrUnresolvableSchema, a[:i+1])
			}
			return nil, oops.Errorf("%w: %s is not declared", ErrSchemaMismatch, a[:i+1])
		}
		n = sub
	}
	return n, nil
}
