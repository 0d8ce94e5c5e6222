package schema

import (
	"path/filepath"
	"slices"

	"github.com/samber/oops"

	"github.com/land-surface/dirconf/codec"
)

type Kind int

const (
	LeafKind Kind = iota
	GroupKind
)

func (k Kind) String() string {
	switch k {
	case LeafKind:
		return "leaf"
	case GroupKind:
		return "group"
	}
	return "unknown"
}

// Decl is a child declaration: a Path, a Deferred or a *Node.
type Decl interface {
	isDecl()
}

// Path declares a child by relative path alone.
type Path string

// Factory builds a node on demand.
type Factory func() (*Node, error)

// Deferred declares a child whose node is built by Factory when a read
// reaches it. Path replaces the path of the built node.
type Deferred struct {
	Path     string
	Factory  Factory
	Optional bool
}

type Node struct {
	Kind Kind
	// Path is relative to the parent group's directory. An absolute leaf
	// path marks a file outside the tree, which is neither read nor
	// written.
	Path string
	// Codec translates a leaf's file contents.
	Codec codec.Codec
	// CodecName is the registry name of Codec, when known.
	CodecName string
	// Optional nodes missing from disk are omitted from the tree instead
	// of failing the read.
	Optional bool
	Children []Child
}

type Child struct {
	Name string
	Decl Decl
}

func (Path) isDecl()     {}
func (Deferred) isDecl() {}
func (*Node) isDecl()    {}

func Leaf(path string, c codec.Codec) *Node {
	return &Node{Kind: LeafKind, Path: path, Codec: c}
}

func Group(path string, children ...Child) *Node {
	return &Node{Kind: GroupKind, Path: path, Children: children}
}

func Entry(name string, d Decl) Child {
	return Child{Name: name, Decl: d}
}

func Lazy(path string, f Factory) Deferred {
	return Deferred{Path: path, Factory: f}
}

// AsOptional marks n optional and returns it.
func (n *Node) AsOptional() *Node {
	n.Optional = true
	return n
}

// External reports whether n is a leaf stored outside the tree.
func (n *Node) External() bool {
	return n.Kind == LeafKind && filepath.IsAbs(n.Path)
}

func (n *Node) Child(name string) (Child, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, true
		}
	}
	return Child{}, false
}

// ChildNode returns the named child when it has been resolved to a node.
func (n *Node) ChildNode(name string) *Node {
	c, ok := n.Child(name)
	if !ok {
		return nil
	}
	sub, _ := c.Decl.(*Node)
	return sub
}

func (n *Node) Names() []string {
	res := make([]string, len(n.Children))
	for i, c := range n.Children {
		res[i] = c.Name
	}
	return res
}

func (n *Node) clone() *Node {
	cp := *n
	cp.Children = slices.Clone(n.Children)
	return &cp
}

// DeclPath returns the path a declaration names.
func DeclPath(d Decl) string {
	switch x := d.(type) {
	case Path:
		return string(x)
	case Deferred:
		return x.Path
	case *Node:
		if x == nil {
			return ""
		}
		return x.Path
	}
	return ""
}

// Validate checks n and its declared children, but not their descendants.
func (n *Node) Validate() error {
	switch n.Kind {
	case LeafKind:
		if n.Path == "" || filepath.Clean(n.Path) == "." {
			return oops.Errorf("%w: leaf without a file path", ErrInvalidSchema)
		}
		if n.Codec == nil {
			return oops.Errorf("%w: leaf %q has no codec", ErrInvalidSchema, n.Path)
		}
		if len(n.Children) != 0 {
			return oops.Errorf("%w: leaf %q has children", ErrInvalidSchema, n.Path)
		}
	case GroupKind:
		names := map[string]bool{}
		paths := map[string]string{}
		for _, c := range n.Children {
			if c.Name == "" {
				return oops.Errorf("%w: group %q has an unnamed child", ErrInvalidSchema, n.Path)
			}
			if names[c.Name] {
				return oops.Errorf("%w: group %q declares %q twice", ErrInvalidSchema, n.Path, c.Name)
			}
			names[c.Name] = true
			switch x := c.Decl.(type) {
			case nil:
				return oops.Errorf("%w: child %q has no declaration", ErrInvalidSchema, c.Name)
			case *Node:
				if x == nil {
					return oops.Errorf("%w: child %q has no declaration", ErrInvalidSchema, c.Name)
				}
			case Deferred:
				if x.Factory == nil {
					return oops.Errorf("%w: child %q has no factory", ErrInvalidSchema, c.Name)
				}
			}
			p := filepath.Clean(DeclPath(c.Decl))
			if other, ok := paths[p]; ok {
				return oops.Errorf("%w: children %q and %q share path %q", ErrInvalidSchema, other, c.Name, p)
			}
			paths[p] = c.Name
		}
	default:
		return oops.Errorf("%w: unknown node kind %d", ErrInvalidSchema, int(n.Kind))
	}
	return nil
}
