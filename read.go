package dirconf

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/land-surface/dirconf/debug"
	"github.com/land-surface/dirconf/schema"
	"github.com/land-surface/dirconf/tree"
)

// Read materialises the configuration declared by decl under root. The
// root declaration must resolve to a group, usually one with path "".
//
// Children are read in declaration order. A missing leaf or group fails
// with ErrMissingFile unless it is optional, in which case it is left out
// of the tree. Deferred declarations are built when the read reaches them
// and are not remembered between reads.
func Read(decl schema.Decl, root string, opts ...ReadOption) (*Config, error) {
	o := newReadOpts(opts)
	fsys, dir, err := fsRoot(o.fs, root)
	if err != nil {
		return nil, oops.Wrapf(err, "reading %q", root)
	}
	log.WithFields(logrus.Fields{"root": dir}).Info("reading configuration")

	r := &reader{fs: fsys, res: schema.NewResolver(fsys, o.reg)}
	n, err := r.res.Resolve(decl, dir, tree.Address{})
	if err != nil {
		return nil, err
	}
	if n.Kind != schema.GroupKind {
		return nil, oops.Errorf("%w: root must be a group, got a %s", ErrInvalidSchema, n.Kind)
	}
	rn, v, ok, err := r.read(n, dir, tree.Address{})
	if err != nil {
		return nil, err
	}
	if !ok {
		v = tree.NewMap()
	}
	return &Config{
		root:   v.(*tree.Map),
		schema: rn,
		origin: dir,
		fs:     o.fs,
		reg:    o.reg,
	}, nil
}

type reader struct {
	fs  billy.Filesystem
	res *schema.Resolver
}

// read returns the node as resolved, its value and whether it is present.
func (r *reader) read(n *schema.Node, dir string, at tree.Address) (*schema.Node, any, bool, error) {
	full := joinPath(dir, n.Path)
	if n.Kind == schema.LeafKind {
		return r.leaf(n, full, at)
	}

	fi, err := r.fs.Stat(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if n.Optional {
			r.omit(full, at)
			return n, nil, false, nil
		}
		return nil, nil, false, oops.With("position", at.String()).Errorf("%w: directory %s", ErrMissingFile, full)
	case err != nil:
		return nil, nil, false, oops.Wrapf(err, "stat %s", full)
	case !fi.IsDir():
		return nil, nil, false, oops.Errorf("%w: %s is declared a directory but is a file", ErrSchemaMismatch, full)
	}

	m := tree.NewMap()
	res := *n
	res.Children = make([]schema.Child, 0, len(n.Children))
	for _, c := range n.Children {
		here := at.Append(c.Name)
		cn, err := r.res.Resolve(c.Decl, full, here)
		if err != nil {
			return nil, nil, false, err
		}
		rn, v, ok, err := r.read(cn, full, here)
		if err != nil {
			return nil, nil, false, err
		}
		res.Children = append(res.Children, schema.Entry(c.Name, rn))
		if ok {
			m.Set(c.Name, v)
		}
	}
	return &res, m, true, nil
}

func (r *reader) leaf(n *schema.Node, full string, at tree.Address) (*schema.Node, any, bool, error) {
	if n.External() {
		r.omit(full, at)
		return n, nil, false, nil
	}
	data, err := util.ReadFile(r.fs, full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if n.Optional {
			r.omit(full, at)
			return n, nil, false, nil
		}
		return nil, nil, false, oops.With("position", at.String()).Errorf("%w: %s", ErrMissingFile, full)
	case err != nil:
		return nil, nil, false, oops.Wrapf(err, "reading %s", full)
	}
	v, err := n.Codec.Decode(data)
	if err != nil {
		return nil, nil, false, oops.With("position", at.String()).Wrapf(err, "decoding %s", full)
	}
	if debug.Enabled(debug.Read()) {
		log.WithFields(logrus.Fields{
			"file":     full,
			"position": at.String(),
			"codec":    n.CodecName,
			"bytes":    len(data),
		}).Debug("read file")
	}
	return n, v, true, nil
}

func (r *reader) omit(full string, at tree.Address) {
	if debug.Enabled(debug.Read()) {
		log.WithFields(logrus.Fields{"path": full, "position": at.String()}).Debug("omitting optional entry")
	}
}

// joinPath places p under dir unless it is absolute.
func joinPath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
