package dirconf

import (
	"bytes"
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

// plannedFile is one file a write would produce.
type plannedFile struct {
	path string
	at   tree.Address
	data []byte
}

// plan lists, in schema order, the directories and encoded files a write
// of a tree would produce.
type plan struct {
	dirs  []string
	files []plannedFile
	res   *schema.Resolver
}

// Write stores the tree under root, or under its origin when root is "".
//
// Every present value is encoded and every target checked before anything
// is written, so schema mismatches, encoding failures and, without
// Overwrite(true), existing files abort the write with no file touched.
// With Overwrite(true), files whose contents would not change are left
// alone.
func (c *Config) Write(root string, opts ...WriteOption) error {
	o := &writeOpts{fs: c.fs}
	for _, opt := range opts {
		opt(o)
	}
	if root == "" {
		if c.origin == "" {
			return oops.Errorf("%w: no destination given and the tree has no origin", ErrDetachedTree)
		}
		root = c.origin
	}
	fsys, dir, err := fsRoot(o.fs, root)
	if err != nil {
		return oops.Wrapf(err, "writing %q", root)
	}
	p, err := c.plan(dir)
	if err != nil {
		return err
	}
	if err := p.preflight(fsys, o.overwrite); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"root":  dir,
		"files": len(p.files),
	}).Info("writing configuration")
	return p.execute(fsys)
}

func (c *Config) plan(dir string) (*plan, error) {
	reg := c.reg
	if reg == nil {
		reg = schema.DefaultRegistry()
	}
	p := &plan{res: schema.NewResolver(nil, reg)}
	if err := p.node(c.schema, c.root, dir, tree.Address{}); err != nil {
		return nil, err
	}
	if debug.Enabled(debug.Write()) {
		debug.Logf("# write plan for %s\n%s\n", dir, p.summary())
	}
	return p, nil
}

// summary describes each planned file for debug output.
func (p *plan) summary() []any {
	res := make([]any, len(p.files))
	for i, f := range p.files {
		res[i] = map[string]any{
			"file":     f.path,
			"position": f.at.String(),
			"bytes":    len(f.data),
		}
	}
	return res
}

func (p *plan) node(n *schema.Node, v any, dir string, at tree.Address) error {
	full := joinPath(dir, n.Path)
	if n.Kind == schema.LeafKind {
		if n.External() {
			return nil
		}
		data, err := n.Codec.Encode(v)
		if err != nil {
			return oops.With("position", at.String()).Wrapf(err, "encoding %s", full)
		}
		p.dirs = append(p.dirs, filepath.Dir(full))
		p.files = append(p.files, plannedFile{path: full, at: at, data: data})
		return nil
	}

	m, ok := v.(*tree.Map)
	if !ok {
		return oops.Errorf("%w: %s is a group but holds %T", ErrSchemaMismatch, at, v)
	}
	for k := range m.All() {
		if _, ok := n.Child(k); !ok {
			return oops.Errorf("%w: %s is not declared", ErrSchemaMismatch, at.Append(k))
		}
	}
	p.dirs = append(p.dirs, full)
	for _, c := range n.Children {
		cv, ok := m.Get(c.Name)
		if !ok {
			continue
		}
		here := at.Append(c.Name)
		cn, ok := c.Decl.(*schema.Node)
		if !ok {
			// branches omitted at read time are still declarations
			var err error
			cn, err = resolveAll(p.res, c.Decl, full, here)
			if err != nil {
				return err
			}
		}
		if err := p.node(cn, cv, full, here); err != nil {
			return err
		}
	}
	return nil
}

func (p *plan) preflight(fsys billy.Filesystem, overwrite bool) error {
	for _, d := range p.dirs {
		fi, err := fsys.Stat(d)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return oops.Wrapf(err, "stat %s", d)
		case !fi.IsDir():
			return oops.Errorf("%w: %s is a file, need a directory", ErrFileExists, d)
		}
	}
	for _, f := range p.files {
		fi, err := fsys.Stat(f.path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return oops.Wrapf(err, "stat %s", f.path)
		case fi.IsDir():
			return oops.Errorf("%w: %s is a directory, need a file", ErrFileExists, f.path)
		case !overwrite:
			return oops.With("position", f.at.String()).Errorf("%w: %s", ErrFileExists, f.path)
		}
	}
	return nil
}

func (p *plan) execute(fsys billy.Filesystem) error {
	for _, d := range p.dirs {
		if err := fsys.MkdirAll(d, 0o755); err != nil {
			return oops.Wrapf(err, "creating %s", d)
		}
	}
	for _, f := range p.files {
		old, err := util.ReadFile(fsys, f.path)
		if err == nil && bytes.Equal(old, f.data) {
			if debug.Enabled(debug.Write()) {
				log.WithFields(logrus.Fields{"file": f.path}).Debug("unchanged")
			}
			continue
		}
		if err := util.WriteFile(fsys, f.path, f.data, 0o644); err != nil {
			return oops.Wrapf(err, "writing %s", f.path)
		}
		if debug.Enabled(debug.Write()) {
			log.WithFields(logrus.Fields{"file": f.path, "bytes": len(f.data)}).Debug("wrote file")
		}
	}
	return nil
}
