package dirconf

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/land-surface/dirconf/schema"
)

type ReadOption func(*readOpts)

type readOpts struct {
	fs  billy.Filesystem
	reg *schema.Registry
}

// ReadFS reads from fsys instead of the operating system's filesystem.
func ReadFS(fsys billy.Filesystem) ReadOption {
	return func(o *readOpts) { o.fs = fsys }
}

// ReadRegistry sets the codecs and handlers used to resolve declarations.
func ReadRegistry(reg *schema.Registry) ReadOption {
	return func(o *readOpts) { o.reg = reg }
}

func newReadOpts(opts []ReadOption) *readOpts {
	o := &readOpts{}
	for _, opt := range opts {
		opt(o)
	}
	if o.reg == nil {
		o.reg = schema.DefaultRegistry()
	}
	return o
}

type WriteOption func(*writeOpts)

type writeOpts struct {
	fs        billy.Filesystem
	overwrite bool
}

// Overwrite allows a write to replace existing files.
func Overwrite(v bool) WriteOption {
	return func(o *writeOpts) { o.overwrite = v }
}

// WriteFS writes to fsys instead of the filesystem the tree was read from.
func WriteFS(fsys billy.Filesystem) WriteOption {
	return func(o *writeOpts) { o.fs = fsys }
}

// fsRoot returns the filesystem to use and root expressed within it. Paths
// on the operating system are made absolute so that a tree's origin does
// not depend on the working directory.
func fsRoot(fsys billy.Filesystem, root string) (billy.Filesystem, string, error) {
	if fsys != nil {
		return fsys, filepath.Clean(root), nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, "", err
	}
	return osfs.New("/"), abs, nil
}
