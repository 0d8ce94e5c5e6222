package jules

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/land-surface/dirconf/debug"
)

var log = debug.Log()

// FindNamelists searches root for the one directory holding every namelist
// file of a run and returns it relative to root. A nil fsys searches the
// operating system's filesystem.
func FindNamelists(fsys billy.Filesystem, root string) (string, error) {
	if fsys == nil {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", err
		}
		fsys, root = osfs.New("/"), abs
	}
	root = filepath.Clean(root)

	var found []string
	err := util.Walk(fsys, root, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.Mode()&fs.ModeSymlink != 0 {
			if fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if fi.IsDir() || fi.Name() != Namelists[0]+".nml" {
			return nil
		}
		dir := filepath.Dir(p)
		ok, err := hasAll(fsys, dir)
		if err != nil || !ok {
			return err
		}
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return err
		}
		found = append(found, rel)
		return nil
	})
	if err != nil {
		return "", oops.Wrapf(err, "searching %s", root)
	}
	sort.Strings(found)
	log.WithFields(logrus.Fields{"root": root, "candidates": found}).Debug("namelist search")
	switch len(found) {
	case 0:
		return "", oops.Errorf("%w under %s", ErrNamelistsNotFound, root)
	case 1:
		return found[0], nil
	}
	return "", oops.Errorf("%w under %s: %v", ErrAmbiguousNamelists, root, found)
}

func hasAll(fsys billy.Filesystem, dir string) (bool, error) {
	for _, name := range Namelists {
		_, err := fsys.Stat(fsys.Join(dir, name+".nml"))
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
	return true, nil
}
