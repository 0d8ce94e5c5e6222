package dirconf

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/util"
	"github.com/mattn/go-isatty"
	"github.com/samber/oops"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/land-surface/dirconf/tree"
)

type Change int

const (
	Unchanged Change = iota
	Added
	Modified
)

func (c Change) String() string {
	switch c {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Modified:
		return "modified"
	}
	return "unknown"
}

// FileDiff compares one file a write would produce with what is on disk.
type FileDiff struct {
	Path    string
	Address tree.Address
	Change  Change
	// Lines holds a line level diff for Modified files.
	Lines []diffpatch.Diff
}

// Diff reports, for every file Write(root) would produce, whether it would
// be added, modified or left unchanged. root "" means the origin. Diff
// never writes.
func (c *Config) Diff(root string, opts ...WriteOption) ([]FileDiff, error) {
	o := &writeOpts{fs: c.fs}
	for _, opt := range opts {
		opt(o)
	}
	if root == "" {
		if c.origin == "" {
			return nil, oops.Errorf("%w: no directory to compare with", ErrDetachedTree)
		}
		root = c.origin
	}
	fsys, dir, err := fsRoot(o.fs, root)
	if err != nil {
		return nil, oops.Wrapf(err, "diffing %q", root)
	}
	p, err := c.plan(dir)
	if err != nil {
		return nil, err
	}
	dmp := diffpatch.New()
	res := make([]FileDiff, 0, len(p.files))
	for _, f := range p.files {
		fd := FileDiff{Path: f.path, Address: f.at}
		old, err := util.ReadFile(fsys, f.path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			fd.Change = Added
		case err != nil:
			return nil, oops.Wrapf(err, "reading %s", f.path)
		case string(old) == string(f.data):
			fd.Change = Unchanged
		default:
			fd.Change = Modified
			a, b, lines := dmp.DiffLinesToChars(string(old), string(f.data))
			fd.Lines = dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
		}
		res = append(res, fd)
	}
	return res, nil
}

// Changed filters out unchanged files.
func Changed(diffs []FileDiff) []FileDiff {
	var res []FileDiff
	for _, d := range diffs {
		if d.Change != Unchanged {
			res = append(res, d)
		}
	}
	return res
}

// Removed and Inserted return the lines a modification takes out and puts
// in.
func (d FileDiff) Removed() []string {
	return d.lines(diffpatch.DiffDelete)
}

func (d FileDiff) Inserted() []string {
	return d.lines(diffpatch.DiffInsert)
}

func (d FileDiff) lines(op diffpatch.Operation) []string {
	var res []string
	for _, l := range d.Lines {
		if l.Type == op {
			res = append(res, splitLines(l.Text)...)
		}
	}
	return res
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

type diffColors struct {
	header, removed, inserted func(string, ...any) string
}

func newDiffColors(on bool) *diffColors {
	mk := func(attrs ...color.Attribute) func(string, ...any) string {
		c := color.New(attrs...)
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintfFunc()
	}
	return &diffColors{
		header:   mk(color.Bold),
		removed:  mk(color.FgRed),
		inserted: mk(color.FgGreen),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// FormatDiffs writes the added and modified files of diffs, with removed
// lines prefixed by '-' and inserted lines by '+'. Output is coloured when
// w is a terminal.
func FormatDiffs(w io.Writer, diffs []FileDiff) error {
	colors := newDiffColors(IsTerminal(w))
	buf := &strings.Builder{}
	for _, d := range Changed(diffs) {
		buf.WriteString(colors.header("%s %s (%s)", d.Change, d.Path, d.Address) + "\n")
		for _, l := range d.Removed() {
			buf.WriteString(colors.removed("-%s", l) + "\n")
		}
		for _, l := range d.Inserted() {
			buf.WriteString(colors.inserted("+%s", l) + "\n")
		}
	}
	_, err := fmt.Fprint(w, buf.String())
	return err
}
