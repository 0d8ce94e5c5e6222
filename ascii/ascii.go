// Package ascii reads and writes the plain text tables used for model
// inputs such as driving data, initial conditions and tile fractions.
//
// A file starts with optional comment lines beginning with '#' or '!',
// followed by rows of whitespace separated reals. Rows must all have the
// same number of columns.
package ascii

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/land-surface/dirconf/codec"
)

var (
	ErrParse  = errors.New("ascii parse error")
	ErrFormat = codec.ErrFormat
)

// Table is the decoded form of an ascii input file. Comment holds the
// leading comment lines without their marker.
type Table struct {
	Comment []string
	Rows    [][]float64
}

func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if !slices.Equal(t.Comment, o.Comment) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Rows {
		if !slices.Equal(t.Rows[i], o.Rows[i]) {
			return false
		}
	}
	return true
}

// Columns reports the number of columns, 0 for an empty table.
func (t *Table) Columns() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

func Parse(data []byte) (*Table, error) {
	t := &Table{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	header := true
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if isComment(text) {
			if header {
				t.Comment = append(t.Comment, stripMarker(text))
			}
			continue
		}
		if i := strings.IndexAny(text, "#!"); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if text == "" {
			continue
		}
		header = false
		fields := strings.Fields(text)
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %q is not a number", ErrParse, line, i+1, f)
			}
			row[i] = v
		}
		if n := t.Columns(); n != 0 && n != len(row) {
			return nil, fmt.Errorf("%w: line %d has %d columns, want %d", ErrParse, line, len(row), n)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return t, nil
}

func isComment(text string) bool {
	return strings.HasPrefix(text, "#") || strings.HasPrefix(text, "!")
}

func stripMarker(text string) string {
	text = text[1:]
	return strings.TrimPrefix(text, " ")
}

type Option func(*Codec)

// Precision sets the number of digits written after the decimal point.
// The default is 5.
func Precision(n int) Option {
	return func(c *Codec) {
		c.precision = n
	}
}

// Codec adapts Parse and Table encoding to codec.Codec.
type Codec struct {
	precision int
}

func NewCodec(opts ...Option) *Codec {
	c := &Codec{precision: 5}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) Decode(data []byte) (any, error) {
	return Parse(data)
}

// DecodeJSON reads a table from its JSON form, an object with Comment and
// Rows fields.
func (c *Codec) DecodeJSON(data []byte) (any, error) {
	t := &Table{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("%w: table: %v", ErrFormat, err)
	}
	for i, row := range t.Rows {
		if len(row) != t.Columns() {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrFormat, i, len(row), t.Columns())
		}
	}
	return t, nil
}

func (c *Codec) Encode(v any) ([]byte, error) {
	var t *Table
	switch x := v.(type) {
	case *Table:
		if x == nil {
			return nil, fmt.Errorf("%w: nil table", ErrFormat)
		}
		t = x
	case [][]float64:
		t = &Table{Rows: x}
	default:
		return nil, fmt.Errorf("%w: ascii file must be a table, got %T", ErrFormat, v)
	}
	buf := bytes.NewBuffer(nil)
	for _, line := range t.Comment {
		buf.WriteString("# " + line + "\n")
	}
	for i, row := range t.Rows {
		if len(row) != t.Columns() {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrFormat, i, len(row), t.Columns())
		}
		for j, v := range row {
			if j > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(strconv.FormatFloat(v, 'f', c.precision, 64))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
