package namelist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/land-surface/dirconf/tree"
)

// Parse decodes a namelist file.
func Parse(src []byte) (*tree.Map, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	res := tree.NewMap()
	for p.i < len(p.toks) {
		tok := p.next()
		if tok.Type != TGroup {
			return nil, p.errorf(tok, "expected group")
		}
		g, err := p.group()
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", tok.Text, err)
		}
		addGroup(res, tok.Text, g)
	}
	return res, nil
}

func addGroup(res *tree.Map, name string, g *tree.Map) {
	prev, ok := res.Get(name)
	if !ok {
		res.Set(name, g)
		return
	}
	switch x := prev.(type) {
	case *tree.Map:
		res.Set(name, []any{x, g})
	case []any:
		res.Set(name, append(x, g))
	}
}

type parser struct {
	toks []Token
	i    int
}

func (p *parser) next() Token {
	tok := p.toks[p.i]
	p.i++
	return tok
}

func (p *parser) peek(off int) (Token, bool) {
	if p.i+off >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[p.i+off], true
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return fmt.Errorf("%w at %s: %s", ErrParse, tok.Pos, fmt.Sprintf(format, args...))
}

// atKey reports whether the next tokens are "name =".
func (p *parser) atKey() bool {
	tok, ok := p.peek(0)
	if !ok || tok.Type != TWord {
		return false
	}
	eq, ok := p.peek(1)
	return ok && eq.Type == TEquals
}

func (p *parser) group() (*tree.Map, error) {
	g := tree.NewMap()
	for p.i < len(p.toks) {
		tok, _ := p.peek(0)
		if tok.Type == TEnd {
			p.i++
			return g, nil
		}
		if !p.atKey() {
			return nil, p.errorf(tok, "expected parameter name, got %s", tok.Type)
		}
		key := p.next().Text
		p.i++
		v, err := p.values()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		g.Set(key, v)
	}
	return nil, fmt.Errorf("%w: missing group terminator", ErrParse)
}

// values reads the values of one parameter up to the next parameter name or
// the group terminator.
func (p *parser) values() (any, error) {
	var items []any
	sep := true
	for p.i < len(p.toks) && !p.atKey() {
		tok, _ := p.peek(0)
		switch tok.Type {
		case TEnd:
			return collapse(items), nil
		case TComma:
			p.i++
			if sep {
				items = append(items, nil)
			}
			sep = true
		case TString:
			p.i++
			items = append(items, tok.Text)
			sep = false
		case TWord:
			p.i++
			vs, err := p.word(tok)
			if err != nil {
				return nil, err
			}
			items = append(items, vs...)
			sep = false
		default:
			return nil, p.errorf(tok, "unexpected %s", tok.Type)
		}
	}
	return collapse(items), nil
}

func collapse(items []any) any {
	switch len(items) {
	case 0:
		return nil
	case 1:
		return items[0]
	}
	return items
}

// word decodes an unquoted value, expanding a repeat count.
func (p *parser) word(tok Token) ([]any, error) {
	n, rest, ok := splitRepeat(tok.Text)
	if !ok {
		v, err := scalar(tok.Text)
		if err != nil {
			return nil, p.errorf(tok, "%v", err)
		}
		return []any{v}, nil
	}
	var v any
	switch {
	case rest != "":
		x, err := scalar(rest)
		if err != nil {
			return nil, p.errorf(tok, "%v", err)
		}
		v = x
	default:
		if nt, ok := p.peek(0); ok && nt.Type == TString {
			p.i++
			v = nt.Text
		}
	}
	res := make([]any, n)
	for i := range res {
		res[i] = v
	}
	return res, nil
}

func splitRepeat(w string) (int, string, bool) {
	star := strings.IndexByte(w, '*')
	if star <= 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(w[:star])
	if err != nil || n < 1 {
		return 0, "", false
	}
	return n, w[star+1:], true
}

var realRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eEdD][+-]?\d+)?$`)

func scalar(w string) (any, error) {
	if b, ok := logical(w); ok {
		return b, nil
	}
	if i, err := strconv.ParseInt(w, 10, 64); err == nil {
		return i, nil
	}
	if realRe.MatchString(w) {
		f, err := strconv.ParseFloat(strings.Map(dToE, w), 64)
		if err != nil {
			return nil, fmt.Errorf("bad real %q: %w", w, err)
		}
		return f, nil
	}
	if strings.HasPrefix(w, "(") {
		return nil, fmt.Errorf("unsupported value %q", w)
	}
	return w, nil
}

func dToE(r rune) rune {
	if r == 'd' || r == 'D' {
		return 'e'
	}
	return r
}

func logical(w string) (bool, bool) {
	switch strings.ToLower(w) {
	case ".true.", ".t.", ".t", "t", "true", ".true":
		return true, true
	case ".false.", ".f.", ".f", "f", "false", ".false":
		return false, true
	}
	return false, false
}
