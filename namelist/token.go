package namelist

import (
	"fmt"
	"strings"
)

type TokenType int

const (
	TGroup TokenType = iota
	TEnd
	TWord
	TString
	TEquals
	TComma
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TGroup:  "TGroup",
		TEnd:    "TEnd",
		TWord:   "TWord",
		TString: "TString",
		TEquals: "TEquals",
		TComma:  "TComma",
	}[t]
}

type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a lexical element. For TString, Text holds the unquoted value;
// for TGroup, the group name.
type Token struct {
	Type TokenType
	Pos  Pos
	Text string
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %s", t.Type, t.Text, t.Pos)
}

type tokenizer struct {
	src   []byte
	i     int
	pos   Pos
	group string
	toks  []Token
}

// Tokenize splits a namelist file into tokens. Text outside groups and
// comments are dropped.
func Tokenize(src []byte) ([]Token, error) {
	t := &tokenizer{src: src, pos: Pos{Line: 1, Col: 1}}
	for t.i < len(t.src) {
		var err error
		if t.group == "" {
			err = t.outside()
		} else {
			err = t.inside()
		}
		if err != nil {
			return nil, err
		}
	}
	if t.group != "" {
		return nil, fmt.Errorf("%w: group %q is not terminated", ErrParse, t.group)
	}
	return t.toks, nil
}

func (t *tokenizer) outside() error {
	switch t.src[t.i] {
	case '!':
		t.skipLine()
	case '&':
		at := t.pos
		name := t.name()
		switch strings.ToLower(name) {
		case "":
			return t.errorf(at, "missing group name after &")
		case "end":
			return t.errorf(at, "&end outside a group")
		}
		t.group = name
		t.emit(TGroup, at, name)
	default:
		t.advance()
	}
	return nil
}

func (t *tokenizer) inside() error {
	c := t.src[t.i]
	at := t.pos
	switch c {
	case ' ', '\t', '\r', '\n':
		t.advance()
	case '!':
		t.skipLine()
	case '/':
		t.advance()
		t.emit(TEnd, at, "/")
		t.group = ""
	case '&':
		name := t.name()
		if strings.ToLower(name) != "end" {
			return t.errorf(at, "group %q starts before group %q ends", name, t.group)
		}
		t.emit(TEnd, at, "&"+name)
		t.group = ""
	case '=':
		t.advance()
		t.emit(TEquals, at, "=")
	case ',':
		t.advance()
		t.emit(TComma, at, ",")
	case '\'', '"':
		s, err := t.quoted()
		if err != nil {
			return err
		}
		t.emit(TString, at, s)
	default:
		w, err := t.word()
		if err != nil {
			return err
		}
		t.emit(TWord, at, w)
	}
	return nil
}

func (t *tokenizer) emit(tt TokenType, at Pos, text string) {
	t.toks = append(t.toks, Token{Type: tt, Pos: at, Text: text})
}

func (t *tokenizer) errorf(at Pos, format string, args ...any) error {
	return fmt.Errorf("%w at %s: %s", ErrParse, at, fmt.Sprintf(format, args...))
}

func (t *tokenizer) advance() {
	if t.src[t.i] == '\n' {
		t.pos.Line++
		t.pos.Col = 1
	} else {
		t.pos.Col++
	}
	t.i++
}

func (t *tokenizer) skipLine() {
	for t.i < len(t.src) && t.src[t.i] != '\n' {
		t.advance()
	}
}

// name reads the identifier following '&'.
func (t *tokenizer) name() string {
	t.advance()
	start := t.i
	for t.i < len(t.src) && isNameByte(t.src[t.i]) {
		t.advance()
	}
	return string(t.src[start:t.i])
}

func isNameByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// quoted reads a string delimited by the current quote character, where a
// doubled delimiter stands for one.
func (t *tokenizer) quoted() (string, error) {
	at := t.pos
	q := t.src[t.i]
	t.advance()
	buf := &strings.Builder{}
	for t.i < len(t.src) {
		c := t.src[t.i]
		if c == q {
			if t.i+1 < len(t.src) && t.src[t.i+1] == q {
				buf.WriteByte(q)
				t.advance()
				t.advance()
				continue
			}
			t.advance()
			return buf.String(), nil
		}
		buf.WriteByte(c)
		t.advance()
	}
	return "", t.errorf(at, "unterminated string")
}

// word reads an unquoted run. Parenthesised parts, as in x(1, 2), may
// contain separators.
func (t *tokenizer) word() (string, error) {
	at := t.pos
	start := t.i
	depth := 0
	for t.i < len(t.src) {
		c := t.src[t.i]
		if depth > 0 {
			switch c {
			case '(':
				depth++
			case ')':
				depth--
			case '\n':
				return "", t.errorf(at, "unbalanced parenthesis")
			}
			t.advance()
			continue
		}
		switch c {
		case ' ', '\t', '\r', '\n', ',', '=', '/', '!', '\'', '"', '&':
			return string(t.src[start:t.i]), nil
		case '(':
			depth++
		}
		t.advance()
	}
	if depth > 0 {
		return "", t.errorf(at, "unbalanced parenthesis")
	}
	return string(t.src[start:t.i]), nil
}
