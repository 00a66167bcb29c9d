package manifest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Parse reads a Modelfile into a Manifest. Keywords are case-insensitive,
// '#' starts a comment line, and values may be bare (rest of line),
// "quoted" or """triple quoted""" (both quoted forms may span lines).
// Multiplicities are not checked here; Render reports them.
func Parse(r io.Reader) (*Manifest, error) {
	tr := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	b, err := io.ReadAll(transform.NewReader(r, tr))
	if err != nil {
		return nil, err
	}
	p := &modelfileParser{src: strings.ReplaceAll(string(b), "\r\n", "\n"), line: 1}
	m := New()
	for {
		p.skipBlank()
		if p.eof() {
			return m, nil
		}
		if p.peek() == '#' {
			p.skipLine()
			continue
		}
		start := p.line
		if err := p.instruction(m); err != nil {
			if pe, ok := err.(*ParseError); ok {
				return nil, pe
			}
			return nil, &ParseError{LineNumber: start, Msg: err.Error(), Err: err}
		}
	}
}

// ParseFile opens path and parses it as a Modelfile.
func ParseFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

type modelfileParser struct {
	src  string
	pos  int
	line int
}

func (p *modelfileParser) eof() bool  { return p.pos >= len(p.src) }
func (p *modelfileParser) peek() byte { return p.src[p.pos] }

func (p *modelfileParser) advance(n int) {
	p.line += strings.Count(p.src[p.pos:p.pos+n], "\n")
	p.pos += n
}

func (p *modelfileParser) skipBlank() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\r', '\n':
			p.advance(1)
		default:
			return
		}
	}
}

func (p *modelfileParser) skipSpaces() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

func (p *modelfileParser) skipLine() {
	idx := strings.IndexByte(p.src[p.pos:], '\n')
	if idx < 0 {
		p.pos = len(p.src)
		return
	}
	p.advance(idx + 1)
}

func (p *modelfileParser) word(accept func(byte) bool) string {
	start := p.pos
	for !p.eof() && accept(p.peek()) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *modelfileParser) errorf(format string, a ...any) error {
	return &ParseError{LineNumber: p.line, Msg: fmt.Sprintf(format, a...)}
}

func (p *modelfileParser) instruction(m *Manifest) error {
	name := strings.ToUpper(p.word(isAlpha))
	if name == "" {
		return p.errorf("expected an instruction")
	}
	if p.eof() || (p.peek() != ' ' && p.peek() != '\t') {
		return p.errorf("instruction %s has no value", name)
	}
	p.skipSpaces()
	var key string
	if name == keywordParameter {
		key = p.word(isParameterRune)
		if key == "" || p.eof() || (p.peek() != ' ' && p.peek() != '\t') {
			return p.errorf("malformed PARAMETER")
		}
		p.skipSpaces()
	}
	value, err := p.value()
	if err != nil {
		return err
	}
	switch name {
	case keywordFrom:
		return m.Add(KindSource, value)
	case keywordAdapter:
		return m.Add(KindAdapter, value)
	case keywordTemplate:
		return m.Add(KindTemplate, value)
	case keywordSystem:
		return m.Add(KindSystem, value)
	case keywordLicense:
		return m.Add(KindLicense, value)
	case keywordParameter:
		if strings.EqualFold(key, stopParameter) {
			return m.Add(KindStop, value)
		}
		return m.AddParameter(key, value)
	default:
		return p.errorf("unsupported instruction %q", name)
	}
}

func (p *modelfileParser) value() (string, error) {
	rest := p.src[p.pos:]
	switch {
	case strings.HasPrefix(rest, tripleQuote):
		end := strings.Index(rest[3:], tripleQuote)
		if end < 0 {
			return "", p.errorf("unterminated %s", tripleQuote)
		}
		// A payload ending in quotes renders as a run longer than three;
		// the terminator is the last """ of that run.
		end += 3
		for end+3 < len(rest) && rest[end+3] == '"' {
			end++
		}
		v := rest[3:end]
		p.advance(end + 3)
		return v, p.endOfLine()
	case strings.HasPrefix(rest, `"`):
		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			return "", p.errorf("unterminated quote")
		}
		v := rest[1 : 1+end]
		p.advance(1 + end + 1)
		return v, p.endOfLine()
	default:
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			idx = len(rest)
		}
		v := strings.TrimSpace(rest[:idx])
		p.advance(idx)
		return v, nil
	}
}

func (p *modelfileParser) endOfLine() error {
	p.skipSpaces()
	if p.eof() || p.peek() == '\n' {
		return nil
	}
	return p.errorf("unexpected text after closing quote")
}

func isAlpha(r byte) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isParameterRune(r byte) bool {
	return isAlpha(r) || r >= '0' && r <= '9' || r == '_'
}
