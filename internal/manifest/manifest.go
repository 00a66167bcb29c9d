package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

// Directive is one typed entry of a manifest.
type Directive struct {
	Kind Kind
	// Key names the parameter for KindParameter; empty otherwise.
	Key     string
	Payload string
}

// String renders the directive as a Modelfile block.
func (d Directive) String() string {
	switch d.Kind {
	case KindSource:
		return keywordFrom + " " + d.Payload
	case KindAdapter:
		return keywordAdapter + " " + d.Payload
	case KindTemplate:
		return keywordTemplate + " " + tripleQuote + d.Payload + tripleQuote
	case KindSystem:
		return keywordSystem + " " + tripleQuote + d.Payload + tripleQuote
	case KindLicense:
		return keywordLicense + " " + tripleQuote + d.Payload + tripleQuote
	case KindStop:
		return keywordParameter + " " + stopParameter + ` "` + d.Payload + `"`
	case KindParameter:
		return keywordParameter + " " + d.Key + " " + quoteValue(d.Payload)
	default:
		return ""
	}
}

func quoteValue(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}

// Manifest is an ordered sequence of directives.
type Manifest struct {
	directives []Directive
	sealed     bool
}

// New returns an empty manifest.
func New() *Manifest { return &Manifest{} }

var parameterKey = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Add appends a directive. Unknown kinds and payloads that cannot be
// represented in the Modelfile grammar are rejected with a ConfigError.
func (m *Manifest) Add(kind Kind, payload string) error {
	if kind == KindParameter {
		key, value, _ := strings.Cut(strings.TrimSpace(payload), " ")
		return m.AddParameter(key, strings.TrimSpace(value))
	}
	if m.sealed {
		return &ConfigError{Kind: kind, Err: ErrSealed}
	}
	if !kind.Valid() {
		return &ConfigError{Msg: fmt.Sprintf("unknown directive kind %q", kind)}
	}
	d := Directive{Kind: kind, Payload: payload}
	switch {
	case kind == KindSource || kind == KindAdapter:
		d.Payload = strings.TrimSpace(payload)
		if d.Payload == "" {
			return &ConfigError{Kind: kind, Msg: "path is empty"}
		}
		if strings.ContainsAny(d.Payload, "\r\n") {
			return &ConfigError{Kind: kind, Msg: "path contains a newline"}
		}
	case kind.tripleQuoted():
		if strings.Contains(payload, tripleQuote) {
			return &ConfigError{Kind: kind, Msg: `payload contains """`}
		}
	case kind == KindStop:
		if payload == "" {
			return &ConfigError{Kind: kind, Msg: "stop string is empty"}
		}
		if strings.Contains(payload, `"`) {
			return &ConfigError{Kind: kind, Msg: `stop string contains "`}
		}
	}
	m.directives = append(m.directives, d)
	return nil
}

// AddParameter appends a generic PARAMETER directive. The "stop" key is
// recorded as a KindStop directive.
func (m *Manifest) AddParameter(key, value string) error {
	if strings.EqualFold(key, stopParameter) {
		return m.Add(KindStop, unquoteValue(value))
	}
	if m.sealed {
		return &ConfigError{Kind: KindParameter, Err: ErrSealed}
	}
	if !parameterKey.MatchString(key) {
		return &ConfigError{Kind: KindParameter, Msg: fmt.Sprintf("invalid parameter name %q", key)}
	}
	if value == "" {
		return &ConfigError{Kind: KindParameter, Msg: fmt.Sprintf("parameter %s has no value", key)}
	}
	if strings.ContainsAny(value, "\"\r\n") {
		return &ConfigError{Kind: KindParameter, Msg: fmt.Sprintf("parameter %s value contains a quote or newline", key)}
	}
	m.directives = append(m.directives, Directive{Kind: KindParameter, Key: key, Payload: value})
	return nil
}

func unquoteValue(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Directives returns a copy of the directive sequence.
func (m *Manifest) Directives() []Directive {
	return append([]Directive(nil), m.directives...)
}

// Len returns the number of directives.
func (m *Manifest) Len() int { return len(m.directives) }

// Sealed reports whether the manifest has been written.
func (m *Manifest) Sealed() bool { return m.sealed }

// Validate checks directive multiplicities: exactly one source and at most
// one of each singleton kind.
func (m *Manifest) Validate() error {
	counts := make(map[Kind]int, len(kinds))
	for _, d := range m.directives {
		counts[d.Kind]++
	}
	if counts[KindSource] == 0 {
		return &ConfigError{Kind: KindSource, Err: ErrMissingSource}
	}
	for _, k := range kinds {
		if k.singleton() && counts[k] > 1 {
			return &ConfigError{Kind: k, Msg: fmt.Sprintf("%d directives, at most one allowed", counts[k])}
		}
	}
	return nil
}

// Render produces the manifest text: one block per directive in insertion
// order, separated by a single newline and terminated by one newline.
func (m *Manifest) Render() (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, d := range m.directives {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.String())
	}
	out := sb.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}
