package manifest

import (
	"fmt"
	"strings"
)

// Kind identifies the role of a directive within a manifest.
type Kind string

const (
	KindSource    Kind = "from"
	KindTemplate  Kind = "template"
	KindStop      Kind = "stop"
	KindSystem    Kind = "system"
	KindAdapter   Kind = "adapter"
	KindLicense   Kind = "license"
	KindParameter Kind = "parameter"
)

// Modelfile keywords.
const (
	keywordFrom      = "FROM"
	keywordTemplate  = "TEMPLATE"
	keywordParameter = "PARAMETER"
	keywordSystem    = "SYSTEM"
	keywordAdapter   = "ADAPTER"
	keywordLicense   = "LICENSE"

	stopParameter = "stop"
	tripleQuote   = `"""`
)

var kinds = []Kind{KindSource, KindTemplate, KindStop, KindSystem, KindAdapter, KindLicense, KindParameter}

// Kinds returns every supported directive kind.
func Kinds() []Kind { return append([]Kind(nil), kinds...) }

// ParseKind maps a user-supplied name (case-insensitive) to a Kind.
// "source" is accepted as an alias for "from".
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "source":
		return KindSource, nil
	case KindSource, KindTemplate, KindStop, KindSystem, KindAdapter, KindLicense, KindParameter:
		return k, nil
	default:
		return "", &ConfigError{Msg: fmt.Sprintf("unknown directive kind %q", s)}
	}
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}
	return false
}

// singleton reports whether at most one directive of this kind may appear.
func (k Kind) singleton() bool {
	switch k {
	case KindSource, KindTemplate, KindSystem, KindAdapter, KindLicense:
		return true
	}
	return false
}

// tripleQuoted reports whether payloads of this kind are wrapped in """.
func (k Kind) tripleQuoted() bool {
	return k == KindTemplate || k == KindSystem || k == KindLicense
}
