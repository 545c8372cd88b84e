// Package meta defines meta-information entries and the registry of declared identifiers.
package meta

import (
	"github.com/ava12/vcfcheck/internal/bmap"
)

// Kind is the kind of meta-information line, determined by its key.
type Kind int

const (
	// Generic is any key not listed below, e.g. ##fileDate or ##source.
	Generic Kind = iota
	ALT
	FILTER
	FORMAT
	INFO
	Contig
	Sample
	Pedigree

	numKinds = iota
)

var kindNames = [numKinds]string{"", "ALT", "FILTER", "FORMAT", "INFO", "contig", "SAMPLE", "PEDIGREE"}

var kindsByName = bmap.FromStrings(map[string]Kind{
	"ALT": ALT, "FILTER": FILTER, "FORMAT": FORMAT, "INFO": INFO,
	"contig": Contig, "SAMPLE": Sample, "PEDIGREE": Pedigree,
})

// String returns the meta key for the kind or "generic".
func (k Kind) String() string {
	if k == Generic {
		return "generic"
	}
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// KindOf maps meta key (without leading ##) to its kind. Matching is case-sensitive.
func KindOf(key []byte) Kind {
	k, _ := kindsByName.Get(key)
	return k
}

// ParseKind maps kind name to kind, the second result is false for generic keys.
func ParseKind(name string) (Kind, bool) {
	return kindsByName.GetString(name)
}

// Attr is a single KEY=VALUE pair of a structured entry, values are unquoted.
type Attr struct {
	Key, Value string
}

// Entry is a complete meta-information line.
type Entry struct {
	Kind Kind

	// Key is the text between ## and =.
	Key string

	// ID contains value of ID attribute for structured entries or empty string.
	ID string

	// Value contains the whole value for simple entries.
	Value string

	// Attrs contains attributes of structured entries in source order.
	Attrs []Attr

	Structured bool

	// Line is the source line number of the entry.
	Line int
}

// Attr returns value of the first attribute with given key.
func (e *Entry) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// RequiredKeys lists attributes every structured entry of the kind must have.
func RequiredKeys(k Kind) []string {
	switch k {
	case ALT, FILTER:
		return []string{"ID", "Description"}
	case FORMAT, INFO:
		return []string{"ID", "Number", "Type", "Description"}
	case Contig, Sample:
		return []string{"ID"}
	default:
		return nil
	}
}

// MustBeStructured tells whether simple ##KEY=value form is an error for the kind.
func MustBeStructured(k Kind) bool {
	return k >= ALT && k <= INFO
}

// ValidNumber checks Number attribute value: a non-negative integer, ".", "A", "G", or "R".
func ValidNumber(v string) bool {
	switch v {
	case ".", "A", "G", "R":
		return true
	case "":
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}

// ValidType checks Type attribute value for FORMAT and INFO entries.
// Flag is allowed for INFO only.
func ValidType(k Kind, v string) bool {
	switch v {
	case "Integer", "Float", "Character", "String":
		return true
	case "Flag":
		return k == INFO
	}
	return false
}
