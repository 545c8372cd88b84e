package scanner

import (
	"github.com/ava12/vcfcheck"
	"github.com/ava12/vcfcheck/meta"
)

// Context gives policies access to current scanning position.
// Scanner implements this interface.
type Context interface {
	vcfcheck.SourcePos
	Section() Section
}

// ParsePolicy is notified at the start of every token.
// offset is the index of the first token byte in the chunk being scanned.
type ParsePolicy interface {
	TokenBegin(offset int)
}

// ErrorPolicy receives syntax errors, exactly one per malformed line.
// section is the section the error occurred in (never a skip section),
// message is never empty.
type ErrorPolicy interface {
	SectionError(ctx Context, section Section, cat vcfcheck.Category, message string)
}

// ParsePolicyFunc adapts a function to ParsePolicy.
type ParsePolicyFunc func(offset int)

func (f ParsePolicyFunc) TokenBegin(offset int) {
	f(offset)
}

// ErrorPolicyFunc adapts a function to ErrorPolicy.
type ErrorPolicyFunc func(ctx Context, section Section, cat vcfcheck.Category, message string)

func (f ErrorPolicyFunc) SectionError(ctx Context, section Section, cat vcfcheck.Category, message string) {
	f(ctx, section, cat, message)
}

type nopParsePolicy struct{}

func (nopParsePolicy) TokenBegin(int) {}

// Collector is the ErrorPolicy accumulating diagnostics.
type Collector struct {
	Errors []*vcfcheck.Error
}

func (c *Collector) SectionError(ctx Context, _ Section, cat vcfcheck.Category, message string) {
	c.Errors = append(c.Errors, vcfcheck.FormatErrorPos(ctx, cat, message))
}

// Field identifies record columns.
type Field int

const (
	FieldChrom Field = iota
	FieldPos
	FieldID
	FieldRef
	FieldAlt
	FieldQual
	FieldFilter
	FieldInfo
	FieldFormat
	FieldSample
)

var fieldNames = []string{"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT", "sample"}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// Handler receives recognized values. Byte slices are valid only during the call.
type Handler interface {
	// Fileformat is called with the value of ##fileformat line.
	Fileformat(version []byte)

	// MetaEntry is called for every complete meta-information line.
	MetaEntry(e *meta.Entry)

	// Samples is called once with sample names when the header line is complete.
	Samples(names []string)

	// Field is called for every syntactically valid record column.
	Field(f Field, text []byte)

	// Reference is called for every identifier a record refers to:
	// FILTER names, INFO keys, FORMAT keys, and symbolic ALT ids.
	// Missing values (".") are not reported.
	Reference(kind meta.Kind, id []byte)

	// RecordEnd is called after the last column of a syntactically valid record.
	RecordEnd()
}

// NopHandler ignores everything, it may be embedded to implement a part of Handler.
type NopHandler struct{}

func (NopHandler) Fileformat([]byte)           {}
func (NopHandler) MetaEntry(*meta.Entry)       {}
func (NopHandler) Samples([]string)            {}
func (NopHandler) Field(Field, []byte)         {}
func (NopHandler) Reference(meta.Kind, []byte) {}
func (NopHandler) RecordEnd()                  {}
