/*
Package vcfcheck is a streaming validator for VCF (Variant Call Format) v4.1 files.

Consists of subpackages:
  - meta: meta-information entries and the registry of declared identifiers;
  - scanner: byte-level state machine recognizing VCF grammar with per-line error recovery;
  - validator: parsing session feeding chunks to the scanner and running semantic checks;
  - source: feeding readers and byte slices to a session in chunks;
  - cmd/vcfcheck: console utility validating files and reporting diagnostics.

Typical usage is:

	s := validator.New(validator.WithCheckEvidence(true))
	s.Submit(chunk1)
	s.Submit(chunk2)
	s.Finish()
	if !s.IsValid() {
		for _, e := range s.Errors() {
			fmt.Println(e)
		}
	}

The validator never stops at the first problem: every malformed line is reported
and scanning resumes at the next line.
*/
package vcfcheck

import (
	"fmt"
)

// Error classes, each class contains up to 99 error codes:
const (
	SyntaxErrors   = 101 // used by scanner
	SemanticErrors = 201 // used by meta and validator
)

// Category names the section or field a diagnostic belongs to.
type Category string

// Syntax categories, one per section or record field:
const (
	CatFileformat   Category = "fileformat"
	CatMeta         Category = "meta"
	CatMetaALT      Category = "meta-ALT"
	CatMetaFILTER   Category = "meta-FILTER"
	CatMetaFORMAT   Category = "meta-FORMAT"
	CatMetaINFO     Category = "meta-INFO"
	CatHeader       Category = "header"
	CatChrom        Category = "chrom"
	CatPos          Category = "pos"
	CatID           Category = "id"
	CatReference    Category = "reference"
	CatAlternate    Category = "alternate"
	CatQuality      Category = "quality"
	CatFilter       Category = "filter"
	CatInfo         Category = "info"
	CatFormat       Category = "format"
	CatSampleFormat Category = "sample-format"
)

// Semantic categories:
const (
	CatUndeclared Category = "undeclared-identifier"
	CatNoEvidence Category = "no-evidence"
)

var syntaxCategories = []Category{
	CatFileformat, CatMeta, CatMetaALT, CatMetaFILTER, CatMetaFORMAT, CatMetaINFO, CatHeader,
	CatChrom, CatPos, CatID, CatReference, CatAlternate, CatQuality, CatFilter, CatInfo,
	CatFormat, CatSampleFormat,
}

var semanticCategories = []Category{CatUndeclared, CatNoEvidence}

// Code returns numeric error code for the category or 0 for unknown categories.
func (c Category) Code() int {
	for i, sc := range syntaxCategories {
		if sc == c {
			return SyntaxErrors + i
		}
	}
	for i, sc := range semanticCategories {
		if sc == c {
			return SemanticErrors + i
		}
	}
	return 0
}

// IsSyntax tells whether the category describes a grammar violation.
func (c Category) IsSyntax() bool {
	code := c.Code()
	return code >= SyntaxErrors && code < SemanticErrors
}

// Categories returns all known categories, syntax ones first.
func Categories() []Category {
	result := make([]Category, 0, len(syntaxCategories)+len(semanticCategories))
	result = append(result, syntaxCategories...)
	return append(result, semanticCategories...)
}

// Severity distinguishes errors (making a file invalid) from warnings.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Error is the diagnostic type used by vcfcheck subpackages.
type Error struct {
	// Code contains non-zero error code derived from Category.
	Code int

	// Category contains the section or field name.
	Category Category

	// Severity is either SeverityError or SeverityWarning.
	Severity Severity

	// Message contains human-readable description without position information.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains 1-based line number in source file or 0.
	Line int

	// Col contains 1-based column (field) number or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// scanner.Scanner and validator.Session implement this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new error diagnostic.
func NewError(cat Category, msg, name string, line, col int) *Error {
	return &Error{
		Code:       cat.Code(),
		Category:   cat,
		Severity:   SeverityError,
		Message:    msg,
		SourceName: name,
		Line:       line,
		Col:        col,
	}
}

// NewWarning creates new warning diagnostic.
func NewWarning(cat Category, msg, name string, line, col int) *Error {
	e := NewError(cat, msg, name, line, col)
	e.Severity = SeverityWarning
	return e
}

// Error returns the message prefixed with source name, line, and category.
func (e *Error) Error() string {
	prefix := ""
	if e.SourceName != "" {
		prefix = e.SourceName + ":"
	}
	if e.Line != 0 {
		prefix += fmt.Sprintf("%d:", e.Line)
	}
	if prefix != "" {
		prefix += " "
	}
	return fmt.Sprintf("%s%s %s: %s", prefix, e.Category, e.Severity, e.Message)
}

// IsWarning tells whether the diagnostic does not affect validity.
func (e *Error) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// FormatErrorPos creates error diagnostic with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, cat Category, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(cat, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// FormatWarningPos is FormatErrorPos for warnings.
func FormatWarningPos(pos SourcePos, cat Category, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewWarning(cat, msg, pos.SourceName(), pos.Line(), pos.Col())
}
