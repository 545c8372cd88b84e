// Package validator defines parsing session: the entry point of VCF validation.
//
// Session feeds input chunks to the scanner, registers meta-information entries,
// checks that identifiers used in records were declared, and runs whole-file checks
// when input ends.
package validator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ava12/vcfcheck"
	"github.com/ava12/vcfcheck/meta"
	"github.com/ava12/vcfcheck/scanner"
)

// SupportedVersion is the fileformat version the grammar describes.
const SupportedVersion = "VCFv4.1"

// Option configures a Session.
type Option func(s *Session)

// WithCheckEvidence enables whole-file evidence checks run by Finish.
func WithCheckEvidence(enable bool) Option {
	return func(s *Session) {
		s.checkEvidence = enable
	}
}

// WithCheckContigs requires every CHROM value to be declared by a contig entry.
func WithCheckContigs(enable bool) Option {
	return func(s *Session) {
		s.checkContigs = enable
	}
}

// WithSourceName sets source name used in diagnostics.
func WithSourceName(name string) Option {
	return func(s *Session) {
		s.name = name
	}
}

// WithErrorPolicy sets policy notified of every error after the session records it.
func WithErrorPolicy(p scanner.ErrorPolicy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

// WithParsePolicy sets policy notified of token starts.
func WithParsePolicy(p scanner.ParsePolicy) Option {
	return func(s *Session) {
		s.parse = p
	}
}

// WithHandler sets handler receiving recognized values, e.g. a record builder.
func WithHandler(h scanner.Handler) Option {
	return func(s *Session) {
		s.handler = h
	}
}

// WithLogger sets logger for debug messages. Session logs nothing by default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithMaxErrors limits number of stored errors, 0 means no limit.
// Scanning continues after the limit is reached, extra errors are only counted.
func WithMaxErrors(n int) Option {
	return func(s *Session) {
		s.maxErrors = n
	}
}

// Session validates a single VCF file. Session is not safe for concurrent use.
type Session struct {
	name          string
	checkEvidence bool
	checkContigs  bool
	maxErrors     int
	policy        scanner.ErrorPolicy
	parse         scanner.ParsePolicy
	handler       scanner.Handler
	logger        *slog.Logger

	scanner  *scanner.Scanner
	registry *meta.Registry
	errors   []*vcfcheck.Error
	warnings []*vcfcheck.Error
	dropped  int
	version  string
	finished bool
	section  scanner.Section
}

// New creates session ready to accept the first chunk.
func New(opts ...Option) *Session {
	s := &Session{
		registry: meta.NewRegistry(),
		handler:  scanner.NopHandler{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.scanner = scanner.New(s.name, &sessionHandler{s}, s.parse, scanner.ErrorPolicyFunc(s.sectionError))
	s.section = s.scanner.Section()
	return s
}

// Submit feeds next chunk. Chunks may be of any size and split the input at any byte.
// Calls after Finish are ignored.
func (s *Session) Submit(chunk []byte) {
	if s.finished {
		return
	}
	s.scanner.Scan(chunk)
	s.traceSection()
}

// Finish signals end of input and runs whole-file checks. Subsequent calls are ignored.
func (s *Session) Finish() {
	if s.finished {
		return
	}

	s.finished = true
	s.scanner.End()
	s.traceSection()
	if s.checkEvidence {
		for _, e := range s.registry.ValidateAdditionalChecks(s) {
			s.addError(e)
		}
	}

	if s.logger != nil {
		s.logger.Debug("validation finished",
			slog.String("source", s.name),
			slog.Int("lines", s.Line()-1),
			slog.Int("records", s.Records()),
			slog.Int("errors", len(s.errors)+s.dropped),
			slog.Int("warnings", len(s.warnings)),
			slog.Bool("valid", s.IsValid()))
	}
}

func (s *Session) traceSection() {
	section := s.scanner.Section()
	if section == s.section {
		return
	}

	if s.logger != nil && s.logger.Enabled(context.Background(), slog.LevelDebug) {
		s.logger.Debug("section changed",
			slog.String("source", s.name),
			slog.Int("line", s.Line()),
			slog.String("from", s.section.String()),
			slog.String("to", section.String()))
	}
	s.section = section
}

func (s *Session) sectionError(ctx scanner.Context, section scanner.Section, cat vcfcheck.Category, message string) {
	s.addError(vcfcheck.FormatErrorPos(ctx, cat, message))
	if s.policy != nil {
		s.policy.SectionError(ctx, section, cat, message)
	}
}

func (s *Session) semanticError(cat vcfcheck.Category, message string, params ...any) {
	e := vcfcheck.FormatErrorPos(s, cat, message, params...)
	s.addError(e)
	if s.policy != nil {
		s.policy.SectionError(s, s.scanner.Section(), cat, e.Message)
	}
}

func (s *Session) addError(e *vcfcheck.Error) {
	if s.maxErrors > 0 && len(s.errors) >= s.maxErrors {
		s.dropped++
		return
	}
	s.errors = append(s.errors, e)
}

func (s *Session) warning(cat vcfcheck.Category, message string, params ...any) {
	s.warnings = append(s.warnings, vcfcheck.FormatWarningPos(s, cat, message, params...))
}

func (s *Session) SourceName() string {
	return s.name
}

// Line returns current 1-based line number. After Finish of a newline-terminated file
// it is the number of lines + 1.
func (s *Session) Line() int {
	return s.scanner.Line()
}

// Col returns current 1-based column number.
func (s *Session) Col() int {
	return s.scanner.Col()
}

// Section returns active scanner section.
func (s *Session) Section() scanner.Section {
	return s.scanner.Section()
}

// IsValid tells whether the input seen so far contains no errors.
func (s *Session) IsValid() bool {
	return s.scanner.IsValid() && len(s.errors) == 0 && s.dropped == 0
}

// Errors returns recorded errors in order of detection.
func (s *Session) Errors() []*vcfcheck.Error {
	return s.errors
}

// Warnings returns recorded warnings in order of detection.
func (s *Session) Warnings() []*vcfcheck.Error {
	return s.warnings
}

// Dropped returns number of errors not stored because of error limit.
func (s *Session) Dropped() int {
	return s.dropped
}

// Samples returns sample names from the header line, nil if no valid header was found.
func (s *Session) Samples() []string {
	return s.scanner.Samples()
}

// Records returns number of syntactically valid records.
func (s *Session) Records() int {
	return s.scanner.Records()
}

// Registry returns meta-information registry filled so far.
func (s *Session) Registry() *meta.Registry {
	return s.registry
}

// Version returns the value of ##fileformat line or empty string.
func (s *Session) Version() string {
	return s.version
}

// Finished tells whether Finish was called.
func (s *Session) Finished() bool {
	return s.finished
}

func (s *Session) String() string {
	return fmt.Sprintf("%s: line %d, %d records, %d errors, %d warnings",
		s.name, s.Line(), s.Records(), len(s.errors)+s.dropped, len(s.warnings))
}
