// Package scanner defines byte-level state machine recognizing VCF v4.1 grammar.
//
// Scanner consumes input in chunks of any size and reports recognized values to a Handler.
// Syntax errors are passed to an ErrorPolicy, after that the rest of malformed line is skipped
// and scanning resumes at the next line, so a single run reports every malformed line.
// Token bytes are accumulated in an internal buffer, thus tokens may span chunk boundaries.
package scanner

import (
	"github.com/ava12/vcfcheck"
	"github.com/ava12/vcfcheck/meta"
)

// Section is the part of VCF file being scanned.
type Section int

const (
	// Main is the ##fileformat line.
	Main Section = iota
	MetaSection
	BodySection
	MetaSectionSkip
	BodySectionSkip
)

var sectionNames = []string{"main", "meta", "body", "meta-skip", "body-skip"}

func (s Section) String() string {
	if s < 0 || int(s) >= len(sectionNames) {
		return "unknown"
	}
	return sectionNames[s]
}

// IsSkip tells whether the section is a recovery section.
func (s Section) IsSkip() bool {
	return s == MetaSectionSkip || s == BodySectionSkip
}

const (
	fileformatPrefix = "##fileformat="
	headerPrefix     = "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO"
	formatColumn     = "FORMAT"
)

// Error messages:
const (
	FileformatMessage   = "Fileformat must be a sequence of alphanumeric and/or punctuation characters"
	PositionMessage     = "Position must be a positive number"
	SampleFormatMessage = "Incorrect sample format"
	UnterminatedMessage = "Line is not terminated by a newline"
	NoHeaderMessage     = "Header line is missing"
)

// Scanner is the VCF automaton. Scanner is not safe for concurrent use.
type Scanner struct {
	name    string
	handler Handler
	parse   ParsePolicy
	errors  ErrorPolicy

	state   state
	section Section
	cat     vcfcheck.Category
	line    int
	col     int
	valid   bool
	offset  int
	ended   bool
	records int

	tok      []byte
	subStart int
	lit      int

	entry   *meta.Entry
	attrKey string

	// loose is set while a generic entry value starting with '<' is scanned
	// as attributes, raw holds its text for the plain value fallback.
	loose bool
	raw   []byte

	names         []string
	samples       []string
	headerSamples int

	formatKeys  int
	formatGT    bool
	altCount    int
	sampleIndex int
	values      int
	allele      uint64
	alleleLen   int
	bracket     byte
	leadBracket bool
}

// New creates scanner positioned before the first byte of a file.
// name is used as diagnostics source name and may be empty.
// Nil handler and nil parse policy are replaced with no-op ones,
// nil error policy is replaced with a new Collector.
func New(name string, h Handler, pp ParsePolicy, ep ErrorPolicy) *Scanner {
	if h == nil {
		h = NopHandler{}
	}
	if pp == nil {
		pp = nopParsePolicy{}
	}
	if ep == nil {
		ep = &Collector{}
	}
	return &Scanner{
		name:          name,
		handler:       h,
		parse:         pp,
		errors:        ep,
		state:         stFileformat,
		section:       Main,
		cat:           vcfcheck.CatFileformat,
		line:          1,
		col:           1,
		valid:         true,
		headerSamples: -1,
		tok:           make([]byte, 0, 256),
	}
}

func (s *Scanner) SourceName() string {
	return s.name
}

// Line returns current 1-based line number.
func (s *Scanner) Line() int {
	return s.line
}

// Col returns current 1-based column number, i.e. number of tabs consumed on current line + 1.
func (s *Scanner) Col() int {
	return s.col
}

func (s *Scanner) Section() Section {
	return s.section
}

// IsValid tells whether no syntax error was found so far.
func (s *Scanner) IsValid() bool {
	return s.valid
}

// Samples returns sample names from the header line or nil if no valid header was scanned.
func (s *Scanner) Samples() []string {
	return s.samples
}

// Records returns number of syntactically valid records.
func (s *Scanner) Records() int {
	return s.records
}

// Scan feeds next chunk of input. Empty chunks are allowed.
// The chunk is not retained after Scan returns.
func (s *Scanner) Scan(chunk []byte) {
	if s.ended {
		return
	}

	for i, c := range chunk {
		s.offset = i
		s.step(c)
	}
}

// End signals end of input. Unterminated last line is reported as an error,
// pending skip state is discarded. A file that never reached its header line
// gets a header error. Subsequent calls to Scan and End are ignored.
func (s *Scanner) End() {
	if s.ended {
		return
	}

	s.ended = true
	switch {
	case s.state == stMetaSkip:
		s.section = MetaSection
	case s.state == stBodySkip:
		s.section = BodySection
	case s.state == stLineStart || s.state == stRecordStart:
	case s.state == stFileformat && s.lit == 0:
		s.report(s.section, vcfcheck.CatFileformat, "The file is empty")
		s.section = MetaSection
	default:
		s.report(s.section, s.cat, UnterminatedMessage)
		if s.section == Main {
			s.section = MetaSection
		} else if s.isHeaderState() {
			s.section = BodySection
		}
	}

	if s.section != BodySection {
		s.report(s.section, vcfcheck.CatHeader, NoHeaderMessage)
	}
}

func (s *Scanner) report(section Section, cat vcfcheck.Category, message string) {
	s.valid = false
	s.errors.SectionError(s, section, cat, message)
}

// fail reports error in current category and switches to section skip state,
// which then consumes the offending byte.
// A malformed attribute list of a generic entry is not an error:
// its text becomes the plain entry value instead.
func (s *Scanner) fail(c byte, message string) {
	if s.loose {
		s.loose = false
		if s.plainValue() {
			s.state = stMetaValue
			s.step(c)
			return
		}
	}
	s.failCat(c, s.cat, message)
}

// plainValue turns scanned attributes of current generic entry back into a plain value
// consisting of all bytes consumed after '='. Raw text ends with the offending byte,
// which is not included.
func (s *Scanner) plainValue() bool {
	text := s.raw[:len(s.raw)-1]
	for _, c := range text {
		if !is(c, clText) {
			return false
		}
	}
	s.tok = append(s.tok[:0], text...)
	s.entry.Structured = false
	s.entry.Attrs = nil
	s.entry.ID = ""
	return true
}

func (s *Scanner) failCat(c byte, cat vcfcheck.Category, message string) {
	if message == "" {
		message = defaultMessage(cat)
	}
	s.report(s.section, cat, message)

	if s.section == BodySection || s.isHeaderState() {
		s.section = BodySectionSkip
		s.state = stBodySkip
	} else {
		s.section = MetaSectionSkip
		s.state = stMetaSkip
	}
	s.step(c)
}

func defaultMessage(cat vcfcheck.Category) string {
	switch cat {
	case vcfcheck.CatFileformat:
		return "The fileformat declaration is not valid"
	case vcfcheck.CatMeta:
		return "Error in meta-information section"
	case vcfcheck.CatMetaALT, vcfcheck.CatMetaFILTER, vcfcheck.CatMetaFORMAT, vcfcheck.CatMetaINFO:
		return "Error in " + string(cat[len("meta-"):]) + " meta-information line"
	case vcfcheck.CatHeader:
		return "Error in header line"
	case vcfcheck.CatSampleFormat:
		return SampleFormatMessage
	default:
		return "Error in '" + string(cat) + "' field"
	}
}

func (s *Scanner) begin() {
	s.tok = s.tok[:0]
	s.subStart = 0
	s.parse.TokenBegin(s.offset)
}

func (s *Scanner) newline() {
	s.line++
	s.col = 1
}

func (s *Scanner) tab() {
	s.col++
}
