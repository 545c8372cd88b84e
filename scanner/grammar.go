package scanner

import (
	"strconv"

	"github.com/ava12/vcfcheck"
	"github.com/ava12/vcfcheck/meta"
)

type state int

const (
	stFileformat state = iota
	stFileformatValueStart
	stFileformatValue

	stLineStart
	stMetaHash
	stMetaKeyStart
	stMetaKey
	stMetaValueStart
	stMetaValue
	stAttrKeyStart
	stAttrKey
	stAttrValueStart
	stAttrBare
	stAttrQuoted
	stAttrQuotedEscape
	stAttrQuotedEnd
	stStructEnd

	stHeader
	stHeaderAfterInfo
	stHeaderFormat
	stHeaderAfterFormat
	stSampleNameStart
	stSampleName

	stRecordStart
	stChrom
	stPosStart
	stPos
	stIDStart
	stID
	stIDSep
	stRefStart
	stRef
	stAltStart
	stAltElem
	stAltDot
	stAltDotBases
	stAltBases
	stAltEnd
	stAltSymbolic
	stAltMateChromStart
	stAltMateChrom
	stAltMatePosStart
	stAltMatePos
	stAltLeadBasesStart
	stAltLeadBases
	stQualStart
	stQualDot
	stQualInt
	stQualFrac
	stFilterStart
	stFilter
	stFilterSep
	stInfoStart
	stInfoDot
	stInfoKey
	stInfoValueStart
	stInfoValue
	stInfoSep
	stFormatStart
	stFormatKey
	stFormatSep
	stSampleStart
	stGenotype
	stGenotypeAllele
	stGenotypeMissing
	stSampleValueStart
	stSampleValue

	stMetaSkip
	stBodySkip
)

func (s *Scanner) isHeaderState() bool {
	return s.state >= stHeader && s.state <= stSampleName
}

func metaCategory(k meta.Kind) vcfcheck.Category {
	switch k {
	case meta.ALT:
		return vcfcheck.CatMetaALT
	case meta.FILTER:
		return vcfcheck.CatMetaFILTER
	case meta.FORMAT:
		return vcfcheck.CatMetaFORMAT
	case meta.INFO:
		return vcfcheck.CatMetaINFO
	default:
		return vcfcheck.CatMeta
	}
}

func (s *Scanner) step(c byte) {
	switch s.state {
	case stFileformat, stFileformatValueStart, stFileformatValue:
		s.stepFileformat(c)
	case stMetaSkip:
		if c == '\n' {
			s.newline()
			s.section = MetaSection
			s.state = stLineStart
		}
	case stBodySkip:
		if c == '\n' {
			s.newline()
			s.section = BodySection
			s.state = stRecordStart
		}
	default:
		switch {
		case s.state < stHeader:
			s.stepMeta(c)
		case s.state < stRecordStart:
			s.stepHeader(c)
		case s.state < stAltStart:
			s.stepRecord(c)
		case s.state < stQualStart:
			s.stepAlt(c)
		case s.state < stSampleStart:
			s.stepRecordTail(c)
		default:
			s.stepSample(c)
		}
	}
}

func (s *Scanner) stepFileformat(c byte) {
	switch s.state {
	case stFileformat:
		if c != fileformatPrefix[s.lit] {
			s.fail(c, "")
			return
		}
		s.lit++
		if s.lit == len(fileformatPrefix) {
			s.state = stFileformatValueStart
		}

	case stFileformatValueStart:
		if !is(c, clPrint) {
			s.fail(c, FileformatMessage)
			return
		}
		s.begin()
		s.tok = append(s.tok, c)
		s.state = stFileformatValue

	case stFileformatValue:
		switch {
		case is(c, clPrint):
			s.tok = append(s.tok, c)
		case c == '\n':
			s.handler.Fileformat(s.tok)
			s.newline()
			s.section = MetaSection
			s.cat = vcfcheck.CatMeta
			s.state = stLineStart
		default:
			s.fail(c, FileformatMessage)
		}
	}
}

func (s *Scanner) stepMeta(c byte) {
	if s.loose {
		s.raw = append(s.raw, c)
	}

	switch s.state {
	case stLineStart:
		s.cat = vcfcheck.CatMeta
		if c != '#' {
			s.fail(c, "Meta-information lines must start with ##, header line must start with #CHROM")
			return
		}
		s.state = stMetaHash

	case stMetaHash:
		if c != '#' {
			s.cat = vcfcheck.CatHeader
			s.lit = 1
			s.state = stHeader
			s.step(c)
			return
		}
		s.state = stMetaKeyStart

	case stMetaKeyStart:
		if !is(c, clMetaKey) {
			s.fail(c, "Meta-information key must be a sequence of letters, digits, '_', '.' or '-'")
			return
		}
		s.begin()
		s.tok = append(s.tok, c)
		s.state = stMetaKey

	case stMetaKey:
		switch {
		case is(c, clMetaKey):
			s.tok = append(s.tok, c)
		case c == '=':
			kind := meta.KindOf(s.tok)
			s.cat = metaCategory(kind)
			s.entry = &meta.Entry{Kind: kind, Key: string(s.tok), Line: s.line}
			s.state = stMetaValueStart
		default:
			s.fail(c, "Meta-information key must be followed by '='")
		}

	case stMetaValueStart:
		if c == '<' {
			s.entry.Structured = true
			if s.entry.Kind == meta.Generic {
				s.loose = true
				s.raw = append(s.raw[:0], c)
			}
			s.state = stAttrKeyStart
			return
		}
		if meta.MustBeStructured(s.entry.Kind) {
			s.fail(c, s.entry.Key+" meta-information value must be enclosed in '<' and '>'")
			return
		}
		s.begin()
		s.state = stMetaValue
		s.step(c)

	case stMetaValue:
		switch {
		case is(c, clText):
			s.tok = append(s.tok, c)
		case c == '\n':
			s.entry.Value = string(s.tok)
			s.completeEntry()
		default:
			s.fail(c, "Meta-information value contains non-printable character")
		}

	case stAttrKeyStart:
		if !is(c, clMetaKey) {
			s.fail(c, "Attribute key must be a sequence of letters, digits, '_', '.' or '-'")
			return
		}
		s.begin()
		s.tok = append(s.tok, c)
		s.state = stAttrKey

	case stAttrKey:
		switch {
		case is(c, clMetaKey):
			s.tok = append(s.tok, c)
		case c == '=':
			s.attrKey = string(s.tok)
			s.state = stAttrValueStart
		default:
			s.fail(c, "Attribute key must be followed by '='")
		}

	case stAttrValueStart:
		switch {
		case c == '"':
			s.begin()
			s.state = stAttrQuoted
		case is(c, clBareValue):
			s.begin()
			s.tok = append(s.tok, c)
			s.state = stAttrBare
		default:
			s.fail(c, "Attribute "+s.attrKey+" has no value")
		}

	case stAttrBare:
		switch {
		case is(c, clBareValue):
			s.tok = append(s.tok, c)
		case c == ',' || c == '>':
			s.endAttr(c)
		default:
			s.fail(c, "Attribute "+s.attrKey+" value is not valid")
		}

	case stAttrQuoted:
		switch {
		case c == '"':
			s.state = stAttrQuotedEnd
		case c == '\\':
			s.state = stAttrQuotedEscape
		case is(c, clText) || c == '\t':
			s.tok = append(s.tok, c)
		default:
			s.fail(c, "Attribute "+s.attrKey+" string is not terminated")
		}

	case stAttrQuotedEscape:
		if !is(c, clText) && c != '\t' {
			s.fail(c, "Attribute "+s.attrKey+" string is not terminated")
			return
		}
		if c != '"' && c != '\\' {
			s.tok = append(s.tok, '\\')
		}
		s.tok = append(s.tok, c)
		s.state = stAttrQuoted

	case stAttrQuotedEnd:
		switch c {
		case '"':
			s.tok = append(s.tok, c)
			s.state = stAttrQuoted
		case ',', '>':
			s.endAttr(c)
		default:
			s.fail(c, "Attribute "+s.attrKey+" string must be followed by ',' or '>'")
		}

	case stStructEnd:
		if c != '\n' {
			s.fail(c, "Meta-information line must end after '>'")
			return
		}
		if msg := s.checkEntry(); msg != "" {
			s.fail(c, msg)
			return
		}
		s.completeEntry()
	}
}

func (s *Scanner) endAttr(c byte) {
	value := string(s.tok)
	s.entry.Attrs = append(s.entry.Attrs, meta.Attr{Key: s.attrKey, Value: value})
	if s.attrKey == "ID" && s.entry.ID == "" {
		s.entry.ID = value
	}
	if c == ',' {
		s.state = stAttrKeyStart
	} else {
		s.state = stStructEnd
	}
}

func (s *Scanner) checkEntry() string {
	e := s.entry
	for _, key := range meta.RequiredKeys(e.Kind) {
		if _, has := e.Attr(key); !has {
			return e.Key + " meta-information line must contain " + key + " attribute"
		}
	}

	if e.Kind == meta.INFO || e.Kind == meta.FORMAT {
		if n, _ := e.Attr("Number"); !meta.ValidNumber(n) {
			return e.Key + " Number must be a non-negative integer or one of '.', 'A', 'G', 'R'"
		}
		if t, _ := e.Attr("Type"); !meta.ValidType(e.Kind, t) {
			return e.Key + " Type " + strconv.Quote(t) + " is not valid"
		}
	}
	return ""
}

func (s *Scanner) completeEntry() {
	s.loose = false
	s.handler.MetaEntry(s.entry)
	s.entry = nil
	s.newline()
	s.state = stLineStart
}

func (s *Scanner) stepHeader(c byte) {
	switch s.state {
	case stHeader:
		if c != headerPrefix[s.lit] {
			s.fail(c, "Header line must start with "+strconv.Quote(headerPrefix))
			return
		}
		if c == '\t' {
			s.tab()
		}
		s.lit++
		if s.lit == len(headerPrefix) {
			s.names = s.names[:0]
			s.state = stHeaderAfterInfo
		}

	case stHeaderAfterInfo:
		switch c {
		case '\n':
			s.completeHeader()
		case '\t':
			s.tab()
			s.lit = 0
			s.state = stHeaderFormat
		default:
			s.fail(c, "INFO column must be followed by FORMAT column or the end of line")
		}

	case stHeaderFormat:
		if c != formatColumn[s.lit] {
			s.fail(c, "INFO column must be followed by FORMAT column or the end of line")
			return
		}
		s.lit++
		if s.lit == len(formatColumn) {
			s.state = stHeaderAfterFormat
		}

	case stHeaderAfterFormat:
		if c != '\t' {
			s.fail(c, "FORMAT column must be followed by at least one sample name")
			return
		}
		s.tab()
		s.state = stSampleNameStart

	case stSampleNameStart:
		if !is(c, clText) {
			s.fail(c, "Sample name must not be empty")
			return
		}
		s.begin()
		s.tok = append(s.tok, c)
		s.state = stSampleName

	case stSampleName:
		switch {
		case is(c, clText):
			s.tok = append(s.tok, c)
		case c == '\t':
			s.names = append(s.names, string(s.tok))
			s.tab()
			s.state = stSampleNameStart
		case c == '\n':
			s.names = append(s.names, string(s.tok))
			s.completeHeader()
		default:
			s.fail(c, "Sample name contains non-printable character")
		}
	}
}

func (s *Scanner) completeHeader() {
	s.samples = make([]string, len(s.names))
	copy(s.samples, s.names)
	s.headerSamples = len(s.samples)
	s.handler.Samples(s.samples)
	s.newline()
	s.section = BodySection
	s.state = stRecordStart
}

// endField reports current token as field value and moves to next field.
func (s *Scanner) endField(f Field, next state, cat vcfcheck.Category) {
	s.handler.Field(f, s.tok)
	s.tab()
	s.cat = cat
	s.state = next
}

func (s *Scanner) stepRecord(c byte) {
	switch s.state {
	case stRecordStart:
		s.cat = vcfcheck.CatChrom
		switch {
		case c == '#':
			s.fail(c, "Meta-information and header lines are not allowed after the header line")
		case c == '\n':
			s.fail(c, "Empty lines are not allowed")
		case is(c, clPrint):
			s.begin()
			s.tok = append(s.tok, c)
			s.formatKeys = 0
			s.formatGT = false
			s.altCount = 0
			s.sampleIndex = 0
			s.state = stChrom
		default:
			s.fail(c, "")
		}

	case stChrom:
		switch {
		case is(c, clPrint):
			s.tok = append(s.tok, c)
		case c == '\t':
			s.endField(FieldChrom, stPosStart, vcfcheck.CatPos)
		default:
			s.fail(c, "Chromosome must be a sequence of printable characters")
		}

	case stPosStart:
		if !is(c, clDigit) {
			s.fail(c, PositionMessage)
			return
		}
		s.begin()
		s.tok = append(s.tok, c)
		s.state = stPos

	case stPos:
		switch {
		case is(c, clDigit):
			s.tok = append(s.tok, c)
		case c == '\t':
			pos, e := strconv.ParseUint(string(s.tok), 10, 64)
			if e != nil || pos == 0 {
				s.fail(c, PositionMessage)
				return
			}
			s.endField(FieldPos, stIDStart, vcfcheck.CatID)
		default:
			s.fail(c, PositionMessage)
		}

	case stIDStart:
		if !is(c, clIDChar) {
			s.fail(c, "ID must be a dot or a list of identifiers separated by ';'")
			return
		}
		s.begin()
		s.tok = append(s.tok, c)
		s.state = stID

	case stID:
		switch {
		case is(c, clIDChar):
			s.tok = append(s.tok, c)
		case c == ';':
			s.tok = append(s.tok, c)
			s.state = stIDSep
		case c == '\t':
			s.endField(FieldID, stRefStart, vcfcheck.CatReference)
		default:
			s.fail(c, "ID must be a dot or a list of identifiers separated by ';'")
		}

	case stIDSep:
		if !is(c, clIDChar) {
			s.fail(c, "ID must not contain empty identifiers")
			return
		}
		s.tok = append(s.tok, c)
		s.state = stID

	case stRefStart:
		if !is(c, clBase) {
			s.fail(c, "Reference must be a sequence of A, C, G, T or N bases")
			return
		}
		s.begin()
		s.tok = append(s.tok, c)
		s.state = stRef

	case stRef:
		switch {
		case is(c, clBase):
			s.tok = append(s.tok, c)
		case c == '\t':
			s.endField(FieldRef, stAltStart, vcfcheck.CatAlternate)
		default:
			s.fail(c, "Reference must be a sequence of A, C, G, T or N bases")
		}
	}
}

const altMessage = "Alternate must be a dot or a list of alleles separated by ','"

// endAlt handles ALT element separators, returns false if c is not a separator.
func (s *Scanner) endAlt(c byte, counted bool) bool {
	switch c {
	case ',':
		s.altCount++
		s.tok = append(s.tok, c)
		s.state = stAltElem
	case '\t':
		if counted {
			s.altCount++
		}
		s.endField(FieldAlt, stQualStart, vcfcheck.CatQuality)
	default:
		return false
	}
	return true
}

func (s *Scanner) stepAlt(c byte) {
	if s.state == stAltStart {
		s.begin()
		s.state = stAltElem
	}

	switch s.state {
	case stAltElem:
		switch {
		case c == '.':
			s.state = stAltDot
		case c == '*':
			s.state = stAltEnd
		case is(c, clBase):
			s.state = stAltBases
		case c == '<':
			s.subStart = len(s.tok) + 1
			s.state = stAltSymbolic
		case c == '[' || c == ']':
			s.bracket = c
			s.leadBracket = true
			s.state = stAltMateChromStart
		default:
			s.fail(c, altMessage)
			return
		}
		s.tok = append(s.tok, c)

	case stAltDot:
		switch {
		case is(c, clBase):
			s.tok = append(s.tok, c)
			s.state = stAltDotBases
		case c == ',':
			s.fail(c, "Missing alternate allele must not be a part of a list")
		case c == '\t' && len(s.tok) == 1:
			s.endAlt(c, false)
		default:
			s.fail(c, altMessage)
		}

	case stAltDotBases:
		switch {
		case is(c, clBase):
			s.tok = append(s.tok, c)
		case !s.endAlt(c, true):
			s.fail(c, altMessage)
		}

	case stAltBases:
		switch {
		case is(c, clBase):
			s.tok = append(s.tok, c)
		case c == '.':
			s.tok = append(s.tok, c)
			s.state = stAltEnd
		case c == '[' || c == ']':
			s.tok = append(s.tok, c)
			s.bracket = c
			s.leadBracket = false
			s.state = stAltMateChromStart
		case !s.endAlt(c, true):
			s.fail(c, altMessage)
		}

	case stAltEnd:
		if !s.endAlt(c, true) {
			s.fail(c, altMessage)
		}

	case stAltSymbolic:
		switch {
		case is(c, clSymbolic):
			s.tok = append(s.tok, c)
		case c == '>' && len(s.tok) > s.subStart:
			s.handler.Reference(meta.ALT, s.tok[s.subStart:])
			s.tok = append(s.tok, c)
			s.state = stAltEnd
		default:
			s.fail(c, "Symbolic alternate allele must be an identifier enclosed in '<' and '>'")
		}

	case stAltMateChromStart, stAltMateChrom:
		switch {
		case is(c, clMateChrom):
			s.tok = append(s.tok, c)
			s.state = stAltMateChrom
		case c == ':' && s.state == stAltMateChrom:
			s.tok = append(s.tok, c)
			s.state = stAltMatePosStart
		default:
			s.fail(c, "Breakend mate must be written as chromosome:position")
		}

	case stAltMatePosStart, stAltMatePos:
		switch {
		case is(c, clDigit):
			s.tok = append(s.tok, c)
			s.state = stAltMatePos
		case c == s.bracket && s.state == stAltMatePos:
			s.tok = append(s.tok, c)
			if s.leadBracket {
				s.state = stAltLeadBasesStart
			} else {
				s.state = stAltEnd
			}
		default:
			s.fail(c, "Breakend mate must be written as chromosome:position")
		}

	case stAltLeadBasesStart, stAltLeadBases:
		switch {
		case is(c, clBase):
			s.tok = append(s.tok, c)
			s.state = stAltLeadBases
		case s.state == stAltLeadBases && s.endAlt(c, true):
		default:
			s.fail(c, "Breakend must contain reference bases")
		}
	}
}

func (s *Scanner) stepRecordTail(c byte) {
	switch s.state {
	case stQualStart:
		s.begin()
		switch {
		case c == '.':
			s.state = stQualDot
		case is(c, clDigit):
			s.state = stQualInt
		default:
			s.fail(c, "Quality must be a dot or a positive number")
			return
		}
		s.tok = append(s.tok, c)

	case stQualDot, stQualInt, stQualFrac:
		switch {
		case is(c, clDigit):
			s.tok = append(s.tok, c)
			if s.state == stQualDot {
				s.state = stQualFrac
			}
		case c == '.' && s.state == stQualInt:
			s.tok = append(s.tok, c)
			s.state = stQualFrac
		case c == '\t':
			s.endField(FieldQual, stFilterStart, vcfcheck.CatFilter)
		default:
			s.fail(c, "Quality must be a dot or a positive number")
		}

	case stFilterStart, stFilterSep:
		if !is(c, clIDChar) {
			s.fail(c, "Filter must be a dot or a list of identifiers separated by ';'")
			return
		}
		if s.state == stFilterStart {
			s.begin()
		}
		s.subStart = len(s.tok)
		s.tok = append(s.tok, c)
		s.state = stFilter

	case stFilter:
		switch {
		case is(c, clIDChar):
			s.tok = append(s.tok, c)
		case c == ';' || c == '\t':
			s.reference(meta.FILTER)
			if c == '\t' {
				s.endField(FieldFilter, stInfoStart, vcfcheck.CatInfo)
				return
			}
			s.tok = append(s.tok, c)
			s.state = stFilterSep
		default:
			s.fail(c, "Filter must be a dot or a list of identifiers separated by ';'")
		}

	case stInfoStart:
		s.begin()
		switch {
		case c == '.':
			s.tok = append(s.tok, c)
			s.state = stInfoDot
		case is(c, clFieldKey):
			s.state = stInfoSep
			s.step(c)
		default:
			s.fail(c, "Info must be a dot or a list of KEY=VALUE entries separated by ';'")
		}

	case stInfoDot:
		if c != '\t' && c != '\n' {
			s.fail(c, "Info must be a dot or a list of KEY=VALUE entries separated by ';'")
			return
		}
		s.endInfo(c)

	case stInfoSep:
		if !is(c, clFieldKey) {
			s.fail(c, "Info must not contain empty entries")
			return
		}
		s.subStart = len(s.tok)
		s.tok = append(s.tok, c)
		s.state = stInfoKey

	case stInfoKey:
		switch {
		case is(c, clFieldKey):
			s.tok = append(s.tok, c)
		case c == '=' || c == ';' || c == '\t' || c == '\n':
			s.handler.Reference(meta.INFO, s.tok[s.subStart:])
			s.infoSeparator(c, stInfoValueStart)
		default:
			s.fail(c, "Info key must be a sequence of letters, digits, '_' or '.'")
		}

	case stInfoValueStart, stInfoValue:
		switch {
		case is(c, clIDChar):
			s.tok = append(s.tok, c)
			s.state = stInfoValue
		case s.state == stInfoValue && (c == ';' || c == '\t' || c == '\n'):
			s.infoSeparator(c, stInfoValue)
		default:
			s.fail(c, "Info value must be a sequence of printable characters except ';'")
		}

	case stFormatStart, stFormatSep:
		if !is(c, clFieldKey) {
			s.fail(c, "Format must be a list of keys separated by ':'")
			return
		}
		if s.state == stFormatStart {
			s.begin()
		}
		s.subStart = len(s.tok)
		s.tok = append(s.tok, c)
		s.state = stFormatKey

	case stFormatKey:
		switch {
		case is(c, clFieldKey):
			s.tok = append(s.tok, c)
		case c == ':' || c == '\t' || c == '\n':
			key := s.tok[s.subStart:]
			isGT := string(key) == "GT"
			if isGT && s.formatKeys > 0 {
				s.fail(c, "GT must be the first format key")
				return
			}
			if c == '\n' {
				s.fail(c, "Format must be followed by at least one sample column")
				return
			}
			s.formatKeys++
			s.formatGT = s.formatGT || isGT
			s.handler.Reference(meta.FORMAT, key)
			if c == ':' {
				s.tok = append(s.tok, c)
				s.state = stFormatSep
				return
			}
			s.endField(FieldFormat, stSampleStart, vcfcheck.CatSampleFormat)
		default:
			s.fail(c, "Format key must be a sequence of letters, digits, '_' or '.'")
		}
	}
}

func (s *Scanner) reference(k meta.Kind) {
	id := s.tok[s.subStart:]
	if len(id) != 1 || id[0] != '.' {
		s.handler.Reference(k, id)
	}
}

func (s *Scanner) infoSeparator(c byte, valueState state) {
	switch c {
	case '=':
		s.tok = append(s.tok, c)
		s.state = valueState
	case ';':
		s.tok = append(s.tok, c)
		s.state = stInfoSep
	default:
		s.endInfo(c)
	}
}

func (s *Scanner) endInfo(c byte) {
	if c == '\n' {
		if s.headerSamples > 0 {
			s.failCat(c, vcfcheck.CatSampleFormat,
				"Record has no sample columns, the header line declares "+strconv.Itoa(s.headerSamples))
			return
		}
		s.handler.Field(FieldInfo, s.tok)
		s.completeRecord()
		return
	}

	if s.headerSamples == 0 {
		s.failCat(c, vcfcheck.CatSampleFormat, "Record has more columns than the header line")
		return
	}
	s.endField(FieldInfo, stFormatStart, vcfcheck.CatFormat)
}

func (s *Scanner) completeRecord() {
	s.records++
	s.handler.RecordEnd()
	s.newline()
	s.state = stRecordStart
}

func (s *Scanner) stepSample(c byte) {
	switch s.state {
	case stSampleStart:
		s.begin()
		s.values = 1
		if s.formatGT {
			s.state = stGenotype
		} else {
			s.state = stSampleValueStart
		}
		s.step(c)

	case stGenotype:
		switch {
		case c == '.':
			s.state = stGenotypeMissing
		case is(c, clDigit):
			s.allele = uint64(c - '0')
			s.alleleLen = 1
			s.state = stGenotypeAllele
		default:
			s.fail(c, "Genotype must be a list of allele indexes separated by '/' or '|'")
			return
		}
		s.tok = append(s.tok, c)

	case stGenotypeAllele, stGenotypeMissing:
		if s.state == stGenotypeAllele && is(c, clDigit) {
			s.tok = append(s.tok, c)
			s.alleleLen++
			s.allele = s.allele*10 + uint64(c-'0')
			return
		}
		if s.state == stGenotypeAllele && (s.alleleLen > 18 || s.allele > uint64(s.altCount)) {
			s.fail(c, "Genotype refers to allele "+string(s.tok[len(s.tok)-s.alleleLen:])+
				", the record has "+strconv.Itoa(s.altCount)+" alternate alleles")
			return
		}
		switch c {
		case '/', '|':
			s.tok = append(s.tok, c)
			s.state = stGenotype
		case ':':
			s.nextSampleValue(c)
		case '\t', '\n':
			s.endSample(c)
		default:
			s.fail(c, "Genotype must be a list of allele indexes separated by '/' or '|'")
		}

	case stSampleValueStart, stSampleValue:
		switch {
		case is(c, clSampleValue):
			s.tok = append(s.tok, c)
			s.state = stSampleValue
		case s.state == stSampleValue && c == ':':
			s.nextSampleValue(c)
		case s.state == stSampleValue && (c == '\t' || c == '\n'):
			s.endSample(c)
		default:
			s.fail(c, SampleFormatMessage)
		}
	}
}

func (s *Scanner) nextSampleValue(c byte) {
	s.values++
	if s.values > s.formatKeys {
		s.fail(c, SampleFormatMessage+": more values than format keys")
		return
	}
	s.tok = append(s.tok, c)
	s.state = stSampleValueStart
}

func (s *Scanner) endSample(c byte) {
	missing := len(s.tok) == 1 && s.tok[0] == '.'
	if s.values != s.formatKeys && !missing {
		s.fail(c, SampleFormatMessage+": "+strconv.Itoa(s.values)+" values for "+
			strconv.Itoa(s.formatKeys)+" format keys")
		return
	}

	s.sampleIndex++
	if c == '\t' {
		if s.headerSamples >= 0 && s.sampleIndex >= s.headerSamples {
			s.fail(c, "Record has more sample columns than the header line")
			return
		}
		s.endField(FieldSample, stSampleStart, vcfcheck.CatSampleFormat)
		return
	}

	if s.headerSamples >= 0 && s.sampleIndex != s.headerSamples {
		s.fail(c, "Record has "+strconv.Itoa(s.sampleIndex)+" sample columns, the header line declares "+
			strconv.Itoa(s.headerSamples))
		return
	}
	s.handler.Field(FieldSample, s.tok)
	s.completeRecord()
}
