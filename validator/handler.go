package validator

import (
	"github.com/ava12/vcfcheck"
	"github.com/ava12/vcfcheck/meta"
	"github.com/ava12/vcfcheck/scanner"
)

// sessionHandler applies semantic rules to scanner callbacks and forwards them to user handler.
type sessionHandler struct {
	s *Session
}

func (h *sessionHandler) Fileformat(version []byte) {
	s := h.s
	s.version = string(version)
	if s.version != SupportedVersion {
		s.warning(vcfcheck.CatFileformat, "Fileformat %q is not %s, the file is validated as %s",
			s.version, SupportedVersion, SupportedVersion)
	}
	s.handler.Fileformat(version)
}

func (h *sessionHandler) MetaEntry(e *meta.Entry) {
	s := h.s
	if !s.registry.Register(e) {
		s.warning(vcfcheck.CatMeta, "%s %q is declared %d times", e.Kind, e.ID, s.registry.Count(e.Kind, e.ID))
	}
	s.handler.MetaEntry(e)
}

func (h *sessionHandler) Samples(names []string) {
	s := h.s
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			s.warning(vcfcheck.CatHeader, "Sample %q is listed more than once", name)
		}
		seen[name] = true
	}
	s.handler.Samples(names)
}

func (h *sessionHandler) Field(f scanner.Field, text []byte) {
	s := h.s
	if f == scanner.FieldChrom && s.checkContigs && !s.registry.IsWellDefinedBytes(meta.Contig, text) {
		s.semanticError(vcfcheck.CatUndeclared, "%s %q is not declared in the meta-information section", meta.Contig, text)
	}
	s.handler.Field(f, text)
}

func (h *sessionHandler) Reference(kind meta.Kind, id []byte) {
	s := h.s
	r := s.registry
	switch kind {
	case meta.FORMAT:
		if string(id) == "GT" {
			r.NoteGenotypes()
			s.handler.Reference(kind, id)
			return
		}
	case meta.FILTER:
		if string(id) == "PASS" {
			s.handler.Reference(kind, id)
			return
		}
	case meta.INFO:
		switch string(id) {
		case "AF":
			r.NoteAlleleFrequency()
		case "AC":
			r.NoteAlleleCount()
		}
	}

	if !r.IsWellDefinedBytes(kind, id) {
		s.semanticError(vcfcheck.CatUndeclared, "%s %q is not declared in the meta-information section", kind, id)
	}
	s.handler.Reference(kind, id)
}

func (h *sessionHandler) RecordEnd() {
	h.s.handler.RecordEnd()
}
