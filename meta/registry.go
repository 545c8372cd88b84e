package meta

import (
	"github.com/ava12/vcfcheck"
	"github.com/ava12/vcfcheck/internal/bmap"
)

// NoEvidenceMessage is the message of the diagnostic emitted by ValidateAdditionalChecks.
const NoEvidenceMessage = "The file does not contain genotypes, allele frequencies or allele counts " +
	"supporting its variants"

// Registry accumulates meta entries and answers whether an identifier was declared.
// It also keeps file-wide evidence flags which are set once and never cleared.
// Registry is not safe for concurrent use.
type Registry struct {
	ids     [numKinds]*bmap.BMap[int]
	entries []*Entry

	genotypes       bool
	alleleFrequency bool
	alleleCount     bool
}

// NewRegistry creates empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.ids {
		r.ids[i] = bmap.New[int](16)
	}
	return r
}

// Register stores the entry. Entries with non-empty ID become well-defined identifiers of their kind.
// Duplicate identifiers are kept; the result is false if the identifier was already declared.
func (r *Registry) Register(e *Entry) bool {
	r.entries = append(r.entries, e)
	if e.ID == "" {
		return true
	}

	ids := r.ids[r.index(e.Kind)]
	count, _ := ids.GetString(e.ID)
	ids.SetString(e.ID, count+1)
	return count == 0
}

func (r *Registry) index(k Kind) Kind {
	if k < 0 || k >= numKinds {
		return Generic
	}
	return k
}

// IsWellDefined tells whether an entry of given kind declared given identifier.
func (r *Registry) IsWellDefined(k Kind, id string) bool {
	_, has := r.ids[r.index(k)].GetString(id)
	return has
}

// IsWellDefinedBytes is IsWellDefined for identifiers taken directly from a token buffer.
func (r *Registry) IsWellDefinedBytes(k Kind, id []byte) bool {
	_, has := r.ids[r.index(k)].Get(id)
	return has
}

// Count returns how many times the identifier was declared.
func (r *Registry) Count(k Kind, id string) int {
	count, _ := r.ids[r.index(k)].GetString(id)
	return count
}

// IDs returns declared identifiers of given kind in declaration order, without repetitions.
func (r *Registry) IDs(k Kind) []string {
	return r.ids[r.index(k)].Keys()
}

// Entries returns all registered entries in source order.
func (r *Registry) Entries() []*Entry {
	result := make([]*Entry, len(r.entries))
	copy(result, r.entries)
	return result
}

// Len returns number of registered entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) NoteGenotypes() {
	r.genotypes = true
}

func (r *Registry) NoteAlleleFrequency() {
	r.alleleFrequency = true
}

func (r *Registry) NoteAlleleCount() {
	r.alleleCount = true
}

func (r *Registry) GenotypesPresent() bool {
	return r.genotypes
}

func (r *Registry) AlleleFrequenciesPresent() bool {
	return r.alleleFrequency
}

func (r *Registry) AlleleCountPresent() bool {
	return r.alleleCount
}

// ValidateAdditionalChecks runs whole-file evidence checks.
// Returns a single no-evidence diagnostic positioned at pos if neither genotypes,
// allele frequencies, nor allele counts were noted; returns nil otherwise.
func (r *Registry) ValidateAdditionalChecks(pos vcfcheck.SourcePos) []*vcfcheck.Error {
	if r.genotypes || r.alleleFrequency || r.alleleCount {
		return nil
	}
	return []*vcfcheck.Error{vcfcheck.FormatErrorPos(pos, vcfcheck.CatNoEvidence, NoEvidenceMessage)}
}
