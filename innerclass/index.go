package innerclass

import (
	"sort"
	"strings"

	"github.com/viant/innerfix/classfile"
	"github.com/viant/innerfix/inheritance"
)

// Index maps an enclosing type name to records of the types nested under it.
// It is never modified after Build returns, so concurrent lookups need no locking.
type Index struct {
	records map[string][]Record
	byName  map[string]classified
}

type classified struct {
	record Record
	kind   Kind
}

// Lookup returns records keyed by the enclosing name, in build order
func (i *Index) Lookup(outer string) []Record {
	return i.records[outer]
}

// Kind returns the classification of a nested type name
func (i *Index) Kind(name string) (Kind, bool) {
	entry, ok := i.byName[name]
	return entry.kind, ok
}

// Find returns the record reconstructed for a nested type name
func (i *Index) Find(name string) (Record, Kind, bool) {
	entry, ok := i.byName[name]
	return entry.record, entry.kind, ok
}

// Outers returns the sorted enclosing type names
func (i *Index) Outers() []string {
	result := make([]string, 0, len(i.records))
	for outer := range i.records {
		result = append(result, outer)
	}
	sort.Strings(result)
	return result
}

// Len returns the number of records
func (i *Index) Len() int {
	return len(i.byName)
}

// Builder reconstructs nesting records from naming conventions and field layout
type Builder struct {
	separator  rune
	outerField string
}

// NewBuilder creates a builder with javac conventions unless overridden
func NewBuilder(options ...Option) *Builder {
	b := &Builder{separator: DefaultSeparator, outerField: DefaultOuterField}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Build scans every type of a fully populated program index
func (b *Builder) Build(types *inheritance.Index) *Index {
	index := &Index{records: make(map[string][]Record), byName: make(map[string]classified)}
	for _, info := range types.Types() {
		prefix, record, kind, ok := b.Reconstruct(info)
		if !ok {
			continue
		}
		index.records[prefix] = append(index.records[prefix], record)
		index.byName[record.Name] = classified{record: record, kind: kind}
	}
	return index
}

// Reconstruct recovers the record of one type; prefix is the structural outer name used as
// the index key even when the record itself carries no outer name
func (b *Builder) Reconstruct(info *inheritance.TypeInfo) (prefix string, record Record, kind Kind, ok bool) {
	idx := strings.LastIndex(info.Name, string(b.separator))
	if idx == -1 {
		return "", Record{}, 0, false
	}
	prefix = info.Name[:idx]
	classification := Classify(prefix, info.Name[idx+len(string(b.separator)):])
	record = Record{
		Name:       info.Name,
		OuterName:  classification.OuterName,
		SimpleName: classification.SimpleName,
		Access:     b.access(info),
	}
	return prefix, record, classification.Kind, true
}

// access clears ACC_SUPER (invalid for inner_class_access_flags) and guesses ACC_STATIC from
// the absence of the synthetic outer instance field. Private and protected are not recoverable.
func (b *Builder) access(info *inheritance.TypeInfo) uint16 {
	access := info.Access &^ classfile.AccSuper
	if !info.HasInstanceField(b.outerField) {
		access |= classfile.AccStatic
	}
	return access
}

// Build reconstructs records with javac conventions
func Build(types *inheritance.Index) *Index {
	return NewBuilder().Build(types)
}
