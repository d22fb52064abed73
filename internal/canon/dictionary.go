package canon

import "github.com/lexgraph/lexgraph/internal/model"

// Entry is one dictionary record: a canonical name with its known
// aliases.
type Entry struct {
	CanonicalName string
	Aliases       []string
	EntityType    model.EntityType
	Confidence    float64
}

// Dictionary maps surface forms of well-known legal terms to their
// canonical names.
type Dictionary struct {
	entries  map[string]*Entry // canonical name -> entry
	aliasMap map[string]string // alias -> canonical name
	order    []string          // canonical names in insertion order
}

// NewDictionary builds the default legal-term dictionary.
func NewDictionary() *Dictionary {
	d := &Dictionary{
		entries:  make(map[string]*Entry),
		aliasMap: make(map[string]string),
	}
	d.Add("中华人民共和国", []string{"中国", "我国"}, model.EntityCase, 1.0)
	d.Add("被告", []string{"被告人", "被申请人"}, model.EntityParty, 1.0)
	d.Add("原告", []string{"申请人", "上诉人"}, model.EntityParty, 1.0)
	return d
}

// Add registers an entry and its alias mappings.
func (d *Dictionary) Add(canonical string, aliases []string, typ model.EntityType, confidence float64) {
	if _, exists := d.entries[canonical]; !exists {
		d.order = append(d.order, canonical)
	}
	d.entries[canonical] = &Entry{
		CanonicalName: canonical,
		Aliases:       aliases,
		EntityType:    typ,
		Confidence:    confidence,
	}
	for _, alias := range aliases {
		d.aliasMap[alias] = canonical
	}
}

// Lookup resolves a name to its entry, by canonical name first and by
// alias second. Returns nil when unknown.
func (d *Dictionary) Lookup(name string) *Entry {
	if e, ok := d.entries[name]; ok {
		return e
	}
	if canonical, ok := d.aliasMap[name]; ok {
		return d.entries[canonical]
	}
	return nil
}

// CanonicalName maps a name to its canonical form, or returns the name
// unchanged when the dictionary does not know it.
func (d *Dictionary) CanonicalName(name string) string {
	if e := d.Lookup(name); e != nil {
		return e.CanonicalName
	}
	return name
}

// Len reports the number of entries.
func (d *Dictionary) Len() int { return len(d.entries) }
