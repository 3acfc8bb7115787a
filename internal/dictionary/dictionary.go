// Package dictionary holds the parsed code dictionary that drives semantic
// mapping: field name → kind → ordered (code, label) pairs. A Dictionary is
// built once before any row processing and read-only afterwards.
package dictionary

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind classifies how a field's raw values are interpreted.
type Kind int

const (
	Categorical Kind = iota // numeric codes standing for enumerated labels
	Checkbox                // binary categorical where code "1" means marked
	Date                    // day-first date strings
	Numeric                 // plain numbers, no translation
	Text                    // free text, no translation
)

var kindNames = map[Kind]string{
	Categorical: "categorical",
	Checkbox:    "checkbox",
	Date:        "date",
	Numeric:     "numeric",
	Text:        "text",
}

func (k Kind) String() string { return kindNames[k] }

// UnmarshalYAML accepts the lowercase kind names used in dictionary files.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	for kk, name := range kindNames {
		if strings.EqualFold(s, name) {
			*k = kk
			return nil
		}
	}
	return fmt.Errorf("unknown field kind %q", s)
}

// MarshalYAML emits the lowercase kind name.
func (k Kind) MarshalYAML() (interface{}, error) { return k.String(), nil }

// Code binds one raw code string to its textual label.
type Code struct {
	Value string `yaml:"code"`
	Label string `yaml:"label"`
}

// Field is one dictionary entry. Codes keep document order; codes are unique
// within a field.
type Field struct {
	Name  string `yaml:"name"`
	Kind  Kind   `yaml:"kind"`
	Codes []Code `yaml:"codes,omitempty"`

	labelFold map[string]struct{} // upper-cased labels, built on load
}

// Label returns the label bound to a raw code, exact match only.
func (f *Field) Label(code string) (string, bool) {
	for _, c := range f.Codes {
		if c.Value == code {
			return c.Label, true
		}
	}
	return "", false
}

// IsLabel reports whether v equals one of the field's labels, ignoring case.
// The normalizer upper-cases textual cells, so label equality has to fold
// case or re-running the pipeline over its own output would re-translate.
func (f *Field) IsLabel(v string) bool {
	_, ok := f.labelFold[strings.ToUpper(strings.TrimSpace(v))]
	return ok
}

// MarkedLabel returns the label meaning "marked" for a checkbox field: the
// label bound to code "1", or "Sim" when the map has no explicit "1".
func (f *Field) MarkedLabel() string {
	if l, ok := f.Label("1"); ok {
		return l
	}
	return "Sim"
}

func (f *Field) index() {
	f.labelFold = make(map[string]struct{}, len(f.Codes)+1)
	for _, c := range f.Codes {
		f.labelFold[strings.ToUpper(strings.TrimSpace(c.Label))] = struct{}{}
	}
	// The mapper writes the marked label for raw "1" on checkbox fields even
	// when no code spells it, so it must count as a label here or those cells
	// would read as unresolved on the next pass.
	if f.Kind == Checkbox {
		f.labelFold[strings.ToUpper(f.MarkedLabel())] = struct{}{}
	}
}

// Dictionary is the immutable set of fields keyed by canonical name.
type Dictionary struct {
	fields map[string]*Field
	order  []string
}

type document struct {
	Fields []*Field `yaml:"fields"`
}

// Parse builds a Dictionary from a YAML document and validates it.
func Parse(data []byte) (*Dictionary, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse dictionary: %w", err)
	}
	return build(doc.Fields)
}

// Load reads and parses a dictionary file.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return Parse(data)
}

func build(fields []*Field) (*Dictionary, error) {
	d := &Dictionary{fields: make(map[string]*Field, len(fields))}
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return nil, fmt.Errorf("dictionary field with empty name")
		}
		f.Name = name
		if _, dup := d.fields[name]; dup {
			return nil, fmt.Errorf("duplicate dictionary field %s", name)
		}
		if err := validateField(f); err != nil {
			return nil, err
		}
		f.index()
		d.fields[name] = f
		d.order = append(d.order, name)
	}
	return d, nil
}

func validateField(f *Field) error {
	switch f.Kind {
	case Categorical, Checkbox:
		if len(f.Codes) == 0 {
			return fmt.Errorf("field %s: %s kind requires a non-empty code map", f.Name, f.Kind)
		}
	}
	seen := make(map[string]struct{}, len(f.Codes))
	for _, c := range f.Codes {
		if _, dup := seen[c.Value]; dup {
			return fmt.Errorf("field %s: duplicate code %q", f.Name, c.Value)
		}
		seen[c.Value] = struct{}{}
	}
	return nil
}

// Field returns the entry for a canonical field name.
func (d *Dictionary) Field(name string) (*Field, bool) {
	f, ok := d.fields[name]
	return f, ok
}

// Has reports whether the dictionary covers a field.
func (d *Dictionary) Has(name string) bool { _, ok := d.fields[name]; return ok }

// Names returns field names in document order.
func (d *Dictionary) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Len returns the number of fields.
func (d *Dictionary) Len() int { return len(d.order) }
