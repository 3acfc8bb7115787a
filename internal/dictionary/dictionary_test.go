package dictionary

import (
	"strings"
	"testing"
)

const sampleDict = `
fields:
  - name: CS_SEXO
    kind: categorical
    codes:
      - {code: "1", label: "Masculino"}
      - {code: "2", label: "Feminino"}
      - {code: "9", label: "Ignorado"}
  - name: FEBRE
    kind: checkbox
    codes:
      - {code: "1", label: "Sim"}
  - name: DT_NASC
    kind: date
  - name: OBSERVA
    kind: text
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(sampleDict))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Len() != 4 {
		t.Fatalf("len = %d, want 4", d.Len())
	}
	f, ok := d.Field("CS_SEXO")
	if !ok {
		t.Fatal("CS_SEXO missing")
	}
	if f.Kind != Categorical {
		t.Fatalf("kind = %v", f.Kind)
	}
	if l, ok := f.Label("2"); !ok || l != "Feminino" {
		t.Fatalf("Label(2) = %q, %v", l, ok)
	}
	if _, ok := f.Label("3"); ok {
		t.Fatal("Label(3) should not exist")
	}
	// Order preserved from the document
	if f.Codes[0].Value != "1" || f.Codes[2].Value != "9" {
		t.Fatalf("code order lost: %v", f.Codes)
	}
}

func TestIsLabelFoldsCase(t *testing.T) {
	d, err := Parse([]byte(sampleDict))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f, _ := d.Field("CS_SEXO")
	for _, v := range []string{"Masculino", "MASCULINO", " masculino "} {
		if !f.IsLabel(v) {
			t.Errorf("IsLabel(%q) = false", v)
		}
	}
	if f.IsLabel("1") {
		t.Error("IsLabel(1) = true; codes are not labels")
	}
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			"empty code map on categorical",
			"fields:\n  - name: X\n    kind: categorical\n",
			"non-empty code map",
		},
		{
			"duplicate field",
			"fields:\n  - name: X\n    kind: text\n  - name: X\n    kind: text\n",
			"duplicate dictionary field",
		},
		{
			"duplicate code",
			"fields:\n  - name: X\n    kind: categorical\n    codes:\n      - {code: \"1\", label: a}\n      - {code: \"1\", label: b}\n",
			"duplicate code",
		},
		{
			"unknown kind",
			"fields:\n  - name: X\n    kind: fancy\n",
			"unknown field kind",
		},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.doc))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: err = %v, want containing %q", tc.name, err, tc.want)
		}
	}
}

func TestMarkedLabel(t *testing.T) {
	d, _ := Parse([]byte(sampleDict))
	f, _ := d.Field("FEBRE")
	if got := f.MarkedLabel(); got != "Sim" {
		t.Fatalf("marked label = %q", got)
	}
	other := &Field{Name: "X", Kind: Checkbox, Codes: []Code{{Value: "2", Label: "Não"}}}
	if got := other.MarkedLabel(); got != "Sim" {
		t.Fatalf("fallback marked label = %q", got)
	}
}

func TestCheckboxFallbackLabelIndexed(t *testing.T) {
	// A checkbox field without code "1" still writes "Sim" for marked cells,
	// so "Sim" must register as one of the field's labels.
	d, err := Parse([]byte(`
fields:
  - name: MARCA
    kind: checkbox
    codes:
      - {code: "X", label: "Presente"}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f, _ := d.Field("MARCA")
	for _, v := range []string{"Sim", "SIM", " sim "} {
		if !f.IsLabel(v) {
			t.Errorf("IsLabel(%q) = false, want true", v)
		}
	}
	if !f.IsLabel("Presente") {
		t.Error("IsLabel(Presente) = false")
	}
}

func TestDefaultDictionary(t *testing.T) {
	d := Default()
	if d.Len() < 100 {
		t.Fatalf("built-in dictionary has %d fields, expected the full schema", d.Len())
	}
	sexo, ok := d.Field("CS_SEXO")
	if !ok {
		t.Fatal("CS_SEXO missing from built-in dictionary")
	}
	if l, _ := sexo.Label("1"); l != "Masculino" {
		t.Fatalf("CS_SEXO code 1 = %q", l)
	}
	evo, ok := d.Field("EVOLUCAO")
	if !ok {
		t.Fatal("EVOLUCAO missing")
	}
	if l, _ := evo.Label("2"); l != "Óbito" {
		t.Fatalf("EVOLUCAO code 2 = %q", l)
	}
	for _, name := range []string{"DT_NASC", "DT_SIN_PRI", "DT_INTERNA", "DT_ENTUTI", "DT_SAIDUTI", "DT_EVOLUCA"} {
		f, ok := d.Field(name)
		if !ok || f.Kind != Date {
			t.Errorf("%s: missing or not a date field", name)
		}
	}
}
