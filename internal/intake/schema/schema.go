// Package schema holds the alias tables and fix/check rules as immutable
// configuration values. Defaults are built in; a YAML file can replace the
// schema of any kind and override individual rules.
package schema

import (
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"intake-service/internal/intake/model"
)

// Set is one complete configuration. Accessors return copies.
type Set struct {
	schemas   map[model.Kind]model.Schema
	suppliers model.Schema
	rules     model.Rules
}

func Defaults() Set {
	return Set{
		schemas: map[model.Kind]model.Schema{
			model.KindProduct:        productSchema(),
			model.KindClothing:       clothingSchema(),
			model.KindPriceAmendment: priceAmendmentSchema(),
		},
		suppliers: supplierSchema(),
		rules:     defaultRules(),
	}
}

func (s Set) Schema(k model.Kind) (model.Schema, bool) {
	sc, ok := s.schemas[k]
	if !ok {
		return model.Schema{}, false
	}
	return cloneSchema(sc), true
}

// Reference is the schema of the "already in the system" list for kind k:
// its code column uses the aliases of the kind's key field.
func (s Set) Reference(k model.Kind) model.Schema {
	sc := s.schemas[k]
	key := model.FieldPLUCode
	if k == model.KindClothing {
		key = model.FieldStyleCode
	}
	f, _ := sc.Field(key)
	return referenceSchema(append([]string(nil), f.Aliases...))
}

func (s Set) Suppliers() model.Schema { return cloneSchema(s.suppliers) }

func (s Set) Rules() model.Rules {
	r := s.rules
	r.VATCodes = make(map[float64]int, len(s.rules.VATCodes))
	for k, v := range s.rules.VATCodes {
		r.VATCodes[k] = v
	}
	return r
}

func cloneSchema(sc model.Schema) model.Schema {
	out := model.Schema{Kind: sc.Kind, Required: append([]string(nil), sc.Required...)}
	out.Fields = make([]model.Field, len(sc.Fields))
	for i, f := range sc.Fields {
		out.Fields[i] = model.Field{Key: f.Key, Aliases: append([]string(nil), f.Aliases...)}
	}
	return out
}

// file layout of SCHEMA_FILE
type fileConfig struct {
	Rules struct {
		BadChars       *string        `yaml:"bad_chars"`
		VATCodes       map[string]int `yaml:"vat_codes"`
		DescriptionMax int            `yaml:"description_max"`
		ColourMax      int            `yaml:"colour_max"`
		CodeMax        int            `yaml:"code_max"`
	} `yaml:"rules"`
	Schemas   map[string]model.Schema `yaml:"schemas"`
	Suppliers *model.Schema           `yaml:"suppliers"`
}

// LoadFile overlays the YAML file at path on top of Defaults.
func LoadFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return Set{}, eris.Wrapf(err, "schema: open %s", path)
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return Set{}, eris.Wrapf(err, "schema: load %s", path)
	}
	return s, nil
}

func Parse(r io.Reader) (Set, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && err != io.EOF {
		return Set{}, eris.Wrap(err, "schema: decode yaml")
	}

	s := Defaults()
	for name, sc := range fc.Schemas {
		k, ok := model.ParseKind(name)
		if !ok {
			return Set{}, eris.Errorf("schema: unknown kind %q", name)
		}
		if err := check(sc); err != nil {
			return Set{}, eris.Wrapf(err, "schema: %s", name)
		}
		sc.Kind = k
		s.schemas[k] = sc
	}
	if fc.Suppliers != nil {
		if err := check(*fc.Suppliers); err != nil {
			return Set{}, eris.Wrap(err, "schema: suppliers")
		}
		fc.Suppliers.Kind = model.KindReference
		s.suppliers = *fc.Suppliers
	}

	if fc.Rules.BadChars != nil {
		s.rules.BadChars = *fc.Rules.BadChars
	}
	if len(fc.Rules.VATCodes) > 0 {
		codes := make(map[float64]int, len(fc.Rules.VATCodes))
		for k, v := range fc.Rules.VATCodes {
			pct, err := strconv.ParseFloat(k, 64)
			if err != nil {
				return Set{}, eris.Wrapf(err, "schema: vat rate %q", k)
			}
			codes[pct] = v
		}
		s.rules.VATCodes = codes
	}
	if fc.Rules.DescriptionMax > 0 {
		s.rules.DescriptionMax = fc.Rules.DescriptionMax
	}
	if fc.Rules.ColourMax > 0 {
		s.rules.ColourMax = fc.Rules.ColourMax
	}
	if fc.Rules.CodeMax > 0 {
		s.rules.CodeMax = fc.Rules.CodeMax
	}
	return s, nil
}

func check(sc model.Schema) error {
	if len(sc.Fields) == 0 {
		return eris.New("no fields")
	}
	keys := make(map[string]bool, len(sc.Fields))
	for _, f := range sc.Fields {
		if f.Key == "" {
			return eris.New("field without key")
		}
		if keys[f.Key] {
			return eris.Errorf("duplicate field %q", f.Key)
		}
		if len(f.Aliases) == 0 {
			return eris.Errorf("field %q has no aliases", f.Key)
		}
		keys[f.Key] = true
	}
	for _, r := range sc.Required {
		if !keys[r] {
			return eris.Errorf("required field %q is not declared", r)
		}
	}
	return nil
}
