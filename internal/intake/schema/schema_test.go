package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake-service/internal/intake/model"
)

func TestDefaults_AllKinds(t *testing.T) {
	s := Defaults()
	for _, k := range []model.Kind{model.KindProduct, model.KindClothing, model.KindPriceAmendment} {
		sc, ok := s.Schema(k)
		require.True(t, ok, k)
		assert.Equal(t, k, sc.Kind)
		assert.NotEmpty(t, sc.Fields)
		assert.NoError(t, check(sc))
	}
	_, ok := s.Schema(model.KindReference)
	assert.False(t, ok)
}

func TestDefaults_ClothingIsSupersetOfProductKeys(t *testing.T) {
	s := Defaults()
	clothing, _ := s.Schema(model.KindClothing)
	for _, key := range []string{model.FieldSize, model.FieldColour, model.FieldBrand, model.FieldCountry} {
		_, ok := clothing.Field(key)
		assert.True(t, ok, key)
	}
	product, _ := s.Schema(model.KindProduct)
	_, ok := product.Field(model.FieldColour)
	assert.False(t, ok)
}

func TestSchema_ReturnsCopies(t *testing.T) {
	s := Defaults()
	sc, _ := s.Schema(model.KindProduct)
	sc.Fields[0].Aliases[0] = "mutated"
	sc.Fields = sc.Fields[:1]

	again, _ := s.Schema(model.KindProduct)
	assert.Equal(t, "plu", again.Fields[0].Aliases[0])
	assert.Greater(t, len(again.Fields), 1)

	r := s.Rules()
	r.VATCodes[23] = 99
	assert.Equal(t, 1, s.Rules().VATCodes[23])
}

func TestReference_UsesKeyAliases(t *testing.T) {
	s := Defaults()
	ref := s.Reference(model.KindClothing)
	code, ok := ref.Field(model.FieldCode)
	require.True(t, ok)
	assert.Contains(t, code.Aliases, "stylecode")

	ref = s.Reference(model.KindPriceAmendment)
	code, _ = ref.Field(model.FieldCode)
	assert.Equal(t, "plu", code.Aliases[0])
}

func TestParse_Overrides(t *testing.T) {
	in := `
rules:
  bad_chars: "%"
  vat_codes:
    "20": 4
    "0": 0
  code_max: 13
schemas:
  product:
    required: [plu_code]
    fields:
      - key: plu_code
        aliases: [item, item no]
      - key: description
        aliases: [title]
`
	s, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	r := s.Rules()
	assert.Equal(t, "%", r.BadChars)
	assert.Equal(t, map[float64]int{20: 4, 0: 0}, r.VATCodes)
	assert.Equal(t, 13, r.CodeMax)
	assert.Equal(t, 50, r.DescriptionMax)

	p, _ := s.Schema(model.KindProduct)
	assert.Equal(t, model.KindProduct, p.Kind)
	require.Len(t, p.Fields, 2)
	assert.Equal(t, []string{"item", "item no"}, p.Fields[0].Aliases)

	c, _ := s.Schema(model.KindClothing)
	assert.Greater(t, len(c.Fields), 10)
}

func TestParse_Empty(t *testing.T) {
	s, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Rules(), s.Rules())
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown kind":    "schemas:\n  shoes:\n    fields:\n      - key: a\n        aliases: [a]\n",
		"no aliases":      "schemas:\n  product:\n    fields:\n      - key: a\n",
		"duplicate field": "schemas:\n  product:\n    fields:\n      - key: a\n        aliases: [a]\n      - key: a\n        aliases: [b]\n",
		"bad required":    "schemas:\n  product:\n    required: [b]\n    fields:\n      - key: a\n        aliases: [a]\n",
		"bad vat":         "rules:\n  vat_codes:\n    abc: 1\n",
		"unknown key":     "colour: red\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  colour_max: 12\n"), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 12, s.Rules().ColourMax)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
