package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake-service/internal/intake/model"
	"intake-service/internal/intake/schema"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Cost Price":       "costprice",
		"  cost_price  ":   "costprice",
		"COST-PRICE":       "costprice",
		"3 Digit Supplier": "3digitsupplier",
		"":                 "",
	}
	for in, want := range cases {
		got := NormalizeHeader(in)
		assert.Equal(t, want, got, in)
		assert.Equal(t, got, NormalizeHeader(got), "idempotent for %q", in)
	}
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "ABC 1", NormalizeValue(model.Text("  ABC 1 ")))
	assert.Equal(t, "123", NormalizeValue(model.Number(123)))
	assert.Equal(t, "12.5", NormalizeValue(model.Number(12.5)))
	assert.Equal(t, "", NormalizeValue(model.Empty()))

	v := NormalizeValue(model.Text(" x "))
	assert.Equal(t, v, NormalizeValue(model.Text(v)))
}

func TestCharMatch(t *testing.T) {
	assert.InDelta(t, 1.0, CharMatch("vatcode", "vat-code"), 1e-9)
	assert.InDelta(t, 1.0, CharMatch("", ""), 1e-9)
	assert.InDelta(t, 1.0, CharMatch("name", "nmae"), 1e-9)
	assert.InDelta(t, 0.7, CharMatch("productname", "product_id"), 1e-9)
	assert.InDelta(t, 0.0, CharMatch("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.0, CharMatch("abc", ""), 1e-9)
}

func TestCharMatch_SymmetricAndBounded(t *testing.T) {
	words := []string{"plu", "plucode", "description", "desc", "costprice", "barcode", "vat", "", "rrp"}
	for _, a := range words {
		for _, b := range words {
			s := CharMatch(a, b)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
			assert.InDelta(t, s, CharMatch(b, a), 1e-9, "%q vs %q", a, b)
		}
	}
}

func TestResolve_ExactAndFuzzy(t *testing.T) {
	sc, ok := schema.Defaults().Schema(model.KindProduct)
	require.True(t, ok)

	a, diags := Resolve([]string{"PLU Code", "Desc", "Cost Pric"}, sc)

	assert.Equal(t, "PLU Code", a[model.FieldPLUCode])
	assert.Equal(t, "Desc", a[model.FieldDescription])
	assert.Equal(t, "Cost Pric", a[model.FieldCostPrice])

	var info, barcodeErr *model.Diagnostic
	for i := range diags {
		d := &diags[i]
		if d.Field == model.FieldCostPrice {
			info = d
		}
		if d.Field == model.FieldBarcode {
			barcodeErr = d
		}
	}
	require.NotNil(t, info)
	assert.Equal(t, model.SeverityInfo, info.Severity)
	assert.Equal(t, "Cost Pric", info.Column)
	assert.GreaterOrEqual(t, info.Score, MatchThreshold)

	require.NotNil(t, barcodeErr)
	assert.Equal(t, model.SeverityError, barcodeErr.Severity)
	_, assigned := a.Column(model.FieldBarcode)
	assert.False(t, assigned)
}

func TestResolve_ExactBeatsEarlierFuzzy(t *testing.T) {
	sc := model.Schema{Fields: []model.Field{
		{Key: "description", Aliases: []string{"description"}},
	}}
	a, diags := Resolve([]string{"Descriptio", "Description"}, sc)
	assert.Equal(t, "Description", a["description"])
	assert.Empty(t, diags)
}

func TestResolve_ExactPassRunsFirst(t *testing.T) {
	sc := model.Schema{Fields: []model.Field{
		{Key: "description", Aliases: []string{"description"}},
		{Key: "cost_price", Aliases: []string{"costprice"}},
	}}
	// "description" scores exactly MatchThreshold against "costprice"
	assert.InDelta(t, MatchThreshold, CharMatch("description", "Cost Price"), 1e-9)

	a, diags := Resolve([]string{"Cost Price"}, sc)
	assert.Equal(t, model.Assignment{"cost_price": "Cost Price"}, a)
	require.Len(t, diags, 1)
	assert.Equal(t, "description", diags[0].Field)
	assert.Equal(t, model.SeverityError, diags[0].Severity)
}

func TestResolve_FuzzyIsGreedyInSchemaOrder(t *testing.T) {
	sc := model.Schema{Fields: []model.Field{
		{Key: "first", Aliases: []string{"barcodes"}},
		{Key: "second", Aliases: []string{"barcode"}},
	}}
	a, _ := Resolve([]string{"Bar codez"}, sc)
	assert.Equal(t, "Bar codez", a["first"])
	_, ok := a.Column("second")
	assert.False(t, ok)
}

func TestResolve_UsedColumnIsSkipped(t *testing.T) {
	f := model.Field{Key: "description", Aliases: []string{"description"}}
	used := ColumnSet{}
	used.Add("Description")

	col, d, ok := ResolveField([]string{"Description", "Descriptions"}, f, used)
	require.True(t, ok)
	assert.Equal(t, "Descriptions", col)
	require.NotNil(t, d)
	assert.Equal(t, model.SeverityInfo, d.Severity)
	assert.True(t, used.Has("Descriptions"))
}

func TestResolve_NoColumnAssignedTwice(t *testing.T) {
	sets := schema.Defaults()
	rng := rand.New(rand.NewSource(7))
	for _, kind := range []model.Kind{model.KindProduct, model.KindClothing, model.KindPriceAmendment} {
		sc, _ := sets.Schema(kind)
		pool := sc.Aliases()
		pool = append(pool, "notes", "qty", "Column 7", "plu code ", "Barcode2")
		for n := 0; n < 200; n++ {
			headers := make([]string, 1+rng.Intn(12))
			for i := range headers {
				headers[i] = pool[rng.Intn(len(pool))]
			}
			a, _ := Resolve(headers, sc)
			seen := map[string]string{}
			for key, col := range a {
				prev, dup := seen[col]
				require.False(t, dup, "column %q assigned to %s and %s (%v)", col, prev, key, headers)
				seen[col] = key
			}
		}
	}
}

func TestCoverage(t *testing.T) {
	sc := model.Schema{Fields: []model.Field{
		{Key: "plu_code", Aliases: []string{"plu code"}},
		{Key: "description", Aliases: []string{"description", "desc"}},
	}}
	missing, unrecognized := Coverage([]string{"PLU_Code", "Notes"}, sc)
	assert.Equal(t, []string{"description"}, missing)
	assert.Equal(t, []string{"Notes"}, unrecognized)
}

func TestRequiredErrors(t *testing.T) {
	sc := model.Schema{Required: []string{"plu_code"}}
	diags := []model.Diagnostic{
		{Severity: model.SeverityError, Field: "plu_code"},
		{Severity: model.SeverityError, Field: "barcode"},
		{Severity: model.SeverityInfo, Field: "plu_code"},
	}
	got := RequiredErrors(sc, diags)
	require.Len(t, got, 1)
	assert.Equal(t, "plu_code", got[0].Field)
}

func textRow(vals ...string) []model.Cell {
	out := make([]model.Cell, len(vals))
	for i, v := range vals {
		if v == "" {
			out[i] = model.Empty()
			continue
		}
		out[i] = model.Text(v)
	}
	return out
}

func TestDetectHeaderRow(t *testing.T) {
	expected := []string{"PLU Code", "Description", "Cost Price"}

	t.Run("junk first row", func(t *testing.T) {
		g := model.Grid{
			textRow("Supplier upload 2024", "", ""),
			textRow("PLU Code", "Description", "Cost Price"),
			textRow("P1", "Shirt", "9.99"),
		}
		assert.Equal(t, 1, DetectHeaderRow(g, expected, 10))
	})

	t.Run("one of three is enough", func(t *testing.T) {
		g := model.Grid{
			textRow("x", "y"),
			textRow("plu_code", "qty"),
		}
		assert.Equal(t, 1, DetectHeaderRow(g, expected, 10))
	})

	t.Run("nothing matches", func(t *testing.T) {
		g := model.Grid{
			textRow("x", "y"),
			textRow("1", "2"),
		}
		assert.Equal(t, 0, DetectHeaderRow(g, expected, 10))
	})

	t.Run("first of equal rows wins", func(t *testing.T) {
		g := model.Grid{
			textRow("", ""),
			textRow("PLU Code", "Description"),
			textRow("PLU Code", "Description"),
		}
		assert.Equal(t, 1, DetectHeaderRow(g, expected, 10))
	})

	t.Run("scan window", func(t *testing.T) {
		g := model.Grid{
			textRow("a"), textRow("b"), textRow("c"),
			textRow("PLU Code", "Description", "Cost Price"),
		}
		assert.Equal(t, 0, DetectHeaderRow(g, expected, 2))
		assert.Equal(t, 3, DetectHeaderRow(g, expected, 0))
	})
}
