package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intake-service/internal/intake/model"
)

func productTable() (*model.Table, model.Assignment) {
	g := model.Grid{
		textRow("PLU", "Desc", "Cost", "VAT", "Barcode"),
		{model.Text("P1"), model.Text("Shirt"), model.Number(12.5), model.Number(1), model.Text("5012345")},
		{model.Text("P2"), model.Empty(), model.Text("9.99"), model.Number(13.5), model.Empty()},
	}
	a := model.Assignment{
		model.FieldPLUCode:     "PLU",
		model.FieldDescription: "Desc",
		model.FieldCostPrice:   "Cost",
		model.FieldVATRate:     "VAT",
		model.FieldBarcode:     "Barcode",
	}
	return model.TableFromGrid(g, 0), a
}

func TestBuildProducts(t *testing.T) {
	tbl, a := productTable()

	ps, err := BuildProducts(tbl, a, []string{model.FieldPLUCode})
	require.NoError(t, err)
	require.Len(t, ps, 2)

	assert.Equal(t, "P1", ps[0].PLUCode)
	assert.Equal(t, "Shirt", ps[0].Description)
	assert.Equal(t, "12.5", ps[0].CostPrice.Decimal.String())
	require.NotNil(t, ps[0].VATCode)
	assert.Equal(t, 1, *ps[0].VATCode)
	assert.Equal(t, "5012345", ps[0].Barcode)
	assert.Equal(t, 2, ps[0].Line())

	assert.Equal(t, "", ps[1].Description)
	assert.True(t, ps[1].CostPrice.Valid)
	assert.Equal(t, "9.99", ps[1].CostPrice.Decimal.String())
	assert.Nil(t, ps[1].VATCode, "13.5 is not a code")
	assert.Equal(t, 3, ps[1].Line())

	// unassigned fields read as empty
	assert.Equal(t, "", ps[0].Season)
	assert.False(t, ps[0].RRP.Valid)
}

func TestBuildProducts_VATCodeOutOfRange(t *testing.T) {
	g := model.Grid{
		textRow("PLU", "VAT"),
		{model.Text("P1"), model.Number(1e30)},
		{model.Text("P2"), model.Number(-1e12)},
		{model.Text("P3"), model.Text("3000000000")},
		{model.Text("P4"), model.Number(2)},
	}
	a := model.Assignment{model.FieldPLUCode: "PLU", model.FieldVATRate: "VAT"}

	ps, err := BuildProducts(model.TableFromGrid(g, 0), a, nil)
	require.NoError(t, err)
	require.Len(t, ps, 4)
	assert.Nil(t, ps[0].VATCode)
	assert.Nil(t, ps[1].VATCode)
	assert.Nil(t, ps[2].VATCode)
	require.NotNil(t, ps[3].VATCode)
	assert.Equal(t, 2, *ps[3].VATCode)
}

func TestBuild_MissingRequired(t *testing.T) {
	tbl, a := productTable()
	delete(a, model.FieldPLUCode)

	ps, err := BuildProducts(tbl, a, []string{model.FieldPLUCode})
	assert.Nil(t, ps)

	var missing *model.MissingFieldsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, model.KindProduct, missing.Kind)
	assert.Equal(t, []string{model.FieldPLUCode}, missing.Fields)
}

func TestBuildClothing(t *testing.T) {
	g := model.Grid{
		textRow("Style Code", "Description", "Size", "Colour"),
		textRow("S1", "Jacket", "M", "Navy"),
	}
	a := model.Assignment{
		model.FieldStyleCode:   "Style Code",
		model.FieldDescription: "Description",
		model.FieldSize:        "Size",
		model.FieldColour:      "Colour",
	}
	cs, err := BuildClothing(model.TableFromGrid(g, 0), a, []string{model.FieldStyleCode, model.FieldDescription})
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, "Item S1 | Jacket | M Navy", cs[0].String())
}

func TestBuildRecords(t *testing.T) {
	tbl, a := productTable()

	recs, err := BuildRecords(model.KindPriceAmendment, tbl, a, nil)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, model.KindPriceAmendment, recs[0].Kind())
	assert.Equal(t, "P1", recs[0].Code())
	assert.Equal(t, "", recs[0].BarcodeValue())

	_, err = BuildRecords(model.Kind("shoes"), tbl, a, nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}
