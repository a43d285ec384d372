package service

import (
	"math"

	"github.com/shopspring/decimal"

	"intake-service/internal/intake/model"
	"intake-service/internal/utils"
)

// rowView reads one table row through the column assignment. Unassigned
// fields read as zero values.
type rowView struct {
	t *model.Table
	a model.Assignment
	i int
}

func (v rowView) cell(key string) model.Cell {
	col, ok := v.a.Column(key)
	if !ok {
		return model.Cell{}
	}
	return v.t.Cell(v.i, col)
}

func (v rowView) str(key string) string { return NormalizeValue(v.cell(key)) }

func (v rowView) dec(key string) decimal.NullDecimal {
	c := v.cell(key)
	switch c.Kind {
	case model.CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(c.Num))
	case model.CellText:
		if f, ok := utils.ParseNumber(c.Text); ok {
			return decimal.NewNullDecimal(decimal.NewFromFloat(f))
		}
	}
	return decimal.NullDecimal{}
}

// integer reads whole numbers in int32 range only; 13.5, 1e30 or "abc"
// give nil.
func (v rowView) integer(key string) *int {
	c := v.cell(key)
	var f float64
	switch c.Kind {
	case model.CellNumber:
		f = c.Num
	case model.CellText:
		p, ok := utils.ParseNumber(c.Text)
		if !ok {
			return nil
		}
		f = p
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return nil
	}
	n := int(f)
	return &n
}

// checkRequired reports required fields without an assigned column.
func checkRequired(kind model.Kind, a model.Assignment, required []string) error {
	var missing []string
	for _, key := range required {
		if _, ok := a.Column(key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &model.MissingFieldsError{Kind: kind, Fields: missing}
	}
	return nil
}

func build[T any](kind model.Kind, t *model.Table, a model.Assignment, required []string, mk func(rowView) T) ([]T, error) {
	if err := checkRequired(kind, a, required); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(t.Rows))
	for i := range t.Rows {
		out = append(out, mk(rowView{t: t, a: a, i: i}))
	}
	return out, nil
}

func BuildProducts(t *model.Table, a model.Assignment, required []string) ([]*model.Product, error) {
	return build(model.KindProduct, t, a, required, func(v rowView) *model.Product {
		return &model.Product{
			PLUCode:      v.str(model.FieldPLUCode),
			Description:  v.str(model.FieldDescription),
			Subgroup:     v.str(model.FieldSubgroup),
			SupplierCode: v.str(model.FieldSupplierCode),
			Season:       v.str(model.FieldSeason),
			MainSupplier: v.str(model.FieldMainSupplier),
			CostPrice:    v.dec(model.FieldCostPrice),
			Barcode:      v.str(model.FieldBarcode),
			VATCode:      v.integer(model.FieldVATRate),
			RRP:          v.dec(model.FieldRRP),
			SellPrice:    v.dec(model.FieldSellPrice),
			StgPrice:     v.dec(model.FieldStgPrice),
			Tariff:       v.str(model.FieldTariff),
			Web:          v.str(model.FieldWeb),
			SourceLine:   model.Line(v.i),
		}
	})
}

func BuildClothing(t *model.Table, a model.Assignment, required []string) ([]*model.Clothing, error) {
	return build(model.KindClothing, t, a, required, func(v rowView) *model.Clothing {
		return &model.Clothing{
			StyleCode:    v.str(model.FieldStyleCode),
			Description:  v.str(model.FieldDescription),
			Size:         v.str(model.FieldSize),
			Colour:       v.str(model.FieldColour),
			Subgroup:     v.str(model.FieldSubgroup),
			SupplierCode: v.str(model.FieldSupplierCode),
			Season:       v.str(model.FieldSeason),
			MainSupplier: v.str(model.FieldMainSupplier),
			CostPrice:    v.dec(model.FieldCostPrice),
			Barcode:      v.str(model.FieldBarcode),
			VATCode:      v.integer(model.FieldVATRate),
			RRP:          v.dec(model.FieldRRP),
			SellPrice:    v.dec(model.FieldSellPrice),
			StgPrice:     v.dec(model.FieldStgPrice),
			Tariff:       v.str(model.FieldTariff),
			Brand:        v.str(model.FieldBrand),
			ProductType:  v.str(model.FieldProductType),
			Web:          v.str(model.FieldWeb),
			Country:      v.str(model.FieldCountry),
			CountryCode:  v.str(model.FieldCountryCode),
			SourceLine:   model.Line(v.i),
		}
	})
}

func BuildPriceAmendments(t *model.Table, a model.Assignment, required []string) ([]*model.PriceAmendment, error) {
	return build(model.KindPriceAmendment, t, a, required, func(v rowView) *model.PriceAmendment {
		return &model.PriceAmendment{
			PLUCode:      v.str(model.FieldPLUCode),
			Description:  v.str(model.FieldDescription),
			MainSupplier: v.str(model.FieldMainSupplier),
			CostPrice:    v.dec(model.FieldCostPrice),
			RRP:          v.dec(model.FieldRRP),
			SellPrice:    v.dec(model.FieldSellPrice),
			StgPrice:     v.dec(model.FieldStgPrice),
			SourceLine:   model.Line(v.i),
		}
	})
}

// BuildRecords builds the record shape of kind as the closed Record set.
func BuildRecords(kind model.Kind, t *model.Table, a model.Assignment, required []string) ([]model.Record, error) {
	switch kind {
	case model.KindProduct:
		ps, err := BuildProducts(t, a, required)
		return asRecords(ps), err
	case model.KindClothing:
		cs, err := BuildClothing(t, a, required)
		return asRecords(cs), err
	case model.KindPriceAmendment:
		as, err := BuildPriceAmendments(t, a, required)
		return asRecords(as), err
	}
	return nil, ErrUnknownKind
}

func asRecords[T model.Record](in []T) []model.Record {
	if in == nil {
		return nil
	}
	out := make([]model.Record, len(in))
	for i, r := range in {
		out[i] = r
	}
	return out
}
