package schema

import "intake-service/internal/intake/model"

// Built-in alias tables. Aliases are matched after header normalization
// (lowercase, no spaces/underscores/hyphens), so "plu code" and "plu_code"
// are the same alias; both spellings are kept as the sheets use them.

func productSchema() model.Schema {
	return model.Schema{
		Kind:     model.KindProduct,
		Required: []string{model.FieldPLUCode},
		Fields: []model.Field{
			{Key: model.FieldPLUCode, Aliases: []string{"plu", "plu code", "plucode", "plu-code", "plu_code"}},
			{Key: model.FieldDescription, Aliases: []string{"description", "desc", "productdescription"}},
			{Key: model.FieldSubgroup, Aliases: []string{"subgroup", "category", "sub", "subcategory", "productsubgroup"}},
			{Key: model.FieldSupplierCode, Aliases: []string{"3digitsupplier", "supplier", "threedigitsupplier", "3digitsuppliercode", "threedigitsuppliercode"}},
			{Key: model.FieldSeason, Aliases: []string{"season"}},
			{Key: model.FieldMainSupplier, Aliases: []string{"suppliercode", "main-supplier", "suppliermain", "productsupplier"}},
			{Key: model.FieldCostPrice, Aliases: []string{"costprice", "cost"}},
			{Key: model.FieldBarcode, Aliases: []string{"barcode", "bar code", "productbarcode", "product-barcode", "barcodes", "barcode(s)"}},
			{Key: model.FieldVATRate, Aliases: []string{"vatrate", "vat", "vatcode", "vat-code", "productvatrate", "productvatcode"}},
			{Key: model.FieldRRP, Aliases: []string{"rrp"}},
			{Key: model.FieldSellPrice, Aliases: []string{"sellingprice", "sellprice", "priceforsell", "selling", "productsellingprice"}},
			{Key: model.FieldStgPrice, Aliases: []string{"stgprice", "stgretailprice", "sterlingprice", "productstgprice"}},
			{Key: model.FieldTariff, Aliases: []string{"tariffcode", "tariff"}},
			{Key: model.FieldWeb, Aliases: []string{"web", "forweb"}},
		},
	}
}

func clothingSchema() model.Schema {
	return model.Schema{
		Kind:     model.KindClothing,
		Required: []string{model.FieldStyleCode, model.FieldDescription},
		Fields: []model.Field{
			{Key: model.FieldStyleCode, Aliases: []string{"stylecode", "productstylecode", "style-code", "style_code", "plu", "plucode", "plu-code", "plu_code"}},
			{Key: model.FieldDescription, Aliases: []string{"description", "desc"}},
			{Key: model.FieldSize, Aliases: []string{"size"}},
			{Key: model.FieldColour, Aliases: []string{"colour", "color"}},
			{Key: model.FieldSubgroup, Aliases: []string{"subgroup", "category", "sub group"}},
			{Key: model.FieldSupplierCode, Aliases: []string{"3digitsupplier", "supplier code", "suppliercode"}},
			{Key: model.FieldSeason, Aliases: []string{"season"}},
			{Key: model.FieldMainSupplier, Aliases: []string{"mainsupplier", "main supplier"}},
			{Key: model.FieldCostPrice, Aliases: []string{"costprice", "cost price", "cost"}},
			{Key: model.FieldBarcode, Aliases: []string{"barcode", "bar code", "productbarcode", "barcodes", "barcode(s)"}},
			{Key: model.FieldVATRate, Aliases: []string{"vatrate", "vat rate", "vat", "vatcode"}},
			{Key: model.FieldRRP, Aliases: []string{"rrp"}},
			{Key: model.FieldSellPrice, Aliases: []string{"sellingprice", "selling price", "sellprice"}},
			{Key: model.FieldStgPrice, Aliases: []string{"stgretailprice", "stg retail price", "stgprice"}},
			{Key: model.FieldTariff, Aliases: []string{"tariffcode", "tariff-code", "tariff"}},
			{Key: model.FieldBrand, Aliases: []string{"brandinstore", "brand in store", "brand"}},
			{Key: model.FieldProductType, Aliases: []string{"producttype", "product type"}},
			{Key: model.FieldWeb, Aliases: []string{"web", "online", "website", "forweb"}},
			{Key: model.FieldCountry, Aliases: []string{"countryoforigin", "country of origin", "origin"}},
			{Key: model.FieldCountryCode, Aliases: []string{"countrycode", "country code"}},
		},
	}
}

func priceAmendmentSchema() model.Schema {
	return model.Schema{
		Kind:     model.KindPriceAmendment,
		Required: []string{model.FieldPLUCode},
		Fields: []model.Field{
			{Key: model.FieldPLUCode, Aliases: []string{"plu", "plu code", "plucode", "plu-code", "plu_code"}},
			{Key: model.FieldDescription, Aliases: []string{"description", "desc", "productdescription"}},
			{Key: model.FieldMainSupplier, Aliases: []string{
				"3digitsupplier", "supplier", "threedigitsupplier", "3digitsuppliercode",
				"threedigitsuppliercode", "suppliercode", "main-supplier", "suppliermain", "productsupplier",
			}},
			{Key: model.FieldCostPrice, Aliases: []string{"costprice", "cost"}},
			{Key: model.FieldRRP, Aliases: []string{"rrp"}},
			{Key: model.FieldSellPrice, Aliases: []string{"sellingprice", "sellprice", "priceforsell", "selling", "productsellingprice"}},
			{Key: model.FieldStgPrice, Aliases: []string{"stgprice", "stgretailprice", "sterlingprice", "productstgprice"}},
		},
	}
}

// referenceSchema describes an "active list" export of items already in the
// catalogue. Code aliases come from the record kind's own key field.
func referenceSchema(codeAliases []string) model.Schema {
	return model.Schema{
		Kind: model.KindReference,
		Fields: []model.Field{
			{Key: model.FieldCode, Aliases: codeAliases},
			{Key: model.FieldBarcode, Aliases: []string{"barcode", "bar code", "productbarcode", "barcodes", "barcode(s)"}},
		},
	}
}

func supplierSchema() model.Schema {
	return model.Schema{
		Kind: model.KindReference,
		Fields: []model.Field{
			{Key: model.FieldSupplierCode, Aliases: []string{
				"suppliercode", "supplier", "3digitsupplier", "3digitsuppliercode", "threedigitsuppliercode", "code",
			}},
		},
	}
}

func defaultRules() model.Rules {
	return model.Rules{
		BadChars: "'%’‘“”`,",
		VATCodes: map[float64]int{
			23.0: 1,
			13.5: 2,
			9.0:  3,
		},
		DescriptionMax: 50,
		ColourMax:      10,
		CodeMax:        15,
	}
}
