package model

// Kind names the upload flavour; each kind has its own schema and record shape.
type Kind string

const (
	KindProduct        Kind = "product"
	KindClothing       Kind = "clothing"
	KindPriceAmendment Kind = "price_amendment"
	KindReference      Kind = "reference"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindProduct, KindClothing, KindPriceAmendment:
		return Kind(s), true
	}
	return "", false
}

// canonical field keys
const (
	FieldPLUCode      = "plu_code"
	FieldStyleCode    = "style_code"
	FieldDescription  = "description"
	FieldSize         = "size"
	FieldColour       = "colour"
	FieldSubgroup     = "subgroup"
	FieldSupplierCode = "supplier_code"
	FieldSeason       = "season"
	FieldMainSupplier = "main_supplier"
	FieldCostPrice    = "cost_price"
	FieldBarcode      = "barcode"
	FieldVATRate      = "vat_rate"
	FieldRRP          = "rrp"
	FieldSellPrice    = "sell_price"
	FieldStgPrice     = "stg_price"
	FieldTariff       = "tariff"
	FieldWeb          = "web"
	FieldBrand        = "brand"
	FieldProductType  = "product_type"
	FieldCountry      = "country"
	FieldCountryCode  = "country_code"

	// reference sheets
	FieldCode = "code"
)

// MoneyFields are rounded to two places by the decimal fix.
var MoneyFields = []string{FieldCostPrice, FieldRRP, FieldSellPrice, FieldStgPrice}

// Field is one canonical key with its header aliases, tried in order.
type Field struct {
	Key     string   `json:"key" yaml:"key"`
	Aliases []string `json:"aliases" yaml:"aliases"`
}

// Schema is an ordered field list. Order is part of the contract: the
// resolver is greedy, so an earlier field keeps a column a later field
// might have matched better.
type Schema struct {
	Kind     Kind     `json:"kind" yaml:"kind"`
	Fields   []Field  `json:"fields" yaml:"fields"`
	Required []string `json:"required,omitempty" yaml:"required"`
}

func (s Schema) Field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Aliases flattens every alias of every field, in schema order.
func (s Schema) Aliases() []string {
	var out []string
	for _, f := range s.Fields {
		out = append(out, f.Aliases...)
	}
	return out
}

// Rules are the fixed tables and limits used by auto-fixes and checks.
type Rules struct {
	BadChars       string          `json:"bad_chars"`
	VATCodes       map[float64]int `json:"-"`
	DescriptionMax int             `json:"description_max"`
	ColourMax      int             `json:"colour_max"`
	CodeMax        int             `json:"code_max"`
}

// Assignment maps a field key to the actual column resolved for it.
type Assignment map[string]string

func (a Assignment) Column(key string) (string, bool) {
	c, ok := a[key]
	return c, ok && c != ""
}
