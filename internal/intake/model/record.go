package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Record is the closed set of row shapes: *Product, *Clothing, *PriceAmendment.
// Records are snapshots of the fixed table and are never written back.
type Record interface {
	Kind() Kind
	Line() int
	Code() string
	BarcodeValue() string
	SupplierValue() string
	TextFields() []NamedText
	fmt.Stringer
}

type NamedText struct {
	Field string
	Value string
}

// Attr selects the attribute a validator compares.
type Attr func(Record) string

var (
	AttrCode     Attr = func(r Record) string { return r.Code() }
	AttrBarcode  Attr = func(r Record) string { return r.BarcodeValue() }
	AttrSupplier Attr = func(r Record) string { return r.SupplierValue() }
)

type Product struct {
	PLUCode      string              `json:"pluCode"`
	Description  string              `json:"description"`
	Subgroup     string              `json:"subgroup"`
	SupplierCode string              `json:"supplierCode"`
	Season       string              `json:"season"`
	MainSupplier string              `json:"mainSupplier"`
	CostPrice    decimal.NullDecimal `json:"costPrice"`
	Barcode      string              `json:"barcode"`
	VATCode      *int                `json:"vatCode"`
	RRP          decimal.NullDecimal `json:"rrp"`
	SellPrice    decimal.NullDecimal `json:"sellPrice"`
	StgPrice     decimal.NullDecimal `json:"stgPrice"`
	Tariff       string              `json:"tariff"`
	Web          string              `json:"web"`
	SourceLine   int                 `json:"line"`
}

func (p *Product) Kind() Kind            { return KindProduct }
func (p *Product) Line() int             { return p.SourceLine }
func (p *Product) Code() string          { return p.PLUCode }
func (p *Product) BarcodeValue() string  { return p.Barcode }
func (p *Product) SupplierValue() string { return p.SupplierCode }
func (p *Product) String() string        { return fmt.Sprintf("Product %s | %s", p.PLUCode, p.Description) }

func (p *Product) TextFields() []NamedText {
	return []NamedText{
		{FieldPLUCode, p.PLUCode},
		{FieldDescription, p.Description},
		{FieldSubgroup, p.Subgroup},
		{FieldSupplierCode, p.SupplierCode},
		{FieldSeason, p.Season},
		{FieldMainSupplier, p.MainSupplier},
		{FieldBarcode, p.Barcode},
		{FieldTariff, p.Tariff},
		{FieldWeb, p.Web},
	}
}

// Clothing repeats a style code across sizes and colours.
type Clothing struct {
	StyleCode    string              `json:"styleCode"`
	Description  string              `json:"description"`
	Size         string              `json:"size"`
	Colour       string              `json:"colour"`
	Subgroup     string              `json:"subgroup"`
	SupplierCode string              `json:"supplierCode"`
	Season       string              `json:"season"`
	MainSupplier string              `json:"mainSupplier"`
	CostPrice    decimal.NullDecimal `json:"costPrice"`
	Barcode      string              `json:"barcode"`
	VATCode      *int                `json:"vatCode"`
	RRP          decimal.NullDecimal `json:"rrp"`
	SellPrice    decimal.NullDecimal `json:"sellPrice"`
	StgPrice     decimal.NullDecimal `json:"stgPrice"`
	Tariff       string              `json:"tariff"`
	Brand        string              `json:"brand"`
	ProductType  string              `json:"productType"`
	Web          string              `json:"web"`
	Country      string              `json:"country"`
	CountryCode  string              `json:"countryCode"`
	SourceLine   int                 `json:"line"`
}

func (c *Clothing) Kind() Kind            { return KindClothing }
func (c *Clothing) Line() int             { return c.SourceLine }
func (c *Clothing) Code() string          { return c.StyleCode }
func (c *Clothing) BarcodeValue() string  { return c.Barcode }
func (c *Clothing) SupplierValue() string { return c.SupplierCode }
func (c *Clothing) String() string {
	return fmt.Sprintf("Item %s | %s | %s %s", c.StyleCode, c.Description, c.Size, c.Colour)
}

func (c *Clothing) TextFields() []NamedText {
	return []NamedText{
		{FieldStyleCode, c.StyleCode},
		{FieldDescription, c.Description},
		{FieldSize, c.Size},
		{FieldColour, c.Colour},
		{FieldSubgroup, c.Subgroup},
		{FieldSupplierCode, c.SupplierCode},
		{FieldSeason, c.Season},
		{FieldMainSupplier, c.MainSupplier},
		{FieldBarcode, c.Barcode},
		{FieldTariff, c.Tariff},
		{FieldBrand, c.Brand},
		{FieldProductType, c.ProductType},
		{FieldWeb, c.Web},
		{FieldCountry, c.Country},
		{FieldCountryCode, c.CountryCode},
	}
}

// PriceAmendment changes prices of a product that must already exist.
type PriceAmendment struct {
	PLUCode      string              `json:"pluCode"`
	Description  string              `json:"description"`
	MainSupplier string              `json:"mainSupplier"`
	CostPrice    decimal.NullDecimal `json:"costPrice"`
	RRP          decimal.NullDecimal `json:"rrp"`
	SellPrice    decimal.NullDecimal `json:"sellPrice"`
	StgPrice     decimal.NullDecimal `json:"stgPrice"`
	SourceLine   int                 `json:"line"`
}

func (a *PriceAmendment) Kind() Kind            { return KindPriceAmendment }
func (a *PriceAmendment) Line() int             { return a.SourceLine }
func (a *PriceAmendment) Code() string          { return a.PLUCode }
func (a *PriceAmendment) BarcodeValue() string  { return "" }
func (a *PriceAmendment) SupplierValue() string { return a.MainSupplier }
func (a *PriceAmendment) String() string {
	return fmt.Sprintf("Product %s | %s", a.PLUCode, a.Description)
}

func (a *PriceAmendment) TextFields() []NamedText {
	return []NamedText{
		{FieldPLUCode, a.PLUCode},
		{FieldDescription, a.Description},
		{FieldMainSupplier, a.MainSupplier},
	}
}
