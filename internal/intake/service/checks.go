package service

import "intake-service/internal/intake/model"

// References are the externally supplied lists. A zero RefSet means the
// list was not supplied and the checks that need it are skipped.
type References struct {
	Codes     RefSet
	Barcodes  RefSet
	Suppliers RefSet
}

type check struct {
	id     string
	title  string
	passed string
	needs  func(References) bool
	run    func(recs []model.Record, refs References, r model.Rules) []string
}

func always(References) bool          { return true }
func needCodes(x References) bool     { return x.Codes.Provided() }
func needBarcodes(x References) bool  { return x.Barcodes.Provided() }
func needSuppliers(x References) bool { return x.Suppliers.Provided() }

func unusable(recs []model.Record, _ References, r model.Rules) []string {
	return UnusableCharacters(recs, r.BadChars)
}

func unknownSuppliers(recs []model.Record, x References, _ model.Rules) []string {
	return Existence(WithValue(recs, model.AttrSupplier), model.AttrSupplier, x.Suppliers, "supplier code")
}

// catalogue builds the checks for one kind; label names its key field.
func catalogue(kind model.Kind) []check {
	label, plural := "PLU Code", "PLU codes"
	if kind == model.KindClothing {
		label, plural = "Style Code", "Style codes"
	}

	if kind == model.KindPriceAmendment {
		return []check{
			{"non_amendable", "Non-amendable products", "Products all exist in database", needCodes,
				func(recs []model.Record, x References, _ model.Rules) []string {
					return Existence(recs, model.AttrCode, x.Codes, "PLU code")
				}},
			{"code_length", "PLU Code Length Errors", "PLU code lengths are all valid.", always,
				func(recs []model.Record, _ References, r model.Rules) []string {
					return CodeLength(recs, model.AttrCode, label, r.CodeMax)
				}},
			{"unusable_characters", "Unusable Character Errors", "No unusable characters found.", always, unusable},
			{"unknown_suppliers", "Unknown Supplier Codes", "Supplier codes all exist.", needSuppliers, unknownSuppliers},
		}
	}

	internal := check{"internal_duplicates", "Duplicate PLUs Within Uploaded File", "No Duplicate PLU codes within new file.", always,
		func(recs []model.Record, _ References, _ model.Rules) []string {
			return InternalDuplicates(recs, model.AttrCode)
		}}
	if kind == model.KindClothing {
		internal = check{"internal_duplicates", "Duplicate Style Codes Within Uploaded File", "No Duplicate Style Codes.", always,
			func(recs []model.Record, _ References, _ model.Rules) []string {
				return CompositeDuplicates(recs)
			}}
	}

	return []check{
		{"duplicate_codes", "Duplicate " + label + " Errors", plural + " are all available.", needCodes,
			func(recs []model.Record, x References, _ model.Rules) []string {
				return ExternalDuplicates(recs, model.AttrCode, x.Codes)
			}},
		internal,
		{"code_length", label + " Length Errors", label + " lengths are all valid.", always,
			func(recs []model.Record, _ References, r model.Rules) []string {
				return CodeLength(recs, model.AttrCode, label, r.CodeMax)
			}},
		{"unusable_characters", "Unusable Character Errors", "No unusable characters found.", always, unusable},
		{"shared_barcodes", "Duplicate Barcode Errors", "All barcodes are valid.", always,
			func(recs []model.Record, _ References, _ model.Rules) []string {
				return SharedBarcodes(recs, model.AttrCode)
			}},
		{"existing_barcodes", "Barcodes Already In System", "No barcodes already in use.", needBarcodes,
			func(recs []model.Record, x References, _ model.Rules) []string {
				return ExternalDuplicates(recs, model.AttrBarcode, x.Barcodes)
			}},
		{"code_as_barcode", label + "s Registered As Barcodes", "No " + plural + " clash with existing barcodes.", needBarcodes,
			func(recs []model.Record, x References, _ model.Rules) []string {
				return Collisions(recs, model.AttrCode, label, x.Barcodes, "barcode")
			}},
		{"barcode_as_code", "Barcodes Registered As " + label + "s", "No barcodes clash with existing " + plural + ".", needCodes,
			func(recs []model.Record, x References, _ model.Rules) []string {
				return Collisions(recs, model.AttrBarcode, "Barcode", x.Codes, label)
			}},
		{"unknown_suppliers", "Unknown Supplier Codes", "Supplier codes all exist.", needSuppliers, unknownSuppliers},
	}
}

// Validate runs every applicable check for kind to completion and returns
// one result per check, in catalogue order.
func Validate(kind model.Kind, recs []model.Record, refs References, r model.Rules) []model.CheckResult {
	var out []model.CheckResult
	for _, c := range catalogue(kind) {
		if !c.needs(refs) {
			continue
		}
		res := model.CheckResult{Check: c.id, Title: c.title, Errors: c.run(recs, refs, r)}
		if res.Errors == nil {
			res.Errors = []string{}
		}
		if res.OK() {
			res.Passed = c.passed
		}
		out = append(out, res)
	}
	return out
}
