package service

import "intake-service/internal/intake/model"

// ExtractColumns reads reference lists out of a headed grid (header on
// row 0). It returns the normalized values of every schema field that
// resolved, keyed by field, one per data row so a value's index is its row
// index; blank cells come back as "". Unresolved fields are absent.
func ExtractColumns(g model.Grid, sc model.Schema) (map[string][]string, error) {
	if len(g) == 0 {
		return nil, ErrEmptyGrid
	}
	t := model.TableFromGrid(g, 0)
	a, _ := Resolve(t.Columns, sc)

	out := make(map[string][]string, len(a))
	for key, col := range a {
		vals := make([]string, len(t.Rows))
		for i := range t.Rows {
			vals[i] = NormalizeValue(t.Cell(i, col))
		}
		out[key] = vals
	}
	return out, nil
}

// ExtractReferences builds the code and barcode reference sets from an
// existing-items export. A column the sheet lacks yields a provided but
// empty set, so the checks that use it still run and pass.
func ExtractReferences(g model.Grid, sc model.Schema) (codes, barcodes RefSet, err error) {
	cols, err := ExtractColumns(g, sc)
	if err != nil {
		return RefSet{}, RefSet{}, err
	}
	return NewRefSet(cols[model.FieldCode]), NewRefSet(cols[model.FieldBarcode]), nil
}
