package service

import (
	"strings"

	"intake-service/internal/intake/model"
)

// NormalizeValue is the comparison form of business values (codes,
// barcodes): the trimmed display string. Case is kept.
func NormalizeValue(c model.Cell) string {
	return strings.TrimSpace(c.String())
}

var headerStrip = strings.NewReplacer(" ", "", "_", "", "-", "")

// NormalizeHeader makes "Cost Price", "cost-price" and "cost_price" equal.
func NormalizeHeader(s string) string {
	return headerStrip.Replace(strings.ToLower(strings.TrimSpace(s)))
}
