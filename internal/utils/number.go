package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxKeepNums = regexp.MustCompile(`[^\d\.\-]`)

var spaces = strings.NewReplacer(" ", "", "\u00A0", "", "\u202F", "", "\u2009", "", "\t", "")

// ParseNumber reads the numbers people type into price and rate cells:
// "12.50", "€12.50", "£1,234.50", "1 234,50", "23%", "(4.00)".
// Thousands separators are dropped when both "," and "." appear; a lone
// comma is a decimal comma.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = spaces.Replace(s)
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	// currency signs, percent and other noise
	s = rxKeepNums.ReplaceAllString(s, "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

var rxPlainNumber = regexp.MustCompile(`^-?(0|[1-9]\d{0,14})(\.\d+)?$`)

// LooksNumeric reports whether a text cell from a typeless source (CSV, XLS)
// should be read as a number. Leading zeros and very long digit runs stay
// text, so codes like "000123" or 18-digit barcodes keep their spelling.
func LooksNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !rxPlainNumber.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
