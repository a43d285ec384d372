package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"intake-service/internal/intake/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decoderFor maps a chardet charset name to a decoder; nil means UTF-8.
func decoderFor(charset string) *encoding.Decoder {
	switch strings.ToLower(charset) {
	case "iso-8859-1", "windows-1252":
		return charmap.Windows1252.NewDecoder()
	case "windows-1251", "cp1251":
		return charmap.Windows1251.NewDecoder()
	case "utf-16le", "utf-16be":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	}
	return nil
}

// sniffComma picks ';' when the first line has more of them than commas,
// as spreadsheets saved with a decimal-comma locale do.
func sniffComma(peek []byte) rune {
	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

// readCSV reads CSV, auto-detecting encoding and separator and converting
// to UTF-8.
func readCSV(r io.Reader) (model.Grid, error) {
	br := bufio.NewReader(r)

	if bom, _ := br.Peek(3); bytes.Equal(bom, utf8BOM) {
		_, _ = br.Discard(3)
	}

	peek, _ := br.Peek(2048)
	var dec io.Reader = br
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			if d := decoderFor(det.Charset); d != nil {
				dec = transform.NewReader(br, d)
			}
		}
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = sniffComma(peek)

	var g model.Grid
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		g = append(g, textRow(rec))
	}
	return g, nil
}
