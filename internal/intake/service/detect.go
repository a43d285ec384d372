package service

import "intake-service/internal/intake/model"

const (
	DefaultMaxScanRows = 10
	// below this share of expected headers the first row is taken as-is
	MinHeaderRatio = 0.3
)

// DetectHeaderRow picks the row among the first maxScan rows that matches
// the largest share of expected headers (a hit is a best CharMatch of at
// least MatchThreshold against any cell of the row). The first row wins
// ties; when no row reaches MinHeaderRatio the result is 0.
func DetectHeaderRow(g model.Grid, expected []string, maxScan int) int {
	if maxScan <= 0 {
		maxScan = DefaultMaxScanRows
	}
	if len(expected) == 0 {
		return 0
	}
	normExpected := make([]string, len(expected))
	for i, e := range expected {
		normExpected[i] = NormalizeHeader(e)
	}

	bestRow, bestRatio := 0, 0.0
	for i := 0; i < maxScan && i < len(g); i++ {
		cells := make([]string, 0, len(g[i]))
		for _, c := range g[i] {
			cells = append(cells, NormalizeHeader(c.String()))
		}
		if len(cells) == 0 {
			continue
		}

		hits := 0
		for _, e := range normExpected {
			best := 0.0
			for _, c := range cells {
				if s := CharMatch(e, c); s > best {
					best = s
				}
			}
			if best >= MatchThreshold {
				hits++
			}
		}
		if ratio := float64(hits) / float64(len(expected)); ratio > bestRatio {
			bestRow, bestRatio = i, ratio
		}
	}
	if bestRatio < MinHeaderRatio {
		return 0
	}
	return bestRow
}
