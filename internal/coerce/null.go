package coerce

import "strings"

// nullMarkers are the tokens read as missing, matching pandas' default
// na_values.
var nullMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNull reports whether a raw cell is a null marker. Surrounding whitespace
// is ignored.
func IsNull(raw string) bool {
	_, ok := nullMarkers[strings.TrimSpace(raw)]
	return ok
}
