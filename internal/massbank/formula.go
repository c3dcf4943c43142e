// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package massbank

import (
	"fmt"
	"regexp"
	"strconv"
)

// monoisotopic holds the monoisotopic masses (Dalton) of the elements the
// input libraries are known to contain.
var monoisotopic = map[string]float64{
	"H": 1.007825032, "C": 12.0, "N": 14.003074, "O": 15.99491462,
	"P": 30.973762, "S": 31.972071, "Cl": 34.968853, "Br": 78.918338,
	"F": 18.9984032, "I": 126.90447,
}

var (
	inchiFormulaPattern = regexp.MustCompile(`^InChI=1S?/([^/]+)`)
	elementPattern      = regexp.MustCompile(`([A-Z][a-z]?)(\d*)`)
)

// FormulaFromInChI extracts the molecular formula from the InChI formula
// layer and computes the monoisotopic exact mass, formatted with four
// decimals. Both return values are empty when the InChI cannot be parsed;
// the mass alone is empty when the formula contains an element outside the
// monoisotopic table.
func FormulaFromInChI(inchi string) (formula, exactMass string) {
	m := inchiFormulaPattern.FindStringSubmatch(inchi)
	if m == nil {
		return "", ""
	}
	formula = m[1]

	var mass float64
	for _, tok := range elementPattern.FindAllStringSubmatch(formula, -1) {
		element, count := tok[1], 1
		if tok[2] != "" {
			count, _ = strconv.Atoi(tok[2])
		}
		w, known := monoisotopic[element]
		if !known {
			return formula, ""
		}
		mass += w * float64(count)
	}
	return formula, fmt.Sprintf("%.4f", mass)
}
