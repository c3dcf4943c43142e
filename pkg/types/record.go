// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data types shared between the parsing,
// classification, and conversion stages.
package types

// Peak is one point of a mass spectrum: a mass-to-charge ratio and its
// measured intensity.
type Peak struct {
	MZ        float64
	Intensity float64
}

// SpectralRecord is one parsed entry of an MSP-like library file. Peaks is
// never empty; the parser drops zero-peak segments. Numeric metadata fields
// are pointers so an absent field is distinguishable from a parsed zero.
// String fields use "" for absent (the input never carries meaningful empty
// values for them).
type SpectralRecord struct {
	Peaks []Peak

	Charge         *int
	IonMode        string
	SMILES         string
	InChI          string
	PubMed         string
	CCS            *float64
	ColEnergy1     *float64
	ColEnergy2     *float64
	MSLevel        *int
	InstrumentType string
	CompoundName   string
	PrecursorMZ    *float64
	InChIKey       string
	NumPeaks       *int
}
