// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package massbank assembles MassBank3-compatible record text from parsed
// spectral records and their classifications.
package massbank

import (
	"fmt"
	"strings"
	"time"

	"github.com/zeinab-rezaei/stebantolib/internal/splash"
	"github.com/zeinab-rezaei/stebantolib/pkg/types"
)

// Placeholder values for compound fields the input did not carry. MassBank
// validators reject empty CH$ lines, so absent structure data falls back
// to methane.
const (
	placeholderFormula  = "CH4"
	placeholderMass     = "16"
	placeholderSMILES   = "C"
	placeholderInChI    = "InChI=1S/CH4/h1H4"
	placeholderInChIKey = "VNWKTOKETHGBQD-UHFFFAOYSA-N"
)

// Builder assembles MassBank record blocks. The zero value is not usable;
// construct with NewBuilder.
type Builder struct {
	// Date is the DATE line value (format "2006.01.02").
	Date string
	// Authors, License, Copyright fill the corresponding header lines.
	Authors   string
	License   string
	Copyright string
}

// NewBuilder returns a builder with today's date and the default
// attribution lines.
func NewBuilder() *Builder {
	return &Builder{
		Date:      time.Now().Format("2006.01.02"),
		Authors:   "Helmholtz Centre for Infection Research",
		License:   "CC BY-NC",
		Copyright: "HZI",
	}
}

// Build converts one record into a MassBank3-compatible text block ending
// with the "//" terminator and no trailing newline. cls may be nil; the
// block then carries placeholder classification text.
func (b *Builder) Build(rec types.SpectralRecord, accession string, cls *types.Classification) string {
	formula, exactMass := FormulaFromInChI(rec.InChI)

	lines := []string{
		"ACCESSION: " + accession,
		"RECORD_TITLE: " + b.title(rec),
		"DATE: " + b.Date,
		"AUTHORS: " + b.Authors,
		"LICENSE: " + b.License,
		"COPYRIGHT: " + b.Copyright,
		"COMMENT: " + ccsComment(rec),
	}
	lines = append(lines, compoundSection(rec, formula, exactMass, cls)...)
	lines = append(lines, instrumentSection(rec)...)
	lines = append(lines, spectralSection(rec)...)
	lines = append(lines, "//")

	return strings.Join(lines, "\n")
}

// title joins the present descriptive parts with "; ". The adduct label is
// always appended.
func (b *Builder) title(rec types.SpectralRecord) string {
	var parts []string
	if rec.CompoundName != "" {
		parts = append(parts, rec.CompoundName)
	}
	if rec.InstrumentType != "" {
		parts = append(parts, rec.InstrumentType)
	}
	if rec.MSLevel != nil {
		parts = append(parts, fmt.Sprintf("MS%d", *rec.MSLevel))
	}
	if rec.ColEnergy1 != nil {
		parts = append(parts, fmt.Sprintf("CE:%g", *rec.ColEnergy1))
	}
	parts = append(parts, "[M+H]+")
	return strings.Join(parts, "; ")
}

func ccsComment(rec types.SpectralRecord) string {
	if rec.CCS != nil {
		return fmt.Sprintf("Ccs: %g", *rec.CCS)
	}
	return "Ccs: not available"
}

func compoundSection(rec types.SpectralRecord, formula, exactMass string, cls *types.Classification) []string {
	section := []string{
		"CH$NAME: " + orDefault(rec.CompoundName, "Unknown"),
		"CH$COMPOUND_CLASS: " + compoundClass(cls),
		"CH$FORMULA: " + orDefault(formula, placeholderFormula),
		"CH$EXACT_MASS: " + orDefault(exactMass, placeholderMass),
		"CH$SMILES: " + orDefault(rec.SMILES, placeholderSMILES),
		"CH$IUPAC: " + orDefault(rec.InChI, placeholderInChI),
		"CH$LINK: INCHIKEY " + orDefault(rec.InChIKey, placeholderInChIKey),
	}
	if link := chemOntLink(cls); link != "" {
		section = append(section, link)
	}
	return section
}

// compoundClass renders the CH$COMPOUND_CLASS value from the direct parent
// of the classification, tagged as a natural product.
func compoundClass(cls *types.Classification) string {
	if cls == nil {
		return "unavailable"
	}
	if cls.DirectParent == "" {
		return "Natural Product"
	}
	return cls.DirectParent + "; Natural Product"
}

// chemOntLink renders the CH$LINK: CHEMONT line: the ontology identifier
// followed by every assigned rank, most general first.
func chemOntLink(cls *types.Classification) string {
	if cls == nil || cls.OntologyID == "" {
		return ""
	}
	parts := []string{cls.OntologyID}
	for _, rank := range []string{cls.Kingdom, cls.Superclass, cls.Class, cls.Subclass, cls.DirectParent} {
		if rank != "" {
			parts = append(parts, rank)
		}
	}
	return "CH$LINK: CHEMONT " + strings.Join(parts, "; ")
}

func instrumentSection(rec types.SpectralRecord) []string {
	msLevel := 2
	if rec.MSLevel != nil {
		msLevel = *rec.MSLevel
	}
	ionMode := orDefault(rec.IonMode, "Positive")
	collisionEnergy := "0"
	if rec.ColEnergy1 != nil {
		collisionEnergy = fmt.Sprintf("%g", *rec.ColEnergy1)
	}
	precursor := "0"
	if rec.PrecursorMZ != nil {
		precursor = fmt.Sprintf("%g", *rec.PrecursorMZ)
	}
	return []string{
		"AC$INSTRUMENT: " + orDefault(rec.InstrumentType, "Bruker timsTOF"),
		"AC$INSTRUMENT_TYPE: " + orDefault(rec.InstrumentType, "timsTOF"),
		fmt.Sprintf("AC$MASS_SPECTROMETRY: MS_TYPE MS%d", msLevel),
		"AC$MASS_SPECTROMETRY: ION_MODE " + ionMode,
		"AC$MASS_SPECTROMETRY: COLLISION_ENERGY " + collisionEnergy,
		"MS$FOCUSED_ION: PRECURSOR_M/Z " + precursor,
		"MS$DATA_PROCESSING: Converted from MSP with stebantolib",
	}
}

func spectralSection(rec types.SpectralRecord) []string {
	numPeaks := len(rec.Peaks)
	if rec.NumPeaks != nil {
		numPeaks = *rec.NumPeaks
	}
	section := []string{
		"PK$SPLASH: " + splash.Hash(rec.Peaks),
		fmt.Sprintf("PK$NUM_PEAK: %d", numPeaks),
		"PK$PEAK: m/z int. rel.int.",
	}

	maxIntensity := 0.0
	for _, p := range rec.Peaks {
		if p.Intensity > maxIntensity {
			maxIntensity = p.Intensity
		}
	}
	if maxIntensity == 0 {
		maxIntensity = 1.0
	}
	for _, p := range rec.Peaks {
		rel := int(p.Intensity/maxIntensity*999 + 0.5)
		section = append(section, fmt.Sprintf("  %.5f %.6g %d", p.MZ, p.Intensity, rel))
	}
	return section
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
