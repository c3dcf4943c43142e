// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package msp parses MSP-like spectral library files into structured records.
package msp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zeinab-rezaei/stebantolib/pkg/types"
)

// boundaryField starts a new record. Seeing it flushes whatever has been
// accumulated so far.
const boundaryField = "CHARGE"

// fieldSetters maps a normalized field name (upper-cased, spaces replaced
// with underscores) to a typed setter on the record under construction.
// A setter returns an error when the value fails its type conversion; the
// field is then left absent.
var fieldSetters = map[string]func(*types.SpectralRecord, string) error{
	"CHARGE":          setInt(func(r *types.SpectralRecord, v *int) { r.Charge = v }),
	"IONMODE":         setString(func(r *types.SpectralRecord, v string) { r.IonMode = strings.ToUpper(v) }),
	"SMILES":          setString(func(r *types.SpectralRecord, v string) { r.SMILES = v }),
	"INCHI":           setString(func(r *types.SpectralRecord, v string) { r.InChI = v }),
	"PUBMED":          setString(func(r *types.SpectralRecord, v string) { r.PubMed = v }),
	"CCS":             setFloat(func(r *types.SpectralRecord, v *float64) { r.CCS = v }),
	"COL_ENERGY1":     setFloat(func(r *types.SpectralRecord, v *float64) { r.ColEnergy1 = v }),
	"COL_ENERGY2":     setFloat(func(r *types.SpectralRecord, v *float64) { r.ColEnergy2 = v }),
	"MS_LEVEL":        setInt(func(r *types.SpectralRecord, v *int) { r.MSLevel = v }),
	"INSTRUMENT_TYPE": setString(func(r *types.SpectralRecord, v string) { r.InstrumentType = v }),
	"COMPOUND_NAME":   setString(func(r *types.SpectralRecord, v string) { r.CompoundName = v }),
	"PRECURSOR_MZ":    setFloat(func(r *types.SpectralRecord, v *float64) { r.PrecursorMZ = v }),
	"INCHIKEY":        setString(func(r *types.SpectralRecord, v string) { r.InChIKey = v }),
	"NUM_PEAKS":       setInt(func(r *types.SpectralRecord, v *int) { r.NumPeaks = v }),
}

func setString(assign func(*types.SpectralRecord, string)) func(*types.SpectralRecord, string) error {
	return func(r *types.SpectralRecord, v string) error {
		assign(r, v)
		return nil
	}
}

func setInt(assign func(*types.SpectralRecord, *int)) func(*types.SpectralRecord, string) error {
	return func(r *types.SpectralRecord, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		assign(r, &n)
		return nil
	}
}

func setFloat(assign func(*types.SpectralRecord, *float64)) func(*types.SpectralRecord, string) error {
	return func(r *types.SpectralRecord, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		assign(r, &f)
		return nil
	}
}

// Result holds the parsed records and the non-fatal issues encountered.
type Result struct {
	Records []types.SpectralRecord

	// Dropped counts CHARGE-delimited segments discarded for having fields
	// but no parseable peak line.
	Dropped int

	// BadFields counts recognized fields whose value failed type conversion.
	BadFields int
}

// Parse segments a stream of text lines into spectral records. A field line
// named CHARGE marks a record boundary and flushes the current accumulator;
// a final flush at end of input captures the last record. Segments without
// any parseable peak are dropped with a warning on w. Unrecognized field
// names and unparseable peak lines are skipped silently, since free text
// interleaved with peaks is an expected input shape.
func Parse(lines []string, w io.Writer) Result {
	var res Result

	var rec types.SpectralRecord
	fields := 0

	flush := func() {
		switch {
		case len(rec.Peaks) > 0:
			res.Records = append(res.Records, rec)
		case fields > 0:
			name := rec.CompoundName
			if name == "" {
				name = fmt.Sprintf("index %d", len(res.Records)+1)
			}
			fmt.Fprintf(w, "warning: record starting with %s has no peaks, discarded\n", name)
			res.Dropped++
		}
		rec = types.SpectralRecord{}
		fields = 0
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if name, value, ok := strings.Cut(line, ":"); ok {
			name = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
			value = strings.TrimSpace(value)

			if name == boundaryField {
				flush()
			}

			set, known := fieldSetters[name]
			if !known {
				continue
			}
			if err := set(&rec, value); err != nil {
				fmt.Fprintf(w, "warning: could not parse %s: %q (%v)\n", name, value, err)
				res.BadFields++
				continue
			}
			fields++
			continue
		}

		if mz, intensity, ok := parsePeak(line); ok {
			rec.Peaks = append(rec.Peaks, types.Peak{MZ: mz, Intensity: intensity})
		}
	}

	flush()
	return res
}

// parsePeak parses a line of exactly two numeric tokens.
func parsePeak(line string) (mz, intensity float64, ok bool) {
	tokens := strings.Fields(line)
	if len(tokens) != 2 {
		return 0, 0, false
	}
	mz, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return 0, 0, false
	}
	intensity, err = strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return 0, 0, false
	}
	return mz, intensity, true
}

// ParseFile reads path and parses its lines.
func ParseFile(path string, w io.Writer) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("reading input file: %w", err)
	}

	return Parse(lines, w), nil
}
