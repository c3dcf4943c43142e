// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package msp

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, input string) (Result, string) {
	t.Helper()
	var warnings strings.Builder
	res := Parse(strings.Split(input, "\n"), &warnings)
	return res, warnings.String()
}

func TestParse_SingleRecordWithDanglingBoundary(t *testing.T) {
	input := "CHARGE: 1\nCOMPOUND_NAME: TestMol\n100.0 50.0\n200.0 999.0\nCHARGE: 1\n"

	res, warnings := parseString(t, input)

	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	assert.Equal(t, "TestMol", rec.CompoundName)
	require.NotNil(t, rec.Charge)
	assert.Equal(t, 1, *rec.Charge)
	require.Len(t, rec.Peaks, 2)
	assert.Equal(t, 100.0, rec.Peaks[0].MZ)
	assert.Equal(t, 50.0, rec.Peaks[0].Intensity)
	assert.Equal(t, 200.0, rec.Peaks[1].MZ)

	// The trailing CHARGE segment has no peaks: dropped with a warning.
	assert.Equal(t, 1, res.Dropped)
	assert.Contains(t, warnings, "no peaks")
	assert.Contains(t, warnings, "index 2")
}

func TestParse_FieldNormalization(t *testing.T) {
	input := strings.Join([]string{
		"charge: -2",
		"Compound Name: Aspirin",
		"ionmode: negative",
		"ms level: 2",
		"PRECURSOR_MZ: 179.0350",
		"179.035 100.0",
	}, "\n")

	res, _ := parseString(t, input)

	require.Len(t, res.Records, 1)
	rec := res.Records[0]
	require.NotNil(t, rec.Charge)
	assert.Equal(t, -2, *rec.Charge)
	assert.Equal(t, "Aspirin", rec.CompoundName)
	assert.Equal(t, "NEGATIVE", rec.IonMode, "ion mode is upper-cased")
	require.NotNil(t, rec.MSLevel)
	assert.Equal(t, 2, *rec.MSLevel)
	require.NotNil(t, rec.PrecursorMZ)
	assert.InDelta(t, 179.0350, *rec.PrecursorMZ, 1e-9)
}

func TestParse_MalformedFieldLeftAbsent(t *testing.T) {
	input := strings.Join([]string{
		"CHARGE: 1",
		"CCS: not-a-number",
		"COMPOUND_NAME: BadCCS",
		"10.0 1.0",
	}, "\n")

	res, warnings := parseString(t, input)

	require.Len(t, res.Records, 1)
	assert.Nil(t, res.Records[0].CCS)
	assert.Equal(t, "BadCCS", res.Records[0].CompoundName)
	assert.Equal(t, 1, res.BadFields)
	assert.Contains(t, warnings, "CCS")
}

func TestParse_MalformedFieldDoesNotLeakAcrossRecords(t *testing.T) {
	input := strings.Join([]string{
		"CHARGE: 1",
		"CCS: 123.4",
		"COMPOUND_NAME: First",
		"10.0 1.0",
		"CHARGE: 1",
		"CCS: garbage",
		"COMPOUND_NAME: Second",
		"20.0 2.0",
		"CHARGE: 1",
		"COMPOUND_NAME: Third",
		"30.0 3.0",
	}, "\n")

	res, _ := parseString(t, input)

	require.Len(t, res.Records, 3)
	require.NotNil(t, res.Records[0].CCS)
	assert.InDelta(t, 123.4, *res.Records[0].CCS, 1e-9)
	assert.Nil(t, res.Records[1].CCS)
	assert.Nil(t, res.Records[2].CCS)
}

func TestParse_UnrecognizedFieldSilentlyIgnored(t *testing.T) {
	input := strings.Join([]string{
		"CHARGE: 1",
		"RETENTION_TIME: 4.5",
		"COMPOUND_NAME: Drift",
		"10.0 1.0",
	}, "\n")

	res, warnings := parseString(t, input)

	require.Len(t, res.Records, 1)
	assert.Empty(t, warnings)
	assert.Equal(t, "Drift", res.Records[0].CompoundName)
}

func TestParse_FreeTextPeakLinesSkippedSilently(t *testing.T) {
	input := strings.Join([]string{
		"CHARGE: 1",
		"COMPOUND_NAME: Noisy",
		"some interleaved comment text",
		"10.0 1.0",
		"100.0 50.0 extra-token",
		"20.0 2.0",
	}, "\n")

	res, warnings := parseString(t, input)

	require.Len(t, res.Records, 1)
	assert.Empty(t, warnings)
	require.Len(t, res.Records[0].Peaks, 2)
	assert.Equal(t, 10.0, res.Records[0].Peaks[0].MZ)
	assert.Equal(t, 20.0, res.Records[0].Peaks[1].MZ)
}

func TestParse_ZeroPeakSegmentNamedByCompound(t *testing.T) {
	input := strings.Join([]string{
		"CHARGE: 1",
		"COMPOUND_NAME: Empty",
		"CHARGE: 1",
		"COMPOUND_NAME: Full",
		"10.0 1.0",
	}, "\n")

	res, warnings := parseString(t, input)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "Full", res.Records[0].CompoundName)
	assert.Equal(t, 1, res.Dropped)
	assert.Contains(t, warnings, "Empty")
}

func TestParse_NoZeroPeakRecordEverEmitted(t *testing.T) {
	inputs := []string{
		"",
		"CHARGE: 1",
		"CHARGE: 1\nCHARGE: 2\nCHARGE: 3",
		"COMPOUND_NAME: only fields\nINCHIKEY: ABC",
		"CHARGE: 1\n10.0 1.0\nCHARGE: 2",
	}
	for _, input := range inputs {
		res, _ := parseString(t, input)
		for _, rec := range res.Records {
			assert.NotEmpty(t, rec.Peaks)
		}
	}
}

func TestParse_RecordAndPeakOrderPreserved(t *testing.T) {
	input := strings.Join([]string{
		"CHARGE: 1",
		"COMPOUND_NAME: A",
		"300.0 1.0",
		"100.0 2.0",
		"200.0 3.0",
		"CHARGE: 1",
		"COMPOUND_NAME: B",
		"50.0 9.0",
	}, "\n")

	res, _ := parseString(t, input)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "A", res.Records[0].CompoundName)
	assert.Equal(t, "B", res.Records[1].CompoundName)
	mzs := make([]float64, len(res.Records[0].Peaks))
	for i, p := range res.Records[0].Peaks {
		mzs[i] = p.MZ
	}
	assert.Equal(t, []float64{300.0, 100.0, 200.0}, mzs)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.msp")
	content := "CHARGE: 1\nCOMPOUND_NAME: FromFile\n100.0 1.0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res, err := ParseFile(path, io.Discard)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "FromFile", res.Records[0].CompoundName)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "absent.msp"), io.Discard)
	assert.Error(t, err)
}
