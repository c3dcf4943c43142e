// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package splash computes SPLASH-style content fingerprints of peak lists
// for the PK$SPLASH record line. The fingerprint follows the four-block
// SPLASH v1 layout for MS spectra: a version prefix, a coarse m/z
// histogram in base 36, a wide m/z histogram in base 10, and a truncated
// SHA-256 of the canonical peak list.
package splash

import (
	"crypto/sha256"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"

	"github.com/zeinab-rezaei/stebantolib/pkg/types"
)

const (
	prefix = "splash10"

	prefilterBase    = 3
	prefilterLength  = 10
	prefilterBinSize = 5

	similarityBase    = 10
	similarityLength  = 10
	similarityBinSize = 100

	spectrumHashLength = 20

	// scale converts normalized values to fixed-point integers for the
	// canonical representation.
	scale = 1e6
)

// Hash returns the fingerprint of peaks. The result is deterministic under
// peak reordering and intensity scaling, and empty input yields the
// fingerprint of an empty spectrum rather than an error; callers guarantee
// non-empty peak lists.
func Hash(peaks []types.Peak) string {
	normalized := normalize(peaks)
	return strings.Join([]string{
		prefix,
		encodeHistogram(normalized, prefilterBinSize, prefilterLength, prefilterBase),
		similarityHistogram(normalized),
		spectrumHash(normalized),
	}, "-")
}

// normalize sorts peaks by m/z (ties by intensity) and scales intensities
// so the base peak is 100.
func normalize(peaks []types.Peak) []types.Peak {
	maxIntensity := 0.0
	for _, p := range peaks {
		if p.Intensity > maxIntensity {
			maxIntensity = p.Intensity
		}
	}

	out := make([]types.Peak, len(peaks))
	copy(out, peaks)
	if maxIntensity > 0 {
		for i := range out {
			out[i].Intensity = out[i].Intensity / maxIntensity * 100
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MZ != out[j].MZ {
			return out[i].MZ < out[j].MZ
		}
		return out[i].Intensity < out[j].Intensity
	})
	return out
}

// binDigits sums intensities into length wrapped m/z bins and scales each
// bin to a digit in [0, base).
func binDigits(peaks []types.Peak, binSize float64, length, base int) []int64 {
	bins := make([]float64, length)
	for _, p := range peaks {
		idx := int(p.MZ/binSize) % length
		if idx < 0 {
			idx += length
		}
		bins[idx] += p.Intensity
	}

	maxBin := 0.0
	for _, b := range bins {
		if b > maxBin {
			maxBin = b
		}
	}

	digits := make([]int64, length)
	if maxBin > 0 {
		for i, b := range bins {
			digits[i] = int64(math.Round(b / maxBin * float64(base-1)))
		}
	}
	return digits
}

// encodeHistogram renders the base-3 prefilter histogram as a base-36
// string padded to four characters.
func encodeHistogram(peaks []types.Peak, binSize float64, length, base int) string {
	digits := binDigits(peaks, binSize, length, base)

	value := new(big.Int)
	baseBig := big.NewInt(int64(base))
	for _, d := range digits {
		value.Mul(value, baseBig)
		value.Add(value, big.NewInt(d))
	}

	encoded := value.Text(36)
	if len(encoded) < 4 {
		encoded = strings.Repeat("0", 4-len(encoded)) + encoded
	}
	return encoded
}

// similarityHistogram renders the wide histogram as one decimal digit per bin.
func similarityHistogram(peaks []types.Peak) string {
	digits := binDigits(peaks, similarityBinSize, similarityLength, similarityBase)
	var b strings.Builder
	for _, d := range digits {
		fmt.Fprintf(&b, "%d", d)
	}
	return b.String()
}

// spectrumHash is the truncated SHA-256 of the canonical fixed-point peak
// representation ("mz:intensity" pairs joined by spaces).
func spectrumHash(peaks []types.Peak) string {
	pairs := make([]string, len(peaks))
	for i, p := range peaks {
		pairs[i] = fmt.Sprintf("%d:%d", int64(math.Round(p.MZ*scale)), int64(math.Round(p.Intensity*scale)))
	}
	sum := sha256.Sum256([]byte(strings.Join(pairs, " ")))
	return fmt.Sprintf("%x", sum)[:spectrumHashLength]
}
