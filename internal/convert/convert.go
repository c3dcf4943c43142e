// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives the MSP-to-MassBank batch conversion: it walks
// parsed spectral records in order, resolves compound classifications,
// renders MassBank record texts, and writes one file per record.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zeinab-rezaei/stebantolib/internal/library"
	"github.com/zeinab-rezaei/stebantolib/internal/massbank"
	"github.com/zeinab-rezaei/stebantolib/pkg/types"
)

// Classifier resolves a compound classification from its structure
// identifiers. *classify.Resolver satisfies this.
type Classifier interface {
	Resolve(ctx context.Context, inchikey, smiles string) *types.Classification
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Written    int
	Classified int
	Failed     int
}

// Total returns the total number of records processed.
func (r BatchResult) Total() int {
	return r.Written + r.Failed
}

// HasFailures reports whether any records failed to convert.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Pipeline converts parsed spectral records into MassBank record files.
type Pipeline struct {
	Builder    *massbank.Builder
	Classifier Classifier
	Library    *library.Store
	Config     types.ConvertConfig
}

// Run converts records in input order. Each record gets a sequential
// accession under the configured prefix, starting at 1. Per-record status
// goes to w; the summary line is printed before returning.
func (p *Pipeline) Run(ctx context.Context, records []types.SpectralRecord, w io.Writer) (BatchResult, error) {
	var result BatchResult

	if err := os.MkdirAll(p.Config.OutDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory: %w", err)
	}

	var combined *os.File
	if p.Config.CombinedFile != "" {
		f, err := os.Create(p.Config.CombinedFile)
		if err != nil {
			return result, fmt.Errorf("creating combined output: %w", err)
		}
		defer f.Close()
		combined = f
	}

	for i, rec := range records {
		accession := fmt.Sprintf("MSBNK-%s%06d", p.Config.AccessionPrefix, i+1)

		var cls *types.Classification
		if p.Classifier != nil {
			cls = p.Classifier.Resolve(ctx, rec.InChIKey, rec.SMILES)
		}
		if cls != nil {
			result.Classified++
		}

		text := p.Builder.Build(rec, accession, cls)
		path := filepath.Join(p.Config.OutDir, accession+".txt")
		if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", accession, err)
			result.Failed++
			continue
		}

		if combined != nil {
			if _, err := fmt.Fprintf(combined, "%s\n", text); err != nil {
				return result, fmt.Errorf("writing combined output: %w", err)
			}
		}

		if p.Library != nil {
			entry := library.Entry{
				Accession:    accession,
				CompoundName: rec.CompoundName,
				InChIKey:     rec.InChIKey,
				SMILES:       rec.SMILES,
				PeakCount:    len(rec.Peaks),
				FilePath:     path,
				ConvertedAt:  time.Now(),
			}
			if cls != nil {
				entry.ClassificationSource = cls.Source
				entry.DirectParent = cls.DirectParent
			}
			if err := p.Library.Upsert(ctx, entry); err != nil {
				fmt.Fprintf(w, "warning: indexing %s: %v\n", accession, err)
			}
		}

		fmt.Fprintf(w, "written: %s (%s)\n", accession, nameOrUnknown(rec))
		result.Written++
	}

	fmt.Fprintf(w, "\nBatch summary: %d written, %d classified, %d failed (total: %d)\n",
		result.Written, result.Classified, result.Failed, result.Total())
	return result, nil
}

func nameOrUnknown(rec types.SpectralRecord) string {
	if rec.CompoundName != "" {
		return rec.CompoundName
	}
	return "unknown compound"
}
