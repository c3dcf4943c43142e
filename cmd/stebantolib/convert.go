// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeinab-rezaei/stebantolib/internal/classify"
	"github.com/zeinab-rezaei/stebantolib/internal/convert"
	"github.com/zeinab-rezaei/stebantolib/internal/library"
	"github.com/zeinab-rezaei/stebantolib/internal/massbank"
	"github.com/zeinab-rezaei/stebantolib/internal/msp"
	"github.com/zeinab-rezaei/stebantolib/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an MSP file into MassBank record files",
	Long: `Convert parses a multi-record MSP file, resolves compound
classifications through ClassyFire and NPClassifier, and writes one
MassBank record text per spectrum into the output directory.

Classification results are cached on disk, so re-running a conversion
only contacts the remote services for compounds not seen before.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		return fmt.Errorf("--input is required")
	}
	outDir, _ := cmd.Flags().GetString("outdir")
	prefix, _ := cmd.Flags().GetString("accession-prefix")
	combined, _ := cmd.Flags().GetString("combined")
	libraryPath, _ := cmd.Flags().GetString("library")
	noClassify, _ := cmd.Flags().GetBool("no-classify")

	parsed, err := msp.ParseFile(input, os.Stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Parsed %d record(s) from %s\n", len(parsed.Records), input)

	pipeline := &convert.Pipeline{
		Builder: massbank.NewBuilder(),
		Config: types.ConvertConfig{
			OutDir:          outDir,
			AccessionPrefix: prefix,
			CombinedFile:    combined,
			LibraryPath:     libraryPath,
		},
	}

	if !noClassify {
		pipeline.Classifier = buildResolver(cmd)
	}

	if libraryPath != "" {
		store, err := library.Open(libraryPath)
		if err != nil {
			return err
		}
		defer store.Close()
		pipeline.Library = store
	}

	result, err := pipeline.Run(context.Background(), parsed.Records, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d record(s) failed conversion", result.Failed)
	}
	return nil
}

// buildResolver assembles the classification resolver from the shared
// classification flags.
func buildResolver(cmd *cobra.Command) *classify.Resolver {
	cachePath, _ := cmd.Flags().GetString("cache")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	classifyTimeout, _ := cmd.Flags().GetDuration("classify-timeout")
	disablePrimary, _ := cmd.Flags().GetBool("disable-primary")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cache := classify.OpenCache(cachePath)

	cfg := types.ClassifyConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout: timeout,
		},
		ClassifyTimeout: classifyTimeout,
		CachePath:       cachePath,
		DisablePrimary:  disablePrimary,
		Verbose:         verbose,
	}
	return classify.NewResolver(&http.Client{}, cache, cfg, os.Stderr)
}

// classifyFlags registers the classification flags shared by convert and
// classify.
func classifyFlags(cmd *cobra.Command) {
	cmd.Flags().String("cache", "classification-cache.yaml", "classification cache file")
	cmd.Flags().Duration("timeout", 12*time.Second, "timeout for ClassyFire entity lookups")
	cmd.Flags().Duration("classify-timeout", 20*time.Second, "timeout for classification submissions")
	cmd.Flags().Bool("disable-primary", false, "skip the primary ClassyFire service for this run")
	cmd.Flags().Bool("verbose", false, "log classification requests to stderr")
}

func init() {
	convertCmd.Flags().String("input", "", "input MSP file (required)")
	convertCmd.Flags().String("outdir", "massbank", "output directory for record files")
	convertCmd.Flags().String("accession-prefix", "HZI-CBIO-AA-", "accession prefix after MSBNK-")
	convertCmd.Flags().String("combined", "", "also write all records into this single file")
	convertCmd.Flags().String("library", "", "index converted records into this SQLite database")
	convertCmd.Flags().Bool("no-classify", false, "skip classification lookups entirely")
	classifyFlags(convertCmd)

	rootCmd.AddCommand(convertCmd)
}
