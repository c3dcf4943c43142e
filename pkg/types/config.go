package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout for simple entity lookups.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "stebantolib/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClassifyConfig holds settings for the classification stage.
type ClassifyConfig struct {
	HTTPConfig `yaml:",inline"`

	// ClassifyTimeout is the timeout for the classification POST and the
	// NPClassifier call. These endpoints are slower than entity lookups, so
	// it should be at least Timeout.
	ClassifyTimeout time.Duration `json:"classify_timeout" yaml:"classify_timeout"`

	// CachePath is the location of the durable classification cache document.
	CachePath string `json:"cache_path" yaml:"cache_path"`

	// DisablePrimary starts the run with the primary (wishartlab) provider
	// disabled, as if a name-resolution failure had already been observed.
	DisablePrimary bool `json:"disable_primary" yaml:"disable_primary"`

	// Verbose enables per-lookup progress output.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// ConvertConfig holds settings for the conversion stage.
type ConvertConfig struct {
	// OutDir is the directory receiving one MassBank text file per record.
	OutDir string `json:"outdir" yaml:"outdir"`

	// AccessionPrefix is the middle part of generated accessions
	// ("MSBNK-<prefix><index>").
	AccessionPrefix string `json:"accession_prefix" yaml:"accession_prefix"`

	// CombinedFile, when set, receives every generated record block
	// concatenated in accession order.
	CombinedFile string `json:"combined_file" yaml:"combined_file"`

	// LibraryPath, when set, is the SQLite database indexing converted records.
	LibraryPath string `json:"library_path" yaml:"library_path"`
}
