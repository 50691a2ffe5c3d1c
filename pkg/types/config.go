package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "ecn-parties/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on 429 and 5xx responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// FetchConfig holds settings for downloading the registration PDF.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the location of the ECN registration PDF.
	URL string `json:"url" yaml:"url"`

	// DataDir is the base directory for data (contains raw/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// OutputPath is where the extracted records are written
	// (default "data/parties-extracted.json").
	OutputPath string `json:"output" yaml:"output"`

	// GuidePath is where the completion guide is written
	// (default "data/parties-completion-guide.json").
	GuidePath string `json:"guide" yaml:"guide"`

	// DataSource is stamped on every record (default "ECN-2080-PDF").
	DataSource string `json:"data_source" yaml:"data_source"`

	// SnapTolerance is the distance within which ruling lines are merged
	// during table detection (default 3).
	SnapTolerance float64 `json:"snap_tolerance" yaml:"snap_tolerance"`

	// Normalize runs the normalize pass on the records before writing them.
	Normalize bool `json:"normalize" yaml:"normalize"`
}

// StoreConfig holds settings for the SQLite party store.
type StoreConfig struct {
	// DataDir is the base directory for data (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// LogConfig controls structured diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default "warn").
	Level string `json:"level" yaml:"level"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Extraction ExtractionConfig `json:"extract" yaml:"extract"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Log        LogConfig        `json:"log" yaml:"log"`
}
