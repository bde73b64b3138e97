// Package config loads framelint.yaml and merges it with environment
// variables and CLI flags.
package config

// Config is the resolved CLI configuration.
type Config struct {
	Verbose bool   `koanf:"verbose"`
	Format  string `koanf:"format"`
	Jobs    int    `koanf:"jobs"`
	Lint    *Lint  `koanf:"lint"`
}

// Lint holds the lint section of framelint.yaml.
type Lint struct {
	// Disabled lists rule IDs to skip.
	Disabled []string `koanf:"disabled"`
	// Severity overrides rule severities, e.g. FS06: error.
	Severity map[string]string `koanf:"severity"`
	// Sentinels adds project-specific missing-value sentinel spellings
	// to the classification table: identifier names and literal forms
	// alike (e.g. MISSING_VALUE, "-999"). A declared sentinel is never
	// reported as a filler value.
	Sentinels []string `koanf:"sentinels"`
	// FrameParams adds parameter names classified as frames.
	FrameParams []string `koanf:"frame_params"`
}
