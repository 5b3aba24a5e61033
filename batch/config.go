package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPrefixPattern groups files by a leading "e" followed by digits, as
// in "e12_model1.pdb".
const DefaultPrefixPattern = `^(e\d+)`

// Config holds everything a batch run needs. There is no global state: two
// runs with different configurations can proceed side by side.
type Config struct {
	// InputDir contains one subfolder per set of structures.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives one subfolder per input subfolder. It defaults to
	// "auto-align-<timestamp>" in the current directory.
	OutputDir string `yaml:"output_dir"`

	// PrefixPattern is a regular expression whose first capture group is
	// the prefix that files are grouped by. Files that don't match are
	// ignored.
	PrefixPattern string `yaml:"prefix_pattern"`

	Workers int `yaml:"workers"`

	// TMAlign is the TM-align executable. When empty, TM-align isn't run.
	TMAlign string `yaml:"tmalign"`

	// Database is the SQLite summary of the run. It defaults to summary.db
	// inside OutputDir.
	Database string `yaml:"database"`

	// NoCopy disables copying both input files into each pair's output
	// directory.
	NoCopy bool `yaml:"no_copy"`

	LogJSON bool `yaml:"log_json"`
	Verbose bool `yaml:"verbose"`
}

// defaults fills in every unset field. now is used to name the default
// output directory.
func (c *Config) defaults(now time.Time) {
	if c.OutputDir == "" {
		c.OutputDir = outputDirName(now)
	}
	if c.PrefixPattern == "" {
		c.PrefixPattern = DefaultPrefixPattern
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Database == "" {
		c.Database = filepath.Join(c.OutputDir, "summary.db")
	}
}

// DefaultOutputDir is the output directory used when none is configured,
// named after the current time.
func DefaultOutputDir() string {
	return outputDirName(time.Now())
}

func outputDirName(t time.Time) string {
	return "auto-align-" + t.Format("20060102_150405")
}

// prefixRegexp compiles PrefixPattern and makes sure it has a capture group.
func (c *Config) prefixRegexp() (*regexp.Regexp, error) {
	re, err := regexp.Compile(c.PrefixPattern)
	if err != nil {
		return nil, fmt.Errorf("Bad prefix pattern '%s': %w",
			c.PrefixPattern, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("Prefix pattern '%s' has no capture group.",
			c.PrefixPattern)
	}
	return re, nil
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("Could not decode YAML in '%s': %w", path, err)
	}
	return cfg, nil
}
