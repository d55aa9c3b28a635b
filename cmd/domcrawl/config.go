package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/fwojciec/domcrawl"
	"github.com/fwojciec/domcrawl/fs"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no --config
// flag is given. It is optional.
const DefaultConfigFile = "domcrawl.yaml"

// UserConfigFile returns the per-user config file path, following the XDG
// Base Directory Specification.
func UserConfigFile() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// FindConfigFile returns the first existing default config file: the one in
// the working directory, then the per-user one. It returns "" if neither
// exists.
func FindConfigFile() string {
	for _, path := range []string{DefaultConfigFile, UserConfigFile()} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// FileConfig is the YAML configuration file. Unset fields leave the
// built-in defaults in place.
type FileConfig struct {
	StartURL     string    `yaml:"start_url"`
	MaxPages     *int      `yaml:"max_pages"`
	Workers      *int      `yaml:"workers"`
	RequestDelay *Duration `yaml:"request_delay"`
	Timeout      *Duration `yaml:"timeout"`
	Retries      *int      `yaml:"retries"`
	Verbose      bool      `yaml:"verbose"`
	Output       string    `yaml:"output"`
	Format       string    `yaml:"format"`
	Registrable  bool      `yaml:"registrable"`
}

// Duration is a time.Duration that decodes from either a number of seconds
// (request_delay: 0.5) or a duration string (request_delay: 500ms).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a duration", value.Line)
	}

	switch value.Tag {
	case "!!int", "!!float":
		var secs float64
		if err := value.Decode(&secs); err != nil {
			return err
		}
		*d = Duration(secs * float64(time.Second))
		return nil
	}

	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// LoadConfigFile loads a FileConfig from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// settings is the fully resolved configuration of one crawl invocation.
type settings struct {
	Config      domcrawl.Config
	Output      string
	Format      fs.Format
	Registrable bool
	Verbose     bool
}

// resolve merges built-in defaults, the config file and flags, in increasing
// order of precedence.
func (c *CrawlCmd) resolve() (*settings, error) {
	s := &settings{Config: domcrawl.DefaultConfig()}
	format := ""

	path, explicit := c.Config, c.Config != ""
	if !explicit {
		path = FindConfigFile()
	}

	var fc *FileConfig
	err := ErrConfigNotFound
	if path != "" {
		fc, err = LoadConfigFile(path)
	}
	switch {
	case errors.Is(err, ErrConfigNotFound):
		if explicit {
			return nil, domcrawl.Errorf(domcrawl.EINVALID, "config file %q not found", path)
		}
	case err != nil:
		return nil, domcrawl.Errorf(domcrawl.EINVALID, "invalid config file %q: %v", path, err)
	default:
		s.apply(fc)
		format = fc.Format
	}

	if c.URL != "" {
		s.Config.StartURL = c.URL
	}
	if c.MaxPages != unset {
		s.Config.MaxPages = c.MaxPages
	}
	if c.Workers != unset {
		s.Config.Workers = c.Workers
	}
	if c.Delay != "" {
		delay, err := time.ParseDuration(c.Delay)
		if err != nil {
			return nil, domcrawl.Errorf(domcrawl.EINVALID, "invalid --delay %q: %v", c.Delay, err)
		}
		s.Config.RequestDelay = delay
	}
	if c.Timeout != "" {
		timeout, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, domcrawl.Errorf(domcrawl.EINVALID, "invalid --timeout %q: %v", c.Timeout, err)
		}
		s.Config.Timeout = timeout
	}
	if c.Retries != unset {
		s.Config.Retries = c.Retries
	}
	if c.Output != "" {
		s.Output = c.Output
	}
	if c.Format != "" {
		format = c.Format
	}
	s.Registrable = s.Registrable || c.Registrable
	s.Verbose = s.Verbose || c.Verbose

	s.Format, err = fs.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *settings) apply(fc *FileConfig) {
	if fc.StartURL != "" {
		s.Config.StartURL = fc.StartURL
	}
	if fc.MaxPages != nil {
		s.Config.MaxPages = *fc.MaxPages
	}
	if fc.Workers != nil {
		s.Config.Workers = *fc.Workers
	}
	if fc.RequestDelay != nil {
		s.Config.RequestDelay = time.Duration(*fc.RequestDelay)
	}
	if fc.Timeout != nil {
		s.Config.Timeout = time.Duration(*fc.Timeout)
	}
	if fc.Retries != nil {
		s.Config.Retries = *fc.Retries
	}
	s.Output = fc.Output
	s.Registrable = fc.Registrable
	s.Verbose = fc.Verbose
}
