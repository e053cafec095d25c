package metadata

import (
	"errors"
	"fmt"

	"github.com/alnah/go-md2tex/internal/yamlutil"
)

// DefaultBibliography is the bibliography base name assumed when the config
// does not name one. Matches the conventional manuscript file layout.
const DefaultBibliography = "03_REFERENCES"

var (
	ErrConfigParse = errors.New("metadata: cannot parse manuscript config")
)

// Config is the manuscript metadata schema. Manuscript configs are
// user-authored, so parsing is lenient: unknown fields are ignored and every
// field is optional with a generator-level fallback.
type Config struct {
	Title          Title         `yaml:"title"`
	Authors        []Author      `yaml:"authors"`
	Affiliations   []Affiliation `yaml:"affiliations"`
	Keywords       []string      `yaml:"keywords"`
	Bibliography   string        `yaml:"bibliography"`
	Date           string        `yaml:"date"`
	OutputFilename string        `yaml:"output_filename"`
	UseLineNumbers bool          `yaml:"use_line_numbers"`
}

// Title carries the long and short manuscript titles plus an optional explicit
// lead author for the running header.
type Title struct {
	Long       string `yaml:"long"`
	Short      string `yaml:"short"`
	LeadAuthor string `yaml:"lead_author"`
}

// Author is one manuscript author with affiliation short names and optional
// identity handles.
type Author struct {
	Name          string   `yaml:"name"`
	Email         string   `yaml:"email"`
	ORCID         string   `yaml:"orcid"`
	Twitter       string   `yaml:"twitter"`
	X             string   `yaml:"x"`
	Bluesky       string   `yaml:"bluesky"`
	Linkedin      string   `yaml:"linkedin"`
	Affiliations  []string `yaml:"affiliations"`
	Corresponding bool     `yaml:"corresponding_author"`
	CoFirst       bool     `yaml:"co_first_author"`
}

// Affiliation maps a short name used in author entries to its full form.
type Affiliation struct {
	Shortname string `yaml:"shortname"`
	FullName  string `yaml:"full_name"`
	Location  string `yaml:"location"`
}

// ParseConfig reads manuscript metadata from YAML.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yamlutil.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return &cfg, nil
}

// Merge overlays non-zero fields of other onto cfg and returns cfg. Used to
// let front-matter metadata override the config file per manuscript.
func (cfg *Config) Merge(other *Config) *Config {
	if other == nil {
		return cfg
	}
	if other.Title.Long != "" {
		cfg.Title.Long = other.Title.Long
	}
	if other.Title.Short != "" {
		cfg.Title.Short = other.Title.Short
	}
	if other.Title.LeadAuthor != "" {
		cfg.Title.LeadAuthor = other.Title.LeadAuthor
	}
	if len(other.Authors) > 0 {
		cfg.Authors = other.Authors
	}
	if len(other.Affiliations) > 0 {
		cfg.Affiliations = other.Affiliations
	}
	if len(other.Keywords) > 0 {
		cfg.Keywords = other.Keywords
	}
	if other.Bibliography != "" {
		cfg.Bibliography = other.Bibliography
	}
	if other.Date != "" {
		cfg.Date = other.Date
	}
	if other.OutputFilename != "" {
		cfg.OutputFilename = other.OutputFilename
	}
	if other.UseLineNumbers {
		cfg.UseLineNumbers = true
	}
	return cfg
}
