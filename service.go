package md2tex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-md2tex/internal/assets"
	"github.com/alnah/go-md2tex/internal/metadata"
	"github.com/alnah/go-md2tex/internal/pipeline"
	"github.com/alnah/go-md2tex/internal/textemplate"
	"github.com/alnah/go-md2tex/internal/yamlutil"
)

// Service converts manuscript Markdown to LaTeX. The zero-cost New constructor
// applies functional options; a configured Service is immutable and safe for
// concurrent use.
type Service struct {
	cfg serviceConfig
}

type serviceConfig struct {
	template string
	now      func() time.Time
}

// Option configures a Service.
type Option func(*serviceConfig)

// WithTemplate sets the default LaTeX template text used by Render when the
// input does not carry one. Without this option the embedded article template
// is used.
func WithTemplate(text string) Option {
	return func(c *serviceConfig) { c.template = text }
}

// WithNow sets the clock used to resolve "auto" document dates. Intended for
// tests.
func WithNow(now func() time.Time) Option {
	return func(c *serviceConfig) { c.now = now }
}

// New creates a Service with the given options.
func New(opts ...Option) *Service {
	cfg := serviceConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Service{cfg: cfg}
}

// Convert runs the conversion pipeline over one piece of Markdown and returns
// the LaTeX source. The content is treated as a single section; use
// ConvertSections for a whole manuscript.
func (s *Service) Convert(ctx context.Context, in Input) (*Output, error) {
	if strings.TrimSpace(in.Markdown) == "" {
		return nil, ErrEmptyMarkdown
	}
	latex, err := pipeline.ConvertContext(ctx, in.Markdown, in.Supplementary)
	if err != nil {
		return nil, err
	}
	return &Output{Latex: latex}, nil
}

// ConvertSections splits a manuscript on ## headers, converts each section
// independently, and returns converted LaTeX keyed by canonical section key.
// YAML front matter is stripped before splitting. Sections mapping to the same
// key are concatenated in order of appearance.
func (s *Service) ConvertSections(ctx context.Context, manuscript string) (SectionMap, error) {
	if strings.TrimSpace(manuscript) == "" {
		return nil, ErrEmptyMarkdown
	}
	_, body := yamlutil.SplitFrontMatter(manuscript)

	sections := pipeline.ExtractSections(body)
	if len(sections) == 0 {
		return nil, ErrNoSections
	}

	out := make(SectionMap, len(sections))
	for _, sec := range sections {
		latex, err := pipeline.ConvertContext(ctx, sec.Content, sec.Supplementary)
		if err != nil {
			return nil, err
		}
		if prev, ok := out[sec.Key]; ok {
			latex = prev + "\n\n" + latex
		}
		out[sec.Key] = latex
	}
	return out, nil
}

// sectionMarkers maps canonical section keys to the template placeholders
// they fill, in fill order. results_and_discussion lands in the results slot;
// templates that want it split should use separate sections.
var sectionMarkers = []struct {
	key    string
	marker string
}{
	{"abstract", textemplate.Abstract},
	{"main", textemplate.MainContent},
	{"methods", textemplate.Methods},
	{"results", textemplate.Results},
	{"results_and_discussion", textemplate.Results},
	{"discussion", textemplate.Discussion},
	{"conclusion", textemplate.Conclusion},
	{"data_availability", textemplate.DataAvailability},
	{"code_availability", textemplate.CodeAvailability},
	{"author_contributions", textemplate.AuthorContributions},
	{"acknowledgements", textemplate.Acknowledgements},
	{"funding", textemplate.Funding},
}

// Render assembles a complete .tex document: parse and merge metadata, resolve
// the document date, convert the manuscript sections, and fill the template
// placeholders. Section placeholders without a matching section are filled
// empty so no marker leaks into the output.
func (s *Service) Render(ctx context.Context, in RenderInput) ([]byte, error) {
	if strings.TrimSpace(in.Markdown) == "" {
		return nil, ErrEmptyMarkdown
	}

	cfg, err := s.resolveConfig(in)
	if err != nil {
		return nil, err
	}

	date, err := metadata.ResolveDate(cfg.Date, s.cfg.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	sections, err := s.ConvertSections(ctx, in.Markdown)
	if err != nil {
		return nil, err
	}

	template, err := s.resolveTemplate(in)
	if err != nil {
		return nil, err
	}

	values := map[string]string{
		textemplate.UseLineNumbers:         metadata.LineNumbers(cfg),
		textemplate.LeadAuthor:             metadata.LeadAuthor(cfg),
		textemplate.LongTitle:              metadata.LongTitle(cfg),
		textemplate.ShortTitle:             metadata.ShortTitle(cfg),
		textemplate.AuthorsAndAffiliations: metadata.AuthorsAndAffiliations(cfg),
		textemplate.CorrespondingAuthors:   metadata.CorrespondingAuthors(cfg),
		textemplate.ExtendedAuthorInfo:     metadata.ExtendedAuthorInfo(cfg),
		textemplate.Keywords:               metadata.Keywords(cfg),
		textemplate.Bibliography:           metadata.Bibliography(cfg),
		textemplate.DocDate:                date,
	}
	for _, sm := range sectionMarkers {
		if _, ok := values[sm.marker]; !ok {
			values[sm.marker] = ""
		}
		if content := sections[sm.key]; content != "" {
			values[sm.marker] = content
		}
	}

	return []byte(textemplate.Fill(template, values)), nil
}

// resolveConfig parses ConfigYAML and overlays front-matter metadata from the
// manuscript, then an explicit Date override.
func (s *Service) resolveConfig(in RenderInput) (*metadata.Config, error) {
	cfg := &metadata.Config{}
	if len(in.ConfigYAML) > 0 {
		parsed, err := metadata.ParseConfig(in.ConfigYAML)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
		}
		cfg = parsed
	}

	if front, _ := yamlutil.SplitFrontMatter(in.Markdown); len(front) > 0 {
		overlay, err := metadata.ParseConfig(front)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
		}
		cfg = cfg.Merge(overlay)
	}

	if in.Date != "" {
		cfg.Date = in.Date
	}
	if cfg.Date == "" {
		cfg.Date = "auto"
	}
	return cfg, nil
}

// resolveTemplate picks the template text: per-call input, then the service
// default, then the embedded article template.
func (s *Service) resolveTemplate(in RenderInput) (string, error) {
	if in.Template != "" {
		return in.Template, nil
	}
	if s.cfg.template != "" {
		return s.cfg.template, nil
	}
	template, err := assets.LoadTemplate(assets.DefaultTemplate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}
	return template, nil
}
