package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	md2tex "github.com/alnah/go-md2tex"
	"github.com/alnah/go-md2tex/internal/assets"
	"github.com/alnah/go-md2tex/internal/check"
	"github.com/alnah/go-md2tex/internal/config"
	"github.com/alnah/go-md2tex/internal/fileutil"
	"github.com/alnah/go-md2tex/internal/hints"
	"github.com/alnah/go-md2tex/internal/metadata"
	"github.com/alnah/go-md2tex/internal/yamlutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadManuscript     = errors.New("failed to read manuscript file")
	ErrWriteLatex         = errors.New("failed to write LaTeX file")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// defaultOutputName names the main .tex file when the manuscript metadata
// does not set output_filename.
const defaultOutputName = "MANUSCRIPT"

// ManuscriptToConvert represents a single conversion job: a manuscript
// directory or a standalone markdown file.
type ManuscriptToConvert struct {
	InputPath string
	IsDir     bool
	OutputDir string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath string
	Outputs   []string
	Warnings  []string
	Err       error
	Duration  time.Duration
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		loaded, err := config.LoadConfig(flags.common.config)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound([]string{flags.common.config}))
			}
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	inputs := positionalArgs
	if len(inputs) == 0 {
		if cfg.Input.DefaultDir == "" {
			return fmt.Errorf("%w%s", ErrNoInput, hints.ForManuscriptNotFound())
		}
		inputs = []string{cfg.Input.DefaultDir}
	}

	templateText, err := resolveTemplateText(flags.template, cfg)
	if err != nil {
		return err
	}

	svc := md2tex.New(md2tex.WithTemplate(templateText), md2tex.WithNow(env.Now))

	outputDir := flags.output
	if outputDir == "" {
		outputDir = cfg.Output.DefaultDir
	}

	jobs, err := discoverManuscripts(inputs, outputDir)
	if err != nil {
		return err
	}

	// "auto" is the tool default and also what the service falls back to, so
	// only a non-default config date overrides manuscript metadata.
	docDate := flags.docDate
	if docDate == "" && cfg.Date != "auto" {
		docDate = cfg.Date
	}

	workers := resolveWorkers(flags.workers, cfg.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Workers: %d\n", workers)
	}

	results := convertBatch(ctx, svc, jobs, workers, docDate)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}
	return nil
}

// resolveTemplateText loads the LaTeX template selected by flag or config.
// A flag value naming an existing file wins over asset names; otherwise the
// name resolves against the configured template directory, falling back to the
// embedded assets. Empty means the service default.
func resolveTemplateText(flagTemplate string, cfg *config.Config) (string, error) {
	if flagTemplate != "" && (fileutil.IsFilePath(flagTemplate) || fileutil.FileExists(flagTemplate)) {
		if !fileutil.FileExists(flagTemplate) {
			return "", fmt.Errorf("%w: template %s", ErrReadManuscript, flagTemplate)
		}
		content, err := os.ReadFile(flagTemplate) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadManuscript, err)
		}
		return string(content), nil
	}

	name := flagTemplate
	if name == "" {
		name = cfg.Template.Name
	}
	if name == "" {
		return "", nil
	}

	if cfg.Template.Dir != "" {
		loader, err := assets.NewFilesystemLoader(cfg.Template.Dir)
		if err != nil {
			return "", err
		}
		return loader.LoadTemplate(name)
	}

	text, err := assets.LoadTemplate(name)
	if err != nil {
		if errors.Is(err, assets.ErrTemplateNotFound) {
			return "", fmt.Errorf("%w%s", err, hints.ForTemplateNotFound([]string{assets.DefaultTemplate}))
		}
		return "", err
	}
	return text, nil
}

// discoverManuscripts resolves each input into a conversion job. Directories
// are whole manuscripts; files must be markdown.
func discoverManuscripts(inputs []string, outputDir string) ([]ManuscriptToConvert, error) {
	jobs := make([]ManuscriptToConvert, 0, len(inputs))
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v%s", ErrReadManuscript, err, hints.ForManuscriptNotFound())
		}

		outDir := outputDir
		if outDir == "" {
			if info.IsDir() {
				outDir = input
			} else {
				outDir = filepath.Dir(input)
			}
		}

		if !info.IsDir() {
			if err := validateMarkdownExtension(input); err != nil {
				return nil, err
			}
		}
		jobs = append(jobs, ManuscriptToConvert{InputPath: input, IsDir: info.IsDir(), OutputDir: outDir})
	}
	return jobs, nil
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	ext := filepath.Ext(path)
	if ext != ".md" && ext != ".markdown" {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// convertBatch processes jobs concurrently. The service is stateless, so
// workers share one instance instead of a pool.
func convertBatch(ctx context.Context, svc *md2tex.Service, manuscripts []ManuscriptToConvert, workers int, docDate string) []ConversionResult {
	if len(manuscripts) == 0 {
		return nil
	}
	if workers > len(manuscripts) {
		workers = len(manuscripts)
	}

	results := make([]ConversionResult, len(manuscripts))
	var wg sync.WaitGroup
	jobs := make(chan int, len(manuscripts))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: manuscripts[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertOne(ctx, svc, manuscripts[idx], docDate)
			}
		}()
	}

	for i := range manuscripts {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertOne dispatches a single job to the directory or file path.
func convertOne(ctx context.Context, svc *md2tex.Service, m ManuscriptToConvert, docDate string) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: m.InputPath}

	var err error
	if m.IsDir {
		result.Outputs, result.Warnings, err = convertManuscriptDir(ctx, svc, m.InputPath, m.OutputDir, docDate)
	} else {
		result.Outputs, err = convertMarkdownFile(ctx, svc, m.InputPath, m.OutputDir, docDate)
	}
	result.Err = err
	result.Duration = time.Since(start)
	return result
}

// convertManuscriptDir renders a manuscript directory: the main document from
// 00_CONFIG.yml + 01_MAIN.md, and the supplementary information when present.
// Warnings flag problems that do not block conversion, such as a missing
// bibliography file the output will reference.
func convertManuscriptDir(ctx context.Context, svc *md2tex.Service, dir, outDir, docDate string) ([]string, []string, error) {
	configYAML, err := os.ReadFile(filepath.Join(dir, check.ConfigFile)) // #nosec G304 -- user-provided path
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %v", ErrReadManuscript, err)
		}
		configYAML = nil // front matter may still carry the metadata
	}

	mainContent, err := os.ReadFile(filepath.Join(dir, check.MainFile)) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v%s", ErrReadManuscript, err, hints.ForManuscriptNotFound())
	}

	texBytes, err := svc.Render(ctx, md2tex.RenderInput{
		Markdown:   string(mainContent),
		ConfigYAML: configYAML,
		Date:       docDate,
	})
	if err != nil {
		if configYAML == nil && errors.Is(err, md2tex.ErrInvalidMetadata) {
			return nil, nil, fmt.Errorf("%w%s", err, hints.ForMissingConfig())
		}
		return nil, nil, err
	}

	var warnings []string
	bibName := resolveBibliographyName(configYAML, string(mainContent))
	if !fileutil.FileExists(filepath.Join(dir, bibName+".bib")) {
		warnings = append(warnings,
			fmt.Sprintf("bibliography %s.bib not found%s", bibName, hints.ForBibliography(bibName)))
	}

	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return nil, warnings, fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
	}

	mainOut := filepath.Join(outDir, resolveOutputName(configYAML, string(mainContent))+".tex")
	if err := os.WriteFile(mainOut, texBytes, filePermissions); err != nil {
		return nil, warnings, fmt.Errorf("%w: %v", ErrWriteLatex, err)
	}
	outputs := []string{mainOut}

	suppOut, err := convertSupplementary(ctx, svc, dir, outDir)
	if err != nil {
		return outputs, warnings, err
	}
	if suppOut != "" {
		outputs = append(outputs, suppOut)
	}
	return outputs, warnings, nil
}

// convertSupplementary renders 02_SUPPLEMENTARY_INFO.md to a LaTeX fragment
// next to the main document. Returns "" when the manuscript has none.
func convertSupplementary(ctx context.Context, svc *md2tex.Service, dir, outDir string) (string, error) {
	content, err := os.ReadFile(filepath.Join(dir, check.SupplementaryFile)) // #nosec G304 -- user-provided path
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrReadManuscript, err)
	}

	_, body := yamlutil.SplitFrontMatter(string(content))
	out, err := svc.Convert(ctx, md2tex.Input{Markdown: body, Supplementary: true})
	if err != nil {
		return "", fmt.Errorf("converting %s: %w", check.SupplementaryFile, err)
	}

	base := strings.TrimSuffix(check.SupplementaryFile, filepath.Ext(check.SupplementaryFile))
	outPath := filepath.Join(outDir, base+".tex")
	if err := os.WriteFile(outPath, []byte(out.Latex), filePermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteLatex, err)
	}
	return outPath, nil
}

// convertMarkdownFile renders a standalone markdown file; its metadata comes
// from YAML front matter alone.
func convertMarkdownFile(ctx context.Context, svc *md2tex.Service, path, outDir, docDate string) ([]string, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadManuscript, err)
	}

	texBytes, err := svc.Render(ctx, md2tex.RenderInput{
		Markdown: string(content),
		Date:     docDate,
	})
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(outDir, base+".tex")
	if err := os.WriteFile(outPath, texBytes, filePermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteLatex, err)
	}
	return []string{outPath}, nil
}

// resolveOutputName picks the main output base name from the manuscript
// metadata, front matter winning over the config file.
func resolveOutputName(configYAML []byte, markdown string) string {
	name := defaultOutputName

	if len(configYAML) > 0 {
		if cfg, err := metadata.ParseConfig(configYAML); err == nil && cfg.OutputFilename != "" {
			name = cfg.OutputFilename
		}
	}
	if front, _ := yamlutil.SplitFrontMatter(markdown); len(front) > 0 {
		if cfg, err := metadata.ParseConfig(front); err == nil && cfg.OutputFilename != "" {
			name = cfg.OutputFilename
		}
	}

	return strings.TrimSuffix(name, ".tex")
}

// resolveBibliographyName picks the bibliography base name the rendered
// document references, front matter winning over the config file.
func resolveBibliographyName(configYAML []byte, markdown string) string {
	name := metadata.DefaultBibliography

	if len(configYAML) > 0 {
		if cfg, err := metadata.ParseConfig(configYAML); err == nil && cfg.Bibliography != "" {
			name = cfg.Bibliography
		}
	}
	if front, _ := yamlutil.SplitFrontMatter(markdown); len(front) > 0 {
		if cfg, err := metadata.ParseConfig(front); err == nil && cfg.Bibliography != "" {
			name = cfg.Bibliography
		}
	}

	return strings.TrimSuffix(name, ".bib")
}

// printResultsWithWriter outputs conversion results using the provided writers.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		for _, w := range r.Warnings {
			fmt.Fprintf(env.Stderr, "WARNING %s: %s\n", r.InputPath, w)
		}
		for _, out := range r.Outputs {
			if verbose {
				fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, out, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(env.Stdout, "Created %s\n", out)
			}
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}
