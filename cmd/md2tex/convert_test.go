package main

// Notes:
// - Conversion tests run the real library service end to end; the pipeline is
//   pure CPU so no external tooling is needed.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testConfig = `title:
  long: "Widget Dynamics in Test Environments"
  short: "Widget Dynamics"
authors:
  - name: "Ada Marie Lovelace"
    email: "ada@example.org"
    affiliations: ["uni"]
    corresponding_author: true
affiliations:
  - shortname: "uni"
    full_name: "University of Examples"
    location: "Exampleton"
keywords:
  - widgets
date: "2026-03-07"
output_filename: "WIDGETS"
`

const testMain = `## Abstract

We study **widgets** [@smith2023].

## Methods

Standard widget protocols.
`

// testEnv returns an Environment with captured output and a fixed clock.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
	}
	return env, &stdout, &stderr
}

// setupManuscript creates a manuscript directory with the given extra files.
func setupManuscript(t *testing.T, extra map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"00_CONFIG.yml": testConfig,
		"01_MAIN.md":    testMain,
	}
	for name, content := range extra {
		files[name] = content
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunConvertManuscriptDir(t *testing.T) {
	t.Parallel()

	dir := setupManuscript(t, map[string]string{
		"02_SUPPLEMENTARY_INFO.md": "## Supplementary Note 1: Extra {#snote:extra}\n\nDetails.",
	})
	env, stdout, _ := testEnv()

	err := runConvert(context.Background(), []string{dir}, &convertFlags{}, env)
	if err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	mainOut := filepath.Join(dir, "WIDGETS.tex")
	content, err := os.ReadFile(mainOut)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	for _, want := range []string{
		`\title{Widget Dynamics in Test Environments}`,
		`\author[1,\Letter]{Ada Marie Lovelace}`,
		`\textbf{widgets}`,
		`\cite{smith2023}`,
		`\date{2026-03-07}`,
	} {
		if !strings.Contains(string(content), want) {
			t.Errorf("output missing %q", want)
		}
	}

	suppOut := filepath.Join(dir, "02_SUPPLEMENTARY_INFO.tex")
	if _, err := os.Stat(suppOut); err != nil {
		t.Errorf("supplementary output not written: %v", err)
	}

	if !strings.Contains(stdout.String(), "WIDGETS.tex") {
		t.Errorf("stdout = %q, want created file names", stdout.String())
	}
}

func TestRunConvertOutputDir(t *testing.T) {
	t.Parallel()

	dir := setupManuscript(t, nil)
	outDir := filepath.Join(t.TempDir(), "out")
	env, _, _ := testEnv()

	flags := &convertFlags{output: outDir}
	if err := runConvert(context.Background(), []string{dir}, flags, env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "WIDGETS.tex")); err != nil {
		t.Errorf("output not in --output directory: %v", err)
	}
}

func TestRunConvertSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	content := "---\ntitle:\n  long: \"Standalone Notes\"\ndate: \"2026-01-02\"\n---\n## Abstract\n\nShort."
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	env, _, _ := testEnv()

	if err := runConvert(context.Background(), []string{path}, &convertFlags{}, env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "notes.tex"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(out), `\title{Standalone Notes}`) {
		t.Errorf("output missing title, got:\n%s", out)
	}
}

func TestRunConvertBibliographyWarning(t *testing.T) {
	t.Parallel()

	t.Run("missing bibliography warns", func(t *testing.T) {
		t.Parallel()
		dir := setupManuscript(t, nil)
		env, _, stderr := testEnv()

		if err := runConvert(context.Background(), []string{dir}, &convertFlags{}, env); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		if !strings.Contains(stderr.String(), "03_REFERENCES.bib not found") {
			t.Errorf("stderr = %q, want bibliography warning", stderr.String())
		}
	})

	t.Run("present bibliography is silent", func(t *testing.T) {
		t.Parallel()
		dir := setupManuscript(t, map[string]string{
			"03_REFERENCES.bib": "@article{smith2023, title={Widgets}}",
		})
		env, _, stderr := testEnv()

		if err := runConvert(context.Background(), []string{dir}, &convertFlags{}, env); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		if strings.Contains(stderr.String(), "not found") {
			t.Errorf("stderr = %q, want no bibliography warning", stderr.String())
		}
	})
}

func TestRunConvertMissingConfigHint(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	main := "---\ntitle: [unclosed\n---\n## Abstract\n\nBody."
	if err := os.WriteFile(filepath.Join(dir, "01_MAIN.md"), []byte(main), 0o644); err != nil {
		t.Fatal(err)
	}
	env, _, stderr := testEnv()

	if err := runConvert(context.Background(), []string{dir}, &convertFlags{}, env); err == nil {
		t.Fatal("runConvert() error = nil, want metadata failure")
	}
	if !strings.Contains(stderr.String(), "00_CONFIG.yml") {
		t.Errorf("stderr = %q, want hint mentioning 00_CONFIG.yml", stderr.String())
	}
}

func TestRunConvertErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		flags   convertFlags
		wantErr error
	}{
		{
			name:    "no input",
			args:    nil,
			wantErr: ErrNoInput,
		},
		{
			name:    "missing path",
			args:    []string{"/nonexistent/manuscript"},
			wantErr: ErrReadManuscript,
		},
		{
			name:    "wrong extension",
			args:    []string{"testdata-placeholder"}, // replaced below
			wantErr: ErrInvalidExtension,
		},
		{
			name:    "negative workers",
			args:    []string{"whatever"},
			flags:   convertFlags{workers: -1},
			wantErr: ErrInvalidWorkerCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := tt.args
			if tt.name == "wrong extension" {
				path := filepath.Join(t.TempDir(), "doc.txt")
				if err := os.WriteFile(path, []byte("text"), 0o644); err != nil {
					t.Fatal(err)
				}
				args = []string{path}
			}
			env, _, _ := testEnv()
			flags := tt.flags
			err := runConvert(context.Background(), args, &flags, env)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("runConvert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveOutputName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		configYAML string
		markdown   string
		want       string
	}{
		{
			name: "default",
			want: "MANUSCRIPT",
		},
		{
			name:       "from config",
			configYAML: "output_filename: PAPER",
			want:       "PAPER",
		},
		{
			name:       "front matter wins",
			configYAML: "output_filename: PAPER",
			markdown:   "---\noutput_filename: DRAFT\n---\ncontent",
			want:       "DRAFT",
		},
		{
			name:       "tex suffix stripped",
			configYAML: "output_filename: PAPER.tex",
			want:       "PAPER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := resolveOutputName([]byte(tt.configYAML), tt.markdown)
			if got != tt.want {
				t.Errorf("resolveOutputName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveBibliographyName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		configYAML string
		markdown   string
		want       string
	}{
		{
			name: "default",
			want: "03_REFERENCES",
		},
		{
			name:       "from config",
			configYAML: "bibliography: refs",
			want:       "refs",
		},
		{
			name:       "front matter wins",
			configYAML: "bibliography: refs",
			markdown:   "---\nbibliography: citations\n---\ncontent",
			want:       "citations",
		},
		{
			name:       "bib suffix stripped",
			configYAML: "bibliography: refs.bib",
			want:       "refs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := resolveBibliographyName([]byte(tt.configYAML), tt.markdown)
			if got != tt.want {
				t.Errorf("resolveBibliographyName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	if err := validateWorkers(0); err != nil {
		t.Errorf("validateWorkers(0) = %v, want nil", err)
	}
	if err := validateWorkers(8); err != nil {
		t.Errorf("validateWorkers(8) = %v, want nil", err)
	}
	if err := validateWorkers(-1); !errors.Is(err, ErrInvalidWorkerCount) {
		t.Errorf("validateWorkers(-1) = %v, want ErrInvalidWorkerCount", err)
	}
	if err := validateWorkers(1000); !errors.Is(err, ErrInvalidWorkerCount) {
		t.Errorf("validateWorkers(1000) = %v, want ErrInvalidWorkerCount", err)
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	if got := resolveWorkers(4, 2); got != 4 {
		t.Errorf("resolveWorkers(4, 2) = %d, want flag to win", got)
	}
	if got := resolveWorkers(0, 2); got != 2 {
		t.Errorf("resolveWorkers(0, 2) = %d, want config value", got)
	}
	if got := resolveWorkers(0, 0); got < 1 || got > 8 {
		t.Errorf("resolveWorkers(0, 0) = %d, want 1..8", got)
	}
}
