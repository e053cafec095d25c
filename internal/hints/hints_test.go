package hints

import (
	"strings"
	"testing"
)

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{
			name:     "empty paths",
			paths:    []string{},
			contains: "--config",
		},
		{
			name:     "with user config path",
			paths:    []string{"./foo.yaml", "/home/u/.config/go-md2tex/foo.yaml"},
			contains: "go-md2tex/foo.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hint := ForConfigNotFound(tt.paths)

			if !strings.Contains(hint, "hint:") {
				t.Error("expected hint prefix")
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForManuscriptNotFound(t *testing.T) {
	t.Parallel()

	hint := ForManuscriptNotFound()
	if !strings.Contains(hint, "01_MAIN.md") {
		t.Errorf("expected 01_MAIN.md mention, got %q", hint)
	}
}

func TestForMissingConfig(t *testing.T) {
	t.Parallel()

	hint := ForMissingConfig()
	if !strings.Contains(hint, "00_CONFIG.yml") {
		t.Errorf("expected 00_CONFIG.yml mention, got %q", hint)
	}
	if !strings.Contains(hint, "front matter") {
		t.Errorf("expected front matter mention, got %q", hint)
	}
}

func TestForTemplateNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		available []string
		wantEmpty bool
		contains  string
	}{
		{
			name:      "empty available",
			available: []string{},
			wantEmpty: true,
		},
		{
			name:      "with templates",
			available: []string{"article", "letter"},
			contains:  "article, letter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hint := ForTemplateNotFound(tt.available)

			if tt.wantEmpty && hint != "" {
				t.Errorf("expected empty hint, got %q", hint)
			}
			if !tt.wantEmpty && !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForStyleNotFound(nil); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
	if hint := ForStyleNotFound([]string{"preview"}); !strings.Contains(hint, "preview") {
		t.Errorf("expected style list, got %q", hint)
	}
}

func TestForBibliography(t *testing.T) {
	t.Parallel()

	hint := ForBibliography("03_REFERENCES")
	if !strings.Contains(hint, "03_REFERENCES.bib") {
		t.Errorf("expected bibliography file mention, got %q", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	// All hints should start with newline, spaces, and "hint:"
	hints := []string{
		ForOutputDirectory(),
		ForManuscriptNotFound(),
		ForMissingConfig(),
		ForWatchAddr(),
		ForBibliography("refs"),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
