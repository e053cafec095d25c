package pipeline

// Notes:
// - Path normalization cases pin the directory layout the LaTeX build expects;
//   they are the contract with the Figures/ tree, not an implementation detail

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestConvertFigures - Syntax Forms
// ---------------------------------------------------------------------------

func TestConvertFigures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		markdown      string
		supplementary bool
		wantContains  []string
		wantExcludes  []string
	}{
		{
			name:     "new format with attributes",
			markdown: "![](FIGURES/overview.svg)\n{#fig:overview width=0.8} **Overview.** Panel A shows input.\n\nNext paragraph.",
			wantContains: []string{
				"\\begin{figure}[ht]",
				"\\includegraphics[width=0.8\\linewidth]{Figures/overview/overview.png}",
				"\\caption{\\textbf{Overview.} Panel A shows input.}",
				"\\label{fig:overview}",
				"\\end{figure}",
				"Next paragraph.",
			},
		},
		{
			name:         "legacy format with attributes",
			markdown:     `![Workflow diagram](Figures/workflow.png){#fig:workflow tex_position="!ht" width="0.5"}`,
			wantContains: []string{
				"\\begin{figure}[!ht]",
				"\\includegraphics[width=0.5\\linewidth]{Figures/workflow/workflow.png}",
				"\\caption{Workflow diagram}",
				"\\label{fig:workflow}",
			},
		},
		{
			name:         "plain figure without attributes",
			markdown:     "![Simple caption](Figures/plot.pdf)",
			wantContains: []string{
				"\\begin{figure}[ht]",
				"\\includegraphics[width=\\linewidth]{Figures/plot/plot.pdf}",
				"\\caption{Simple caption}",
			},
			wantExcludes: []string{"\\label"},
		},
		{
			name:         "explicit latex width kept",
			markdown:     `![Cap](Figures/a.png){#fig:a width="\textwidth"}`,
			wantContains: []string{`\includegraphics[width=\textwidth]`},
		},
		{
			name:         "already nested path not rewritten",
			markdown:     "![Cap](Figures/overview/overview.png)",
			wantContains: []string{"{Figures/overview/overview.png}"},
			wantExcludes: []string{"overview/overview/overview"},
		},
		{
			name:          "supplementary newpage",
			markdown:      "![A](Figures/a.png)\n\n![B](Figures/b.png)",
			supplementary: true,
			wantContains:  []string{"\\end{figure}\n\\newpage"},
		},
		{
			name:         "caption italic converted",
			markdown:     "![The *E. coli* results](Figures/ecoli.png)",
			wantContains: []string{`\caption{The \textit{E. coli} results}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ConvertFigures(tt.markdown, tt.supplementary)

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("ConvertFigures() missing %q\ngot:\n%s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("ConvertFigures() should not contain %q\ngot:\n%s", exclude, got)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNormalizeFigurePath
// ---------------------------------------------------------------------------

func TestNormalizeFigurePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"FIGURES/fig1.svg", "Figures/fig1/fig1.png"},
		{"Figures/fig1.png", "Figures/fig1/fig1.png"},
		{"Figures/fig1/fig1.png", "Figures/fig1/fig1.png"},
		{"Figures/nested/deep.svg", "Figures/nested/deep.png"},
		{"other/plot.png", "other/plot.png"},
	}
	for _, tt := range tests {
		if got := normalizeFigurePath(tt.in); got != tt.want {
			t.Errorf("normalizeFigurePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
