package pipeline

// Notes:
// - Disjointness cases feed reference-shaped text straight into the citation
//   converter, which is the worst case: the reference passes have not run

import "testing"

// ---------------------------------------------------------------------------
// TestReferenceResolvers
// ---------------------------------------------------------------------------

func TestReferenceResolvers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"figure ref", ConvertFigureReferences, "See @fig:main.", `See \ref{fig:main}.`},
		{"supplementary figure ref", ConvertFigureReferences, "See @sfig:extra.", `See \ref{sfig:extra}.`},
		{"equation ref", ConvertEquationReferences, "From @eq:loss we get", `From \ref{eq:loss} we get`},
		{"table ref", ConvertTableReferences, "In @tbl:params and @stable:raw.", `In \ref{tbl:params} and \ref{stable:raw}.`},
		{"snote ref", ConvertSupplementaryNoteReferences, "Details in {@snote:file_formats}.", `Details in \ref{snote:file_formats}.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvertCitations
// ---------------------------------------------------------------------------

func TestConvertCitations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare citation",
			in:   "As shown by @smith2020 earlier.",
			want: `As shown by \cite{smith2020} earlier.`,
		},
		{
			name: "bracketed multiple",
			in:   "Known results [@smith2020;@jones2021; @doe2019].",
			want: `Known results \cite{smith2020,jones2021,doe2019}.`,
		},
		{
			name: "reserved prefixes skipped",
			in:   "See @fig:a, @eq:b, @tbl:c, @sfig:d, @stable:e, @snote:f.",
			want: "See @fig:a, @eq:b, @tbl:c, @sfig:d, @stable:e, @snote:f.",
		},
		{
			name: "reserved-looking key without colon is a citation",
			in:   "Credit to @fig and @stable.",
			want: `Credit to \cite{fig} and \cite{stable}.`,
		},
		{
			name: "hyphen and underscore keys",
			in:   "By @van-der-berg_2019.",
			want: `By \cite{van-der-berg_2019}.`,
		},
		{
			name: "protected table line skipped",
			in:   "XXPROTECTEDMARKDOWNTABLEXX0XXPROTECTEDMARKDOWNTABLEXX with @key text",
			want: "XXPROTECTEDMARKDOWNTABLEXX0XXPROTECTEDMARKDOWNTABLEXX with @key text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ConvertCitations(tt.in); got != tt.want {
				t.Errorf("ConvertCitations(%q)\ngot:  %q\nwant: %q", tt.in, got, tt.want)
			}
		})
	}
}
