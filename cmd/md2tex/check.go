package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alnah/go-md2tex/internal/check"
)

// runCheckCmd executes the check command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runCheckCmd(args []string, env *Environment) int {
	flags, positional, err := parseCheckFlags(args)
	if err != nil {
		return ExitUsage
	}

	dir := "."
	if len(positional) > 0 {
		dir = positional[0]
	}

	report, err := check.Run(dir)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	if flags.jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printCheckReport(env.Stdout, report)
	}

	if report.Status == check.StatusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// printCheckReport outputs human-readable check results.
func printCheckReport(w io.Writer, r *check.Report) {
	fmt.Fprintf(w, "md2tex check: %s\n", r.Manuscript.Path)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Structure")
	printFindings(w, r.Manuscript.Findings)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Citations")
	if s := r.Citations.Stats; s.TotalCitations > 0 {
		fmt.Fprintf(w, "  [OK] %d citations, %d unique\n", s.TotalCitations, s.UniqueCitations)
		if s.MostCited != "" {
			fmt.Fprintf(w, "  [OK] Most cited: %s (%d)\n", s.MostCited, s.MostCitedCount)
		}
		if len(s.UnusedBibEntries) > 0 {
			fmt.Fprintf(w, "  [WARN] Unused bibliography entries: %d\n", len(s.UnusedBibEntries))
		}
	} else {
		fmt.Fprintln(w, "  [OK] No citations found")
	}
	printFindings(w, r.Citations.Findings)
	fmt.Fprintln(w)

	switch r.Status {
	case check.StatusOK:
		fmt.Fprintln(w, "Status: Ready to convert")
	case check.StatusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case check.StatusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printFindings(w io.Writer, findings []check.Finding) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "  [OK] No problems found")
		return
	}
	for _, f := range findings {
		label := "[WARN]"
		if f.Level == check.LevelError {
			label = "[ERROR]"
		}
		fmt.Fprintf(w, "  %s %s", label, f.Message)
		if f.Line > 0 {
			fmt.Fprintf(w, " (%s:%d)", f.File, f.Line)
		} else if f.File != "" {
			fmt.Fprintf(w, " (%s)", f.File)
		}
		fmt.Fprintln(w)
		if f.Suggestion != "" {
			fmt.Fprintf(w, "         %s\n", f.Suggestion)
		}
	}
}
