package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	template string
	docDate  string
}

// checkFlags holds flags for the check command.
type checkFlags struct {
	common     commonFlags
	jsonOutput bool
}

// watchFlags holds flags for the watch command.
type watchFlags struct {
	common commonFlags
	addr   string
	style  string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.template, "template", "", "LaTeX template name or file path")
	fs.StringVar(&f.docDate, "doc-date", "", "document date: \"auto\", \"auto:FORMAT\", or literal")

	addCommonFlags(fs, &f.common)
	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCheckFlags parses check command flags and returns positional args.
func parseCheckFlags(args []string) (*checkFlags, []string, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	f := &checkFlags{}

	fs.BoolVar(&f.jsonOutput, "json", false, "machine-readable JSON output")

	addCommonFlags(fs, &f.common)
	fs.Usage = func() { printCheckUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string) (*watchFlags, []string, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	f := &watchFlags{}

	fs.StringVar(&f.addr, "addr", "", "preview listen address (default: localhost:8080)")
	fs.StringVar(&f.style, "style", "", "preview CSS style name")

	addCommonFlags(fs, &f.common)
	fs.Usage = func() { printWatchUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
