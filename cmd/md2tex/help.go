package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2tex <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert manuscript markdown to LaTeX")
	fmt.Fprintln(w, "  check      Validate manuscript structure and citations")
	fmt.Fprintln(w, "  watch      Serve a live HTML preview of the manuscript")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Running 'md2tex <path>' without a command converts the path.")
	fmt.Fprintln(w, "Run 'md2tex help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2tex convert <manuscript-dir|file.md>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert manuscript markdown to LaTeX.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Manuscript directory (00_CONFIG.yml + 01_MAIN.md) or a single")
	fmt.Fprintln(w, "           markdown file (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to input)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --template <s>        LaTeX template name or file path")
	fmt.Fprintln(w, "      --doc-date <s>        Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "                            Use [text] to escape literals: [Date]: YYYY")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printCheckUsage prints usage for the check command.
func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2tex check [manuscript-dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Validate manuscript structure and citations.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  manuscript-dir    Directory to check (default: current directory)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json            Machine-readable JSON output")
	fmt.Fprintln(w, "  -q, --quiet           Only show errors")
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2tex watch <manuscript-dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve a live HTML preview that reloads when the manuscript changes.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default: localhost:8080)")
	fmt.Fprintln(w, "      --style <name>        Preview CSS style name")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "check":
		printCheckUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2tex version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2tex help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
