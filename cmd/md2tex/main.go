package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(realMain(os.Args[1:], DefaultEnv()))
}

// realMain dispatches the command and returns the process exit code.
func realMain(args []string, env *Environment) int {
	// Configure GOMAXPROCS before any worker-count decisions.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", a...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "help", "--help", "-h":
		runHelp(args[1:], env)
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2tex %s\n", Version)
		return ExitSuccess
	case "check":
		return runCheckCmd(args[1:], env)
	case "watch":
		ctx, stop := notifyContext(context.Background())
		defer stop()
		if err := runWatch(ctx, args[1:], env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "convert":
		args = args[1:]
	}
	// Anything else converts: `md2tex <path>` is shorthand for
	// `md2tex convert <path>`.

	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hasVerboseFlag scans raw args for the verbose flag before command parsing.
func hasVerboseFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-v" || arg == "--verbose" {
			return true
		}
	}
	return false
}
