package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-md2tex/internal/assets"
	"github.com/alnah/go-md2tex/internal/config"
	"github.com/alnah/go-md2tex/internal/hints"
	"github.com/alnah/go-md2tex/internal/preview"
	"github.com/alnah/go-md2tex/internal/server"
)

// runWatch starts the live preview server for a manuscript directory and
// blocks until ctx is canceled.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseWatchFlags(args)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		loaded, err := config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	dir := cfg.Input.DefaultDir
	if len(positional) > 0 {
		dir = positional[0]
	}
	if dir == "" {
		return fmt.Errorf("%w%s", ErrNoInput, hints.ForManuscriptNotFound())
	}

	addr := cfg.Watch.Addr
	if flags.addr != "" {
		addr = flags.addr
	}
	if addr == "" {
		return fmt.Errorf("no listen address configured%s", hints.ForWatchAddr())
	}

	styleName := cfg.Preview.Style
	if flags.style != "" {
		styleName = flags.style
	}
	css := ""
	if styleName != "" {
		css, err = assets.LoadStyle(styleName)
		if err != nil {
			if errors.Is(err, assets.ErrStyleNotFound) {
				return fmt.Errorf("%w%s", err, hints.ForStyleNotFound([]string{assets.DefaultStyle}))
			}
			return err
		}
	}

	logf := func(string, ...any) {}
	if !flags.common.quiet {
		logf = func(format string, args ...any) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}
	}

	srv := server.New(dir, addr, preview.New(css), logf)
	return srv.Run(ctx)
}
