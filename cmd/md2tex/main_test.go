package main

import (
	"strings"
	"testing"
)

func TestRealMainNoArgs(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	if code := realMain(nil, env); code != ExitUsage {
		t.Errorf("realMain() = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Usage: md2tex") {
		t.Errorf("stderr = %q, want usage message", stderr.String())
	}
}

func TestRealMainVersion(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	if code := realMain([]string{"version"}, env); code != ExitSuccess {
		t.Errorf("realMain() = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stdout.String(), "md2tex") {
		t.Errorf("stdout = %q, want version line", stdout.String())
	}
}

func TestRealMainHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bare help", []string{"help"}, "Commands:"},
		{"help convert", []string{"help", "convert"}, "Usage: md2tex convert"},
		{"help check", []string{"help", "check"}, "Usage: md2tex check"},
		{"help watch", []string{"help", "watch"}, "Usage: md2tex watch"},
		{"long flag", []string{"--help"}, "Commands:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, stdout, _ := testEnv()
			if code := realMain(tt.args, env); code != ExitSuccess {
				t.Errorf("realMain(%v) = %d, want %d", tt.args, code, ExitSuccess)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.want)
			}
		})
	}
}

func TestRealMainConvertShorthand(t *testing.T) {
	t.Parallel()

	dir := setupManuscript(t, nil)
	env, stdout, _ := testEnv()

	if code := realMain([]string{dir}, env); code != ExitSuccess {
		t.Fatalf("realMain() = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stdout.String(), "WIDGETS.tex") {
		t.Errorf("stdout = %q, want created file name", stdout.String())
	}
}

func TestRealMainConvertMissingInput(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	if code := realMain([]string{"convert", "/nonexistent/paper"}, env); code != ExitIO {
		t.Errorf("realMain() = %d, want %d", code, ExitIO)
	}
	if stderr.Len() == 0 {
		t.Error("stderr should describe the failure")
	}
}

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	if !hasVerboseFlag([]string{"convert", "-v", "dir"}) {
		t.Error("hasVerboseFlag() = false for -v")
	}
	if !hasVerboseFlag([]string{"--verbose"}) {
		t.Error("hasVerboseFlag() = false for --verbose")
	}
	if hasVerboseFlag([]string{"convert", "dir"}) {
		t.Error("hasVerboseFlag() = true without flag")
	}
}
