package main

import (
	"reflect"
	"testing"
)

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		args           []string
		wantConfig     string
		wantOutput     string
		wantWorkers    int
		wantTemplate   string
		wantDocDate    string
		wantQuiet      bool
		wantVerbose    bool
		wantPositional []string
		wantErr        bool
	}{
		{
			name:           "no args",
			args:           []string{},
			wantPositional: []string{},
		},
		{
			name:           "manuscript dir",
			args:           []string{"./paper"},
			wantPositional: []string{"./paper"},
		},
		{
			name:           "config flag",
			args:           []string{"--config", "work"},
			wantConfig:     "work",
			wantPositional: []string{},
		},
		{
			name:           "output flag short",
			args:           []string{"-o", "./out/", "./paper"},
			wantOutput:     "./out/",
			wantPositional: []string{"./paper"},
		},
		{
			name:           "workers flag short",
			args:           []string{"-w", "4"},
			wantWorkers:    4,
			wantPositional: []string{},
		},
		{
			name:           "template and date",
			args:           []string{"--template", "article", "--doc-date", "auto:long"},
			wantTemplate:   "article",
			wantDocDate:    "auto:long",
			wantPositional: []string{},
		},
		{
			name:           "quiet and verbose",
			args:           []string{"-q", "-v"},
			wantQuiet:      true,
			wantVerbose:    true,
			wantPositional: []string{},
		},
		{
			name:    "unknown flag",
			args:    []string{"--bogus"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flags, positional, err := parseConvertFlags(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("parseConvertFlags() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseConvertFlags() error = %v", err)
			}
			if flags.common.config != tt.wantConfig {
				t.Errorf("config = %q, want %q", flags.common.config, tt.wantConfig)
			}
			if flags.output != tt.wantOutput {
				t.Errorf("output = %q, want %q", flags.output, tt.wantOutput)
			}
			if flags.workers != tt.wantWorkers {
				t.Errorf("workers = %d, want %d", flags.workers, tt.wantWorkers)
			}
			if flags.template != tt.wantTemplate {
				t.Errorf("template = %q, want %q", flags.template, tt.wantTemplate)
			}
			if flags.docDate != tt.wantDocDate {
				t.Errorf("docDate = %q, want %q", flags.docDate, tt.wantDocDate)
			}
			if flags.common.quiet != tt.wantQuiet {
				t.Errorf("quiet = %v, want %v", flags.common.quiet, tt.wantQuiet)
			}
			if flags.common.verbose != tt.wantVerbose {
				t.Errorf("verbose = %v, want %v", flags.common.verbose, tt.wantVerbose)
			}
			if !reflect.DeepEqual(positional, tt.wantPositional) {
				t.Errorf("positional = %v, want %v", positional, tt.wantPositional)
			}
		})
	}
}

func TestParseCheckFlags(t *testing.T) {
	t.Parallel()

	flags, positional, err := parseCheckFlags([]string{"--json", "./paper"})
	if err != nil {
		t.Fatalf("parseCheckFlags() error = %v", err)
	}
	if !flags.jsonOutput {
		t.Error("jsonOutput = false, want true")
	}
	if len(positional) != 1 || positional[0] != "./paper" {
		t.Errorf("positional = %v, want [./paper]", positional)
	}
}

func TestParseWatchFlags(t *testing.T) {
	t.Parallel()

	flags, positional, err := parseWatchFlags([]string{"--addr", "localhost:9000", "--style", "preview", "./paper"})
	if err != nil {
		t.Fatalf("parseWatchFlags() error = %v", err)
	}
	if flags.addr != "localhost:9000" {
		t.Errorf("addr = %q, want %q", flags.addr, "localhost:9000")
	}
	if flags.style != "preview" {
		t.Errorf("style = %q, want %q", flags.style, "preview")
	}
	if len(positional) != 1 || positional[0] != "./paper" {
		t.Errorf("positional = %v, want [./paper]", positional)
	}
}
