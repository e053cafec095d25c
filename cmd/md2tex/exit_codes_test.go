package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	md2tex "github.com/alnah/go-md2tex"
	"github.com/alnah/go-md2tex/internal/assets"
	"github.com/alnah/go-md2tex/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitGeneral},
		{"not exist", os.ErrNotExist, ExitIO},
		{"permission", os.ErrPermission, ExitIO},
		{"read manuscript", ErrReadManuscript, ExitIO},
		{"write latex", ErrWriteLatex, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"empty markdown", md2tex.ErrEmptyMarkdown, ExitUsage},
		{"no sections", md2tex.ErrNoSections, ExitUsage},
		{"invalid metadata", md2tex.ErrInvalidMetadata, ExitUsage},
		{"template load", md2tex.ErrTemplateLoad, ExitUsage},
		{"invalid date", md2tex.ErrInvalidDate, ExitUsage},
		{"template not found", assets.ErrTemplateNotFound, ExitUsage},
		{"style not found", assets.ErrStyleNotFound, ExitUsage},
		{"worker count", ErrInvalidWorkerCount, ExitUsage},
		{"extension", ErrInvalidExtension, ExitUsage},
		{"wrapped", fmt.Errorf("loading config: %w", config.ErrConfigNotFound), ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
