// Package yamlutil wraps goccy/go-yaml for the three places YAML enters the
// module: the tool config file, a manuscript's 00_CONFIG.yml metadata, and
// front matter blocks at the top of markdown files. The wrapper enforces a
// size cap and non-nil inputs so callers only ever handle parse errors, and
// keeps the library dependency behind one seam.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps YAML input. Manuscript metadata and tool configs are a
// few kilobytes; anything approaching the cap is a misdirected file, not
// configuration. Var, not const, so tests can lower it.
var MaxInputSize = 1 << 20

var (
	ErrNoData        = errors.New("yamlutil: no data")
	ErrNilTarget     = errors.New("yamlutil: nil destination")
	ErrInputTooLarge = errors.New("yamlutil: input exceeds maximum size")
)

// Unmarshal parses author-facing YAML: manuscript metadata and front matter.
// Unknown fields pass through, so manuscripts written for other tooling keep
// converting.
func Unmarshal(data []byte, v any) error {
	if err := guard(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict parses tool-owned YAML, the CLI config file. Unknown fields
// are rejected so a typoed key surfaces as an error instead of a silently
// applied default.
func UnmarshalStrict(data []byte, v any) error {
	if err := guard(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

func guard(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNoData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilTarget
	}
	return nil
}
