package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Input.DefaultDir != "" {
		t.Errorf("Input.DefaultDir = %q, want empty", cfg.Input.DefaultDir)
	}
	if cfg.Output.DefaultDir != "" {
		t.Errorf("Output.DefaultDir = %q, want empty", cfg.Output.DefaultDir)
	}
	if cfg.Template.Name != "article" {
		t.Errorf("Template.Name = %q, want %q", cfg.Template.Name, "article")
	}
	if cfg.Preview.Style != "preview" {
		t.Errorf("Preview.Style = %q, want %q", cfg.Preview.Style, "preview")
	}
	if cfg.Watch.Addr != "localhost:8080" {
		t.Errorf("Watch.Addr = %q, want %q", cfg.Watch.Addr, "localhost:8080")
	}
	if cfg.Date != "auto" {
		t.Errorf("Date = %q, want %q", cfg.Date, "auto")
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0 (derive from CPU count)", cfg.Workers)
	}
}

func TestValidateFieldLength(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		maxLength int
		wantErr   bool
	}{
		{
			name:      "empty value is valid",
			fieldName: "test",
			value:     "",
			maxLength: 10,
			wantErr:   false,
		},
		{
			name:      "value at limit is valid",
			fieldName: "test",
			value:     "1234567890",
			maxLength: 10,
			wantErr:   false,
		},
		{
			name:      "value over limit returns error",
			fieldName: "test.field",
			value:     "12345678901",
			maxLength: 10,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldLength(tt.fieldName, tt.value, tt.maxLength)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("default config passes validation", func(t *testing.T) {
		t.Parallel()
		if err := DefaultConfig().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("template.name too long returns error", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Template: TemplateConfig{
			Name: string(make([]byte, MaxTemplateNameLength+1)),
		}}
		if err := cfg.Validate(); !errors.Is(err, ErrFieldTooLong) {
			t.Errorf("error = %v, want ErrFieldTooLong", err)
		}
	})

	t.Run("input.defaultDir too long returns error", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Input: InputConfig{
			DefaultDir: string(make([]byte, MaxPathLength+1)),
		}}
		if err := cfg.Validate(); !errors.Is(err, ErrFieldTooLong) {
			t.Errorf("error = %v, want ErrFieldTooLong", err)
		}
	})

	t.Run("watch.addr too long returns error", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Watch: WatchConfig{
			Addr: string(make([]byte, MaxAddrLength+1)),
		}}
		if err := cfg.Validate(); !errors.Is(err, ErrFieldTooLong) {
			t.Errorf("error = %v, want ErrFieldTooLong", err)
		}
	})

	t.Run("date too long returns error", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Date: string(make([]byte, MaxDateLength+1))}
		if err := cfg.Validate(); !errors.Is(err, ErrFieldTooLong) {
			t.Errorf("error = %v, want ErrFieldTooLong", err)
		}
	})

	t.Run("negative workers returns error", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Workers: -1}
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for negative workers")
		}
	})

	t.Run("workers above limit returns error", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Workers: MaxWorkers + 1}
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error for workers above limit")
		}
	})

	t.Run("workers at limit passes", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Workers: MaxWorkers}
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config over defaults", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "test.yaml")
		content := `output:
  defaultDir: "/path/to/out"
template:
  name: "letter"
workers: 4
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		cfg, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Output.DefaultDir != "/path/to/out" {
			t.Errorf("Output.DefaultDir = %q, want %q", cfg.Output.DefaultDir, "/path/to/out")
		}
		if cfg.Template.Name != "letter" {
			t.Errorf("Template.Name = %q, want %q", cfg.Template.Name, "letter")
		}
		if cfg.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Workers)
		}
		// Unset fields keep their built-in defaults.
		if cfg.Watch.Addr != "localhost:8080" {
			t.Errorf("Watch.Addr = %q, want default", cfg.Watch.Addr)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("template: [unclosed"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "unknown.yaml")
		content := `date: "auto"
unknownField: "should fail"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("field too long returns ErrFieldTooLong", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "toolong.yaml")
		longName := string(make([]byte, MaxTemplateNameLength+1))
		content := "template:\n  name: \"" + longName + "\"\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrFieldTooLong) {
			t.Errorf("error = %v, want ErrFieldTooLong", err)
		}
	})

	t.Run("unreadable file returns read error not ErrConfigNotFound", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "unreadable.yaml")
		if err := os.WriteFile(configPath, []byte("date: auto\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.Chmod(configPath, 0000); err != nil {
			t.Fatalf("setup chmod: %v", err)
		}
		defer os.Chmod(configPath, 0600)

		_, err := LoadConfig(configPath)
		if err == nil {
			t.Fatal("expected error for unreadable file")
		}
		if errors.Is(err, ErrConfigNotFound) {
			t.Error("error should not be ErrConfigNotFound for permission error")
		}
	})

	t.Run("config name resolves yaml in current directory", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "myconfig.yaml")
		if err := os.WriteFile(configPath, []byte("template:\n  name: fromname\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		originalWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		defer os.Chdir(originalWd)
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Template.Name != "fromname" {
			t.Errorf("Template.Name = %q, want %q", cfg.Template.Name, "fromname")
		}
	})

	t.Run("config name resolves yml when yaml not found", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "myconfig.yml")
		if err := os.WriteFile(configPath, []byte("template:\n  name: fromyml\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		originalWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		defer os.Chdir(originalWd)
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Template.Name != "fromyml" {
			t.Errorf("Template.Name = %q, want %q", cfg.Template.Name, "fromyml")
		}
	})

	t.Run("config name prefers yaml over yml", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "myconfig.yaml"), []byte("template:\n  name: yaml\n"), 0600); err != nil {
			t.Fatalf("setup yaml: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "myconfig.yml"), []byte("template:\n  name: yml\n"), 0600); err != nil {
			t.Fatalf("setup yml: %v", err)
		}

		originalWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		defer os.Chdir(originalWd)
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Template.Name != "yaml" {
			t.Errorf("Template.Name = %q, want %q (should prefer .yaml)", cfg.Template.Name, "yaml")
		}
	})

	t.Run("config name resolves from user config directory", func(t *testing.T) {
		userConfigDir, err := os.UserConfigDir()
		if err != nil {
			t.Skip("cannot get user config dir")
		}

		appConfigDir := filepath.Join(userConfigDir, "go-md2tex")
		configPath := filepath.Join(appConfigDir, "testconfig.yaml")

		if err := os.MkdirAll(appConfigDir, 0755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(configPath, []byte("template:\n  name: userdir\n"), 0600); err != nil {
			t.Fatalf("setup write: %v", err)
		}
		defer os.Remove(configPath)

		// Change to empty dir so local file isn't found
		dir := t.TempDir()
		originalWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		defer os.Chdir(originalWd)
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}

		cfg, err := LoadConfig("testconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Template.Name != "userdir" {
			t.Errorf("Template.Name = %q, want %q", cfg.Template.Name, "userdir")
		}
	})

	t.Run("config name not found returns ErrConfigNotFound", func(t *testing.T) {
		dir := t.TempDir()
		originalWd, err := os.Getwd()
		if err != nil {
			t.Fatalf("failed to get working directory: %v", err)
		}
		defer os.Chdir(originalWd)
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}

		_, err = LoadConfig("nonexistent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid workers in file returns error", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "test.yaml")
		if err := os.WriteFile(configPath, []byte("workers: 999\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Fatal("expected error for invalid workers")
		}
	})
}
