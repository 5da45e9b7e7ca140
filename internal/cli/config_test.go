package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/longplay45/swissgrid/pkg/pipeline"
)

// chdir changes the working directory for the duration of the test; it
// stands in for t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, Config{}) {
		t.Errorf("loadConfig() = %+v, want zero config", cfg)
	}
}

func TestLoadConfig_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	chdir(t, dir)

	data := `format = "A3"
orientation = "landscape"
cols = 6
rows = 9
margin_method = 2
baseline = 14.0
formats = ["json", "svg"]
output_dir = "out"
store_url = "mem://"
`
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Format != "A3" {
		t.Errorf("Format = %q, want %q", cfg.Format, "A3")
	}
	if cfg.Orientation != "landscape" {
		t.Errorf("Orientation = %q, want %q", cfg.Orientation, "landscape")
	}
	if cfg.Cols != 6 || cfg.Rows != 9 {
		t.Errorf("grid = %dx%d, want 6x9", cfg.Cols, cfg.Rows)
	}
	if cfg.MarginMethod != 2 {
		t.Errorf("MarginMethod = %d, want 2", cfg.MarginMethod)
	}
	if cfg.Baseline != 14.0 {
		t.Errorf("Baseline = %v, want 14.0", cfg.Baseline)
	}
	if len(cfg.Formats) != 2 || cfg.Formats[0] != "json" || cfg.Formats[1] != "svg" {
		t.Errorf("Formats = %v, want [json svg]", cfg.Formats)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "out")
	}
	if cfg.StoreURL != "mem://" {
		t.Errorf("StoreURL = %q, want %q", cfg.StoreURL, "mem://")
	}
}

func TestLoadConfig_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())

	cfgDir := filepath.Join(home, ".config", appName)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, configFile), []byte(`format = "A5"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Format != "A5" {
		t.Errorf("Format = %q, want %q", cfg.Format, "A5")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	chdir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, configFile), []byte("format = ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(); err == nil {
		t.Error("loadConfig() should fail on malformed TOML")
	}
}

func TestConfigApply(t *testing.T) {
	cfg := Config{
		Format:       "A3",
		Orientation:  "landscape",
		Cols:         6,
		Rows:         9,
		MarginMethod: 2,
		Baseline:     14.0,
		Formats:      []string{"json"},
		FontPath:     "font.ttf",
	}

	opts := pipeline.Options{}
	cfg.apply(&opts)

	if opts.Format != "A3" {
		t.Errorf("Format = %q, want %q", opts.Format, "A3")
	}
	if opts.Orientation != "landscape" {
		t.Errorf("Orientation = %q, want %q", opts.Orientation, "landscape")
	}
	if opts.Cols != 6 || opts.Rows != 9 {
		t.Errorf("grid = %dx%d, want 6x9", opts.Cols, opts.Rows)
	}
	if opts.MarginMethod != 2 {
		t.Errorf("MarginMethod = %d, want 2", opts.MarginMethod)
	}
	if opts.Baseline != 14.0 {
		t.Errorf("Baseline = %v, want 14.0", opts.Baseline)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "json" {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.FontPath != "font.ttf" {
		t.Errorf("FontPath = %q, want %q", opts.FontPath, "font.ttf")
	}
}

func TestConfigApply_FlagsWin(t *testing.T) {
	cfg := Config{
		Format:      "A3",
		Cols:        6,
		Formats:     []string{"json"},
		Orientation: "landscape",
	}

	opts := pipeline.Options{
		Format:      "A5",
		Cols:        12,
		Formats:     []string{"svg"},
		Orientation: "portrait",
	}
	cfg.apply(&opts)

	if opts.Format != "A5" {
		t.Errorf("Format = %q, want flag value %q", opts.Format, "A5")
	}
	if opts.Cols != 12 {
		t.Errorf("Cols = %d, want flag value 12", opts.Cols)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("Formats = %v, want flag value [svg]", opts.Formats)
	}
	if opts.Orientation != "portrait" {
		t.Errorf("Orientation = %q, want flag value %q", opts.Orientation, "portrait")
	}
}

func TestConfigApply_CopiesFormats(t *testing.T) {
	cfg := Config{Formats: []string{"json", "txt"}}

	opts := pipeline.Options{}
	cfg.apply(&opts)

	opts.Formats[0] = "svg"
	if cfg.Formats[0] != "json" {
		t.Error("apply should copy the formats slice, not share it")
	}
}
