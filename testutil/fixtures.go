package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amterp/flagmaker/internal/config"
	"github.com/amterp/flagmaker/internal/model"
	"github.com/amterp/flagmaker/internal/version"
)

// Rainbow is the six-stripe rainbow template.
var Rainbow = model.Template{
	Name:   "Rainbow",
	Colors: []string{"FF0018", "FFA52C", "FFFF41", "008018", "0000F9", "86007D"},
}

// TestTemplate returns a template with the given name and colors.
func TestTemplate(name string, colors ...string) model.Template {
	return model.Template{Name: name, Colors: colors}
}

// TestConfig returns a config with sensible test defaults and a small export size.
func TestConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Schema = version.CurrentConfigSchema()
	cfg.Export.Width = 100
	cfg.Export.Height = 60
	return cfg
}

// TempConfigDir creates a temporary config directory for testing.
// It is removed when the test ends.
func TempConfigDir(t *testing.T) *config.Paths {
	t.Helper()
	return config.NewPaths(t.TempDir())
}

// WriteConfig writes raw TOML to the config file of paths.
func WriteConfig(t *testing.T, paths *config.Paths, body string) {
	t.Helper()

	path := paths.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

// ConfigBody returns a valid config file body with extra TOML appended.
func ConfigBody(extra string) string {
	return "flagmaker_schema = \"" + version.CurrentConfigSchema() + "\"\n" + extra
}
