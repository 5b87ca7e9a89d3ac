package model

// Default export and server settings.
const (
	DefaultPort         = 3000
	DefaultExportWidth  = 1920
	DefaultExportHeight = 1152
)

// Config represents the user's Flag Maker configuration.
// Stored at ~/.config/flagmaker/config.toml
// Schema changes require a version bump—see internal/version/version.go.
type Config struct {
	Schema    string       `toml:"flagmaker_schema"`
	Port      int          `toml:"port,omitempty"`
	Export    ExportConfig `toml:"export,omitempty"`
	Templates []Template   `toml:"templates,omitempty"` // Added after the built-in ones
	Palette   []string     `toml:"palette,omitempty"`   // Extra picker presets
}

// ExportConfig holds the raster export surface size.
type ExportConfig struct {
	Width  int `toml:"width,omitempty"`
	Height int `toml:"height,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Port: DefaultPort,
		Export: ExportConfig{
			Width:  DefaultExportWidth,
			Height: DefaultExportHeight,
		},
	}
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Export.Width <= 0 {
		c.Export.Width = DefaultExportWidth
	}
	if c.Export.Height <= 0 {
		c.Export.Height = DefaultExportHeight
	}
}

// AllTemplates returns the built-in templates followed by the configured ones.
func (c *Config) AllTemplates() []Template {
	all := make([]Template, 0, len(DefaultTemplates)+len(c.Templates))
	all = append(all, DefaultTemplates...)
	all = append(all, c.Templates...)
	return all
}

// PaletteColors returns the configured extra presets, skipping invalid entries.
func (c *Config) PaletteColors() ColorList {
	out := make(ColorList, 0, len(c.Palette))
	for _, raw := range c.Palette {
		if col, err := ParseColor(raw); err == nil {
			out = append(out, col)
		}
	}
	return out
}

// Validate checks that configured templates only carry valid colors.
func (c *Config) Validate() error {
	for _, t := range c.Templates {
		if t.Name == "" {
			return invalidTemplate("", "name is required")
		}
		if len(t.Colors) == 0 {
			return invalidTemplate(t.Name, "at least one color is required")
		}
		if _, err := ParseColorList(t.Colors); err != nil {
			return invalidTemplate(t.Name, err.Error())
		}
	}
	return nil
}
