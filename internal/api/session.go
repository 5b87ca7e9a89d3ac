package api

import (
	"math/rand"

	"github.com/amterp/flagmaker/internal/editor"
	"github.com/amterp/flagmaker/internal/export"
	"github.com/amterp/flagmaker/internal/model"
)

// Session bundles the single editing session served to every open page.
// The port holds the fragment the page last reported or was told to show.
type Session struct {
	Controller *editor.Controller
	Port       *editor.MemoryState
}

// NewSession wires a controller from cfg. rng may be nil.
func NewSession(cfg *model.Config, rng *rand.Rand) *Session {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	port := editor.NewMemoryState("")
	controller := editor.NewController(port, cfg.AllTemplates(), rng)
	applyConfig(controller, cfg)

	return &Session{
		Controller: controller,
		Port:       port,
	}
}

// applyConfig pushes the configurable parts of cfg into a running controller.
func applyConfig(c *editor.Controller, cfg *model.Config) {
	c.SetTemplates(cfg.AllTemplates())
	c.SetPalette(cfg.PaletteColors())
	c.SetExportOptions(export.Options{
		Width:  cfg.Export.Width,
		Height: cfg.Export.Height,
	})
}
