// Package editor holds the flag editing session: the page controller that
// owns the color list, and the per-color editor boxes that drive it.
package editor

import (
	"context"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	fmerr "github.com/amterp/flagmaker/internal/errors"
	"github.com/amterp/flagmaker/internal/export"
	"github.com/amterp/flagmaker/internal/link"
	"github.com/amterp/flagmaker/internal/model"
	"github.com/amterp/flagmaker/internal/render"
	"github.com/amterp/flagmaker/internal/util"
)

// State is a snapshot of the session handed to views.
type State struct {
	// Seq increases with every change. Views drop states older than the
	// last one they showed.
	Seq    uint64          `json:"seq"`
	Colors model.ColorList `json:"colors"`
	Dirty  bool            `json:"dirty"`
	// Fragment is what the view should put in its URL. Empty until the
	// user has changed something, so a shared link isn't rewritten on load.
	Fragment string             `json:"fragment,omitempty"`
	Open     []int              `json:"open"`
	Presets  model.ColorList    `json:"presets"`
	Image    render.VectorImage `json:"image"`
}

// Controller owns one editing session.
//
// Every mutation runs under mu, so concurrent requests are applied one at a
// time in arrival order. Listeners are called in that same order, outside mu
// but under notifyMu, so they may read the controller but must not mutate it.
// Exports render a snapshot taken under the lock and then encode without
// holding it; editing can continue meanwhile.
type Controller struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	seq       uint64
	store     *model.Store
	port      ShareableState
	rng       *rand.Rand
	templates []model.Template
	palettes  []model.ColorList
	open      map[int]bool
	exportOpt export.Options
	listeners []func(State)
}

// NewController creates a controller writing its fragment to port.
// A nil rng is seeded from the clock; empty templates fall back to the built-ins.
func NewController(port ShareableState, templates []model.Template, rng *rand.Rand) *Controller {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if len(templates) == 0 {
		templates = model.DefaultTemplates
	}
	return &Controller{
		store:     model.NewStore(),
		port:      port,
		rng:       rng,
		templates: templates,
		palettes:  []model.ColorList{model.PresetPalette},
		open:      make(map[int]bool),
		exportOpt: export.DefaultOptions(),
	}
}

// SetPalette adds extra picker presets after the reference palette.
func (c *Controller) SetPalette(extra model.ColorList) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.palettes = []model.ColorList{model.PresetPalette}
	if len(extra) > 0 {
		c.palettes = append(c.palettes, extra)
	}
}

// SetTemplates replaces the templates used for defaults and random additions.
func (c *Controller) SetTemplates(templates []model.Template) {
	if len(templates) == 0 {
		return
	}
	c.mu.Lock()
	c.templates = templates
	c.mu.Unlock()
}

// SetExportOptions sets the raster surface used by ExportPNG.
func (c *Controller) SetExportOptions(opts export.Options) {
	c.mu.Lock()
	c.exportOpt = opts
	c.mu.Unlock()
}

// Subscribe registers fn to receive the state after every change.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Initialize starts the session from the port's fragment, or from a random
// template when there is none or it doesn't decode. The store is left clean
// either way. Views call this once, when they load.
func (c *Controller) Initialize() State {
	c.mu.Lock()
	colors, err := c.initialColors()
	if err != nil {
		// Not a user-facing error: a bad link just means a fresh flag.
		log.Printf("Ignoring shared flag: %v", err)
	}
	c.store = model.NewStore()
	c.store.Set(colors)
	c.open = make(map[int]bool)
	return c.commitLocked()
}

// initialColors returns the decoded fragment, or a random template. When a
// fragment was present but invalid the decode error is returned alongside
// the fallback colors. Caller must hold mu.
func (c *Controller) initialColors() (model.ColorList, error) {
	fragment, ok := c.port.Read()
	if ok {
		colors, err := link.Decode(fragment)
		if err == nil {
			return colors, nil
		}
		return c.randomTemplate(), err
	}
	return c.randomTemplate(), nil
}

func (c *Controller) randomTemplate() model.ColorList {
	return util.PickRandom(c.rng, c.templates).ColorList()
}

// Add appends a random color from a random template and returns it.
func (c *Controller) Add() model.Color {
	var added model.Color
	c.mutate(func(s *model.Store) error {
		tmpl := util.PickRandom(c.rng, c.templates)
		added = model.NormalizeColor(util.PickRandom(c.rng, tmpl.Colors))
		s.Append(added)
		return nil
	})
	return added
}

// AddColor appends a specific color.
func (c *Controller) AddColor(raw string) error {
	col, err := model.ParseColor(raw)
	if err != nil {
		return err
	}
	return c.mutate(func(s *model.Store) error {
		s.Append(col)
		return nil
	})
}

// Remove drops the color at index.
func (c *Controller) Remove(index int) error {
	return c.mutate(func(s *model.Store) error {
		if err := checkIndex(index, s.Len()); err != nil {
			return err
		}
		s.RemoveAt(index)
		c.dropStaleBoxes(s.Len())
		return nil
	})
}

// Replace sets the color at index. raw is normalized first.
func (c *Controller) Replace(index int, raw string) error {
	col, err := model.ParseColor(raw)
	if err != nil {
		return err
	}
	return c.mutate(func(s *model.Store) error {
		if err := checkIndex(index, s.Len()); err != nil {
			return err
		}
		s.ReplaceAt(index, col)
		return nil
	})
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Colors returns the current color list.
func (c *Controller) Colors() model.ColorList {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Colors()
}

// Render returns the preview geometry for the current colors.
func (c *Controller) Render() render.VectorImage {
	return render.Render(c.Colors())
}

// ExportSVG writes the current flag as SVG.
func (c *Controller) ExportSVG(w io.Writer) error {
	return export.SVG(w, c.Render())
}

// ExportPNG rasterizes the current flag and writes it as PNG. The colors are
// captured when the call starts; edits made while it runs don't affect it.
func (c *Controller) ExportPNG(ctx context.Context, w io.Writer) error {
	c.mu.Lock()
	img := render.Render(c.store.Colors())
	opts := c.exportOpt
	c.mu.Unlock()

	return export.PNG(ctx, w, img, opts)
}

// mutate applies fn under the lock, syncs the fragment and notifies listeners.
func (c *Controller) mutate(fn func(s *model.Store) error) error {
	c.mu.Lock()
	if err := fn(c.store); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.store.Dirty() {
		if err := c.port.Write(link.Encode(c.store.Colors())); err != nil {
			log.Printf("Warning: failed to write shareable state: %v", err)
		}
	}
	c.commitLocked()
	return nil
}

// commitLocked numbers the new state, releases mu and notifies listeners.
// notifyMu is taken before mu is released, so the next change can't reach
// its listeners before this one has. Caller must hold mu.
func (c *Controller) commitLocked() State {
	c.seq++
	state := c.stateLocked()
	listeners := c.listeners
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	notify(listeners, state)
	return state
}

// stateLocked builds a snapshot. Caller must hold mu.
func (c *Controller) stateLocked() State {
	colors := c.store.Colors()
	state := State{
		Seq:     c.seq,
		Colors:  colors,
		Dirty:   c.store.Dirty(),
		Open:    c.openIndexesLocked(),
		Presets: model.PresetsFor(colors, c.palettes...),
		Image:   render.Render(colors),
	}
	if state.Colors == nil {
		state.Colors = model.ColorList{}
	}
	if state.Dirty {
		state.Fragment = link.Encode(colors)
	}
	return state
}

func notify(listeners []func(State), state State) {
	for _, fn := range listeners {
		fn(state)
	}
}

func checkIndex(index, length int) error {
	if index < 0 || index >= length {
		return fmerr.IndexOutOfRange(index, length)
	}
	return nil
}
