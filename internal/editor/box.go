package editor

import (
	"errors"
	"sort"

	"github.com/amterp/flagmaker/internal/model"
)

// ErrPickerClosed is returned when a color is picked for a box whose picker isn't open.
var ErrPickerClosed = errors.New("color picker is not open")

// Box is the editor for one entry of the color list. Boxes are addressed by
// index, not color, because the same color may appear several times. Picker
// state stays with the index, so removing an entry leaves the pickers of
// the entries that remain at their positions.
type Box struct {
	c     *Controller
	index int
}

// Box returns the editor for the color at index.
func (c *Controller) Box(index int) (*Box, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkIndex(index, c.store.Len()); err != nil {
		return nil, err
	}
	return &Box{c: c, index: index}, nil
}

// Boxes returns one editor per color, in order.
func (c *Controller) Boxes() []*Box {
	c.mu.Lock()
	defer c.mu.Unlock()
	boxes := make([]*Box, c.store.Len())
	for i := range boxes {
		boxes[i] = &Box{c: c, index: i}
	}
	return boxes
}

// Index returns the list position this box edits.
func (b *Box) Index() int {
	return b.index
}

// Color returns the swatch color, or "" if the entry no longer exists.
func (b *Box) Color() model.Color {
	colors := b.c.Colors()
	if b.index >= len(colors) {
		return ""
	}
	return colors[b.index]
}

// Label returns the hex code shown next to the swatch, e.g. "#FF0018".
func (b *Box) Label() string {
	return b.Color().Hex()
}

// Open shows the picker for this box.
func (b *Box) Open() error {
	return b.setOpen(true)
}

// Close hides the picker without changing the color.
func (b *Box) Close() error {
	return b.setOpen(false)
}

// IsOpen reports whether the picker is showing.
func (b *Box) IsOpen() bool {
	b.c.mu.Lock()
	defer b.c.mu.Unlock()
	return b.c.open[b.index]
}

// Presets returns the picker presets: the flag's own colors, then the palettes.
func (b *Box) Presets() model.ColorList {
	b.c.mu.Lock()
	defer b.c.mu.Unlock()
	return model.PresetsFor(b.c.store.Colors(), b.c.palettes...)
}

// Pick applies a color reported by the picker. Every change is applied as it
// arrives, not only on commit. raw may carry a leading '#' and any case.
func (b *Box) Pick(raw string) error {
	col, err := model.ParseColor(raw)
	if err != nil {
		return err
	}
	return b.c.mutate(func(s *model.Store) error {
		if !b.c.open[b.index] {
			return ErrPickerClosed
		}
		if err := checkIndex(b.index, s.Len()); err != nil {
			return err
		}
		s.ReplaceAt(b.index, col)
		return nil
	})
}

// Remove deletes this entry from the flag.
func (b *Box) Remove() error {
	return b.c.Remove(b.index)
}

func (b *Box) setOpen(open bool) error {
	c := b.c
	c.mu.Lock()
	if err := checkIndex(b.index, c.store.Len()); err != nil {
		c.mu.Unlock()
		return err
	}
	if open {
		c.open[b.index] = true
	} else {
		delete(c.open, b.index)
	}
	c.commitLocked()
	return nil
}

// dropStaleBoxes forgets picker state for indexes past the end. Caller must hold mu.
func (c *Controller) dropStaleBoxes(length int) {
	for i := range c.open {
		if i >= length {
			delete(c.open, i)
		}
	}
}

// openIndexesLocked lists boxes with an open picker. Caller must hold mu.
func (c *Controller) openIndexesLocked() []int {
	out := make([]int, 0, len(c.open))
	for i := range c.open {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
