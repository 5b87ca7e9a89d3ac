package model

import (
	"strings"

	fmerr "github.com/amterp/flagmaker/internal/errors"
	"github.com/amterp/flagmaker/internal/util"
)

// Template is a named starting flag.
type Template struct {
	Name   string   `toml:"name" json:"name"`
	Colors []string `toml:"colors" json:"colors"`
}

// ColorList returns the template colors normalized to the Color format.
// Entries are upper-cased but not validated; built-in templates are known good.
func (t Template) ColorList() ColorList {
	out := make(ColorList, len(t.Colors))
	for i, c := range t.Colors {
		out[i] = NormalizeColor(c)
	}
	return out
}

// DefaultTemplates are the built-in flags a new session starts from.
// Colors are kept as authored; the gay men's flag is lower-case on purpose
// and gets upper-cased through Template.ColorList.
var DefaultTemplates = []Template{
	{Name: "Rainbow", Colors: []string{"FF0018", "FFA52C", "FFFF41", "008018", "0000F9", "86007D"}},
	{Name: "Transgender", Colors: []string{"55CDFC", "F7A8B8", "FFFFFF", "F7A8B8", "55CDFC"}},
	{Name: "Nonbinary", Colors: []string{"FFF430", "FFFFFF", "9C59D1", "000000"}},
	{Name: "Pansexual", Colors: []string{"FF1B8D", "FFDA00", "1BB3FF"}},
	{Name: "Asexual", Colors: []string{"000000", "A4A4A4", "FFFFFF", "810081"}},
	{Name: "Aromantic", Colors: []string{"3AA63F", "A8D47A", "FFFFFF", "AAAAAA", "000000"}},
	{Name: "Bisexual", Colors: []string{"D60270", "D60270", "9B4F96", "0038A8", "0038A8"}},
	{Name: "Lesbian", Colors: []string{"D62900", "FF9B55", "FFFFFF", "D461A6", "A50062"}},
	{Name: "Gay Men", Colors: []string{"078d70", "27ceaa", "98e8c1", "ffffff", "7bade2", "5049cc", "3d1a78"}},
}

// PresetPalette is the fixed reference palette offered next to the flag's own
// colors in the picker.
var PresetPalette = ColorList{
	"D0021B", // red
	"F5A623", // orange
	"F8E71C", // yellow
	"8B572A", // brown
	"7ED321", // lime
	"417505", // green
	"BD10E0", // magenta
	"9013FE", // purple
	"4A90E2", // blue
	"50E3C2", // teal
	"B8E986", // pale green
	"000000", // black
	"4A4A4A", // dark gray
	"9B9B9B", // gray
	"FFFFFF", // white
}

// PresetsFor returns the picker presets for a flag: its distinct colors first,
// then the given palettes, with duplicates removed.
func PresetsFor(colors ColorList, palettes ...ColorList) ColorList {
	merged := colors.Clone()
	if len(palettes) == 0 {
		palettes = []ColorList{PresetPalette}
	}
	for _, p := range palettes {
		merged = append(merged, p...)
	}
	return merged.Distinct()
}

// TemplateNames returns the names of the given templates joined for display.
func TemplateNames(templates []Template) string {
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func invalidTemplate(name, message string) error {
	if name == "" {
		return fmerr.InvalidField("template", message)
	}
	return fmerr.InvalidField("template "+name, message)
}

// FindTemplate looks a template up by name, ignoring case, accents and punctuation.
func FindTemplate(templates []Template, name string) (Template, error) {
	key := util.Slugify(name)
	for _, t := range templates {
		if util.Slugify(t.Name) == key {
			return t, nil
		}
	}
	return Template{}, fmerr.TemplateNotFound(name)
}
