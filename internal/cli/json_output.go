package cli

import (
	"encoding/json"
	"fmt"

	"github.com/amterp/flagmaker/internal/link"
	"github.com/amterp/flagmaker/internal/model"
)

// FlagOutput describes a flag for JSON output.
type FlagOutput struct {
	Colors   []string `json:"colors"` // #RRGGBB
	Fragment string   `json:"fragment"`
	URL      string   `json:"url,omitempty"`
}

// NewFlagOutput creates a FlagOutput from colors.
// Always returns an empty array (not null) when there are no colors.
func NewFlagOutput(colors model.ColorList, base string) FlagOutput {
	out := FlagOutput{
		Colors:   hexStrings(colors),
		Fragment: link.Encode(colors),
	}
	if base != "" {
		out.URL = link.ShareURL(base, colors)
	}
	return out
}

// RenderOutput reports the files a render wrote.
type RenderOutput struct {
	Flag  FlagOutput `json:"flag"`
	Files []string   `json:"files"`
}

// templateJson is a template with display-form colors.
type templateJson struct {
	Name   string   `json:"name"`
	Slug   string   `json:"slug"`
	Colors []string `json:"colors"`
}

// TemplatesOutput wraps the template list for JSON output.
type TemplatesOutput struct {
	Templates []templateJson `json:"templates"`
}

// NewTemplatesOutput creates a TemplatesOutput, normalizing template colors.
func NewTemplatesOutput(templates []model.Template, slug func(string) string) TemplatesOutput {
	result := make([]templateJson, 0, len(templates))
	for _, t := range templates {
		result = append(result, templateJson{
			Name:   t.Name,
			Slug:   slug(t.Name),
			Colors: hexStrings(t.ColorList()),
		})
	}
	return TemplatesOutput{Templates: result}
}

func hexStrings(colors model.ColorList) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.Hex()
	}
	return out
}

// printJson marshals the value as indented JSON and prints it to stdout.
func printJson(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

// warnJsonNotSupported prints a warning to stderr when --json is used on an unsupported command.
func warnJsonNotSupported(command string) {
	PrintWarning("--json is not supported for '%s' (flag ignored)", command)
}
