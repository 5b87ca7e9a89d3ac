package cli

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/amterp/flagmaker/internal/model"
	"github.com/amterp/flagmaker/internal/render"
	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors that work in both light and dark terminals.
// First value is for dark terminals, second for light terminals.
var (
	ColorSuccess = lipgloss.AdaptiveColor{Dark: "#22c55e", Light: "#16a34a"} // green
	ColorError   = lipgloss.AdaptiveColor{Dark: "#ef4444", Light: "#dc2626"} // red
	ColorWarning = lipgloss.AdaptiveColor{Dark: "#f59e0b", Light: "#d97706"} // amber
	ColorMuted   = lipgloss.AdaptiveColor{Dark: "#6b7280", Light: "#9ca3af"} // gray
	ColorAccent  = lipgloss.AdaptiveColor{Dark: "#a78bfa", Light: "#7c3aed"} // purple for fragments
	ColorURL     = lipgloss.AdaptiveColor{Dark: "#38bdf8", Light: "#0284c7"} // cyan for URLs
)

// Reusable text styles
var (
	StyleSuccess  = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError    = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning  = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted    = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleFragment = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleURL      = lipgloss.NewStyle().Foreground(ColorURL)
	StyleBold     = lipgloss.NewStyle().Bold(true)
)

// Icons for status messages
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconInfo    = "→"
)

// Terminal preview size in cells. Half the height of the 5:3 canvas since
// cells are roughly twice as tall as they are wide.
const (
	previewCols = 30
	previewRows = 9
)

// PrintSuccess prints a success message with a green checkmark.
func PrintSuccess(format string, args ...any) {
	icon := StyleSuccess.Render(IconSuccess)
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", icon, msg)
}

// PrintError prints an error message with a red X to stderr.
func PrintError(format string, args ...any) {
	icon := StyleError.Render(IconError)
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", icon, msg)
}

// PrintWarning prints a warning message with an amber icon to stderr.
func PrintWarning(format string, args ...any) {
	icon := StyleWarning.Render(IconWarning)
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", icon, msg)
}

// PrintInfo prints an info message with a muted arrow.
func PrintInfo(format string, args ...any) {
	icon := StyleMuted.Render(IconInfo)
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", icon, msg)
}

// RenderFragment renders a share fragment in accent color.
func RenderFragment(fragment string) string {
	return StyleFragment.Render(fragment)
}

// RenderURL renders a URL in the URL color.
func RenderURL(url string) string {
	return StyleURL.Render(url)
}

// RenderMuted renders text in muted color.
func RenderMuted(text string) string {
	return StyleMuted.Render(text)
}

// RenderBold renders text in bold.
func RenderBold(text string) string {
	return StyleBold.Render(text)
}

// ColorSwatch renders a small color swatch block in the given color.
func ColorSwatch(c model.Color) string {
	if !c.Valid() {
		return StyleMuted.Render("██")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("██")
}

// SwatchLine renders a color as "██ #RRGGBB".
func SwatchLine(c model.Color) string {
	return fmt.Sprintf("%s %s", ColorSwatch(c), c.Hex())
}

// Swatches renders colors side by side.
func Swatches(colors model.ColorList) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		parts[i] = ColorSwatch(c)
	}
	return strings.Join(parts, "")
}

// FlagPreview draws img as blocks of terminal cells, one row band per
// visible region, inside a rounded border.
func FlagPreview(img render.VectorImage) string {
	if len(img.Shapes) == 0 {
		return Box(RenderMuted(strings.Repeat(" ", previewCols-len("(empty)")) + "(empty)"))
	}

	rows := previewBands(img, previewRows)
	lines := make([]string, 0, previewRows)
	for i, s := range img.Shapes {
		band := lipgloss.NewStyle().
			Background(lipgloss.Color(s.Fill.Hex())).
			Render(strings.Repeat(" ", previewCols))
		for j := 0; j < rows[i]; j++ {
			lines = append(lines, band)
		}
	}
	return Box(strings.Join(lines, "\n"))
}

// previewBands splits total rows between the visible regions of img. Each
// shape is visible from its top edge down to the next shape's top edge.
// Every region gets at least one row so thin stripes don't vanish.
func previewBands(img render.VectorImage, total int) []int {
	rows := make([]int, len(img.Shapes))
	for i, s := range img.Shapes {
		bottom := img.Height
		if i+1 < len(img.Shapes) {
			bottom = img.Shapes[i+1].Y
		}
		rows[i] = int(math.Max(1, math.Round((bottom-s.Y)/img.Height*float64(total))))
	}
	return rows
}

// Box renders content in a bordered box.
func Box(content string) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted)
	return style.Render(content)
}

// LabelValue formats a label-value pair with right-aligned label.
func LabelValue(label, value string, labelWidth int) string {
	labelStyle := lipgloss.NewStyle().
		Width(labelWidth).
		Align(lipgloss.Right).
		Foreground(ColorMuted)
	return fmt.Sprintf("%s %s", labelStyle.Render(label+":"), value)
}

// printFlag prints a preview of colors followed by a numbered swatch list.
func printFlag(colors model.ColorList) {
	fmt.Println(FlagPreview(render.Render(colors)))
	for i, c := range colors {
		fmt.Printf("  %s %s\n", RenderMuted(fmt.Sprintf("%2d", i+1)), SwatchLine(c))
	}
}
