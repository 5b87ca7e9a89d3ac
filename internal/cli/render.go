package cli

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/amterp/flagmaker/internal/export"
	"github.com/amterp/flagmaker/internal/link"
	"github.com/amterp/flagmaker/internal/model"
	"github.com/amterp/flagmaker/internal/render"
	"github.com/amterp/flagmaker/internal/util"
	"github.com/amterp/ra"
)

const defaultRenderOutput = export.SVGFileName

func registerRender(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("render")
	cmd.SetDescription("Write a flag to SVG or image files")

	ctx.RenderFragment, _ = ra.NewString("fragment").
		SetOptional(true).
		SetUsage("Share link fragment to render").
		Register(cmd)

	ctx.RenderColors, _ = ra.NewString("colors").
		SetShort("c").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Colors top to bottom, comma separated").
		Register(cmd)

	ctx.RenderTemplate, _ = ra.NewString("template").
		SetShort("t").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Template name (see 'flagmaker templates')").
		SetCompletionFunc(completeTemplates).
		Register(cmd)

	ctx.RenderOutputs, _ = ra.NewStringSlice("output").
		SetShort("o").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output file, format from extension: .svg .png .jpg .gif .tif .bmp (repeatable, default flag.svg)").
		Register(cmd)

	ctx.RenderWidth, _ = ra.NewInt("width").
		SetShort("w").
		SetOptional(true).
		SetDefault(0).
		SetFlagOnly(true).
		SetUsage("Scale raster outputs to this width in pixels").
		Register(cmd)

	ctx.RenderUsed, _ = parent.RegisterCmd(cmd)
}

func runRender(fragment, rawColors, templateName string, outputs []string, width int, jsonOutput bool) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	colors, err := resolveColors(app, fragment, rawColors, templateName)
	if err != nil {
		Fatal(err)
	}

	if len(outputs) == 0 {
		outputs = []string{defaultRenderOutput}
	}
	if width < 0 {
		Fatal(fmt.Errorf("width must be positive"))
	}

	opts := export.Options{
		Width:       app.Config.Export.Width,
		Height:      app.Config.Export.Height,
		ResizeWidth: width,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := export.WriteFiles(ctx, outputs, render.Render(colors), opts); err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(RenderOutput{Flag: NewFlagOutput(colors, ""), Files: outputs}); err != nil {
			Fatal(err)
		}
		return
	}

	for _, path := range outputs {
		PrintSuccess("Wrote %s", RenderBold(path))
	}
	PrintInfo("Share fragment: %s", RenderFragment(link.Encode(colors)))
}

// resolveColors picks the flag to render from at most one source. With no
// source, a random template is used, as the editor does on a fresh page.
func resolveColors(app *App, fragment, rawColors, templateName string) (model.ColorList, error) {
	given := 0
	for _, s := range []string{fragment, rawColors, templateName} {
		if s != "" {
			given++
		}
	}
	if given > 1 {
		return nil, fmt.Errorf("use only one of fragment, --colors, or --template")
	}

	switch {
	case fragment != "":
		colors, err := link.Decode(fragment)
		if err != nil {
			return nil, fmt.Errorf("cannot render fragment: %w", err)
		}
		return colors, nil

	case rawColors != "":
		return parseColorArgs(rawColors)

	case templateName != "":
		tmpl, err := app.FindTemplate(templateName)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %s)", err, model.TemplateNames(app.Templates()))
		}
		return tmpl.ColorList(), nil

	default:
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		tmpl := util.PickRandom(rng, app.Templates())
		PrintInfo("No flag given, using %s", RenderBold(tmpl.Name))
		return tmpl.ColorList(), nil
	}
}
