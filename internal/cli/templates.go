package cli

import (
	"fmt"

	"github.com/amterp/flagmaker/internal/util"
	"github.com/amterp/ra"
)

func registerTemplates(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("templates")
	cmd.SetDescription("List flag templates")

	ctx.TemplatesUsed, _ = parent.RegisterCmd(cmd)
}

func runTemplates(jsonOutput bool) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	templates := app.Templates()

	if jsonOutput {
		if err := printJson(NewTemplatesOutput(templates, util.Slugify)); err != nil {
			Fatal(err)
		}
		return
	}

	nameWidth := 0
	for _, t := range templates {
		nameWidth = max(nameWidth, len(t.Name))
	}

	for _, t := range templates {
		fmt.Printf("%-*s  %s  %s\n", nameWidth, t.Name,
			Swatches(t.ColorList()), RenderMuted(util.Slugify(t.Name)))
	}
}
