package cli

import (
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool
	Json           *bool

	// serve command
	ServeUsed   *bool
	ServePort   *int
	ServeNoOpen *bool

	// render command
	RenderUsed     *bool
	RenderFragment *string
	RenderColors   *string
	RenderTemplate *string
	RenderOutputs  *[]string
	RenderWidth    *int

	// encode command
	EncodeUsed   *bool
	EncodeColors *string
	EncodeBase   *string

	// decode command
	DecodeUsed     *bool
	DecodeFragment *string

	// edit command
	EditUsed     *bool
	EditFragment *string
	EditState    *string

	// templates command
	TemplatesUsed *bool

	// completion command
	CompletionUsed  *bool
	CompletionShell *string
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("flagmaker")
	cmd.SetDescription("Design striped flags and share them as links")

	// Global flag for non-interactive mode
	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	ctx.Json, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON where supported").
		Register(cmd, ra.WithGlobal(true))

	// Register all subcommands
	registerServe(cmd, ctx)
	registerRender(cmd, ctx)
	registerEncode(cmd, ctx)
	registerDecode(cmd, ctx)
	registerEdit(cmd, ctx)
	registerTemplates(cmd, ctx)
	registerCompletion(cmd, ctx)

	// Parse command line
	cmd.ParseOrExit(os.Args[1:])

	// Execute the appropriate command
	executeCommand(ctx, cmd)
}

func executeCommand(ctx *CommandContext, rootCmd *ra.Cmd) {
	switch {
	case *ctx.ServeUsed:
		if *ctx.Json {
			warnJsonNotSupported("serve")
		}
		runServe(*ctx.ServePort, *ctx.ServeNoOpen)

	case *ctx.RenderUsed:
		runRender(*ctx.RenderFragment, *ctx.RenderColors, *ctx.RenderTemplate,
			*ctx.RenderOutputs, *ctx.RenderWidth, *ctx.Json)

	case *ctx.EncodeUsed:
		runEncode(*ctx.EncodeColors, *ctx.EncodeBase, *ctx.Json)

	case *ctx.DecodeUsed:
		runDecode(*ctx.DecodeFragment, *ctx.Json)

	case *ctx.EditUsed:
		if *ctx.Json {
			warnJsonNotSupported("edit")
		}
		runEdit(*ctx.EditFragment, *ctx.EditState, *ctx.NonInteractive)

	case *ctx.TemplatesUsed:
		runTemplates(*ctx.Json)

	case *ctx.CompletionUsed:
		runCompletion(*ctx.CompletionShell, rootCmd)
	}
}
