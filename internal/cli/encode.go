package cli

import (
	"errors"
	"fmt"

	"github.com/amterp/flagmaker/internal/link"
	"github.com/amterp/ra"
)

func registerEncode(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("encode")
	cmd.SetDescription("Turn colors into a share link fragment")

	ctx.EncodeColors, _ = ra.NewString("colors").
		SetUsage("Colors top to bottom, comma separated (e.g. FF0018,FFA52C)").
		Register(cmd)

	ctx.EncodeBase, _ = ra.NewString("base").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Page URL to build a full share link on (e.g. http://localhost:3000/)").
		Register(cmd)

	ctx.EncodeUsed, _ = parent.RegisterCmd(cmd)
}

func runEncode(rawColors, base string, jsonOutput bool) {
	colors, err := parseColorArgs(rawColors)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(NewFlagOutput(colors, base)); err != nil {
			Fatal(err)
		}
		return
	}

	// Plain output so it can be piped
	fmt.Println(link.Encode(colors))
	if base != "" {
		fmt.Println(link.ShareURL(base, colors))
	}
}

func registerDecode(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("decode")
	cmd.SetDescription("Show the flag in a share link fragment")

	ctx.DecodeFragment, _ = ra.NewString("fragment").
		SetUsage("Fragment, with or without the leading #").
		Register(cmd)

	ctx.DecodeUsed, _ = parent.RegisterCmd(cmd)
}

func runDecode(fragment string, jsonOutput bool) {
	colors, err := link.Decode(fragment)
	if err != nil {
		var decodeErr *link.DecodeError
		if errors.As(err, &decodeErr) {
			Fatal(fmt.Errorf("not a flag link (%s): %w", decodeErr.Reason, decodeErr.Err))
		}
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(NewFlagOutput(colors, "")); err != nil {
			Fatal(err)
		}
		return
	}

	printFlag(colors)
}
