package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amterp/flagmaker/internal/editor"
	"github.com/amterp/flagmaker/internal/export"
	"github.com/amterp/flagmaker/internal/link"
	"github.com/amterp/flagmaker/internal/model"
	"github.com/amterp/flagmaker/internal/prompt"
	"github.com/amterp/ra"
	"github.com/disintegration/imaging"
)

// Menu values for the edit loop.
const (
	actionAdd    = "add"
	actionRemove = "remove"
	actionExport = "export"
	actionShare  = "share"
	actionDone   = "done"
	actionCustom = "custom"

	editPrefix = "edit:"
)

func registerEdit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("edit")
	cmd.SetDescription("Edit a flag in the terminal")

	ctx.EditFragment, _ = ra.NewString("fragment").
		SetOptional(true).
		SetUsage("Share link fragment to start from (default: the last edited flag)").
		Register(cmd)

	ctx.EditState, _ = ra.NewString("state").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("File to keep the current fragment in (default ~/.config/flagmaker/last-flag)").
		Register(cmd)

	ctx.EditUsed, _ = parent.RegisterCmd(cmd)
}

func runEdit(fragment, statePath string, nonInteractive bool) {
	app, err := NewApp(!nonInteractive)
	if err != nil {
		Fatal(err)
	}

	if statePath == "" {
		statePath = app.Paths.StatePath()
	}

	var port editor.ShareableState
	if statePath != "" {
		port = editor.NewFileState(statePath)
	} else {
		port = editor.NewMemoryState("")
	}

	// An explicit fragment wins over whatever was saved last
	if fragment != "" {
		if _, err := link.Decode(fragment); err != nil {
			PrintWarning("Ignoring fragment: %v", err)
		} else if err := port.Write(strings.TrimPrefix(fragment, "#")); err != nil {
			Fatal(err)
		}
	}

	exportOpts := export.Options{
		Width:  app.Config.Export.Width,
		Height: app.Config.Export.Height,
	}
	controller := editor.NewController(port, app.Templates(), nil)
	controller.SetPalette(app.Config.PaletteColors())
	controller.SetExportOptions(exportOpts)
	controller.Initialize()

	session := &editSession{
		controller: controller,
		prompter:   app.Prompter,
		exportOpts: exportOpts,
		port:       app.Config.Port,
	}
	if err := session.loop(); err != nil {
		Fatal(err)
	}

	if controller.State().Dirty && statePath != "" {
		PrintSuccess("Saved to %s", RenderMuted(statePath))
	}
}

// editSession drives an editor.Controller from terminal prompts.
type editSession struct {
	controller *editor.Controller
	prompter   prompt.Prompter
	exportOpts export.Options
	port       int
}

// loop runs until the user is done or aborts.
func (s *editSession) loop() error {
	for {
		fmt.Println()
		printFlag(s.controller.Colors())

		action, err := s.prompter.Select("What next?", s.menu())
		if errors.Is(err, prompt.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		done, err := s.apply(action)
		if errors.Is(err, prompt.ErrAborted) {
			continue
		}
		if err != nil {
			// Bad input shouldn't end the session
			PrintError("%v", err)
			continue
		}
		if done {
			return nil
		}
	}
}

func (s *editSession) menu() []prompt.Option {
	boxes := s.controller.Boxes()
	options := make([]prompt.Option, 0, len(boxes)+5)
	for _, b := range boxes {
		options = append(options, prompt.Option{
			Label: fmt.Sprintf("Change stripe %d  %s", b.Index()+1, SwatchLine(b.Color())),
			Value: editPrefix + strconv.Itoa(b.Index()),
		})
	}
	options = append(options,
		prompt.Option{Label: "Add a color", Value: actionAdd},
	)
	if len(boxes) > 0 {
		options = append(options, prompt.Option{Label: "Remove a color", Value: actionRemove})
	}
	options = append(options,
		prompt.Option{Label: "Export to file", Value: actionExport},
		prompt.Option{Label: "Show share link", Value: actionShare},
		prompt.Option{Label: "Done", Value: actionDone},
	)
	return options
}

// apply runs one menu action. It reports whether the session is over.
func (s *editSession) apply(action string) (bool, error) {
	switch {
	case strings.HasPrefix(action, editPrefix):
		index, err := strconv.Atoi(strings.TrimPrefix(action, editPrefix))
		if err != nil {
			return false, err
		}
		return false, s.pick(index)

	case action == actionAdd:
		c := s.controller.Add()
		PrintSuccess("Added %s", SwatchLine(c))
		return false, nil

	case action == actionRemove:
		return false, s.remove()

	case action == actionExport:
		return false, s.export()

	case action == actionShare:
		s.share()
		return false, nil

	case action == actionDone:
		return true, nil
	}
	return false, fmt.Errorf("unknown action %q", action)
}

// pick opens the picker of one stripe, applies the chosen color and closes it.
func (s *editSession) pick(index int) error {
	box, err := s.controller.Box(index)
	if err != nil {
		return err
	}
	if err := box.Open(); err != nil {
		return err
	}
	defer box.Close()

	presets := box.Presets()
	options := make([]prompt.Option, 0, len(presets)+1)
	for _, c := range presets {
		options = append(options, prompt.Option{Label: SwatchLine(c), Value: string(c)})
	}
	options = append(options, prompt.Option{Label: "Custom…", Value: actionCustom})

	choice, err := s.prompter.Select(fmt.Sprintf("Color for stripe %d", index+1), options)
	if err != nil {
		return err
	}
	if choice == actionCustom {
		choice, err = s.prompter.Input("Hex color", box.Color().Hex(), validateColor)
		if err != nil {
			return err
		}
	}
	return box.Pick(choice)
}

func (s *editSession) remove() error {
	boxes := s.controller.Boxes()
	options := make([]prompt.Option, len(boxes))
	for i, b := range boxes {
		options[i] = prompt.Option{
			Label: fmt.Sprintf("Stripe %d  %s", b.Index()+1, SwatchLine(b.Color())),
			Value: strconv.Itoa(b.Index()),
		}
	}

	choice, err := s.prompter.Select("Remove which color?", options)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(choice)
	if err != nil {
		return err
	}
	box, err := s.controller.Box(index)
	if err != nil {
		return err
	}
	return box.Remove()
}

func (s *editSession) export() error {
	path, err := s.prompter.Input("File name", export.SVGFileName, validateExportPath)
	if err != nil {
		return err
	}

	if err := s.writeExport(path); err != nil {
		return err
	}
	PrintSuccess("Wrote %s", RenderBold(path))
	return nil
}

func (s *editSession) writeExport(path string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".svg" && ext != ".png" {
		return export.WriteFile(ctx, path, s.controller.Render(), s.exportOpts)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if ext == ".svg" {
		err = s.controller.ExportSVG(f)
	} else {
		err = s.controller.ExportPNG(ctx, f)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

func (s *editSession) share() {
	colors := s.controller.Colors()
	base := fmt.Sprintf("http://localhost:%d/", s.port)
	fmt.Println(LabelValue("Fragment", RenderFragment(link.Encode(colors)), 9))
	fmt.Println(LabelValue("Link", RenderURL(link.ShareURL(base, colors)), 9))
	PrintInfo("Open the link while %s is running", RenderBold("flagmaker serve"))
}

func validateColor(raw string) error {
	_, err := model.ParseColor(raw)
	return err
}

func validateExportPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("file name is required")
	}
	if strings.ToLower(filepath.Ext(path)) == ".svg" {
		return nil
	}
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("unsupported format %q (use .svg, .png, .jpg, .gif, .tif or .bmp)", filepath.Ext(path))
	}
	return nil
}
