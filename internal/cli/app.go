package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/amterp/flagmaker/internal/config"
	"github.com/amterp/flagmaker/internal/model"
	"github.com/amterp/flagmaker/internal/prompt"
	"github.com/amterp/flagmaker/internal/store"
)

// App holds all the dependencies for the CLI.
// Uses interfaces for testability.
type App struct {
	Paths       *config.Paths
	ConfigStore store.ConfigStore
	Config      *model.Config
	Prompter    prompt.Prompter
}

// NewApp creates a new App with all dependencies wired up.
// If interactive is false, uses NoopPrompter that fails on prompts.
func NewApp(interactive bool) (*App, error) {
	paths := config.DefaultPaths()
	configStore := store.NewConfigStore(paths)

	// A broken config shouldn't lock anyone out of their flags
	cfg, err := configStore.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = model.DefaultConfig()
	}

	var prompter prompt.Prompter
	if interactive {
		prompter = prompt.NewHuhPrompter()
	} else {
		prompter = &prompt.NoopPrompter{}
	}

	return &App{
		Paths:       paths,
		ConfigStore: configStore,
		Config:      cfg,
		Prompter:    prompter,
	}, nil
}

// Templates returns the built-in and configured templates.
func (a *App) Templates() []model.Template {
	return a.Config.AllTemplates()
}

// FindTemplate looks up a template by name, ignoring case and punctuation.
func (a *App) FindTemplate(name string) (model.Template, error) {
	return model.FindTemplate(a.Templates(), name)
}

// parseColorArgs splits a comma or space separated color list.
func parseColorArgs(raw string) (model.ColorList, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no colors given")
	}
	return model.ParseColorList(fields)
}

// Fatal prints an error and exits.
func Fatal(err error) {
	PrintError("%v", err)
	os.Exit(1)
}
