package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/amterp/flagmaker/internal/config"
	"github.com/amterp/flagmaker/internal/model"
	"github.com/amterp/flagmaker/internal/store"
	"github.com/amterp/flagmaker/internal/util"
	"github.com/amterp/ra"
)

// completionCtx provides lightweight config access for shell completion.
// Completion functions run during ParseOrExit, before NewApp() is called,
// so we can't use the full App.
type completionCtx struct {
	once      sync.Once
	templates []model.Template
}

var compCtx completionCtx

func initCompletionCtx() {
	compCtx.once.Do(func() {
		cfg, err := store.NewConfigStore(config.DefaultPaths()).Load()
		if err != nil {
			// Graceful degradation: built-ins only if the config is broken
			cfg = model.DefaultConfig()
		}
		compCtx.templates = cfg.AllTemplates()
	})
}

// completeTemplates returns template slugs matching the given prefix.
func completeTemplates(toComplete string) ([]string, ra.CompletionDirective) {
	initCompletionCtx()
	return matchTemplates(compCtx.templates, toComplete), ra.CompletionDirectiveNoFileComp
}

// matchTemplates returns the slugs of templates whose slug starts with prefix.
func matchTemplates(templates []model.Template, prefix string) []string {
	prefix = strings.ToLower(prefix)
	var result []string
	for _, t := range templates {
		if slug := util.Slugify(t.Name); strings.HasPrefix(slug, prefix) {
			result = append(result, slug)
		}
	}
	return result
}

// registerCompletion adds the "flagmaker completion <shell>" command.
func registerCompletion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("completion")
	cmd.SetDescription("Output shell completion script")

	ctx.CompletionShell, _ = ra.NewString("shell").
		SetUsage("Shell type").
		SetEnumConstraint([]string{"bash", "zsh"}).
		Register(cmd)

	ctx.CompletionUsed, _ = parent.RegisterCmd(cmd)
}

// runCompletion outputs the shell completion script to stdout.
func runCompletion(shell string, rootCmd *ra.Cmd) {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(os.Stdout)
	default:
		Fatal(fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell))
	}
	if err != nil {
		Fatal(fmt.Errorf("failed to generate completion script: %w", err))
	}
}
