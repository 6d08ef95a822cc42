package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/codr1/agentos-lite/internal/agent"
	"github.com/codr1/agentos-lite/internal/chat"
	"github.com/codr1/agentos-lite/internal/menu"
	"github.com/codr1/agentos-lite/internal/models"
	"github.com/codr1/agentos-lite/internal/themes"
)

type command struct {
	usage string
	help  string
	run   func(a *App, ctx context.Context, arg string) (quit bool)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"/themes":       {usage: "/themes", help: "list themes", run: (*App).cmdThemes},
		"/theme":        {usage: "/theme <name>", help: "switch theme", run: (*App).cmdTheme},
		"/toggle":       {usage: "/toggle", help: "toggle light/dark", run: (*App).cmdToggle},
		"/theme-new":    {usage: "/theme-new [name]", help: "start a new custom theme draft", run: (*App).cmdThemeNew},
		"/theme-set":    {usage: "/theme-set <field> <value>", help: "edit a draft field", run: (*App).cmdThemeSet},
		"/theme-save":   {usage: "/theme-save", help: "save and apply the draft", run: (*App).cmdThemeSave},
		"/theme-load":   {usage: "/theme-load <name>", help: "load a custom theme into the draft", run: (*App).cmdThemeLoad},
		"/theme-import": {usage: "/theme-import <file.yaml>", help: "import a custom theme", run: (*App).cmdThemeImport},
		"/theme-export": {usage: "/theme-export <name> [file.yaml]", help: "export a custom theme", run: (*App).cmdThemeExport},
		"/theme-rm":     {usage: "/theme-rm <name>|--all", help: "delete custom themes", run: (*App).cmdThemeRemove},
		"/providers":    {usage: "/providers", help: "list AI providers", run: (*App).cmdProviders},
		"/provider":     {usage: "/provider <id>", help: "select an AI provider", run: (*App).cmdProvider},
		"/apikey":       {usage: "/apikey <key>", help: "store the provider API key", run: (*App).cmdAPIKey},
		"/menu":         {usage: "/menu", help: "toggle the menu", run: (*App).cmdMenu},
		"/open":         {usage: "/open <id>", help: "open a menu page", run: (*App).cmdOpen},
		"/back":         {usage: "/back", help: "return to chat", run: (*App).cmdBack},
		"/help":         {usage: "/help", help: "show commands", run: (*App).cmdHelp},
		"/quit":         {usage: "/quit", help: "exit", run: func(*App, context.Context, string) bool { return true }},
	}
}

// Handle runs one input line: a command when it starts with "/", otherwise a
// chat prompt. It reports true when the client should exit.
func (a *App) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		a.send(ctx, line)
		return false
	}

	name, arg, _ := strings.Cut(line, " ")
	cmd, ok := commands[name]
	if !ok {
		a.errorf("Unknown command %s. Type /help for commands.", name)
		return false
	}
	return cmd.run(a, ctx, strings.TrimSpace(arg))
}

func (a *App) send(ctx context.Context, prompt string) {
	if a.pages.Active() != menu.PageChat {
		a.pages.ReturnToChat()
		a.println(a.renderer.RenderHeader(a.pages.Title()))
	}
	if !a.session.Send(ctx, prompt) {
		if a.session.Busy() {
			a.notice("Still waiting for the previous reply.")
		}
		return
	}
	messages := a.session.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == chat.RoleUser {
			a.println(a.renderer.RenderMessages(messages[i : i+1]))
			break
		}
	}
}

func (a *App) cmdHelp(context.Context, string) bool {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(&b, "%-34s %s\n", cmd.usage, cmd.help)
	}
	a.println(strings.TrimRight(b.String(), "\n"))
	return false
}

func (a *App) cmdThemes(context.Context, string) bool {
	a.println(a.renderer.RenderThemeList(a.store.List(), a.store.Active().Name))
	return false
}

func (a *App) cmdTheme(ctx context.Context, arg string) bool {
	if arg == "" {
		a.errorf("Usage: /theme <name>")
		return false
	}
	if !a.store.SetActive(ctx, arg) {
		a.errorf("Unknown theme %q.", arg)
		return false
	}
	a.notice("Theme set to %s.", themes.DisplayName(arg))
	return false
}

func (a *App) cmdToggle(ctx context.Context, _ string) bool {
	theme := a.store.Toggle(ctx)
	a.notice("Theme set to %s.", themes.DisplayName(theme.Name))
	return false
}

func (a *App) cmdThemeNew(_ context.Context, arg string) bool {
	a.resetDraft()
	if arg != "" {
		a.draftMu.Lock()
		a.draft.Name = arg
		a.draftMu.Unlock()
	}
	a.notice("New draft %q.", a.Draft().Name)
	return false
}

// setDraftField sets one draft option by its persisted field name.
func setDraftField(opts *models.CustomThemeOptions, field, value string) error {
	switch field {
	case "name":
		opts.Name = value
	case "fontFamily":
		opts.FontFamily = value
	case "borderRadius", "spacing":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number", field)
		}
		if field == "spacing" {
			opts.Spacing = n
		} else {
			opts.BorderRadius = n
		}
	default:
		ptr, ok := opts.ColorFields()[field]
		if !ok {
			return fmt.Errorf("unknown field %q", field)
		}
		if !models.IsCSSColor(value) {
			return fmt.Errorf("%s must be a CSS colour like #AABBCC", field)
		}
		*ptr = value
	}
	return nil
}

func (a *App) cmdThemeSet(_ context.Context, arg string) bool {
	field, value, ok := strings.Cut(arg, " ")
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		a.errorf("Usage: /theme-set <field> <value>")
		return false
	}

	a.draftMu.Lock()
	err := setDraftField(&a.draft, field, value)
	a.draftMu.Unlock()
	if err != nil {
		a.errorf("%v", err)
		return false
	}
	a.notice("%s = %s", field, value)
	return false
}

func (a *App) cmdThemeSave(ctx context.Context, _ string) bool {
	a.saveCustom(ctx, a.Draft())
	return false
}

// saveCustom validates, stores and applies opts.
func (a *App) saveCustom(ctx context.Context, opts models.CustomThemeOptions) bool {
	if err := opts.Validate(); err != nil {
		a.errorf("Cannot save theme: %v", err)
		return false
	}
	for _, warning := range opts.ReadabilityWarnings() {
		a.notice("Warning: %s", warning)
	}

	theme, err := a.store.UpsertCustom(ctx, opts)
	if err != nil {
		a.errorf("Cannot save theme: %v", err)
		return false
	}
	a.store.SetActive(ctx, theme.Name)
	a.notice("Saved and applied %q.", theme.Name)
	return true
}

func (a *App) cmdThemeLoad(_ context.Context, arg string) bool {
	opts, ok := a.store.CustomOptions(arg)
	if !ok {
		a.errorf("No custom theme %q.", arg)
		return false
	}
	a.draftMu.Lock()
	a.draft = opts
	a.draftMu.Unlock()
	a.notice("Loaded %q into the draft.", arg)
	return false
}

func (a *App) cmdThemeImport(ctx context.Context, arg string) bool {
	if arg == "" {
		a.errorf("Usage: /theme-import <file.yaml>")
		return false
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		a.errorf("Cannot read %s: %v", arg, err)
		return false
	}
	opts, err := decodeThemeYAML(data)
	if err != nil {
		a.errorf("Cannot import %s: %v", arg, err)
		return false
	}
	a.saveCustom(ctx, opts)
	return false
}

// decodeThemeYAML reads CustomThemeOptions; omitted fields keep their defaults.
func decodeThemeYAML(data []byte) (models.CustomThemeOptions, error) {
	opts := models.DefaultCustomThemeOptions()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil {
		return models.CustomThemeOptions{}, err
	}
	return opts, nil
}

func (a *App) cmdThemeExport(_ context.Context, arg string) bool {
	name, path, _ := strings.Cut(arg, " ")
	path = strings.TrimSpace(path)
	opts, ok := a.store.CustomOptions(name)
	if !ok {
		a.errorf("No custom theme %q.", name)
		return false
	}

	data, err := yaml.Marshal(opts)
	if err != nil {
		a.errorf("Cannot export %q: %v", name, err)
		return false
	}
	if path == "" {
		a.println(strings.TrimRight(string(data), "\n"))
		return false
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		a.errorf("Cannot write %s: %v", path, err)
		return false
	}
	a.notice("Exported %q to %s.", name, path)
	return false
}

func (a *App) cmdThemeRemove(ctx context.Context, arg string) bool {
	if arg == "--all" {
		removed := 0
		for _, theme := range a.store.List() {
			if a.store.RemoveCustom(ctx, theme.Name) {
				removed++
			}
		}
		a.store.SetActive(ctx, themes.Light)
		a.resetDraft()
		a.notice("Deleted %d custom themes.", removed)
		return false
	}

	if !a.store.RemoveCustom(ctx, arg) {
		a.errorf("No custom theme %q.", arg)
		return false
	}
	if a.Draft().Name == arg {
		a.resetDraft()
	}
	a.notice("Deleted %q.", arg)
	return false
}

func (a *App) cmdProviders(ctx context.Context, _ string) bool {
	a.println(a.providerPage(ctx))
	return false
}

func (a *App) cmdProvider(ctx context.Context, arg string) bool {
	d, err := agent.SaveProvider(ctx, a.prefs, arg)
	if err != nil {
		a.errorf("%v", err)
		return false
	}
	a.notice("AI provider set to %s.", d.Name)
	return false
}

func (a *App) cmdAPIKey(ctx context.Context, arg string) bool {
	saved, err := agent.SaveAPIKey(ctx, a.prefs, arg)
	switch {
	case err != nil:
		a.errorf("%v", err)
	case !saved:
		a.errorf("Usage: /apikey <key>")
	default:
		a.notice("API key saved.")
	}
	return false
}

func (a *App) cmdMenu(context.Context, string) bool {
	if a.registry.IsOpen() {
		a.registry.CloseMenu()
		a.notice("Menu closed.")
		return false
	}
	a.registry.OpenMenu()
	var b strings.Builder
	for _, item := range a.registry.Items() {
		fmt.Fprintf(&b, "%s  (/open %s)\n", item.Label(), item.ID)
	}
	a.println(strings.TrimRight(b.String(), "\n"))
	return false
}

func (a *App) cmdOpen(_ context.Context, arg string) bool {
	item, ok := a.registry.Get(arg)
	if !ok {
		a.errorf("No menu item %q.", arg)
		return false
	}
	a.registry.CloseMenu()
	a.pages.Show(item)
	a.println(a.renderer.RenderHeader(a.pages.Title()))
	if item.Open != nil {
		a.println(item.Open())
	}
	return false
}

func (a *App) cmdBack(context.Context, string) bool {
	a.pages.ReturnToChat()
	a.println(a.renderer.RenderHeader(a.pages.Title()))
	a.println(a.renderer.RenderMessages(a.session.Messages()))
	return false
}

func (a *App) themeBuilderPage() string {
	draft := a.Draft()
	data, err := yaml.Marshal(draft)
	if err != nil {
		return a.renderer.RenderError(err.Error())
	}

	var b strings.Builder
	b.WriteString(a.renderer.RenderNotice("Draft (edit with /theme-set, save with /theme-save):"))
	b.WriteString("\n")
	b.Write(bytes.TrimRight(data, "\n"))

	var saved []string
	for _, theme := range a.store.List() {
		if a.store.IsCustom(theme.Name) {
			saved = append(saved, theme.Name)
		}
	}
	if len(saved) > 0 {
		b.WriteString("\n")
		b.WriteString(a.renderer.RenderNotice("Saved themes: " + strings.Join(saved, ", ")))
	}
	return b.String()
}

func (a *App) providerPage(ctx context.Context) string {
	sel, err := agent.LoadSelection(ctx, a.prefs)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Failed to load provider selection")
	}

	var b strings.Builder
	for _, d := range agent.Catalogue() {
		marker := "○"
		if d.ID == sel.Provider.ID {
			marker = "●"
		}
		fmt.Fprintf(&b, "%s %s %s (%s) - %s\n", marker, d.Icon, d.Name, d.ID, d.Description)
	}
	if sel.HasAPIKey() {
		b.WriteString("API key: saved")
	} else {
		b.WriteString("API key: not set")
	}
	return b.String()
}
