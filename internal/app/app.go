// Package app wires the chat client together and runs its command loop.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/agentos-lite/internal/chat"
	"github.com/codr1/agentos-lite/internal/menu"
	"github.com/codr1/agentos-lite/internal/models"
	"github.com/codr1/agentos-lite/internal/prefs"
	"github.com/codr1/agentos-lite/internal/render"
	"github.com/codr1/agentos-lite/internal/themes"
)

const (
	MenuThemeBuilder = "theme-builder"
	MenuAIProvider   = "ai-provider"
)

// Deps are the collaborators the client is built from.
type Deps struct {
	Out         io.Writer
	Prefs       prefs.Store
	Querier     chat.Querier
	PrefersDark func() bool
	Now         func() time.Time
}

// App is one client session: a theme store, a chat log and the menu pages.
type App struct {
	out   *syncWriter
	prefs prefs.Store
	now   func() time.Time

	renderer *render.Renderer
	store    *themes.Store
	session  *chat.Session
	registry *menu.Registry
	pages    *menu.Pages

	draftMu sync.Mutex
	draft   models.CustomThemeOptions

	unsubscribe []func()
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// New builds the client. Persisted theme state is loaded from deps.Prefs.
func New(ctx context.Context, deps Deps) *App {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Prefs == nil {
		deps.Prefs = prefs.NewMemory()
	}

	out := &syncWriter{w: deps.Out}
	renderer := render.New(deps.Out)
	a := &App{
		out:      out,
		prefs:    deps.Prefs,
		now:      deps.Now,
		renderer: renderer,
		store: themes.NewStore(ctx, deps.Prefs,
			themes.WithPresenter(renderer),
			themes.WithPrefersDark(deps.PrefersDark),
		),
		session:  chat.NewSession(deps.Querier, chat.WithClock(deps.Now)),
		registry: menu.NewRegistry(),
		pages:    menu.NewPages(),
	}
	a.resetDraft()
	a.registerMenuItems(ctx)

	a.unsubscribe = append(a.unsubscribe,
		a.session.Subscribe(a.onMessages),
		a.store.Subscribe(func(theme models.Theme) {
			log.Debug().Str("theme", theme.Name).Msg("Active theme changed")
		}),
	)
	return a
}

func (a *App) registerMenuItems(ctx context.Context) {
	a.registry.Register(menu.Item{
		ID:    MenuThemeBuilder,
		Title: "Theme Builder",
		Icon:  "🎨",
		Open:  a.themeBuilderPage,
	})
	a.registry.Register(menu.Item{
		ID:    MenuAIProvider,
		Title: "AI Provider",
		Icon:  "🤖",
		Open:  func() string { return a.providerPage(ctx) },
	})
}

func (a *App) Store() *themes.Store     { return a.store }
func (a *App) Session() *chat.Session   { return a.session }
func (a *App) Registry() *menu.Registry { return a.registry }
func (a *App) Pages() *menu.Pages       { return a.pages }

// Draft returns the theme builder's working options.
func (a *App) Draft() models.CustomThemeOptions {
	a.draftMu.Lock()
	defer a.draftMu.Unlock()
	return a.draft
}

func (a *App) resetDraft() {
	a.draftMu.Lock()
	defer a.draftMu.Unlock()
	a.draft = models.DefaultCustomThemeOptions()
	a.draft.Name = models.NewCustomThemeName(a.now())
}

// onMessages prints assistant replies as they arrive while the chat page is shown.
func (a *App) onMessages(messages []chat.Message) {
	if len(messages) == 0 || a.pages.Active() != menu.PageChat {
		return
	}
	last := messages[len(messages)-1]
	if last.Role != chat.RoleAssistant {
		return
	}
	a.println(a.renderer.RenderMessages([]chat.Message{last}))
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *App) notice(format string, args ...any) {
	a.println(a.renderer.RenderNotice(fmt.Sprintf(format, args...)))
}

func (a *App) errorf(format string, args ...any) {
	a.println(a.renderer.RenderError(fmt.Sprintf(format, args...)))
}

// Start prints the header and the current page.
func (a *App) Start() {
	a.println(a.renderer.RenderHeader(a.pages.Title()))
	a.println(a.renderer.RenderMessages(a.session.Messages()))
}

// Run reads lines from in until EOF, /quit, or ctx is done.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	a.Start()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		fmt.Fprint(a.out, a.renderer.RenderPrompt(a.session.Busy()))
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if a.Handle(ctx, line) {
				return nil
			}
		}
	}
}

// Close stops the chat session; a reply still in flight is discarded.
func (a *App) Close() {
	for _, cancel := range a.unsubscribe {
		cancel()
	}
	a.session.Close()
}
