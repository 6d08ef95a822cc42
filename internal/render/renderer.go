// Package render draws the chat client in the terminal using the active
// theme's colours. Renderer is the client's themes.Presenter.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/codr1/agentos-lite/internal/chat"
	"github.com/codr1/agentos-lite/internal/models"
	"github.com/codr1/agentos-lite/internal/themes"
)

// EmptyChatText is shown before the first message of a session.
const EmptyChatText = "What's on the Agenda today my dude?"

const errorColor = "#d13438"

// Styles holds the lipgloss styles derived from one theme.
type Styles struct {
	Header       lipgloss.Style
	UserLabel    lipgloss.Style
	UserBubble   lipgloss.Style
	AssistLabel  lipgloss.Style
	AssistBubble lipgloss.Style
	ErrorBubble  lipgloss.Style
	Prompt       lipgloss.Style
	Muted        lipgloss.Style
	ActiveItem   lipgloss.Style
	InactiveItem lipgloss.Style
	Empty        lipgloss.Style
}

type Renderer struct {
	lg *lipgloss.Renderer

	mu     sync.RWMutex
	theme  models.Theme
	vars   map[string]string
	styles Styles
}

// New returns a Renderer whose colour profile is detected from w.
func New(w io.Writer) *Renderer {
	r := &Renderer{lg: lipgloss.NewRenderer(w)}
	theme, _ := themes.Builtin(themes.Light)
	r.Reset(theme)
	return r
}

// Apply implements themes.Presenter for custom themes.
func (r *Renderer) Apply(theme models.Theme, vars []themes.Var) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.theme = theme
	r.vars = make(map[string]string, len(vars))
	for _, v := range vars {
		r.vars[v.Name] = v.Value
	}
	r.styles = r.buildStyles()
}

// Reset implements themes.Presenter for built-in themes.
func (r *Renderer) Reset(theme models.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.theme = theme
	r.vars = nil
	r.styles = r.buildStyles()
}

// Vars returns the custom variable overrides in effect.
func (r *Renderer) Vars() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]string, len(r.vars))
	for k, v := range r.vars {
		out[k] = v
	}
	return out
}

func (r *Renderer) Theme() models.Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.theme
}

func (r *Renderer) Styles() Styles {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.styles
}

// value prefers a custom variable override over the theme field.
func (r *Renderer) value(name, fallback string) string {
	if v, ok := r.vars[name]; ok && v != "" {
		return v
	}
	return fallback
}

func (r *Renderer) buildStyles() Styles {
	c := r.theme.Colors
	primary := termColor(r.value("--color-primary", c.Primary))
	textSecondary := termColor(r.value("--color-text-secondary", c.Text.Secondary))
	border := termColor(r.value("--color-input-border", c.Input.Border))

	bubbleBorder := lipgloss.RoundedBorder()
	if isZeroLength(r.value("--border-radius-medium", r.theme.BorderRadius.Medium)) {
		bubbleBorder = lipgloss.NormalBorder()
	}

	bubble := r.lg.NewStyle().
		Padding(0, 1).
		Border(bubbleBorder).
		BorderForeground(border)

	return Styles{
		Header: r.lg.NewStyle().
			Bold(true).
			Foreground(primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(border),
		UserLabel: r.lg.NewStyle().Bold(true).Foreground(primary),
		UserBubble: bubble.
			Background(termColor(r.value("--color-message-user-bg", c.Message.User.Background))).
			Foreground(termColor(r.value("--color-message-user-text", c.Message.User.Text))),
		AssistLabel: r.lg.NewStyle().Bold(true).Foreground(termColor(r.value("--color-secondary", c.Secondary))),
		AssistBubble: bubble.
			Background(termColor(r.value("--color-message-assistant-bg", c.Message.Assistant.Background))).
			Foreground(termColor(r.value("--color-message-assistant-text", c.Message.Assistant.Text))),
		ErrorBubble: bubble.
			BorderForeground(lipgloss.Color(errorColor)).
			Foreground(lipgloss.Color(errorColor)),
		Prompt: r.lg.NewStyle().
			Foreground(termColor(r.value("--color-input-text", c.Input.Text))).
			Background(termColor(r.value("--color-input-bg", c.Input.Background))),
		Muted:        r.lg.NewStyle().Foreground(textSecondary),
		ActiveItem:   r.lg.NewStyle().Bold(true).Foreground(primary),
		InactiveItem: r.lg.NewStyle().Foreground(termColor(r.value("--color-text-primary", c.Text.Primary))),
		Empty:        r.lg.NewStyle().Italic(true).Foreground(textSecondary),
	}
}

// isZeroLength reports whether a CSS length such as "0", "0px" or "0.0rem" is zero.
func isZeroLength(css string) bool {
	v := strings.TrimSpace(css)
	v = strings.TrimRight(v, "abcdefghijklmnopqrstuvwxyz%")
	n, err := strconv.ParseFloat(v, 64)
	return err == nil && n == 0
}

// termColor converts a CSS colour to a terminal colour. Only hex colours have
// a terminal equivalent; anything else leaves the terminal default.
func termColor(css string) lipgloss.TerminalColor {
	if !models.IsHexColor(css) {
		return lipgloss.NoColor{}
	}
	if len(css) == 9 {
		css = css[:7]
	}
	return lipgloss.Color(css)
}

func (r *Renderer) RenderHeader(title string) string {
	return r.Styles().Header.Render(title)
}

// RenderMessages renders the chat log, or the empty-chat greeting.
func (r *Renderer) RenderMessages(messages []chat.Message) string {
	s := r.Styles()
	if len(messages) == 0 {
		return s.Empty.Render(EmptyChatText)
	}

	blocks := make([]string, 0, len(messages))
	for _, m := range messages {
		switch {
		case m.Role == chat.RoleUser:
			blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left,
				s.UserLabel.Render("You"),
				s.UserBubble.Render(m.Content),
			))
		case strings.HasPrefix(m.Content, chat.ErrorPrefix):
			blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left,
				s.AssistLabel.Render("Assistant"),
				s.ErrorBubble.Render(m.Content),
			))
		default:
			blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left,
				s.AssistLabel.Render("Assistant"),
				s.AssistBubble.Render(m.Content),
			))
		}
	}
	return strings.Join(blocks, "\n")
}

// RenderThemeList renders one line per theme, marking the active one.
func (r *Renderer) RenderThemeList(list []models.Theme, active string) string {
	s := r.Styles()
	var b strings.Builder
	for _, theme := range list {
		label := themes.DisplayName(theme.Name)
		if label != theme.Name {
			label = fmt.Sprintf("%s (%s)", label, theme.Name)
		}
		if theme.Name == active {
			b.WriteString(s.ActiveItem.Render("● " + label))
		} else {
			b.WriteString(s.InactiveItem.Render("○ " + label))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderPrompt renders the input prompt; busy sessions show a waiting marker.
func (r *Renderer) RenderPrompt(busy bool) string {
	s := r.Styles()
	if busy {
		return s.Muted.Render("… ") + s.Prompt.Render("> ")
	}
	return s.Prompt.Render("> ")
}

func (r *Renderer) RenderNotice(text string) string {
	return r.Styles().Muted.Render(text)
}

func (r *Renderer) RenderError(text string) string {
	return r.lg.NewStyle().Foreground(lipgloss.Color(errorColor)).Render(text)
}
