package themes

import (
	"fmt"
	"strings"

	"github.com/codr1/agentos-lite/internal/models"
)

// FontFamilyVar is not a CSS custom property; presenters apply it as the root font-family.
const FontFamilyVar = "font-family"

// VarNames lists the presentation variables a custom theme sets, in application order.
var VarNames = []string{
	"--color-primary",
	"--color-secondary",
	"--color-background",
	"--color-surface",
	"--color-text-primary",
	"--color-text-secondary",
	"--color-message-user-bg",
	"--color-message-user-text",
	"--color-message-assistant-bg",
	"--color-message-assistant-text",
	"--color-input-bg",
	"--color-input-text",
	"--color-input-border",
	"--font-size-small",
	"--font-size-medium",
	"--font-size-large",
	"--font-size-xlarge",
	"--spacing-small",
	"--spacing-medium",
	"--spacing-large",
	"--border-radius-small",
	"--border-radius-medium",
	"--border-radius-large",
}

// Var is a single presentation variable assignment.
type Var struct {
	Name  string
	Value string
}

// Presenter receives global presentation variables whenever the active theme changes.
type Presenter interface {
	Apply(theme models.Theme, vars []Var)
	Reset(theme models.Theme)
}

// Vars returns the presentation variables for a theme, VarNames order first, font family last.
func Vars(theme models.Theme) []Var {
	c := theme.Colors
	values := []string{
		c.Primary,
		c.Secondary,
		c.Background,
		c.Surface,
		c.Text.Primary,
		c.Text.Secondary,
		c.Message.User.Background,
		c.Message.User.Text,
		c.Message.Assistant.Background,
		c.Message.Assistant.Text,
		c.Input.Background,
		c.Input.Text,
		c.Input.Border,
		theme.Typography.FontSize.Small,
		theme.Typography.FontSize.Medium,
		theme.Typography.FontSize.Large,
		theme.Typography.FontSize.XLarge,
		theme.Spacing.Small,
		theme.Spacing.Medium,
		theme.Spacing.Large,
		theme.BorderRadius.Small,
		theme.BorderRadius.Medium,
		theme.BorderRadius.Large,
	}

	vars := make([]Var, 0, len(VarNames)+1)
	for i, name := range VarNames {
		vars = append(vars, Var{Name: name, Value: values[i]})
	}
	vars = append(vars, Var{Name: FontFamilyVar, Value: theme.Typography.FontFamily})
	return vars
}

// CSS renders vars as a :root rule. Values that could break out of the
// declaration are dropped.
func CSS(vars []Var) string {
	var b strings.Builder
	b.WriteString(":root{")
	for _, v := range vars {
		value := strings.TrimSpace(v.Value)
		if value == "" || strings.ContainsAny(value, ";{}<>") {
			continue
		}
		fmt.Fprintf(&b, "%s:%s;", v.Name, value)
	}
	b.WriteString("}")
	return b.String()
}

// nopPresenter is used when the application has nothing to present to.
type nopPresenter struct{}

func (nopPresenter) Apply(models.Theme, []Var) {}
func (nopPresenter) Reset(models.Theme)        {}
