package themes

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/codr1/agentos-lite/internal/models"
)

const (
	Light        = "light"
	Dark         = "dark"
	Blue         = "blue"
	HighContrast = "high-contrast"
)

//go:embed assets/builtin.yaml
var builtinYAML []byte

var (
	builtins     []models.Theme
	builtinsOnce sync.Once
)

// displayNames are the labels shown in theme pickers.
var displayNames = map[string]string{
	Light:        "Light",
	Dark:         "Dark",
	Blue:         "Blue",
	HighContrast: "High Contrast",
}

// DisplayName returns the picker label for a theme, falling back to its name.
func DisplayName(name string) string {
	if label, ok := displayNames[name]; ok {
		return label
	}
	return name
}

// ParseBuiltinThemes decodes the embedded theme asset and returns the themes in file order.
func ParseBuiltinThemes() ([]models.Theme, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(builtinYAML))
	decoder.KnownFields(true)

	var parsed []models.Theme
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode builtin themes: %w", err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("builtin themes file defines no themes")
	}

	seen := make(map[string]struct{}, len(parsed))
	for i, theme := range parsed {
		if err := theme.Validate(); err != nil {
			return nil, fmt.Errorf("invalid builtin theme at index %d: %w", i, err)
		}
		if _, dup := seen[theme.Name]; dup {
			return nil, fmt.Errorf("duplicate builtin theme %q", theme.Name)
		}
		seen[theme.Name] = struct{}{}
	}
	return parsed, nil
}

func loadBuiltins() []models.Theme {
	builtinsOnce.Do(func() {
		parsed, err := ParseBuiltinThemes()
		if err != nil {
			panic(err)
		}
		builtins = parsed
	})
	return builtins
}

// Builtins returns the built-in themes in display order.
func Builtins() []models.Theme {
	list := loadBuiltins()
	out := make([]models.Theme, len(list))
	copy(out, list)
	return out
}

// Builtin looks up a built-in theme by name.
func Builtin(name string) (models.Theme, bool) {
	for _, theme := range loadBuiltins() {
		if theme.Name == name {
			return theme, true
		}
	}
	return models.Theme{}, false
}

func IsBuiltin(name string) bool {
	_, ok := Builtin(name)
	return ok
}

func mustBuiltin(name string) models.Theme {
	theme, ok := Builtin(name)
	if !ok {
		panic(fmt.Sprintf("builtin theme %q missing", name))
	}
	return theme
}
