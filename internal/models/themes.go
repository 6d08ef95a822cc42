// internal/models/themes.go
package models

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Body text in chat bubbles is small, so readability hints use the AA normal-text threshold.
const wcagAAMinContrastRatio = 4.5
const maxThemeNameLength = 100
const minBaseValue = 0
const maxBaseValue = 32

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
var colorFuncRegex = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\(\s*[-0-9.%]+\s*(?:,\s*[-0-9.%]+\s*){2,3}\)$`)
var themeNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ()_-]*$`)

func IsHexColor(value string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(value))
}

// IsCSSColor accepts hex, rgb()/rgba()/hsl()/hsla() and CSS colour keywords.
func IsCSSColor(value string) bool {
	v := strings.TrimSpace(value)
	if hexColorRegex.MatchString(v) || colorFuncRegex.MatchString(v) {
		return true
	}
	_, ok := namedColors[strings.ToLower(v)]
	return ok
}

// namedColors holds the CSS colour keywords.
var namedColors = func() map[string]struct{} {
	names := strings.Fields(`
		transparent currentcolor
		aliceblue antiquewhite aqua aquamarine azure beige bisque black
		blanchedalmond blue blueviolet brown burlywood cadetblue chartreuse
		chocolate coral cornflowerblue cornsilk crimson cyan darkblue darkcyan
		darkgoldenrod darkgray darkgreen darkgrey darkkhaki darkmagenta
		darkolivegreen darkorange darkorchid darkred darksalmon darkseagreen
		darkslateblue darkslategray darkslategrey darkturquoise darkviolet
		deeppink deepskyblue dimgray dimgrey dodgerblue firebrick floralwhite
		forestgreen fuchsia gainsboro ghostwhite gold goldenrod gray green
		greenyellow grey honeydew hotpink indianred indigo ivory khaki lavender
		lavenderblush lawngreen lemonchiffon lightblue lightcoral lightcyan
		lightgoldenrodyellow lightgray lightgreen lightgrey lightpink
		lightsalmon lightseagreen lightskyblue lightslategray lightslategrey
		lightsteelblue lightyellow lime limegreen linen magenta maroon
		mediumaquamarine mediumblue mediumorchid mediumpurple mediumseagreen
		mediumslateblue mediumspringgreen mediumturquoise mediumvioletred
		midnightblue mintcream mistyrose moccasin navajowhite navy oldlace olive
		olivedrab orange orangered orchid palegoldenrod palegreen paleturquoise
		palevioletred papayawhip peachpuff peru pink plum powderblue purple
		rebeccapurple red rosybrown royalblue saddlebrown salmon sandybrown
		seagreen seashell sienna silver skyblue slateblue slategray slategrey
		snow springgreen steelblue tan teal thistle tomato turquoise violet
		wheat white whitesmoke yellow yellowgreen`)
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}()

type TextColors struct {
	Primary   string `json:"primary" yaml:"primary"`
	Secondary string `json:"secondary" yaml:"secondary"`
}

type BubbleColors struct {
	Background string `json:"background" yaml:"background"`
	Text       string `json:"text" yaml:"text"`
}

type MessageColors struct {
	User      BubbleColors `json:"user" yaml:"user"`
	Assistant BubbleColors `json:"assistant" yaml:"assistant"`
}

type InputColors struct {
	Background string `json:"background" yaml:"background"`
	Text       string `json:"text" yaml:"text"`
	Border     string `json:"border" yaml:"border"`
}

type Colors struct {
	Primary    string        `json:"primary" yaml:"primary"`
	Secondary  string        `json:"secondary" yaml:"secondary"`
	Background string        `json:"background" yaml:"background"`
	Surface    string        `json:"surface" yaml:"surface"`
	Text       TextColors    `json:"text" yaml:"text"`
	Message    MessageColors `json:"message" yaml:"message"`
	Input      InputColors   `json:"input" yaml:"input"`
}

type FontSizes struct {
	Small  string `json:"small" yaml:"small"`
	Medium string `json:"medium" yaml:"medium"`
	Large  string `json:"large" yaml:"large"`
	XLarge string `json:"xlarge" yaml:"xlarge"`
}

type Typography struct {
	FontFamily string    `json:"fontFamily" yaml:"fontFamily"`
	FontSize   FontSizes `json:"fontSize" yaml:"fontSize"`
}

// Scale is a small/medium/large triple of CSS lengths or shadow values.
type Scale struct {
	Small  string `json:"small" yaml:"small"`
	Medium string `json:"medium" yaml:"medium"`
	Large  string `json:"large" yaml:"large"`
}

// Theme is a named bundle of colour, typography, spacing and shadow tokens.
// Values are treated as immutable once built.
type Theme struct {
	Name         string     `json:"name" yaml:"name"`
	Colors       Colors     `json:"colors" yaml:"colors"`
	Typography   Typography `json:"typography" yaml:"typography"`
	Spacing      Scale      `json:"spacing" yaml:"spacing"`
	BorderRadius Scale      `json:"borderRadius" yaml:"borderRadius"`
	Shadows      Scale      `json:"shadows" yaml:"shadows"`
}

// colorFields lists every colour token with a stable field name.
func (t Theme) colorFields() [][2]string {
	c := t.Colors
	return [][2]string{
		{"colors.primary", c.Primary},
		{"colors.secondary", c.Secondary},
		{"colors.background", c.Background},
		{"colors.surface", c.Surface},
		{"colors.text.primary", c.Text.Primary},
		{"colors.text.secondary", c.Text.Secondary},
		{"colors.message.user.background", c.Message.User.Background},
		{"colors.message.user.text", c.Message.User.Text},
		{"colors.message.assistant.background", c.Message.Assistant.Background},
		{"colors.message.assistant.text", c.Message.Assistant.Text},
		{"colors.input.background", c.Input.Background},
		{"colors.input.text", c.Input.Text},
		{"colors.input.border", c.Input.Border},
	}
}

func (t Theme) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required")
	}
	for _, field := range t.colorFields() {
		if !IsCSSColor(field[1]) {
			return fmt.Errorf("%s must be a CSS colour, got %q", field[0], field[1])
		}
	}
	return nil
}

// CustomThemeOptions is the flat, user-editable precursor of a custom Theme.
type CustomThemeOptions struct {
	Name                       string  `json:"name" yaml:"name"`
	PrimaryColor               string  `json:"primaryColor" yaml:"primaryColor"`
	SecondaryColor             string  `json:"secondaryColor" yaml:"secondaryColor"`
	BackgroundColor            string  `json:"backgroundColor" yaml:"backgroundColor"`
	SurfaceColor               string  `json:"surfaceColor" yaml:"surfaceColor"`
	TextPrimaryColor           string  `json:"textPrimaryColor" yaml:"textPrimaryColor"`
	TextSecondaryColor         string  `json:"textSecondaryColor" yaml:"textSecondaryColor"`
	MessageUserBackground      string  `json:"messageUserBackground" yaml:"messageUserBackground"`
	MessageUserText            string  `json:"messageUserText" yaml:"messageUserText"`
	MessageAssistantBackground string  `json:"messageAssistantBackground" yaml:"messageAssistantBackground"`
	MessageAssistantText       string  `json:"messageAssistantText" yaml:"messageAssistantText"`
	InputBackground            string  `json:"inputBackground" yaml:"inputBackground"`
	InputText                  string  `json:"inputText" yaml:"inputText"`
	InputBorder                string  `json:"inputBorder" yaml:"inputBorder"`
	FontFamily                 string  `json:"fontFamily" yaml:"fontFamily"`
	BorderRadius               float64 `json:"borderRadius" yaml:"borderRadius"` // base value in px
	Spacing                    float64 `json:"spacing" yaml:"spacing"`           // base value in px
}

func DefaultCustomThemeOptions() CustomThemeOptions {
	return CustomThemeOptions{
		Name:                       "custom",
		PrimaryColor:               "#6200ee",
		SecondaryColor:             "#03dac6",
		BackgroundColor:            "#f5f5f5",
		SurfaceColor:               "#ffffff",
		TextPrimaryColor:           "#333333",
		TextSecondaryColor:         "#666666",
		MessageUserBackground:      "#e2d8f7",
		MessageUserText:            "#333333",
		MessageAssistantBackground: "#6200ee",
		MessageAssistantText:       "#ffffff",
		InputBackground:            "#ffffff",
		InputText:                  "#333333",
		InputBorder:                "#cccccc",
		FontFamily:                 "system-ui, Segoe UI, Roboto, Helvetica, Arial, sans-serif",
		BorderRadius:               8,
		Spacing:                    8,
	}
}

// NewCustomThemeName returns the builder's default name for a fresh draft.
func NewCustomThemeName(now time.Time) string {
	return "custom-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// ColorFields maps the option's editable colour field names to pointers so
// callers can set them by name.
func (o *CustomThemeOptions) ColorFields() map[string]*string {
	return map[string]*string{
		"primaryColor":               &o.PrimaryColor,
		"secondaryColor":             &o.SecondaryColor,
		"backgroundColor":            &o.BackgroundColor,
		"surfaceColor":               &o.SurfaceColor,
		"textPrimaryColor":           &o.TextPrimaryColor,
		"textSecondaryColor":         &o.TextSecondaryColor,
		"messageUserBackground":      &o.MessageUserBackground,
		"messageUserText":            &o.MessageUserText,
		"messageAssistantBackground": &o.MessageAssistantBackground,
		"messageAssistantText":       &o.MessageAssistantText,
		"inputBackground":            &o.InputBackground,
		"inputText":                  &o.InputText,
		"inputBorder":                &o.InputBorder,
	}
}

// Validate applies the builder's form rules. Compilation itself never fails.
func (o CustomThemeOptions) Validate() error {
	trimmedName := strings.TrimSpace(o.Name)
	if trimmedName == "" {
		return fmt.Errorf("name is required")
	}
	if trimmedName != o.Name {
		return fmt.Errorf("name must not have leading or trailing whitespace")
	}
	if len(trimmedName) > maxThemeNameLength {
		return fmt.Errorf("name must be %d characters or fewer", maxThemeNameLength)
	}
	if !themeNameRegex.MatchString(trimmedName) {
		return fmt.Errorf("name may only contain letters, numbers, spaces, hyphens, underscores, and parentheses")
	}

	fields := o.ColorFields()
	for _, name := range sortedKeys(fields) {
		if !IsCSSColor(*fields[name]) {
			return fmt.Errorf("%s must be a CSS colour like #AABBCC", name)
		}
	}
	if strings.TrimSpace(o.FontFamily) == "" {
		return fmt.Errorf("fontFamily is required")
	}
	if o.BorderRadius < minBaseValue || o.BorderRadius > maxBaseValue {
		return fmt.Errorf("borderRadius must be between %d and %d", minBaseValue, maxBaseValue)
	}
	if o.Spacing < minBaseValue || o.Spacing > maxBaseValue {
		return fmt.Errorf("spacing must be between %d and %d", minBaseValue, maxBaseValue)
	}
	return nil
}

// ReadabilityWarnings lists text/background pairs below the AA contrast ratio.
// Pairs with non-hex colours are skipped.
func (o CustomThemeOptions) ReadabilityWarnings() []string {
	pairs := []struct {
		label      string
		text       string
		background string
	}{
		{"text on background", o.TextPrimaryColor, o.BackgroundColor},
		{"text on surface", o.TextPrimaryColor, o.SurfaceColor},
		{"user message", o.MessageUserText, o.MessageUserBackground},
		{"assistant message", o.MessageAssistantText, o.MessageAssistantBackground},
		{"input", o.InputText, o.InputBackground},
	}

	var warnings []string
	for _, pair := range pairs {
		ratio, err := ContrastRatio(pair.text, pair.background)
		if err != nil {
			continue
		}
		if ratio < wcagAAMinContrastRatio {
			warnings = append(warnings, fmt.Sprintf(
				"%s has contrast ratio %.2f, below %.1f",
				pair.label,
				ratio,
				wcagAAMinContrastRatio,
			))
		}
	}
	return warnings
}

// ContrastRatio returns the WCAG contrast ratio between two hex colours.
func ContrastRatio(textColor, backgroundColor string) (float64, error) {
	textL, err := relativeLuminance(textColor)
	if err != nil {
		return 0, err
	}
	backgroundL, err := relativeLuminance(backgroundColor)
	if err != nil {
		return 0, err
	}
	lightest := math.Max(textL, backgroundL)
	darkest := math.Min(textL, backgroundL)
	return (lightest + 0.05) / (darkest + 0.05), nil
}

func relativeLuminance(hexColor string) (float64, error) {
	r, g, b, err := parseHexColor(hexColor)
	if err != nil {
		return 0, err
	}

	rl := srgbToLinear(r)
	gl := srgbToLinear(g)
	bl := srgbToLinear(b)

	return 0.2126*rl + 0.7152*gl + 0.0722*bl, nil
}

func parseHexColor(hexColor string) (float64, float64, float64, error) {
	hexColor = strings.TrimSpace(hexColor)
	if !hexColorRegex.MatchString(hexColor) {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %s", hexColor)
	}

	hex := strings.TrimPrefix(hexColor, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 8:
		hex = hex[:6]
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %s", hexColor)
	}

	r := float64((value >> 16) & 0xFF)
	g := float64((value >> 8) & 0xFF)
	b := float64(value & 0xFF)

	return r / 255, g / 255, b / 255, nil
}

func srgbToLinear(value float64) float64 {
	if value <= 0.03928 {
		return value / 12.92
	}
	return math.Pow((value+0.055)/1.055, 2.4)
}

func sortedKeys(m map[string]*string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
