package themes

import (
	"reflect"
	"testing"

	"github.com/codr1/agentos-lite/internal/models"
)

func TestCompileMapsEveryField(t *testing.T) {
	opts := models.CustomThemeOptions{
		Name:                       "custom-ocean",
		PrimaryColor:               "#010101",
		SecondaryColor:             "#020202",
		BackgroundColor:            "#030303",
		SurfaceColor:               "#040404",
		TextPrimaryColor:           "#050505",
		TextSecondaryColor:         "#060606",
		MessageUserBackground:      "#070707",
		MessageUserText:            "#080808",
		MessageAssistantBackground: "#090909",
		MessageAssistantText:       "#0a0a0a",
		InputBackground:            "#0b0b0b",
		InputText:                  "#0c0c0c",
		InputBorder:                "#0d0d0d",
		FontFamily:                 "Inter, sans-serif",
		BorderRadius:               10,
		Spacing:                    6,
	}

	theme := Compile(opts)

	checks := []struct {
		field string
		got   string
		want  string
	}{
		{"name", theme.Name, opts.Name},
		{"colors.primary", theme.Colors.Primary, opts.PrimaryColor},
		{"colors.secondary", theme.Colors.Secondary, opts.SecondaryColor},
		{"colors.background", theme.Colors.Background, opts.BackgroundColor},
		{"colors.surface", theme.Colors.Surface, opts.SurfaceColor},
		{"colors.text.primary", theme.Colors.Text.Primary, opts.TextPrimaryColor},
		{"colors.text.secondary", theme.Colors.Text.Secondary, opts.TextSecondaryColor},
		{"colors.message.user.background", theme.Colors.Message.User.Background, opts.MessageUserBackground},
		{"colors.message.user.text", theme.Colors.Message.User.Text, opts.MessageUserText},
		{"colors.message.assistant.background", theme.Colors.Message.Assistant.Background, opts.MessageAssistantBackground},
		{"colors.message.assistant.text", theme.Colors.Message.Assistant.Text, opts.MessageAssistantText},
		{"colors.input.background", theme.Colors.Input.Background, opts.InputBackground},
		{"colors.input.text", theme.Colors.Input.Text, opts.InputText},
		{"colors.input.border", theme.Colors.Input.Border, opts.InputBorder},
		{"typography.fontFamily", theme.Typography.FontFamily, opts.FontFamily},
		{"typography.fontSize.small", theme.Typography.FontSize.Small, "0.875rem"},
		{"typography.fontSize.xlarge", theme.Typography.FontSize.XLarge, "1.5rem"},
		{"spacing.small", theme.Spacing.Small, "6px"},
		{"spacing.medium", theme.Spacing.Medium, "12px"},
		{"spacing.large", theme.Spacing.Large, "18px"},
		{"borderRadius.small", theme.BorderRadius.Small, "5px"},
		{"borderRadius.medium", theme.BorderRadius.Medium, "10px"},
		{"borderRadius.large", theme.BorderRadius.Large, "15px"},
		{"shadows.medium", theme.Shadows.Medium, "0 2px 4px rgba(0, 0, 0, 0.1)"},
	}
	for _, check := range checks {
		if check.got != check.want {
			t.Errorf("Compile().%s = %q, want %q", check.field, check.got, check.want)
		}
	}
}

func TestCompileScaling(t *testing.T) {
	tests := []struct {
		name        string
		radius      float64
		spacing     float64
		wantRadius  models.Scale
		wantSpacing models.Scale
	}{
		{
			name:        "defaults",
			radius:      8,
			spacing:     8,
			wantRadius:  models.Scale{Small: "4px", Medium: "8px", Large: "12px"},
			wantSpacing: models.Scale{Small: "8px", Medium: "16px", Large: "24px"},
		},
		{
			name:        "odd_radius",
			radius:      5,
			spacing:     3,
			wantRadius:  models.Scale{Small: "2.5px", Medium: "5px", Large: "7.5px"},
			wantSpacing: models.Scale{Small: "3px", Medium: "6px", Large: "9px"},
		},
		{
			name:        "zero",
			radius:      0,
			spacing:     0,
			wantRadius:  models.Scale{Small: "0px", Medium: "0px", Large: "0px"},
			wantSpacing: models.Scale{Small: "0px", Medium: "0px", Large: "0px"},
		},
		{
			name:        "out_of_range_not_clamped",
			radius:      100,
			spacing:     50,
			wantRadius:  models.Scale{Small: "50px", Medium: "100px", Large: "150px"},
			wantSpacing: models.Scale{Small: "50px", Medium: "100px", Large: "150px"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			opts := models.DefaultCustomThemeOptions()
			opts.BorderRadius = test.radius
			opts.Spacing = test.spacing

			theme := Compile(opts)
			if theme.BorderRadius != test.wantRadius {
				t.Fatalf("Compile().BorderRadius = %+v, want %+v", theme.BorderRadius, test.wantRadius)
			}
			if theme.Spacing != test.wantSpacing {
				t.Fatalf("Compile().Spacing = %+v, want %+v", theme.Spacing, test.wantSpacing)
			}
		})
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	opts := models.DefaultCustomThemeOptions()
	before := opts

	first := Compile(opts)
	second := Compile(opts)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Compile() not deterministic:\n%+v\n%+v", first, second)
	}
	if opts != before {
		t.Fatalf("Compile() mutated its input")
	}
}
