package themes

import (
	"strconv"

	"github.com/codr1/agentos-lite/internal/models"
)

var customFontSizes = models.FontSizes{
	Small:  "0.875rem",
	Medium: "1rem",
	Large:  "1.25rem",
	XLarge: "1.5rem",
}

var customShadows = models.Scale{
	Small:  "0 1px 2px rgba(0, 0, 0, 0.1)",
	Medium: "0 2px 4px rgba(0, 0, 0, 0.1)",
	Large:  "0 4px 8px rgba(0, 0, 0, 0.1)",
}

// Compile derives a Theme from builder options. It is pure and never fails;
// numeric bases are used as given, without clamping.
func Compile(opts models.CustomThemeOptions) models.Theme {
	return models.Theme{
		Name: opts.Name,
		Colors: models.Colors{
			Primary:    opts.PrimaryColor,
			Secondary:  opts.SecondaryColor,
			Background: opts.BackgroundColor,
			Surface:    opts.SurfaceColor,
			Text: models.TextColors{
				Primary:   opts.TextPrimaryColor,
				Secondary: opts.TextSecondaryColor,
			},
			Message: models.MessageColors{
				User: models.BubbleColors{
					Background: opts.MessageUserBackground,
					Text:       opts.MessageUserText,
				},
				Assistant: models.BubbleColors{
					Background: opts.MessageAssistantBackground,
					Text:       opts.MessageAssistantText,
				},
			},
			Input: models.InputColors{
				Background: opts.InputBackground,
				Text:       opts.InputText,
				Border:     opts.InputBorder,
			},
		},
		Typography: models.Typography{
			FontFamily: opts.FontFamily,
			FontSize:   customFontSizes,
		},
		Spacing: models.Scale{
			Small:  px(opts.Spacing),
			Medium: px(opts.Spacing * 2),
			Large:  px(opts.Spacing * 3),
		},
		BorderRadius: models.Scale{
			Small:  px(opts.BorderRadius / 2),
			Medium: px(opts.BorderRadius),
			Large:  px(opts.BorderRadius * 1.5),
		},
		Shadows: customShadows,
	}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
