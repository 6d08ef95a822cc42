// internal/api/themes/handlers.go
package themes

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/agentos-lite/internal/api/apiutil"
	"github.com/codr1/agentos-lite/internal/models"
	themecore "github.com/codr1/agentos-lite/internal/themes"
)

const themeNameParam = "name"

type themeSummary struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Theme       models.Theme `json:"theme"`
}

type listResponse struct {
	Themes []themeSummary `json:"themes"`
}

type compileResponse struct {
	Theme    models.Theme `json:"theme"`
	Warnings []string     `json:"warnings"`
}

// GET /api/themes
func HandleThemesList(w http.ResponseWriter, r *http.Request) {
	builtins := themecore.Builtins()
	resp := listResponse{Themes: make([]themeSummary, 0, len(builtins))}
	for _, theme := range builtins {
		resp.Themes = append(resp.Themes, themeSummary{
			Name:        theme.Name,
			DisplayName: themecore.DisplayName(theme.Name),
			Theme:       theme,
		})
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write themes response")
	}
}

// GET /api/themes/{name}/vars.css
func HandleThemeVarsCSS(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue(themeNameParam))
	theme, ok := themecore.Builtin(name)
	if !ok {
		http.Error(w, "Theme not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write([]byte(themecore.CSS(themecore.Vars(theme)))); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("theme", name).Msg("Failed to write theme css")
	}
}

// POST /api/themes/compile
func HandleThemeCompile(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	opts := models.DefaultCustomThemeOptions()
	if err := apiutil.DecodeJSON(r, &opts); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := opts.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if themecore.IsBuiltin(opts.Name) {
		http.Error(w, "name is reserved by a built-in theme", http.StatusBadRequest)
		return
	}

	warnings := opts.ReadabilityWarnings()
	if warnings == nil {
		warnings = []string{}
	}
	resp := compileResponse{
		Theme:    themecore.Compile(opts),
		Warnings: warnings,
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		logger.Error().Err(err).Msg("Failed to write compiled theme")
	}
}
