package themes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codr1/agentos-lite/internal/models"
)

func TestListThemes_ReturnsBuiltins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/themes", nil)
	recorder := httptest.NewRecorder()

	HandleThemesList(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	var resp listResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := []string{"light", "dark", "blue", "high-contrast"}
	if len(resp.Themes) != len(want) {
		t.Fatalf("unexpected theme count: %d", len(resp.Themes))
	}
	for i, name := range want {
		if resp.Themes[i].Name != name {
			t.Fatalf("theme %d: got %q, want %q", i, resp.Themes[i].Name, name)
		}
	}
	if resp.Themes[3].DisplayName != "High Contrast" {
		t.Fatalf("unexpected display name: %q", resp.Themes[3].DisplayName)
	}
}

func TestThemeVarsCSS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/themes/dark/vars.css", nil)
	req.SetPathValue("name", "dark")
	recorder := httptest.NewRecorder()

	HandleThemeVarsCSS(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Fatalf("unexpected content type: %q", ct)
	}
	body := recorder.Body.String()
	if !strings.HasPrefix(body, ":root{") || !strings.Contains(body, "--color-background:#1a1a1a;") {
		t.Fatalf("unexpected css: %s", body)
	}
}

func TestThemeVarsCSS_NotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/themes/nope/vars.css", nil)
	req.SetPathValue("name", "nope")
	recorder := httptest.NewRecorder()

	HandleThemeVarsCSS(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestCompileTheme(t *testing.T) {
	payload, err := json.Marshal(map[string]any{
		"name":                  "Ocean",
		"primaryColor":          "#006994",
		"backgroundColor":       "#ffffff",
		"textPrimaryColor":      "#eeeeee",
		"borderRadius":          6,
		"spacing":               4,
		"messageUserBackground": "rgb(10, 20, 30)",
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/themes/compile", strings.NewReader(string(payload)))
	recorder := httptest.NewRecorder()

	HandleThemeCompile(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}
	var resp struct {
		Theme    models.Theme `json:"theme"`
		Warnings []string     `json:"warnings"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Theme.Name != "Ocean" || resp.Theme.Colors.Primary != "#006994" {
		t.Fatalf("unexpected theme: %+v", resp.Theme)
	}
	if resp.Theme.BorderRadius.Small != "3px" || resp.Theme.Spacing.Large != "12px" {
		t.Fatalf("unexpected scaling: %+v %+v", resp.Theme.BorderRadius, resp.Theme.Spacing)
	}
	if resp.Theme.Colors.Secondary != "#03dac6" {
		t.Fatalf("omitted field not defaulted: %q", resp.Theme.Colors.Secondary)
	}
	found := false
	for _, w := range resp.Warnings {
		if strings.HasPrefix(w, "text on background") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected low-contrast warning, got %v", resp.Warnings)
	}
}

func TestCompileTheme_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "bad_colour", body: `{"name":"x","primaryColor":"#12345G"}`, wantMsg: "primaryColor must be a CSS colour"},
		{name: "unknown_keyword", body: `{"name":"x","surfaceColor":"banana"}`, wantMsg: "surfaceColor must be a CSS colour"},
		{name: "builtin_name", body: `{"name":"light"}`, wantMsg: "reserved"},
		{name: "radius_range", body: `{"name":"x","borderRadius":40}`, wantMsg: "borderRadius must be between 0 and 32"},
		{name: "unknown_field", body: `{"name":"x","tertiaryColor":"#fff"}`, wantMsg: "Invalid request body"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/themes/compile", strings.NewReader(test.body))
			recorder := httptest.NewRecorder()

			HandleThemeCompile(recorder, req)

			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("status: %d", recorder.Code)
			}
			if !strings.Contains(recorder.Body.String(), test.wantMsg) {
				t.Fatalf("unexpected error: %s", recorder.Body.String())
			}
		})
	}
}
