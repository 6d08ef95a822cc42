package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/codr1/agentos-lite/internal/prefs"
)

// Descriptor describes a provider the user can pick in the AI Provider page.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

const (
	ProviderMock      = "mock"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var catalogue = []Descriptor{
	{ID: ProviderMock, Name: "Mock Provider", Description: "A mock AI provider for testing", Icon: "🤖"},
	{ID: ProviderOpenAI, Name: "OpenAI", Description: "ChatGPT and other OpenAI models", Icon: "🧠"},
	{ID: ProviderAnthropic, Name: "Anthropic", Description: "Claude and other Anthropic models", Icon: "🌟"},
}

// Catalogue returns the selectable providers; the first entry is the default.
func Catalogue() []Descriptor {
	out := make([]Descriptor, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup finds a provider descriptor by ID.
func Lookup(id string) (Descriptor, bool) {
	for _, d := range catalogue {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Selection is the persisted provider choice.
type Selection struct {
	Provider Descriptor
	APIKey   string
}

// HasAPIKey reports whether a key is stored, without exposing it.
func (s Selection) HasAPIKey() bool {
	return s.APIKey != ""
}

// LoadSelection reads the persisted provider choice. Unset or unknown
// providers resolve to the first catalogue entry.
func LoadSelection(ctx context.Context, store prefs.Store) (Selection, error) {
	sel := Selection{Provider: catalogue[0]}

	id, ok, err := store.Get(ctx, prefs.KeyAIProvider)
	if err != nil {
		return sel, fmt.Errorf("read %s: %w", prefs.KeyAIProvider, err)
	}
	if ok {
		if d, found := Lookup(id); found {
			sel.Provider = d
		}
	}

	key, ok, err := store.Get(ctx, prefs.KeyAIProviderAPIKey)
	if err != nil {
		return sel, fmt.Errorf("read %s: %w", prefs.KeyAIProviderAPIKey, err)
	}
	if ok {
		sel.APIKey = key
	}
	return sel, nil
}

// SaveProvider persists the selected provider ID.
func SaveProvider(ctx context.Context, store prefs.Store, id string) (Descriptor, error) {
	d, ok := Lookup(id)
	if !ok {
		return Descriptor{}, fmt.Errorf("unknown provider %q", id)
	}
	if err := store.Set(ctx, prefs.KeyAIProvider, d.ID); err != nil {
		return Descriptor{}, fmt.Errorf("save provider: %w", err)
	}
	return d, nil
}

// SaveAPIKey persists the provider API key. An empty key is not written.
func SaveAPIKey(ctx context.Context, store prefs.Store, key string) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, nil
	}
	if err := store.Set(ctx, prefs.KeyAIProviderAPIKey, key); err != nil {
		return false, fmt.Errorf("save api key: %w", err)
	}
	return true, nil
}
