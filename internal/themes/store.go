package themes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/agentos-lite/internal/models"
	"github.com/codr1/agentos-lite/internal/prefs"
)

var (
	ErrEmptyName    = errors.New("theme name is required")
	ErrReservedName = errors.New("theme name is reserved by a built-in theme")
)

// PersistenceParseError reports a stored preference value that could not be decoded.
type PersistenceParseError struct {
	Key string
	Err error
}

func (e *PersistenceParseError) Error() string {
	return fmt.Sprintf("parse persisted %s: %v", e.Key, e.Err)
}

func (e *PersistenceParseError) Unwrap() error {
	return e.Err
}

type customTheme struct {
	options models.CustomThemeOptions
	theme   models.Theme
}

// Store owns the active theme and the custom theme set for one application
// instance. Every active-theme change is presented, persisted and broadcast.
type Store struct {
	prefs       prefs.Store
	presenter   Presenter
	prefersDark func() bool

	mu          sync.RWMutex
	active      models.Theme
	customOrder []string
	custom      map[string]customTheme

	subMu   sync.Mutex
	subs    map[int]func(models.Theme)
	nextSub int
}

type Option func(*Store)

// WithPresenter sets where presentation variables are applied.
func WithPresenter(p Presenter) Option {
	return func(s *Store) {
		if p != nil {
			s.presenter = p
		}
	}
}

// WithPrefersDark sets the environment's light/dark preference signal, used
// when no persisted active theme can be resolved.
func WithPrefersDark(fn func() bool) Option {
	return func(s *Store) {
		if fn != nil {
			s.prefersDark = fn
		}
	}
}

// NewStore builds a Store and loads persisted state from p. Corrupt or
// unreadable preferences are logged and replaced by defaults.
func NewStore(ctx context.Context, p prefs.Store, opts ...Option) *Store {
	s := &Store{
		prefs:       p,
		presenter:   nopPresenter{},
		prefersDark: func() bool { return false },
		custom:      make(map[string]customTheme),
		subs:        make(map[int]func(models.Theme)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCustomLocked(ctx)
	s.activateLocked(ctx, s.initialThemeLocked(ctx))
	return s
}

func (s *Store) loadCustomLocked(ctx context.Context) {
	raw, ok, err := s.prefs.Get(ctx, prefs.KeyCustomThemes)
	if err != nil {
		log.Error().Err(err).Str("key", prefs.KeyCustomThemes).Msg("Failed to read custom themes")
		return
	}
	if !ok {
		return
	}

	entries, err := decodeCustomThemes(raw)
	if err != nil {
		parseErr := &PersistenceParseError{Key: prefs.KeyCustomThemes, Err: err}
		log.Warn().Err(parseErr).Msg("Discarding corrupt custom themes")
		if delErr := s.prefs.Delete(ctx, prefs.KeyCustomThemes); delErr != nil {
			log.Error().Err(delErr).Str("key", prefs.KeyCustomThemes).Msg("Failed to discard corrupt custom themes")
		}
		return
	}

	for _, opts := range entries {
		if err := checkCustomName(opts.Name); err != nil {
			log.Warn().Err(err).Str("theme", opts.Name).Msg("Skipping persisted custom theme")
			continue
		}
		s.putCustomLocked(opts)
	}
}

func (s *Store) initialThemeLocked(ctx context.Context) models.Theme {
	name, ok, err := s.prefs.Get(ctx, prefs.KeyTheme)
	if err != nil {
		log.Error().Err(err).Str("key", prefs.KeyTheme).Msg("Failed to read active theme")
	}
	if ok {
		if theme, found := s.lookupLocked(name); found {
			return theme
		}
		log.Debug().Str("theme", name).Msg("Persisted theme not found, using environment preference")
	}
	if s.prefersDark() {
		return mustBuiltin(Dark)
	}
	return mustBuiltin(Light)
}

// List returns built-in themes in fixed order followed by custom themes in registration order.
func (s *Store) List() []models.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := Builtins()
	for _, name := range s.customOrder {
		list = append(list, s.custom[name].theme)
	}
	return list
}

func (s *Store) Active() models.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *Store) IsCustom(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.custom[name]
	return ok
}

// CustomOptions returns the options a custom theme was compiled from.
func (s *Store) CustomOptions(name string) (models.CustomThemeOptions, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.custom[name]
	return entry.options, ok
}

// SetActive activates the named theme. Unknown names are ignored and report false.
func (s *Store) SetActive(ctx context.Context, name string) bool {
	s.mu.Lock()
	theme, ok := s.lookupLocked(name)
	if !ok {
		s.mu.Unlock()
		log.Debug().Str("theme", name).Msg("Ignoring unknown theme")
		return false
	}
	s.activateLocked(ctx, theme)
	s.mu.Unlock()

	s.broadcast(theme)
	return true
}

// Toggle switches to dark when light is active and to light otherwise.
func (s *Store) Toggle(ctx context.Context) models.Theme {
	s.mu.Lock()
	target := Light
	if s.active.Name == Light {
		target = Dark
	}
	theme := mustBuiltin(target)
	s.activateLocked(ctx, theme)
	s.mu.Unlock()

	s.broadcast(theme)
	return theme
}

// UpsertCustom compiles opts and inserts or overwrites the custom theme of the
// same name, then persists the custom set. Overwriting the active theme
// re-activates the new version.
func (s *Store) UpsertCustom(ctx context.Context, opts models.CustomThemeOptions) (models.Theme, error) {
	if err := checkCustomName(opts.Name); err != nil {
		return models.Theme{}, err
	}

	s.mu.Lock()
	theme := s.putCustomLocked(opts)
	s.persistCustomLocked(ctx)
	wasActive := s.active.Name == theme.Name
	if wasActive {
		s.activateLocked(ctx, theme)
	}
	s.mu.Unlock()

	if wasActive {
		s.broadcast(theme)
	}
	return theme, nil
}

// RemoveCustom deletes a custom theme. Removing the active theme falls back to light.
func (s *Store) RemoveCustom(ctx context.Context, name string) bool {
	s.mu.Lock()
	if _, ok := s.custom[name]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.custom, name)
	for i, n := range s.customOrder {
		if n == name {
			s.customOrder = append(s.customOrder[:i], s.customOrder[i+1:]...)
			break
		}
	}

	wasActive := s.active.Name == name
	var fallback models.Theme
	if wasActive {
		fallback = mustBuiltin(Light)
		s.active = fallback
		s.presentLocked(fallback)
		s.persistLocked(ctx,
			prefs.KV{Key: prefs.KeyCustomThemes, Value: s.encodeCustomLocked()},
			prefs.KV{Key: prefs.KeyTheme, Value: fallback.Name},
		)
	} else {
		s.persistCustomLocked(ctx)
	}
	s.mu.Unlock()

	if wasActive {
		s.broadcast(fallback)
	}
	return true
}

// Subscribe registers fn for active-theme changes and returns its cancel func.
func (s *Store) Subscribe(fn func(models.Theme)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) broadcast(theme models.Theme) {
	s.subMu.Lock()
	fns := make([]func(models.Theme), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(theme)
	}
}

func (s *Store) lookupLocked(name string) (models.Theme, bool) {
	if theme, ok := Builtin(name); ok {
		return theme, true
	}
	entry, ok := s.custom[name]
	return entry.theme, ok
}

func (s *Store) putCustomLocked(opts models.CustomThemeOptions) models.Theme {
	theme := Compile(opts)
	if _, exists := s.custom[opts.Name]; !exists {
		s.customOrder = append(s.customOrder, opts.Name)
	}
	s.custom[opts.Name] = customTheme{options: opts, theme: theme}
	return theme
}

func (s *Store) activateLocked(ctx context.Context, theme models.Theme) {
	s.active = theme
	s.presentLocked(theme)
	s.persistLocked(ctx, prefs.KV{Key: prefs.KeyTheme, Value: theme.Name})
}

func (s *Store) presentLocked(theme models.Theme) {
	if _, ok := s.custom[theme.Name]; ok {
		s.presenter.Apply(theme, Vars(theme))
		return
	}
	s.presenter.Reset(theme)
}

func (s *Store) persistCustomLocked(ctx context.Context) {
	s.persistLocked(ctx, prefs.KV{Key: prefs.KeyCustomThemes, Value: s.encodeCustomLocked()})
}

func (s *Store) persistLocked(ctx context.Context, pairs ...prefs.KV) {
	if err := prefs.SetAll(ctx, s.prefs, pairs...); err != nil {
		log.Error().Err(err).Msg("Failed to persist theme preferences")
	}
}

func (s *Store) encodeCustomLocked() string {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, name := range s.customOrder {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(name)
		value, _ := json.Marshal(s.custom[name].options)
		b.Write(key)
		b.WriteByte(':')
		b.Write(value)
	}
	b.WriteByte('}')
	return b.String()
}

// decodeCustomThemes reads a JSON object of name -> options, keeping key order.
// The object key is authoritative for the theme name.
func decodeCustomThemes(raw string) ([]models.CustomThemeOptions, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))

	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var entries []models.CustomThemeOptions
	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string)

		var opts models.CustomThemeOptions
		if err := decoder.Decode(&opts); err != nil {
			return nil, fmt.Errorf("theme %q: %w", name, err)
		}
		opts.Name = name
		entries = append(entries, opts)
	}
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, fmt.Errorf("unexpected data after custom themes object")
	}
	return entries, nil
}

func checkCustomName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if IsBuiltin(name) {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	return nil
}
