// Package menu keeps the side-menu items and which page the client shows.
package menu

import (
	"sync"
)

// Item is an entry in the side menu. Open renders the item's page body.
type Item struct {
	ID    string
	Title string
	Icon  string
	Open  func() string
}

// Label is the menu line for the item.
func (i Item) Label() string {
	if i.Icon == "" {
		return i.Title
	}
	return i.Icon + " " + i.Title
}

// Registry holds menu items in registration order.
type Registry struct {
	mu    sync.RWMutex
	order []string
	items map[string]Item
	open  bool
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Item)}
}

// Register adds item. An ID that is already registered is left unchanged and
// Register reports false.
func (r *Registry) Register(item Item) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return false
	}
	r.items[item.ID] = item
	r.order = append(r.order, item.ID)
	return true
}

func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return false
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) Get(id string) (Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	return item, ok
}

// Items returns the registered items in registration order.
func (r *Registry) Items() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Item, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out
}

func (r *Registry) OpenMenu() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open = true
}

func (r *Registry) CloseMenu() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open = false
}

func (r *Registry) IsOpen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.open
}
