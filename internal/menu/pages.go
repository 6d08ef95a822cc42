package menu

import "sync"

type Page int

const (
	PageChat Page = iota
	PageMenuItem
)

// ChatTitle is the header shown while the chat page is active.
const ChatTitle = "AgentOS Lite"

// Pages tracks whether the chat or a menu item page is shown.
type Pages struct {
	mu      sync.RWMutex
	active  Page
	current Item
}

func NewPages() *Pages {
	return &Pages{active: PageChat}
}

func (p *Pages) Active() Page {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.active
}

// Current returns the shown menu item, if a menu item page is active.
func (p *Pages) Current() (Item, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.active == PageMenuItem
}

// Show switches to item's page.
func (p *Pages) Show(item Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = PageMenuItem
	p.current = item
}

func (p *Pages) ReturnToChat() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = PageChat
	p.current = Item{}
}

// Title is the header text for the active page.
func (p *Pages) Title() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.active == PageMenuItem {
		return p.current.Title
	}
	return ChatTitle
}
