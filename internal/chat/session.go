// Package chat holds the message log of one client session and runs prompts
// against a query backend, one at a time.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ErrorPrefix starts the content of assistant messages that report a failed query.
const ErrorPrefix = "Error: "

type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Querier answers a single prompt.
type Querier interface {
	Query(ctx context.Context, prompt string) (string, error)
}

// Session is an append-only message log with a single-flight send.
type Session struct {
	querier Querier
	newID   func() string
	now     func() time.Time

	mu       sync.Mutex
	messages []Message
	busy     bool
	closed   bool
	subs     map[int]func([]Message)
	nextSub  int

	// notifyMu serialises deliveries; delivered is the log length last sent.
	notifyMu  sync.Mutex
	delivered int

	inflight sync.WaitGroup
}

type Option func(*Session)

// WithClock overrides the message timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the message ID source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewSession(querier Querier, opts ...Option) *Session {
	s := &Session{
		querier: querier,
		newID:   uuid.NewString,
		now:     time.Now,
		subs:    make(map[int]func([]Message)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send appends prompt as a user message and queries it in the background.
// It reports false, and does nothing, when the trimmed prompt is empty, a
// query is already in flight, or the session is closed.
func (s *Session) Send(ctx context.Context, prompt string) bool {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return false
	}

	s.mu.Lock()
	if s.busy || s.closed {
		busy := s.busy
		s.mu.Unlock()
		log.Ctx(ctx).Debug().Bool("busy", busy).Msg("Dropping chat send")
		return false
	}
	s.appendLocked(RoleUser, prompt)
	s.busy = true
	s.inflight.Add(1)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)

	go s.run(context.WithoutCancel(ctx), prompt)
	return true
}

func (s *Session) run(ctx context.Context, prompt string) {
	defer s.inflight.Done()

	reply, err := s.querier.Query(ctx, prompt)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Chat query failed")
		reply = ErrorPrefix + err.Error()
	}

	s.mu.Lock()
	if s.closed {
		s.busy = false
		s.mu.Unlock()
		log.Ctx(ctx).Debug().Msg("Discarding reply for closed chat session")
		return
	}
	s.appendLocked(RoleAssistant, reply)
	s.busy = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
}

func (s *Session) appendLocked(role Role, content string) {
	s.messages = append(s.messages, Message{
		ID:        s.newID(),
		Role:      role,
		Content:   content,
		CreatedAt: s.now(),
	})
}

func (s *Session) snapshotLocked() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Messages returns a copy of the log in send order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Subscribe registers fn to receive the log after every append, oldest
// snapshot first. fn must not call Send. The returned func cancels the
// subscription.
func (s *Session) Subscribe(fn func([]Message)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// notify delivers one snapshot of the log. The log only grows, so a snapshot
// no longer than the last one delivered is stale and skipped.
func (s *Session) notify(messages []Message) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if len(messages) <= s.delivered {
		return
	}
	s.delivered = len(messages)

	s.mu.Lock()
	fns := make([]func([]Message), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(messages)
	}
}

// Wait blocks until the in-flight query, if any, has settled.
func (s *Session) Wait() {
	s.inflight.Wait()
}

// Close stops the session from accepting sends. A reply that arrives after
// Close is dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
