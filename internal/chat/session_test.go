package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/codr1/agentos-lite/internal/agent"
	"github.com/codr1/agentos-lite/internal/agentclient"
)

// blockingQuerier holds every query until release is closed.
type blockingQuerier struct {
	mu      sync.Mutex
	prompts []string
	started chan struct{}
	release chan struct{}
}

func newBlockingQuerier() *blockingQuerier {
	return &blockingQuerier{
		started: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
}

func (q *blockingQuerier) Query(ctx context.Context, prompt string) (string, error) {
	q.mu.Lock()
	q.prompts = append(q.prompts, prompt)
	q.mu.Unlock()
	q.started <- struct{}{}
	<-q.release
	return "reply to " + prompt, nil
}

type failingQuerier struct {
	err error
}

func (q failingQuerier) Query(context.Context, string) (string, error) {
	return "", q.err
}

func TestSendHelloScenario(t *testing.T) {
	session := NewSession(agent.Mock{})

	if !session.Send(context.Background(), "hello") {
		t.Fatalf("Send(hello) = false")
	}
	session.Wait()

	messages := session.Messages()
	if len(messages) != 2 {
		t.Fatalf("Messages() length = %d, want 2", len(messages))
	}
	if messages[0].Role != RoleUser || messages[0].Content != "hello" {
		t.Fatalf("messages[0] = %+v, want user hello", messages[0])
	}
	if messages[1].Role != RoleAssistant || messages[1].Content != "[Mock Response] You said: hello" {
		t.Fatalf("messages[1] = %+v", messages[1])
	}
	if messages[0].ID == "" || messages[0].ID == messages[1].ID {
		t.Fatalf("message IDs = %q, %q; want unique non-empty", messages[0].ID, messages[1].ID)
	}
	if session.Busy() {
		t.Fatalf("Busy() = true after reply")
	}
}

func TestSendRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	session := NewSession(agentclient.New(server.URL))
	session.Send(context.Background(), "hello")
	session.Wait()

	messages := session.Messages()
	last := messages[len(messages)-1]
	if last.Role != RoleAssistant || last.Content != "Error: API 500: boom" {
		t.Fatalf("last message = %+v, want assistant %q", last, "Error: API 500: boom")
	}
	if session.Busy() {
		t.Fatalf("Busy() = true after failure")
	}
}

func TestSendFailureBecomesMessage(t *testing.T) {
	session := NewSession(failingQuerier{err: errors.New("unreachable")})
	session.Send(context.Background(), "ping")
	session.Wait()

	messages := session.Messages()
	if len(messages) != 2 || messages[1].Content != "Error: unreachable" {
		t.Fatalf("Messages() = %+v", messages)
	}
}

func TestSendWhileBusyIsDropped(t *testing.T) {
	querier := newBlockingQuerier()
	session := NewSession(querier)
	ctx := context.Background()

	if !session.Send(ctx, "a") {
		t.Fatalf("Send(a) = false")
	}
	if !session.Busy() {
		t.Fatalf("Busy() = false while query in flight")
	}
	if session.Send(ctx, "b") {
		t.Fatalf("Send(b) while busy = true, want dropped")
	}
	<-querier.started
	close(querier.release)
	session.Wait()

	messages := session.Messages()
	if len(messages) != 2 {
		t.Fatalf("Messages() length = %d, want 2", len(messages))
	}
	if messages[0].Content != "a" || messages[1].Content != "reply to a" {
		t.Fatalf("Messages() = %+v", messages)
	}
	if len(querier.prompts) != 1 {
		t.Fatalf("querier saw %v, want only a", querier.prompts)
	}
}

func TestSendIgnoresEmptyPrompt(t *testing.T) {
	session := NewSession(agent.Mock{})
	for _, prompt := range []string{"", "   ", "\n\t"} {
		if session.Send(context.Background(), prompt) {
			t.Fatalf("Send(%q) = true, want ignored", prompt)
		}
	}
	if got := len(session.Messages()); got != 0 {
		t.Fatalf("Messages() length = %d, want 0", got)
	}
}

func TestSendTrimsPrompt(t *testing.T) {
	session := NewSession(agent.Mock{})
	session.Send(context.Background(), "  hi  ")
	session.Wait()

	messages := session.Messages()
	if messages[0].Content != "hi" || messages[1].Content != "[Mock Response] You said: hi" {
		t.Fatalf("Messages() = %+v", messages)
	}
}

func TestSubscribeSeesUserBeforeReply(t *testing.T) {
	session := NewSession(agent.Mock{})

	var mu sync.Mutex
	var lengths []int
	cancel := session.Subscribe(func(messages []Message) {
		mu.Lock()
		defer mu.Unlock()
		lengths = append(lengths, len(messages))
	})

	session.Send(context.Background(), "one")
	session.Wait()
	cancel()
	session.Send(context.Background(), "two")
	session.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(lengths) != 2 || lengths[0] != 1 || lengths[1] != 2 {
		t.Fatalf("subscriber saw lengths %v, want [1 2]", lengths)
	}
}

func TestCloseDropsLateReply(t *testing.T) {
	querier := newBlockingQuerier()
	session := NewSession(querier)

	session.Send(context.Background(), "late")
	<-querier.started
	session.Close()
	close(querier.release)
	session.Wait()

	if got := len(session.Messages()); got != 1 {
		t.Fatalf("Messages() length = %d, want 1 (reply dropped)", got)
	}
	if session.Send(context.Background(), "after close") {
		t.Fatalf("Send() after Close = true")
	}
}

func TestSubscriberNeverSeesOlderSnapshot(t *testing.T) {
	session := NewSession(agent.Mock{})

	var lengths []int
	session.Subscribe(func(messages []Message) {
		lengths = append(lengths, len(messages))
	})

	user := Message{Role: RoleUser, Content: "one"}
	reply := Message{Role: RoleAssistant, Content: "reply"}
	next := Message{Role: RoleUser, Content: "two"}

	// A reply snapshot delivered after the next send's snapshot is stale.
	session.notify([]Message{user})
	session.notify([]Message{user, reply, next})
	session.notify([]Message{user, reply})

	if len(lengths) != 2 || lengths[0] != 1 || lengths[1] != 3 {
		t.Fatalf("subscriber saw lengths %v, want [1 3]", lengths)
	}
}
