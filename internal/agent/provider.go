// Package agent holds the query providers the backend can answer with and the
// client-side provider selection.
package agent

import (
	"context"
)

// MockReplyPrefix is prepended to every prompt the mock provider echoes.
const MockReplyPrefix = "[Mock Response] You said: "

// Provider answers a single prompt.
type Provider interface {
	Query(ctx context.Context, prompt string) (string, error)
}

// Mock echoes the prompt back with MockReplyPrefix.
type Mock struct{}

func (Mock) Query(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return MockReplyPrefix + prompt, nil
}
