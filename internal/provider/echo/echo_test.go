package echo

import (
	"context"
	"strings"
	"testing"

	"github.com/gpt-interface/gpt-interface-go/internal/provider"
)

func TestStreamConcatenationMatchesComplete(t *testing.T) {
	p := New()
	req := &provider.Request{Text: "hello  there *world*", Model: "gpt-4"}

	full, err := p.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(full) != 1 || full[0] != "Echo: hello  there *world*" {
		t.Fatalf("unexpected completion: %q", full)
	}

	var streamed strings.Builder
	count := 0
	err = provider.StreamComplete(context.Background(), p, req, func(fragment string) error {
		if fragment == "" {
			t.Fatalf("empty fragment emitted")
		}
		count++
		streamed.WriteString(fragment)
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if streamed.String() != full[0] {
		t.Fatalf("expected %q got %q", full[0], streamed.String())
	}
	if count < 2 {
		t.Fatalf("expected several fragments, got %d", count)
	}
}

func TestStreamCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Stream(ctx, &provider.Request{Text: "x"}); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
