package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// RoleUser is the only role this client ever sends.
const RoleUser = "user"

// ErrUpstream is the base error for every failure reported by a remote
// completion service.
var ErrUpstream = errors.New("upstream error")

// Request is a single-turn completion request.
type Request struct {
	Text        string
	Model       string
	Temperature float64
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Messages builds the one-message payload sent upstream.
func (r *Request) Messages() []Message {
	return []Message{{Role: RoleUser, Content: r.Text}}
}

// Stream is a pull-based sequence of text fragments. Recv returns io.EOF
// once the remote stream has closed. A Stream cannot be restarted.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Provider handles completion calls against one backend.
type Provider interface {
	// Complete returns every candidate completion, in choice order.
	Complete(ctx context.Context, req *Request) ([]string, error)
	// Stream issues the same request with streaming enabled.
	Stream(ctx context.Context, req *Request) (Stream, error)
}

// FragmentHandler receives each fragment of a streamed completion.
type FragmentHandler func(fragment string) error

// StreamComplete opens a stream and feeds every fragment to handle, in
// arrival order, until the remote stream closes.
func StreamComplete(ctx context.Context, p Provider, req *Request, handle FragmentHandler) error {
	stream, err := p.Stream(ctx, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := handle(fragment); err != nil {
			return err
		}
	}
}

// UpstreamError provides context for a failed remote call.
// Use errors.As to extract it from a wrapped error chain.
type UpstreamError struct {
	Op         string
	Model      string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: upstream status %d: %v", e.Op, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Model, e.Err)
}

func (e *UpstreamError) Unwrap() []error { return []error{ErrUpstream, e.Err} }
