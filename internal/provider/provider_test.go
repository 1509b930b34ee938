package provider

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceStream struct {
	fragments []string
	err       error
	closed    bool
}

func (s *sliceStream) Recv() (string, error) {
	if len(s.fragments) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	f := s.fragments[0]
	s.fragments = s.fragments[1:]
	return f, nil
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

type fakeProvider struct {
	stream *sliceStream
}

func (f *fakeProvider) Complete(context.Context, *Request) ([]string, error) { return nil, nil }

func (f *fakeProvider) Stream(context.Context, *Request) (Stream, error) { return f.stream, nil }

func TestStreamCompleteStopsOnHandlerError(t *testing.T) {
	s := &sliceStream{fragments: []string{"a", "b", "c"}}
	stop := errors.New("stop")

	var seen []string
	err := StreamComplete(context.Background(), &fakeProvider{stream: s}, &Request{}, func(fragment string) error {
		seen = append(seen, fragment)
		if fragment == "b" {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.True(t, s.closed)
}

func TestStreamCompletePropagatesStreamError(t *testing.T) {
	broken := &UpstreamError{Op: "stream", Model: "gpt-4", Err: io.ErrUnexpectedEOF}
	s := &sliceStream{fragments: []string{"a"}, err: broken}

	err := StreamComplete(context.Background(), &fakeProvider{stream: s}, &Request{}, func(string) error { return nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.True(t, s.closed)
}

func TestRequestMessages(t *testing.T) {
	req := &Request{Text: "Hello", Model: "gpt-4", Temperature: 0.3}
	assert.Equal(t, []Message{{Role: "user", Content: "Hello"}}, req.Messages())
}

func TestUpstreamErrorMessage(t *testing.T) {
	err := &UpstreamError{Op: "complete", Model: "gpt-4", StatusCode: 401, Err: errors.New("bad key")}
	assert.Equal(t, "complete gpt-4: upstream status 401: bad key", err.Error())
}
