package echo

import (
	"context"
	"io"
	"strings"

	"github.com/gpt-interface/gpt-interface-go/internal/provider"
)

// Provider responds by echoing the user message. It streams the answer
// word by word and needs no network access.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Complete(ctx context.Context, req *provider.Request) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []string{reply(req)}, nil
}

func (p *Provider) Stream(ctx context.Context, req *provider.Request) (provider.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &stream{ctx: ctx, words: strings.SplitAfter(reply(req), " ")}, nil
}

func reply(req *provider.Request) string {
	return "Echo: " + req.Text
}

type stream struct {
	ctx   context.Context
	words []string
}

func (s *stream) Recv() (string, error) {
	for len(s.words) > 0 {
		if err := s.ctx.Err(); err != nil {
			return "", err
		}
		w := s.words[0]
		s.words = s.words[1:]
		if w != "" {
			return w, nil
		}
	}
	return "", io.EOF
}

func (s *stream) Close() error {
	s.words = nil
	return nil
}
