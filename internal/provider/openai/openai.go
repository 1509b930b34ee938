// Package openai implements the completion provider backed by the OpenAI
// chat-completion API.
package openai

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gpt-interface/gpt-interface-go/internal/provider"
)

const tracerName = "github.com/gpt-interface/gpt-interface-go/internal/provider/openai"

// Config holds the connection settings for the OpenAI API.
type Config struct {
	APIKey       string
	BaseURL      string
	Organization string
}

// Provider sends single-turn chat completions to OpenAI.
type Provider struct {
	client *goopenai.Client
	tracer trace.Tracer
}

// New builds a provider. A missing API key is not rejected here; the
// upstream service reports it on the first call.
func New(cfg Config) *Provider {
	clientCfg := goopenai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.BaseURL = strings.TrimRight(base, "/")
	}
	clientCfg.OrgID = cfg.Organization
	return &Provider{
		client: goopenai.NewClientWithConfig(clientCfg),
		tracer: otel.Tracer(tracerName),
	}
}

func (p *Provider) Complete(ctx context.Context, req *provider.Request) ([]string, error) {
	ctx, span := p.startSpan(ctx, "provider.complete", req)
	defer span.End()

	resp, err := p.client.CreateChatCompletion(ctx, chatRequest(req))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, upstreamError("complete", req.Model, err)
	}
	if len(resp.Choices) == 0 {
		err := upstreamError("complete", req.Model, errors.New("response has no choices"))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		out = append(out, choice.Message.Content)
	}
	return out, nil
}

func (p *Provider) Stream(ctx context.Context, req *provider.Request) (provider.Stream, error) {
	ctx, span := p.startSpan(ctx, "provider.stream", req)

	stream, err := p.client.CreateChatCompletionStream(ctx, chatRequest(req))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		return nil, upstreamError("stream", req.Model, err)
	}
	return &chatStream{stream: stream, span: span, model: req.Model}, nil
}

func (p *Provider) startSpan(ctx context.Context, name string, req *provider.Request) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("llm.model", req.Model),
		attribute.Float64("llm.temperature", req.Temperature),
	))
}

type chatStream struct {
	stream    *goopenai.ChatCompletionStream
	span      trace.Span
	model     string
	fragments int
	closed    bool
}

// Recv skips chunks that carry no content.
func (s *chatStream) Recv() (string, error) {
	for {
		chunk, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, err.Error())
			return "", upstreamError("stream", s.model, err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			s.fragments++
			return content, nil
		}
	}
}

func (s *chatStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.span.SetAttributes(attribute.Int("llm.fragments", s.fragments))
	s.span.End()
	s.stream.Close()
	return nil
}

func chatRequest(req *provider.Request) goopenai.ChatCompletionRequest {
	messages := make([]goopenai.ChatCompletionMessage, 0, 1)
	for _, m := range req.Messages() {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return goopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: temperature(req.Temperature),
	}
}

// temperature keeps an explicit zero on the wire; the request field is
// tagged omitempty.
func temperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func upstreamError(op, model string, err error) error {
	ue := &provider.UpstreamError{Op: op, Model: model, Err: err}
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		ue.StatusCode = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		ue.StatusCode = reqErr.HTTPStatusCode
	}
	return ue
}
