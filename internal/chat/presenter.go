// Package chat is the session presenter: Submit handles one user
// submission against a session and Render rebuilds the visible history.
package chat

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gpt-interface/gpt-interface-go/internal/guardrails"
	"github.com/gpt-interface/gpt-interface-go/internal/metrics"
	"github.com/gpt-interface/gpt-interface-go/internal/provider"
	"github.com/gpt-interface/gpt-interface-go/internal/render"
	"github.com/gpt-interface/gpt-interface-go/internal/routing"
	"github.com/gpt-interface/gpt-interface-go/internal/session"
)

// ErrBusy is returned when a session is still streaming a previous answer.
var ErrBusy = errors.New("a response is still streaming")

// View receives the progress of one submission. Update always carries the
// whole answer rendered so far, replacing the previous content.
type View interface {
	User(text string) error
	Wait() error
	Update(content template.HTML) error
}

// Turn is a recorded exchange prepared for display.
type Turn struct {
	User   string        `json:"user"`
	Label  string        `json:"label,omitempty"`
	Output template.HTML `json:"output"`
}

// Page is everything the browser needs to draw the chat.
type Page struct {
	SessionID string           `json:"session_id"`
	Settings  session.Settings `json:"settings"`
	Models    []routing.Model  `json:"models"`
	Turns     []Turn           `json:"turns"`
}

type Presenter struct {
	router   *routing.Router
	guards   *guardrails.Guardrails
	usage    *metrics.Usage
	renderer *render.Renderer
	tracer   trace.Tracer
}

func New(router *routing.Router, guards *guardrails.Guardrails, usage *metrics.Usage) *Presenter {
	return &Presenter{
		router:   router,
		guards:   guards,
		usage:    usage,
		renderer: render.New(),
		tracer:   otel.Tracer("github.com/gpt-interface/gpt-interface-go/internal/chat"),
	}
}

// ValidateSettings checks settings against the model catalog.
func (p *Presenter) ValidateSettings(s session.Settings) error {
	return s.Validate(p.router.Has)
}

// Submit streams one answer into view and records the finished turn.
// Blank input is ignored: ok is false and nothing is sent upstream. On
// any error the history is left untouched.
func (p *Presenter) Submit(ctx context.Context, sess *session.Session, input string, view View) (session.Turn, bool, error) {
	if guardrails.Blank(input) {
		return session.Turn{}, false, nil
	}
	if err := p.guards.CheckInput(input); err != nil {
		return session.Turn{}, false, err
	}
	end, ok := sess.TryBegin()
	if !ok {
		return session.Turn{}, false, ErrBusy
	}
	defer end()

	settings := sess.Settings()
	prov, err := p.router.ProviderFor(settings.Model)
	if err != nil {
		return session.Turn{}, false, err
	}

	ctx, span := p.tracer.Start(ctx, "chat.submit", trace.WithAttributes(
		attribute.String("session.id", sess.ID()),
		attribute.String("llm.model", settings.Model),
		attribute.Int("session.turns", sess.Len()),
	))
	defer span.End()

	if err := view.User(input); err != nil {
		return session.Turn{}, false, err
	}
	if err := view.Wait(); err != nil {
		return session.Turn{}, false, err
	}

	var prefix string
	if settings.ShowModel {
		prefix = settings.Model + ":  \n"
	}

	var output strings.Builder
	fragments := 0
	p.usage.AddRequest(settings.Model)
	req := &provider.Request{Text: input, Model: settings.Model, Temperature: settings.Temperature}
	err = provider.StreamComplete(ctx, prov, req, func(fragment string) error {
		fragments++
		output.WriteString(render.Escape(fragment))
		p.usage.AddFragment(settings.Model)
		return view.Update(p.renderer.HTML(prefix + output.String()))
	})
	if err != nil {
		p.usage.AddError(settings.Model)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "completion failed", "session", sess.ID(), "model", settings.Model, "error", err)
		return session.Turn{}, false, err
	}
	// the wait indicator must not outlive an answer with no content
	if fragments == 0 {
		if err := view.Update(p.renderer.HTML(prefix)); err != nil {
			return session.Turn{}, false, err
		}
	}

	turn := session.Turn{UserInput: input, ModelOutput: output.String(), ModelID: settings.Model}
	sess.Append(turn)
	p.usage.AddTurn(settings.Model)
	slog.DebugContext(ctx, "turn recorded", "session", sess.ID(), "model", settings.Model, "turns", sess.Len())
	return turn, true, nil
}

// Render replays the recorded turns in order. The model label follows the
// current show-model setting; the label stored with each turn is the model
// active when it was created.
func (p *Presenter) Render(sess *session.Session) Page {
	settings := sess.Settings()
	turns := sess.Turns()
	page := Page{
		SessionID: sess.ID(),
		Settings:  settings,
		Models:    p.router.Models(),
		Turns:     make([]Turn, 0, len(turns)),
	}
	for _, t := range turns {
		rt := Turn{User: t.UserInput, Output: p.renderer.HTML(t.ModelOutput)}
		if settings.ShowModel {
			rt.Label = t.ModelID + ":"
		}
		page.Turns = append(page.Turns, rt)
	}
	return page
}
