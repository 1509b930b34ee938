package server

import (
	"html/template"

	"github.com/gin-gonic/gin"
)

// sseView streams presenter output as server-sent events. Headers are
// written with the first event, so errors raised before that can still
// be answered with a plain JSON status.
type sseView struct {
	c       *gin.Context
	started bool
}

func newSSEView(c *gin.Context) *sseView {
	return &sseView{c: c}
}

func (v *sseView) event(name string, data any) error {
	if !v.started {
		v.started = true
		h := v.c.Writer.Header()
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
	}
	v.c.SSEvent(name, data)
	v.c.Writer.Flush()
	return v.c.Request.Context().Err()
}

func (v *sseView) User(text string) error {
	return v.event("user", gin.H{"text": text})
}

func (v *sseView) Wait() error {
	return v.event("wait", gin.H{})
}

func (v *sseView) Update(content template.HTML) error {
	return v.event("delta", gin.H{"html": content})
}
