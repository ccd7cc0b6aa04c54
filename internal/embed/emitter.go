package embed

import (
	"io"
	"log/slog"
)

// Poster delivers a message to the parent browsing context. It is the only
// point that touches the real window messaging primitive.
type Poster interface {
	Post(msg Message, targetOrigin string) error
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(msg Message, targetOrigin string) error

// Post calls f.
func (f PosterFunc) Post(msg Message, targetOrigin string) error {
	return f(msg, targetOrigin)
}

// Emitter is the typed outbound side of the protocol. Delivery is
// fire-and-forget: failures are logged and dropped.
type Emitter struct {
	poster   Poster
	origin   string
	embedded bool
	logger   *slog.Logger
}

// EmitterConfig configures an Emitter.
type EmitterConfig struct {
	// Embedded is true when the page has a parent browsing context distinct
	// from itself. Lightbox notifications are suppressed otherwise.
	Embedded bool
	// TargetOrigin defaults to AnyOrigin.
	TargetOrigin string
	Logger       *slog.Logger
}

// NewEmitter creates an emitter posting through poster.
func NewEmitter(poster Poster, cfg EmitterConfig) *Emitter {
	origin := cfg.TargetOrigin
	if origin == "" {
		origin = AnyOrigin
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Emitter{poster: poster, origin: origin, embedded: cfg.Embedded, logger: logger}
}

// Embedded reports whether lightbox notifications are active.
func (e *Emitter) Embedded() bool {
	return e.embedded
}

// EmitHeight reports the content height.
func (e *Emitter) EmitHeight(height int) {
	e.post(HeightMessage(height))
}

// EmitLightboxState reports a lightbox open or close edge. No-op when the
// page is not embedded.
func (e *Emitter) EmitLightboxState(open bool) {
	if !e.embedded {
		return
	}
	e.post(LightboxMessage(open))
}

// LightboxVisibilityChanged lets the emitter observe a gallery navigator.
func (e *Emitter) LightboxVisibilityChanged(open bool) {
	e.EmitLightboxState(open)
}

func (e *Emitter) post(msg Message) {
	if err := e.poster.Post(msg, e.origin); err != nil {
		e.logger.Debug("embed message dropped", "type", msg.Type, "error", err)
	}
}
