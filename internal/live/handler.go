package live

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rpggio/spgallery/internal/catalog"
	"github.com/rpggio/spgallery/internal/embed"
)

// CatalogService is the catalog query surface a view needs.
type CatalogService interface {
	GetProjects(ctx context.Context, opts catalog.Options) ([]catalog.Project, error)
}

const (
	defaultWriteWait = 10 * time.Second
	defaultPongWait  = 60 * time.Second
)

// Config configures the websocket handler. PongWait bounds how long a
// silent browser keeps its view; pings go out at nine tenths of it.
type Config struct {
	TargetOrigin   string
	HeightDebounce time.Duration
	Scheduler      embed.Scheduler
	WriteWait      time.Duration
	PongWait       time.Duration
	Logger         *slog.Logger
}

// Handler upgrades page views to a live channel.
type Handler struct {
	catalog  CatalogService
	cfg      Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
	active   atomic.Int64
}

// NewHandler creates a live channel handler.
func NewHandler(svc CatalogService, cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = defaultWriteWait
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = defaultPongWait
	}
	return &Handler{
		catalog: svc,
		cfg:     cfg,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     sameOrigin,
		},
	}
}

// sameOrigin accepts requests from pages served by this host. The socket
// is opened by the gallery document itself, framed or not.
func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	return strings.HasSuffix(origin, "://"+strings.TrimSpace(r.Host))
}

// Active reports the number of open page views.
func (h *Handler) Active() int {
	return int(h.active.Load())
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	out := deadlineWriter{conn: conn, wait: h.cfg.WriteWait}
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	var hello ClientFrame
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != FrameHello {
		_ = out.WriteJSON(ServerFrame{Type: FrameError, Error: "expected hello frame"})
		return
	}
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))

	projects, err := h.catalog.GetProjects(r.Context(), catalog.Options{
		Category: catalog.ParseCategory(hello.Category),
		Limit:    catalog.ParseLimit(hello.Limit),
	})
	if err != nil {
		h.logger.Error("failed to load projects for live view", "error", err)
		_ = out.WriteJSON(ServerFrame{Type: FrameError, Error: "catalog unavailable"})
		return
	}

	view := NewView(uuid.NewString(), out, projects, ViewConfig{
		Embedded:       hello.Embedded,
		TargetOrigin:   h.cfg.TargetOrigin,
		HeightDebounce: h.cfg.HeightDebounce,
		Scheduler:      h.cfg.Scheduler,
		Logger:         h.logger,
	})
	h.active.Add(1)
	// A dropped socket leaves the view like an unmount: the lightbox is
	// closed and the scroll lock released before the view is forgotten.
	defer func() {
		view.Close()
		h.active.Add(-1)
		h.logger.Debug("live view ended", "view", view.ID())
	}()

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(conn, done)

	h.logger.Debug("live view started", "view", view.ID(), "embedded", hello.Embedded, "projects", len(projects))
	if err := view.Start(hello.Metrics); err != nil {
		return
	}

	for {
		var frame ClientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("live view read ended", "view", view.ID(), "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
		if !view.Handle(frame) {
			return
		}
	}
}

// keepAlive pings the browser until done closes or a ping cannot be sent.
func (h *Handler) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(h.cfg.PongWait * 9 / 10)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.cfg.WriteWait)); err != nil {
				return
			}
		}
	}
}

// deadlineWriter bounds every frame write so a stalled browser cannot
// block the view.
type deadlineWriter struct {
	conn *websocket.Conn
	wait time.Duration
}

func (d deadlineWriter) WriteJSON(v any) error {
	if err := d.conn.SetWriteDeadline(time.Now().Add(d.wait)); err != nil {
		return err
	}
	return d.conn.WriteJSON(v)
}
