package live

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rpggio/spgallery/internal/catalog"
	"github.com/rpggio/spgallery/internal/embed"
	"github.com/rpggio/spgallery/internal/gallery"
)

// FrameWriter sends one frame to the browser. *websocket.Conn satisfies it.
type FrameWriter interface {
	WriteJSON(v any) error
}

// ViewConfig configures a page view.
type ViewConfig struct {
	Embedded       bool
	TargetOrigin   string
	HeightDebounce time.Duration
	Scheduler      embed.Scheduler
	Logger         *slog.Logger
}

// View is the server side of one page view: lightbox state, scroll lock and
// the embed protocol, all rendered to the browser as frames.
type View struct {
	id     string
	logger *slog.Logger

	writeMu sync.Mutex
	out     FrameWriter

	mu      sync.Mutex
	nav     *gallery.Navigator
	metrics embed.Metrics
	locked  bool

	emitter *embed.Emitter
	height  *embed.HeightReporter
}

// NewView wires a navigator over projects to an embed emitter posting
// through out.
func NewView(id string, out FrameWriter, projects []catalog.Project, cfg ViewConfig) *View {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	v := &View{id: id, out: out, logger: logger.With("view", id)}

	v.emitter = embed.NewEmitter(embed.PosterFunc(v.post), embed.EmitterConfig{
		Embedded:     cfg.Embedded,
		TargetOrigin: cfg.TargetOrigin,
		Logger:       v.logger,
	})
	v.height = embed.NewHeightReporter(v.emitter, v.currentMetrics, cfg.Scheduler, cfg.HeightDebounce)
	v.nav = gallery.NewNavigator(projects,
		gallery.WithScrollLock(viewLock{v}),
		gallery.WithScroller(viewScroller{v}),
		gallery.WithObserver(v.emitter),
	)
	return v
}

// ID returns the view identifier.
func (v *View) ID() string {
	return v.id
}

// Start greets the browser and sends the initial height report.
func (v *View) Start(initial *embed.Metrics) error {
	v.mu.Lock()
	if initial != nil {
		v.metrics = *initial
	}
	count := len(v.nav.Projects())
	state := stateView(v.nav, v.locked)
	v.mu.Unlock()

	if err := v.send(ServerFrame{Type: FrameHello, View: v.id, Projects: count, State: state}); err != nil {
		return err
	}
	v.height.Start()
	return nil
}

// Handle applies one client frame. It returns false once the browser has
// signalled that the page is going away.
func (v *View) Handle(f ClientFrame) bool {
	if f.Metrics != nil {
		v.mu.Lock()
		v.metrics = *f.Metrics
		v.mu.Unlock()
	}

	switch f.Type {
	case FrameLoad:
		v.height.Loaded()
		return true
	case FrameResize:
		v.height.Resized()
		return true
	case FrameMutation:
		v.height.Mutated()
		return true
	case FrameMeasure:
		return true
	case FrameUnload:
		return false
	}

	v.mu.Lock()
	switch f.Type {
	case FrameOpen:
		v.nav.Open(v.resolveOpen(f))
	case FrameClose:
		v.nav.Close()
	case FrameNext:
		v.nav.Next()
	case FramePrev:
		v.nav.Prev()
	case FrameKey:
		v.nav.HandleKey(f.Key)
	case FrameSwipe:
		v.nav.HandleSwipe(f.DX)
	case FrameBackdrop:
		v.nav.HandleBackdrop()
	default:
		v.mu.Unlock()
		v.logger.Debug("ignoring unknown frame", "type", f.Type)
		_ = v.send(ServerFrame{Type: FrameError, Error: "unknown frame type " + f.Type})
		return true
	}
	state := stateView(v.nav, v.locked)
	v.mu.Unlock()

	_ = v.send(ServerFrame{Type: FrameState, State: state})
	return true
}

// Close releases the view. The lightbox is closed through the normal path
// so the host page is told and the scroll lock is restored.
func (v *View) Close() {
	v.height.Stop()
	v.mu.Lock()
	v.nav.Dispose()
	v.mu.Unlock()
}

// resolveOpen maps an open frame to an index in this view's project list.
// The slug wins over the index when both are sent; unknown slugs resolve
// to -1, which Open ignores.
func (v *View) resolveOpen(f ClientFrame) int {
	if f.Slug == "" {
		return f.Index
	}
	projects := v.nav.Projects()
	if f.Index >= 0 && f.Index < len(projects) && projects[f.Index].Slug == f.Slug {
		return f.Index
	}
	for i, p := range projects {
		if p.Slug == f.Slug {
			return i
		}
	}
	v.logger.Debug("open for unknown project", "slug", f.Slug)
	return -1
}

func (v *View) currentMetrics() embed.Metrics {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.metrics
}

func (v *View) post(msg embed.Message, origin string) error {
	return v.send(ServerFrame{Type: FramePost, Message: &msg, TargetOrigin: origin})
}

func (v *View) send(f ServerFrame) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	return v.out.WriteJSON(f)
}

// viewLock and viewScroller run with v.mu held by Handle or Close.
type viewLock struct{ v *View }

func (l viewLock) Acquire() func() {
	prior := l.v.locked
	l.v.locked = true
	return func() { l.v.locked = prior }
}

type viewScroller struct{ v *View }

func (s viewScroller) ScrollToTop(smooth bool) error {
	return s.v.send(ServerFrame{Type: FrameScroll, Smooth: smooth})
}
