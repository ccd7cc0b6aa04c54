// Package gallery holds the lightbox navigation state for one page view.
//
// The navigator is either Closed or Open(project, image). Image navigation
// wraps around; misuse (bad index, next/prev while closed) is a no-op.
package gallery

import (
	"github.com/rpggio/spgallery/internal/catalog"
)

// State is a snapshot of the lightbox.
type State struct {
	Open    bool `json:"open"`
	Project int  `json:"project"`
	Image   int  `json:"image"`
}

// Closed is the state with no active project.
var Closed = State{Project: -1}

// ScrollLock suppresses background page scroll while the lightbox is open.
// Acquire returns the function that restores the previous scroll setting.
type ScrollLock interface {
	Acquire() (release func())
}

// Scroller moves the viewport to the top when a project opens. A smooth
// scroll that fails is retried as an instant scroll.
type Scroller interface {
	ScrollToTop(smooth bool) error
}

// VisibilityObserver is told about every Closed<->Open edge.
type VisibilityObserver interface {
	LightboxVisibilityChanged(open bool)
}

// Navigator drives the lightbox. It is not safe for concurrent use; callers
// serialize input events the way a UI event loop does.
type Navigator struct {
	projects  []catalog.Project
	state     State
	lock      ScrollLock
	release   func()
	scroller  Scroller
	observers []VisibilityObserver
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithScrollLock sets the background scroll lock.
func WithScrollLock(lock ScrollLock) Option {
	return func(n *Navigator) { n.lock = lock }
}

// WithScroller sets the viewport scroller.
func WithScroller(s Scroller) Option {
	return func(n *Navigator) { n.scroller = s }
}

// WithObserver registers a visibility observer.
func WithObserver(o VisibilityObserver) Option {
	return func(n *Navigator) {
		if o != nil {
			n.observers = append(n.observers, o)
		}
	}
}

// NewNavigator creates a closed navigator over projects.
func NewNavigator(projects []catalog.Project, opts ...Option) *Navigator {
	n := &Navigator{projects: projects, state: Closed}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// State returns the current state.
func (n *Navigator) State() State {
	return n.state
}

// Projects returns the project list the navigator indexes into.
func (n *Navigator) Projects() []catalog.Project {
	return n.projects
}

// Active returns the open project, if any.
func (n *Navigator) Active() (catalog.Project, bool) {
	if !n.state.Open {
		return catalog.Project{}, false
	}
	return n.projects[n.state.Project], true
}

// CurrentImage returns the web path of the displayed image.
func (n *Navigator) CurrentImage() (string, bool) {
	p, ok := n.Active()
	if !ok {
		return "", false
	}
	return p.Images[n.state.Image], true
}

// HasNavigation reports whether prev/next controls apply to the open project.
func (n *Navigator) HasNavigation() bool {
	p, ok := n.Active()
	return ok && p.Count > 1
}

// Open shows project i from its first image. Out-of-range indexes are
// ignored and reported as false.
func (n *Navigator) Open(i int) bool {
	if i < 0 || i >= len(n.projects) || len(n.projects[i].Images) == 0 {
		return false
	}
	wasOpen := n.state.Open
	n.state = State{Open: true, Project: i, Image: 0}
	n.scrollToTop()
	if !wasOpen {
		if n.lock != nil {
			n.release = n.lock.Acquire()
		}
		n.notify(true)
	}
	return true
}

// Close returns to Closed and restores background scroll.
func (n *Navigator) Close() {
	if !n.state.Open {
		return
	}
	n.state = Closed
	n.releaseLock()
	n.notify(false)
}

// Next advances to the following image, wrapping to the first.
func (n *Navigator) Next() {
	n.step(1)
}

// Prev goes back one image, wrapping to the last.
func (n *Navigator) Prev() {
	n.step(-1)
}

// Dispose tears the navigator down, closing the lightbox if open. It is
// the unmount path and always releases the scroll lock.
func (n *Navigator) Dispose() {
	defer n.releaseLock()
	n.Close()
}

func (n *Navigator) step(delta int) {
	p, ok := n.Active()
	if !ok {
		return
	}
	count := len(p.Images)
	n.state.Image = ((n.state.Image+delta)%count + count) % count
}

func (n *Navigator) scrollToTop() {
	if n.scroller == nil {
		return
	}
	if err := n.scroller.ScrollToTop(true); err != nil {
		_ = n.scroller.ScrollToTop(false)
	}
}

func (n *Navigator) releaseLock() {
	if n.release != nil {
		release := n.release
		n.release = nil
		release()
	}
}

func (n *Navigator) notify(open bool) {
	for _, o := range n.observers {
		o.LightboxVisibilityChanged(open)
	}
}
