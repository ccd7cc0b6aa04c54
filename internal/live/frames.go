package live

import (
	"fmt"

	"github.com/rpggio/spgallery/internal/catalog"
	"github.com/rpggio/spgallery/internal/embed"
	"github.com/rpggio/spgallery/internal/gallery"
)

// Client frame types.
const (
	FrameHello    = "hello"
	FrameOpen     = "open"
	FrameClose    = "close"
	FrameNext     = "next"
	FramePrev     = "prev"
	FrameKey      = "key"
	FrameSwipe    = "swipe"
	FrameBackdrop = "backdrop"
	FrameLoad     = "load"
	FrameResize   = "resize"
	FrameMutation = "mutation"
	FrameMeasure  = "measure"
	FrameUnload   = "unload"
)

// Server frame types.
const (
	FrameState  = "state"
	FramePost   = "post"
	FrameScroll = "scroll"
	FrameError  = "error"
)

// ClientFrame is an input event from the browser.
type ClientFrame struct {
	Type     string         `json:"type"`
	Index    int            `json:"index,omitempty"`
	Slug     string         `json:"slug,omitempty"`
	Key      string         `json:"key,omitempty"`
	DX       float64        `json:"dx,omitempty"`
	Metrics  *embed.Metrics `json:"metrics,omitempty"`
	Embedded bool           `json:"embedded,omitempty"`
	Category string         `json:"category,omitempty"`
	Limit    string         `json:"limit,omitempty"`
}

// ServerFrame is an instruction to the browser. Post frames carry a message
// the browser hands to window.parent.postMessage unchanged.
type ServerFrame struct {
	Type         string         `json:"type"`
	View         string         `json:"view,omitempty"`
	Projects     int            `json:"projects,omitempty"`
	State        *StateView     `json:"state,omitempty"`
	Message      *embed.Message `json:"message,omitempty"`
	TargetOrigin string         `json:"target_origin,omitempty"`
	Smooth       bool           `json:"smooth,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// StateView is what the lightbox needs to render.
type StateView struct {
	gallery.State
	ScrollLocked  bool   `json:"scroll_locked"`
	HasNavigation bool   `json:"has_navigation"`
	Title         string `json:"title,omitempty"`
	Category      string `json:"category,omitempty"`
	Src           string `json:"src,omitempty"`
	Alt           string `json:"alt,omitempty"`
	Position      string `json:"position,omitempty"`
}

func stateView(nav *gallery.Navigator, locked bool) *StateView {
	v := &StateView{State: nav.State(), ScrollLocked: locked, HasNavigation: nav.HasNavigation()}
	p, ok := nav.Active()
	if !ok {
		return v
	}
	src, _ := nav.CurrentImage()
	v.Title = p.Title
	v.Category = p.Category
	v.Src = catalog.AssetURL(src)
	v.Alt = fmt.Sprintf("%s image %d", p.Title, v.Image+1)
	v.Position = fmt.Sprintf("%d / %d", v.Image+1, p.Count)
	return v
}
