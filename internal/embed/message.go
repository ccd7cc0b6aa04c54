// Package embed implements the messages an embedded gallery sends to the
// page hosting its iframe: content height and lightbox visibility.
//
// Messages are posted with an unrestricted target origin by default. Any
// page that frames the gallery can read them; the payloads carry no data
// beyond what the public gallery already shows.
package embed

// Message type identifiers shared with host pages.
const (
	TypeHeight        = "sp-gallery:height"
	TypeLightboxOpen  = "sp-gallery:lightbox-open"
	TypeLightboxClose = "sp-gallery:lightbox-close"
)

// AnyOrigin is the unrestricted postMessage target.
const AnyOrigin = "*"

// Message is one outbound cross-frame message. Height is only set on
// height messages.
type Message struct {
	Type   string `json:"type"`
	Height *int   `json:"height,omitempty"`
}

// HeightMessage builds a height report.
func HeightMessage(height int) Message {
	return Message{Type: TypeHeight, Height: &height}
}

// LightboxMessage builds an open or close notification.
func LightboxMessage(open bool) Message {
	if open {
		return Message{Type: TypeLightboxOpen}
	}
	return Message{Type: TypeLightboxClose}
}

// Metrics are the document measurements a height report is taken from.
type Metrics struct {
	DocumentScrollHeight int `json:"document_scroll_height"`
	BodyScrollHeight     int `json:"body_scroll_height"`
	InnerHeight          int `json:"inner_height"`
}

// Height is the largest of the three measurements.
func (m Metrics) Height() int {
	return max(m.DocumentScrollHeight, m.BodyScrollHeight, m.InnerHeight)
}
