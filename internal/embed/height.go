package embed

import (
	"sync"
	"time"
)

// DefaultHeightDebounce is the quiet period before a height report.
const DefaultHeightDebounce = 50 * time.Millisecond

// HeightReporter keeps the host informed of the embedded document height.
// Load, resize and mutation signals are debounced; Start reports once
// immediately.
type HeightReporter struct {
	emitter  *Emitter
	measure  func() Metrics
	debounce *Debouncer
	once     sync.Once
}

// NewHeightReporter creates a reporter. measure is called at flush time so
// the report reflects the final state after a burst.
func NewHeightReporter(emitter *Emitter, measure func() Metrics, sched Scheduler, delay time.Duration) *HeightReporter {
	if delay <= 0 {
		delay = DefaultHeightDebounce
	}
	r := &HeightReporter{emitter: emitter, measure: measure}
	r.debounce = NewDebouncer(sched, delay, r.report)
	return r
}

// Start sends the initial, undebounced report. Later calls do nothing.
func (r *HeightReporter) Start() {
	r.once.Do(r.report)
}

// Loaded signals that the page finished loading.
func (r *HeightReporter) Loaded() { r.debounce.Trigger() }

// Resized signals a viewport resize.
func (r *HeightReporter) Resized() { r.debounce.Trigger() }

// Mutated signals a DOM mutation.
func (r *HeightReporter) Mutated() { r.debounce.Trigger() }

// Stop cancels a pending report.
func (r *HeightReporter) Stop() { r.debounce.Stop() }

func (r *HeightReporter) report() {
	r.emitter.EmitHeight(r.measure().Height())
}
