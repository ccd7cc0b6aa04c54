package embed_test

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rpggio/spgallery/internal/catalog"
	"github.com/rpggio/spgallery/internal/embed"
	"github.com/rpggio/spgallery/internal/gallery"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manual Scheduler. Advance runs due callbacks in order.
type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) embed.Timer {
	t := &fakeTimer{at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		sort.SliceStable(c.timers, func(i, j int) bool { return c.timers[i].at < c.timers[j].at })
		var next *fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && t.at <= target {
				next = t
				break
			}
		}
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		next.fn()
	}
	c.now = target
}

type posted struct {
	msg    embed.Message
	origin string
	at     time.Duration
}

type recorder struct {
	clock *fakeClock
	sent  []posted
}

func (r *recorder) Post(msg embed.Message, origin string) error {
	var at time.Duration
	if r.clock != nil {
		at = r.clock.now
	}
	r.sent = append(r.sent, posted{msg: msg, origin: origin, at: at})
	return nil
}

func (r *recorder) types() []string {
	out := make([]string, len(r.sent))
	for i, p := range r.sent {
		out[i] = p.msg.Type
	}
	return out
}

func TestMessage_Shapes(t *testing.T) {
	data, err := json.Marshal(embed.HeightMessage(640))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"sp-gallery:height","height":640}`, string(data))

	data, err = json.Marshal(embed.LightboxMessage(true))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"sp-gallery:lightbox-open"}`, string(data))

	data, err = json.Marshal(embed.LightboxMessage(false))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"sp-gallery:lightbox-close"}`, string(data))
}

func TestMetrics_HeightIsMax(t *testing.T) {
	require.Equal(t, 900, embed.Metrics{DocumentScrollHeight: 800, BodyScrollHeight: 900, InnerHeight: 700}.Height())
	require.Equal(t, 700, embed.Metrics{DocumentScrollHeight: 10, BodyScrollHeight: 0, InnerHeight: 700}.Height())
}

func TestEmitter_LightboxOnlyWhenEmbedded(t *testing.T) {
	rec := &recorder{}
	top := embed.NewEmitter(rec, embed.EmitterConfig{Embedded: false})
	top.EmitLightboxState(true)
	top.EmitLightboxState(false)
	require.Empty(t, rec.sent)

	framed := embed.NewEmitter(rec, embed.EmitterConfig{Embedded: true})
	framed.EmitLightboxState(true)
	require.Len(t, rec.sent, 1)
	require.Equal(t, embed.AnyOrigin, rec.sent[0].origin)
}

func TestEmitter_PinnedOrigin(t *testing.T) {
	rec := &recorder{}
	e := embed.NewEmitter(rec, embed.EmitterConfig{Embedded: true, TargetOrigin: "https://host.example"})
	e.EmitHeight(10)
	require.Equal(t, "https://host.example", rec.sent[0].origin)
}

func TestEmitter_PostFailureIsDropped(t *testing.T) {
	e := embed.NewEmitter(embed.PosterFunc(func(embed.Message, string) error {
		return errors.New("detached")
	}), embed.EmitterConfig{Embedded: true})
	require.NotPanics(t, func() {
		e.EmitHeight(1)
		e.EmitLightboxState(true)
	})
}

func TestNavigatorDrivesLightboxMessages(t *testing.T) {
	rec := &recorder{}
	emitter := embed.NewEmitter(rec, embed.EmitterConfig{Embedded: true})

	p, ok := catalog.NewProject("civil/bridge-repair", "Bridge Repair", "Civil",
		[]string{"/Civil/Bridge Repair/1.jpg", "/Civil/Bridge Repair/2.jpg"})
	require.True(t, ok)
	nav := gallery.NewNavigator([]catalog.Project{p}, gallery.WithObserver(emitter))

	nav.Open(0)
	nav.Next()
	nav.Next()
	nav.Close()

	require.Equal(t, []string{embed.TypeLightboxOpen, embed.TypeLightboxClose}, rec.types())
}

func TestNavigatorNotEmbeddedIsSilent(t *testing.T) {
	rec := &recorder{}
	emitter := embed.NewEmitter(rec, embed.EmitterConfig{Embedded: false})

	p, ok := catalog.NewProject("a", "A", "C", []string{"/C/A/1.jpg"})
	require.True(t, ok)
	nav := gallery.NewNavigator([]catalog.Project{p}, gallery.WithObserver(emitter))
	nav.Open(0)
	nav.Close()

	require.Empty(t, rec.sent)
}

func TestHeightReporter_DebouncesMutationBurst(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{clock: clock}
	emitter := embed.NewEmitter(rec, embed.EmitterConfig{})

	height := 500
	reporter := embed.NewHeightReporter(emitter, func() embed.Metrics {
		return embed.Metrics{DocumentScrollHeight: height, InnerHeight: 300}
	}, clock, 50*time.Millisecond)

	reporter.Start()
	require.Len(t, rec.sent, 1)
	require.Equal(t, 500, *rec.sent[0].msg.Height)
	require.Equal(t, time.Duration(0), rec.sent[0].at)

	for i := 0; i < 10; i++ {
		clock.Advance(time.Millisecond)
		height += 10
		reporter.Mutated()
	}
	last := clock.now

	clock.Advance(49 * time.Millisecond)
	require.Len(t, rec.sent, 1)

	clock.Advance(time.Millisecond)
	require.Len(t, rec.sent, 2)
	require.Equal(t, last+50*time.Millisecond, rec.sent[1].at)
	require.Equal(t, 600, *rec.sent[1].msg.Height)

	clock.Advance(time.Second)
	require.Len(t, rec.sent, 2)
}

func TestHeightReporter_StartOnce(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{clock: clock}
	reporter := embed.NewHeightReporter(embed.NewEmitter(rec, embed.EmitterConfig{}),
		func() embed.Metrics { return embed.Metrics{InnerHeight: 100} }, clock, 0)

	reporter.Start()
	reporter.Start()
	require.Len(t, rec.sent, 1)
}

func TestHeightReporter_ResizeAndLoadShareDebounce(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{clock: clock}
	reporter := embed.NewHeightReporter(embed.NewEmitter(rec, embed.EmitterConfig{}),
		func() embed.Metrics { return embed.Metrics{InnerHeight: 100} }, clock, 50*time.Millisecond)

	reporter.Loaded()
	clock.Advance(30 * time.Millisecond)
	reporter.Resized()
	clock.Advance(30 * time.Millisecond)
	reporter.Mutated()
	clock.Advance(50 * time.Millisecond)
	require.Len(t, rec.sent, 1)
}

func TestHeightReporter_StopCancelsPending(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{clock: clock}
	reporter := embed.NewHeightReporter(embed.NewEmitter(rec, embed.EmitterConfig{}),
		func() embed.Metrics { return embed.Metrics{InnerHeight: 100} }, clock, 50*time.Millisecond)

	reporter.Mutated()
	reporter.Stop()
	clock.Advance(time.Second)
	require.Empty(t, rec.sent)
}

func TestDebouncer_RealScheduler(t *testing.T) {
	fired := make(chan struct{}, 4)
	d := embed.NewDebouncer(nil, 10*time.Millisecond, func() { fired <- struct{}{} })
	for i := 0; i < 5; i++ {
		d.Trigger()
	}
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never fired")
	}
	select {
	case <-fired:
		t.Fatal("burst fired more than once")
	case <-time.After(50 * time.Millisecond):
	}
}
