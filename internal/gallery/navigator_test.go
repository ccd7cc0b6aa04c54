package gallery_test

import (
	"errors"
	"testing"

	"github.com/rpggio/spgallery/internal/catalog"
	"github.com/rpggio/spgallery/internal/gallery"
	"github.com/stretchr/testify/require"
)

func projectWith(t *testing.T, title string, count int) catalog.Project {
	t.Helper()
	images := make([]string, count)
	for i := range images {
		images[i] = "/Civil/" + title + "/" + string(rune('a'+i)) + ".jpg"
	}
	p, ok := catalog.NewProject(catalog.Slugify(title), title, "Civil", images)
	require.True(t, ok)
	return p
}

type recordingObserver struct {
	events []bool
}

func (r *recordingObserver) LightboxVisibilityChanged(open bool) {
	r.events = append(r.events, open)
}

type fakeScroller struct {
	smoothErr error
	calls     []bool
}

func (f *fakeScroller) ScrollToTop(smooth bool) error {
	f.calls = append(f.calls, smooth)
	if smooth {
		return f.smoothErr
	}
	return nil
}

func open(p, i int) gallery.State {
	return gallery.State{Open: true, Project: p, Image: i}
}

func TestNavigator_OpenCloseCycle(t *testing.T) {
	obs := &recordingObserver{}
	nav := gallery.NewNavigator([]catalog.Project{projectWith(t, "Bridge Repair", 2)}, gallery.WithObserver(obs))

	require.Equal(t, gallery.Closed, nav.State())
	require.True(t, nav.Open(0))
	require.Equal(t, open(0, 0), nav.State())
	nav.Next()
	require.Equal(t, open(0, 1), nav.State())
	nav.Next()
	require.Equal(t, open(0, 0), nav.State())
	nav.Close()
	require.Equal(t, gallery.Closed, nav.State())

	require.Equal(t, []bool{true, false}, obs.events)
}

func TestNavigator_Wraparound(t *testing.T) {
	nav := gallery.NewNavigator([]catalog.Project{projectWith(t, "Three", 3)})
	require.True(t, nav.Open(0))

	nav.Next()
	nav.Next()
	nav.Next()
	require.Equal(t, 0, nav.State().Image)

	nav.Prev()
	require.Equal(t, 2, nav.State().Image)

	img, ok := nav.CurrentImage()
	require.True(t, ok)
	require.Equal(t, "/Civil/Three/c.jpg", img)
}

func TestNavigator_SingleImageStaysPut(t *testing.T) {
	nav := gallery.NewNavigator([]catalog.Project{projectWith(t, "Solo", 1)})
	require.True(t, nav.Open(0))
	require.False(t, nav.HasNavigation())
	nav.Next()
	nav.Prev()
	require.Equal(t, open(0, 0), nav.State())
}

func TestNavigator_MisuseIsNoop(t *testing.T) {
	obs := &recordingObserver{}
	nav := gallery.NewNavigator([]catalog.Project{projectWith(t, "A", 2)}, gallery.WithObserver(obs))

	nav.Next()
	nav.Prev()
	nav.Close()
	require.Equal(t, gallery.Closed, nav.State())

	require.False(t, nav.Open(-1))
	require.False(t, nav.Open(1))
	require.Equal(t, gallery.Closed, nav.State())
	require.Empty(t, obs.events)

	_, ok := nav.Active()
	require.False(t, ok)
}

func TestNavigator_SwitchingProjectsResetsImage(t *testing.T) {
	obs := &recordingObserver{}
	nav := gallery.NewNavigator([]catalog.Project{
		projectWith(t, "A", 3),
		projectWith(t, "B", 2),
	}, gallery.WithObserver(obs))

	require.True(t, nav.Open(0))
	nav.Next()
	require.True(t, nav.Open(1))
	require.Equal(t, open(1, 0), nav.State())
	require.Equal(t, []bool{true}, obs.events)
}

func TestNavigator_ScrollLockReleasedOnEveryExit(t *testing.T) {
	lock := &gallery.OverflowLock{Overflow: "auto"}
	nav := gallery.NewNavigator([]catalog.Project{projectWith(t, "A", 2)}, gallery.WithScrollLock(lock))

	require.True(t, nav.Open(0))
	require.Equal(t, "hidden", lock.Overflow)
	nav.Close()
	require.Equal(t, "auto", lock.Overflow)

	require.True(t, nav.Open(0))
	require.True(t, nav.HandleKey(gallery.KeyEscape))
	require.Equal(t, "auto", lock.Overflow)

	require.True(t, nav.Open(0))
	nav.Dispose()
	require.Equal(t, "auto", lock.Overflow)
	require.Equal(t, gallery.Closed, nav.State())
}

func TestNavigator_ScrollFallback(t *testing.T) {
	scroller := &fakeScroller{smoothErr: errors.New("unsupported")}
	nav := gallery.NewNavigator([]catalog.Project{projectWith(t, "A", 2)}, gallery.WithScroller(scroller))

	require.True(t, nav.Open(0))
	require.Equal(t, []bool{true, false}, scroller.calls)

	scroller.smoothErr = nil
	scroller.calls = nil
	nav.Close()
	require.True(t, nav.Open(0))
	require.Equal(t, []bool{true}, scroller.calls)
}

func TestNavigator_Keys(t *testing.T) {
	nav := gallery.NewNavigator([]catalog.Project{projectWith(t, "A", 3)})

	require.False(t, nav.HandleKey(gallery.KeyNext), "keys ignored while closed")
	require.True(t, nav.Open(0))
	require.True(t, nav.HandleKey(gallery.KeyNext))
	require.Equal(t, 1, nav.State().Image)
	require.True(t, nav.HandleKey(gallery.KeyPrev))
	require.True(t, nav.HandleKey(gallery.KeyPrev))
	require.Equal(t, 2, nav.State().Image)
	require.False(t, nav.HandleKey("Enter"))
	require.True(t, nav.HandleKey(gallery.KeyEscape))
	require.False(t, nav.State().Open)
}

func TestNavigator_Swipe(t *testing.T) {
	nav := gallery.NewNavigator([]catalog.Project{projectWith(t, "A", 3)})
	require.True(t, nav.Open(0))

	require.False(t, nav.HandleSwipe(-50))
	require.Equal(t, 0, nav.State().Image)

	require.True(t, nav.HandleSwipe(-51))
	require.Equal(t, 1, nav.State().Image)

	require.True(t, nav.HandleSwipe(80))
	require.Equal(t, 0, nav.State().Image)

	var tracker gallery.SwipeTracker
	_, ok := tracker.End(10)
	require.False(t, ok)
	tracker.Start(300)
	dx, ok := tracker.End(200)
	require.True(t, ok)
	require.Equal(t, -100.0, dx)
	require.True(t, nav.HandleSwipe(dx))
	require.Equal(t, 1, nav.State().Image)
}

func TestNavigator_Backdrop(t *testing.T) {
	obs := &recordingObserver{}
	nav := gallery.NewNavigator([]catalog.Project{projectWith(t, "A", 2)}, gallery.WithObserver(obs))
	require.True(t, nav.Open(0))
	nav.HandleBackdrop()
	nav.HandleBackdrop()
	require.Equal(t, []bool{true, false}, obs.events)
}
