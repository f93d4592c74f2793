package window

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/types"
)

func openN(s *Store, ids ...string) {
	for _, id := range ids {
		s.Open(Spec{ID: id, Title: id, Content: ContentRef(id)})
	}
}

func activeIDs(windows []Window) []string {
	var ids []string
	for _, w := range windows {
		if w.IsActive {
			ids = append(ids, w.ID)
		}
	}
	return ids
}

func TestOpenDistinctIDsKeepsSingleActiveOnTop(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d windows", n), func(t *testing.T) {
			s := NewStore()
			for i := 0; i < n; i++ {
				openN(s, fmt.Sprintf("w%d", i))
			}

			windows := s.List()
			require.Len(t, windows, n)
			assert.Equal(t, []string{windows[n-1].ID}, activeIDs(windows))
			assert.Equal(t, fmt.Sprintf("w%d", n-1), windows[n-1].ID)
		})
	}
}

func TestOpenDefaults(t *testing.T) {
	s := NewStore()
	w := s.Open(Spec{ID: "about", Title: "About Me"})

	assert.Equal(t, DefaultPosition, w.Position)
	assert.Equal(t, DefaultSize, w.Size)
	assert.True(t, w.IsActive)
}

func TestOpenExistingOnlyFocuses(t *testing.T) {
	s := NewStore()
	pos := types.Position{X: 100, Y: 80}
	s.Open(Spec{ID: "terminal", Title: "Terminal", Content: "terminal", Position: &pos})
	openN(s, "about", "projects")

	other := types.Position{X: 5, Y: 5}
	w := s.Open(Spec{ID: "terminal", Title: "Changed", Content: "other", Position: &other})

	windows := s.List()
	require.Len(t, windows, 3)
	assert.Equal(t, "terminal", windows[2].ID)
	assert.Equal(t, []string{"terminal"}, activeIDs(windows))
	assert.Equal(t, "Terminal", w.Title)
	assert.Equal(t, ContentRef("terminal"), w.Content)
	assert.Equal(t, pos, w.Position)
}

func TestCloseThenReopenIsFresh(t *testing.T) {
	s := NewStore()
	pos := types.Position{X: 10, Y: 20}
	s.Open(Spec{ID: "gallery", Content: "old", Position: &pos})

	require.True(t, s.Close("gallery"))

	next := types.Position{X: 300, Y: 400}
	w := s.Open(Spec{ID: "gallery", Content: "new", Position: &next})
	assert.Equal(t, ContentRef("new"), w.Content)
	assert.Equal(t, next, w.Position)
	assert.Equal(t, 1, s.Len())
}

func TestCloseDoesNotReactivate(t *testing.T) {
	s := NewStore()
	openN(s, "a", "b", "c")

	require.True(t, s.Close("c"))

	_, ok := s.Active()
	assert.False(t, ok)
	assert.Empty(t, activeIDs(s.List()))
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	s := NewStore()
	openN(s, "a")

	assert.False(t, s.Close("missing"))
	assert.False(t, s.SetActive("missing"))
	assert.False(t, s.UpdatePosition("missing", types.Position{X: 1}))
	assert.False(t, s.UpdateSize("missing", types.Size{Width: 1, Height: 1}))
	assert.Equal(t, 1, s.Len())
}

func TestSetActiveMovesToEnd(t *testing.T) {
	s := NewStore()
	openN(s, "a", "b", "c")

	require.True(t, s.SetActive("a"))

	windows := s.List()
	assert.Equal(t, []string{"b", "c", "a"}, []string{windows[0].ID, windows[1].ID, windows[2].ID})
	assert.Equal(t, []string{"a"}, activeIDs(windows))

	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "a", active.ID)
}

func TestUpdateSizeSkipsIdentical(t *testing.T) {
	s := NewStore()
	openN(s, "a")

	var events []EventKind
	s.Subscribe(func(e Event) { events = append(events, e.Kind) })

	assert.False(t, s.UpdateSize("a", DefaultSize))
	assert.True(t, s.UpdateSize("a", types.Size{Width: 640, Height: 480}))
	assert.Equal(t, []EventKind{EventResized}, events)

	w, _ := s.Get("a")
	assert.Equal(t, types.Size{Width: 640, Height: 480}, w.Size)
}

func TestSetRectEmitsPerChange(t *testing.T) {
	s := NewStore()
	openN(s, "a")

	var events []EventKind
	s.Subscribe(func(e Event) { events = append(events, e.Kind) })

	changed := s.SetRect("a", types.Rect{
		Position: types.Position{X: 0, Y: 0},
		Size:     DefaultSize,
	})
	assert.True(t, changed)
	assert.Equal(t, []EventKind{EventMoved}, events)
}

func TestSubscribeAndCancel(t *testing.T) {
	s := NewStore()

	var got []Event
	cancel := s.Subscribe(func(e Event) { got = append(got, e) })

	openN(s, "a")
	s.Open(Spec{ID: "a"})
	s.UpdatePosition("a", types.Position{X: 7, Y: 9})
	s.Close("a")
	cancel()
	cancel()
	openN(s, "b")

	require.Len(t, got, 4)
	assert.Equal(t, EventOpened, got[0].Kind)
	assert.Equal(t, EventFocused, got[1].Kind)
	assert.Equal(t, EventMoved, got[2].Kind)
	assert.Equal(t, types.Position{X: 7, Y: 9}, got[2].Window.Position)
	assert.Equal(t, EventClosed, got[3].Kind)
}

func TestListReturnsCopies(t *testing.T) {
	s := NewStore()
	openN(s, "a")

	windows := s.List()
	windows[0].Title = "mutated"

	w, _ := s.Get("a")
	assert.Equal(t, "a", w.Title)
}

func TestStats(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Stats().ActiveWindowID)

	openN(s, "a", "b")
	stats := s.Stats()
	assert.Equal(t, 2, stats.TotalWindows)
	require.NotNil(t, stats.ActiveWindowID)
	assert.Equal(t, "b", *stats.ActiveWindowID)
}
