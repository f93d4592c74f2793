package wallpaper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartsAtDefault(t *testing.T) {
	s := NewStore()
	assert.True(t, s.Current().IsDefault())
	assert.Equal(t, "Mountain Landscape", s.Current().Title)
}

func TestSetAndReset(t *testing.T) {
	s := NewStore()

	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	w := s.Set("/wallpapers/beach.jpg", "Beach")
	assert.Equal(t, Wallpaper{ImageRef: "/wallpapers/beach.jpg", Title: "Beach"}, w)
	assert.Equal(t, w, s.Current())

	s.Reset()
	assert.True(t, s.Current().IsDefault())

	require.Len(t, changes, 2)
	assert.Equal(t, "Wallpaper changed successfully!", changes[0].Message())
	assert.Equal(t, "Wallpaper reset to default", changes[1].Message())
}

func TestSetEmptyTitleUsesPlaceholder(t *testing.T) {
	s := NewStore()
	w := s.Set("data:image/png;base64,AAAA", "  ")
	assert.Equal(t, PlaceholderTitle, w.Title)
}

func TestRestoreIsSilent(t *testing.T) {
	s := NewStore()

	var got Change
	s.Subscribe(func(c Change) { got = c })

	s.Restore(Wallpaper{ImageRef: "/wallpapers/city.jpg"})
	assert.Equal(t, ChangeRestored, got.Kind)
	assert.Empty(t, got.Message())
	assert.Equal(t, PlaceholderTitle, s.Current().Title)

	s.Restore(Wallpaper{Title: "stale"})
	assert.True(t, s.Current().IsBuiltin())
	assert.Equal(t, Wallpaper{}, s.Current())
}

func TestBuiltinBackground(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Current().IsBuiltin())

	s.Restore(Wallpaper{})
	require.True(t, s.Current().IsBuiltin())

	data, err := json.Marshal(s.Current())
	require.NoError(t, err)
	assert.JSONEq(t, `{"image_ref": null, "title": null}`, string(data))

	data, err = json.Marshal(Default())
	require.NoError(t, err)
	assert.JSONEq(t, `{"image_ref": "/wallpapers/default-wallpaper.jpg", "title": "Mountain Landscape"}`, string(data))

	var decoded Wallpaper
	require.NoError(t, json.Unmarshal([]byte(`{"image_ref": null, "title": null}`), &decoded))
	assert.True(t, decoded.IsBuiltin())

	// reset always lands on the named default, never the built-in background
	s.Reset()
	assert.True(t, s.Current().IsDefault())
}

func TestSubscribeFromListener(t *testing.T) {
	s := NewStore()

	var late []Change
	subscribed := false
	s.Subscribe(func(Change) {
		if !subscribed {
			subscribed = true
			s.Subscribe(func(c Change) { late = append(late, c) })
		}
	})

	s.Set("/wallpapers/beach.jpg", "Beach")
	assert.Empty(t, late)

	s.Reset()
	require.Len(t, late, 1)
	assert.Equal(t, ChangeReset, late[0].Kind)
}
