package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateString(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		min, max int
		required bool
		wantErr  bool
	}{
		{name: "required empty", value: "", min: 1, max: 5, required: true, wantErr: true},
		{name: "optional empty", value: "", min: 1, max: 5},
		{name: "too short", value: "a", min: 2, max: 5, wantErr: true},
		{name: "too long", value: "abcdef", min: 1, max: 5, wantErr: true},
		{name: "runes not bytes", value: "héllo", min: 1, max: 5},
		{name: "null byte", value: "a\x00b", min: 1, max: 5, wantErr: true},
		{name: "invalid utf8", value: "\xff", min: 1, max: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateString(tt.value, "field", tt.min, tt.max, tt.required)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("wallpaper-settings", "window_id", true))
	assert.NoError(t, ValidateID("sess_01HZX3N8K2Q7", "session_id", true))
	assert.NoError(t, ValidateID("", "window_id", false))
	assert.Error(t, ValidateID("", "window_id", true))
	assert.Error(t, ValidateID("../etc", "window_id", true))
	assert.Error(t, ValidateID(strings.Repeat("a", MaxIDLength+1), "window_id", true))
}

func TestValidateImageRef(t *testing.T) {
	valid := []string{
		"/wallpapers/forest.jpg",
		"https://images.example.com/sky.png",
		"data:image/png;base64,iVBORw0KGgo=",
	}
	for _, ref := range valid {
		assert.NoError(t, ValidateImageRef(ref), ref)
	}

	invalid := []string{
		"",
		"javascript:alert(1)",
		"wallpapers/forest.jpg",
		"/wall papers.jpg",
		"data:text/html;base64,PGI+",
	}
	for _, ref := range invalid {
		assert.Error(t, ValidateImageRef(ref), ref)
	}
}

func TestValidateFields(t *testing.T) {
	assert.Error(t, ValidateName("   ", "name"))
	assert.NoError(t, ValidateName("work layout", "name"))
	assert.NoError(t, ValidateDescription("", "description", false))
	assert.Error(t, ValidateNote(""))
	assert.Error(t, ValidateNote(strings.Repeat("x", MaxNoteLength+1)))
	assert.NoError(t, ValidateTerminalInput(""))
	assert.Error(t, ValidateTerminalInput(strings.Repeat("x", MaxInputLength+1)))
	assert.NoError(t, ValidateTitle(""))
}

func TestValidateSize(t *testing.T) {
	assert.NoError(t, ValidateSize(make([]byte, 10), 10))
	assert.Error(t, ValidateSize(make([]byte, 11), 10))
}
