package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	assert.NotEqual(t, gen.Generate(), gen.Generate())
	assert.Len(t, gen.GenerateString(), 26)
}

func TestTypedIDGeneration(t *testing.T) {
	tests := []struct {
		prefix string
		id     string
	}{
		{SessionPrefix, NewSessionID().String()},
		{RequestPrefix, NewRequestID().String()},
		{SnapshotPrefix, NewSnapshotID().String()},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			parts := strings.Split(tt.id, "_")
			require.Len(t, parts, 2)
			assert.Equal(t, tt.prefix, parts[0])
			assert.True(t, IsValid(parts[1]))
			assert.True(t, HasPrefix(tt.id, tt.prefix))
		})
	}
}

func TestHasPrefix(t *testing.T) {
	sid := NewSessionID().String()

	assert.True(t, HasPrefix(sid, SessionPrefix))
	assert.False(t, HasPrefix(sid, SnapshotPrefix))
	assert.False(t, HasPrefix("sess_not-a-ulid", SessionPrefix))
	assert.False(t, HasPrefix("", SessionPrefix))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(NewGenerator().GenerateString()))
	assert.False(t, IsValid("invalid"))
	assert.False(t, IsValid(""))
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	sid := NewSessionID().String()

	ts, err := Timestamp(sid)
	require.NoError(t, err)
	assert.True(t, ts.After(before))
	assert.WithinDuration(t, time.Now(), ts, 2*time.Second)

	_, err = Timestamp("sess_bogus")
	assert.Error(t, err)
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 50
	const idsPerGoroutine = 100

	var wg sync.WaitGroup
	idChan := make(chan string, goroutines*idsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < idsPerGoroutine; j++ {
				idChan <- gen.GenerateString()
			}
		}()
	}

	wg.Wait()
	close(idChan)

	seen := make(map[string]bool)
	for id := range idChan {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*idsPerGoroutine)
}

func TestLexicographicSorting(t *testing.T) {
	gen := NewGenerator()

	ids := make([]string, 20)
	for i := range ids {
		ids[i] = gen.GenerateString()
	}

	// monotonic entropy keeps order within the same millisecond
	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}
}

func TestDefaultGenerator(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.True(t, IsValid(Default().GenerateString()))
}

func BenchmarkGenerateWithPrefix(b *testing.B) {
	gen := NewGenerator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.GenerateWithPrefix(SessionPrefix)
	}
}
