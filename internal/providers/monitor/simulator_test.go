package monitor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplesStayInRange(t *testing.T) {
	s := NewSimulator(0)

	for i := 0; i < 500; i++ {
		m := s.Refresh()
		for _, v := range []int{m.CPU, m.Memory, m.Network} {
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, 100)
		}
		assert.GreaterOrEqual(t, m.Disk, 70)
		assert.Less(t, m.Disk, 90)
	}
}

func TestStartRefreshesUntilClosed(t *testing.T) {
	s := NewSimulator(5 * time.Millisecond)

	var ticks atomic.Int32
	s.Subscribe(func(Metrics) { ticks.Add(1) })

	s.Start()
	s.Start()
	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	s.Close()
	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())

	s.Close()
}

func TestRuntime(t *testing.T) {
	stats := Runtime()
	assert.Positive(t, stats.CPU.Cores)
	assert.Positive(t, stats.Goroutines)
	assert.Positive(t, stats.Memory.System)
}

func TestSubscribeFromListener(t *testing.T) {
	s := NewSimulator(time.Hour)

	late := 0
	subscribed := false
	s.Subscribe(func(Metrics) {
		if !subscribed {
			subscribed = true
			s.Subscribe(func(Metrics) { late++ })
		}
	})

	s.Refresh()
	assert.Zero(t, late)

	s.Refresh()
	assert.Equal(t, 1, late)
}
