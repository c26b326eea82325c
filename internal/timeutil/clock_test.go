package timeutil

import (
	"sync"
	"testing"
	"time"
)

var start = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}
	before := time.Now()
	now := c.Now()
	if now.Before(before) {
		t.Errorf("Now() = %v, before %v", now, before)
	}
	if c.Since(before) < 0 {
		t.Error("Since() returned a negative duration")
	}
}

func TestMockClock(t *testing.T) {
	c := NewMockClock(start)
	if got := c.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}

	c.Advance(90 * time.Second)
	if got := c.Since(start); got != 90*time.Second {
		t.Errorf("Since() = %v, want 90s", got)
	}

	later := start.Add(time.Hour)
	c.Set(later)
	if got := c.Now(); !got.Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", got, later)
	}
}

func TestMockClock_Step(t *testing.T) {
	c := NewMockClock(start)
	c.SetStep(time.Second)

	first := c.Now()
	second := c.Now()
	if !first.Equal(start.Add(time.Second)) {
		t.Errorf("first Now() = %v, want %v", first, start.Add(time.Second))
	}
	if second.Sub(first) != time.Second {
		t.Errorf("step between calls = %v, want 1s", second.Sub(first))
	}
	if c.Since(second) != 0 {
		t.Error("Since() must not step the clock")
	}
}

func TestMockClock_Concurrent(t *testing.T) {
	c := NewMockClock(start)
	c.SetStep(time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Now()
		}()
	}
	wg.Wait()

	if got := c.Since(start); got != 50*time.Millisecond {
		t.Errorf("Since() = %v, want 50ms", got)
	}
}
