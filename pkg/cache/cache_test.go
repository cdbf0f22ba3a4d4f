package cache

import (
	"sync"
	"testing"
	"time"
)

func TestTimed(t *testing.T) {
	c := NewTimed(5 * time.Minute)

	tstart := time.Now()

	c.set("key", []byte("value"), tstart)

	_, ok := c.get("key", tstart.Add(time.Minute))
	if !ok {
		t.Errorf("failed to get key that should not be expired")
	}

	_, ok = c.get("key", tstart.Add(10*time.Minute))
	if ok {
		t.Errorf("succeeded in getting expired key")
	}

	_, ok = c.get("key", tstart.Add(time.Minute))
	if ok {
		t.Errorf("succeeded in getting key that was previously evicted")
	}
}

func TestTimedConcurrent(t *testing.T) {
	// Handlers write cache entries from spawned goroutines while other
	// requests read; exercise that under the race detector.
	c := NewTimed(5 * time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Set("key", []byte("value"))
		}()
		go func() {
			defer wg.Done()
			c.Get("key")
		}()
	}
	wg.Wait()

	if got, ok := c.Get("key"); !ok || string(got) != "value" {
		t.Errorf("Get = %q, %t; want value, true", got, ok)
	}
}
