package helpers

import (
	"fmt"
	"runtime"
	"time"
)

// GoroutineSnapshot captures the goroutine count at a point in time.
type GoroutineSnapshot struct {
	Count     int
	Timestamp time.Time
}

// TakeGoroutineSnapshot captures the current goroutine count.
func TakeGoroutineSnapshot() *GoroutineSnapshot {
	return &GoroutineSnapshot{
		Count:     runtime.NumGoroutine(),
		Timestamp: time.Now(),
	}
}

// WaitForGoroutineCleanup polls until at most before.Count+tolerance
// goroutines remain, or maxWait passes.
func WaitForGoroutineCleanup(before *GoroutineSnapshot, tolerance int, maxWait time.Duration) error {
	deadline := time.Now().Add(maxWait)
	for {
		current := runtime.NumGoroutine()
		if current-before.Count <= tolerance {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("goroutine leak detected: started with %d, ended with %d (tolerance %d)",
				before.Count, current, tolerance)
		}
		runtime.GC()
		time.Sleep(50 * time.Millisecond)
	}
}
