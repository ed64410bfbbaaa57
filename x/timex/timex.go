package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Micros converts a microsecond count to a Duration.
func Micros(us uint32) time.Duration { return time.Duration(us) * time.Microsecond }

// Sleep yields to the scheduler for d.
func Sleep(d time.Duration) { time.Sleep(d) }

// Spin busy-waits for d without yielding. Resolution is that of the
// monotonic clock; on MCUs this keeps short delays off the scheduler.
func Spin(d time.Duration) {
	if d <= 0 {
		return
	}
	start := time.Now()
	for time.Since(start) < d {
	}
}
