package player

import "time"

const (
	// maxWait bounds any single pacing sleep so input and resize events are
	// observed promptly even at very low effective frame rates.
	maxWait = 50 * time.Millisecond

	// catchUpIntervals is how many effective intervals the clock may fall
	// behind before it snaps to "now" instead of racing through the backlog.
	catchUpIntervals = 3
)

// Clock paces frame presentation. It advances by whole effective intervals
// rather than resetting to the presentation time, so rounding and scheduler
// jitter do not accumulate into long-run drift.
type Clock struct {
	interval time.Duration // One source frame at 1x speed.
	last     time.Time     // Scheduled time of the previous presentation.
}

// NewClock creates a clock for a source frame rate. Non-positive rates fall
// back to 25 FPS.
func NewClock(fps float64) *Clock {
	if fps <= 0 {
		fps = 25
	}

	return &Clock{
		interval: time.Duration(float64(time.Second) / fps),
	}
}

// Interval returns the source frame interval at 1x speed.
func (c *Clock) Interval() time.Duration {
	return c.interval
}

// effective returns the display interval at the given speed factor.
func (c *Clock) effective(speed float64) time.Duration {
	if speed <= 0 {
		speed = 1
	}

	return time.Duration(float64(c.interval) / speed)
}

// Reset re-anchors the clock at now. Call it when playback resumes from
// pause, when the speed changes, and on restart, so stored elapsed time does
// not burst out as a run of skipped frames.
func (c *Clock) Reset(now time.Time) {
	c.last = now
}

// Due reports whether the next frame should be presented at now.
func (c *Clock) Due(now time.Time, speed float64) bool {
	if c.last.IsZero() {
		return true
	}

	return now.Sub(c.last) >= c.effective(speed)
}

// Advance records a presentation by moving the schedule forward exactly one
// effective interval. If the consumer has fallen more than a few intervals
// behind, the clock snaps to now instead, trading timing accuracy for
// responsiveness.
func (c *Clock) Advance(now time.Time, speed float64) {
	eff := c.effective(speed)

	if c.last.IsZero() || now.Sub(c.last) > catchUpIntervals*eff {
		c.last = now

		return
	}

	c.last = c.last.Add(eff)
}

// Delay returns how long to wait before the next frame is due, bounded to
// keep event polling responsive. It never returns a negative duration.
func (c *Clock) Delay(now time.Time, speed float64) time.Duration {
	if c.Due(now, speed) {
		return 0
	}

	remaining := c.effective(speed) - now.Sub(c.last)
	if remaining > maxWait {
		return maxWait
	}

	return remaining
}
