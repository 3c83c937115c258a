package pilot_userio

import "time"

type Uptime struct {
	Hour uint32 `json:"hour"`
	Min  uint32 `json:"min"`
	Sec  uint32 `json:"sec"`
	Msec uint32 `json:"msec"`
}

type Clock interface {
	Uptime() Uptime
}

// UptimeFromDuration splits d into whole hours and the remaining minutes,
// seconds and milliseconds. Hours do not wrap.
func UptimeFromDuration(d time.Duration) Uptime {
	if d < 0 {
		d = 0
	}
	ms := uint64(d / time.Millisecond)
	return Uptime{
		Hour: uint32(ms / 3_600_000),
		Min:  uint32(ms / 60_000 % 60),
		Sec:  uint32(ms / 1000 % 60),
		Msec: uint32(ms % 1000),
	}
}

// SystemClock counts from the moment it was created.
type SystemClock struct {
	start time.Time
	now   func() time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now(), now: time.Now}
}

func (c *SystemClock) Uptime() Uptime {
	return UptimeFromDuration(c.now().Sub(c.start))
}

// Started reports when the clock began counting.
func (c *SystemClock) Started() time.Time {
	return c.start
}
