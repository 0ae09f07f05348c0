package persistence

import "time"

// Timestamps are cached as unix milliseconds; zero values round-trip
// as 0 so unset fields stay unset after a reload.

func storedMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixMilli()
}

func storedTime(v int64) time.Time {
	if v <= 0 {
		return time.Time{}
	}

	return time.UnixMilli(v)
}
