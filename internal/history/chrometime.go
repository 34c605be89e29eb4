package history

import "time"

// winEpochUnix is 1601-01-01T00:00:00Z expressed in Unix seconds.
const winEpochUnix int64 = -11644473600

// WinEpoch is the zero point of Chrome's stored timestamps.
var WinEpoch = time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)

// FromChromeTime converts microseconds since WinEpoch to a UTC time.
// The arithmetic goes through Unix seconds because time.Duration cannot hold
// the ~800 years Chrome timestamps may span. Negative input is clamped to
// WinEpoch.
func FromChromeTime(micros int64) time.Time {
	if micros < 0 {
		micros = 0
	}
	sec := micros / 1_000_000
	rem := micros % 1_000_000
	return time.Unix(winEpochUnix+sec, rem*1000).UTC()
}

// ToChromeTime is the inverse of FromChromeTime, truncated to microseconds.
// Times before WinEpoch map to 0.
func ToChromeTime(t time.Time) int64 {
	if t.Before(WinEpoch) {
		return 0
	}
	return (t.Unix()-winEpochUnix)*1_000_000 + int64(t.Nanosecond()/1000)
}
