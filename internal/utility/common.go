package utility

import "time"

// UnixMilli returns t in milliseconds.
func UnixMilli(t time.Time) int64 {
	return t.UnixMilli()
}

// CurrentTimeInMilli returns now in milliseconds, the timestamp unit of every stored record.
func CurrentTimeInMilli() int64 {
	return UnixMilli(time.Now())
}

// Int64Ptr returns &v.
func Int64Ptr(v int64) *int64 {
	return &v
}
