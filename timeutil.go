package strata

import "time"

// nowMillis returns milliseconds since the Unix epoch, the resolution
// every trailer's Time field is stamped with.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}
