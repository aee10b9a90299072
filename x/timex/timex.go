package timex

import "time"

// NowMs returns Unix milliseconds as int64. On MCU builds time.Now counts
// from boot, so differences of NowMs are uptimes.
func NowMs() int64 { return time.Now().UnixMilli() }
