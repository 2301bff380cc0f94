package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Since32 returns now - since on a free-running 32-bit counter.
// Unsigned subtraction keeps the result correct across counter wraparound
// as long as the true elapsed span is below 2^32 ticks.
func Since32(now, since uint32) uint32 { return now - since }
