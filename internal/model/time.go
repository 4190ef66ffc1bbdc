package model

import "time"

// NowMillis is the timestamp unit used for createdAt, updatedAt and the
// sync watermark.
func NowMillis() int64 { return time.Now().UnixMilli() }

// NextTimestamp returns nowMs, or prev+1 when the clock has not moved past
// prev, so a local rewrite always reads as newer than the version it replaces.
func NextTimestamp(nowMs, prev int64) int64 {
	if nowMs <= prev {
		return prev + 1
	}
	return nowMs
}
