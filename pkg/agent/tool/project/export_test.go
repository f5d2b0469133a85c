package project

import "time"

// SetTimeNow replaces the clock used by the project age tool and returns
// a restore function.
func SetTimeNow(fn func() time.Time) func() {
	orig := timeNow
	timeNow = fn
	return func() { timeNow = orig }
}
