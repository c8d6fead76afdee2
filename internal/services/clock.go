package services

import "time"

// Clock returns the current time. Services take one so derived fields and
// analytics windows can be pinned in tests.
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }
