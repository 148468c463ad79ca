package sorting

import "time"

// MoveEvent records one successful file relocation.
type MoveEvent struct {
	FileName string
	Category string
	Source   string
	Dest     string
	Time     time.Time
}
