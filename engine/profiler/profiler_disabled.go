//go:build !profile

package profiler

import "time"

// Stubbed no-op versions when the "profile" build tag is not set.

type ScopeStat struct {
	Name  string
	Count int
	Total time.Duration
	Max   time.Duration
}

func (s ScopeStat) Mean() time.Duration { return 0 }

func Init(capacity int) {}

func Start(name string) func() { return func() {} }

func Stats() []ScopeStat { return nil }

func Report() {}
