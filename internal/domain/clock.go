package domain

import "github.com/jonboulle/clockwork"

// clock is the package time source used to stamp run manifests. Production
// code uses the real clock; tests inject a fake via SetClock for
// deterministic manifest output.
var clock = clockwork.NewRealClock()

// SetClock swaps the manifest time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
