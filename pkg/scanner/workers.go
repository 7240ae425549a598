package scanner

// DefaultWorkers is the pool size used when none is requested.
const DefaultWorkers = 5

// EffectiveWorkers clamps the requested pool size to [1, n] so that no worker
// starts without a username to scan. n must be positive.
func EffectiveWorkers(requested, n int) int {
	workers := requested
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
