package crawler

import "runtime"

// browserContextMB is a rough per-tab memory cost of a rendered storefront
const browserContextMB = 50

// OptimalConcurrency picks a worker count from CPU count and free memory.
// Used when MaxConcurrency is not set.
func OptimalConcurrency() int {
	numCPU := runtime.NumCPU()

	// Page loads are I/O bound
	optimal := numCPU * 2
	if optimal > 16 {
		optimal = 16
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	availMB := (m.Sys - m.Alloc) / 1024 / 1024
	maxByMemory := int(availMB / browserContextMB)

	if maxByMemory > 0 && maxByMemory < optimal {
		optimal = maxByMemory
	}
	if optimal < 1 {
		optimal = 1
	}
	return optimal
}
