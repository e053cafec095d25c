package main

import "runtime"

// resolveWorkers determines the conversion concurrency.
// Priority: explicit flag > config > GOMAXPROCS-based calculation.
func resolveWorkers(flagWorkers, configWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	if configWorkers > 0 {
		return configWorkers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / 2

	// Minimum 1, maximum 8
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
