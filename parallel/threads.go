package parallel

import "runtime"

import "github.com/klauspost/cpuid/v2"

// Threads returns the number of goroutines the data-parallel helpers use:
// the logical core count reported by the CPU, or runtime.NumCPU when the CPU
// could not be identified.
func Threads() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}
