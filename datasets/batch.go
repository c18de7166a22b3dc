package datasets

import "math/rand/v2"

// Batches splits the positions 0..n-1 into consecutive groups of size; the
// last group may be shorter. The positions keep their natural order when rng
// is nil and are shuffled with rng otherwise.
func Batches(n, size int, rng *rand.Rand) [][]int {
	if size <= 0 {
		panic("batch size must be positive")
	}
	if n <= 0 {
		return nil
	}
	var order = make([]int, n)
	for i := range order {
		order[i] = i
	}
	if rng != nil {
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	var o = make([][]int, 0, (n+size-1)/size)
	for i := 0; i < n; i += size {
		end := i + size
		if end > n {
			end = n
		}
		o = append(o, order[i:end:end])
	}
	return o
}
