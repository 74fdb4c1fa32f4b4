package partition

import "math/rand/v2"

// RandomValues generates numItems uniformly-random integer weights, each in
// [1, 2^bitsPerItem). It exists for demos and for exercising the solver on
// generated data; bitsPerItem must be between 1 and 48 so every weight is
// exactly representable as a float64.
func RandomValues(rng *rand.Rand, numItems, bitsPerItem int) []float64 {
	values := make([]float64, numItems)
	limit := int64(1) << bitsPerItem
	for i := range values {
		values[i] = float64(rng.Int64N(limit-1) + 1)
	}
	return values
}
