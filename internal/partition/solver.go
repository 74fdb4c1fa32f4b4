package partition

import (
	"container/heap"
	"math"
)

// ValueFunc reports the weight of an item. It must return a non-negative
// finite number for every item handed to Solve.
type ValueFunc[T any] func(T) float64

// Identity is the ValueFunc for items that are their own weight.
func Identity(v float64) float64 {
	return v
}

// Option configures Solve.
type Option func(*solverConfig)

type solverConfig struct {
	sumsOnly bool
}

// SumsOnly makes Solve track bin sums without retaining item identities.
// The resulting partition reports nil from Items for every bin.
func SumsOnly() Option {
	return func(cfg *solverConfig) {
		cfg.sumsOnly = true
	}
}

// Solve splits items into numBins bins using the generalized Karmarkar-Karp
// largest-differencing heuristic: every item starts as its own single-item
// partition, and the two most extreme pending partitions are repeatedly
// merged, pairing the largest-sum bin of one with the smallest-sum bin of
// the other, until a single partition remains.
//
// Items are seeded in caller-supplied order. Unlike the classical two-way
// method, this generalized form does not pre-sort items by descending
// weight, so both the result and the merge sequence depend on input order.
// Identical inputs in identical order always produce identical partitions.
//
// The returned partition has its bins sorted ascending by sum and contains
// every input item exactly once.
func Solve[T any](numBins int, items []T, valueOf ValueFunc[T], opts ...Option) (Bins[T], error) {
	var cfg solverConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if numBins < 1 {
		return nil, ErrInvalidBinCount
	}
	if len(items) == 0 {
		return nil, ErrEmptyInput
	}
	values, err := itemValues(items, valueOf)
	if err != nil {
		return nil, err
	}

	// Seed one single-item partition per item: the item sits alone in the
	// last bin, keyed by the negated value so the heaviest item is the
	// most extreme.
	pending := make(entryHeap[T], 0, len(items))
	var seq uint64
	for i, item := range items {
		bins, err := newBins[T](numBins, cfg.sumsOnly)
		if err != nil {
			return nil, err
		}
		bins.AddItem(item, values[i], numBins-1)
		pending = append(pending, entry[T]{key: -values[i], seq: seq, bins: bins, sums: bins.Sums()})
		seq++
	}
	heap.Init(&pending)

	for merged := 0; merged < len(items)-1; merged++ {
		dst := heap.Pop(&pending).(entry[T])
		src := heap.Pop(&pending).(entry[T])

		// Both operands are sorted ascending by sum, so pairing rank
		// numBins-1-i of the destination with rank i of the source joins
		// the largest bin with the smallest. src is consumed here and
		// never read again.
		for i := 0; i < numBins; i++ {
			dst.bins.Combine(numBins-1-i, src.bins, i)
		}
		dst.bins.Sort()

		sums := dst.bins.Sums()
		heap.Push(&pending, entry[T]{key: -Spread(sums), seq: seq, bins: dst.bins, sums: sums})
		seq++
	}

	return pending[0].bins, nil
}

// itemValues evaluates valueOf over all items up front so that invalid
// weights are rejected before any seeding happens.
func itemValues[T any](items []T, valueOf ValueFunc[T]) ([]float64, error) {
	if valueOf == nil {
		return nil, ErrInvalidValue
	}
	values := make([]float64, len(items))
	for i, item := range items {
		v := valueOf(item)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrInvalidValue
		}
		values[i] = v
	}
	return values, nil
}

func newBins[T any](numBins int, sumsOnly bool) (Bins[T], error) {
	if sumsOnly {
		return NewSumBins[T](numBins)
	}
	return NewContentBins[T](numBins)
}
