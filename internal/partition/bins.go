package partition

import (
	"slices"
	"sort"
)

// Bins is a partition in progress: a fixed number of bins, each with a
// cached sum of the item weights placed into it. Implementations differ in
// whether they retain the items themselves or only the sums; both expose
// the same combine/sort/sum contract.
//
// Bin indices must be in [0, Num()); out-of-range indices panic the same
// way slice indexing does.
type Bins[T any] interface {
	// Num reports the number of bins. It never changes after construction.
	Num() int
	// AddItem appends item with the given weight to the bin at binIndex.
	AddItem(item T, value float64, binIndex int)
	// Combine appends the bin at otherIndex of other onto the bin at
	// binIndex, transferring its items and sum. other must come from the
	// same constructor variant and must not be used again afterwards.
	Combine(binIndex int, other Bins[T], otherIndex int)
	// Sort reorders bins ascending by sum. Bins with equal sums keep
	// their relative order, and contents move together with sums.
	Sort()
	// Sums returns a copy of the current sums, index-aligned with the bins.
	Sums() []float64
	// Items returns the items of the bin at binIndex, or nil when the
	// implementation does not retain contents. The returned slice is
	// shared with the partition and must not be mutated.
	Items(binIndex int) []T
}

// ContentBins retains the items placed into every bin alongside its sum,
// so the final assignment is recoverable.
type ContentBins[T any] struct {
	bins [][]T
	sums []float64
}

// NewContentBins returns a partition of numBins empty bins that keeps bin
// contents. numBins must be at least one.
func NewContentBins[T any](numBins int) (*ContentBins[T], error) {
	if numBins < 1 {
		return nil, ErrInvalidBinCount
	}
	return &ContentBins[T]{
		bins: make([][]T, numBins),
		sums: make([]float64, numBins),
	}, nil
}

func (b *ContentBins[T]) Num() int {
	return len(b.sums)
}

func (b *ContentBins[T]) AddItem(item T, value float64, binIndex int) {
	b.bins[binIndex] = append(b.bins[binIndex], item)
	b.sums[binIndex] += value
}

func (b *ContentBins[T]) Combine(binIndex int, other Bins[T], otherIndex int) {
	b.bins[binIndex] = append(b.bins[binIndex], other.Items(otherIndex)...)
	b.sums[binIndex] += other.Sums()[otherIndex]
}

func (b *ContentBins[T]) Sort() {
	order := sortOrder(b.sums)
	bins := make([][]T, len(order))
	sums := make([]float64, len(order))
	for i, j := range order {
		bins[i] = b.bins[j]
		sums[i] = b.sums[j]
	}
	b.bins = bins
	b.sums = sums
}

func (b *ContentBins[T]) Sums() []float64 {
	return slices.Clone(b.sums)
}

func (b *ContentBins[T]) Items(binIndex int) []T {
	return b.bins[binIndex]
}

// SumBins tracks only the running sum of every bin. It is cheaper than
// ContentBins and sufficient when only the sums matter.
type SumBins[T any] struct {
	sums []float64
}

// NewSumBins returns a partition of numBins empty bins that tracks sums
// only. numBins must be at least one.
func NewSumBins[T any](numBins int) (*SumBins[T], error) {
	if numBins < 1 {
		return nil, ErrInvalidBinCount
	}
	return &SumBins[T]{sums: make([]float64, numBins)}, nil
}

func (b *SumBins[T]) Num() int {
	return len(b.sums)
}

func (b *SumBins[T]) AddItem(_ T, value float64, binIndex int) {
	b.sums[binIndex] += value
}

func (b *SumBins[T]) Combine(binIndex int, other Bins[T], otherIndex int) {
	b.sums[binIndex] += other.Sums()[otherIndex]
}

func (b *SumBins[T]) Sort() {
	sort.Float64s(b.sums)
}

func (b *SumBins[T]) Sums() []float64 {
	return slices.Clone(b.sums)
}

func (b *SumBins[T]) Items(int) []T {
	return nil
}

// Spread reports the difference between the largest and smallest sum.
// It does not require sums to be sorted.
func Spread(sums []float64) float64 {
	if len(sums) == 0 {
		return 0
	}
	min, max := sums[0], sums[0]
	for _, s := range sums[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	return max - min
}

// sortOrder returns the permutation that sorts sums ascending, keeping the
// relative order of equal sums.
func sortOrder(sums []float64) []int {
	order := make([]int, len(sums))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return sums[order[i]] < sums[order[j]]
	})
	return order
}
