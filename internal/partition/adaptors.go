package partition

import "sort"

// Summary pairs the grouped items of a solved partition with its sums,
// index-aligned and sorted ascending by sum.
type Summary[T any] struct {
	Groups [][]T
	Sums   []float64
}

// Service exposes the solver behind caller-friendly input shapes: plain
// numeric weights, or a map from opaque labels to weights.
type Service interface {
	PartitionValues(numBins int, values []float64) (Summary[float64], error)
	PartitionLabels(numBins int, weights map[string]float64) (Summary[string], error)
	PartitionSums(numBins int, values []float64) ([]float64, error)
	LargestSum(numBins int, values []float64) (float64, error)
}

type kkService struct{}

// NewService returns a Service backed by the Karmarkar-Karp solver.
func NewService() Service {
	return &kkService{}
}

// PartitionValues splits plain numeric weights into numBins bins; each
// item's weight is the item itself.
func (s *kkService) PartitionValues(numBins int, values []float64) (Summary[float64], error) {
	bins, err := Solve(numBins, values, Identity)
	if err != nil {
		return Summary[float64]{}, err
	}
	return Summarize(bins), nil
}

// PartitionLabels splits labeled weights into numBins bins of labels.
// Labels are seeded in ascending label order: map iteration order is
// randomized, which would otherwise break the determinism guarantee.
// Callers that need a specific seeding order should use Solve with a slice.
func (s *kkService) PartitionLabels(numBins int, weights map[string]float64) (Summary[string], error) {
	if len(weights) == 0 {
		return Summary[string]{}, ErrEmptyInput
	}
	labels := make([]string, 0, len(weights))
	for label := range weights {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	bins, err := Solve(numBins, labels, func(label string) float64 {
		return weights[label]
	})
	if err != nil {
		return Summary[string]{}, err
	}
	return Summarize(bins), nil
}

// PartitionSums returns only the bin sums, using sum-only bins so item
// identities are never retained.
func (s *kkService) PartitionSums(numBins int, values []float64) ([]float64, error) {
	bins, err := Solve(numBins, values, Identity, SumsOnly())
	if err != nil {
		return nil, err
	}
	return bins.Sums(), nil
}

// LargestSum returns the sum of the fullest bin, the quantity minimized by
// makespan-style callers.
func (s *kkService) LargestSum(numBins int, values []float64) (float64, error) {
	sums, err := s.PartitionSums(numBins, values)
	if err != nil {
		return 0, err
	}
	return sums[len(sums)-1], nil
}

// Summarize extracts the per-bin item lists and sums from a solved
// partition. Groups are copies and safe to retain.
func Summarize[T any](bins Bins[T]) Summary[T] {
	groups := make([][]T, bins.Num())
	for i := range groups {
		groups[i] = append([]T{}, bins.Items(i)...)
	}
	return Summary[T]{Groups: groups, Sums: bins.Sums()}
}
