package partition

// entry pairs a pending partition with its ordering key. key is the negated
// extremeness score (item value while seeding, spread after a merge), so the
// heap minimum is always the partition that should merge next. seq is a
// monotonic counter that breaks ties between equal keys in push order;
// partitions themselves are never compared.
type entry[T any] struct {
	key  float64
	seq  uint64
	bins Bins[T]
	sums []float64
}

// entryHeap is a container/heap min-heap ordered by (key, seq).
type entryHeap[T any] []entry[T]

func (h entryHeap[T]) Len() int {
	return len(h)
}

func (h entryHeap[T]) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *entryHeap[T]) Push(x any) {
	*h = append(*h, x.(entry[T]))
}

func (h *entryHeap[T]) Pop() any {
	old := *h
	n := len(old)
	popped := old[n-1]
	old[n-1] = entry[T]{}
	*h = old[:n-1]
	return popped
}
