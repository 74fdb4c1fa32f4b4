// Package partition solves the multiway number-partitioning problem: it
// splits weighted items into a fixed number of bins so that the spread
// between the largest and smallest bin sum stays small. The solver is the
// generalized Karmarkar-Karp (largest-differencing) heuristic, which is
// fast and deterministic but not exact.
package partition
