// Package batch splits a row count into consecutive fixed-size ranges.
package batch

import "iter"

// Range is one batch of 1-based row ids, First through Last inclusive.
type Range struct {
	Index int
	First int
	Last  int
}

// Len returns the number of rows in the range.
func (r Range) Len() int {
	return r.Last - r.First + 1
}

// Count returns ceil(total/size), or 0 when either argument is not positive.
func Count(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	n := total / size
	if total%size != 0 {
		n++
	}
	return n
}

// At returns batch b of the partition of 1..total into size-row ranges.
// b must be below Count(total, size).
func At(total, size, b int) Range {
	done := b * size
	last := done + min(size, total-done)
	return Range{Index: b, First: done + 1, Last: last}
}

// All yields every range of the partition in order.
func All(total, size int) iter.Seq[Range] {
	n := Count(total, size)
	return func(yield func(Range) bool) {
		for b := range n {
			if !yield(At(total, size, b)) {
				return
			}
		}
	}
}

// Partition returns every range of the partition.
func Partition(total, size int) []Range {
	ranges := make([]Range, 0, Count(total, size))
	for r := range All(total, size) {
		ranges = append(ranges, r)
	}
	return ranges
}
