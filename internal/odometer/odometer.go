// Package odometer implements a mixed-radix counter that visits every
// combination of a vector of independent digits exactly once.
//
// Digit i counts from 0 to bases[i]-1. The last digit varies fastest, which is
// the order produced by nested loops with the first position outermost:
//
//	(0,0) (0,1) (0,2) (1,0) (1,1) (1,2)   // bases 2, 3
//
// The order is part of the contract: callers rely on it to produce
// reproducible output.
package odometer

import "iter"

// Odometer walks all combinations of its bases. The zero value is not usable;
// construct one with New.
type Odometer struct {
	bases  []int
	digits []int
	index  int
	done   bool
}

// New returns an odometer positioned on the first combination. With no bases
// there is exactly one (empty) combination; any base <= 0 means there are
// none and the odometer starts out exhausted.
func New(bases ...int) *Odometer {
	o := &Odometer{
		bases:  append([]int(nil), bases...),
		digits: make([]int, len(bases)),
	}
	for _, b := range bases {
		if b <= 0 {
			o.done = true
		}
	}
	return o
}

// Len returns the total number of combinations, the product of all bases.
func (o *Odometer) Len() int {
	n := 1
	for _, b := range o.bases {
		if b <= 0 {
			return 0
		}
		n *= b
	}
	return n
}

// Done reports whether every combination has been visited.
func (o *Odometer) Done() bool { return o.done }

// Index returns the zero-based ordinal of the current combination.
func (o *Odometer) Index() int { return o.index }

// Current returns a copy of the current digits.
func (o *Odometer) Current() []int {
	return append([]int(nil), o.digits...)
}

// Next advances to the following combination. It returns false once the
// carry propagates past the first digit, after which the odometer is done.
func (o *Odometer) Next() bool {
	if o.done {
		return false
	}
	for i := len(o.digits) - 1; i >= 0; i-- {
		o.digits[i]++
		if o.digits[i] < o.bases[i] {
			o.index++
			return true
		}
		o.digits[i] = 0
	}
	o.done = true
	return false
}

// Combinations yields every combination of bases with its ordinal.
// The yielded slice is owned by the caller.
func Combinations(bases ...int) iter.Seq2[int, []int] {
	return func(yield func(int, []int) bool) {
		for o := New(bases...); !o.Done(); o.Next() {
			if !yield(o.Index(), o.Current()) {
				return
			}
		}
	}
}
