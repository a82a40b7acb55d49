// Copyright 2025 the pb2cnf Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

// Cardinality constraints. Bounds that leave nothing to decide are resolved
// without auxiliary variables; the general case wires a Batcher odd-even
// merge sorting network over the literals and reads the outputs as a unary
// counter. Each comparator costs 2 auxiliary variables and 6 clauses;
// comparators fed a constant collapse for free, so padding the input to a
// power of two adds no clauses.

// atLeast emits clauses forcing at least k of lits to be true.
func (c *Context) atLeast(lits []int32, k int64) {
	n := int64(len(lits))
	switch {
	case k <= 0:
		// Every assignment qualifies.
	case k > n:
		c.emit()
	case k == 1:
		c.emit(lits...)
	case k == n:
		for _, l := range lits {
			c.emit(l)
		}
	default:
		sorted := c.sortNetwork(lits)
		c.emit(sorted[k-1])
	}
}

// atMost emits clauses forcing at most k of lits to be true.
func (c *Context) atMost(lits []int32, k int64) {
	n := int64(len(lits))
	switch {
	case k >= n:
		// Every assignment qualifies.
	case k < 0:
		c.emit()
	case k == 0:
		for _, l := range lits {
			c.emit(-l)
		}
	case k == n-1:
		negs := make([]int32, n)
		for i, l := range lits {
			negs[i] = -l
		}
		c.emit(negs...)
	default:
		sorted := c.sortNetwork(lits)
		c.emit(-sorted[k])
	}
}

// sortNetwork wires an odd-even merge sorting network over lits and returns
// its outputs in decreasing order: output i is true iff at least i+1 of the
// inputs are true. The input is padded with constant false up to the next
// power of two.
func (c *Context) sortNetwork(lits []int32) []int32 {
	width := 1
	for width < len(lits) {
		width <<= 1
	}
	if cap(c.wires) < width {
		c.wires = make([]int32, width)
	}
	ms := c.wires[:width]
	copy(ms, lits)
	for i := len(lits); i < width; i++ {
		ms[i] = litFalse
	}
	c.sortRange(ms, 0, width)
	return ms[:len(lits)]
}

func (c *Context) sortRange(ms []int32, l, h int) {
	if h-l <= 1 {
		return
	}
	m := l + (h-l)/2
	c.sortRange(ms, l, m)
	c.sortRange(ms, m, h)
	c.mergeRange(ms, l, h, 1)
}

// mergeRange merges the two sorted halves of ms[l:h], comparing elements at
// stride s (odd-even merge).
func (c *Context) mergeRange(ms []int32, l, h, s int) {
	ss := 2 * s
	if ss >= h-l {
		ms[l], ms[l+s] = c.comparator(ms[l], ms[l+s])
		return
	}
	c.mergeRange(ms, l, h, ss)
	c.mergeRange(ms, l+s, h, ss)
	for i := l + s; i < h-s; i += ss {
		ms[i], ms[i+s] = c.comparator(ms[i], ms[i+s])
	}
}

// comparator returns the pair (a or b, a and b). Constant inputs pass
// through without clauses; otherwise two auxiliary variables are defined by
// six clauses, three per direction.
func (c *Context) comparator(a, b int32) (hi, lo int32) {
	switch {
	case a == litTrue:
		return litTrue, b
	case b == litTrue:
		return litTrue, a
	case a == litFalse:
		return b, litFalse
	case b == litFalse:
		return a, litFalse
	}
	hi = c.fresh()
	lo = c.fresh()
	c.emit(-a, hi)
	c.emit(-b, hi)
	c.emit(a, b, -hi)
	c.emit(-lo, a)
	c.emit(-lo, b)
	c.emit(-a, -b, lo)
	return hi, lo
}
