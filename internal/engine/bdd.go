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

import (
	"math"
	"sort"
)

// Weighted constraints. Terms are first normalized to positive weights over
// distinct variables; a bound that is then trivially met or unmeetable
// resolves without clauses, uniform weights reduce to the cardinality path,
// and the general case builds a reduced ordered BDD over the terms in
// decreasing-weight order, Tseitin-encoding every internal node.

type term struct {
	weight int64
	lit    int32
}

type bddKey struct {
	idx   int
	slack int64
}

// leq emits clauses forcing sum(weights[i]*lits[i]) <= bound.
func (c *Context) leq(weights []int64, lits []int32, bound int64) {
	terms, bound := normalize(weights, lits, bound)
	if bound < 0 {
		c.emit()
		return
	}
	var total int64
	for _, t := range terms {
		total = satAdd(total, t.weight)
	}
	if total <= bound {
		return
	}
	if uniform(terms) {
		ls := make([]int32, len(terms))
		for i, t := range terms {
			ls[i] = t.lit
		}
		c.atMost(ls, bound/terms[0].weight)
		return
	}
	c.emitBDD(terms, bound)
}

// geq emits clauses forcing sum(weights[i]*lits[i]) >= bound, encoded as the
// leq dual with every weight negated.
func (c *Context) geq(weights []int64, lits []int32, bound int64) {
	negw := make([]int64, len(weights))
	for i, w := range weights {
		negw[i] = satNeg(w)
	}
	c.leq(negw, lits, satNeg(bound))
}

// normalize rewrites sum(weights[i]*lits[i]) <= bound into an equivalent
// constraint with positive weights over distinct variables, merging
// duplicate and complementary occurrences and dropping zero terms. The
// result is ordered by decreasing weight (ties by variable id) so the BDD
// shape is deterministic.
func normalize(weights []int64, lits []int32, bound int64) ([]term, int64) {
	coef := make(map[int32]int64, len(lits))
	for i, l := range lits {
		w := weights[i]
		if l < 0 {
			// w*(1-x) = w - w*x
			bound = satSub(bound, w)
			coef[-l] = satSub(coef[-l], w)
		} else {
			coef[l] = satAdd(coef[l], w)
		}
	}
	terms := make([]term, 0, len(coef))
	for v, w := range coef {
		switch {
		case w == 0:
		case w > 0:
			terms = append(terms, term{weight: w, lit: v})
		default:
			// w*x = w + (-w)*(1-x)
			bound = satSub(bound, w)
			terms = append(terms, term{weight: satNeg(w), lit: -v})
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].weight != terms[j].weight {
			return terms[i].weight > terms[j].weight
		}
		return abs32(terms[i].lit) < abs32(terms[j].lit)
	})
	return terms, bound
}

func uniform(terms []term) bool {
	for _, t := range terms[1:] {
		if t.weight != terms[0].weight {
			return false
		}
	}
	return true
}

func (c *Context) emitBDD(terms []term, bound int64) {
	if c.memo == nil {
		c.memo = make(map[bddKey]int32)
	} else {
		clear(c.memo)
	}
	suffix := make([]int64, len(terms)+1)
	for i := len(terms) - 1; i >= 0; i-- {
		suffix[i] = satAdd(suffix[i+1], terms[i].weight)
	}
	switch root := c.bddNode(terms, suffix, 0, bound); root {
	case litTrue:
	case litFalse:
		c.emit()
	default:
		c.emit(root)
	}
}

// bddNode returns a literal equivalent to sum over terms[idx:] <= slack.
// suffix[i] holds the weight sum of terms[i:].
func (c *Context) bddNode(terms []term, suffix []int64, idx int, slack int64) int32 {
	if slack < 0 {
		return litFalse
	}
	if suffix[idx] <= slack {
		return litTrue
	}
	key := bddKey{idx: idx, slack: slack}
	if node, ok := c.memo[key]; ok {
		return node
	}
	t := terms[idx]
	hi := c.bddNode(terms, suffix, idx+1, slack-t.weight)
	lo := c.bddNode(terms, suffix, idx+1, slack)
	node := c.ite(t.lit, hi, lo)
	c.memo[key] = node
	return node
}

// ite returns a literal equivalent to (sel ? hi : lo). Branches that
// collapse need no clauses; otherwise a fresh variable is defined by
// equivalence clauses, so the node's value is fully determined by its
// inputs.
func (c *Context) ite(sel, hi, lo int32) int32 {
	switch {
	case hi == lo:
		return hi
	case hi == litTrue && lo == litFalse:
		return sel
	case hi == litFalse && lo == litTrue:
		return -sel
	}
	v := c.fresh()
	c.emit(-v, -sel, hi)
	c.emit(-v, sel, lo)
	c.emit(v, -sel, -hi)
	c.emit(v, sel, -lo)
	return v
}

func abs32(l int32) int32 {
	if l < 0 {
		return -l
	}
	return l
}

// satAdd adds two int64 values, saturating at the int64 bounds instead of
// wrapping.
func satAdd(a, b int64) int64 {
	s := a + b
	if b > 0 && s < a {
		return math.MaxInt64
	}
	if b < 0 && s > a {
		return math.MinInt64
	}
	return s
}

func satSub(a, b int64) int64 {
	if b == math.MinInt64 {
		return satAdd(satAdd(a, math.MaxInt64), 1)
	}
	return satAdd(a, -b)
}

func satNeg(a int64) int64 {
	if a == math.MinInt64 {
		return math.MaxInt64
	}
	return -a
}
