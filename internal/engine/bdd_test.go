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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func weightedSum(assign []bool, weights []int64, lits []int32) int64 {
	var sum int64
	for i, l := range lits {
		v := l
		if v < 0 {
			v = -v
		}
		val := assign[v-1]
		if l < 0 {
			val = !val
		}
		if val {
			sum += weights[i]
		}
	}
	return sum
}

func TestLeq_Equisat(t *testing.T) {
	weights := []int64{8, 4, 2, 1}
	lits := []int32{1, 2, 3, 4}

	for _, bound := range []int64{-1, 0, 3, 6, 14, 15} {
		ctx := NewContext()
		clauses, next := ctx.EncodeLeq(weights, lits, bound, 5).Consume()
		ctx.Release()

		checkEquisat(t, clauses, next-1, 4, func(assign []bool) bool {
			return weightedSum(assign, weights, lits) <= bound
		})
	}
}

func TestGeq_Equisat(t *testing.T) {
	weights := []int64{8, 4, 2, 1}
	lits := []int32{1, 2, 3, 4}

	for _, bound := range []int64{0, 1, 6, 15, 16} {
		ctx := NewContext()
		clauses, next := ctx.EncodeGeq(weights, lits, bound, 5).Consume()
		ctx.Release()

		checkEquisat(t, clauses, next-1, 4, func(assign []bool) bool {
			return weightedSum(assign, weights, lits) >= bound
		})
	}
}

func TestBoth_Window(t *testing.T) {
	weights := []int64{2, 3, 5}
	lits := []int32{1, 2, 3}

	ctx := NewContext()
	defer ctx.Release()
	clauses, next := ctx.EncodeBoth(weights, lits, 7, 3, 4).Consume()

	checkEquisat(t, clauses, next-1, 3, func(assign []bool) bool {
		sum := weightedSum(assign, weights, lits)
		return sum <= 7 && sum >= 3
	})
}

func TestBoth_EmptyWindow(t *testing.T) {
	weights := []int64{1, 1}
	lits := []int32{1, 2}

	ctx := NewContext()
	defer ctx.Release()
	clauses, next := ctx.EncodeBoth(weights, lits, 0, 2, 3).Consume()

	checkEquisat(t, clauses, next-1, 2, func(assign []bool) bool {
		sum := weightedSum(assign, weights, lits)
		return sum <= 0 && sum >= 2
	})
}

func TestLeq_NegativeWeights(t *testing.T) {
	weights := []int64{-2, 3, -4}
	lits := []int32{1, 2, 3}

	for _, bound := range []int64{-6, -3, 0, 2} {
		ctx := NewContext()
		clauses, next := ctx.EncodeLeq(weights, lits, bound, 4).Consume()
		ctx.Release()

		checkEquisat(t, clauses, next-1, 3, func(assign []bool) bool {
			return weightedSum(assign, weights, lits) <= bound
		})
	}
}

func TestLeq_MergesDuplicateAndComplementaryLiterals(t *testing.T) {
	weights := []int64{2, 3, 4}
	lits := []int32{1, 1, -1}

	for _, bound := range []int64{3, 4, 5} {
		ctx := NewContext()
		clauses, next := ctx.EncodeLeq(weights, lits, bound, 2).Consume()
		ctx.Release()

		checkEquisat(t, clauses, next-1, 1, func(assign []bool) bool {
			return weightedSum(assign, weights, lits) <= bound
		})
	}
}

func TestLeq_UniformWeightsTakeCardinalityPath(t *testing.T) {
	ctx := NewContext()
	defer ctx.Release()

	// 2a+2b+2c <= 4 is "at most 2 of 3", whose encoding is the single
	// clause forbidding all three.
	got, next := ctx.EncodeLeq([]int64{2, 2, 2}, []int32{1, 2, 3}, 4, 4).Consume()
	want := [][]int32{{-1, -2, -3}}
	if next != 4 {
		t.Errorf("next free var id = %d, want 4", next)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("clauses have unexpected diff (-want+got):\n%s", diff)
	}
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name      string
		weights   []int64
		lits      []int32
		bound     int64
		wantTerms []term
		wantBound int64
	}{
		{
			name:      "already normal, sorted by weight",
			weights:   []int64{1, 4, 2},
			lits:      []int32{1, 2, 3},
			bound:     5,
			wantTerms: []term{{4, 2}, {2, 3}, {1, 1}},
			wantBound: 5,
		},
		{
			name:      "negative weight flips literal and bound",
			weights:   []int64{-3, 1},
			lits:      []int32{1, 2},
			bound:     0,
			wantTerms: []term{{3, -1}, {1, 2}},
			wantBound: 3,
		},
		{
			name:      "negated literal folds into bound",
			weights:   []int64{2, 1},
			lits:      []int32{-1, 2},
			bound:     2,
			wantTerms: []term{{2, -1}, {1, 2}},
			wantBound: 2,
		},
		{
			name:      "duplicates merge",
			weights:   []int64{2, 3},
			lits:      []int32{1, 1},
			bound:     4,
			wantTerms: []term{{5, 1}},
			wantBound: 4,
		},
		{
			name:      "complementary pair cancels into the bound",
			weights:   []int64{4, 4},
			lits:      []int32{1, -1},
			bound:     6,
			wantTerms: []term{},
			wantBound: 2,
		},
		{
			name:      "zero weights drop out",
			weights:   []int64{0, 5},
			lits:      []int32{1, 2},
			bound:     1,
			wantTerms: []term{{5, 2}},
			wantBound: 1,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			gotTerms, gotBound := normalize(test.weights, test.lits, test.bound)
			if gotBound != test.wantBound {
				t.Errorf("normalize() bound = %d, want %d", gotBound, test.wantBound)
			}
			if diff := cmp.Diff(test.wantTerms, gotTerms, cmp.AllowUnexported(term{}), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("normalize() terms have unexpected diff (-want+got):\n%s", diff)
			}
		})
	}
}

func TestSaturatingArithmetic(t *testing.T) {
	testCases := []struct {
		a, b, want int64
	}{
		{1, 2, 3},
		{math.MaxInt64, 1, math.MaxInt64},
		{math.MinInt64, -1, math.MinInt64},
		{math.MaxInt64, math.MaxInt64, math.MaxInt64},
		{math.MinInt64, math.MaxInt64, -1},
	}
	for _, test := range testCases {
		if got := satAdd(test.a, test.b); got != test.want {
			t.Errorf("satAdd(%d, %d) = %d, want %d", test.a, test.b, got, test.want)
		}
	}

	if got := satSub(0, math.MinInt64); got != math.MaxInt64 {
		t.Errorf("satSub(0, MinInt64) = %d, want MaxInt64", got)
	}
	if got := satNeg(math.MinInt64); got != math.MaxInt64 {
		t.Errorf("satNeg(MinInt64) = %d, want MaxInt64", got)
	}
}
