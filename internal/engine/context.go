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

// Package engine implements the constraint-to-CNF encoders behind the pb2cnf
// API. A Context is the engine-side encoding handle: it numbers auxiliary
// variables, accumulates clauses into a transfer buffer, and keeps scratch
// structures alive across encode calls.
//
// The engine assumes its inputs have already been validated: literals are
// nonzero, weight and literal sequences have equal lengths, and firstAux is
// strictly greater than every input variable id.
package engine

import (
	"math"

	log "github.com/golang/glog"

	"github.com/crillab/pb2cnf/internal/wire"
)

// Sentinel literals standing for the constants true and false. They never
// appear in emitted clauses; emit simplifies them away. Negation by sign
// flip works on them like on any other literal.
const (
	litTrue  int32 = math.MaxInt32
	litFalse int32 = -litTrue
)

// Context is a reusable encoding context. It is not safe for concurrent use;
// independent contexts share nothing.
type Context struct {
	bld *wire.Builder
	// next is the id the next auxiliary variable will take. Valid only
	// between begin and finish.
	next int32
	// wires holds the comparator network during cardinality encoding.
	wires []int32
	// clause is the scratch slice emit filters constants into.
	clause []int32
	// memo caches BDD nodes; cleared at the start of each weighted encode.
	memo     map[bddKey]int32
	released bool
}

// NewContext returns a fresh context. It never fails.
func NewContext() *Context {
	return &Context{
		bld:  wire.NewBuilder(),
		memo: make(map[bddKey]int32),
	}
}

// Release frees the context's internal structures. It must be called exactly
// once; any use of the context afterwards aborts the process.
func (c *Context) Release() {
	if c.released {
		log.Fatal("engine: context released twice")
	}
	c.released = true
	c.bld = nil
	c.wires = nil
	c.clause = nil
	c.memo = nil
}

// EncodeAtLeastK encodes sum(lits) >= k and transfers the resulting buffer
// to the caller.
func (c *Context) EncodeAtLeastK(lits []int32, k int64, firstAux int32) *wire.Buffer {
	c.begin(firstAux)
	c.atLeast(lits, k)
	return c.finish()
}

// EncodeAtMostK encodes sum(lits) <= k.
func (c *Context) EncodeAtMostK(lits []int32, k int64, firstAux int32) *wire.Buffer {
	c.begin(firstAux)
	c.atMost(lits, k)
	return c.finish()
}

// EncodeLeq encodes sum(weights[i]*lits[i]) <= leq.
func (c *Context) EncodeLeq(weights []int64, lits []int32, leq int64, firstAux int32) *wire.Buffer {
	c.begin(firstAux)
	c.leq(weights, lits, leq)
	return c.finish()
}

// EncodeGeq encodes sum(weights[i]*lits[i]) >= geq.
func (c *Context) EncodeGeq(weights []int64, lits []int32, geq int64, firstAux int32) *wire.Buffer {
	c.begin(firstAux)
	c.geq(weights, lits, geq)
	return c.finish()
}

// EncodeBoth encodes leq >= sum(weights[i]*lits[i]) >= geq as one formula.
// Both halves share the auxiliary variable counter.
func (c *Context) EncodeBoth(weights []int64, lits []int32, leq, geq int64, firstAux int32) *wire.Buffer {
	c.begin(firstAux)
	c.leq(weights, lits, leq)
	c.geq(weights, lits, geq)
	return c.finish()
}

func (c *Context) begin(firstAux int32) {
	if c.released {
		log.Fatal("engine: context used after release")
	}
	c.next = firstAux
	c.bld.Reset()
}

func (c *Context) finish() *wire.Buffer {
	return c.bld.Finish(c.next)
}

// fresh allocates the next auxiliary variable id.
func (c *Context) fresh() int32 {
	v := c.next
	c.next++
	return v
}

// emit appends a clause, dropping constant-false literals and suppressing
// clauses that contain a constant-true literal.
func (c *Context) emit(lits ...int32) {
	kept := c.clause[:0]
	for _, l := range lits {
		if l == litTrue {
			return
		}
		if l != litFalse {
			kept = append(kept, l)
		}
	}
	c.clause = kept
	c.bld.AddClause(kept)
}
