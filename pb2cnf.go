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

// Package pb2cnf translates pseudo-Boolean and cardinality constraints over
// Boolean literals into equisatisfiable CNF formulas.
//
// Literals are nonzero signed integers: a positive literal asserts the
// variable with that id, a negative literal asserts its negation. Every
// encoding call takes a firstAuxVar id; auxiliary variables introduced by
// the encoding are numbered from there, so firstAuxVar must be strictly
// greater than every variable id appearing in the input. The returned
// Formula reports the first id still unused, which callers feed into
// subsequent calls to keep variable ranges disjoint.
//
// An Encoder is reusable across calls but not safe for concurrent use;
// independent encoders share nothing and may run in parallel.
package pb2cnf

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"

	"github.com/crillab/pb2cnf/internal/engine"
	"github.com/crillab/pb2cnf/internal/wire"
)

// Errors reported when an encoding call rejects its inputs. All of them wrap
// ErrInvalidInput, so errors.Is(err, ErrInvalidInput) catches every
// precondition failure while the narrower sentinels identify which rule was
// violated.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrLengthMismatch = fmt.Errorf("%w: weights and literals must have the same length", ErrInvalidInput)
	ErrBadLiteral     = fmt.Errorf("%w: literals must be nonzero", ErrInvalidInput)
	ErrAuxVarTooSmall = fmt.Errorf("%w: firstAuxVar must be strictly greater than every input variable id", ErrInvalidInput)
)

// Encoder is a reusable encoding context. It owns engine-internal state that
// is mutated by every encode call, so a single Encoder must not be used from
// multiple goroutines concurrently.
type Encoder struct {
	ctx    *engine.Context
	closed bool
}

// NewEncoder creates a fresh encoding context. It never fails.
func NewEncoder() *Encoder {
	return &Encoder{ctx: engine.NewContext()}
}

// Close releases the engine resources held by the encoder. It must be called
// exactly once; closing twice or encoding after Close aborts the process.
func (e *Encoder) Close() {
	if e.closed {
		log.Fatal("pb2cnf: encoder closed twice")
	}
	e.closed = true
	e.ctx.Release()
	e.ctx = nil
}

// EncodeAtLeastK returns a formula equisatisfiable with "at least k of
// literals are true".
func (e *Encoder) EncodeAtLeastK(literals []int32, k int64, firstAuxVar int32) (*Formula, error) {
	return e.encode(constraint{kind: kindAtLeastK, literals: literals, k: k, firstAux: firstAuxVar})
}

// EncodeAtMostK returns a formula equisatisfiable with "at most k of
// literals are true".
func (e *Encoder) EncodeAtMostK(literals []int32, k int64, firstAuxVar int32) (*Formula, error) {
	return e.encode(constraint{kind: kindAtMostK, literals: literals, k: k, firstAux: firstAuxVar})
}

// EncodeLeq returns a formula equisatisfiable with
// sum(weights[i]*literals[i]) <= leq.
func (e *Encoder) EncodeLeq(weights []int64, literals []int32, leq int64, firstAuxVar int32) (*Formula, error) {
	return e.encode(constraint{kind: kindLeq, weights: weights, literals: literals, leq: leq, firstAux: firstAuxVar})
}

// EncodeGeq returns a formula equisatisfiable with
// sum(weights[i]*literals[i]) >= geq.
func (e *Encoder) EncodeGeq(weights []int64, literals []int32, geq int64, firstAuxVar int32) (*Formula, error) {
	return e.encode(constraint{kind: kindGeq, weights: weights, literals: literals, geq: geq, firstAux: firstAuxVar})
}

// EncodeBoth returns a formula equisatisfiable with
// leq >= sum(weights[i]*literals[i]) >= geq. The two bounds may describe an
// empty range, in which case the formula is unsatisfiable.
func (e *Encoder) EncodeBoth(weights []int64, literals []int32, leq, geq int64, firstAuxVar int32) (*Formula, error) {
	return e.encode(constraint{kind: kindBoth, weights: weights, literals: literals, leq: leq, geq: geq, firstAux: firstAuxVar})
}

type constraintKind int

const (
	kindAtLeastK constraintKind = iota
	kindAtMostK
	kindLeq
	kindGeq
	kindBoth
)

// constraint is the tagged form shared by the five public entry points. Each
// kind reads only the fields it needs.
type constraint struct {
	kind     constraintKind
	weights  []int64
	literals []int32
	k        int64 // cardinality bound
	leq, geq int64 // weighted bounds
	firstAux int32
}

func (c *constraint) weighted() bool {
	return c.kind == kindLeq || c.kind == kindGeq || c.kind == kindBoth
}

func (c *constraint) validate() error {
	if c.weighted() && len(c.weights) != len(c.literals) {
		return fmt.Errorf("%w: got %d weights and %d literals", ErrLengthMismatch, len(c.weights), len(c.literals))
	}
	var maxVar int32
	for i, l := range c.literals {
		if l == 0 || l == math.MinInt32 {
			return fmt.Errorf("%w: literal %d at index %d", ErrBadLiteral, l, i)
		}
		if v := abs32(l); v > maxVar {
			maxVar = v
		}
	}
	if c.firstAux < 1 || c.firstAux <= maxVar {
		return fmt.Errorf("%w: firstAuxVar %d, highest input variable id %d", ErrAuxVarTooSmall, c.firstAux, maxVar)
	}
	return nil
}

// encode is the single validate -> delegate -> convert path behind the five
// public operations. Invalid inputs are rejected before the engine is
// touched; on success the transfer buffer is consumed into a caller-owned
// Formula and released before returning.
func (e *Encoder) encode(c constraint) (*Formula, error) {
	if e.closed {
		log.Fatal("pb2cnf: encoder used after Close")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	var buf *wire.Buffer
	switch c.kind {
	case kindAtLeastK:
		buf = e.ctx.EncodeAtLeastK(c.literals, c.k, c.firstAux)
	case kindAtMostK:
		buf = e.ctx.EncodeAtMostK(c.literals, c.k, c.firstAux)
	case kindLeq:
		buf = e.ctx.EncodeLeq(c.weights, c.literals, c.leq, c.firstAux)
	case kindGeq:
		buf = e.ctx.EncodeGeq(c.weights, c.literals, c.geq, c.firstAux)
	case kindBoth:
		buf = e.ctx.EncodeBoth(c.weights, c.literals, c.leq, c.geq, c.firstAux)
	default:
		log.Fatalf("pb2cnf: unknown constraint kind %d", c.kind)
	}
	clauses, nextFree := buf.Consume()
	return &Formula{clauses: clauses, nextFreeVarID: nextFree}, nil
}

func abs32(l int32) int32 {
	if l < 0 {
		return -l
	}
	return l
}
