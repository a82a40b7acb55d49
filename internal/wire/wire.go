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

// Package wire implements the flat transfer layout used to move an encoded
// formula out of the encoding engine.
//
// A transfer buffer is a sequence of signed 32-bit integers:
//
//	[0] total_length        -- number of integers in the buffer, header included
//	[1] next_free_var_id
//	[2] clause_0_length
//	[3..3+clause_0_length) clause_0 literals
//	... repeated for every clause
//
// An empty formula is the 2-integer buffer [2, next_free_var_id].
package wire

import (
	"sync"

	log "github.com/golang/glog"
)

// headerLen is the number of integers preceding the clause data: the total
// buffer length and the next free variable id.
const headerLen = 2

// Builder assembles a transfer buffer on the producing side. The zero value
// is not usable; call NewBuilder.
type Builder struct {
	pool *sync.Pool
	data []int32
}

// NewBuilder returns an empty builder with its own storage pool. Buffers
// released after consumption return their backing storage to this pool, so a
// long-lived builder recycles allocations across encodes.
func NewBuilder() *Builder {
	b := &Builder{pool: &sync.Pool{}}
	b.Reset()
	return b
}

// Reset discards any clause data accumulated since the last Finish and
// prepares the builder for a new formula.
func (b *Builder) Reset() {
	if b.data != nil {
		b.data = b.data[:headerLen]
	} else if v := b.pool.Get(); v != nil {
		b.data = v.([]int32)[:headerLen]
	} else {
		b.data = make([]int32, headerLen, 64)
	}
	b.data[0] = 0
	b.data[1] = 0
}

// AddClause appends one clause. The literals are copied; the caller keeps
// ownership of lits.
func (b *Builder) AddClause(lits []int32) {
	b.data = append(b.data, int32(len(lits)))
	b.data = append(b.data, lits...)
}

// Finish seals the buffer, writing the total length and the next free
// variable id into the header, and transfers exclusive ownership of the
// buffer to the caller. The builder must be Reset before it is used again.
func (b *Builder) Finish(nextFreeVarID int32) *Buffer {
	b.data[0] = int32(len(b.data))
	b.data[1] = nextFreeVarID
	buf := &Buffer{data: b.data, pool: b.pool}
	b.data = nil
	return buf
}

// Buffer is a sealed transfer buffer handed over by a Builder. Exactly one
// owner holds it at any time, and that owner must release it exactly once,
// either through Release or through Consume. Any access after release aborts
// the process.
type Buffer struct {
	data []int32
	pool *sync.Pool
}

// Ints exposes the raw integer layout of the buffer.
func (b *Buffer) Ints() []int32 {
	if b.data == nil {
		log.Fatal("wire: transfer buffer used after release")
	}
	return b.data
}

// NextFreeVarID returns the next free variable id recorded in the header.
func (b *Buffer) NextFreeVarID() int32 {
	return b.Ints()[1]
}

// Consume copies every clause out of the buffer, releases the buffer, and
// returns the clauses together with the next free variable id. The returned
// slices share no storage with the buffer.
func (b *Buffer) Consume() (clauses [][]int32, nextFreeVarID int32) {
	data := b.Ints()
	total := int(data[0])
	if total != len(data) {
		log.Fatalf("wire: header declares %d integers, buffer holds %d", total, len(data))
	}
	nextFreeVarID = data[1]
	for i := headerLen; i < total; {
		n := int(data[i])
		if n < 0 || i+1+n > total {
			log.Fatalf("wire: corrupt clause framing at offset %d", i)
		}
		clause := make([]int32, n)
		copy(clause, data[i+1:i+1+n])
		clauses = append(clauses, clause)
		i += 1 + n
	}
	b.Release()
	return clauses, nextFreeVarID
}

// Release returns the backing storage to the originating pool. It must be
// called exactly once per buffer; a second call aborts the process.
func (b *Buffer) Release() {
	if b.data == nil {
		log.Fatal("wire: transfer buffer released twice")
	}
	b.pool.Put(b.data[:0])
	b.data = nil
}
