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

package pb2cnf

import (
	"bufio"
	"fmt"
	"io"
)

// Formula is the result of one encoding call: a conjunction of clauses plus
// the first variable id unused by both the input literals and the auxiliary
// variables the encoding introduced. A Formula owns its clause data outright
// and keeps no tie to the Encoder that produced it. It is immutable; the
// accessors expose internal slices that must not be modified.
type Formula struct {
	clauses       [][]int32
	nextFreeVarID int32
}

// NumClauses returns the number of clauses in the formula.
func (f *Formula) NumClauses() int {
	return len(f.clauses)
}

// NumVars returns the number of variable ids below NextFreeVarID, input and
// auxiliary variables together.
func (f *Formula) NumVars() int {
	return int(f.nextFreeVarID) - 1
}

// NextFreeVarID returns the smallest variable id guaranteed unused by the
// formula. It equals the firstAuxVar passed to the encoding call when no
// auxiliary variable was introduced.
func (f *Formula) NextFreeVarID() int32 {
	return f.nextFreeVarID
}

// Clause returns the ith clause as a slice of literals, in the order the
// engine produced them.
func (f *Formula) Clause(i int) []int32 {
	return f.clauses[i]
}

// Clauses returns all clauses of the formula.
func (f *Formula) Clauses() [][]int32 {
	return f.clauses
}

// WriteDIMACS writes the formula in DIMACS CNF format: a "p cnf vars
// clauses" header followed by one zero-terminated line per clause.
func (f *Formula) WriteDIMACS(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "p cnf %d %d\n", f.NumVars(), f.NumClauses())
	for _, clause := range f.clauses {
		for _, lit := range clause {
			fmt.Fprintf(bw, "%d ", lit)
		}
		fmt.Fprintln(bw, "0")
	}
	return bw.Flush()
}
