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
	"fmt"
	"os"
)

// Encode "at most two of the variables 1, 2, 3 are true". The variables
// 1..3 belong to the caller, so auxiliary variables start at 4.
func ExampleEncoder_EncodeAtMostK() {
	enc := NewEncoder()
	defer enc.Close()

	f, err := enc.EncodeAtMostK([]int32{1, 2, 3}, 2, 4)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, clause := range f.Clauses() {
		fmt.Println(clause)
	}
	fmt.Println("next free variable:", f.NextFreeVarID())
	// Output:
	// [-1 -2 -3]
	// next free variable: 4
}

// Encode "exactly one of the variables 1, 2 is true" and print the result
// in DIMACS CNF format.
func ExampleFormula_WriteDIMACS() {
	enc := NewEncoder()
	defer enc.Close()

	f, err := enc.EncodeBoth([]int64{1, 1}, []int32{1, 2}, 1, 1, 3)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := f.WriteDIMACS(os.Stdout); err != nil {
		fmt.Println(err)
	}
	// Output:
	// p cnf 2 2
	// -1 -2 0
	// 1 2 0
}
