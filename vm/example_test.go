// This file is part of iridium - https://github.com/db47h/iridium
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
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

package vm_test

import (
	"fmt"
	"strings"

	"github.com/db47h/iridium/asm"
	"github.com/db47h/iridium/vm"
)

// Shows how to assemble a program and run it.
func ExampleInstance_Run() {
	img, err := asm.New().Assemble("example", strings.NewReader(`
.data
msg:	.asciiz 'done'
.code
	load $0 #10
	load $1 #3
	div $0 $1 $2
	aloc $1
	hlt
`))
	if err != nil {
		panic(err)
	}

	i, err := vm.New()
	if err != nil {
		panic(err)
	}
	i.LoadImage(img)
	if s := i.Run(); s != vm.Halted {
		panic(i.Err())
	}
	fmt.Println(i.Register(2), i.Remainder(), len(i.Heap()), vm.DecodeString(i.ReadOnly(), 0))

	// Output:
	// 3 1 3 done
}

// Shows how to bound execution with a step budget.
func ExampleInstance_Step() {
	i, err := vm.New(vm.Code([]byte{
		byte(vm.OpInc), 0, 0, 0,
		byte(vm.OpJmp), 1, 0, 0, // $1 is 0: infinite loop
	}))
	if err != nil {
		panic(err)
	}
	s := vm.Continue
	for n := 0; n < 100 && s == vm.Continue; n++ {
		s = i.Step()
	}
	fmt.Println(s, i.Register(0), i.InstructionCount())

	// Output:
	// continue 50 100
}
