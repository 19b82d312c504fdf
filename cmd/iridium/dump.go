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

package main

import (
	"io"

	"github.com/db47h/iridium/asm"
	"github.com/db47h/iridium/internal/iio"
	"github.com/db47h/iridium/vm"
)

// dumpVM dumps the virtual machine registers, flags and heap to the specified
// io.Writer.
func dumpVM(i *vm.Instance, w io.Writer) error {
	ew := iio.NewErrWriter(w)
	for k, v := range i.Registers() {
		ew.Printf("$%d=%d", k, v)
		if k < vm.RegisterCount-1 {
			ew.WriteString(" ")
		}
	}
	ew.Printf("\npc=%d equal=%t remainder=%d instructions=%d\n", i.PC, i.Equal(), i.Remainder(), i.InstructionCount())
	ew.Printf("heap=% x\n", i.Heap())
	return ew.Err
}

// disassemble writes the data segment strings and the disassembled code of
// img to w.
func disassemble(img *vm.Image, w io.Writer) error {
	ew := iio.NewErrWriter(w)
	ew.WriteString(".data\n")
	for pos := 0; pos < len(img.Data); {
		s := vm.DecodeString(img.Data, pos)
		ew.Printf("% 6d\t.asciiz %q\n", pos, s)
		pos += len(s) + 1
	}
	ew.WriteString(".code\n")
	if err := asm.DisassembleAll(img.Code, 0, ew); err != nil {
		return err
	}
	return ew.Err
}
