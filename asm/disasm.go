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

package asm

import (
	"io"
	"strconv"

	"github.com/db47h/iridium/internal/iio"
	"github.com/db47h/iridium/vm"
)

// Disassemble writes a disassembly of the instruction at position pc in the
// given code slice to the specified io.Writer and returns the position of the
// next instruction and any write error.
//
// Operands are rendered according to the opcode's operand shape. Unmapped
// opcodes are rendered as "igl" and a truncated instruction as "???".
func Disassemble(code []byte, pc int, w io.Writer) (next int, err error) {
	ew := iio.NewErrWriter(w)

	op := vm.Decode(code[pc])
	ew.WriteString(op.String())
	if pc+vm.InstructionSize > len(code) {
		ew.WriteString(" ???")
		return len(code), ew.Err
	}
	k := pc + 1
	for _, a := range op.Operands() {
		switch a {
		case vm.ArgRegister:
			ew.WriteString(" $" + strconv.Itoa(int(code[k])))
			k++
		case vm.ArgImmediate:
			ew.WriteString(" #" + strconv.Itoa(int(uint16(code[k])<<8|uint16(code[k+1]))))
			k += 2
		}
	}
	return pc + vm.InstructionSize, ew.Err
}

// DisassembleAll writes a disassembly of all instructions in the given slice
// to the specified io.Writer. The base argument specifies the real address of
// the first byte (code[0]). It will return any write error.
func DisassembleAll(code []byte, base int, w io.Writer) error {
	ew := iio.NewErrWriter(w)
	for pc := 0; pc < len(code); {
		ew.Printf("% 6d\t", base+pc)
		pc, _ = Disassemble(code, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
