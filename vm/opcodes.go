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

package vm

import "strings"

// Opcode is the one byte operation selector at the head of each instruction.
type Opcode byte

// Iridium VM Opcodes.
const (
	OpHlt Opcode = iota
	OpLoad
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpJmp
	OpJmpf
	OpJmpb
	OpEq
	OpNeq
	OpGt
	OpLt
	OpGtq
	OpLtq
	OpJeq
	OpAloc
	OpInc
	OpDec

	// OpIllegal is returned by Decode for unmapped opcode bytes. It is never
	// emitted by the assembler.
	OpIllegal Opcode = 0xFF
)

// InstructionSize is the fixed size in bytes of an encoded instruction.
const InstructionSize = 4

// RegisterCount is the number of general purpose registers.
const RegisterCount = 32

// Operand kinds used in operand shapes.
const (
	ArgRegister  = 'r'
	ArgImmediate = 'i'
)

type opcodeInfo struct {
	names []string // canonical mnemonic first
	args  string   // operand shape, one ArgXXX per operand
}

var opcodes = [...]opcodeInfo{
	OpHlt:  {[]string{"hlt"}, ""},
	OpLoad: {[]string{"load"}, "ri"},
	OpAdd:  {[]string{"add"}, "rrr"},
	OpSub:  {[]string{"sub"}, "rrr"},
	OpMul:  {[]string{"mul"}, "rrr"},
	OpDiv:  {[]string{"div"}, "rrr"},
	OpJmp:  {[]string{"jmp"}, "r"},
	OpJmpf: {[]string{"jmpf"}, "r"},
	OpJmpb: {[]string{"jmpb"}, "r"},
	OpEq:   {[]string{"eq"}, "rr"},
	OpNeq:  {[]string{"neq"}, "rr"},
	OpGt:   {[]string{"gt"}, "rr"},
	OpLt:   {[]string{"lt"}, "rr"},
	OpGtq:  {[]string{"gtq", "gte"}, "rr"},
	OpLtq:  {[]string{"ltq", "lte"}, "rr"},
	OpJeq:  {[]string{"jmpe", "jeq"}, "r"},
	OpAloc: {[]string{"aloc"}, "r"},
	OpInc:  {[]string{"inc"}, "r"},
	OpDec:  {[]string{"dec"}, "r"},
}

var opcodeIndex = make(map[string]Opcode)

func init() {
	for i, v := range opcodes {
		for _, n := range v.names {
			opcodeIndex[n] = Opcode(i)
		}
	}
}

// Decode maps a raw byte to an Opcode. Unmapped values decode to OpIllegal.
func Decode(b byte) Opcode {
	if int(b) < len(opcodes) {
		return Opcode(b)
	}
	return OpIllegal
}

// LookupOpcode returns the opcode for the given mnemonic. The lookup is case
// insensitive.
func LookupOpcode(mnemonic string) (Opcode, bool) {
	op, ok := opcodeIndex[strings.ToLower(mnemonic)]
	return op, ok
}

// Valid returns true if op is a mapped opcode.
func (op Opcode) Valid() bool {
	return int(op) < len(opcodes)
}

// String returns the canonical mnemonic of op.
func (op Opcode) String() string {
	if !op.Valid() {
		return "igl"
	}
	return opcodes[op].names[0]
}

// Operands returns the operand shape of op: one of ArgRegister or ArgImmediate
// per expected operand.
func (op Opcode) Operands() string {
	if !op.Valid() {
		return ""
	}
	return opcodes[op].args
}
