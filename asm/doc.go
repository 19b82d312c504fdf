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

// Package asm provides a two-pass assembler and a disassembler for the Iridium
// VM.
//
// Supported assembler mnemonics:
//
//	opcode	asm		operands	description
//	------	---		--------	------------------------------------------------------
//	0	hlt				stop execution
//	1	load		$r #n		$r = n (16 bits, zero extended)
//	2	add		$a $b $d	$d = $a + $b
//	3	sub		$a $b $d	$d = $a - $b
//	4	mul		$a $b $d	$d = $a * $b
//	5	div		$a $b $d	$d = $a / $b, remainder register = $a % $b
//	6	jmp		$r		jump to absolute byte offset $r
//	7	jmpf		$r		jump forward $r bytes from the next instruction
//	8	jmpb		$r		jump backward $r bytes from the next instruction
//	9	eq		$a $b		equality flag = $a == $b
//	10	neq		$a $b		equality flag = $a != $b
//	11	gt		$a $b		equality flag = $a > $b
//	12	lt		$a $b		equality flag = $a < $b
//	13	gtq, gte	$a $b		equality flag = $a >= $b
//	14	ltq, lte	$a $b		equality flag = $a <= $b
//	15	jmpe, jeq	$r		jump to absolute byte offset $r if the equality flag is set
//	16	aloc		$r		grow the heap by $r zero bytes
//	17	inc		$r		$r = $r + 1
//	18	dec		$r		$r = $r - 1
//
// Every instruction is encoded on 4 bytes: the opcode followed by its operands,
// zero padded. Registers take one byte, immediates two bytes (big endian, the
// value is truncated to 16 bits) and label references one byte.
//
// Syntax:
//
//	[label:] mnemonic [operand [operand [operand]]]
//	[label:] .directive [operand [operand [operand]]]
//
// Operands are registers ($0 to $31), decimal integers (#100, #-1), label
// references (@loop) and string literals ('hello', no escape sequences). White
// space, including new lines, is not significant. Comments start with ';' and
// run to the end of the line. Mnemonics are case insensitive.
//
// Directives:
//
//	.code		start of the code section
//	.data		start of the read-only data section
//	.asciiz 's'	append the NUL terminated string s to the data segment
//
// Labels must be declared after a section header. A label on an instruction
// resolves to its byte offset in the code segment; a label on an .asciiz
// directive resolves to the string's offset in the data segment. Both address
// spaces are limited to 256 bytes since a label reference is encoded on a
// single byte.
//
// Labels can be used before they are declared: the first pass collects all
// symbols and the read-only data, and code is only generated once the symbol
// table is complete. Errors are collected and reported by pass, as an ErrAsm.
package asm
